package order

import (
	"database/sql"

	"go.uber.org/zap"

	"poboard/internal/config"
	"poboard/internal/order/controller"
	"poboard/internal/order/repository"
	"poboard/internal/order/service"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.OrderController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	itemRepo := repository.NewMySQLLineItemRepository(db)

	orderSvc := service.NewOrderService(db, orderRepo, itemRepo, logger)

	return controller.NewOrderController(
		orderSvc,
		logger,
		cfg.Orders.DefaultPageLimit,
		cfg.Orders.MaxPageLimit,
	)
}
