package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"poboard/internal/domain"
	"poboard/internal/dto"
	apperrors "poboard/internal/errors"
)

const dateLayout = "2006-01-02"

type OrderService interface {
	List(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error)
	Search(ctx context.Context, query string, dates domain.DateRange, status domain.StatusFilter) ([]domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	RestoreBatch(ctx context.Context, ids []uint) error
	DeletePermanently(ctx context.Context, id uint) error
	DeleteBatchPermanently(ctx context.Context, ids []uint) error
	RecycleBin(ctx context.Context) ([]domain.Order, error)
	StatusCounts(ctx context.Context) (domain.StatusCounts, error)
}

type OrderController struct {
	service      OrderService
	logger       *zap.Logger
	defaultLimit int
	maxLimit     int
}

func NewOrderController(service OrderService, logger *zap.Logger, defaultLimit, maxLimit int) *OrderController {
	return &OrderController{
		service:      service,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (c *OrderController) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/get-all-orders", c.GetAllOrders)
	r.Get("/search-order", c.SearchOrders)
	r.Post("/create-order", c.CreateOrder)
	r.Patch("/update-status/{id}", c.UpdateStatus)
	r.Delete("/delete-order/{id}", c.SoftDeleteOrder)
	r.Post("/user-restore-order/{id}", c.RestoreOrder)
	r.Post("/restore-orders/", c.RestoreOrders)
	r.Delete("/user-delete-permanently/{id}", c.DeleteOrderPermanently)
	r.Delete("/delete-orders-permanently/", c.DeleteOrdersPermanently)
	r.Get("/user-recycle-bin-order/", c.RecycleBin)
	r.Get("/order-counts", c.OrderCounts)
	return r
}

func (c *OrderController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	filter, validationErr := c.parseListFilter(r)
	if validationErr != nil {
		logger.Warn("invalid list filter", zap.Error(validationErr))
		c.writeValidationError(w, validationErr.Message, validationErr.Details...)
		return
	}

	orders, pagination, err := c.service.List(r.Context(), filter)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.ListOrdersResponse{
		Success: true,
		Data: dto.ListOrdersData{
			Orders:     dto.NewOrderDTOs(orders),
			Pagination: dto.NewPaginationDTO(pagination),
		},
	})
}

func (c *OrderController) SearchOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var details []apperrors.ValidationDetail

	status, err := domain.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: err.Error()})
	}

	dates, dateDetails := parseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"), "startDate", "endDate")
	details = append(details, dateDetails...)

	if len(details) > 0 {
		logger.Warn("invalid search parameters")
		c.writeValidationError(w, "validation failed", details...)
		return
	}

	orders, err := c.service.Search(r.Context(), r.URL.Query().Get("query"), dates, status)
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	// The search endpoint returns a bare array, unlike the enveloped listing.
	c.writeJSON(w, http.StatusOK, dto.NewOrderDTOs(orders))
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if validationErr := validateCreateOrderRequest(req); validationErr != nil {
		c.writeValidationError(w, validationErr.Message, validationErr.Details...)
		return
	}

	items := make([]domain.LineItem, len(req.Products))
	for i, p := range req.Products {
		items[i] = domain.LineItem{
			Name:      p.Name,
			Quantity:  p.Quantity,
			UnitPrice: p.Price,
			Remark:    p.Remark,
		}
	}

	order := &domain.Order{
		OrderNumber:           req.OrderNumber,
		CompanyName:           req.CompanyName,
		ClientName:            req.ClientName,
		Status:                domain.OrderStatusPending,
		GeneratedBy:           domain.GeneratedBy{Username: req.GeneratedBy.Username, EmployeeID: req.GeneratedBy.EmployeeID},
		OrderThrough:          req.OrderThrough,
		Items:                 items,
		OrderDate:             req.OrderDate,
		EstimatedDispatchDate: req.EstimatedDispatchDate,
	}

	if err := c.service.Create(r.Context(), order); err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.CreateOrderResponse{
		Success: true,
		Message: "order created",
		Data:    dto.NewOrderDTO(*order),
	})
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := c.parseID(w, r, logger)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
			Field:   "status",
			Message: err.Error(),
		})
		return
	}

	if err := c.service.UpdateStatus(r.Context(), id, status); err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MutationResponse{Success: true, Message: "order status updated"})
}

func (c *OrderController) SoftDeleteOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := c.parseID(w, r, logger)
	if !ok {
		return
	}

	if err := c.service.SoftDelete(r.Context(), id); err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MutationResponse{Success: true, Message: "order moved to recycle bin"})
}

func (c *OrderController) RestoreOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := c.parseID(w, r, logger)
	if !ok {
		return
	}

	if err := c.service.Restore(r.Context(), id); err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MutationResponse{Success: true, Message: "order restored"})
}

func (c *OrderController) RestoreOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	ids, ok := c.parseBatch(w, r, logger)
	if !ok {
		return
	}

	if err := c.service.RestoreBatch(r.Context(), ids); err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MutationResponse{Success: true, Message: "orders restored"})
}

func (c *OrderController) DeleteOrderPermanently(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, ok := c.parseID(w, r, logger)
	if !ok {
		return
	}

	if err := c.service.DeletePermanently(r.Context(), id); err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MutationResponse{Success: true, Message: "order permanently deleted"})
}

func (c *OrderController) DeleteOrdersPermanently(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	ids, ok := c.parseBatch(w, r, logger)
	if !ok {
		return
	}

	if err := c.service.DeleteBatchPermanently(r.Context(), ids); err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.MutationResponse{Success: true, Message: "orders permanently deleted"})
}

func (c *OrderController) RecycleBin(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orders, err := c.service.RecycleBin(r.Context())
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrdersResponse{Success: true, Data: dto.NewOrderDTOs(orders)})
}

func (c *OrderController) OrderCounts(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	counts, err := c.service.StatusCounts(r.Context())
	if err != nil {
		c.handleServiceError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.StatusCountsResponse{Success: true, Data: dto.NewStatusCountsData(counts)})
}

func (c *OrderController) parseListFilter(r *http.Request) (domain.ListFilter, *apperrors.ValidationError) {
	q := r.URL.Query()
	var details []apperrors.ValidationDetail

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			details = append(details, apperrors.ValidationDetail{Field: "page", Message: "page must be a positive integer"})
		} else {
			page = n
		}
	}

	limit := c.defaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > c.maxLimit {
			details = append(details, apperrors.ValidationDetail{
				Field:   "limit",
				Message: "limit must be between 1 and " + strconv.Itoa(c.maxLimit),
			})
		} else {
			limit = n
		}
	}

	status, err := domain.ParseStatusFilter(q.Get("status"))
	if err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "status", Message: err.Error()})
	}

	dates, dateDetails := parseDateRange(q.Get("fromDate"), q.Get("toDate"), "fromDate", "toDate")
	details = append(details, dateDetails...)

	if len(details) > 0 {
		return domain.ListFilter{}, apperrors.NewValidationError("validation failed", details...)
	}

	return domain.ListFilter{
		Status: status,
		Search: q.Get("search"),
		Dates:  dates,
		Page:   page,
		Limit:  limit,
	}, nil
}

func parseDateRange(fromRaw, toRaw, fromField, toField string) (domain.DateRange, []apperrors.ValidationDetail) {
	var details []apperrors.ValidationDetail
	var dates domain.DateRange

	if fromRaw != "" {
		t, err := time.Parse(dateLayout, fromRaw)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   fromField,
				Message: fromField + " must be a date in YYYY-MM-DD format",
			})
		} else {
			dates.From = &t
		}
	}
	if toRaw != "" {
		t, err := time.Parse(dateLayout, toRaw)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   toField,
				Message: toField + " must be a date in YYYY-MM-DD format",
			})
		} else {
			dates.To = &t
		}
	}

	if len(details) == 0 {
		if err := dates.Validate(time.Now()); err != nil {
			if ve, ok := apperrors.IsValidationError(err); ok {
				details = append(details, ve.Details...)
			}
		}
	}

	return dates, details
}

func validateCreateOrderRequest(req dto.CreateOrderRequest) *apperrors.ValidationError {
	var details []apperrors.ValidationDetail

	if req.OrderNumber == "" {
		details = append(details, apperrors.ValidationDetail{Field: "orderNumber", Message: "orderNumber is required"})
	}
	if req.CompanyName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "companyName", Message: "companyName is required"})
	}
	if req.ClientName == "" {
		details = append(details, apperrors.ValidationDetail{Field: "clientName", Message: "clientName is required"})
	}
	if req.GeneratedBy.Username == "" {
		details = append(details, apperrors.ValidationDetail{Field: "generatedBy.username", Message: "generatedBy.username is required"})
	}
	if len(req.Products) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "products", Message: "products must not be empty"})
	}

	for idx, p := range req.Products {
		if p.Name == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "products[" + strconv.Itoa(idx) + "].name",
				Message: "each product needs a name",
			})
		}
		if p.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "products[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be at least 1",
			})
		}
		if p.Price.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field:   "products[" + strconv.Itoa(idx) + "].price",
				Message: "price must be non-negative",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (c *OrderController) parseID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		logger.Warn("invalid id in path", zap.String("id", raw))
		c.writeValidationError(w, "invalid id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

func (c *OrderController) parseBatch(w http.ResponseWriter, r *http.Request, logger *zap.Logger) ([]uint, bool) {
	var req dto.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return nil, false
	}
	return req.IDs, true
}

func (c *OrderController) handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type validationErrorResponse struct {
	Success bool                         `json:"success"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	response := validationErrorResponse{
		Success: false,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}

	c.writeJSON(w, http.StatusBadRequest, response)
}

type errorResponse struct {
	Success   bool      `json:"success"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *OrderController) writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	response := errorResponse{
		Success:   false,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	c.writeJSON(w, statusCode, response)
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
