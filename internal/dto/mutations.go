package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BatchRequest carries the ids for the batch restore / permanent-delete
// endpoints.
type BatchRequest struct {
	IDs []uint `json:"ids"`
}

type CreateLineItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Remark   *string         `json:"remark,omitempty"`
}

type CreateOrderRequest struct {
	OrderNumber           string           `json:"orderNumber"`
	CompanyName           string           `json:"companyName"`
	ClientName            string           `json:"clientName"`
	GeneratedBy           GeneratedByDTO   `json:"generatedBy"`
	OrderThrough          *string          `json:"orderThrough,omitempty"`
	Products              []CreateLineItem `json:"products"`
	OrderDate             *time.Time       `json:"orderDate,omitempty"`
	EstimatedDispatchDate *time.Time       `json:"estimatedDispatchDate,omitempty"`
}

type CreateOrderResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    OrderDTO `json:"data"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
