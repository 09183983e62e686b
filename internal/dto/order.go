package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"poboard/internal/domain"
)

type GeneratedByDTO struct {
	Username   string `json:"username"`
	EmployeeID string `json:"employeeId"`
}

type LineItemDTO struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Remark   *string         `json:"remark,omitempty"`
}

type OrderDTO struct {
	ID                    uint            `json:"id"`
	OrderNumber           string          `json:"orderNumber"`
	CompanyName           string          `json:"companyName"`
	ClientName            string          `json:"clientName"`
	Status                string          `json:"status"`
	IsDeleted             bool            `json:"isDeleted"`
	GeneratedBy           GeneratedByDTO  `json:"generatedBy"`
	OrderThrough          *string         `json:"orderThrough,omitempty"`
	Products              []LineItemDTO   `json:"products"`
	Total                 decimal.Decimal `json:"total"`
	OrderDate             *time.Time      `json:"orderDate,omitempty"`
	EstimatedDispatchDate *time.Time      `json:"estimatedDispatchDate,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

func NewOrderDTO(o domain.Order) OrderDTO {
	products := make([]LineItemDTO, len(o.Items))
	for i, li := range o.Items {
		products[i] = LineItemDTO{
			Name:     li.Name,
			Quantity: li.Quantity,
			Price:    li.UnitPrice,
			Remark:   li.Remark,
		}
	}
	return OrderDTO{
		ID:                    o.ID,
		OrderNumber:           o.OrderNumber,
		CompanyName:           o.CompanyName,
		ClientName:            o.ClientName,
		Status:                string(o.Status),
		IsDeleted:             o.IsDeleted,
		GeneratedBy:           GeneratedByDTO{Username: o.GeneratedBy.Username, EmployeeID: o.GeneratedBy.EmployeeID},
		OrderThrough:          o.OrderThrough,
		Products:              products,
		Total:                 o.Total(),
		OrderDate:             o.OrderDate,
		EstimatedDispatchDate: o.EstimatedDispatchDate,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}

func NewOrderDTOs(orders []domain.Order) []OrderDTO {
	out := make([]OrderDTO, len(orders))
	for i, o := range orders {
		out[i] = NewOrderDTO(o)
	}
	return out
}

func (d OrderDTO) ToDomain() domain.Order {
	items := make([]domain.LineItem, len(d.Products))
	for i, p := range d.Products {
		items[i] = domain.LineItem{
			OrderID:   d.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			UnitPrice: p.Price,
			Remark:    p.Remark,
		}
	}
	return domain.Order{
		ID:                    d.ID,
		OrderNumber:           d.OrderNumber,
		CompanyName:           d.CompanyName,
		ClientName:            d.ClientName,
		Status:                domain.OrderStatus(d.Status),
		IsDeleted:             d.IsDeleted,
		GeneratedBy:           domain.GeneratedBy{Username: d.GeneratedBy.Username, EmployeeID: d.GeneratedBy.EmployeeID},
		OrderThrough:          d.OrderThrough,
		Items:                 items,
		OrderDate:             d.OrderDate,
		EstimatedDispatchDate: d.EstimatedDispatchDate,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func ToDomainOrders(dtos []OrderDTO) []domain.Order {
	out := make([]domain.Order, len(dtos))
	for i, d := range dtos {
		out[i] = d.ToDomain()
	}
	return out
}
