package dto

import "poboard/internal/domain"

type PaginationDTO struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalOrders int `json:"totalOrders"`
	Limit       int `json:"limit"`
}

func NewPaginationDTO(p domain.Pagination) PaginationDTO {
	return PaginationDTO{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalOrders: p.TotalOrders,
		Limit:       p.Limit,
	}
}

func (d PaginationDTO) ToDomain() domain.Pagination {
	return domain.Pagination{
		CurrentPage: d.CurrentPage,
		TotalPages:  d.TotalPages,
		TotalOrders: d.TotalOrders,
		Limit:       d.Limit,
	}
}

type ListOrdersData struct {
	Orders     []OrderDTO    `json:"orders"`
	Pagination PaginationDTO `json:"pagination"`
}

type ListOrdersResponse struct {
	Success bool           `json:"success"`
	Data    ListOrdersData `json:"data"`
}

type OrdersResponse struct {
	Success bool       `json:"success"`
	Data    []OrderDTO `json:"data"`
}

type StatusCountsData struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Delayed   int `json:"delayed"`
	Rejected  int `json:"rejected"`
}

type StatusCountsResponse struct {
	Success bool             `json:"success"`
	Data    StatusCountsData `json:"data"`
}

func NewStatusCountsData(c domain.StatusCounts) StatusCountsData {
	return StatusCountsData{
		Total:     c.Total,
		Pending:   c.Pending,
		Completed: c.Completed,
		Delayed:   c.Delayed,
		Rejected:  c.Rejected,
	}
}

func (d StatusCountsData) ToDomain() domain.StatusCounts {
	return domain.StatusCounts{
		Total:     d.Total,
		Pending:   d.Pending,
		Completed: d.Completed,
		Delayed:   d.Delayed,
		Rejected:  d.Rejected,
	}
}
