package browse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"poboard/internal/domain"
	"poboard/internal/dto"
	apperrors "poboard/internal/errors"
)

const clientDateLayout = "2006-01-02"

// Client talks to the order backend. Transport failures surface as
// UnavailableError, non-2xx answers as RejectionError carrying the server
// message; both are retryable only by re-triggering the action.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) ListOrders(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(f.Page))
	query.Set("limit", strconv.Itoa(f.Limit))
	if f.Status != "" && f.Status != domain.StatusFilterAll {
		query.Set("status", f.Status.String())
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Dates.From != nil {
		query.Set("fromDate", f.Dates.From.Format(clientDateLayout))
	}
	if f.Dates.To != nil {
		query.Set("toDate", f.Dates.To.Format(clientDateLayout))
	}

	var resp dto.ListOrdersResponse
	if err := c.do(ctx, http.MethodGet, "/order/api/get-all-orders", query, nil, &resp); err != nil {
		return nil, domain.Pagination{}, err
	}

	return dto.ToDomainOrders(resp.Data.Orders), resp.Data.Pagination.ToDomain(), nil
}

func (c *Client) SearchOrders(ctx context.Context, search string, dates domain.DateRange, status domain.StatusFilter) ([]domain.Order, error) {
	query := url.Values{}
	if search != "" {
		query.Set("query", search)
	}
	if status != "" && status != domain.StatusFilterAll {
		query.Set("status", status.String())
	}
	if dates.From != nil {
		query.Set("startDate", dates.From.Format(clientDateLayout))
	}
	if dates.To != nil {
		query.Set("endDate", dates.To.Format(clientDateLayout))
	}

	var orders []dto.OrderDTO
	if err := c.do(ctx, http.MethodGet, "/order/api/search-order", query, nil, &orders); err != nil {
		return nil, err
	}

	return dto.ToDomainOrders(orders), nil
}

func (c *Client) SoftDelete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/order/api/delete-order/%d", id), nil, nil, nil)
}

func (c *Client) Restore(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/order/api/user-restore-order/%d", id), nil, nil, nil)
}

func (c *Client) RestoreMany(ctx context.Context, ids []uint) error {
	return c.do(ctx, http.MethodPost, "/order/api/restore-orders/", nil, dto.BatchRequest{IDs: ids}, nil)
}

func (c *Client) DeletePermanently(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/order/api/user-delete-permanently/%d", id), nil, nil, nil)
}

func (c *Client) DeleteManyPermanently(ctx context.Context, ids []uint) error {
	return c.do(ctx, http.MethodDelete, "/order/api/delete-orders-permanently/", nil, dto.BatchRequest{IDs: ids}, nil)
}

func (c *Client) RecycleBin(ctx context.Context) ([]domain.Order, error) {
	var resp dto.OrdersResponse
	if err := c.do(ctx, http.MethodGet, "/order/api/user-recycle-bin-order/", nil, nil, &resp); err != nil {
		return nil, err
	}

	return dto.ToDomainOrders(resp.Data), nil
}

func (c *Client) StatusCounts(ctx context.Context) (domain.StatusCounts, error) {
	var resp dto.StatusCountsResponse
	if err := c.do(ctx, http.MethodGet, "/order/api/order-counts", nil, nil, &resp); err != nil {
		return domain.StatusCounts{}, err
	}

	return resp.Data.ToDomain(), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewUnavailableError("request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewUnavailableError("reading response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewRejectionError(resp.StatusCode, serverMessage(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func serverMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}
