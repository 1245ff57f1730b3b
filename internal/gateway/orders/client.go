package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"angdelivery/internal/apperr"
	"angdelivery/internal/domain"
	"angdelivery/internal/logx"
)

// Client calls the remote order service. Reads use query parameters,
// creation is a plain POST, mutations are PUTs with the verb in the body.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  logx.Logger
}

// NewClient creates an order service client. A nil http.Client falls back
// to a default one without an explicit timeout.
func NewClient(baseURL string, hc *http.Client, logger logx.Logger) *Client {
	if baseURL == "" {
		return nil
	}
	if hc == nil {
		hc = &http.Client{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Client{baseURL: baseURL, hc: hc, logger: logger}
}

type orderDTO struct {
	ID          int64              `json:"id"`
	OrderNumber string             `json:"orderNumber"`
	Type        domain.OrderType   `json:"type"`
	ClientID    *int64             `json:"clientId"`
	CourierID   *int64             `json:"courierId"`
	FromAddress string             `json:"fromAddress"`
	ToAddress   string             `json:"toAddress"`
	Items       string             `json:"items"`
	Status      domain.OrderStatus `json:"status"`
	Rating      *int               `json:"rating"`
	Review      *string            `json:"review"`
	Restaurant  *string            `json:"restaurant"`
	CreatedAt   *string            `json:"createdAt"`
}

func (dto orderDTO) toDomain() domain.Order {
	o := domain.Order{
		ID:          dto.ID,
		OrderNumber: dto.OrderNumber,
		Type:        dto.Type,
		ClientID:    dto.ClientID,
		CourierID:   dto.CourierID,
		FromAddress: dto.FromAddress,
		ToAddress:   dto.ToAddress,
		Items:       dto.Items,
		Status:      dto.Status,
		Rating:      dto.Rating,
	}
	if dto.Review != nil {
		o.Review = *dto.Review
	}
	if dto.Restaurant != nil {
		o.Restaurant = *dto.Restaurant
	}
	if dto.CreatedAt != nil {
		o.CreatedAt = *dto.CreatedAt
	}
	return o
}

// List fetches orders matching the filter. This is the only call whose
// request shape varies: each set filter field becomes a query parameter.
func (c *Client) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	q := url.Values{}
	if f.ClientID != nil {
		q.Set("clientId", strconv.FormatInt(*f.ClientID, 10))
	}
	if f.CourierID != nil {
		q.Set("courierId", strconv.FormatInt(*f.CourierID, 10))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	u := c.baseURL
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("order gateway: list: %w: %w", apperr.Unavailable, err)
	}
	httpResp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order gateway: list: %w: %w", apperr.Unavailable, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order gateway: list: %w: status %d", apperr.Unavailable, httpResp.StatusCode)
	}

	var body struct {
		Orders []orderDTO `json:"orders"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("order gateway: list: %w: decode response: %w", apperr.Unavailable, err)
	}

	orders := make([]domain.Order, 0, len(body.Orders))
	for _, dto := range body.Orders {
		orders = append(orders, dto.toDomain())
	}
	return orders, nil
}

type createRequest struct {
	Type        domain.OrderType `json:"type"`
	ClientID    int64            `json:"clientId"`
	FromAddress string           `json:"fromAddress"`
	ToAddress   string           `json:"toAddress"`
	Items       string           `json:"items"`
	Restaurant  *string          `json:"restaurant"`
}

// Create submits a new order for the given client. Restaurant is sent only
// for food orders; delivery orders carry an explicit null.
func (c *Client) Create(ctx context.Context, draft domain.OrderDraft, clientID int64) (domain.OrderReceipt, error) {
	req := createRequest{
		Type:        draft.Type,
		ClientID:    clientID,
		FromAddress: draft.FromAddress,
		ToAddress:   draft.ToAddress,
		Items:       draft.Items,
	}
	if draft.Type == domain.TypeFood && draft.Restaurant != "" {
		req.Restaurant = &draft.Restaurant
	}

	resp, err := c.send(ctx, http.MethodPost, req)
	if err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("order gateway: create: %w", err)
	}
	return domain.OrderReceipt{
		OrderID:     resp.OrderID,
		OrderNumber: resp.OrderNumber,
	}, nil
}

type mutateRequest struct {
	Action    string             `json:"action"`
	OrderID   int64              `json:"orderId"`
	CourierID *int64             `json:"courierId,omitempty"`
	Status    domain.OrderStatus `json:"status,omitempty"`
	Rating    *int               `json:"rating,omitempty"`
	Review    string             `json:"review,omitempty"`
}

// Accept assigns the order to the courier and moves it to accepted.
func (c *Client) Accept(ctx context.Context, orderID, courierID int64) error {
	_, err := c.send(ctx, http.MethodPut, mutateRequest{
		Action:    "accept",
		OrderID:   orderID,
		CourierID: &courierID,
	})
	if err != nil {
		return fmt.Errorf("order gateway: accept: %w", err)
	}
	return nil
}

// UpdateStatus sets the order status. Transition legality is the server's
// call, not checked here.
func (c *Client) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	_, err := c.send(ctx, http.MethodPut, mutateRequest{
		Action:  "updateStatus",
		OrderID: orderID,
		Status:  status,
	})
	if err != nil {
		return fmt.Errorf("order gateway: update status: %w", err)
	}
	return nil
}

// Rate records a rating and an optional review for the order.
func (c *Client) Rate(ctx context.Context, orderID int64, rating int, review string) error {
	_, err := c.send(ctx, http.MethodPut, mutateRequest{
		Action:  "rate",
		OrderID: orderID,
		Rating:  &rating,
		Review:  review,
	})
	if err != nil {
		return fmt.Errorf("order gateway: rate: %w", err)
	}
	return nil
}

type mutateResponse struct {
	Success     bool   `json:"success"`
	OrderID     int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Error       string `json:"error"`
}

func (c *Client) send(ctx context.Context, method string, body any) (*mutateResponse, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", apperr.Unavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", apperr.Unavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.Unavailable, err)
	}
	defer httpResp.Body.Close()

	var resp mutateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", apperr.Unavailable, err)
	}
	if err := statusToError(httpResp.StatusCode, resp.Error); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: service reported failure", apperr.Unavailable)
	}
	return &resp, nil
}

// statusToError maps remote HTTP statuses onto the local error taxonomy.
func statusToError(code int, msg string) error {
	var kind error
	switch {
	case code < http.StatusBadRequest:
		return nil
	case code == http.StatusBadRequest:
		kind = apperr.Invalid
	case code == http.StatusNotFound:
		kind = apperr.NotFound
	case code == http.StatusConflict:
		kind = apperr.Conflict
	default:
		kind = apperr.Unavailable
	}
	if msg == "" {
		return fmt.Errorf("%w: status %d", kind, code)
	}
	return fmt.Errorf("%w: %s", kind, msg)
}
