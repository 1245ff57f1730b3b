package auth

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

// Client calls the remote auth service. The service exposes a single
// endpoint with the verb carried in the request body.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  logx.Logger
}

// NewClient creates an auth service client. A nil http.Client falls back to
// a default one without an explicit timeout; the transport default governs.
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

type authRequest struct {
	Action   string      `json:"action"`
	Phone    string      `json:"phone,omitempty"`
	Password string      `json:"password,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
	Name     string      `json:"name,omitempty"`
	QRCode   string      `json:"qrCode,omitempty"`
}

type authResponse struct {
	Success bool        `json:"success"`
	UserID  int64       `json:"userId"`
	Phone   string      `json:"phone"`
	Role    domain.Role `json:"role"`
	Name    string      `json:"name"`
	QRCode  string      `json:"qrCode"`
	Error   string      `json:"error"`
}

// Register creates an account and returns the issued profile. The service
// does not echo phone and name back on registration, so the submitted
// values are kept.
func (c *Client) Register(ctx context.Context, phone, password, name string, role domain.Role) (domain.User, error) {
	resp, err := c.post(ctx, authRequest{
		Action:   "register",
		Phone:    phone,
		Password: password,
		Role:     role,
		Name:     name,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("auth gateway: register: %w", err)
	}
	u := domain.User{
		ID:     resp.UserID,
		Phone:  phone,
		Role:   resp.Role,
		Name:   name,
		QRCode: resp.QRCode,
	}
	if u.Role == "" {
		u.Role = role
	}
	return u, nil
}

// Login exchanges phone and password for a session profile.
func (c *Client) Login(ctx context.Context, phone, password string) (domain.User, error) {
	resp, err := c.post(ctx, authRequest{
		Action:   "login",
		Phone:    phone,
		Password: password,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("auth gateway: login: %w", err)
	}
	u := domain.User{
		ID:    resp.UserID,
		Phone: resp.Phone,
		Role:  resp.Role,
		Name:  resp.Name,
	}
	if u.Phone == "" {
		u.Phone = phone
	}
	return u, nil
}

// LoginByQR exchanges a pre-issued QR token for a session profile.
func (c *Client) LoginByQR(ctx context.Context, qrCode string) (domain.User, error) {
	resp, err := c.post(ctx, authRequest{
		Action: "login",
		QRCode: qrCode,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("auth gateway: login by qr: %w", err)
	}
	return domain.User{
		ID:    resp.UserID,
		Phone: resp.Phone,
		Role:  resp.Role,
		Name:  resp.Name,
	}, nil
}

type userDTO struct {
	ID     int64       `json:"id"`
	Phone  string      `json:"phone"`
	Role   domain.Role `json:"role"`
	Name   string      `json:"name"`
	QRCode string      `json:"qrCode"`
}

// Profile fetches a single account by ID.
func (c *Client) Profile(ctx context.Context, userID int64) (domain.User, error) {
	u := c.baseURL + "?userId=" + url.QueryEscape(strconv.FormatInt(userID, 10))

	var dto userDTO
	if err := c.get(ctx, u, &dto); err != nil {
		return domain.User{}, fmt.Errorf("auth gateway: profile: %w", err)
	}
	return domain.User{
		ID:     dto.ID,
		Phone:  dto.Phone,
		Role:   dto.Role,
		Name:   dto.Name,
		QRCode: dto.QRCode,
	}, nil
}

// ListUsers fetches all accounts, newest first.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var body struct {
		Users []userDTO `json:"users"`
	}
	if err := c.get(ctx, c.baseURL, &body); err != nil {
		return nil, fmt.Errorf("auth gateway: list users: %w", err)
	}
	users := make([]domain.User, 0, len(body.Users))
	for _, dto := range body.Users {
		users = append(users, domain.User{
			ID:    dto.ID,
			Phone: dto.Phone,
			Role:  dto.Role,
			Name:  dto.Name,
		})
	}
	return users, nil
}

func (c *Client) post(ctx context.Context, reqBody authRequest) (*authResponse, error) {
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", apperr.Unavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", apperr.Unavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.Unavailable, err)
	}
	defer httpResp.Body.Close()

	var resp authResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", apperr.Unavailable, err)
	}

	switch {
	case httpResp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d: %s", apperr.Unavailable, httpResp.StatusCode, resp.Error)
	case resp.Error != "" || httpResp.StatusCode >= http.StatusBadRequest:
		msg := resp.Error
		if msg == "" {
			msg = httpResp.Status
		}
		return nil, fmt.Errorf("%w: %s", apperr.AuthFailed, msg)
	case !resp.Success && resp.UserID == 0:
		return nil, apperr.AuthFailed
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", apperr.Unavailable, err)
	}

	httpResp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.Unavailable, err)
	}
	defer httpResp.Body.Close()

	switch {
	case httpResp.StatusCode == http.StatusNotFound:
		return apperr.NotFound
	case httpResp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", apperr.Unavailable, httpResp.StatusCode)
	}
	if err := json.NewDecoder(httpResp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode response: %w", apperr.Unavailable, err)
	}
	return nil
}
