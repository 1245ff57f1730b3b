package stub

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"angdelivery/internal/apperr"
	"angdelivery/internal/domain"
	"angdelivery/internal/logx"
)

// Handlers emulates the two remote services for local development and
// end-to-end tests: a verb-in-body auth endpoint and an order endpoint
// driven by method plus an action field.
type Handlers struct {
	store  *Store
	logger logx.Logger
}

// NewHandlers wires a store into the stub HTTP handlers.
func NewHandlers(store *Store, logger logx.Logger) *Handlers {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Handlers{store: store, logger: logger}
}

type authRequest struct {
	Action   string      `json:"action"`
	Phone    string      `json:"phone"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
	Name     string      `json:"name"`
	QRCode   string      `json:"qrCode"`
}

// AuthPost handles POST /auth: register and login (password or QR).
func (h *Handlers) AuthPost(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	switch req.Action {
	case "register":
		h.register(w, req)
	case "login":
		h.login(w, req)
	default:
		writeError(h.logger, w, http.StatusBadRequest, "unknown action")
	}
}

func (h *Handlers) register(w http.ResponseWriter, req authRequest) {
	if req.Phone == "" || req.Password == "" {
		writeError(h.logger, w, http.StatusBadRequest, "phone and password are required")
		return
	}
	role := req.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !role.Valid() {
		writeError(h.logger, w, http.StatusBadRequest, "unknown role")
		return
	}

	u, err := h.store.CreateUser(req.Phone, req.Password, role, req.Name)
	switch {
	case err == nil:
	case errors.Is(err, apperr.Conflict):
		writeError(h.logger, w, http.StatusConflict, "phone already registered")
		return
	default:
		writeError(h.logger, w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, map[string]any{
		"success": true,
		"userId":  u.ID,
		"role":    u.Role,
		"qrCode":  nullableString(u.QRCode),
	})
}

func (h *Handlers) login(w http.ResponseWriter, req authRequest) {
	var (
		u  StoredUser
		ok bool
	)
	switch {
	case req.QRCode != "":
		u, ok = h.store.AuthenticateQR(req.QRCode)
	case req.Phone != "" && req.Password != "":
		u, ok = h.store.Authenticate(req.Phone, req.Password)
	default:
		writeError(h.logger, w, http.StatusBadRequest, "phone and password or qr code are required")
		return
	}
	if !ok {
		writeError(h.logger, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, map[string]any{
		"success": true,
		"userId":  u.ID,
		"phone":   u.Phone,
		"role":    u.Role,
		"name":    u.Name,
	})
}

// AuthGet handles GET /auth: a single profile with ?userId=, the full
// account listing otherwise.
func (h *Handlers) AuthGet(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(h.logger, w, http.StatusBadRequest, "invalid userId")
			return
		}
		u, ok := h.store.UserByID(id)
		if !ok {
			writeError(h.logger, w, http.StatusNotFound, "user not found")
			return
		}
		writeJSON(h.logger, w, http.StatusOK, map[string]any{
			"id":     u.ID,
			"phone":  u.Phone,
			"role":   u.Role,
			"name":   u.Name,
			"qrCode": nullableString(u.QRCode),
		})
		return
	}

	users := h.store.Users()
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{
			"id":        u.ID,
			"phone":     u.Phone,
			"role":      u.Role,
			"name":      u.Name,
			"createdAt": u.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(h.logger, w, http.StatusOK, map[string]any{"users": out})
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
	Restaurant  *string            `json:"restaurant"`
	Status      domain.OrderStatus `json:"status"`
	Rating      *int               `json:"rating"`
	Review      *string            `json:"review"`
	CreatedAt   string             `json:"createdAt"`
}

func toOrderDTO(o StoredOrder) orderDTO {
	return orderDTO{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Type:        o.Type,
		ClientID:    o.ClientID,
		CourierID:   o.CourierID,
		FromAddress: o.FromAddress,
		ToAddress:   o.ToAddress,
		Items:       o.Items,
		Restaurant:  nullableString(o.Restaurant),
		Status:      o.Status,
		Rating:      o.Rating,
		Review:      nullableString(o.Review),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
}

// OrdersGet handles GET /orders with optional clientId, courierId and
// status query filters.
func (h *Handlers) OrdersGet(w http.ResponseWriter, r *http.Request) {
	var f domain.OrderFilter
	q := r.URL.Query()

	if raw := q.Get("clientId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(h.logger, w, http.StatusBadRequest, "invalid clientId")
			return
		}
		f.ClientID = &id
	}
	if raw := q.Get("courierId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(h.logger, w, http.StatusBadRequest, "invalid courierId")
			return
		}
		f.CourierID = &id
	}
	if raw := q.Get("status"); raw != "" {
		f.Status = domain.OrderStatus(raw)
	}

	orders := h.store.Orders(f)
	out := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	writeJSON(h.logger, w, http.StatusOK, map[string]any{"orders": out})
}

type createOrderRequest struct {
	Type        domain.OrderType `json:"type"`
	ClientID    *int64           `json:"clientId"`
	FromAddress string           `json:"fromAddress"`
	ToAddress   string           `json:"toAddress"`
	Items       string           `json:"items"`
	Restaurant  *string          `json:"restaurant"`
}

// OrdersPost handles POST /orders.
func (h *Handlers) OrdersPost(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	if req.Type == "" || req.FromAddress == "" || req.ToAddress == "" || req.Items == "" {
		writeError(h.logger, w, http.StatusBadRequest, "all fields are required")
		return
	}
	if !req.Type.Valid() {
		writeError(h.logger, w, http.StatusBadRequest, "unknown order type")
		return
	}

	restaurant := ""
	if req.Restaurant != nil {
		restaurant = *req.Restaurant
	}
	o := h.store.CreateOrder(req.Type, req.ClientID, req.FromAddress, req.ToAddress, req.Items, restaurant)

	writeJSON(h.logger, w, http.StatusOK, map[string]any{
		"success":     true,
		"orderId":     o.ID,
		"orderNumber": o.OrderNumber,
	})
}

type mutateOrderRequest struct {
	Action    string             `json:"action"`
	OrderID   int64              `json:"orderId"`
	CourierID *int64             `json:"courierId"`
	Status    domain.OrderStatus `json:"status"`
	Rating    *int               `json:"rating"`
	Review    string             `json:"review"`
}

// OrdersPut handles PUT /orders with accept, updateStatus and rate actions.
func (h *Handlers) OrdersPut(w http.ResponseWriter, r *http.Request) {
	var req mutateOrderRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	if req.OrderID <= 0 {
		writeError(h.logger, w, http.StatusBadRequest, "invalid orderId")
		return
	}

	var err error
	switch req.Action {
	case "accept":
		if req.CourierID == nil {
			writeError(h.logger, w, http.StatusBadRequest, "courierId is required")
			return
		}
		err = h.store.AcceptOrder(req.OrderID, *req.CourierID)
	case "updateStatus":
		if !req.Status.Valid() {
			writeError(h.logger, w, http.StatusBadRequest, "unknown status")
			return
		}
		err = h.store.UpdateOrderStatus(req.OrderID, req.Status)
	case "rate":
		if req.Rating == nil || !domain.ValidRating(*req.Rating) {
			writeError(h.logger, w, http.StatusBadRequest, "rating must be between 1 and 5")
			return
		}
		err = h.store.RateOrder(req.OrderID, *req.Rating, req.Review)
	default:
		writeError(h.logger, w, http.StatusBadRequest, "unknown action")
		return
	}

	switch {
	case err == nil:
		writeJSON(h.logger, w, http.StatusOK, map[string]any{"success": true})
	case errors.Is(err, apperr.NotFound):
		writeError(h.logger, w, http.StatusNotFound, "order not found")
	case errors.Is(err, apperr.Conflict):
		writeError(h.logger, w, http.StatusConflict, "order already accepted")
	default:
		writeError(h.logger, w, http.StatusInternalServerError, "internal error")
	}
}

// Ping handles GET /ping and returns 200 with {"message":"pong"}.
func (h *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(h.logger, w, http.StatusOK, map[string]string{"message": "pong"})
}

// NotFound returns a JSON 404 error for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(h.logger, w, http.StatusNotFound, "route not found")
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
