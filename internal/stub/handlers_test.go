package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"angdelivery/internal/domain"
	"angdelivery/internal/logx"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()

	store := NewStore()
	h := NewHandlers(store, logx.Nop())
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func putJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAuthPost_Register(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/auth", map[string]any{
		"action":   "register",
		"phone":    "+70000000001",
		"password": "secret",
		"role":     "courier",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	require.EqualValues(t, 1, body["userId"])
	require.Equal(t, "courier", body["role"])
	require.NotEmpty(t, body["qrCode"])
}

func TestAuthPost_Register_MissingFields(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/auth", map[string]any{"action": "register", "phone": "+70000000001"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	require.NotEmpty(t, body["error"])
}

func TestAuthPost_Register_DuplicatePhone(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	_, err := store.CreateUser("+70000000001", "secret", domain.RoleClient, "")
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/auth", map[string]any{
		"action":   "register",
		"phone":    "+70000000001",
		"password": "other",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAuthPost_Login(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	u, err := store.CreateUser("+70000000001", "secret", domain.RoleClient, "Ann")
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/auth", map[string]any{
		"action":   "login",
		"phone":    "+70000000001",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.EqualValues(t, u.ID, body["userId"])
	require.Equal(t, "+70000000001", body["phone"])
	require.Equal(t, "Ann", body["name"])
}

func TestAuthPost_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	_, err := store.CreateUser("+70000000001", "secret", domain.RoleClient, "")
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/auth", map[string]any{
		"action":   "login",
		"phone":    "+70000000001",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthPost_Login_ByQRCode(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	courier, err := store.CreateUser("+70000000002", "secret", domain.RoleCourier, "")
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/auth", map[string]any{
		"action": "login",
		"qrCode": courier.QRCode,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.EqualValues(t, courier.ID, body["userId"])
	require.Equal(t, "courier", body["role"])
}

func TestAuthPost_UnknownAction(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/auth", map[string]any{"action": "reset"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthGet_Profile(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	u, err := store.CreateUser("+70000000001", "secret", domain.RoleClient, "Ann")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/auth?userId=1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.EqualValues(t, u.ID, body["id"])
	require.Equal(t, "Ann", body["name"])
}

func TestAuthGet_Profile_NotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/auth?userId=42")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthGet_Listing(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	_, err := store.CreateUser("+70000000001", "secret", domain.RoleClient, "Ann")
	require.NoError(t, err)
	_, err = store.CreateUser("+70000000002", "secret", domain.RoleCourier, "")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/auth")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	users, ok := body["users"].([]any)
	require.True(t, ok)
	require.Len(t, users, 2)
}

func TestOrdersPost_Create(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/orders", map[string]any{
		"type":        "delivery",
		"clientId":    1,
		"fromAddress": "Warehouse A",
		"toAddress":   "Office B",
		"items":       "2 boxes",
		"restaurant":  nil,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["success"])
	require.Equal(t, "001", body["orderNumber"])
}

func TestOrdersPost_MissingFields(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/orders", map[string]any{
		"type":     "delivery",
		"clientId": 1,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "all fields are required", body["error"])
}

func TestOrdersGet_Filters(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	clientA, clientB := int64(1), int64(2)
	store.CreateOrder(domain.TypeDelivery, &clientA, "A", "B", "docs", "")
	o2 := store.CreateOrder(domain.TypeDelivery, &clientB, "C", "D", "box", "")
	require.NoError(t, store.AcceptOrder(o2.ID, 3))

	resp, err := http.Get(srv.URL + "/orders?status=pending")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	require.Len(t, body["orders"], 1)

	resp, err = http.Get(srv.URL + "/orders?courierId=3")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	require.Len(t, body["orders"], 1)

	resp, err = http.Get(srv.URL + "/orders")
	require.NoError(t, err)
	body = decodeBody(t, resp)
	require.Len(t, body["orders"], 2)
}

func TestOrdersPut_Accept(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	clientID := int64(1)
	o := store.CreateOrder(domain.TypeDelivery, &clientID, "A", "B", "docs", "")

	resp := putJSON(t, srv.URL+"/orders", map[string]any{
		"action":    "accept",
		"orderId":   o.ID,
		"courierId": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = putJSON(t, srv.URL+"/orders", map[string]any{
		"action":    "accept",
		"orderId":   o.ID,
		"courierId": 3,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestOrdersPut_UpdateStatusAndRate(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	clientID := int64(1)
	o := store.CreateOrder(domain.TypeDelivery, &clientID, "A", "B", "docs", "")
	require.NoError(t, store.AcceptOrder(o.ID, 2))

	resp := putJSON(t, srv.URL+"/orders", map[string]any{
		"action":  "updateStatus",
		"orderId": o.ID,
		"status":  "delivering",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = putJSON(t, srv.URL+"/orders", map[string]any{
		"action":  "rate",
		"orderId": o.ID,
		"rating":  5,
		"review":  "fast",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	got := store.Orders(domain.OrderFilter{})
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Rating)
	require.Equal(t, 5, *got[0].Rating)
}

func TestOrdersPut_BadRating(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t)
	clientID := int64(1)
	o := store.CreateOrder(domain.TypeDelivery, &clientID, "A", "B", "docs", "")

	resp := putJSON(t, srv.URL+"/orders", map[string]any{
		"action":  "rate",
		"orderId": o.ID,
		"rating":  6,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOrdersPut_NotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp := putJSON(t, srv.URL+"/orders", map[string]any{
		"action":    "accept",
		"orderId":   99,
		"courierId": 2,
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
