package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"angdelivery/internal/apperr"
	authgw "angdelivery/internal/gateway/auth"
	"angdelivery/internal/domain"
)

func TestNewClient_EmptyURL_ReturnsNil(t *testing.T) {
	t.Parallel()

	require.Nil(t, authgw.NewClient("", nil, nil))
}

func TestClient_Register_OK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "register", body["action"])
		require.Equal(t, "+70000000001", body["phone"])
		require.Equal(t, "secret", body["password"])
		require.Equal(t, "courier", body["role"])
		require.Equal(t, "Ivan", body["name"])

		// register responses omit phone and name
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"userId":  7,
			"role":    "courier",
			"qrCode":  "token-123",
		})
	}))
	defer srv.Close()

	c := authgw.NewClient(srv.URL, srv.Client(), nil)
	require.NotNil(t, c)

	u, err := c.Register(context.Background(), "+70000000001", "secret", "Ivan", domain.RoleCourier)
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
	require.Equal(t, "+70000000001", u.Phone)
	require.Equal(t, domain.RoleCourier, u.Role)
	require.Equal(t, "Ivan", u.Name)
	require.Equal(t, "token-123", u.QRCode)
}

func TestClient_Login_OK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "login", body["action"])
		require.NotContains(t, body, "qrCode")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"userId":  3,
			"phone":   "+70000000001",
			"role":    "client",
			"name":    "Anna",
		})
	}))
	defer srv.Close()

	c := authgw.NewClient(srv.URL, srv.Client(), nil)

	u, err := c.Login(context.Background(), "+70000000001", "secret")
	require.NoError(t, err)
	require.Equal(t, int64(3), u.ID)
	require.Equal(t, "+70000000001", u.Phone)
	require.Equal(t, domain.RoleClient, u.Role)
	require.Equal(t, "Anna", u.Name)
}

func TestClient_Login_BadCredentials(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "wrong phone or password"})
	}))
	defer srv.Close()

	c := authgw.NewClient(srv.URL, srv.Client(), nil)

	_, err := c.Login(context.Background(), "+70000000001", "nope")
	require.ErrorIs(t, err, apperr.AuthFailed)
	require.Contains(t, err.Error(), "wrong phone or password")
}

func TestClient_LoginByQR_OK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "login", body["action"])
		require.Equal(t, "token-123", body["qrCode"])
		require.NotContains(t, body, "phone")

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"userId":  7,
			"phone":   "+70000000002",
			"role":    "courier",
			"name":    "Ivan",
		})
	}))
	defer srv.Close()

	c := authgw.NewClient(srv.URL, srv.Client(), nil)

	u, err := c.LoginByQR(context.Background(), "token-123")
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
	require.Equal(t, domain.RoleCourier, u.Role)
}

func TestClient_LoginByQR_UnknownToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown qr token"})
	}))
	defer srv.Close()

	c := authgw.NewClient(srv.URL, srv.Client(), nil)

	_, err := c.LoginByQR(context.Background(), "expired")
	require.ErrorIs(t, err, apperr.AuthFailed)
}

func TestClient_Login_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	c := authgw.NewClient(srv.URL, nil, nil)

	_, err := c.Login(context.Background(), "+70000000001", "secret")
	require.ErrorIs(t, err, apperr.Unavailable)
}

func TestClient_Login_MalformedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := authgw.NewClient(srv.URL, srv.Client(), nil)

	_, err := c.Login(context.Background(), "+70000000001", "secret")
	require.ErrorIs(t, err, apperr.Unavailable)
}

func TestClient_Profile_OKAndNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Query().Get("userId") {
		case "7":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": 7, "phone": "+70000000002", "role": "courier", "name": "Ivan", "qrCode": "token-123",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "user not found"})
		}
	}))
	defer srv.Close()

	c := authgw.NewClient(srv.URL, srv.Client(), nil)

	u, err := c.Profile(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "token-123", u.QRCode)

	_, err = c.Profile(context.Background(), 8)
	require.ErrorIs(t, err, apperr.NotFound)
}

func TestClient_ListUsers_OK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Empty(t, r.URL.RawQuery)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{
				{"id": 2, "phone": "+70000000002", "role": "courier", "name": "Ivan", "createdAt": "2026-01-02T03:04:05"},
				{"id": 1, "phone": "+70000000001", "role": "client", "name": "Anna", "createdAt": "2026-01-01T00:00:00"},
			},
		})
	}))
	defer srv.Close()

	c := authgw.NewClient(srv.URL, srv.Client(), nil)

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, int64(2), users[0].ID)
	require.Equal(t, domain.RoleCourier, users[0].Role)
}
