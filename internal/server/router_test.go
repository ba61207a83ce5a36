package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tair/qr-order/internal/config"
	"github.com/tair/qr-order/internal/inventory/cache"
	"github.com/tair/qr-order/internal/order/usecase/command"
	"github.com/tair/qr-order/internal/storetest"
	"github.com/tair/qr-order/pkg/auth"
)

const testSecret = "router-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:      testSecret,
		CORSOrigins:    []string{"https://menu.example"},
		QuantityPolicy: command.QuantityClamp,
		NotifierBuffer: 4,
		TxTimeout:      time.Second,
	}
	srv, err := InitializeServer(cfg, storetest.NewDB(t), cache.NopMenuCache{}, nil)
	if err != nil {
		t.Fatalf("InitializeServer: %v", err)
	}
	t.Cleanup(srv.Hub.Close)
	return srv
}

func staffToken(t *testing.T, role string) string {
	t.Helper()
	claims := auth.Claims{
		UserID: "staff-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)
	owner := staffToken(t, auth.RoleOwner)
	kitchen := staffToken(t, auth.RoleKitchen)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"menu is public", http.MethodGet, "/api/menu", "", "", http.StatusOK},
		{"statuses are public", http.MethodGet, "/api/order-statuses", "", "", http.StatusOK},
		{"unknown order", http.MethodGet, "/api/orders/missing", "", "", http.StatusNotFound},
		{"admin needs token", http.MethodGet, "/api/admin/orders", "", "", http.StatusUnauthorized},
		{"kitchen lists orders", http.MethodGet, "/api/admin/orders", kitchen, "", http.StatusOK},
		{"kitchen cannot create products", http.MethodPost, "/api/admin/categories", kitchen, `{"name":"Tea"}`, http.StatusForbidden},
		{"owner creates category", http.MethodPost, "/api/admin/categories", owner, `{"name":"Tea"}`, http.StatusCreated},
		{"owner lists tables", http.MethodGet, "/api/admin/tables", owner, "", http.StatusOK},
		{"unknown table stream", http.MethodGet, "/api/events/tables/missing", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID")
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://menu.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://menu.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestStatusWriterKeepsFlusher(t *testing.T) {
	var w http.ResponseWriter = &statusWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	if _, ok := w.(http.Flusher); !ok {
		t.Fatal("statusWriter does not implement http.Flusher")
	}
}
