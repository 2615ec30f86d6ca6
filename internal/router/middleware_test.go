package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tiemhang/tiemhang-api/internal/config"

	"github.com/gin-gonic/gin"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequestIDMiddlewareGenerates(t *testing.T) {
	engine := newTestEngine()
	engine.Use(RequestIDMiddleware())
	engine.GET("/ping", func(c *gin.Context) {
		if getRequestID(c) == "" {
			t.Errorf("expected request id in context")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(w, req)

	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id header")
	}
}

func TestRequestIDMiddlewarePreservesIncoming(t *testing.T) {
	engine := newTestEngine()
	engine.Use(RequestIDMiddleware())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-12345")
	engine.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "req-12345" {
		t.Fatalf("expected incoming request id preserved, got %q", got)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	engine := newTestEngine()
	engine.Use(CORSMiddleware(config.CORSConfig{
		AllowedOrigins: []string{"https://shop.example.com"},
	}))
	engine.POST("/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
}

func TestCORSMiddlewareRejectsUnknownOrigin(t *testing.T) {
	engine := newTestEngine()
	engine.Use(CORSMiddleware(config.CORSConfig{
		AllowedOrigins: []string{"https://shop.example.com"},
	}))
	engine.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	engine := newTestEngine()
	engine.Use(UserJWTAuthMiddleware("test-secret", nil))
	engine.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestBearerToken(t *testing.T) {
	engine := newTestEngine()
	var token string
	var ok bool
	engine.GET("/probe", func(c *gin.Context) {
		token, ok = bearerToken(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	engine.ServeHTTP(w, req)
	if !ok || token != "abc.def.ghi" {
		t.Fatalf("expected parsed bearer token, got %q %v", token, ok)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	engine.ServeHTTP(w, req)
	if ok {
		t.Fatalf("expected non-bearer scheme to be rejected")
	}
}
