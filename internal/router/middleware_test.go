package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dujiao-next/order-desk/internal/config"
	"github.com/dujiao-next/order-desk/internal/http/response"

	"github.com/gin-gonic/gin"
)

func TestCORSPolicyAllowOrigin(t *testing.T) {
	cases := []struct {
		name        string
		origins     []string
		credentials bool
		origin      string
		want        string
	}{
		{"wildcard", []string{"*"}, false, "https://desk.example.com", "*"},
		{"wildcard with credentials echoes", []string{"*"}, true, "https://desk.example.com", "https://desk.example.com"},
		{"allow list match", []string{"https://a.example.com", "https://desk.example.com"}, false, "https://DESK.example.com", "https://DESK.example.com"},
		{"allow list miss", []string{"https://a.example.com"}, false, "https://x.example.com", ""},
		{"empty defaults to wildcard", nil, false, "", "*"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := newCORSPolicy(config.CORSConfig{AllowedOrigins: tc.origins, AllowCredentials: tc.credentials})
			if got := policy.allowOrigin(tc.origin); got != tc.want {
				t.Fatalf("allow origin want %q got %q", tc.want, got)
			}
		})
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://desk.example.com"}, MaxAge: 600}))
	r.PUT("/api/v1/admin/drafts/active/shipping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/admin/drafts/active/shipping", nil)
	req.Header.Set("Origin", "https://desk.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight want 204 got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://desk.example.com" || w.Header().Get("Access-Control-Max-Age") != "600" {
		t.Fatalf("unexpected cors headers %v", w.Header())
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Locale") {
		t.Fatalf("default headers should allow X-Locale, got %s", w.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(response.RequestIDKey)})
	})

	call := func(header string) (string, string) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if header != "" {
			req.Header.Set(requestIDHeader, header)
		}
		r.ServeHTTP(w, req)
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		return w.Header().Get(requestIDHeader), body["request_id"]
	}

	if header, ctx := call("req-123"); header != "req-123" || ctx != "req-123" {
		t.Fatalf("request id should pass through, header=%s ctx=%s", header, ctx)
	}
	if header, ctx := call(""); header == "" || header != ctx {
		t.Fatalf("request id should be generated, header=%s ctx=%s", header, ctx)
	}
	if header, _ := call("bad id\nwith newline"); header == "bad id\nwith newline" || header == "" {
		t.Fatalf("unsafe request id should be replaced, got %q", header)
	}
}

func TestJWTAuthMiddlewareWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(nil))
	r.GET("/api/v1/admin/drafts", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/drafts", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != response.CodeUnauthorized {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}
