package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ze-news/internal/authguard"
	handlershared "github.com/ze-news/internal/http/handlers/shared"
	"github.com/ze-news/internal/http/response"
	"github.com/ze-news/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(response.RequestIDKey)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type fakeResolver struct {
	identities map[string]authguard.Identity
	err        error
}

func (f fakeResolver) ResolveSession(_ context.Context, token string) (authguard.Identity, error) {
	if f.err != nil {
		return authguard.Identity{}, f.err
	}
	identity, ok := f.identities[token]
	if !ok {
		return authguard.Identity{}, service.ErrInvalidToken
	}
	return identity, nil
}

type fakeEnforcer struct {
	allowed map[string]bool
}

func (f fakeEnforcer) EnforceRole(role, obj, act string) (bool, error) {
	return f.allowed[role+" "+act+" "+obj], nil
}

type errorBody struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Data       struct {
		RequestID string `json:"request_id"`
	} `json:"data"`
}

func newGuardedEngine(resolver SessionResolver, enforcer PolicyEnforcer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), LocaleMiddleware(), SessionMiddleware(resolver))
	r.GET("/api/articles", func(c *gin.Context) {
		identity := handlershared.CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": identity.Authenticated})
	})
	r.POST("/api/articles", RequirePrivilegedMiddleware(), RequirePolicyMiddleware(enforcer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/auth/me", RequireAuthenticatedMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": handlershared.CurrentIdentity(c).ProfileID})
	})
	return r
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body failed: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestSessionMiddleware(t *testing.T) {
	resolver := fakeResolver{identities: map[string]authguard.Identity{
		"reader": {Authenticated: true, ProfileID: "p-1", Role: "user"},
	}}
	r := newGuardedEngine(resolver, fakeEnforcer{})

	if w := doRequest(r, http.MethodGet, "/api/articles", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"authenticated":false`) {
		t.Fatalf("anonymous read should pass, got %d %s", w.Code, w.Body.String())
	}
	if w := doRequest(r, http.MethodGet, "/api/articles", "Bearer reader"); !strings.Contains(w.Body.String(), `"authenticated":true`) {
		t.Fatalf("session should be attached, got %s", w.Body.String())
	}

	w := doRequest(r, http.MethodGet, "/api/articles", "Token reader")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header want 401 got %d", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.StatusCode != http.StatusUnauthorized || body.Error != "auth_header_invalid" || body.Data.RequestID == "" {
		t.Fatalf("unexpected error body: %+v", body)
	}

	if w := doRequest(r, http.MethodGet, "/api/articles", "Bearer forged"); w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token want 401 got %d", w.Code)
	}

	broken := newGuardedEngine(fakeResolver{err: errors.New("redis down")}, fakeEnforcer{})
	if w := doRequest(broken, http.MethodGet, "/api/articles", "Bearer reader"); w.Code != http.StatusInternalServerError {
		t.Fatalf("resolver failure want 500 got %d", w.Code)
	}
}

func TestPrivilegedRoutesAnswer401Or403(t *testing.T) {
	resolver := fakeResolver{identities: map[string]authguard.Identity{
		"reader": {Authenticated: true, ProfileID: "p-1", Role: "user"},
		"editor": {Authenticated: true, ProfileID: "p-2", Role: "editor"},
		"admin":  {Authenticated: true, ProfileID: "p-3", Role: "admin"},
	}}
	enforcer := fakeEnforcer{allowed: map[string]bool{"editor POST /api/articles": true}}
	r := newGuardedEngine(resolver, enforcer)

	cases := []struct {
		name  string
		token string
		want  int
		key   string
	}{
		{"no session", "", http.StatusUnauthorized, "unauthorized"},
		{"user role", "Bearer reader", http.StatusForbidden, "forbidden"},
		{"editor allowed", "Bearer editor", http.StatusOK, ""},
		{"admin without policy", "Bearer admin", http.StatusForbidden, "forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/articles", tc.token)
			if w.Code != tc.want {
				t.Fatalf("status want %d got %d (%s)", tc.want, w.Code, w.Body.String())
			}
			if tc.key != "" {
				if body := decodeErrorBody(t, w); body.Error != tc.key {
					t.Fatalf("error want %s got %s", tc.key, body.Error)
				}
			}
		})
	}
}

func TestRequireAuthenticatedMiddleware(t *testing.T) {
	resolver := fakeResolver{identities: map[string]authguard.Identity{
		"reader": {Authenticated: true, ProfileID: "p-1", Role: "user"},
	}}
	r := newGuardedEngine(resolver, fakeEnforcer{})

	if w := doRequest(r, http.MethodGet, "/api/auth/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous want 401 got %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/api/auth/me", "Bearer reader"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "p-1") {
		t.Fatalf("reader should pass, got %d %s", w.Code, w.Body.String())
	}
}
