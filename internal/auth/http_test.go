// ABOUTME: Unit tests for the bearer-token and role-check HTTP middleware
// ABOUTME: Covers header extraction, 401/403 mapping, and context attachment

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func issueTestToken(t *testing.T, svc *TokenService, p *Principal) string {
	t.Helper()
	token, err := svc.Issue(p)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

func TestMiddleware_ValidToken(t *testing.T) {
	svc := newTestTokenService(t)
	p := &Principal{ID: "user-1", Username: "hantsy", Email: "hantsy@example.com", Roles: []Role{RoleUser}}
	token := issueTestToken(t, svc, p)

	var gotPrincipal *Principal
	handler := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotPrincipal == nil {
		t.Fatal("no principal attached to the request context")
	}
	if gotPrincipal.Username != "hantsy" {
		t.Errorf("principal.Username = %q, want %q", gotPrincipal.Username, "hantsy")
	}
}

func TestMiddleware_Rejections(t *testing.T) {
	svc := newTestTokenService(t)

	expiredSvc := &TokenService{secret: testSecret, ttl: -time.Minute}
	expired := issueTestToken(t, expiredSvc, &Principal{ID: "user-1", Username: "hantsy"})

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a bearer header", header: "Basic dXNlcjpwYXNz"},
		{name: "empty token", header: "Bearer "},
		{name: "garbage token", header: "Bearer not-a-jwt"},
		{name: "expired token", header: "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if called {
				t.Error("handler ran despite a rejected request")
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	user := &Principal{ID: "u1", Username: "alice", Roles: []Role{RoleUser}}
	admin := &Principal{ID: "u2", Username: "bob", Roles: []Role{RoleUser, RoleAdmin}}

	tests := []struct {
		name       string
		principal  *Principal
		required   []Role
		wantStatus int
	}{
		{name: "no requirement, anonymous", principal: nil, required: nil, wantStatus: http.StatusOK},
		{name: "no requirement, authenticated", principal: user, required: nil, wantStatus: http.StatusOK},
		{name: "requirement, anonymous", principal: nil, required: []Role{RoleUser}, wantStatus: http.StatusUnauthorized},
		{name: "USER on ADMIN route", principal: user, required: []Role{RoleAdmin}, wantStatus: http.StatusForbidden},
		{name: "USER+ADMIN on ADMIN route", principal: admin, required: []Role{RoleAdmin}, wantStatus: http.StatusOK},
		{name: "USER on USER-or-ADMIN route", principal: user, required: []Role{RoleUser, RoleAdmin}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRoles(tt.required...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
