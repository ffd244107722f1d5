package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newRoutedServer(t *testing.T) *Server {
	t.Helper()
	s := newTestServer(t)
	s.SetTaskStore(&noopTaskStore{})
	s.SetMessageStore(&noopMessageStore{})
	s.registerRoutes()
	return s
}

func TestRoutes_PublicStatusNeedsNoAuth(t *testing.T) {
	s := newRoutedServer(t)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRoutes_ProtectedAPIRequiresToken(t *testing.T) {
	s := newRoutedServer(t)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	token, err := s.signToken("admin")
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with token: status = %d, want 200", rec.Code)
	}
}

func TestRoutes_MeReturnsSubject(t *testing.T) {
	s := newRoutedServer(t)

	token, err := s.signToken("admin")
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "admin") {
		t.Errorf("body = %s, want subject admin", body)
	}
}
