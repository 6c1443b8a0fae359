package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stocktrack/stocktrack/internal/app/services/auth"
	"github.com/stocktrack/stocktrack/internal/app/storage/memory"
)

func newAuthed(t *testing.T) (*SessionAuth, string) {
	t.Helper()
	store := memory.New()
	svc := auth.New(store, store, nil)
	_, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123", "Alice Smith")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return NewSessionAuth(svc, nil), token
}

func TestSessionAuthAllowsValidCookie(t *testing.T) {
	mw, token := newAuthed(t)

	var gotUser, gotName string
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r.Context())
		gotName = GetUsername(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotUser == "" || gotName != "alice" {
		t.Fatalf("context identity = %q/%q", gotUser, gotName)
	}
}

func TestSessionAuthRejectsMissingOrBogusCookie(t *testing.T) {
	mw, _ := newAuthed(t)

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unauthenticated request must not reach the handler")
	}))

	for _, cookie := range []*http.Cookie{nil, {Name: SessionCookie, Value: "bogus"}} {
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["error"] != "Authentication required" {
			t.Fatalf("error = %q", body["error"])
		}
	}
}
