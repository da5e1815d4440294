package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestSessionContextMintsID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := SessionContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session/", nil))

	if seen == "" {
		t.Fatal("expected a minted session id in the context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("minted id is not a uuid: %q", seen)
	}
	if got := rec.Header().Get("X-Session-Id"); got != seen {
		t.Fatalf("response header %q does not echo context id %q", got, seen)
	}
}

func TestSessionContextKeepsProvidedID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := SessionContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/", nil)
	req.Header.Set("X-Session-Id", "sess-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "sess-42" {
		t.Fatalf("expected provided id, got %q", seen)
	}
	if got := rec.Header().Get("X-Session-Id"); got != "sess-42" {
		t.Fatalf("unexpected response header: %q", got)
	}
}

func TestSessionIDFromContextMissing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := SessionIDFromContext(req.Context()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}
