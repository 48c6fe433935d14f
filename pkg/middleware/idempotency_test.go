package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newIdempotencyFixture(t *testing.T, handler http.HandlerFunc) (http.Handler, *InMemoryIdempotencyStore) {
	t.Helper()
	store := NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(store.Stop)
	return Idempotency(store, "")(handler), store
}

func doPost(t *testing.T, h http.Handler, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysSuccess(t *testing.T) {
	handlerCalls := 0
	h, _ := newIdempotencyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"abc"}}`))
	})

	first := doPost(t, h, "key-1")
	second := doPost(t, h, "key-1")

	if handlerCalls != 1 {
		t.Errorf("handler calls = %d, want 1", handlerCalls)
	}
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Errorf("status codes = %d, %d, want 201, 201", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("replayed body = %q, want %q", second.Body.String(), first.Body.String())
	}
}

// A rejection must not be pinned to the key: a retry after a transient
// conflict has to reach the handler and can succeed.
func TestIdempotency_RejectionsAreReEvaluated(t *testing.T) {
	handlerCalls := 0
	h, _ := newIdempotencyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		if handlerCalls == 1 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	first := doPost(t, h, "key-2")
	second := doPost(t, h, "key-2")
	third := doPost(t, h, "key-2")

	if first.Code != http.StatusConflict {
		t.Errorf("first status = %d, want 409", first.Code)
	}
	if second.Code != http.StatusCreated {
		t.Errorf("second status = %d, want 201", second.Code)
	}
	// the success is cached, the third call replays it
	if third.Code != http.StatusCreated {
		t.Errorf("third status = %d, want 201", third.Code)
	}
	if handlerCalls != 2 {
		t.Errorf("handler calls = %d, want 2", handlerCalls)
	}
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	handlerCalls := 0
	h, _ := newIdempotencyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		w.WriteHeader(http.StatusCreated)
	})

	doPost(t, h, "")
	doPost(t, h, "")

	if handlerCalls != 2 {
		t.Errorf("handler calls = %d, want 2", handlerCalls)
	}
}
