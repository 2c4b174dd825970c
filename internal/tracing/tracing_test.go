package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/notequiz/backend/internal/config"
	"go.opentelemetry.io/otel/trace"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error: %v", err)
	}
}

func TestMiddleware_PassesSpanContext(t *testing.T) {
	var called bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if trace.SpanFromContext(r.Context()) == nil {
			t.Error("expected a span in the request context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if !called || rec.Code != http.StatusNoContent {
		t.Errorf("handler called = %v, status = %d", called, rec.Code)
	}
}
