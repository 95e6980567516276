package httpx

import (
	"context"
	"io"
	"net/http"
)

const (
	healthyResponse   = `{"status":"ok"}`
	unhealthyResponse = `{"status":"unavailable"}`
)

// HealthHandlers answers readiness probes. Check, when set, verifies the
// backing infrastructure; a nil Check reports liveness only.
type HealthHandlers struct {
	Check func(ctx context.Context) error
}

func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, healthyResponse
	if h.Check != nil {
		if err := h.Check(r.Context()); err != nil {
			status, body = http.StatusServiceUnavailable, unhealthyResponse
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, body); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
