package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// traceIDHeader carries the request correlation ID. Field clients send it to
// tie a sync run's requests together; the server echoes it on every response.
const traceIDHeader = "X-Trace-ID"

// withTraceID attaches a trace ID to the request: reused from the incoming
// header when present, freshly generated otherwise. The ID is stamped into a
// request-scoped child logger so every log line downstream carries it, and is
// set on the response for client-side correlation.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
