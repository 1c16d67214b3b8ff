package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gold-economy/internal/engine"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

var ssePingInterval = 15 * time.Second

// Changes is the engine's change feed.
type Changes interface {
	Subscribe(buffer int) (<-chan engine.Change, func())
}

// StreamHandler pushes committed engine changes as server-sent events.
func StreamHandler(feed Changes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "stream_not_supported", "")
			return
		}
		metricStreamConnectionsTotal.Add(1)
		metricStreamConnectionsActive.Add(1)
		defer metricStreamConnectionsActive.Add(-1)

		ch, cancel := feed.Subscribe(32)
		defer cancel()

		setSSEHeaders(w)
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
		reqID := chimw.GetReqID(r.Context())
		log.Info().Str("request_id", reqID).Msg("economy stream opened")

		ticker := time.NewTicker(ssePingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				log.Info().Str("request_id", reqID).Msg("economy stream closed")
				return
			case c, ok := <-ch:
				if !ok {
					return
				}
				if err := writeSSE(w, "change", c); err != nil {
					return
				}
				flusher.Flush()
			case <-ticker.C:
				if err := writeSSE(w, "ping", map[string]any{"ts": time.Now().UnixMilli()}); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func setSSEHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

func writeSSE(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
