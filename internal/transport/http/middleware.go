package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"gold-economy/internal/logging"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
)

const (
	maxRequestBody     = 1 << 20
	defaultCaptureSize = 4096
)

// APILogMiddleware writes one JSON line per request into the process log
// sink. Bodies are attached separately by BodyCaptureMiddleware.
func APILogMiddleware() func(http.Handler) http.Handler {
	logger := slog.New(slog.NewJSONHandler(logging.Writer(), nil)).With(slog.String("component", "http"))
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:              slog.LevelInfo,
		Schema:             httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
		LogRequestBody:     func(*http.Request) bool { return false },
		LogResponseBody:    func(*http.Request) bool { return false },
		LogRequestHeaders:  []string{},
		LogResponseHeaders: []string{},
		LogExtraAttrs:      routeAttrs,
	})
}

func routeAttrs(req *http.Request, _ string, _ int) []slog.Attr {
	route := req.URL.Path
	if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
		route = rc.RoutePattern()
	}
	return []slog.Attr{
		slog.String("request_id", chimw.GetReqID(req.Context())),
		slog.String("method", req.Method),
		slog.String("route", route),
	}
}

// BodyCaptureMiddleware attaches the request body and up to limit bytes of
// the response body to the request log line. Event streams are skipped.
func BodyCaptureMiddleware(limit int) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = defaultCaptureSize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSSERequest(r) {
				next.ServeHTTP(w, r)
				return
			}
			reqBody, _ := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
			r.Body = io.NopCloser(bytes.NewReader(reqBody))

			rec := &bodyRecorder{ResponseWriter: w, limit: limit}
			next.ServeHTTP(rec, r)

			if len(reqBody) > limit {
				reqBody = reqBody[:limit]
			}
			httplog.SetAttrs(r.Context(),
				slog.Any("request_body", jsonOrText(reqBody)),
				slog.Any("response_body", jsonOrText(rec.buf.Bytes())),
				slog.Bool("response_body_truncated", rec.cut),
			)
		})
	}
}

// bodyRecorder tees the first limit bytes of a response.
type bodyRecorder struct {
	http.ResponseWriter
	buf   bytes.Buffer
	limit int
	cut   bool
}

func (b *bodyRecorder) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
			b.cut = true
		} else {
			b.buf.Write(p)
		}
	} else if len(p) > 0 {
		b.cut = true
	}
	return b.ResponseWriter.Write(p)
}

func (b *bodyRecorder) Flush() {
	if f, ok := b.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func jsonOrText(b []byte) any {
	if len(b) == 0 {
		return ""
	}
	var v any
	if json.Unmarshal(b, &v) != nil {
		return string(b)
	}
	return v
}

func isSSERequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream") ||
		strings.HasSuffix(r.URL.Path, "/stream")
}
