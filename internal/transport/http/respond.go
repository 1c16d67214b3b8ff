package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

// WriteHTTPError writes the {ok:false,error,reason} envelope shared by all
// failing endpoints.
func WriteHTTPError(w http.ResponseWriter, status int, code, reason string) {
	body := map[string]any{"ok": false, "error": code}
	if reason != "" {
		body["reason"] = reason
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody reads a JSON body into dst and answers 400 on malformed input.
// An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	WriteHTTPError(w, http.StatusBadRequest, "invalid_json", "")
	return false
}

func parseLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}
