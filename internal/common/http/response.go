package http

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire contract for every API response: status carries the
// outcome, data rides along on success, error on failure. Handled domain
// outcomes always answer HTTP 200; the envelope is what clients switch on.
type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteOK(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, Envelope{Status: StatusOK})
}

func WriteData(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Status: StatusOK, Data: data})
}

func WriteFail(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Envelope{Status: StatusError, Error: message})
}

// WriteFailStatus is for failures outside the handler contract (method
// misuse, oversized bodies, panics) where a real HTTP status is warranted.
func WriteFailStatus(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Status: StatusError, Error: message})
}

func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
