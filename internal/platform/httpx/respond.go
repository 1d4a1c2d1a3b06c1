// Package httpx provides the response envelope and the error-to-status
// mapping shared by every API handler.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the uniform response wrapper for all non-204 API responses.
type Envelope struct {
	Timestamp  time.Time `json:"timestamp"`
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Data       any       `json:"data,omitempty"`
	Path       string    `json:"path"`
}

// Respond writes a success envelope with the given status, message and data.
func Respond(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	writeEnvelope(w, r, status, message, data)
}

// RespondMessage writes a success envelope without a data payload.
func RespondMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeEnvelope(w, r, status, message, nil)
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes the request body into target. Fields the target does
// not declare are ignored, so clients may echo back a full DTO (id,
// categories, timestamps included) on update.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Timestamp:  time.Now().UTC(),
		StatusCode: status,
		Message:    message,
		Data:       data,
		Path:       r.URL.Path,
	})
}
