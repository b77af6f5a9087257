package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// InstantLayout is the timestamp format used in every response body,
// millisecond precision UTC with a literal Z suffix.
const InstantLayout = "2006-01-02T15:04:05.000Z"

// Instant formats t in the response timestamp layout.
func Instant(t time.Time) string {
	return t.UTC().Format(InstantLayout)
}

// Envelope is the uniform response body. Success responses carry Message
// and Data; failures carry Message and Error. Status always mirrors the
// HTTP status code.
type Envelope struct {
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

// WriteEnvelope writes a fully populated envelope with the given status.
func WriteEnvelope(w http.ResponseWriter, r *http.Request, status int, message, errText string, data any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Message:   message,
		Error:     errText,
		Path:      r.URL.Path,
		Status:    status,
		Data:      data,
		Timestamp: Instant(time.Now()),
	})
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, r *http.Request, message string, data any) {
	WriteEnvelope(w, r, http.StatusOK, message, "", data)
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, r *http.Request, message string, data any) {
	WriteEnvelope(w, r, http.StatusCreated, message, "", data)
}

// Fail writes a failure envelope with no data payload.
func Fail(w http.ResponseWriter, r *http.Request, status int, errText, message string) {
	WriteEnvelope(w, r, status, message, errText, nil)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses carrying tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
