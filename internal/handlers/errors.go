package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AnshRaj112/phonebook-backend/internal/validation"
)

// HTTPError is an error with a status code and a message that is safe to return to clients.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// httpError builds an HTTPError. Without a message the status text is used.
func httpError(status int, message ...string) *HTTPError {
	msg := http.StatusText(status)
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return &HTTPError{Status: status, Message: msg}
}

// MessageResponse is the body of every error and of plain confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap turns a handler that returns an error into an http.HandlerFunc.
// Errors that are not HTTPError or validation.Error are logged and reported as 500.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr *HTTPError
	var validationErr *validation.Error

	switch {
	case errors.As(err, &httpErr):
		writeJSON(w, httpErr.Status, MessageResponse{Message: httpErr.Message})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: validationErr.Message})
	default:
		log.Printf("❌ %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, MessageResponse{Message: "Not found"})
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, MessageResponse{Message: "Method not allowed"})
}

// Health is the liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
