package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnshRaj112/phonebook-backend/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestHTTPErrorDefaults(t *testing.T) {
	assert.Equal(t, "Not Found", httpError(http.StatusNotFound).Message)
	assert.Equal(t, "Conflict", httpError(http.StatusConflict, "").Message)
	assert.Equal(t, "Email in use", httpError(http.StatusConflict, "Email in use").Message)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"http error", httpError(http.StatusNotFound, "Contact not found"), http.StatusNotFound, "Contact not found"},
		{"wrapped http error", fmt.Errorf("lookup: %w", httpError(http.StatusUnauthorized)), http.StatusUnauthorized, "Unauthorized"},
		{"validation error", &validation.Error{Field: "phone", Message: "Missing required phone field"}, http.StatusBadRequest, "Missing required phone field"},
		{"unknown error", errors.New("connection refused"), http.StatusInternalServerError, "Server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := Wrap(func(w http.ResponseWriter, r *http.Request) error { return tc.err })
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, fmt.Sprintf(`{"message":%q}`, tc.message), rec.Body.String())
		})
	}
}

func TestPositiveInt(t *testing.T) {
	assert.Equal(t, 3, positiveInt("3", 1))
	assert.Equal(t, 1, positiveInt("", 1))
	assert.Equal(t, 20, positiveInt("0", 20))
	assert.Equal(t, 20, positiveInt("-4", 20))
	assert.Equal(t, 20, positiveInt("ten", 20))
}
