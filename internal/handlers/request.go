package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/AnshRaj112/phonebook-backend/internal/validation"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// decodeValid reads a JSON body, validates it against schema and decodes it into dst.
func decodeValid(w http.ResponseWriter, r *http.Request, v *validation.Validator, schema string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return httpError(http.StatusRequestEntityTooLarge, "Request body too large")
		}
		return httpError(http.StatusBadRequest, "Invalid request body")
	}

	if err := v.Validate(schema, body); err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return httpError(http.StatusBadRequest, "Invalid request body")
	}
	return nil
}

// normalizeEmail lower-cases and trims an address before it reaches the store.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
