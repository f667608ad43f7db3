// Package validation checks request bodies against named JSON Schemas before
// anything reaches the store. Only the first failing field is reported.
package validation

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema names.
const (
	Contact      = "contact"
	Favorite     = "favorite"
	Signup       = "signup"
	Login        = "login"
	Subscription = "subscription"
	Profile      = "profile"
	Email        = "email"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// fieldOrder decides which failure is reported when several fields are invalid.
var fieldOrder = map[string][]string{
	Contact:      {"name", "email", "phone"},
	Favorite:     {"favorite"},
	Signup:       {"firstName", "lastName", "email", "password"},
	Login:        {"email", "password"},
	Subscription: {"subscription"},
	Profile:      {"firstName", "lastName", "email"},
	Email:        {"email"},
}

// messages maps field -> gojsonschema error type -> message. The "" entry is the
// field's fallback. {min} and {max} are filled from the error details.
var messages = map[string]map[string]string{
	"firstName": {
		"required": "Missing required first name field",
		"pattern":  "First name must only contain alphabet letters",
		"":         "First name must be a string",
	},
	"lastName": {
		"required": "Missing required last name field",
		"pattern":  "Last name must only contain alphabet letters",
		"":         "Last name must be a string",
	},
	"email": {
		"required":   "Missing required email field",
		"string_gte": "Email cannot be empty",
		"":           "Invalid email format",
	},
	"password": {
		"required":   "Missing required password field",
		"string_gte": "Password must be at least {min} characters long",
		"string_lte": "Password cannot be longer than {max} characters",
		"":           "Password must be a string",
	},
	"name": {
		"required":   "Missing required name field",
		"string_gte": "Name cannot be empty",
		"":           "Name must be a string",
	},
	"phone": {
		"required":   "Missing required phone field",
		"string_gte": "Phone cannot be empty",
		"":           "Phone must be a string",
	},
	"favorite": {
		"required": "Missing field favorite",
		"":         "Favorite must be a boolean",
	},
	"subscription": {
		"": "Subscription must be one of starter, pro, business",
	},
}

// Error is a failed validation. Message is safe to show to clients.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validator holds the compiled schemas.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, err
	}

	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(entries))}
	for _, entry := range entries {
		raw, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, err
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", entry.Name(), err)
		}
		v.schemas[strings.TrimSuffix(entry.Name(), ".json")] = schema
	}
	return v, nil
}

// Validate checks a raw JSON body. An empty body is treated as an empty object.
func (v *Validator) Validate(name string, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	return v.validate(name, gojsonschema.NewBytesLoader(body))
}

// ValidateValue checks an already decoded value, such as multipart form fields.
func (v *Validator) ValidateValue(name string, value any) error {
	return v.validate(name, gojsonschema.NewGoLoader(value))
}

func (v *Validator) validate(name string, doc gojsonschema.JSONLoader) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	result, err := schema.Validate(doc)
	if err != nil {
		// The document itself could not be decoded.
		return &Error{Message: "Invalid request body"}
	}
	if result.Valid() {
		return nil
	}
	return firstError(fieldOrder[name], result.Errors())
}

func firstError(order []string, errs []gojsonschema.ResultError) *Error {
	rank := func(field string) int {
		for i, f := range order {
			if f == field {
				return i
			}
		}
		return len(order)
	}

	var (
		best      gojsonschema.ResultError
		bestField string
		bestRank  = -1
	)
	for _, e := range errs {
		field := errorField(e)
		if r := rank(field); bestRank == -1 || r < bestRank {
			best, bestField, bestRank = e, field, r
		}
	}

	if bestField == "" {
		return &Error{Message: "Request body must be a JSON object"}
	}
	return &Error{Field: bestField, Message: message(bestField, best)}
}

// errorField names the property an error is about. Required and unknown-property
// errors are reported against the parent object with the property in the details.
func errorField(e gojsonschema.ResultError) string {
	if t := e.Type(); t == "required" || t == "additional_property_not_allowed" {
		if p, ok := e.Details()["property"].(string); ok {
			return p
		}
	}
	if f := e.Field(); f != gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
		return f
	}
	return ""
}

func message(field string, e gojsonschema.ResultError) string {
	if e.Type() == "additional_property_not_allowed" {
		return fmt.Sprintf("%q is not allowed", field)
	}
	byType, ok := messages[field]
	if !ok {
		return e.Description()
	}
	msg, ok := byType[e.Type()]
	if !ok {
		if msg, ok = byType[""]; !ok {
			return e.Description()
		}
	}
	details := e.Details()
	return strings.NewReplacer(
		"{min}", fmt.Sprint(details["min"]),
		"{max}", fmt.Sprint(details["max"]),
	).Replace(msg)
}
