package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Dilyara077/practice-task/pkg/httpx"
)

var validate = newValidate()

// newValidate reports fields by their json names so ValidateFields can be
// driven by the same names clients send.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// ValidateFields validates s but reports only failures on the named fields.
// Names are the json tag names. With no names every field is checked.
func ValidateFields(s any, fields ...string) error {
	err := validate.Struct(s)
	if err == nil || len(fields) == 0 {
		return err
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	kept := make(validator.ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		if slices.Contains(fields, fe.Field()) {
			kept = append(kept, fe)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// fieldMessages holds the client-facing text per validation tag. A %s verb
// receives the tag parameter.
var fieldMessages = map[string]string{
	"required": "This field is required",
	"min":      "Minimum length is %s",
	"max":      "Maximum length is %s",
	"gte":      "Must be greater than or equal to %s",
	"lte":      "Must be less than or equal to %s",
	"numeric":  "Must be a numeric value",
	"alpha":    "Must contain only letters",
	"alphanum": "Must contain only letters and numbers",
}

// FormatValidationErrors maps each failing field's json name to a message.
// Errors that are not validation errors yield an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	msg, ok := fieldMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("Validation failed on '%s'", fe.Tag())
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}

// ValidateRequest decodes the JSON request body into T, validates the named
// fields (all fields when none are named), and writes a 400 response if either
// step fails. Returns (parsedStruct, true) on success or (nil, false) on failure.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request, fields ...string) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := ValidateFields(&req, fields...); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Missing fields",
			"fields": FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}

// DecodeObject decodes a JSON object body into a map. Numbers stay float64.
// Anything other than a single JSON object gets a 400 "Invalid JSON".
func DecodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	return body, true
}
