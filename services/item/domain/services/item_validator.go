// Package services contains stateless domain services for the item bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"

	itemdomain "github.com/Dilyara077/practice-task/services/item/domain"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
)

// identifierKeys are never writable through a partial update.
var identifierKeys = []string{models.IDField, "_id"}

// SanitizePatch returns the fields of a partial update that may be written.
// Identifier keys are dropped. An update with nothing left to set is rejected
// with ErrEmptyUpdate.
func SanitizePatch(body map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(body))
	for k, v := range body {
		out[k] = v
	}
	for _, k := range identifierKeys {
		delete(out, k)
	}
	if len(out) == 0 {
		return nil, itemdomain.ErrEmptyUpdate
	}
	return out, nil
}

// ValidateForWrite checks that every required field is present in fields.
// Handlers perform the structural check on the request body; this guards
// callers that bypass the HTTP layer.
func ValidateForWrite(fields map[string]any, required []string) error {
	var missing []string
	for _, name := range required {
		v, ok := fields[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", itemdomain.ErrMissingFields, missing)
	}
	return nil
}
