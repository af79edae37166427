// Package errhttp turns domain sentinel errors into JSON error responses.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/Dilyara077/practice-task/pkg/httpx"
	itemdomain "github.com/Dilyara077/practice-task/services/item/domain"
)

// GenericServerError is the only message clients see for 5xx responses.
const GenericServerError = "Database error"

const defaultSubject = "Item"

// Writer writes error responses for one resource. Subject is the singular
// noun used in 404 messages, e.g. "Product" gives "Product not found".
type Writer struct {
	Subject string
}

// Write maps err to a status and writes {"error": message}. Anything not
// recognized as a client error is a 500 whose detail never leaves the server.
func (wr Writer) Write(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	httpx.JSONError(w, status, wr.message(err, status))
}

// WriteError is Writer.Write with the generic "Item" subject.
func WriteError(w http.ResponseWriter, err error) {
	Writer{}.Write(w, err)
}

// StatusFor returns the HTTP status err maps to, matching wrapped errors.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, itemdomain.ErrInvalidItemID),
		errors.Is(err, itemdomain.ErrMissingFields),
		errors.Is(err, itemdomain.ErrInvalidFilter),
		errors.Is(err, itemdomain.ErrEmptyUpdate):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (wr Writer) message(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return GenericServerError
	}
	switch {
	case errors.Is(err, itemdomain.ErrItemNotFound):
		subject := wr.Subject
		if subject == "" {
			subject = defaultSubject
		}
		return subject + " not found"
	case errors.Is(err, itemdomain.ErrInvalidItemID):
		return "Invalid ID"
	case errors.Is(err, itemdomain.ErrMissingFields):
		return "Missing fields"
	case errors.Is(err, itemdomain.ErrEmptyUpdate):
		return "No fields to update"
	}
	// ErrInvalidFilter carries the offending parameter in its text.
	return err.Error()
}
