package handlers

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Dilyara077/practice-task/pkg/errhttp"
	appsvcs "github.com/Dilyara077/practice-task/services/item/application/services"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid ID"`
} // @name ErrorResponse

// MessageResponse confirms a write that returns no document.
type MessageResponse struct {
	Message string `json:"message" example:"Product updated successfully"`
} // @name MessageResponse

// ItemDocument is the wire shape of a stored document. Documents may carry
// extra fields added by partial updates.
type ItemDocument struct {
	ID       string  `json:"id"       example:"65a1f0c2e4b0a1b2c3d4e5f6"`
	Name     string  `json:"name"     example:"Laptop"`
	Price    float64 `json:"price"    example:"999.99"`
	Category string  `json:"category" example:"Electronics"`
} // @name ItemDocument

// ListResponse is the enveloped list body. The collection key is the
// configured resource name.
type ListResponse struct {
	Count    int            `json:"count"    example:"1"`
	Products []ItemDocument `json:"products"`
} // @name ListResponse

// documents flattens items for encoding; never nil so an empty list encodes as [].
func documents(items []models.Item) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, it.Document())
	}
	return out
}

// displayName turns a collection name into the singular, capitalised noun
// used in confirmation messages: "products" becomes "Product".
func displayName(resource string) string {
	name := strings.TrimSuffix(resource, "s")
	if name == "" {
		name = resource
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

func writeError(w http.ResponseWriter, svc *appsvcs.Services, err error) {
	errhttp.Writer{Subject: displayName(svc.Item.Resource())}.Write(w, err)
}
