package models

import (
	"encoding/json"
	"maps"
)

// IDField is the JSON key the identifier is serialized under.
const IDField = "id"

// Item is a stored document. The identifier is assigned by the storage layer
// on creation and never appears in Fields.
type Item struct {
	ID     string
	Fields map[string]any
}

// Document flattens the item into a single map with the identifier under IDField.
func (i Item) Document() map[string]any {
	doc := make(map[string]any, len(i.Fields)+1)
	maps.Copy(doc, i.Fields)
	doc[IDField] = i.ID
	return doc
}

// MarshalJSON renders the item as a flat JSON object.
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Document())
}

// ItemInput is the body of create and replace requests. Pointers distinguish
// an absent field from a zero value.
type ItemInput struct {
	Name     *string  `json:"name"     validate:"required,min=1"`
	Price    *float64 `json:"price"    validate:"required"`
	Category *string  `json:"category" validate:"required,min=1"`
}

// Fields returns the supplied scalar fields keyed by their JSON names.
func (in ItemInput) Fields() map[string]any {
	out := make(map[string]any, 3)
	if in.Name != nil {
		out["name"] = *in.Name
	}
	if in.Price != nil {
		out["price"] = *in.Price
	}
	if in.Category != nil {
		out["category"] = *in.Category
	}
	return out
}
