package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	itemdomain "github.com/Dilyara077/practice-task/services/item/domain"
)

// IsValidItemID reports whether s is a 24-character hexadecimal ObjectID.
func IsValidItemID(s string) bool {
	_, err := bson.ObjectIDFromHex(s)
	return err == nil
}

// ParseItemID converts s to an ObjectID or returns ErrInvalidItemID.
func ParseItemID(s string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w: %q", itemdomain.ErrInvalidItemID, s)
	}
	return oid, nil
}

// NewItemID generates an identifier for stores that do not assign one natively.
func NewItemID() string {
	return bson.NewObjectID().Hex()
}
