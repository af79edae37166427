package repositories

import (
	"context"

	"github.com/Dilyara077/practice-task/services/item/domain/models"
	"github.com/Dilyara077/practice-task/services/item/domain/query"
)

// ItemRepository is the storage collaborator for one document collection.
// The domain layer owns this interface; infrastructure implements it.
//
// Implementations return domain.ErrItemNotFound when an id-based call matches
// nothing, and wrap every driver failure with domain.ErrStorage. Callers
// guarantee id is a valid ObjectID hex string before calling.
type ItemRepository interface {
	// Find returns the documents matching c in the order c requests.
	Find(ctx context.Context, c query.Criteria) ([]models.Item, error)

	// FindByID returns the full document with the given id.
	FindByID(ctx context.Context, id string) (*models.Item, error)

	// Insert stores a new document and returns its storage-assigned id.
	Insert(ctx context.Context, fields map[string]any) (string, error)

	// Update sets the given fields on an existing document, leaving every
	// other field untouched.
	Update(ctx context.Context, id string, fields map[string]any) error

	// Delete removes a document permanently.
	Delete(ctx context.Context, id string) error

	// Ping checks the storage connection.
	Ping(ctx context.Context) error
}
