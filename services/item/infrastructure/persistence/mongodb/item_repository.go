// Package mongodb implements the document repository on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	itemdomain "github.com/Dilyara077/practice-task/services/item/domain"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
	"github.com/Dilyara077/practice-task/services/item/domain/query"
)

const mongoIDField = "_id"

// ItemRepository implements repositories.ItemRepository on one collection.
type ItemRepository struct {
	coll *mongo.Collection
}

// NewItemRepository returns an ItemRepository backed by coll.
func NewItemRepository(coll *mongo.Collection) *ItemRepository {
	return &ItemRepository{coll: coll}
}

// Find runs the translated filter, projection and sort server-side.
func (r *ItemRepository) Find(ctx context.Context, c query.Criteria) ([]models.Item, error) {
	cur, err := r.coll.Find(ctx, filterFor(c), findOptions(c))
	if err != nil {
		return nil, fmt.Errorf("%w: find: %w", itemdomain.ErrStorage, err)
	}
	defer cur.Close(ctx) //nolint:errcheck

	var docs []bson.D
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", itemdomain.ErrStorage, err)
	}

	items := make([]models.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, toItem(d))
	}
	return items, nil
}

// FindByID returns ErrItemNotFound when no document has the id.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (*models.Item, error) {
	oid, err := models.ParseItemID(id)
	if err != nil {
		return nil, err
	}

	var doc bson.D
	if err := r.coll.FindOne(ctx, bson.D{{Key: mongoIDField, Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("%w: get %s: %w", itemdomain.ErrStorage, id, err)
	}
	item := toItem(doc)
	return &item, nil
}

// Insert lets the server assign the ObjectID.
func (r *ItemRepository) Insert(ctx context.Context, fields map[string]any) (string, error) {
	res, err := r.coll.InsertOne(ctx, bson.M(fields))
	if err != nil {
		return "", fmt.Errorf("%w: insert: %w", itemdomain.ErrStorage, err)
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("%w: unexpected inserted id type %T", itemdomain.ErrStorage, res.InsertedID)
	}
	return oid.Hex(), nil
}

// Update applies $set with fields. A zero matched count means not found.
func (r *ItemRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	oid, err := models.ParseItemID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: mongoIDField, Value: oid}},
		bson.D{{Key: "$set", Value: bson.M(fields)}},
	)
	if err != nil {
		return fmt.Errorf("%w: update %s: %w", itemdomain.ErrStorage, id, err)
	}
	if res.MatchedCount == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

// Delete removes one document. A zero deleted count means not found.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	oid, err := models.ParseItemID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: mongoIDField, Value: oid}})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", itemdomain.ErrStorage, id, err)
	}
	if res.DeletedCount == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

// Ping checks the client's connection to the primary.
func (r *ItemRepository) Ping(ctx context.Context) error {
	if err := r.coll.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", itemdomain.ErrStorage, err)
	}
	return nil
}
