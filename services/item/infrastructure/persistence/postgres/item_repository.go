// Package postgres stores documents as JSONB rows in a shared "documents"
// table, one logical collection per resource name.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dilyara077/practice-task/pkg/database"
	itemdomain "github.com/Dilyara077/practice-task/services/item/domain"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
	"github.com/Dilyara077/practice-task/services/item/domain/query"
)

const (
	// numericPrice is NULL unless body.price holds a JSON number.
	numericPrice = "(CASE WHEN jsonb_typeof(body->'price') = 'number' THEN (body->>'price')::numeric END)"

	// categoryEquals matches string categories only; ->> would render a
	// numeric 5 as the text "5".
	categoryEquals = "jsonb_typeof(body->'category') = 'string' AND body->>'category' = %s"

	insertSQL = `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`
	getSQL    = `SELECT body FROM documents WHERE collection = $1 AND id = $2`
	updateSQL = `UPDATE documents SET body = body || $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`
	deleteSQL = `DELETE FROM documents WHERE collection = $1 AND id = $2`
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db         *database.Database
	collection string
}

// NewItemRepository returns an ItemRepository for the named collection.
func NewItemRepository(db *database.Database, collection string) *ItemRepository {
	return &ItemRepository{db: db, collection: collection}
}

// Find pushes the filter and ordering down to SQL and applies the projection
// after decoding. Documents without a numeric price sort first, like the
// document store orders missing values.
func (r *ItemRepository) Find(ctx context.Context, c query.Criteria) ([]models.Item, error) {
	stmt, args := findStatement(r.collection, c).Build()

	rows, err := r.db.DB().QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: find: %w", itemdomain.ErrStorage, err)
	}
	defer rows.Close() //nolint:errcheck

	items := []models.Item{}
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", itemdomain.ErrStorage, err)
		}
		fields, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		items = append(items, models.Item{ID: id, Fields: c.Project(fields, models.IDField)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate: %w", itemdomain.ErrStorage, err)
	}
	return items, nil
}

func findStatement(collection string, c query.Criteria) selectBuilder {
	b := selectFrom("documents", "id", "body").Where("collection = %s", collection)
	if category, ok := c.Category(); ok {
		b = b.Where(categoryEquals, category)
	}
	if lower, ok := c.MinPrice(); ok {
		b = b.Where(numericPrice+" >= %s", lower)
	}
	if c.Sort() == query.SortPrice {
		b = b.OrderBy(numericPrice + " ASC NULLS FIRST")
	}
	return b.OrderBy("seq")
}

// FindByID returns ErrItemNotFound when no row matches.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (*models.Item, error) {
	var body []byte
	err := r.db.DB().QueryRowContext(ctx, getSQL, r.collection, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("%w: get %s: %w", itemdomain.ErrStorage, id, err)
	}
	fields, err := decodeBody(body)
	if err != nil {
		return nil, err
	}
	return &models.Item{ID: id, Fields: fields}, nil
}

// Insert assigns a fresh ObjectID-format id and stores fields as the body.
func (r *ItemRepository) Insert(ctx context.Context, fields map[string]any) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("%w: encode: %w", itemdomain.ErrStorage, err)
	}
	id := models.NewItemID()
	if _, err := r.db.DB().ExecContext(ctx, insertSQL, r.collection, id, body); err != nil {
		return "", fmt.Errorf("%w: insert: %w", itemdomain.ErrStorage, err)
	}
	return id, nil
}

// Update merges fields into the stored body; keys not in fields are kept.
func (r *ItemRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", itemdomain.ErrStorage, err)
	}
	res, err := r.db.DB().ExecContext(ctx, updateSQL, r.collection, id, body)
	if err != nil {
		return fmt.Errorf("%w: update %s: %w", itemdomain.ErrStorage, id, err)
	}
	return requireAffected(res, id)
}

// Delete removes the row; ErrItemNotFound when nothing matched.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.DB().ExecContext(ctx, deleteSQL, r.collection, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", itemdomain.ErrStorage, id, err)
	}
	return requireAffected(res, id)
}

// Ping checks the pool connection.
func (r *ItemRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", itemdomain.ErrStorage, err)
	}
	return nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected %s: %w", itemdomain.ErrStorage, id, err)
	}
	if n == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

func decodeBody(body []byte) (map[string]any, error) {
	fields := map[string]any{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: decode body: %w", itemdomain.ErrStorage, err)
	}
	return fields, nil
}
