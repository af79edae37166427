// Package memory is a process-local document store for tests and local runs.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	itemdomain "github.com/Dilyara077/practice-task/services/item/domain"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
	"github.com/Dilyara077/practice-task/services/item/domain/query"
)

type record struct {
	seq    uint64
	fields map[string]any
}

type entry struct {
	id  string
	rec record
}

// ItemRepository keeps documents in a map guarded by a RWMutex. Values are
// copied on the way in and out so callers never share state with the store.
type ItemRepository struct {
	mu   sync.RWMutex
	docs map[string]record
	seq  uint64
}

// NewItemRepository returns an empty store.
func NewItemRepository() *ItemRepository {
	return &ItemRepository{docs: make(map[string]record)}
}

// Find filters, orders by insertion (or price when requested) and projects.
func (r *ItemRepository) Find(_ context.Context, c query.Criteria) ([]models.Item, error) {
	r.mu.RLock()
	matched := make([]entry, 0, len(r.docs))
	for id, rec := range r.docs {
		if c.Matches(rec.fields) {
			matched = append(matched, entry{id: id, rec: rec})
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].rec.seq < matched[j].rec.seq
	})
	if c.Sort() == query.SortPrice {
		sort.SliceStable(matched, func(i, j int) bool {
			return priceLess(matched[i].rec.fields["price"], matched[j].rec.fields["price"])
		})
	}

	items := make([]models.Item, 0, len(matched))
	for _, m := range matched {
		items = append(items, models.Item{ID: m.id, Fields: c.Project(maps.Clone(m.rec.fields), models.IDField)})
	}
	return items, nil
}

// priceLess orders missing or non-numeric prices before numeric ones.
func priceLess(a, b any) bool {
	pa, okA := query.NumericValue(a)
	pb, okB := query.NumericValue(b)
	switch {
	case !okA && !okB:
		return false
	case !okA:
		return true
	case !okB:
		return false
	default:
		return pa < pb
	}
}

// FindByID returns ErrItemNotFound for unknown ids.
func (r *ItemRepository) FindByID(_ context.Context, id string) (*models.Item, error) {
	r.mu.RLock()
	rec, ok := r.docs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	return &models.Item{ID: id, Fields: maps.Clone(rec.fields)}, nil
}

// Insert assigns an ObjectID-format id.
func (r *ItemRepository) Insert(_ context.Context, fields map[string]any) (string, error) {
	id := models.NewItemID()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.docs[id] = record{seq: r.seq, fields: maps.Clone(fields)}
	return id, nil
}

// Update merges fields into the stored document.
func (r *ItemRepository) Update(_ context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.docs[id]
	if !ok {
		return itemdomain.ErrItemNotFound
	}
	merged := maps.Clone(rec.fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	rec.fields = merged
	r.docs[id] = rec
	return nil
}

// Delete removes id; ErrItemNotFound when absent.
func (r *ItemRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return itemdomain.ErrItemNotFound
	}
	delete(r.docs, id)
	return nil
}

// Ping always succeeds.
func (r *ItemRepository) Ping(context.Context) error {
	return nil
}

// Len reports the number of stored documents.
func (r *ItemRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
