package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dilyara077/practice-task/pkg/docstore"
	"github.com/Dilyara077/practice-task/pkg/logger"
	itemdomain "github.com/Dilyara077/practice-task/services/item/domain"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
	"github.com/Dilyara077/practice-task/services/item/domain/query"
)

// Integration test, skipped unless MONGO_URI is set.
func TestItemRepository_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := docstore.NewMongoClient(ctx, uri, "practice_task_test", logger.Nop())
	require.NoError(t, err)
	defer func() { _ = client.Close(context.Background()) }()

	coll := client.Collection("products_" + models.NewItemID())
	defer func() { _ = coll.Drop(context.Background()) }()
	repo := NewItemRepository(coll)

	require.NoError(t, repo.Ping(ctx))

	cheap, err := repo.Insert(ctx, map[string]any{"name": "Pen", "price": 1.5, "category": "office"})
	require.NoError(t, err)
	pricey, err := repo.Insert(ctx, map[string]any{"name": "Laptop", "price": 999.0, "category": "electronics"})
	require.NoError(t, err)
	assert.True(t, models.IsValidItemID(cheap))

	t.Run("find filtered and projected", func(t *testing.T) {
		items, err := repo.Find(ctx, query.All().WithMinPrice(10).WithFields("name"))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, pricey, items[0].ID)
		assert.Equal(t, map[string]any{"name": "Laptop"}, items[0].Fields)
	})

	t.Run("find sorted", func(t *testing.T) {
		items, err := repo.Find(ctx, query.All().SortBy(query.SortPrice))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, cheap, items[0].ID)
	})

	t.Run("update merges", func(t *testing.T) {
		require.NoError(t, repo.Update(ctx, cheap, map[string]any{"stock": 10.0}))
		got, err := repo.FindByID(ctx, cheap)
		require.NoError(t, err)
		assert.Equal(t, "Pen", got.Fields["name"])
		assert.Equal(t, 10.0, got.Fields["stock"])
	})

	t.Run("delete then not found", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, cheap))
		assert.ErrorIs(t, repo.Delete(ctx, cheap), itemdomain.ErrItemNotFound)
		_, err := repo.FindByID(ctx, cheap)
		assert.ErrorIs(t, err, itemdomain.ErrItemNotFound)
		assert.ErrorIs(t, repo.Update(ctx, cheap, map[string]any{"x": 1}), itemdomain.ErrItemNotFound)
	})
}

func TestItemRepository_RejectsMalformedID(t *testing.T) {
	repo := NewItemRepository(nil)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, itemdomain.ErrInvalidItemID)
	assert.ErrorIs(t, repo.Update(ctx, "zz", map[string]any{"a": 1}), itemdomain.ErrInvalidItemID)
	assert.ErrorIs(t, repo.Delete(ctx, "123"), itemdomain.ErrInvalidItemID)
}
