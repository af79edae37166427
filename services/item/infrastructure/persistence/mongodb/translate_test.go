package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Dilyara077/practice-task/services/item/domain/query"
)

func TestFilterFor(t *testing.T) {
	tests := []struct {
		name     string
		criteria query.Criteria
		want     bson.D
	}{
		{"all", query.All(), bson.D{}},
		{"category", query.All().WithCategory("Electronics"), bson.D{{Key: "category", Value: "Electronics"}}},
		{
			"min price",
			query.All().WithMinPrice(100),
			bson.D{{Key: "price", Value: bson.D{{Key: "$gte", Value: 100.0}}}},
		},
		{
			"both",
			query.All().WithCategory("books").WithMinPrice(0),
			bson.D{
				{Key: "category", Value: "books"},
				{Key: "price", Value: bson.D{{Key: "$gte", Value: 0.0}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterFor(tt.criteria))
		})
	}
}

func TestProjectionFor(t *testing.T) {
	tests := []struct {
		name     string
		criteria query.Criteria
		want     bson.D
	}{
		{"none", query.All(), nil},
		{"name and price", query.All().WithFields("name", "price"), bson.D{{Key: "name", Value: 1}, {Key: "price", Value: 1}}},
		{"id is implicit", query.All().WithFields("id", "name"), bson.D{{Key: "name", Value: 1}}},
		{"only id", query.All().WithFields("id"), bson.D{{Key: "_id", Value: 1}}},
		{"operator names never reach the server", query.All().WithFields("$where", "a..b", "name"), bson.D{{Key: "name", Value: 1}}},
		{"nothing usable keeps only _id", query.All().WithFields("$where"), bson.D{{Key: "_id", Value: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, projectionFor(tt.criteria))
		})
	}
}

func TestSortFor(t *testing.T) {
	assert.Nil(t, sortFor(query.All()))
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, sortFor(query.All().SortBy(query.SortPrice)))
}

func TestToItem(t *testing.T) {
	oid := bson.NewObjectID()
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	item := toItem(bson.D{
		{Key: "_id", Value: oid},
		{Key: "name", Value: "Laptop"},
		{Key: "price", Value: int32(999)},
		{Key: "specs", Value: bson.D{{Key: "ram", Value: "16GB"}}},
		{Key: "tags", Value: bson.A{"a", "b"}},
		{Key: "added", Value: bson.NewDateTimeFromTime(ts)},
	})

	assert.Equal(t, oid.Hex(), item.ID)
	assert.NotContains(t, item.Fields, "_id")
	assert.Equal(t, "Laptop", item.Fields["name"])
	assert.Equal(t, int32(999), item.Fields["price"])
	assert.Equal(t, map[string]any{"ram": "16GB"}, item.Fields["specs"])
	assert.Equal(t, []any{"a", "b"}, item.Fields["tags"])
	assert.Equal(t, "2024-01-15T10:30:00Z", item.Fields["added"])
}
