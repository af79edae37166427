package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Dilyara077/practice-task/services/item/domain/models"
	"github.com/Dilyara077/practice-task/services/item/domain/query"
)

// filterFor translates the filter part of c. An empty document matches all.
func filterFor(c query.Criteria) bson.D {
	filter := bson.D{}
	if category, ok := c.Category(); ok {
		filter = append(filter, bson.E{Key: "category", Value: category})
	}
	if lower, ok := c.MinPrice(); ok {
		filter = append(filter, bson.E{Key: "price", Value: bson.D{{Key: "$gte", Value: lower}}})
	}
	return filter
}

// projectionFor returns nil when c keeps full documents. _id is always
// returned by the server, so the public id key is never projected explicitly.
func projectionFor(c query.Criteria) bson.D {
	if !c.Projected() {
		return nil
	}
	proj := bson.D{}
	for _, f := range c.Fields() {
		if f == models.IDField || f == mongoIDField {
			continue
		}
		proj = append(proj, bson.E{Key: f, Value: 1})
	}
	if len(proj) == 0 {
		proj = append(proj, bson.E{Key: mongoIDField, Value: 1})
	}
	return proj
}

// sortFor returns nil to keep natural order.
func sortFor(c query.Criteria) bson.D {
	if c.Sort() == query.SortPrice {
		return bson.D{{Key: "price", Value: 1}}
	}
	return nil
}

func findOptions(c query.Criteria) *options.FindOptionsBuilder {
	opts := options.Find()
	if proj := projectionFor(c); proj != nil {
		opts.SetProjection(proj)
	}
	if sort := sortFor(c); sort != nil {
		opts.SetSort(sort)
	}
	return opts
}

// toItem splits the server _id from the remaining fields.
func toItem(doc bson.D) models.Item {
	item := models.Item{Fields: make(map[string]any, len(doc))}
	for _, e := range doc {
		if e.Key == mongoIDField {
			item.ID = idString(e.Value)
			continue
		}
		item.Fields[e.Key] = normalize(e.Value)
	}
	return item
}

func idString(v any) string {
	if oid, ok := v.(bson.ObjectID); ok {
		return oid.Hex()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// normalize converts driver types into values encoding/json renders naturally.
func normalize(v any) any {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = normalize(val)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case bson.ObjectID:
		return t.Hex()
	case bson.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case bson.Decimal128:
		return t.String()
	default:
		return v
	}
}
