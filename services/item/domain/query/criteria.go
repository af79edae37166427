// Package query turns list-request parameters into storage-neutral criteria.
// Each persistence adapter translates Criteria into its own filter,
// projection and sort representation.
package query

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	itemdomain "github.com/Dilyara077/practice-task/services/item/domain"
)

// Query parameter names accepted by Build.
const (
	ParamCategory = "category"
	ParamMinPrice = "minPrice"
	ParamSort     = "sort"
	ParamFields   = "fields"
)

// SortField names the field results are ordered by. The zero value leaves the
// storage collaborator's natural order in place.
type SortField string

const (
	SortNone  SortField = ""
	SortPrice SortField = "price"
)

// Criteria is an immutable description of a list query. Every With* method
// returns a modified copy.
type Criteria struct {
	category    string
	hasCategory bool
	minPrice    float64
	hasMinPrice bool
	fields      []string
	projected   bool
	sort        SortField
}

// All returns criteria that match every document with no projection or ordering.
func All() Criteria {
	return Criteria{}
}

// WithCategory restricts results to an exact, case-sensitive category match.
func (c Criteria) WithCategory(category string) Criteria {
	n := c.clone()
	n.category = category
	n.hasCategory = true
	return n
}

// WithMinPrice restricts results to documents with price >= lower.
func (c Criteria) WithMinPrice(lower float64) Criteria {
	n := c.clone()
	n.minPrice = lower
	n.hasMinPrice = true
	return n
}

// WithFields projects results onto the named fields. The identifier is always kept.
// Names that are not plain top-level fields (operators such as "$where",
// dotted paths) are dropped but still count as a projection, so they select
// nothing instead of being handed to the store.
func (c Criteria) WithFields(fields ...string) Criteria {
	n := c.clone()
	for _, f := range fields {
		if f == "" {
			continue
		}
		n.projected = true
		if !isPlainField(f) || slices.Contains(n.fields, f) {
			continue
		}
		n.fields = append(n.fields, f)
	}
	return n
}

func isPlainField(name string) bool {
	return !strings.HasPrefix(name, "$") && !strings.ContainsAny(name, ".\x00")
}

// SortBy orders results ascending by field.
func (c Criteria) SortBy(field SortField) Criteria {
	n := c.clone()
	n.sort = field
	return n
}

// Category returns the category constraint and whether one is set.
func (c Criteria) Category() (string, bool) { return c.category, c.hasCategory }

// MinPrice returns the lower price bound and whether one is set.
func (c Criteria) MinPrice() (float64, bool) { return c.minPrice, c.hasMinPrice }

// Fields returns the projected field names, without the identifier.
func (c Criteria) Fields() []string { return slices.Clone(c.fields) }

// Projected reports whether results are restricted to Fields. A projection
// may name no usable field, in which case only the identifier is returned.
func (c Criteria) Projected() bool { return c.projected }

// Sort returns the ordering field.
func (c Criteria) Sort() SortField { return c.sort }

// Matches evaluates the filter part of the criteria against a document.
// Used by stores that cannot push the filter down.
func (c Criteria) Matches(doc map[string]any) bool {
	if c.hasCategory {
		v, ok := doc["category"].(string)
		if !ok || v != c.category {
			return false
		}
	}
	if c.hasMinPrice {
		price, ok := NumericValue(doc["price"])
		if !ok || price < c.minPrice {
			return false
		}
	}
	return true
}

// Project copies the projected subset of doc. idKey is always retained.
func (c Criteria) Project(doc map[string]any, idKey string) map[string]any {
	if !c.projected {
		return doc
	}
	out := make(map[string]any, len(c.fields)+1)
	for _, f := range c.fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	if v, ok := doc[idKey]; ok {
		out[idKey] = v
	}
	return out
}

func (c Criteria) String() string {
	return fmt.Sprintf("category=%q(%t) minPrice=%v(%t) fields=%v sort=%q",
		c.category, c.hasCategory, c.minPrice, c.hasMinPrice, c.fields, c.sort)
}

func (c Criteria) clone() Criteria {
	n := c
	n.fields = slices.Clone(c.fields)
	return n
}

// Build translates list query parameters into Criteria. Empty values are
// treated as absent. An unknown sort value is ignored. A minPrice that is not
// a finite decimal number yields ErrInvalidFilter.
func Build(params url.Values) (Criteria, error) {
	c := All()

	if category := params.Get(ParamCategory); category != "" {
		c = c.WithCategory(category)
	}

	if raw := strings.TrimSpace(params.Get(ParamMinPrice)); raw != "" {
		lower, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(lower) || math.IsInf(lower, 0) {
			return Criteria{}, fmt.Errorf("%w: minPrice must be a number, got %q", itemdomain.ErrInvalidFilter, raw)
		}
		c = c.WithMinPrice(lower)
	}

	if raw := params.Get(ParamFields); raw != "" {
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		c = c.WithFields(parts...)
	}

	if SortField(params.Get(ParamSort)) == SortPrice {
		c = c.SortBy(SortPrice)
	}

	return c, nil
}

// NumericValue widens the numeric types a decoded document may hold to float64.
func NumericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
