package postgres

import (
	"fmt"
	"slices"
	"strings"
)

// condition is a WHERE fragment holding exactly one "%s" placeholder for its argument.
type condition struct {
	format string
	arg    any
}

// selectBuilder renders a SELECT with positional ($n) parameters. Each method
// returns a modified copy so a base query can be shared.
type selectBuilder struct {
	table   string
	columns []string
	where   []condition
	orderBy []string
}

func selectFrom(table string, columns ...string) selectBuilder {
	return selectBuilder{table: table, columns: columns}
}

func (b selectBuilder) Where(format string, arg any) selectBuilder {
	n := b.clone()
	n.where = append(n.where, condition{format: format, arg: arg})
	return n
}

func (b selectBuilder) OrderBy(exprs ...string) selectBuilder {
	n := b.clone()
	n.orderBy = append(n.orderBy, exprs...)
	return n
}

// Build returns the SQL text and its arguments in placeholder order.
func (b selectBuilder) Build() (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(b.where))

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	if len(b.where) > 0 {
		parts := make([]string, 0, len(b.where))
		for _, c := range b.where {
			args = append(args, c.arg)
			parts = append(parts, fmt.Sprintf(c.format, fmt.Sprintf("$%d", len(args))))
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	return sb.String(), args
}

func (b selectBuilder) clone() selectBuilder {
	n := b
	n.columns = slices.Clone(b.columns)
	n.where = slices.Clone(b.where)
	n.orderBy = slices.Clone(b.orderBy)
	return n
}
