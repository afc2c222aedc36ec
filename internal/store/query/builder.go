// Package query assembles the SELECT statements shared by the store
// backends. Fragments are written with '?' placeholders; Build rewrites them
// for the target driver and returns the arguments in SQL order.
package query

import (
	"strconv"
	"strings"
)

// Placeholder selects the bind parameter syntax of the target driver.
type Placeholder int

const (
	// Question emits '?' (SQLite).
	Question Placeholder = iota
	// Dollar emits '$1', '$2', ... (PostgreSQL).
	Dollar
)

type fragment struct {
	sql  string
	args []any
}

// Builder collects the clauses of one SELECT statement. The zero value is
// not usable; start with Select.
type Builder struct {
	columns []fragment
	from    fragment
	joins   []fragment
	where   []fragment
	orderBy []string
	limit   int
}

// Select starts a statement with the given result columns.
func Select(columns ...string) *Builder {
	b := &Builder{}
	for _, c := range columns {
		b.columns = append(b.columns, fragment{sql: c})
	}
	return b
}

// Column appends a result column whose expression takes arguments.
func (b *Builder) Column(expr string, args ...any) *Builder {
	b.columns = append(b.columns, fragment{sql: expr, args: args})
	return b
}

// From sets the FROM clause.
func (b *Builder) From(table string, args ...any) *Builder {
	b.from = fragment{sql: table, args: args}
	return b
}

// Join appends a full join clause, e.g. "INNER JOIN users u ON u.id = m.user_id".
func (b *Builder) Join(clause string, args ...any) *Builder {
	b.joins = append(b.joins, fragment{sql: clause, args: args})
	return b
}

// Where appends a predicate; predicates are joined with AND.
func (b *Builder) Where(cond string, args ...any) *Builder {
	b.where = append(b.where, fragment{sql: cond, args: args})
	return b
}

// WhereIf appends cond only when ok is true.
func (b *Builder) WhereIf(ok bool, cond string, args ...any) *Builder {
	if ok {
		return b.Where(cond, args...)
	}
	return b
}

// Equal appends "column = ?" when value is non-empty.
func (b *Builder) Equal(column, value string) *Builder {
	return b.WhereIf(value != "", column+" = ?", value)
}

// OrderBy appends ordering terms.
func (b *Builder) OrderBy(terms ...string) *Builder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

// Limit bounds the result count; n <= 0 means no LIMIT clause.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// Build renders the statement and its arguments.
func (b *Builder) Build(ph Placeholder) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	for i, c := range b.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.sql)
		args = append(args, c.args...)
	}

	sb.WriteString(" FROM ")
	sb.WriteString(b.from.sql)
	args = append(args, b.from.args...)

	for _, j := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(j.sql)
		args = append(args, j.args...)
	}

	for i, w := range b.where {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(w.sql)
		args = append(args, w.args...)
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, b.limit)
	}

	return Rebind(ph, sb.String()), args
}

// Rebind rewrites '?' placeholders for ph. Question marks inside quoted
// literals or identifiers are left alone.
func Rebind(ph Placeholder, q string) string {
	if ph == Question || !strings.Contains(q, "?") {
		return q
	}
	var sb strings.Builder
	sb.Grow(len(q) + 8)
	n := 0
	var quote byte
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Mode names the search filter combination: "both", "channel", "user" or "none".
func Mode(channelID, userID string) string {
	switch {
	case channelID != "" && userID != "":
		return "both"
	case channelID != "":
		return "channel"
	case userID != "":
		return "user"
	default:
		return "none"
	}
}
