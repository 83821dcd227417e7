package builder

import (
	"fmt"
	"strconv"
	"strings"
)

// SelectBuilder constructs read-only SELECT statements with PostgreSQL
// ($n) placeholders. Conditions are written with "?" and numbered on Build.
type SelectBuilder struct {
	table   string
	columns []string
	joins   []string
	where   []condition
	groups  [][]condition
	orderBy []string
	limit   int
	offset  int
}

type condition struct {
	sql  string
	args []interface{}
}

// NewSelect starts a SELECT of the given columns.
func NewSelect(cols ...string) *SelectBuilder {
	return &SelectBuilder{columns: cols}
}

// From specifies the table to select from.
func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Join adds a JOIN clause, e.g. Join("LEFT", "salaries s", "s.emp_no = e.emp_no").
func (b *SelectBuilder) Join(joinType, table, on string) *SelectBuilder {
	b.joins = append(b.joins, fmt.Sprintf("%s JOIN %s ON %s", joinType, table, on))
	return b
}

// Where adds a condition combined with AND.
func (b *SelectBuilder) Where(sql string, args ...interface{}) *SelectBuilder {
	b.where = append(b.where, condition{sql: sql, args: args})
	return b
}

// WhereAny adds a parenthesized group of conditions combined with OR.
// Empty groups are ignored.
func (b *SelectBuilder) WhereAny(fn func(g *SelectBuilder)) *SelectBuilder {
	g := &SelectBuilder{}
	fn(g)
	if len(g.where) > 0 {
		b.groups = append(b.groups, g.where)
	}
	return b
}

// OrderBy adds an ORDER BY expression.
func (b *SelectBuilder) OrderBy(order string) *SelectBuilder {
	b.orderBy = append(b.orderBy, order)
	return b
}

// Limit sets LIMIT; zero or negative means no limit.
func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

// Offset sets OFFSET; zero or negative means none.
func (b *SelectBuilder) Offset(offset int) *SelectBuilder {
	b.offset = offset
	return b
}

// Build renders the statement and its arguments in placeholder order.
func (b *SelectBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	for _, join := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}

	var clauses []string
	for _, c := range b.where {
		clauses = append(clauses, c.sql)
		args = append(args, c.args...)
	}
	for _, group := range b.groups {
		parts := make([]string, len(group))
		for i, c := range group {
			parts[i] = c.sql
			args = append(args, c.args...)
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}
	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	if b.offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(b.offset))
	}
	return rebind(sb.String()), args
}

// BuildSafe is Build plus a check that every argument has a placeholder.
func (b *SelectBuilder) BuildSafe() (string, []interface{}, error) {
	query, args := b.Build()
	if n := strings.Count(query, "$"); n != len(args) {
		return "", nil, fmt.Errorf("placeholder count (%d) does not match argument count (%d)", n, len(args))
	}
	return query, args, nil
}

// rebind numbers "?" placeholders as $1, $2, ...
func rebind(query string) string {
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
