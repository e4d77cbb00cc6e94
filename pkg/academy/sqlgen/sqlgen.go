// Package sqlgen constructs filtered, paginated SELECT/COUNT statement
// pairs and sparse UPDATE statements for PostgreSQL. Column and operator
// names come from repository code, never from clients; values are always
// bound through numbered placeholders.
package sqlgen

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Pagination bounds. Requests outside the range are clamped, not rejected.
const (
	MaxPageSize     = 100
	DefaultPageSize = 20
)

// ClampPage normalizes a limit/offset pair into the allowed range.
func ClampPage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var allowedOps = map[string]struct{}{
	"=": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {}, "@>": {},
}

// Query accumulates WHERE predicates in append order and emits a COUNT and
// a SELECT statement sharing identical predicates and parameter positions.
// Pagination parameters are appended last and only to the SELECT.
type Query struct {
	table   string
	columns []string
	preds   []string
	args    []any
	orderBy string
	limit   int
	offset  int
}

// NewQuery starts a query against table returning the given columns.
func NewQuery(table string, columns ...string) *Query {
	return &Query{
		table:   table,
		columns: columns,
		limit:   DefaultPageSize,
	}
}

// Where appends a single predicate. Columns and operators outside the
// allowed forms are silently dropped, mirroring the permissive treatment of
// unknown filter keys.
func (q *Query) Where(column, op string, value any) *Query {
	if !identPattern.MatchString(column) {
		return q
	}
	if _, ok := allowedOps[op]; !ok {
		return q
	}
	q.args = append(q.args, value)
	q.preds = append(q.preds, fmt.Sprintf("%s %s $%d", column, op, len(q.args)))
	return q
}

// Search appends a single OR-group of case-insensitive pattern matches over
// the given columns. All columns share one parameter position so the same
// term is guaranteed across them.
func (q *Query) Search(term string, columns ...string) *Query {
	if term == "" || len(columns) == 0 {
		return q
	}
	q.args = append(q.args, "%"+term+"%")
	n := len(q.args)

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		if identPattern.MatchString(c) {
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", c, n))
		}
	}
	if len(parts) == 0 {
		q.args = q.args[:n-1]
		return q
	}
	q.preds = append(q.preds, "("+strings.Join(parts, " OR ")+")")
	return q
}

// OrderBy sets the ORDER BY expression for the SELECT statement.
func (q *Query) OrderBy(expr string) *Query {
	q.orderBy = expr
	return q
}

// Page sets pagination bounds, clamped into the allowed range.
func (q *Query) Page(limit, offset int) *Query {
	q.limit, q.offset = ClampPage(limit, offset)
	return q
}

func (q *Query) where() string {
	if len(q.preds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.preds, " AND ")
}

// Count returns the COUNT statement and its arguments. Pagination
// parameters are excluded.
func (q *Query) Count() (string, []any) {
	return "SELECT COUNT(*) FROM " + q.table + q.where(), q.args
}

// Select returns the page statement and its arguments, the predicate
// arguments first and the pagination pair last.
func (q *Query) Select() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.table)
	b.WriteString(q.where())
	if q.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.orderBy)
	}

	args := make([]any, len(q.args), len(q.args)+2)
	copy(args, q.args)
	args = append(args, q.limit, q.offset)
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return b.String(), args
}

// Update accumulates sparse column assignments. The touch column is always
// appended as the final assignment so every statement advances the record's
// update timestamp.
type Update struct {
	table   string
	touch   string
	assigns []string
	args    []any
}

// NewUpdate starts an update against table with the given timestamp column.
func NewUpdate(table, touchColumn string) *Update {
	return &Update{table: table, touch: touchColumn}
}

// Set appends one assignment. Callers only invoke it for defined values.
func (u *Update) Set(column string, value any) *Update {
	if !identPattern.MatchString(column) {
		return u
	}
	u.args = append(u.args, value)
	u.assigns = append(u.assigns, fmt.Sprintf("%s = $%d", column, len(u.args)))
	return u
}

// Empty reports whether no usable assignments were supplied. Callers must
// skip the statement entirely and return the current record unchanged.
func (u *Update) Empty() bool {
	return len(u.assigns) == 0
}

// Build returns the UPDATE statement and arguments, with the touch column
// assigned last and the identifier predicate at the end.
func (u *Update) Build(idColumn string, id any, now time.Time) (string, []any) {
	args := make([]any, len(u.args), len(u.args)+2)
	copy(args, u.args)

	assigns := make([]string, len(u.assigns), len(u.assigns)+1)
	copy(assigns, u.assigns)

	args = append(args, now)
	assigns = append(assigns, fmt.Sprintf("%s = $%d", u.touch, len(args)))

	args = append(args, id)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		u.table, strings.Join(assigns, ", "), idColumn, len(args))

	return stmt, args
}
