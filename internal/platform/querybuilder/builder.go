package querybuilder

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// writer accumulates SQL text and positional ($n) arguments.
type writer struct {
	sb   strings.Builder
	args []any
}

func (w *writer) raw(s string) {
	w.sb.WriteString(s)
}

func (w *writer) bind(value any) {
	w.args = append(w.args, value)
	w.sb.WriteString("$")
	w.sb.WriteString(strconv.Itoa(len(w.args)))
}

// expr writes s, binding one argument for every '?' it contains.
func (w *writer) expr(s string, args []any) {
	if len(args) == 0 {
		w.raw(s)
		return
	}
	next := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '?' && next < len(args) {
			w.bind(args[next])
			next++
			continue
		}
		w.sb.WriteByte(s[i])
	}
}

func (w *writer) where(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	w.raw(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			w.raw(" AND ")
		}
		c.write(w)
	}
}

func (w *writer) list(keyword string, parts []string) {
	if len(parts) == 0 {
		return
	}
	w.raw(" ")
	w.raw(keyword)
	w.raw(" ")
	w.raw(strings.Join(parts, ", "))
}

func (w *writer) result() (string, []any, error) {
	return w.sb.String(), w.args, nil
}

type Condition interface {
	write(w *writer)
}

type conditionFunc func(w *writer)

func (f conditionFunc) write(w *writer) { f(w) }

func compare(column, op string, value any) Condition {
	return conditionFunc(func(w *writer) {
		w.raw(column)
		w.raw(" ")
		w.raw(op)
		w.raw(" ")
		w.bind(value)
	})
}

func Eq(column string, value any) Condition  { return compare(column, "=", value) }
func Ne(column string, value any) Condition  { return compare(column, "<>", value) }
func Lt(column string, value any) Condition  { return compare(column, "<", value) }
func Gte(column string, value any) Condition { return compare(column, ">=", value) }

// In renders column IN (...). An empty list matches nothing.
func In[T any](column string, values []T) Condition {
	return conditionFunc(func(w *writer) {
		if len(values) == 0 {
			w.raw("1=0")
			return
		}
		w.raw(column)
		w.raw(" IN (")
		for i, v := range values {
			if i > 0 {
				w.raw(", ")
			}
			w.bind(v)
		}
		w.raw(")")
	})
}

func IsNull(column string) Condition {
	return conditionFunc(func(w *writer) {
		w.raw(column)
		w.raw(" IS NULL")
	})
}

// Expr is a raw condition with '?' placeholders.
func Expr(sql string, args ...any) Condition {
	return conditionFunc(func(w *writer) { w.expr(sql, args) })
}

// Or joins conditions with OR inside parentheses.
func Or(conditions ...Condition) Condition {
	return conditionFunc(func(w *writer) {
		if len(conditions) == 0 {
			w.raw("1=0")
			return
		}
		w.raw("(")
		for i, c := range conditions {
			if i > 0 {
				w.raw(" OR ")
			}
			c.write(w)
		}
		w.raw(")")
	})
}

type SelectBuilder struct {
	columns   []string
	table     string
	where     []Condition
	groupBy   []string
	orderBy   []string
	limit     int
	offset    int
	forUpdate bool
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) Offset(offset int) *SelectBuilder {
	b.offset = offset
	return b
}

// ForUpdate locks the selected rows until the transaction ends.
func (b *SelectBuilder) ForUpdate() *SelectBuilder {
	b.forUpdate = true
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, errors.New("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("select table is required")
	}

	w := &writer{}
	w.raw("SELECT ")
	w.raw(strings.Join(b.columns, ", "))
	w.raw(" FROM ")
	w.raw(b.table)
	w.where(b.where)
	w.list("GROUP BY", b.groupBy)
	w.list("ORDER BY", b.orderBy)
	if b.limit > 0 {
		w.raw(" LIMIT " + strconv.Itoa(b.limit))
	}
	if b.offset > 0 {
		w.raw(" OFFSET " + strconv.Itoa(b.offset))
	}
	if b.forUpdate {
		w.raw(" FOR UPDATE")
	}
	return w.result()
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends raw SQL such as ON CONFLICT or RETURNING clauses.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, errors.New("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, errors.New("insert values are required")
	}

	w := &writer{}
	w.raw("INSERT INTO ")
	w.raw(b.table)
	w.raw(" (")
	w.raw(strings.Join(b.columns, ", "))
	w.raw(") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, errors.Newf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.raw(", ")
		}
		w.raw("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				w.raw(", ")
			}
			w.bind(value)
		}
		w.raw(")")
	}
	if b.suffix != "" {
		w.raw(" ")
		w.raw(b.suffix)
	}
	return w.result()
}

type assignment struct {
	column string
	value  any
	sql    string
	args   []any
	isExpr bool
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a raw expression with '?' placeholders, e.g. NOW().
func (b *UpdateBuilder) SetExpr(column, sql string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, sql: sql, args: args, isExpr: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, errors.New("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, errors.New("update sets are required")
	}

	w := &writer{}
	w.raw("UPDATE ")
	w.raw(b.table)
	w.raw(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.raw(", ")
		}
		w.raw(s.column)
		w.raw(" = ")
		if s.isExpr {
			w.expr(s.sql, s.args)
			continue
		}
		w.bind(s.value)
	}
	w.where(b.where)
	if b.suffix != "" {
		w.raw(" ")
		w.raw(b.suffix)
	}
	return w.result()
}
