package querybuilder

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
)

// InsertModel builds an INSERT from the db-tagged fields of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	cols, vals, err := modelColumns(model)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// UpdateModel builds an UPDATE setting every db-tagged field of model except the
// skipped columns (typically the key and created_at).
func UpdateModel(table string, model any, skip ...string) (*UpdateBuilder, error) {
	cols, vals, err := modelColumns(model)
	if err != nil {
		return nil, err
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, col := range skip {
		skipped[col] = struct{}{}
	}

	b := Update(table)
	for i, col := range cols {
		if _, ok := skipped[col]; ok {
			continue
		}
		b.Set(col, vals[i])
	}
	return b, nil
}

// Columns lists the db-tagged column names of model in field order.
func Columns(model any) []string {
	cols, _, err := modelColumns(model)
	if err != nil {
		return nil
	}
	return cols
}

func modelColumns(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, errors.New("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, errors.Newf("model must be a struct, got %s", value.Kind())
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, errors.New("model has no db columns")
	}
	return cols, vals, nil
}
