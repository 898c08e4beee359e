package utils

import (
	"fmt"
	"reflect"
)

// columnTag is the struct tag the store layer maps to SQL column names.
const columnTag = "db"

// StructTagValues lists the db-tagged column names of a struct, in field
// order. Unexported, untagged, and "-"-tagged fields are skipped.
func StructTagValues(input any) []string {
	v := structValue(input)
	t := v.Type()

	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name, ok := columnName(t.Field(i)); ok {
			columns = append(columns, name)
		}
	}

	return columns
}

// StructToMap flattens a struct into a column-name-to-value map, suitable for
// squirrel's SetMap.
func StructToMap(input any) map[string]any {
	v := structValue(input)
	t := v.Type()

	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name, ok := columnName(t.Field(i)); ok {
			out[name] = v.Field(i).Interface()
		}
	}

	return out
}

func structValue(input any) reflect.Value {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a struct or a pointer to one")
	}

	return v
}

func columnName(field reflect.StructField) (string, bool) {
	if field.PkgPath != "" {
		return "", false
	}

	tag := field.Tag.Get(columnTag)
	if tag == "" || tag == "-" {
		return "", false
	}

	return tag, true
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
