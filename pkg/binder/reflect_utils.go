package binder

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// bindToStruct binds a complete value set, which enables the ",remain" option.
func bindToStruct(v any, tag string, values map[string][]string, bindErr error) error {
	used := make(map[string]bool)
	err := bindFunc(v, tag, func(name string) []string {
		used[name] = true
		return values[name]
	}, bindErr)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(v).Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() || !hasOption(sf.Tag.Get(tag), "remain") {
			continue
		}
		if sf.Type != reflect.TypeOf(map[string]string(nil)) {
			return fmt.Errorf("%w: field %s: remain needs map[string]string", bindErr, sf.Name)
		}
		rest := make(map[string]string)
		for k, vals := range values {
			if !used[k] && len(vals) > 0 {
				rest[k] = vals[0]
			}
		}
		rv.Field(i).Set(reflect.ValueOf(rest))
	}
	return nil
}

// bindFunc walks the exported fields of the struct behind v and sets each
// from lookup(name). Fields without values keep their zero value.
func bindFunc(v any, tag string, lookup func(name string) []string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", bindErr)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a pointer to struct", bindErr)
	}

	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, ok := fieldName(sf, tag)
		if !ok {
			continue
		}
		vals := lookup(name)
		if len(vals) == 0 {
			continue
		}
		if err := setFieldValue(rv.Field(i), sf.Type, vals); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, sf.Name, err)
		}
	}
	return nil
}

// fieldName returns the parameter name for sf. Untagged fields are skipped
// so JSON-only fields never pick up query or header values.
func fieldName(sf reflect.StructField, tag string) (string, bool) {
	t, ok := sf.Tag.Lookup(tag)
	if !ok || t == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(t, ",")
	if name == "" {
		return "", false
	}
	return name, true
}

func hasOption(t, opt string) bool {
	parts := strings.Split(t, ",")
	return len(parts) > 1 && slices.Contains(parts[1:], opt)
}

func setFieldValue(field reflect.Value, typ reflect.Type, values []string) error {
	if typ.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(typ.Elem()))
		}
		return setFieldValue(field.Elem(), typ.Elem(), values)
	}
	if typ.Kind() == reflect.Slice {
		return setSliceValue(field, typ, values)
	}

	value := values[0]
	switch typ.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, typ.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, typ.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), typ.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid bool value %q", value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", typ)
	}
	return nil
}

// setSliceValue accepts repeated parameters as well as comma separated lists.
func setSliceValue(field reflect.Value, typ reflect.Type, values []string) error {
	var all []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				all = append(all, part)
			}
		}
	}
	slice := reflect.MakeSlice(typ, len(all), len(all))
	for i, v := range all {
		if err := setFieldValue(slice.Index(i), typ.Elem(), []string{v}); err != nil {
			return err
		}
	}
	field.Set(slice)
	return nil
}
