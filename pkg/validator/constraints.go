package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"time"
)

// String requires a string value.
func String() Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				_, ok := value.(string)
				return ok
			},
			Error: typeError(field, "string"),
		}
	}
}

// Number requires any integer or floating point value.
func Number() Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				_, ok := toFloat(value)
				return ok
			},
			Error: typeError(field, "number"),
		}
	}
}

// Boolean requires a bool value.
func Boolean() Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				_, ok := value.(bool)
				return ok
			},
			Error: typeError(field, "boolean"),
		}
	}
}

// Object requires a map keyed by strings.
func Object() Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				return isObject(value)
			},
			Error: typeError(field, "object"),
		}
	}
}

// Array requires a slice whose every element satisfies items (if given).
func Array(items Constraint) Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				rv := reflect.ValueOf(value)
				if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
					return false
				}
				if items == nil {
					return true
				}
				for i := range rv.Len() {
					if !items(field, rv.Index(i).Interface()).Check() {
						return false
					}
				}
				return true
			},
			Error: typeError(field, "array"),
		}
	}
}

// Enum requires a string from the allowed list.
func Enum(allowed ...string) Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				s, ok := value.(string)
				return ok && slices.Contains(allowed, s)
			},
			Error: ValidationError{
				Field:          field,
				Message:        fmt.Sprintf("must be one of: %v", allowed),
				TranslationKey: "validation.in_list",
				TranslationValues: map[string]any{
					"field":          field,
					"allowed_values": allowed,
				},
			},
		}
	}
}

// Minimum requires a number greater than or equal to min.
func Minimum(min float64) Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				n, ok := toFloat(value)
				return ok && n >= min
			},
			Error: ValidationError{
				Field:          field,
				Message:        fmt.Sprintf("must be at least %v", min),
				TranslationKey: "validation.min",
				TranslationValues: map[string]any{
					"field": field,
					"min":   min,
				},
			},
		}
	}
}

// Pattern requires a string matching re.
func Pattern(re *regexp.Regexp) Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				s, ok := value.(string)
				return ok && re.MatchString(s)
			},
			Error: ValidationError{
				Field:          field,
				Message:        "has invalid format",
				TranslationKey: "validation.pattern",
				TranslationValues: map[string]any{
					"field":   field,
					"pattern": re.String(),
				},
			},
		}
	}
}

// Date requires a string that parses with the given time layout.
func Date(layout string) Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				s, ok := value.(string)
				if !ok {
					return false
				}
				_, err := time.Parse(layout, s)
				return err == nil
			},
			Error: ValidationError{
				Field:          field,
				Message:        fmt.Sprintf("must be a date in format %s", layout),
				TranslationKey: "validation.date_format",
				TranslationValues: map[string]any{
					"field":  field,
					"layout": layout,
				},
			},
		}
	}
}

// StringFunc requires a string accepted by fn. key names the translation key suffix.
func StringFunc(key string, fn func(string) bool) Constraint {
	return func(field string, value any) Rule {
		return Rule{
			Check: func() bool {
				s, ok := value.(string)
				return ok && fn(s)
			},
			Error: ValidationError{
				Field:          field,
				Message:        "is invalid",
				TranslationKey: "validation." + key,
				TranslationValues: map[string]any{
					"field": field,
				},
			},
		}
	}
}

func typeError(field, typ string) ValidationError {
	return ValidationError{
		Field:          field,
		Message:        "must be of type " + typ,
		TranslationKey: "validation.type",
		TranslationValues: map[string]any{
			"field": field,
			"type":  typ,
		},
	}
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

func isObject(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && !rv.IsNil()
}
