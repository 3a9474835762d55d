package validator

import "slices"

// Constraint builds the rule that checks one decoded document value.
type Constraint func(field string, value any) Rule

// Property declares the constraints of one document field. When Message is
// set it replaces the message of whichever constraint fails.
type Property struct {
	Message     string
	Constraints []Constraint
}

// Schema is a declarative rule table for a JSON-like document:
// field -> constraints, plus the list of mandatory fields.
//
// Example:
//
//	schema := validator.Schema{
//		Properties: map[string]validator.Property{
//			"titel": {Constraints: []validator.Constraint{validator.String(), validator.Pattern(titleRe)}},
//			"wert":  {Constraints: []validator.Constraint{validator.Number(), validator.Minimum(0)}},
//		},
//		Required: []string{"titel"},
//	}
//	err := schema.Validate(doc)
type Schema struct {
	Properties map[string]Property
	Required   []string

	// AdditionalProperties allows fields that have no Property declared.
	AdditionalProperties bool

	// RequiredMessage is used for missing mandatory fields without a Property message.
	RequiredMessage string
	// UnknownMessage is used for undeclared fields.
	UnknownMessage string
}

// Validate checks doc against the schema. It returns nil or ValidationErrors
// holding at most one error per field. A nil value is treated as absent.
func (s Schema) Validate(doc map[string]any) error {
	if doc == nil {
		return ErrNilDocument
	}

	var errs ValidationErrors

	for _, name := range s.Required {
		if v, ok := doc[name]; ok && v != nil {
			continue
		}
		errs.Add(ValidationError{
			Field:          name,
			Message:        s.messageFor(name, s.RequiredMessage, "field is required"),
			TranslationKey: "validation.required",
			TranslationValues: map[string]any{
				"field": name,
			},
		})
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		value := doc[key]
		prop, declared := s.Properties[key]
		if !declared {
			if !s.AdditionalProperties {
				errs.Add(ValidationError{
					Field:          key,
					Message:        fallback(s.UnknownMessage, "unknown field"),
					TranslationKey: "validation.unknown_field",
					TranslationValues: map[string]any{
						"field": key,
					},
				})
			}
			continue
		}
		if value == nil || errs.Has(key) {
			continue
		}

		for _, c := range prop.Constraints {
			rule := c(key, value)
			if rule.Check() {
				continue
			}
			verr := rule.Error
			if prop.Message != "" {
				verr.Message = prop.Message
			}
			errs.Add(verr)
			break
		}
	}

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func (s Schema) messageFor(field, preferred, def string) string {
	if prop, ok := s.Properties[field]; ok && prop.Message != "" {
		return prop.Message
	}
	return fallback(preferred, def)
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
