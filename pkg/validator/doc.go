// Package validator checks decoded JSON documents (map[string]any) against a
// declarative Schema: per-field constraints, mandatory fields and a policy
// for undeclared fields.
//
// Every failure is a ValidationError. Schema.Validate reports at most one
// error per field and returns them together as ValidationErrors, which
// implements error:
//
//	if err := schema.Validate(doc); err != nil {
//		if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//			return verrs.Map()
//		}
//	}
package validator
