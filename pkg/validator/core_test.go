package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acme/gemaelde/pkg/validator"
)

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	var errs validator.ValidationErrors
	assert.True(t, errs.IsEmpty())
	assert.Nil(t, errs.Map())
	assert.Equal(t, "validation failed", errs.Error())

	errs.Add(validator.ValidationError{Field: "titel", Message: "first"})
	errs.Add(validator.ValidationError{Field: "titel", Message: "second"})
	errs.Add(validator.ValidationError{Field: "wert", Message: "negative"})

	assert.False(t, errs.IsEmpty())
	assert.True(t, errs.Has("wert"))
	assert.False(t, errs.Has("art"))
	assert.Equal(t, map[string]string{"titel": "first", "wert": "negative"}, errs.Map())
	assert.Equal(t, "validation failed: titel: first; titel: second; wert: negative", errs.Error())
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{{Field: "art", Message: "bad"}}

	assert.Equal(t, errs, validator.ExtractValidationErrors(errs))
	assert.Equal(t, errs, validator.ExtractValidationErrors(fmt.Errorf("create: %w", errs)))
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("boom")))
	assert.Nil(t, validator.ExtractValidationErrors(nil))
}
