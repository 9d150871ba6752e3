package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"sanctuary/pkg/domain"
)

// enumValue is implemented by the domain enums.
type enumValue interface {
	Valid() bool
}

func newAttributeValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enumValue)
		return ok && e.Valid()
	})
	return v
}

func (e *PlacementEngine) validateAttributes(op string, attrs ResidentAttributes) error {
	if err := e.validate.Struct(attrs); err != nil {
		return validationFailure(op, "invalid resident attributes", err)
	}
	return nil
}

func (e *PlacementEngine) validateValue(op, field string, value any, tag string) error {
	if err := e.validate.Var(value, tag); err != nil {
		return validationFailure(op, "invalid "+field, err)
	}
	return nil
}

func validationFailure(op, prefix string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return newError(op, domain.ErrValidation, "%s: %v", prefix, err)
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.Field()
		if name == "" {
			name = "value"
		}
		parts = append(parts, fmt.Sprintf("%s failed %q (got %v)", name, fe.Tag(), fe.Value()))
	}
	return newError(op, domain.ErrValidation, "%s: %s", prefix, strings.Join(parts, ", "))
}
