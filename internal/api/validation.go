package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

// ErrInvalidRequest marks a request body that is malformed or fails its
// struct constraints.
var ErrInvalidRequest = errors.New("invalid request")

// ErrBodyTooLarge marks a JSON body over the configured size limit.
var ErrBodyTooLarge = errors.New("request body too large")

// newValidator returns a validator that knows the component and brand tags.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("component", func(fl validator.FieldLevel) bool {
		return types.Component(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("brand", func(fl validator.FieldLevel) bool {
		_, err := types.ParseBrand(fl.Field().String())
		return err == nil
	})
	return v
}

// validateStruct runs the struct tags of req and converts the first failure
// into an error callers can classify with errors.Is.
func (s *Server) validateStruct(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		switch e.Tag() {
		case "component":
			return fmt.Errorf("%w: %v", types.ErrUnknownComponent, e.Value())
		case "brand":
			return fmt.Errorf("%w: %v", types.ErrUnknownBrand, e.Value())
		case "required":
			return fmt.Errorf("%w: %s: field is required", ErrInvalidRequest, field)
		case "min":
			return fmt.Errorf("%w: %s: must be at least %s", ErrInvalidRequest, field, e.Param())
		case "max":
			return fmt.Errorf("%w: %s: must not exceed %s", ErrInvalidRequest, field, e.Param())
		default:
			return fmt.Errorf("%w: %s: validation failed (%s)", ErrInvalidRequest, field, e.Tag())
		}
	}
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}
