package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
)

// NewValidator создаёт валидатор с тегами clock ("HH:MM") и isodate ("YYYY-MM-DD")
func NewValidator() *validator.Validate {
	validate := validator.New()
	registerScheduleTags(validate)
	return validate
}

func registerScheduleTags(validate *validator.Validate) {
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseClock(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return schedule.IsValidDate(fl.Field().String())
	})
}

func ensureValidator(validate *validator.Validate) *validator.Validate {
	if validate == nil {
		return NewValidator()
	}
	registerScheduleTags(validate)
	return validate
}

func validationError(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
