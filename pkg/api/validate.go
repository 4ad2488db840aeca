package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/logistica/presencas/pkg/core/model"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return model.IsValidStatus(fl.Field().String())
	})
	v.RegisterValidation("sector", func(fl validator.FieldLevel) bool {
		return model.IsValidSector(fl.Field().String())
	})
	v.RegisterValidation("shift", func(fl validator.FieldLevel) bool {
		return model.IsValidShift(fl.Field().String())
	})
	v.RegisterValidation("shift_or_unset", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == model.ShiftUnset || model.IsValidShift(s)
	})
	return v
}
