package handlers

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/slada12/secure-blu-vault/internal/core/domain"
)

// RegisterValidators adds the custom binding tags used by the request DTOs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("swift", func(fl validator.FieldLevel) bool {
		return domain.IsSWIFTCode(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation("iso4217", func(fl validator.FieldLevel) bool {
		return domain.IsCurrencyCode(fl.Field().String())
	})
}
