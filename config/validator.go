package config

import (
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the shared validator used by the config package
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("port", func(fl validator.FieldLevel) bool {
			port, err := strconv.Atoi(fl.Field().String())
			return err == nil && port > 0 && port < 65536
		})

		validateInst = v
	})
	return validateInst
}
