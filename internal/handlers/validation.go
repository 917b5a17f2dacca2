package handlers

import (
	"fmt"
	"sync"

	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the custom binding tags used by the request DTOs.
func registerValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("granularity", validateGranularity)
	})
	return err
}

func validateGranularity(fl validator.FieldLevel) bool {
	_, err := domain.ParseGranularity(fl.Field().String())
	return err == nil
}
