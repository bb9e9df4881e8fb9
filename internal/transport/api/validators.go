package api

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// phonePattern допускает только цифры с необязательным ведущим плюсом.
// Телефон служит адресом получателя перевода, поэтому формат жесткий.
var phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

func validatePhone(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return phonePattern.MatchString(str)
}

func registerValidators() error {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	if err := v.RegisterValidation("phone_number", validatePhone); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	return nil
}
