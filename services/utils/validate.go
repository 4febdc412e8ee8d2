package utils

import (
	"log"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	coinSymbolRe = regexp.MustCompile(`^[A-Z0-9]{2,6}$`)
)

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("coin-symbol", ValidateCoinSymbol); err != nil {
		log.Fatal(err)
	}
}

func ValidateCoinSymbol(fl validator.FieldLevel) bool {
	return coinSymbolRe.MatchString(fl.Field().String())
}
