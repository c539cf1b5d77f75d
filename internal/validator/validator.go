// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validCurrencies contains ISO 4217 currency codes.
var validCurrencies = map[string]bool{
	"AED": true, "AUD": true, "BRL": true, "CAD": true, "CHF": true,
	"CNY": true, "CZK": true, "DKK": true, "EUR": true, "GBP": true,
	"HKD": true, "HUF": true, "IDR": true, "ILS": true, "INR": true,
	"JPY": true, "KHR": true, "KRW": true, "LAK": true, "MXN": true,
	"MYR": true, "NOK": true, "NZD": true, "PHP": true, "PLN": true,
	"RUB": true, "SEK": true, "SGD": true, "THB": true, "TRY": true,
	"TWD": true, "USD": true, "VND": true, "ZAR": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("kind", validateKind)
	}
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[strings.ToUpper(fl.Field().String())]
}

func validateKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}
