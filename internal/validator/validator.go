// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"divtrack/internal/equity"
	"divtrack/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ledger_action", validateLedgerAction)
		_ = v.RegisterValidation("ledger_currency", validateLedgerCurrency)
		_ = v.RegisterValidation("equity_period", validateEquityPeriod)
	}
}

func validateLedgerAction(fl validator.FieldLevel) bool {
	return models.Action(fl.Field().String()).Valid()
}

func validateLedgerCurrency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "CAD", "USD":
		return true
	}
	return false
}

func validateEquityPeriod(fl validator.FieldLevel) bool {
	_, err := equity.ParsePeriod(fl.Field().String())
	return err == nil
}
