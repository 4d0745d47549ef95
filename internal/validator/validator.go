// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Micolomike/Xchange/internal/models"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)

// Register registers all custom validators with the Gin binding engine and
// makes JSON binding reject fields the request struct does not declare.
func Register() {
	binding.EnableDecoderDisallowUnknownFields = true

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticket_priority", validateTicketPriority)
		_ = v.RegisterValidation("username", validateUsername)
	}
}

// ValidUsername reports whether s is an acceptable username: 3 to 50
// letters, digits, dots, dashes or underscores.
func ValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

func validateTicketPriority(fl validator.FieldLevel) bool {
	return models.TicketPriority(fl.Field().String()).Valid()
}

func validateUsername(fl validator.FieldLevel) bool {
	return ValidUsername(fl.Field().String())
}
