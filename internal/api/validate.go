package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks a decoded request DTO against its validate tags and
// returns one message per failing field, or nil.
func ValidateRequest(v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var out []string
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			out = append(out, fe.Field()+": "+messageFor(fe))
		}
	} else {
		out = append(out, err.Error())
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gtfield":
		return fmt.Sprintf("must be after %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "invalid value"
	}
}

// WriteValidationErrors renders ValidateRequest output as a 400 envelope.
func WriteValidationErrors(w http.ResponseWriter, problems []string) {
	WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", strings.Join(problems, "; "))
}
