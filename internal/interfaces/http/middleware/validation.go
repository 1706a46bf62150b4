package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/brecho/backend/internal/domain/checkout"
	"github.com/brecho/backend/internal/interfaces/http/dto"
)

// SetupValidator configures the binding validator with custom tags.
// Must run once before the router starts serving.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// tendermethod accepts only the known payment methods
	_ = v.RegisterValidation("tendermethod", func(fl validator.FieldLevel) bool {
		return checkout.TenderMethod(fl.Field().String()).IsValid()
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 with the formatted validation details
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "tendermethod":
		return e.Field() + " must be a valid tender method"
	default:
		return e.Field() + " is invalid"
	}
}
