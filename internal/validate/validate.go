// Package validate decodes and validates JSON request payloads. Validation
// collects every failing field rather than stopping at the first, so clients
// can render all form errors at once.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
	"github.com/kursattkorkmazzz/garagely/internal/storage"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report failures under the wire field names, not Go struct fields.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("entitytype", func(fl validator.FieldLevel) bool {
		return storage.EntityType(fl.Field().String()).Valid()
	})

	return v
}

// Decode reads the JSON body into dst and validates it. Any failure becomes
// a VALIDATION_ERROR carrying a field→messages map.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("Request body is required", nil)
		}
		return apperror.Validation("Request body must be valid JSON", nil)
	}
	return Struct(dst)
}

// Struct validates an already-populated payload.
func Struct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("validate: %w", err)
	}

	details := map[string][]string{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			field := fieldName(fe)
			details[field] = append(details[field], message(fe))
		}
	}
	return apperror.Validation("Validation failed", details)
}

// fieldName strips the struct type prefix from the namespace, keeping
// nested paths ("preferences.theme") intact.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "entitytype":
		return fmt.Sprintf("Must be one of: %s", joinEntityTypes())
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}

func joinEntityTypes() string {
	types := storage.EntityTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
