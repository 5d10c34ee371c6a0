package leads

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julianbeese/luxury_estate/internal/domain"
)

const dateLayout = "2006-01-02"

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so errors match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// structError converts the first validator failure into a domain error
func structError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.ValidationError{Msg: "invalid request", Err: err}
	}

	fe := fieldErrs[0]
	return domain.ValidationError{Field: fe.Field(), Msg: describe(fe), Err: err}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt", "gte":
		return "must be a positive number"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// checkTourDate rejects dates before today in the given location
func checkTourDate(date string, now time.Time) error {
	d, err := time.ParseInLocation(dateLayout, date, now.Location())
	if err != nil {
		return domain.ValidationError{Field: "tourDate", Msg: "must be a date in YYYY-MM-DD format", Err: err}
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return domain.ValidationError{Field: "tourDate", Msg: "must not be in the past"}
	}
	return nil
}
