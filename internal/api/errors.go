package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a request that cannot be processed as sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("Invalid field: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("Missing field: %s", e.Field)
}

// validationFailure converts validator output into a ValidationError naming
// the first offending field.
func validationFailure(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return &ValidationError{Field: fe.Field()}
		}
		return &ValidationError{Field: fe.Field(), Reason: fe.Tag()}
	}
	return &ValidationError{Field: "body", Reason: err.Error()}
}
