// Package validate wraps go-playground/validator with human-readable messages.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return humanize(v.Struct(s))
}

// Title returns a non-empty message when title is unusable for a time entry.
func Title(title string) string {
	if err := v.Var(strings.TrimSpace(title), "required"); err != nil {
		return "Please enter a valid title!"
	}
	return ""
}

func humanize(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "url":
		return field + " must be a valid URL"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "hostname_port":
		return field + " must be host:port"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
