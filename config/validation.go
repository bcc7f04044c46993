package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every violated field at once.
func (c Config) Validate() error {
	return check(c)
}

func (p Planner) Validate() error {
	return check(p)
}

func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s failed %s=%s (value: %v)", e.Namespace(), e.Tag(), e.Param(), e.Value()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}
