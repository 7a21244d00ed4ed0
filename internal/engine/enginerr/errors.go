// Package enginerr holds the error taxonomy shared by the scoring engine packages.
package enginerr

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a malformed weight table, weight set or count
// input. It is the only engine failure that aborts an operation.
type ConfigurationError struct {
	Component string
	Field     string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s configuration invalid: %s", e.Component, e.Reason)
	}
	return fmt.Sprintf("%s configuration invalid: %s: %s", e.Component, e.Field, e.Reason)
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(component, field, reason string) *ConfigurationError {
	return &ConfigurationError{Component: component, Field: field, Reason: reason}
}

// IsConfiguration reports whether err (or anything it wraps) is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
