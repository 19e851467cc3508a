package netgsm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("netgsm: invalid configuration")

	// ErrMissingCredentials is returned when the usercode or password is empty.
	// It also matches ErrInvalidConfig.
	ErrMissingCredentials = fmt.Errorf("%w: missing usercode or password", ErrInvalidConfig)

	// ErrUnsupportedMethod is returned for verbs other than GET, POST, PUT and DELETE.
	ErrUnsupportedMethod = errors.New("netgsm: unsupported method")
)

// ConfigError describes the first configuration field that failed validation.
type ConfigError struct {
	Field string
	Rule  string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v (field %s failed %q)", e.Err, e.Field, e.Rule)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the API answers outside the 2xx range.
type StatusError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("netgsm: %s %s: server returned %d: %s", e.Method, e.Endpoint, e.StatusCode, string(e.Body))
}
