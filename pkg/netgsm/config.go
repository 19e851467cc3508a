package netgsm

import (
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	// DefaultBaseURL is the NetGSM API host.
	DefaultBaseURL = "https://api.netgsm.com.tr"

	// DefaultEncoding is the response body charset assumed when none is set.
	DefaultEncoding = "utf8"

	// DefaultTimeout bounds a single request when no HTTP client is injected.
	DefaultTimeout = 60 * time.Second
)

// Config holds the settings of a Client.
// Use DefaultConfig() and fill in the credentials.
type Config struct {
	// BaseURL is the API root; requests go to BaseURL/api/{endpoint}.
	BaseURL string `validate:"required,url"`

	// Usercode and Password are the API user credentials.
	Usercode string `validate:"required"`
	Password string `validate:"required"`

	// MsgHeader is the approved sender name used on outgoing messages.
	MsgHeader string

	// Encoding is the charset of response bodies, as a WHATWG label
	// ("utf8", "iso-8859-9", "windows-1254", ...). Non-UTF-8 bodies are
	// transcoded to UTF-8.
	Encoding string `validate:"charset"`

	// Timeout for the default HTTP client. Ignored with WithHTTPClient.
	Timeout time.Duration `validate:"gte=0"`

	// QueryStringAuth sends usercode and password as query parameters
	// instead of an HTTP Basic Authorization header.
	QueryStringAuth bool
}

// DefaultConfig returns a Config with every default filled in except the
// credentials.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Encoding: DefaultEncoding,
		Timeout:  DefaultTimeout,
	}
}

// SetDefaults fills in zero-valued optional fields.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Encoding == "" {
		c.Encoding = DefaultEncoding
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func configValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails for an empty tag or a nil func.
		_ = v.RegisterValidation("charset", func(fl validator.FieldLevel) bool {
			label := fl.Field().String()
			if label == "" {
				return true
			}
			_, err := htmlindex.Get(label)
			return err == nil
		})
		validate = v
	})
	return validate
}

// Validate checks the configuration. Missing credentials are reported as
// ErrMissingCredentials, anything else as ErrInvalidConfig; both come
// wrapped in a *ConfigError naming the field.
func (c *Config) Validate() error {
	err := configValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ConfigError{Err: ErrInvalidConfig, Rule: err.Error()}
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" && (fe.Field() == "Usercode" || fe.Field() == "Password") {
			return &ConfigError{Field: fe.Field(), Rule: fe.Tag(), Err: ErrMissingCredentials}
		}
	}
	fe := fieldErrs[0]
	return &ConfigError{Field: fe.Field(), Rule: fe.Tag(), Err: ErrInvalidConfig}
}
