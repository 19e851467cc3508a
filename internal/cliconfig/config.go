package cliconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/netgsm-go/netgsm/pkg/netgsm"
)

// Config holds CLI configuration for netgsm.
type Config struct {
	BaseURL  string
	Usercode string
	Password string

	MsgHeader       string
	Encoding        string
	Timeout         time.Duration
	QueryStringAuth bool

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaseURL:  netgsm.DefaultBaseURL,
		Encoding: netgsm.DefaultEncoding,
		Timeout:  netgsm.DefaultTimeout,
		LogLevel: "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	cc := c.ClientConfig()
	cc.SetDefaults()
	c.BaseURL = strings.TrimRight(cc.BaseURL, "/")
	c.Encoding = cc.Encoding
	c.Timeout = cc.Timeout

	return cc.Validate()
}

// Level parses LogLevel. An empty level means info.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log-level: %w", err)
	}
	return lvl, nil
}

// ClientConfig converts to the library configuration.
func (c Config) ClientConfig() netgsm.Config {
	return netgsm.Config{
		BaseURL:         c.BaseURL,
		Usercode:        c.Usercode,
		Password:        c.Password,
		MsgHeader:       c.MsgHeader,
		Encoding:        c.Encoding,
		Timeout:         c.Timeout,
		QueryStringAuth: c.QueryStringAuth,
	}
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.Password != "" {
		c.Password = "*****"
	}
	return c
}

// configSetter applies values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
