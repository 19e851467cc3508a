package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with a TOML-friendly duration.
type FileConfig struct {
	BaseURL         string `toml:"base_url"`
	Usercode        string `toml:"usercode"`
	Password        string `toml:"password"`
	MsgHeader       string `toml:"msgheader"`
	Encoding        string `toml:"encoding"`
	Timeout         string `toml:"timeout"`
	QueryStringAuth *bool  `toml:"query_string_auth"`
	LogLevel        string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.netgsm/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".netgsm", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies file values to cfg, skipping flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", fc.BaseURL, &cfg.BaseURL)
	s.setString("usercode", fc.Usercode, &cfg.Usercode)
	s.setString("password", fc.Password, &cfg.Password)
	s.setString("msgheader", fc.MsgHeader, &cfg.MsgHeader)
	s.setString("encoding", fc.Encoding, &cfg.Encoding)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}

	s.setBool("query-string-auth", fc.QueryStringAuth, &cfg.QueryStringAuth)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
