package cliconfig

import "os"

// ApplyEnvConfig applies NETGSM_* environment variables to cfg, skipping
// flags in changed. It fails on a malformed NETGSM_TIMEOUT.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("base-url", os.Getenv("NETGSM_BASE_URL"), &cfg.BaseURL)
	s.setString("usercode", os.Getenv("NETGSM_USERCODE"), &cfg.Usercode)
	s.setString("password", os.Getenv("NETGSM_PASSWORD"), &cfg.Password)
	s.setString("msgheader", os.Getenv("NETGSM_MSGHEADER"), &cfg.MsgHeader)
	s.setString("encoding", os.Getenv("NETGSM_ENCODING"), &cfg.Encoding)
	s.setString("log-level", os.Getenv("NETGSM_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv("NETGSM_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}

	s.setBoolFromString("query-string-auth", os.Getenv("NETGSM_QUERY_STRING_AUTH"), &cfg.QueryStringAuth)

	return nil
}
