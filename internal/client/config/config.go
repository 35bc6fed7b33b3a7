package config

import "time"

// Config holds runtime settings for the profile CLI.
//
// The two redirect delays reproduce the post-auth pauses of the account
// flows: login success shows its message briefly before switching to the
// profile view, signup success pauses a little longer before switching to
// login.
type Config struct {
	APIBaseURL     string
	StorePath      string
	RequestTimeout time.Duration

	LoginRedirectDelay  time.Duration
	SignupRedirectDelay time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8081"
	c.StorePath = "profile.db"
	c.RequestTimeout = 15 * time.Second
	c.LoginRedirectDelay = 1 * time.Second
	c.SignupRedirectDelay = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
