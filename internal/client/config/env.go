package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// envConfig is a DTO for the environment overlay. No defaults are declared
// here: a variable that is unset leaves the existing Config value in place.
type envConfig struct {
	APIBaseURL          string        `env:"PROFILECLI_API_URL"`
	StorePath           string        `env:"PROFILECLI_STORE_PATH"`
	RequestTimeout      time.Duration `env:"PROFILECLI_REQUEST_TIMEOUT"`
	LoginRedirectDelay  time.Duration `env:"PROFILECLI_LOGIN_REDIRECT_DELAY"`
	SignupRedirectDelay time.Duration `env:"PROFILECLI_SIGNUP_REDIRECT_DELAY"`
}

// parseEnv overlays Config with values from the environment. Malformed
// values panic, matching the JSON loader.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := envconfig.Process(context.Background(), &ec); err != nil {
		panic(err)
	}

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.StorePath != "" {
		cfg.StorePath = ec.StorePath
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.LoginRedirectDelay != 0 {
		cfg.LoginRedirectDelay = ec.LoginRedirectDelay
	}
	if ec.SignupRedirectDelay != 0 {
		cfg.SignupRedirectDelay = ec.SignupRedirectDelay
	}
}
