package config

import (
	"encoding/json"
	"os"
	"time"

	"profilecli/internal/flagx"
	"profilecli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "15s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	StorePath           string         `json:"store_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	LoginRedirectDelay  timex.Duration `json:"login_redirect_delay"`
	SignupRedirectDelay timex.Duration `json:"signup_redirect_delay"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent nothing is loaded.
// Read or unmarshal errors panic (caller should recover if desired).
// Zero-valued JSON fields leave the existing Config value in place.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.StorePath != "" {
		cfg.StorePath = jc.StorePath
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.LoginRedirectDelay.Duration != 0 {
		cfg.LoginRedirectDelay = time.Duration(jc.LoginRedirectDelay.Duration)
	}
	if jc.SignupRedirectDelay.Duration != 0 {
		cfg.SignupRedirectDelay = time.Duration(jc.SignupRedirectDelay.Duration)
	}
}
