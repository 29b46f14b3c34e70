package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/homedrive/internal/flagx"
	"github.com/dmitrijs2005/homedrive/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr           string         `json:"endpoint_addr"`
	DatabaseDSN            string         `json:"database_dsn"`
	SessionSecret          string         `json:"session_secret"`
	SecureCookies          bool           `json:"secure_cookies"`
	SessionIdleTimeout     timex.Duration `json:"session_idle_timeout"`
	SessionAbsoluteTimeout timex.Duration `json:"session_absolute_timeout"`
	SessionSweepInterval   timex.Duration `json:"session_sweep_interval"`
	ShutdownGracePeriod    timex.Duration `json:"shutdown_grace_period"`
	DefaultQuotaBytes      int64          `json:"default_quota_bytes"`
	ClaimCodeValidity      timex.Duration `json:"claim_code_validity"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SessionSecret = c.SessionSecret
	config.SecureCookies = c.SecureCookies
	config.SessionIdleTimeout = time.Duration(c.SessionIdleTimeout.Duration)
	config.SessionAbsoluteTimeout = time.Duration(c.SessionAbsoluteTimeout.Duration)
	config.SessionSweepInterval = time.Duration(c.SessionSweepInterval.Duration)
	config.ShutdownGracePeriod = time.Duration(c.ShutdownGracePeriod.Duration)
	config.DefaultQuotaBytes = c.DefaultQuotaBytes
	config.ClaimCodeValidity = time.Duration(c.ClaimCodeValidity.Duration)
}
