package config

import (
	"fmt"
	"time"

	"github.com/MacaulyV/foodbridge/internal/flagx"
	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAPIBaseURL          = "FOODBRIDGE_API_URL"
	EnvEnvironment         = "FOODBRIDGE_ENV"
	EnvRequestTimeout      = "FOODBRIDGE_REQUEST_TIMEOUT"
	EnvOnlineCheckInterval = "FOODBRIDGE_ONLINE_CHECK_INTERVAL"
	EnvDataDir             = "FOODBRIDGE_DATA_DIR"
	EnvLogLevel            = "FOODBRIDGE_LOG_LEVEL"
	EnvLogFormat           = "FOODBRIDGE_LOG_FORMAT"
)

type lookupFunc func(key string) (string, bool)

// parseEnv overlays cfg with FOODBRIDGE_* variables. When -env names a
// dotenv file its values fill in variables the process does not set.
// Durations use time.ParseDuration syntax.
func parseEnv(cfg *Config, args []string, lookup lookupFunc) error {
	if path := flagx.EnvFilePath(args); path != "" {
		file, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		process := lookup
		lookup = func(key string) (string, bool) {
			if v, ok := process(key); ok {
				return v, true
			}
			v, ok := file[key]
			return v, ok
		}
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str(EnvAPIBaseURL, &cfg.APIBaseURL)
	str(EnvEnvironment, &cfg.Environment)
	str(EnvDataDir, &cfg.DataDir)
	str(EnvLogLevel, &cfg.LogLevel)
	format := string(cfg.LogFormat)
	str(EnvLogFormat, &format)
	cfg.LogFormat = logging.Format(format)

	if err := dur(EnvRequestTimeout, &cfg.RequestTimeout); err != nil {
		return err
	}
	return dur(EnvOnlineCheckInterval, &cfg.OnlineCheckInterval)
}
