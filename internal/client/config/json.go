package config

import (
	"encoding/json"
	"os"

	"github.com/MacaulyV/foodbridge/internal/flagx"
	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/MacaulyV/foodbridge/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields leave the current value untouched.
type JSONConfig struct {
	APIBaseURL          *string         `json:"api_base_url"`
	Environment         *string         `json:"environment"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DataDir             *string         `json:"data_dir"`
	LogLevel            *string         `json:"log_level"`
	LogFormat           *string         `json:"log_format"`
}

// parseJSON overlays cfg with the file named by -c or -config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.Environment != nil {
		cfg.Environment = *jc.Environment
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = logging.Format(*jc.LogFormat)
	}
	return nil
}
