package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MacaulyV/foodbridge/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, EnvProduction, c.Environment)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, logging.FormatText, c.LogFormat)
	assert.NotEmpty(t, c.DataDir)
	assert.NoError(t, c.Validate())
}

func TestBaseURL(t *testing.T) {
	c := defaults()
	assert.Equal(t, ProductionBaseURL, c.BaseURL())

	c.Environment = EnvDevelopment
	assert.Equal(t, DevelopmentBaseURL, c.BaseURL())
	assert.True(t, c.IsDevelopment())

	c.APIBaseURL = "http://10.0.2.2:3000"
	assert.Equal(t, "http://10.0.2.2:3000", c.BaseURL())
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    func(c *Config)
		wantErr bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://api:3000", "-e", "development", "-t", "5", "-i", "10", "-d", "/tmp/fb", "-l", "debug"},
			want: func(c *Config) {
				c.APIBaseURL = "http://api:3000"
				c.Environment = EnvDevelopment
				c.RequestTimeout = 5 * time.Second
				c.OnlineCheckInterval = 10 * time.Second
				c.DataDir = "/tmp/fb"
				c.LogLevel = "debug"
			},
		},
		{
			name: "unknown flags are ignored",
			args: []string{"-x", "1", "-a=http://api", "--verbose"},
			want: func(c *Config) { c.APIBaseURL = "http://api" },
		},
		{name: "bad interval", args: []string{"-i", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaults()
			err := parseFlags(&got, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := defaults()
			tt.want(&want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestParseFlags_KeepsSubSecondValuesWhenAbsent(t *testing.T) {
	c := defaults()
	c.OnlineCheckInterval = 1500 * time.Millisecond
	require.NoError(t, parseFlags(&c, nil))
	assert.Equal(t, 1500*time.Millisecond, c.OnlineCheckInterval)
}

func TestParseJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url":          "http://json:3000",
		"online_check_interval": "7s",
		"request_timeout":       2000000000,
		"log_format":            "console",
	})

	c := defaults()
	require.NoError(t, parseJSON(&c, []string{"-config", path}))

	want := defaults()
	want.APIBaseURL = "http://json:3000"
	want.OnlineCheckInterval = 7 * time.Second
	want.RequestTimeout = 2 * time.Second
	want.LogFormat = logging.FormatConsole
	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseJSON_Errors(t *testing.T) {
	c := defaults()
	require.NoError(t, parseJSON(&c, nil))

	assert.Error(t, parseJSON(&c, []string{"-c", filepath.Join(t.TempDir(), "missing.json")}))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	assert.Error(t, parseJSON(&c, []string{"-c", bad}))
}

func TestParseEnv(t *testing.T) {
	vars := map[string]string{
		EnvAPIBaseURL:          "http://env:3000",
		EnvEnvironment:         "development",
		EnvRequestTimeout:      "4s",
		EnvOnlineCheckInterval: "250ms",
		EnvLogFormat:           "console",
	}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}

	c := defaults()
	require.NoError(t, parseEnv(&c, nil, lookup))

	want := defaults()
	want.APIBaseURL = "http://env:3000"
	want.Environment = EnvDevelopment
	want.RequestTimeout = 4 * time.Second
	want.OnlineCheckInterval = 250 * time.Millisecond
	want.LogFormat = logging.FormatConsole
	assert.Empty(t, cmp.Diff(want, c))

	vars[EnvRequestTimeout] = "soon"
	assert.Error(t, parseEnv(&c, nil, lookup))
}

func TestParseEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FOODBRIDGE_API_URL=http://file:3000\nFOODBRIDGE_LOG_LEVEL=warn\n"), 0o600))
	process := func(k string) (string, bool) {
		if k == EnvLogLevel {
			return "error", true
		}
		return "", false
	}

	c := defaults()
	require.NoError(t, parseEnv(&c, []string{"-env", path}, process))
	assert.Equal(t, "http://file:3000", c.APIBaseURL)
	assert.Equal(t, "error", c.LogLevel, "process environment wins over the file")

	assert.Error(t, parseEnv(&c, []string{"-env", filepath.Join(t.TempDir(), "none")}, noEnv))
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "http://env:3000")
	t.Setenv(EnvDataDir, t.TempDir())
	path := writeTempJSON(t, map[string]any{"api_base_url": "http://json:3000", "environment": "development"})

	cfg, err := LoadConfig([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, "http://json:3000", cfg.APIBaseURL)
	assert.Equal(t, EnvDevelopment, cfg.Environment)

	cfg, err = LoadConfig([]string{"-c", path, "-a", "http://flag:3000"})
	require.NoError(t, err)
	assert.Equal(t, "http://flag:3000", cfg.APIBaseURL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv(EnvEnvironment, "staging")
	_, err := LoadConfig(nil)
	require.Error(t, err)

	t.Setenv(EnvEnvironment, "production")
	_, err = LoadConfig([]string{"-t", "0"})
	require.Error(t, err)
}
