// Package config loads runtime configuration for the FoodBridge CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables FOODBRIDGE_*, optionally seeded from a dotenv
//     file selected with -env. Variables already set in the process win
//     over the file.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-e string   environment: development or production
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-d string   data directory
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:3000",
//	  "environment": "development",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "data_dir": "/home/me/.config/foodbridge",
//	  "log_level": "debug",
//	  "log_format": "console"
//	}
package config
