// Package config loads runtime configuration for the pdfdesk client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory (if present), then the process
//     environment: PDFDESK_API_URL (or NEXT_PUBLIC_API_URL), PDFDESK_DEBOUNCE,
//     PDFDESK_REQUEST_TIMEOUT, PDFDESK_LOG_LEVEL.
//  3. Optional JSON file selected via -c or --config.
//  4. Command-line flags (see Flags), which override earlier values.
//
// # JSON schema
//
// Durations can be strings like "500ms" or integer nanoseconds:
//
//	{
//	  "api_url": "http://localhost:8000",
//	  "debounce_delay": "500ms",
//	  "request_timeout": "30s",
//	  "log_level": "info"
//	}
package config
