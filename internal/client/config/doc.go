// Package config loads runtime configuration for the udpmail terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_addr": "192.168.1.10:9876",
//	  "request_timeout": "3s",
//	  "notifications": true
//	}
package config
