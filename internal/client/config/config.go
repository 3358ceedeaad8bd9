package config

import "time"

// Config holds runtime settings for the udpmail terminal client.
//
// Fields:
//   - ServerAddr: host:port of the server's UDP command socket.
//   - RequestTimeout: how long to wait for a reply datagram before giving up.
//     UDP gives no delivery guarantee, so a lost request or reply surfaces as
//     this timeout.
//   - Notifications: whether to open the push-notification listener before
//     logging in.
type Config struct {
	ServerAddr     string
	RequestTimeout time.Duration
	Notifications  bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "127.0.0.1:9876"
	c.RequestTimeout = 3 * time.Second
	c.Notifications = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
