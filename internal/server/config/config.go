// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the udpmail server.
//
// Fields:
//   - BindAddr: IPv4 address to bind the UDP socket to. Empty means pick one
//     automatically (prefer a private address on a wireless interface).
//   - Port: UDP port the command socket listens on.
//   - DatabaseDSN: storage backend selector. Empty uses the file backend
//     under DataDir; postgres:// uses pgx; anything else is a sqlite path.
//   - DataDir: base directory of the per-user account tree (file backend).
//   - ReadBufferSize: fixed receive buffer; larger datagrams are unsupported.
type Config struct {
	BindAddr       string
	Port           int
	DatabaseDSN    string
	DataDir        string
	ReadBufferSize int
}

// LoadDefaults populates Config with the deployment defaults.
func (c *Config) LoadDefaults() {
	c.BindAddr = ""
	c.Port = 9876
	c.DatabaseDSN = ""
	c.DataDir = "data/accounts"
	c.ReadBufferSize = 4096
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
