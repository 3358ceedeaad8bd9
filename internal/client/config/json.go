package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/udpmail/internal/flagx"
	"github.com/dmitrijs2005/udpmail/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for the timeout so values can be either
// strings like "3s" or integer nanoseconds.
type JsonConfig struct {
	ServerAddr     string         `json:"server_addr"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	Notifications  bool           `json:"notifications"`
}

// parseJson loads configuration values from a JSON file selected via the
// -c or -config flags. If no file is given, nothing is loaded. If the file
// cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

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

	config.ServerAddr = c.ServerAddr
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
	config.Notifications = c.Notifications
}
