package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/udpmail/internal/flagx"
)

// JsonConfig is the intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	BindAddr       string `json:"bind_addr"`
	Port           int    `json:"port"`
	DatabaseDSN    string `json:"database_dsn"`
	DataDir        string `json:"data_dir"`
	ReadBufferSize int    `json:"read_buffer_size"`
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

	config.BindAddr = c.BindAddr
	config.Port = c.Port
	config.DatabaseDSN = c.DatabaseDSN
	config.DataDir = c.DataDir
	config.ReadBufferSize = c.ReadBufferSize
}
