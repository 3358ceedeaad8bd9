package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.ServerAddr, "127.0.0.1:9876")
	assert.Equal(t, c.RequestTimeout, 3*time.Second)
	assert.True(t, c.Notifications)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.ServerAddr, "127.0.0.1:9876")
	assert.Equal(t, c.RequestTimeout, 3*time.Second)
}
