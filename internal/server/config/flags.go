package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/udpmail/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   bind address (empty = auto-select)
//	-p int      UDP port
//	-d string   storage DSN (empty = file backend)
//	-s string   data directory for the file backend
//	-b int      receive buffer size in bytes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-d", "-s", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.BindAddr, "a", config.BindAddr, "bind address (empty = auto-select)")
	fs.IntVar(&config.Port, "p", config.Port, "UDP port to listen on")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "storage DSN (empty = file backend)")
	fs.StringVar(&config.DataDir, "s", config.DataDir, "data directory for the file backend")
	fs.IntVar(&config.ReadBufferSize, "b", config.ReadBufferSize, "receive buffer size in bytes")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
