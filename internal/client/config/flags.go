package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/udpmail/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address:port of the server's UDP command socket
//	-t int      reply timeout, seconds
//	-n bool     enable the push-notification listener
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerAddr, "a", config.ServerAddr, "server address and port")
	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "reply timeout (in seconds)")
	fs.BoolVar(&config.Notifications, "n", config.Notifications, "enable push notification listener")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
