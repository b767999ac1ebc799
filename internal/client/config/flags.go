package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// Flags lists the command-line flags owned by the client config. Each takes
// a value.
var Flags = []string{"-a", "-w"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the backend server
//	-w int      request timeout (in seconds)
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, Flags)

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "w" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
