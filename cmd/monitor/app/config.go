package app

import (
	"errors"
	"flag"
	"fmt"
	"net"
)

// Config holds the monitor settings, built from command line flags.
type Config struct {
	ListenAddr string
	DBPath     string
	Verbose    bool
}

// NewConfig returns the default configuration: listen on the reference
// sender port, no recording.
func NewConfig() *Config {
	return &Config{
		ListenAddr: ":5005",
	}
}

// NewConfigFromCLI parses command line flags into a Config.
func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	flag.StringVar(&c.ListenAddr, "l", c.ListenAddr, "UDP address to listen on (host:port)")
	flag.StringVar(&c.DBPath, "db", "", "Record decoded commands to this database file (optional)")
	flag.BoolVar(&c.Verbose, "verbose", false, "Log every decoded command")
	flag.Parse()

	var err error
	if c.ListenAddr == "" {
		err = errors.New("listen address is required")
	} else if _, _, aErr := net.SplitHostPort(c.ListenAddr); aErr != nil {
		err = fmt.Errorf("invalid listen address '%s': %w", c.ListenAddr, aErr)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}
	return c, nil
}
