package api

import "time"

// ServerConfig represents the server subcommand configuration.
type ServerConfig struct {
	Addr              string        `help:"API server listen address" default:":3270" env:"JOYSTATE_API_ADDR"`
	ConnectionTimeout time.Duration `kong:"-"`
	Password          string        `kong:"-"`
}
