package config

import (
	"github.com/Alia5/JOYSTATE/internal/cmd"
)

// CLI is the root command-line configuration parsed by Kong.
// Values can come from flags, environment variables, or a config file.
type CLI struct {
	Config string `help:"Path to a configuration file" env:"JOYSTATE_CONFIG"`

	Log struct {
		Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"JOYSTATE_LOG_LEVEL"`
		File    string `help:"Also write logs to this file" env:"JOYSTATE_LOG_FILE"`
		RawFile string `help:"Write raw snapshot frame dumps to this file" env:"JOYSTATE_LOG_RAW_FILE"`
	} `embed:"" prefix:"log."`

	Server    cmd.Server        `cmd:"" help:"Run the JOYSTATE snapshot hub server" default:"withargs"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
	Key       cmd.KeyCommand    `cmd:"" help:"Manage the API server key"`
	Install   cmd.Install       `cmd:"" help:"Install JOYSTATE as a system service"`
	Uninstall cmd.Uninstall     `cmd:"" help:"Remove the JOYSTATE system service"`
}
