//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

// Install sets up JOYSTATE as a system service. Only supported on Linux.
type Install struct{}

func (i *Install) Run(logger *slog.Logger) error {
	return errors.New("install is only supported on Linux")
}

// Uninstall removes the JOYSTATE system service. Only supported on Linux.
type Uninstall struct{}

func (u *Uninstall) Run(logger *slog.Logger) error {
	return errors.New("uninstall is only supported on Linux")
}
