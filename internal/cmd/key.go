package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"golang.org/x/term"

	"github.com/Alia5/JOYSTATE/internal/configpaths"
)

// KeyCommand groups API key subcommands.
type KeyCommand struct {
	Show KeyShow `cmd:"" help:"Print the current API key"`
	Set  KeySet  `cmd:"" help:"Set the API key"`
}

// KeyShow prints the stored API key.
type KeyShow struct{}

func (k *KeyShow) Run(logger *slog.Logger) error {
	p, err := keyFilePath()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("no API key stored yet (run the server once or use 'key set'): %w", err)
	}
	fmt.Println(strings.TrimSpace(string(data)))
	return nil
}

// KeySet stores a new API key, prompting when run interactively.
type KeySet struct {
	Value string `arg:"" optional:"" help:"New API key. Prompted for when omitted."`
}

func (k *KeySet) Run(logger *slog.Logger) error {
	value := k.Value
	if value == "" {
		var err error
		value, err = promptKey()
		if err != nil {
			return err
		}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	p, err := keyFilePath()
	if err != nil {
		return err
	}
	if err := configpaths.EnsureDir(p); err != nil {
		return err
	}
	if err := os.WriteFile(p, []byte(value), 0o600); err != nil {
		return fmt.Errorf("failed to write API key: %w", err)
	}
	logger.Info("API key updated", "path", p)
	return nil
}

func keyFilePath() (string, error) {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve key file path: %w", err)
	}
	return path.Join(dir, keyFileName), nil
}

func promptKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print("New API key: ")
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	r := bufio.NewReader(os.Stdin)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
