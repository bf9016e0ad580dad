package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/Alia5/JOYSTATE/internal/configpaths"
	"github.com/Alia5/JOYSTATE/internal/log"
	"github.com/Alia5/JOYSTATE/internal/server/api"
	"github.com/Alia5/JOYSTATE/internal/server/api/auth"
	"github.com/Alia5/JOYSTATE/internal/server/api/handler"
	"github.com/Alia5/JOYSTATE/internal/server/hub"
	"github.com/Alia5/JOYSTATE/internal/util"
)

const keyFileName = "joystate.key.txt"

type Server struct {
	ApiServerConfig   api.ServerConfig `embed:"" prefix:"api."`
	HubConfig         hub.Config       `embed:"" prefix:"hub."`
	ConnectionTimeout time.Duration    `help:"Connection operation timeout" default:"30s" env:"JOYSTATE_CONNECTION_TIMEOUT"`
	NoAuth            bool             `help:"Serve the API without authentication" default:"false" env:"JOYSTATE_NO_AUTH"`
}

// Run is called by Kong when the server command is executed.
func (s *Server) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, rawLogger)
}

func (s *Server) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	s.ApiServerConfig.ConnectionTimeout = s.ConnectionTimeout

	logger.Info("Starting JOYSTATE snapshot hub", "addr", s.ApiServerConfig.Addr)

	if s.NoAuth {
		logger.Warn("API authentication disabled")
	} else if err := s.ensureKey(logger); err != nil {
		return err
	}

	if s.ApiServerConfig.Addr == "" {
		logger.Error("API server address must be set (default :3270).")
		return fmt.Errorf("API server address must be set (default :3270)")
	}

	h := hub.New(s.HubConfig, logger)
	apiSrv := api.New(h, s.ApiServerConfig.Addr, s.ApiServerConfig, logger)
	r := apiSrv.Router()
	r.Register("ping", handler.Ping())
	r.Register("device/list", handler.DevicesList(h))
	r.Register("device/add", handler.DeviceAdd(h))
	r.Register("device/{id}/remove", handler.DeviceRemove(h))
	r.Register("device/{id}/state", handler.DeviceState(h))
	r.RegisterStream("device/{id}/feed", api.FeedStreamHandler(rawLogger))
	r.RegisterStream("device/{id}/watch", api.WatchStreamHandler(rawLogger))

	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		if util.IsRunFromGUI() {
			fmt.Println("Press any key to exit...")
			var b []byte = make([]byte, 1)
			_, _ = os.Stdin.Read(b)
		}
		return err
	}

	if util.IsRunFromGUI() {
		go (func() {
			time.Sleep(250 * time.Millisecond)
			util.HideConsoleWindow()
		})()
	}

	<-ctx.Done()
	apiSrv.Close()
	return nil
}

// ensureKey loads the API key file, generating one on first run.
func (s *Server) ensureKey(logger *slog.Logger) error {
	keyFileDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return fmt.Errorf("failed to resolve key file path: %w", err)
	}
	keyFilePath := path.Join(keyFileDir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		s.ApiServerConfig.Password = strings.TrimSpace(string(pwd))
		return nil
	}

	newPwd, err := auth.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate new API key: %w", err)
	}
	if err := os.MkdirAll(keyFileDir, 0o700); err != nil {
		return fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newPwd), 0o600); err != nil {
		return fmt.Errorf("failed to write new API key to file: %w", err)
	}
	s.ApiServerConfig.Password = newPwd
	logger.Info("Generated API server key", "path", keyFilePath)
	logger.Info("-------------------------------------")
	logger.Info("Your JOYSTATE API key is:")
	logger.Info("-------------------------------------")
	logger.Info(newPwd)
	logger.Info("-------------------------------------")
	logger.Info("You can change this key at any time with 'joystate key set'")
	return nil
}
