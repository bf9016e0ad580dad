package api

import (
	"io"
	"log/slog"
	"net"

	"github.com/Alia5/JOYSTATE/internal/log"
	"github.com/Alia5/JOYSTATE/internal/server/hub"
	"github.com/Alia5/JOYSTATE/snapshot"
)

// WatchStreamHandler returns a stream handler that pushes a wire-format
// snapshot frame to the client whenever the device state changes. The
// current state is sent immediately on connect.
func WatchStreamHandler(rawLogger log.RawLogger) StreamHandlerFunc {
	return func(conn net.Conn, dev *hub.Device, logger *slog.Logger) error {
		defer conn.Close()

		ch, cancel := dev.Watch()
		defer cancel()

		// Detect client disconnect; watchers never send data.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			buf := make([]byte, 1)
			for {
				if _, err := conn.Read(buf); err != nil {
					return
				}
			}
		}()

		write := func(s *snapshot.Snapshot) error {
			data, err := s.MarshalBinary()
			if err != nil {
				return err
			}
			if rawLogger != nil {
				rawLogger.Log(false, data)
			}
			if _, err := conn.Write(data); err != nil {
				return err
			}
			return nil
		}

		current := dev.State()
		if err := write(&current); err != nil {
			return err
		}

		for {
			select {
			case s, ok := <-ch:
				if !ok {
					// Device removed from the hub.
					return nil
				}
				if err := write(&s); err != nil {
					if err == io.EOF {
						return nil
					}
					return err
				}
			case <-closed:
				logger.Debug("watch client disconnected", "device", dev.ID())
				return nil
			}
		}
	}
}
