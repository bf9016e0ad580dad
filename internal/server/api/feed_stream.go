package api

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/Alia5/JOYSTATE/internal/log"
	"github.com/Alia5/JOYSTATE/internal/server/hub"
	"github.com/Alia5/JOYSTATE/snapshot"
)

// FeedStreamHandler returns a stream handler that accepts fixed-size
// snapshot frames from a device poller and publishes them to the hub.
// The device is marked disconnected when the feed drops.
func FeedStreamHandler(rawLogger log.RawLogger) StreamHandlerFunc {
	return func(conn net.Conn, dev *hub.Device, logger *slog.Logger) error {
		defer conn.Close()
		defer dev.MarkDisconnected()

		r := bufio.NewReaderSize(conn, snapshot.WireSize*4)
		buf := make([]byte, snapshot.WireSize)
		for {
			if _, err := io.ReadFull(r, buf); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
					logger.Debug("feed closed", "device", dev.ID())
					return nil
				}
				return err
			}
			if rawLogger != nil {
				rawLogger.Log(true, buf)
			}

			var s snapshot.Snapshot
			if err := s.UnmarshalBinary(buf); err != nil {
				return err
			}
			seq, changed := dev.Publish(s)
			logger.Log(context.Background(), log.LevelTrace, "snapshot published", "device", dev.ID(), "seq", seq, "changed", changed)
		}
	}
}
