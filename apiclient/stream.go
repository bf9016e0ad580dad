package apiclient

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/Alia5/JOYSTATE/snapshot"
)

// FeedStream is a long-lived connection a device poller uses to push
// snapshot frames to the server.
type FeedStream struct {
	conn   net.Conn
	DevID  string
	mu     sync.Mutex
	closed bool
}

// OpenFeed connects to a device's feed channel. The device must already
// exist on the hub (use DeviceAdd first).
func (c *Client) OpenFeed(ctx context.Context, devID string) (*FeedStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	// Streams stay open indefinitely.
	_ = conn.SetWriteDeadline(noDeadline)
	_ = conn.SetReadDeadline(noDeadline)

	streamPath := fmt.Sprintf("device/%s/feed\x00", devID)
	if _, err := conn.Write([]byte(streamPath)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &FeedStream{conn: conn, DevID: devID}, nil
}

// Send marshals and pushes one snapshot frame.
func (s *FeedStream) Send(snap *snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("stream closed")
	}
	data, err := snap.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = s.conn.Write(data)
	return err
}

// Close terminates the feed. The server marks the device disconnected.
func (s *FeedStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// WatchStream is a long-lived connection that receives a snapshot frame
// whenever the watched device's state changes.
type WatchStream struct {
	conn   net.Conn
	DevID  string
	closed bool

	readCancel context.CancelFunc
	readMu     sync.Mutex
}

// OpenWatch connects to a device's watch channel. The server immediately
// sends the current state, then one frame per state change.
func (c *Client) OpenWatch(ctx context.Context, devID string) (*WatchStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	_ = conn.SetWriteDeadline(noDeadline)
	_ = conn.SetReadDeadline(noDeadline)

	streamPath := fmt.Sprintf("device/%s/watch\x00", devID)
	if _, err := conn.Write([]byte(streamPath)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &WatchStream{conn: conn, DevID: devID}, nil
}

// Next blocks until the next snapshot frame arrives.
func (s *WatchStream) Next() (*snapshot.Snapshot, error) {
	if s.closed {
		return nil, fmt.Errorf("stream closed")
	}
	buf := make([]byte, snapshot.WireSize)
	if _, err := io.ReadFull(s.conn, buf); err != nil {
		return nil, err
	}
	var snap snapshot.Snapshot
	if err := snap.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	return &snap, nil
}

// StartReading begins asynchronously reading snapshots from the watch
// stream in a background goroutine. The returned channels are closed when
// the stream ends; the error channel carries the terminal error.
func (s *WatchStream) StartReading(ctx context.Context, chSize int) (<-chan *snapshot.Snapshot, <-chan error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()

	if s.readCancel != nil {
		panic("StartReading called twice on the same stream")
	}

	msgCh := make(chan *snapshot.Snapshot, chSize)
	errCh := make(chan error, 1)

	readCtx, cancel := context.WithCancel(ctx)
	s.readCancel = cancel

	go func() {
		defer close(msgCh)
		defer close(errCh)
		defer cancel()

		r := bufio.NewReaderSize(s.conn, snapshot.WireSize*4)
		buf := make([]byte, snapshot.WireSize)
		for {
			select {
			case <-readCtx.Done():
				errCh <- readCtx.Err()
				return
			default:
			}

			if s.closed {
				errCh <- io.EOF
				return
			}

			if _, err := io.ReadFull(r, buf); err != nil {
				errCh <- err
				return
			}
			snap := new(snapshot.Snapshot)
			if err := snap.UnmarshalBinary(buf); err != nil {
				errCh <- err
				return
			}

			select {
			case msgCh <- snap:
			case <-readCtx.Done():
				errCh <- readCtx.Err()
				return
			}
		}
	}()

	return msgCh, errCh
}

// Close terminates the watch stream.
func (s *WatchStream) Close() error {
	s.readMu.Lock()
	if s.readCancel != nil {
		s.readCancel()
	}
	s.readMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// noDeadline clears any transport-level read/write deadline.
var noDeadline time.Time
