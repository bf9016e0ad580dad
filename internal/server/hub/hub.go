// Package hub holds the last-known snapshot for every registered device.
//
// Each device follows the single-writer/multi-reader model: one feed
// connection publishes whole snapshots, readers get value copies. A
// published snapshot is never mutated afterwards; each poll replaces the
// previous one, which stays around for change detection.
package hub

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/Alia5/JOYSTATE/snapshot"
)

const defaultWatchBuffer = 16

// Hub is the registry of devices and their state.
type Hub struct {
	mu      sync.RWMutex
	devices map[string]*Device
	nextID  uint32
	logger  *slog.Logger
	cfg     Config
}

// New creates an empty hub.
func New(cfg Config, logger *slog.Logger) *Hub {
	if cfg.WatchBuffer <= 0 {
		cfg.WatchBuffer = defaultWatchBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		devices: map[string]*Device{},
		logger:  logger,
		cfg:     cfg,
	}
}

// Add registers a new device and returns it. Device IDs are assigned
// sequentially and never reused within a hub's lifetime.
func (h *Hub) Add(name string) *Device {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	d := &Device{
		id:          strconv.FormatUint(uint64(h.nextID), 10),
		name:        name,
		watchBuffer: h.cfg.WatchBuffer,
		watchers:    map[uint64]chan snapshot.Snapshot{},
		logger:      h.logger.With("device", h.nextID),
	}
	h.devices[d.id] = d
	h.logger.Info("device registered", "id", d.id, "name", name)
	return d
}

// Get returns the device with the given ID, or nil.
func (h *Hub) Get(id string) *Device {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.devices[id]
}

// List returns all registered devices ordered by ID.
func (h *Hub) List() []*Device {
	h.mu.RLock()
	out := make([]*Device, 0, len(h.devices))
	for _, d := range h.devices {
		out = append(out, d)
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].id)
		b, _ := strconv.Atoi(out[j].id)
		return a < b
	})
	return out
}

// Remove unregisters a device and closes all its watch channels.
func (h *Hub) Remove(id string) error {
	h.mu.Lock()
	d, ok := h.devices[id]
	if ok {
		delete(h.devices, id)
	}
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("device %s not found", id)
	}
	d.closeWatchers()
	h.logger.Info("device removed", "id", id)
	return nil
}

// Device is one registered input device and its last-known snapshot.
type Device struct {
	id   string
	name string

	mu          sync.RWMutex
	current     snapshot.Snapshot
	seq         uint64
	watchers    map[uint64]chan snapshot.Snapshot
	nextWatcher uint64
	watchBuffer int
	logger      *slog.Logger
}

// ID returns the hub-assigned device ID.
func (d *Device) ID() string { return d.id }

// Name returns the poller-chosen device name.
func (d *Device) Name() string { return d.name }

// State returns a copy of the last published snapshot. A fresh device
// reports the empty, disconnected snapshot.
func (d *Device) State() snapshot.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// Publish replaces the device state with s and assigns the next poll
// sequence number. Watchers are only notified when the new snapshot
// differs from the previous one; two polls that captured identical device
// state are deduplicated (the sequence number alone never counts as a
// change). Returns the assigned sequence number and whether the state
// changed.
func (d *Device) Publish(s snapshot.Snapshot) (seq uint64, changed bool) {
	d.mu.Lock()
	d.seq++
	s.SetSequence(d.seq)
	prev := d.current
	changed = !prev.Equal(&s)
	d.current = s
	seq = d.seq
	if changed {
		// Non-blocking sends under the lock so a watcher cancel cannot
		// close a channel mid-send.
		for _, ch := range d.watchers {
			select {
			case ch <- s:
			default:
				d.logger.Debug("watcher buffer full, frame dropped", "seq", seq)
			}
		}
	}
	d.mu.Unlock()
	return seq, changed
}

// MarkDisconnected publishes an empty, disconnected snapshot. Used when a
// device's feed connection drops.
func (d *Device) MarkDisconnected() {
	var s snapshot.Snapshot
	_, _ = d.Publish(s)
	d.logger.Info("device disconnected")
}

// Watch registers a watcher that receives a snapshot copy on every state
// change. The returned cancel func unregisters the watcher and closes the
// channel; it is safe to call more than once.
func (d *Device) Watch() (<-chan snapshot.Snapshot, func()) {
	d.mu.Lock()
	id := d.nextWatcher
	d.nextWatcher++
	ch := make(chan snapshot.Snapshot, d.watchBuffer)
	d.watchers[id] = ch
	d.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.mu.Lock()
			if c, ok := d.watchers[id]; ok {
				delete(d.watchers, id)
				close(c)
			}
			d.mu.Unlock()
		})
	}
	return ch, cancel
}

func (d *Device) closeWatchers() {
	d.mu.Lock()
	for id, ch := range d.watchers {
		delete(d.watchers, id)
		close(ch)
	}
	d.mu.Unlock()
}
