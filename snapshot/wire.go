package snapshot

import (
	"encoding/binary"
	"io"
)

// WireSize is the fixed encoded size of a Snapshot in bytes.
//
// Layout (little-endian):
//
//	 0-7:    sequence number (u64)
//	 8-23:   button bitfield, 128 bits LSB-first within each byte
//	24-151:  axes, 64x raw i16
//	152-155: hats, 4x u8
//	156:     flags (bit0 = connected)
const WireSize = 8 + MaxButtons/8 + MaxAxes*2 + NumHats + 1

// MarshalBinary encodes the snapshot to the fixed wire format.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	b := make([]byte, WireSize)
	binary.LittleEndian.PutUint64(b[0:8], s.seq)
	o := 8
	for i := range s.buttons {
		if s.buttons[i] {
			b[o+i/8] |= 1 << (i % 8)
		}
	}
	o += MaxButtons / 8
	for i := range s.axes {
		binary.LittleEndian.PutUint16(b[o:o+2], uint16(s.axes[i]))
		o += 2
	}
	for i := range s.hats {
		b[o] = byte(s.hats[i])
		o++
	}
	if s.connected {
		b[o] = 1
	}
	return b, nil
}

// UnmarshalBinary decodes the fixed wire format into the snapshot.
// Unknown hat bits are masked off, matching SetHat.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	if len(data) < WireSize {
		return io.ErrUnexpectedEOF
	}
	s.seq = binary.LittleEndian.Uint64(data[0:8])
	o := 8
	for i := range s.buttons {
		s.buttons[i] = data[o+i/8]&(1<<(i%8)) != 0
	}
	o += MaxButtons / 8
	for i := range s.axes {
		s.axes[i] = int16(binary.LittleEndian.Uint16(data[o : o+2]))
		o += 2
	}
	for i := range s.hats {
		s.hats[i] = HatState(data[o]) & hatMask
		o++
	}
	s.connected = data[o]&1 != 0
	return nil
}
