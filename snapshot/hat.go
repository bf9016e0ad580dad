package snapshot

import "strings"

// HatState describes the position of one directional hat as a bitmask of
// the four cardinal directions. Diagonals are the OR of two neighbours;
// HatCentered (no bits set) doubles as the released state.
type HatState uint8

const (
	HatCentered HatState = 0
	HatUp       HatState = 1 << 0
	HatRight    HatState = 1 << 1
	HatDown     HatState = 1 << 2
	HatLeft     HatState = 1 << 3

	HatRightUp   = HatRight | HatUp
	HatRightDown = HatRight | HatDown
	HatLeftUp    = HatLeft | HatUp
	HatLeftDown  = HatLeft | HatDown

	hatMask = HatUp | HatRight | HatDown | HatLeft
)

// NumHats is the number of independent hats tracked per device.
const NumHats = 4

func (h HatState) String() string {
	if h == HatCentered {
		return "centered"
	}
	var parts []string
	if h&HatUp != 0 {
		parts = append(parts, "up")
	}
	if h&HatDown != 0 {
		parts = append(parts, "down")
	}
	if h&HatLeft != 0 {
		parts = append(parts, "left")
	}
	if h&HatRight != 0 {
		parts = append(parts, "right")
	}
	return strings.Join(parts, "+")
}
