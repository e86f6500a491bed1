package capture

import (
	"fmt"
	"net"
)

// 802.11 channel numbers run 1-14 (2.4 GHz) and up to 196 (5/6 GHz).
const (
	minChannel = 1
	maxChannel = 196
)

// Target is the immutable tuple a capture session is bound to. It is
// validated before any process is spawned.
type Target struct {
	Channel int
	BSSID   string
	Prefix  string
}

// Validate checks the tuple: channel in range, BSSID a well-formed MAC,
// output prefix non-empty.
func (t Target) Validate() error {
	if t.Channel < minChannel || t.Channel > maxChannel {
		return fmt.Errorf("channel %d out of range [%d, %d]", t.Channel, minChannel, maxChannel)
	}
	if _, err := net.ParseMAC(t.BSSID); err != nil {
		return fmt.Errorf("bssid %q: %w", t.BSSID, err)
	}
	if t.Prefix == "" {
		return fmt.Errorf("output prefix must not be empty")
	}
	return nil
}

// CapFile returns the capture file airodump-ng writes for this target.
// airodump-ng numbers output files starting at -01.
func (t Target) CapFile() string {
	return t.Prefix + "-01.cap"
}
