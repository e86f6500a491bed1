// Package verify polls a capture file until a four-way handshake shows up
// or a deadline passes. Detection itself is delegated to an Inspector so
// the matching strategy can change without touching the polling loop.
package verify

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/shakedown/shakedown/internal/tools"
)

// Status is the result of one inspection. It is re-derived on every poll,
// never cached.
type Status int

const (
	// StatusPending: the capture file does not exist yet or could not be
	// inspected this round.
	StatusPending Status = iota
	// StatusCaptured: a handshake frame pair is present.
	StatusCaptured
	// StatusNotFound: the file was inspected and holds no handshake.
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusCaptured:
		return "captured"
	case StatusNotFound:
		return "not-found"
	default:
		return "pending"
	}
}

// Inspector examines a capture file for a handshake.
type Inspector interface {
	Name() string
	Inspect(ctx context.Context, capFile, bssid string) (Status, error)
}

// NewInspector builds a backend by name: aircrack, tshark, or pcap.
func NewInspector(name string, runner tools.Runner) (Inspector, error) {
	switch name {
	case "", "aircrack":
		return &AircrackInspector{runner: runner}, nil
	case "tshark":
		return &TsharkInspector{runner: runner}, nil
	case "pcap":
		return &PcapInspector{}, nil
	default:
		return nil, fmt.Errorf("unknown inspector %q (want aircrack, tshark, or pcap)", name)
	}
}

// AircrackInspector runs aircrack-ng without a wordlist and reads the
// handshake count out of its network listing.
type AircrackInspector struct {
	runner tools.Runner
}

var handshakeCountRe = regexp.MustCompile(`WPA \((\d+) handshake`)

func (i *AircrackInspector) Name() string { return "aircrack" }

func (i *AircrackInspector) Inspect(ctx context.Context, capFile, bssid string) (Status, error) {
	if _, err := os.Stat(capFile); os.IsNotExist(err) {
		return StatusPending, nil
	}

	out, err := i.runner.Run(ctx, "aircrack-ng", capFile)
	if match := handshakeCountRe.FindStringSubmatch(out); len(match) > 1 {
		if n, _ := strconv.Atoi(match[1]); n > 0 {
			return StatusCaptured, nil
		}
		return StatusNotFound, nil
	}
	if err != nil {
		return StatusPending, fmt.Errorf("aircrack-ng inspect: %w", err)
	}
	return StatusNotFound, nil
}

// TsharkInspector counts EAPOL frames for the BSSID; two or more means a
// usable handshake pair.
type TsharkInspector struct {
	runner tools.Runner
}

func (i *TsharkInspector) Name() string { return "tshark" }

func (i *TsharkInspector) Inspect(ctx context.Context, capFile, bssid string) (Status, error) {
	if _, err := os.Stat(capFile); os.IsNotExist(err) {
		return StatusPending, nil
	}

	out, err := i.runner.Run(ctx, "tshark",
		"-r", capFile,
		"-Y", "eapol && wlan.bssid == "+strings.ToLower(bssid),
		"-T", "fields",
		"-e", "eapol.keydes.key_info",
	)
	if err != nil {
		return StatusPending, fmt.Errorf("tshark inspect: %w", err)
	}

	count := 0
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	if count >= 2 {
		return StatusCaptured, nil
	}
	return StatusNotFound, nil
}
