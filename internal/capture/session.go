// Package capture launches and supervises the background airodump-ng
// process that writes the handshake capture file.
package capture

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shakedown/shakedown/internal/tools"
)

// DefaultStopGrace bounds the wait between SIGTERM and SIGKILL.
const DefaultStopGrace = 5 * time.Second

// SpawnError means the capture executable could not be launched.
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Tool, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Process is a running background capture bound to a monitor interface
// and a Target. Its OS process is terminated exactly once, either by the
// success/timeout path or by session cleanup; the underlying handle makes
// repeated Stop calls a no-op.
type Process struct {
	handle   tools.Handle
	target   Target
	iface    string
	grace    time.Duration
	stopOnce sync.Once
}

// Start validates the target and spawns airodump-ng against the monitor
// interface, returning as soon as the process is up. The capture runs
// detached; the caller owns its lifetime until Stop.
func Start(ctx context.Context, runner tools.Runner, monIface string, target Target, grace time.Duration) (*Process, error) {
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("capture target: %w", err)
	}
	if grace <= 0 {
		grace = DefaultStopGrace
	}

	args := []string{
		"--bssid", target.BSSID,
		"--channel", strconv.Itoa(target.Channel),
		"--write", target.Prefix,
		"--output-format", "pcap",
		"--write-interval", "1",
		monIface,
	}

	handle, err := runner.Start(ctx, "airodump-ng", args...)
	if err != nil {
		return nil, &SpawnError{Tool: "airodump-ng", Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"interface": monIface,
		"channel":   target.Channel,
		"bssid":     target.BSSID,
		"capfile":   target.CapFile(),
	}).Info("capture started")

	return &Process{handle: handle, target: target, iface: monIface, grace: grace}, nil
}

// CapFile returns the path of the capture file being written.
func (p *Process) CapFile() string {
	return p.target.CapFile()
}

// Running reports whether the capture process is still alive.
func (p *Process) Running() bool {
	return p.handle.Running()
}

// Stop terminates the capture process with a bounded grace period.
// Terminating happens exactly once; repeated calls and calls after the
// process already exited are no-ops.
func (p *Process) Stop() {
	p.stopOnce.Do(func() {
		p.handle.Stop(p.grace)
		logrus.WithField("capfile", p.target.CapFile()).Debug("capture stopped")
	})
}

// ExitedEarly reports an unexpected exit before Stop, with whatever the
// tool printed. Used to tell "capture tool died" apart from "no
// handshake happened" when a run times out.
func (p *Process) ExitedEarly() (bool, string) {
	if p.handle.Running() {
		return false, ""
	}
	return true, p.handle.Output()
}
