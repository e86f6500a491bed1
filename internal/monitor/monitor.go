// Package monitor toggles monitor mode on a wireless interface through
// airmon-ng and tracks the derived monitor interface it creates.
package monitor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shakedown/shakedown/internal/tools"
)

// airmon-ng reports the created interface in its own output; the name is
// read back from there rather than derived from the base name, so a
// change in the tool's naming convention cannot desync us.
// Matches every variant airmon-ng has printed over the years:
//
//	(monitor mode enabled on mon0)
//	(mac80211 monitor mode vif enabled on [phy0]wlan0mon)
//	(mac80211 monitor mode vif enabled for [phy0]wlan0 on [phy0]wlan0mon)
//	(mac80211 monitor mode already enabled for [phy0]wlan0mon on [phy0]wlan0mon)
var monIfaceRe = regexp.MustCompile(`monitor mode (?:vif |already )?enabled (?:for \[[^\]]+\]\S+ )?on (?:\[[^\]]+\])?([^)\s]+)\)`)

// DefaultEnableTimeout bounds the airmon-ng start invocation.
const DefaultEnableTimeout = 10 * time.Second

// ModeChangeError means monitor mode could not be toggled.
type ModeChangeError struct {
	Interface string
	Output    string
	Err       error
}

func (e *ModeChangeError) Error() string {
	msg := fmt.Sprintf("monitor mode on %s", e.Interface)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\ntool output: " + e.Output
	}
	return msg
}

func (e *ModeChangeError) Unwrap() error {
	return e.Err
}

// Session owns a base interface and the monitor interface derived from it.
// It is created by Enable and retired exactly once by Disable.
type Session struct {
	Base    string
	Monitor string

	mu       sync.Mutex
	disabled bool
}

// Controller drives airmon-ng through a Runner.
type Controller struct {
	runner        tools.Runner
	enableTimeout time.Duration
}

func NewController(runner tools.Runner) *Controller {
	return &Controller{
		runner:        runner,
		enableTimeout: DefaultEnableTimeout,
	}
}

// SetEnableTimeout overrides the bounded wait on airmon-ng start.
func (c *Controller) SetEnableTimeout(d time.Duration) {
	if d > 0 {
		c.enableTimeout = d
	}
}

// Enable puts the interface into monitor mode and returns a Session whose
// monitor interface name was parsed from the tool's reported output.
func (c *Controller) Enable(ctx context.Context, iface string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.enableTimeout)
	defer cancel()

	out, err := c.runner.Run(ctx, "airmon-ng", "start", iface)
	if err != nil {
		return nil, &ModeChangeError{Interface: iface, Output: out, Err: err}
	}

	name := parseMonitorName(out)
	if name == "" {
		return nil, &ModeChangeError{
			Interface: iface,
			Output:    out,
			Err:       fmt.Errorf("airmon-ng reported no monitor interface"),
		}
	}

	logrus.WithFields(logrus.Fields{"base": iface, "monitor": name}).
		Info("monitor mode enabled")

	return &Session{Base: iface, Monitor: name}, nil
}

// Disable takes the session out of monitor mode. It is idempotent and
// never fails: cleanup must not abort the run, so a non-zero exit from
// airmon-ng stop is downgraded to a warning.
func (c *Controller) Disable(ctx context.Context, s *Session) {
	if s == nil {
		return
	}

	s.mu.Lock()
	if s.disabled {
		s.mu.Unlock()
		return
	}
	s.disabled = true
	s.mu.Unlock()

	out, err := c.runner.Run(ctx, "airmon-ng", "stop", s.Monitor)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"monitor": s.Monitor,
			"output":  out,
		}).Warn("airmon-ng stop failed, interface may need manual reset")
		return
	}

	logrus.WithField("monitor", s.Monitor).Info("monitor mode disabled")
}

// Disabled reports whether the session has been retired.
func (s *Session) Disabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled
}

func parseMonitorName(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if match := monIfaceRe.FindStringSubmatch(line); len(match) > 1 {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}
