package verify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// State of the verifier. Captured and TimedOut are terminal.
type State int

const (
	StatePolling State = iota
	StateCaptured
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateCaptured:
		return "captured"
	case StateTimedOut:
		return "timed-out"
	default:
		return "polling"
	}
}

const (
	DefaultInterval    = 5 * time.Second
	DefaultPollTimeout = 10 * time.Second
)

// Verifier polls an Inspector until a handshake shows up or the context
// deadline elapses. The loop is deliberately a plain sleep-paced loop: it
// is the orchestrator's only foreground wait.
type Verifier struct {
	inspector   Inspector
	interval    time.Duration
	pollTimeout time.Duration
}

func NewVerifier(inspector Inspector, interval, pollTimeout time.Duration) *Verifier {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return &Verifier{inspector: inspector, interval: interval, pollTimeout: pollTimeout}
}

// Wait polls until captured or the ctx ends. The returned error is
// non-nil only for external cancellation; an elapsed deadline is the
// StateTimedOut terminal state, not an error, so callers can tell "tool
// is fine, handshake never happened" apart from tool failures.
func (v *Verifier) Wait(ctx context.Context, capFile, bssid string) (State, error) {
	polls := 0
	for {
		polls++
		if v.poll(ctx, capFile, bssid) == StatusCaptured {
			logrus.WithFields(logrus.Fields{"polls": polls, "capfile": capFile}).
				Info("handshake captured")
			return StateCaptured, nil
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return StateTimedOut, nil
			}
			return StateTimedOut, ctx.Err()
		case <-time.After(v.interval):
		}
	}
}

// poll runs a single inspection under its own short timeout. A failed or
// hung inspection is recovered locally: logged and treated as not yet
// captured so one bad poll cannot stall the verifier.
func (v *Verifier) poll(ctx context.Context, capFile, bssid string) Status {
	pctx, cancel := context.WithTimeout(ctx, v.pollTimeout)
	defer cancel()

	type inspection struct {
		status Status
		err    error
	}
	resCh := make(chan inspection, 1)
	go func() {
		status, err := v.inspector.Inspect(pctx, capFile, bssid)
		resCh <- inspection{status, err}
	}()

	select {
	case res := <-resCh:
		if res.err != nil {
			logrus.WithError(res.err).WithField("inspector", v.inspector.Name()).
				Debug("poll failed, will retry")
			return StatusPending
		}
		return res.status
	case <-pctx.Done():
		if ctx.Err() == nil {
			logrus.WithField("inspector", v.inspector.Name()).
				Warn("inspection hung past poll timeout, treating as not captured")
		}
		return StatusPending
	}
}
