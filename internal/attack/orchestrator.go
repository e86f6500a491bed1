// Package attack sequences a single handshake-capture attempt: monitor
// mode up, background capture, optional deauth bursts, verifier polling,
// optional crack, and cleanup on every exit path.
package attack

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shakedown/shakedown/internal/capture"
	"github.com/shakedown/shakedown/internal/crack"
	"github.com/shakedown/shakedown/internal/monitor"
	"github.com/shakedown/shakedown/internal/result"
	"github.com/shakedown/shakedown/internal/tools"
	"github.com/shakedown/shakedown/internal/verify"
)

// Options configures one capture attempt.
type Options struct {
	Interface string
	Target    capture.Target

	DeauthCount    int // 0 disables deauthentication
	DeauthInterval time.Duration

	Timeout      time.Duration // overall capture deadline, 0 = none
	PollInterval time.Duration
	PollTimeout  time.Duration

	StopGrace     time.Duration
	EnableTimeout time.Duration

	Wordlist string // non-empty: crack after a confirmed capture
}

// Summary is the outcome of a run that got as far as a terminal verifier
// state. Crack/CrackErr are set only when a wordlist was supplied.
type Summary struct {
	State    verify.State
	CapFile  string
	Elapsed  time.Duration
	Crack    *crack.Result
	CrackErr error
}

// Orchestrator owns the collaborators of a capture attempt. One in-flight
// run per adapter; the monitor interface and capture file are exclusively
// its own for the duration.
type Orchestrator struct {
	runner    tools.Runner
	monitor   *monitor.Controller
	deauth    *DeauthDriver
	cracker   *crack.Driver
	inspector verify.Inspector
	store     *result.Store // optional
}

func NewOrchestrator(runner tools.Runner, inspector verify.Inspector, store *result.Store) *Orchestrator {
	return &Orchestrator{
		runner:    runner,
		monitor:   monitor.NewController(runner),
		deauth:    NewDeauthDriver(runner),
		cracker:   crack.NewDriver(runner),
		inspector: inspector,
		store:     store,
	}
}

// Run drives a full attempt. Fatal errors (discovery, mode change, spawn)
// surface after cleanup has run; a verifier timeout is a Summary, not an
// error. External cancellation interrupts the poll loop and still routes
// through cleanup.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Summary, error) {
	if err := opts.Target.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	if opts.EnableTimeout > 0 {
		o.monitor.SetEnableTimeout(opts.EnableTimeout)
	}

	session, err := o.monitor.Enable(ctx, opts.Interface)
	if err != nil {
		return nil, err
	}
	// Cleanup must run on every exit path below this point. A fresh
	// context is used because ctx may already be cancelled.
	defer o.monitor.Disable(context.Background(), session)

	proc, err := capture.Start(ctx, o.runner, session.Monitor, opts.Target, opts.StopGrace)
	if err != nil {
		return nil, err
	}
	defer proc.Stop()

	if opts.DeauthCount > 0 {
		interval := opts.DeauthInterval
		if interval <= 0 {
			interval = 15 * time.Second
		}
		deauthCtx, stopDeauth := context.WithCancel(ctx)
		defer stopDeauth()
		go o.deauth.loop(deauthCtx, session.Monitor, opts.Target.BSSID, opts.DeauthCount, interval)
	}

	waitCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	verifier := verify.NewVerifier(o.inspector, opts.PollInterval, opts.PollTimeout)
	state, err := verifier.Wait(waitCtx, proc.CapFile(), opts.Target.BSSID)
	if err != nil {
		return nil, fmt.Errorf("capture aborted: %w", err)
	}

	if state == verify.StateTimedOut {
		if dead, out := proc.ExitedEarly(); dead {
			logrus.WithField("output", out).
				Warn("capture process exited before the deadline")
		}
	}

	// Terminal state reached: release the capture process now so the
	// file is flushed before any crack attempt reads it.
	proc.Stop()

	summary := &Summary{
		State:   state,
		CapFile: proc.CapFile(),
		Elapsed: time.Since(start),
	}

	record := &result.Record{
		BSSID:     opts.Target.BSSID,
		Channel:   opts.Target.Channel,
		CapFile:   summary.CapFile,
		Outcome:   state.String(),
		Duration:  result.Duration(summary.Elapsed),
		Timestamp: time.Now(),
	}

	if state == verify.StateCaptured && opts.Wordlist != "" {
		res, crackErr := o.cracker.Crack(ctx, summary.CapFile, opts.Wordlist, opts.Target.BSSID)
		if crackErr != nil {
			// Fatal for the crack step only; the capture stands.
			logrus.WithError(crackErr).Warn("dictionary attack failed")
			summary.CrackErr = crackErr
		} else {
			summary.Crack = &res
			if res.Outcome == crack.OutcomeFound {
				record.Outcome = "cracked"
				record.Key = res.Password
			}
		}
	}

	if o.store != nil {
		o.store.Add(record)
	}

	return summary, nil
}
