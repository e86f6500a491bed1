package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shakedown/shakedown/internal/attack"
	"github.com/shakedown/shakedown/internal/capture"
	"github.com/shakedown/shakedown/internal/config"
	"github.com/shakedown/shakedown/internal/crack"
	"github.com/shakedown/shakedown/internal/iface"
	"github.com/shakedown/shakedown/internal/result"
	"github.com/shakedown/shakedown/internal/tools"
	"github.com/shakedown/shakedown/internal/verify"
	"github.com/shakedown/shakedown/ui"
)

func captureCmd(cfg *config.Config) *cobra.Command {
	target := capture.Target{}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture a WPA handshake for a target network",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd.Context(), cfg, target)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.Interface, "interface", "i", "", "Wireless interface to use")
	f.IntVarP(&target.Channel, "channel", "c", 0, "Target channel")
	f.StringVarP(&target.BSSID, "bssid", "b", "", "Target BSSID")
	f.StringVarP(&target.Prefix, "output", "o", "", "Capture output file prefix")
	f.IntVar(&cfg.Deauth.Count, "deauth-count", cfg.Deauth.Count, "Deauth frames per burst (0 = passive capture)")
	f.DurationVar(&cfg.Deauth.Interval, "deauth-interval", cfg.Deauth.Interval, "Delay between deauth bursts")
	f.DurationVarP(&cfg.Capture.Timeout, "timeout", "t", cfg.Capture.Timeout, "Overall capture deadline")
	f.DurationVar(&cfg.Capture.PollInterval, "interval", cfg.Capture.PollInterval, "Handshake poll interval")
	f.StringVar(&cfg.Capture.Inspector, "inspector", cfg.Capture.Inspector, "Inspection backend (aircrack, tshark, pcap)")
	f.StringVarP(&cfg.Wordlist, "wordlist", "w", "", "Crack the handshake with this wordlist once captured")

	_ = cmd.MarkFlagRequired("channel")
	_ = cmd.MarkFlagRequired("bssid")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runCapture(ctx context.Context, cfg *config.Config, target capture.Target) error {
	if !iface.IsLinux() {
		return fmt.Errorf("handshake capture requires Linux with a monitor-mode capable adapter")
	}
	if os.Geteuid() != 0 {
		return fmt.Errorf("capture must be run as root (try: sudo shakedown capture ...)")
	}

	deps := tools.NewDependencyChecker()
	if missing := deps.MissingRequired(); len(missing) > 0 {
		return fmt.Errorf("missing required tools: %v\n  Install with: %s", missing, tools.InstallHint())
	}
	if cfg.Capture.Inspector == "tshark" && !deps.IsAvailable("tshark") {
		return fmt.Errorf("tshark inspector selected but tshark is not installed")
	}

	selected, err := selectInterface(cfg.Interface)
	if err != nil {
		return err
	}
	logrus.WithField("interface", selected.Name).Info("interface selected")

	runner := tools.NewExecRunner()
	inspector, err := verify.NewInspector(cfg.Capture.Inspector, runner)
	if err != nil {
		return err
	}

	store := result.NewStore(cfg.ResultsFile)
	orchestrator := attack.NewOrchestrator(runner, inspector, store)

	// User abort interrupts the poll loop and falls through to cleanup.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logrus.Warn("interrupted, cleaning up")
		cancel()
	}()

	summary, err := orchestrator.Run(ctx, attack.Options{
		Interface:      selected.Name,
		Target:         target,
		DeauthCount:    cfg.Deauth.Count,
		DeauthInterval: cfg.Deauth.Interval,
		Timeout:        cfg.Capture.Timeout,
		PollInterval:   cfg.Capture.PollInterval,
		PollTimeout:    cfg.Capture.PollTimeout,
		StopGrace:      cfg.Capture.StopGrace,
		EnableTimeout:  cfg.Capture.EnableTimeout,
		Wordlist:       cfg.Wordlist,
	})
	if err != nil {
		return err
	}

	if summary.State == verify.StateTimedOut {
		return &ExitError{
			Code: 2,
			Err:  fmt.Errorf("no handshake captured within %s (capture tools ran fine)", cfg.Capture.Timeout),
		}
	}

	fmt.Printf("  Handshake captured: %s (after %s)\n", summary.CapFile, summary.Elapsed.Round(time.Second))
	printCrackOutcome(summary)
	return nil
}

func printCrackOutcome(summary *attack.Summary) {
	switch {
	case summary.Crack != nil && summary.Crack.Outcome == crack.OutcomeFound:
		fmt.Printf("  Key found: %s\n", summary.Crack.Password)
	case summary.Crack != nil && summary.Crack.Outcome == crack.OutcomeExhausted:
		fmt.Println("  Wordlist exhausted, key not found. Capture file kept for another run.")
	case summary.CrackErr != nil:
		fmt.Printf("  Crack step failed (%v); handshake capture is still valid.\n", summary.CrackErr)
	}
}

// selectInterface resolves --interface, falling back to an interactive
// picker on a terminal and to auto-selection otherwise.
func selectInterface(preferred string) (*iface.WirelessInterface, error) {
	if preferred != "" {
		return iface.Select(preferred)
	}

	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		ifaces, err := iface.Detect()
		if err != nil {
			return nil, err
		}
		if len(ifaces) > 1 {
			return ui.PickInterface(ifaces)
		}
	}

	return iface.Select("")
}
