package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shakedown/shakedown/internal/config"
	"github.com/shakedown/shakedown/internal/iface"
	"github.com/shakedown/shakedown/internal/result"
	"github.com/shakedown/shakedown/internal/tools"
	"github.com/shakedown/shakedown/internal/verify"
)

const banner = `
      _           _            _
  ___| |__   __ _| | _____  __| | _____      ___ __
 / __| '_ \ / _' | |/ / _ \/ _' |/ _ \ \ /\ / / '_ \
 \__ \ | | | (_| |   <  __/ (_| | (_) \ V  V /| | | |
 |___/_| |_|\__,_|_|\_\___|\__,_|\___/ \_/\_/ |_| |_|
`

// ExitError carries a specific process exit code through cobra's error
// return. main unwraps it with errors.As.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func Execute(version string) error {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "shakedown",
		Short: "WPA handshake capture orchestrator",
		Long:  banner + "\n  shakedown v" + version + " - drives the aircrack-ng suite to capture and crack WPA handshakes\n",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case cfg.Verbose <= 0:
				logrus.SetLevel(logrus.WarnLevel)
			case cfg.Verbose == 1:
				logrus.SetLevel(logrus.InfoLevel)
			default:
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbosity level (0-2)")
	pf.StringVar(&cfg.ResultsFile, "results-file", cfg.ResultsFile, "Session results file")

	rootCmd.AddCommand(captureCmd(cfg))
	rootCmd.AddCommand(crackCmd(cfg))
	rootCmd.AddCommand(ifacesCmd())
	rootCmd.AddCommand(checkCmd(cfg))
	rootCmd.AddCommand(resultsCmd(cfg))
	rootCmd.AddCommand(depsCmd())

	return rootCmd.Execute()
}

// ifacesCmd lists discovered wireless interfaces.
func ifacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ifaces",
		Short: "List wireless interfaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			ifaces, err := iface.Detect()
			if err != nil {
				return err
			}
			if len(ifaces) == 0 {
				fmt.Println("No wireless interfaces found.")
				return nil
			}
			for _, w := range ifaces {
				fmt.Printf("  %s\n", w)
			}
			return nil
		},
	}
}

// checkCmd runs a one-shot inspection of an existing capture file.
func checkCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <cap-file> <bssid>",
		Short: "Check a capture file for a valid handshake",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			capFile, bssid := args[0], args[1]

			inspector, err := verify.NewInspector(cfg.Capture.Inspector, tools.NewExecRunner())
			if err != nil {
				return err
			}

			status, err := inspector.Inspect(cmd.Context(), capFile, bssid)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", capFile, err)
			}

			switch status {
			case verify.StatusCaptured:
				fmt.Printf("  Valid handshake for %s in %s\n", bssid, capFile)
				return nil
			default:
				return &ExitError{Code: 2, Err: fmt.Errorf("no handshake for %s in %s", bssid, capFile)}
			}
		},
	}
	cmd.Flags().StringVar(&cfg.Capture.Inspector, "inspector", cfg.Capture.Inspector, "Inspection backend (aircrack, tshark, pcap)")
	return cmd
}

// resultsCmd shows recorded session outcomes.
func resultsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show recorded capture sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := result.NewStore(cfg.ResultsFile)
			fmt.Print(banner)
			fmt.Println("\n  Recorded sessions:")
			fmt.Println()
			fmt.Print(store.FormatTable())
			return nil
		},
	}
}

// depsCmd shows dependency status.
func depsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check tool dependencies",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(banner)
			fmt.Println("\n  Dependency Check:")
			deps := tools.NewDependencyChecker()
			fmt.Print(tools.FormatStatus(deps.CheckAll()))
		},
	}
}
