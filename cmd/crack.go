package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shakedown/shakedown/internal/config"
	"github.com/shakedown/shakedown/internal/crack"
	"github.com/shakedown/shakedown/internal/result"
	"github.com/shakedown/shakedown/internal/tools"
)

func crackCmd(cfg *config.Config) *cobra.Command {
	var capFile, wordlist, bssid string

	cmd := &cobra.Command{
		Use:   "crack",
		Short: "Run an offline dictionary attack against a captured handshake",
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := crack.NewDriver(tools.NewExecRunner())

			res, err := driver.Crack(cmd.Context(), capFile, wordlist, bssid)
			if err != nil {
				return err
			}

			switch res.Outcome {
			case crack.OutcomeFound:
				fmt.Printf("  Key found: %s\n", res.Password)
				if bssid != "" {
					recordKey(cfg.ResultsFile, bssid, capFile, res.Password)
				}
				return nil
			case crack.OutcomeExhausted:
				return &ExitError{Code: 3, Err: fmt.Errorf("wordlist exhausted, key not found")}
			default:
				return fmt.Errorf("crack aborted")
			}
		},
	}

	f := cmd.Flags()
	f.StringVar(&capFile, "capture", "", "Handshake capture file")
	f.StringVarP(&wordlist, "wordlist", "w", "", "Wordlist file")
	f.StringVarP(&bssid, "bssid", "b", "", "Pin the attack to this BSSID")
	_ = cmd.MarkFlagRequired("capture")
	_ = cmd.MarkFlagRequired("wordlist")

	return cmd
}

func recordKey(resultsFile, bssid, capFile, key string) {
	store := result.NewStore(resultsFile)
	record := store.FindByBSSID(bssid)
	if record == nil {
		record = &result.Record{BSSID: bssid, CapFile: capFile}
	}
	record.Outcome = "cracked"
	record.Key = key
	record.Timestamp = time.Now()
	store.Add(record)
}
