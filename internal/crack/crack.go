// Package crack runs the offline dictionary attack against a confirmed
// handshake capture. Blocking by design: it is an explicit foreground
// step after capture, never part of the supervision loop.
package crack

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shakedown/shakedown/internal/tools"
)

var keyFoundRe = regexp.MustCompile(`KEY FOUND!\s*\[\s*(.+?)\s*\]`)

// Outcome of a dictionary attack.
type Outcome int

const (
	// OutcomeFound: the passphrase was recovered.
	OutcomeFound Outcome = iota
	// OutcomeExhausted: the wordlist ran out without a match. Not an error.
	OutcomeExhausted
	// OutcomeAborted: the attack was cancelled externally.
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "password-found"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "aborted"
	}
}

// Result of a crack run. Password is set only for OutcomeFound.
type Result struct {
	Outcome  Outcome
	Password string
}

// ToolError means the cracking executable itself could not do its job:
// missing binary, unreadable wordlist, corrupt capture. Distinct from an
// exhausted wordlist.
type ToolError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := e.Tool
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\ntool output: " + e.Output
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Driver invokes aircrack-ng through a Runner.
type Driver struct {
	runner tools.Runner
}

func NewDriver(runner tools.Runner) *Driver {
	return &Driver{runner: runner}
}

// Crack runs the dictionary attack. bssid may be empty; when set it pins
// aircrack-ng to that network inside the capture.
func (d *Driver) Crack(ctx context.Context, capFile, wordlist, bssid string) (Result, error) {
	if _, err := os.Stat(capFile); err != nil {
		return Result{}, &ToolError{Tool: "aircrack-ng", Err: fmt.Errorf("capture file: %w", err)}
	}
	if _, err := os.Stat(wordlist); err != nil {
		return Result{}, &ToolError{Tool: "aircrack-ng", Err: fmt.Errorf("wordlist: %w", err)}
	}

	args := []string{"-a", "2", "-w", wordlist}
	if bssid != "" {
		args = append(args, "-b", bssid)
	}
	args = append(args, capFile)

	logrus.WithFields(logrus.Fields{"capfile": capFile, "wordlist": wordlist}).
		Info("dictionary attack started")

	out, err := d.runner.Run(ctx, "aircrack-ng", args...)

	if ctx.Err() != nil {
		return Result{Outcome: OutcomeAborted}, nil
	}

	if match := keyFoundRe.FindStringSubmatch(out); len(match) > 1 {
		return Result{Outcome: OutcomeFound, Password: match[1]}, nil
	}

	switch {
	case strings.Contains(out, "KEY NOT FOUND"),
		strings.Contains(out, "Passphrase not in dictionary"):
		return Result{Outcome: OutcomeExhausted}, nil
	case strings.Contains(out, "No valid WPA handshakes"):
		return Result{}, &ToolError{Tool: "aircrack-ng", Output: out,
			Err: fmt.Errorf("no valid handshake in capture file")}
	}

	if err != nil {
		return Result{}, &ToolError{Tool: "aircrack-ng", Output: out, Err: err}
	}
	return Result{}, &ToolError{Tool: "aircrack-ng", Output: out,
		Err: fmt.Errorf("unrecognized output")}
}
