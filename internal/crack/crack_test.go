package crack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakedown/shakedown/internal/tools"
)

type fakeRunner struct {
	output string
	err    error
	name   string
	args   []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.name = name
	f.args = args
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return f.output, f.err
}

func (f *fakeRunner) Start(ctx context.Context, name string, args ...string) (tools.Handle, error) {
	panic("the crack driver is a blocking foreground step")
}

func testFiles(t *testing.T) (capFile, wordlist string) {
	t.Helper()
	dir := t.TempDir()
	capFile = filepath.Join(dir, "cap01-01.cap")
	wordlist = filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(capFile, []byte("stub"), 0o644))
	require.NoError(t, os.WriteFile(wordlist, []byte("hunter2\n"), 0o644))
	return capFile, wordlist
}

func TestCrack_KeyFound(t *testing.T) {
	capFile, wordlist := testFiles(t)
	runner := &fakeRunner{output: "Tested 1432 keys\n\n        KEY FOUND! [ hunter2 ]\n"}
	driver := NewDriver(runner)

	res, err := driver.Crack(context.Background(), capFile, wordlist, "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.Equal(t, "hunter2", res.Password)

	assert.Equal(t, "aircrack-ng", runner.name)
	assert.Equal(t, []string{"-a", "2", "-w", wordlist, "-b", "AA:BB:CC:DD:EE:FF", capFile}, runner.args)
}

func TestCrack_Exhausted(t *testing.T) {
	capFile, wordlist := testFiles(t)
	// aircrack-ng exits non-zero here; exhaustion is still not an error.
	runner := &fakeRunner{
		output: "Passphrase not in dictionary\nKEY NOT FOUND",
		err:    fmt.Errorf("exit status 1"),
	}
	driver := NewDriver(runner)

	res, err := driver.Crack(context.Background(), capFile, wordlist, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Empty(t, res.Password)
	assert.NotContains(t, runner.args, "-b")
}

func TestCrack_MissingCaptureFile(t *testing.T) {
	_, wordlist := testFiles(t)
	driver := NewDriver(&fakeRunner{})

	_, err := driver.Crack(context.Background(), "/nonexistent.cap", wordlist, "")

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
}

func TestCrack_MissingWordlist(t *testing.T) {
	capFile, _ := testFiles(t)
	driver := NewDriver(&fakeRunner{})

	_, err := driver.Crack(context.Background(), capFile, "/nonexistent.txt", "")

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
}

func TestCrack_CorruptCapture(t *testing.T) {
	capFile, wordlist := testFiles(t)
	runner := &fakeRunner{
		output: "No valid WPA handshakes found.",
		err:    fmt.Errorf("exit status 1"),
	}
	driver := NewDriver(runner)

	_, err := driver.Crack(context.Background(), capFile, wordlist, "")

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, toolErr.Output, "No valid WPA handshakes")
}

func TestCrack_Aborted(t *testing.T) {
	capFile, wordlist := testFiles(t)
	driver := NewDriver(&fakeRunner{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := driver.Crack(ctx, capFile, wordlist, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAborted, res.Outcome)
}

func TestOutcomeStrings(t *testing.T) {
	assert.Equal(t, "password-found", OutcomeFound.String())
	assert.Equal(t, "exhausted", OutcomeExhausted.String())
	assert.Equal(t, "aborted", OutcomeAborted.String())
}
