package verify

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
	calls  int
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	f.calls++
	f.name = name
	f.args = args
	return f.output, f.err
}

func (f *fakeRunner) Start(ctx context.Context, name string, args ...string) (tools.Handle, error) {
	panic("inspectors never start background processes")
}

func tempCapFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cap01-01.cap")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	return path
}

func TestNewInspector(t *testing.T) {
	runner := &fakeRunner{}

	for name, wantType := range map[string]string{
		"":         "aircrack",
		"aircrack": "aircrack",
		"tshark":   "tshark",
		"pcap":     "pcap",
	} {
		inspector, err := NewInspector(name, runner)
		require.NoError(t, err)
		assert.Equal(t, wantType, inspector.Name())
	}

	_, err := NewInspector("hashcat", runner)
	assert.Error(t, err)
}

func TestAircrackInspector(t *testing.T) {
	capFile := tempCapFile(t)

	cases := []struct {
		name   string
		output string
		want   Status
	}{
		{"handshake present", "   1   AA:BB:CC:DD:EE:FF  HomeNet  WPA (1 handshake)", StatusCaptured},
		{"multiple handshakes", "   1   AA:BB:CC:DD:EE:FF  HomeNet  WPA (2 handshakes)", StatusCaptured},
		{"no handshake yet", "   1   AA:BB:CC:DD:EE:FF  HomeNet  WPA (0 handshake)", StatusNotFound},
		{"no networks", "Opening cap01-01.cap\nRead 12 packets.\nNo networks found, exiting.", StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &fakeRunner{output: tc.output}
			inspector := &AircrackInspector{runner: runner}

			status, err := inspector.Inspect(context.Background(), capFile, "AA:BB:CC:DD:EE:FF")
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
			assert.Equal(t, "aircrack-ng", runner.name)
		})
	}
}

func TestAircrackInspector_FileNotYetWritten(t *testing.T) {
	runner := &fakeRunner{}
	inspector := &AircrackInspector{runner: runner}

	status, err := inspector.Inspect(context.Background(), "/nonexistent/cap-01.cap", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)
	assert.Zero(t, runner.calls, "no tool run for a file that does not exist yet")
}

func TestAircrackInspector_ToolFailure(t *testing.T) {
	capFile := tempCapFile(t)
	runner := &fakeRunner{output: "read error", err: fmt.Errorf("exit status 1")}
	inspector := &AircrackInspector{runner: runner}

	status, err := inspector.Inspect(context.Background(), capFile, "AA:BB:CC:DD:EE:FF")
	assert.Error(t, err)
	assert.Equal(t, StatusPending, status)
}

func TestTsharkInspector(t *testing.T) {
	capFile := tempCapFile(t)

	cases := []struct {
		name   string
		output string
		want   Status
	}{
		{"frame pair", "0x008a\n0x010a", StatusCaptured},
		{"single frame", "0x008a", StatusNotFound},
		{"no frames", "", StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &fakeRunner{output: tc.output}
			inspector := &TsharkInspector{runner: runner}

			status, err := inspector.Inspect(context.Background(), capFile, "AA:BB:CC:DD:EE:FF")
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
			assert.Equal(t, "tshark", runner.name)
			assert.Contains(t, runner.args, "eapol && wlan.bssid == aa:bb:cc:dd:ee:ff")
		})
	}
}

func TestPcapInspector_FileNotYetWritten(t *testing.T) {
	inspector := &PcapInspector{}
	status, err := inspector.Inspect(context.Background(), "/nonexistent/cap-01.cap", "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)
}
