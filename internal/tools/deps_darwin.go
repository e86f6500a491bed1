//go:build darwin

package tools

// Monitor-mode capture is not supported on macOS; only the offline
// commands (check, crack, results, deps) are usable there.
const requireAircrackSuite = false

func platformRequiredTools() []*ExternalTool {
	return nil
}

func platformInstallHint() string {
	return "shakedown requires Linux for capture. Use 'shakedown deps' to check status."
}
