//go:build linux

package tools

const requireAircrackSuite = true

func platformRequiredTools() []*ExternalTool {
	return []*ExternalTool{
		{Name: "iw", Required: true, Note: "interface mode queries"},
		{Name: "ip", Required: true, Note: "interface management"},
	}
}

func platformInstallHint() string {
	return "sudo apt install aircrack-ng iw iproute2"
}
