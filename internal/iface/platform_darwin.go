//go:build darwin

package iface

import (
	"context"
	"net"
	"os/exec"
	"regexp"
	"strings"

	"github.com/shakedown/shakedown/internal/tools"
)

var macAddrRe = regexp.MustCompile(`ether\s+([0-9a-fA-F:]{17})`)

// macOS cannot run the capture workflow (no monitor mode on modern
// hardware), but discovery still works so ifaces/check/deps are usable.
func detectInterfaces() ([]WirelessInterface, error) {
	runner := tools.NewExecRunner()
	out, err := runner.Run(context.Background(), "networksetup", "-listallhardwareports")
	if err != nil {
		return nil, &DiscoveryError{Err: err}
	}

	var ifaces []WirelessInterface
	isWifi := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Hardware Port:") {
			name := strings.ToLower(strings.TrimPrefix(line, "Hardware Port: "))
			isWifi = strings.Contains(name, "wi-fi") || strings.Contains(name, "airport")
		}
		if strings.HasPrefix(line, "Device:") && isWifi {
			dev := strings.TrimSpace(strings.TrimPrefix(line, "Device:"))
			iface := WirelessInterface{Name: dev, Driver: "apple80211", Mode: "managed"}

			if ifOut, err := exec.Command("ifconfig", dev).Output(); err == nil {
				if match := macAddrRe.FindStringSubmatch(string(ifOut)); len(match) > 1 {
					mac, _ := net.ParseMAC(match[1])
					iface.MAC = mac
				}
			}

			ifaces = append(ifaces, iface)
			isWifi = false
		}
	}

	return ifaces, nil
}
