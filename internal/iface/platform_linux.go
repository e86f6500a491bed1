//go:build linux

package iface

import (
	"net"
	"os"
	"path/filepath"
	"strings"
)

func detectInterfaces() ([]WirelessInterface, error) {
	var ifaces []WirelessInterface

	entries, err := os.ReadDir("/sys/class/net")
	if err != nil {
		return nil, &DiscoveryError{Err: err}
	}

	for _, entry := range entries {
		name := entry.Name()

		// Wireless adapters expose a wireless/ or phy80211/ node.
		wirelessPath := filepath.Join("/sys/class/net", name, "wireless")
		if _, err := os.Stat(wirelessPath); os.IsNotExist(err) {
			phyPath := filepath.Join("/sys/class/net", name, "phy80211")
			if _, err := os.Stat(phyPath); os.IsNotExist(err) {
				continue
			}
		}

		iface := WirelessInterface{Name: name, Mode: "managed"}

		if macBytes, err := os.ReadFile(filepath.Join("/sys/class/net", name, "address")); err == nil {
			if mac, err := net.ParseMAC(strings.TrimSpace(string(macBytes))); err == nil {
				iface.MAC = mac
			}
		}

		if phyLink, err := os.Readlink(filepath.Join("/sys/class/net", name, "phy80211")); err == nil {
			iface.PHY = filepath.Base(phyLink)
		}

		if driverLink, err := os.Readlink(filepath.Join("/sys/class/net", name, "device", "driver")); err == nil {
			iface.Driver = filepath.Base(driverLink)
		}

		// ARPHRD_IEEE80211_RADIOTAP
		if typeBytes, err := os.ReadFile(filepath.Join("/sys/class/net", name, "type")); err == nil {
			if strings.TrimSpace(string(typeBytes)) == "803" {
				iface.IsMonitor = true
				iface.Mode = "monitor"
			}
		}

		ifaces = append(ifaces, iface)
	}

	return ifaces, nil
}
