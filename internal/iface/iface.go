package iface

import (
	"fmt"
	"net"
	"runtime"
)

// WirelessInterface represents a WiFi adapter at query time.
type WirelessInterface struct {
	Name      string
	PHY       string
	Driver    string
	MAC       net.HardwareAddr
	Mode      string // managed, monitor
	IsMonitor bool
}

func (w WirelessInterface) String() string {
	driver := w.Driver
	if driver == "" {
		driver = "unknown"
	}
	return fmt.Sprintf("%s (%s, %s)", w.Name, driver, w.Mode)
}

// DiscoveryError means the enumeration mechanism itself could not be
// invoked. A system with no wireless hardware is not an error.
type DiscoveryError struct {
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("interface discovery: %v", e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// Detect enumerates wireless-capable interfaces. It returns an empty
// slice, not an error, when no wireless hardware is present.
func Detect() ([]WirelessInterface, error) {
	return detectInterfaces()
}

// Select resolves the interface to use: the preferred name if given, else
// the first adapter still in managed mode, else the first adapter found.
func Select(preferred string) (*WirelessInterface, error) {
	ifaces, err := Detect()
	if err != nil {
		return nil, err
	}
	return selectFrom(ifaces, preferred)
}

func selectFrom(ifaces []WirelessInterface, preferred string) (*WirelessInterface, error) {
	if len(ifaces) == 0 {
		return nil, fmt.Errorf("no wireless interfaces found")
	}

	if preferred != "" {
		for i := range ifaces {
			if ifaces[i].Name == preferred {
				return &ifaces[i], nil
			}
		}
		return nil, fmt.Errorf("interface %s not found", preferred)
	}

	for i := range ifaces {
		if !ifaces[i].IsMonitor {
			return &ifaces[i], nil
		}
	}

	return &ifaces[0], nil
}

// IsLinux returns true if running on Linux.
func IsLinux() bool {
	return runtime.GOOS == "linux"
}
