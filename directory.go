package main

import (
	"context"
	"log/slog"
	"strings"
)

// listDevices queries the service for reachable devices. Any failure is
// fatal for the invocation and comes back as an *UnavailableError.
func listDevices(ctx context.Context, c Collaborator) ([]Device, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, &UnavailableError{Err: err}
	}
	slog.Debug("enumerated devices", "count", len(devices))
	return devices, nil
}

// findDevice returns the first device whose name equals name after lower
// casing both. Nothing else is normalized, so "Joe's iPad" and "Joe‘s iPad"
// are different devices.
func findDevice(devices []Device, name string) (Device, bool) {
	want := strings.ToLower(name)
	for _, d := range devices {
		if strings.ToLower(d.Name) == want {
			return d, true
		}
	}
	return Device{}, false
}
