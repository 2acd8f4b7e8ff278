package main

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const busIface = "org.freedesktop.DBus"

// dbusService drives the screen sharing service over D-Bus.
type dbusService struct {
	conn  *dbus.Conn
	obj   dbus.BusObject
	iface string
}

// deviceEntry mirrors one element of the a(os) returned by ListDevices.
type deviceEntry struct {
	Path dbus.ObjectPath
	Name string
}

func connectBus(ctx context.Context, bus string) (*dbus.Conn, error) {
	if bus == "session" {
		return dbus.ConnectSessionBus(dbus.WithContext(ctx))
	}
	return dbus.ConnectSystemBus(dbus.WithContext(ctx))
}

func newDBusService(ctx context.Context, cfg DBusConfig) (*dbusService, error) {
	conn, err := connectBus(ctx, cfg.Bus)
	if err != nil {
		return nil, &UnavailableError{Err: fmt.Errorf("connect to %s bus: %w", cfg.Bus, err)}
	}
	// Quick check that the service is on the bus.
	var owned bool
	if err := conn.BusObject().CallWithContext(ctx, busIface+".NameHasOwner", 0, cfg.Service).Store(&owned); err != nil {
		conn.Close()
		return nil, &UnavailableError{Err: fmt.Errorf("query owner of %s: %w", cfg.Service, err)}
	}
	if !owned {
		conn.Close()
		return nil, &UnavailableError{Err: fmt.Errorf("%s not found on %s bus", cfg.Service, cfg.Bus)}
	}
	return &dbusService{
		conn:  conn,
		obj:   conn.Object(cfg.Service, dbus.ObjectPath(cfg.Path)),
		iface: cfg.Interface,
	}, nil
}

func (s *dbusService) Devices(ctx context.Context) ([]Device, error) {
	var entries []deviceEntry
	if err := s.obj.CallWithContext(ctx, s.iface+".ListDevices", 0).Store(&entries); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devicesFromEntries(entries), nil
}

func devicesFromEntries(entries []deviceEntry) []Device {
	devices := make([]Device, 0, len(entries))
	for _, e := range entries {
		devices = append(devices, Device{Name: e.Name, Ref: string(e.Path)})
	}
	return devices
}

func (s *dbusService) Connect(ctx context.Context, dev Device, t Transport, done func(error)) {
	transport := ""
	if t == TransportWired {
		transport = "wired"
	}
	s.goCall(ctx, "ConnectToDevice", done, dbus.ObjectPath(dev.Ref), transport)
}

func (s *dbusService) Disconnect(ctx context.Context, dev Device, done func(error)) {
	s.goCall(ctx, "DisconnectFromDevice", done, dbus.ObjectPath(dev.Ref))
}

// goCall issues method without waiting for the reply. The reply, or the
// D-Bus error carried by it, is the completion handed to done.
func (s *dbusService) goCall(ctx context.Context, method string, done func(error), args ...interface{}) {
	call := s.obj.GoWithContext(ctx, s.iface+"."+method, 0, make(chan *dbus.Call, 1), args...)
	go func() {
		c := <-call.Done
		done(c.Err)
	}()
}

func (s *dbusService) Close() error {
	return s.conn.Close()
}
