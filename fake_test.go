package main

import (
	"context"
	"errors"
	"sync"
)

type fakeCall struct {
	Dev       Device
	Transport Transport
}

// fakeCollaborator records every call and completes operations the way the
// test configures it.
type fakeCollaborator struct {
	mu sync.Mutex

	devices    []Device
	devicesErr error
	openErr    error

	result error // delivered to done
	async  bool  // deliver from another goroutine
	hold   bool  // never deliver
	twice  bool  // deliver a second, conflicting completion

	opened      int
	closed      int
	connects    []fakeCall
	disconnects []fakeCall
}

func (f *fakeCollaborator) open(context.Context, Config) (Collaborator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	return f, nil
}

func (f *fakeCollaborator) Devices(context.Context) ([]Device, error) {
	return f.devices, f.devicesErr
}

func (f *fakeCollaborator) Connect(_ context.Context, dev Device, t Transport, done func(error)) {
	f.mu.Lock()
	f.connects = append(f.connects, fakeCall{Dev: dev, Transport: t})
	f.mu.Unlock()
	f.complete(done)
}

func (f *fakeCollaborator) Disconnect(_ context.Context, dev Device, done func(error)) {
	f.mu.Lock()
	f.disconnects = append(f.disconnects, fakeCall{Dev: dev})
	f.mu.Unlock()
	f.complete(done)
}

func (f *fakeCollaborator) complete(done func(error)) {
	if f.hold {
		return
	}
	deliver := func() {
		done(f.result)
		if f.twice {
			done(errors.New("late second completion"))
		}
	}
	if f.async {
		go deliver()
		return
	}
	deliver()
}

func (f *fakeCollaborator) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func namedDevices(names ...string) []Device {
	devices := make([]Device, 0, len(names))
	for i, n := range names {
		devices = append(devices, Device{Name: n, Ref: "/dev/" + string(rune('a'+i))})
	}
	return devices
}
