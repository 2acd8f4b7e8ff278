package main

import (
	"context"
	"fmt"
)

// Collaborator is the screen sharing service the CLI drives. Discovery and
// session negotiation happen entirely on its side.
type Collaborator interface {
	// Devices returns the reachable devices in the order the service reports
	// them. An empty result is not an error.
	Devices(ctx context.Context) ([]Device, error)

	// Connect starts connecting to dev and returns immediately. done is
	// called once with nil or the failure when the service finishes.
	Connect(ctx context.Context, dev Device, t Transport, done func(error))

	// Disconnect is the counterpart of Connect.
	Disconnect(ctx context.Context, dev Device, done func(error))

	Close() error
}

// openCollaborator returns the backend selected by cfg.
func openCollaborator(ctx context.Context, cfg Config) (Collaborator, error) {
	switch cfg.Backend {
	case BackendDBus:
		s, err := newDBusService(ctx, cfg.DBus)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendHelper:
		return newHelperClient(cfg.Helper.Socket), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
