package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// operator resolves a device by name and runs one connect or disconnect
// against the service, waiting for its completion.
type operator struct {
	c       Collaborator
	timeout time.Duration // 0 waits forever
}

func (o *operator) operate(ctx context.Context, cmd Command, name string, t Transport, devices []Device) error {
	dev, ok := findDevice(devices, name)
	if !ok {
		return &NotFoundError{Name: name}
	}

	start := func(ctx context.Context, done func(error)) {
		o.c.Disconnect(ctx, dev, done)
	}
	if cmd == CmdConnect {
		start = func(ctx context.Context, done func(error)) {
			o.c.Connect(ctx, dev, t, done)
		}
	} else {
		t = TransportDefault
	}

	slog.Debug("issuing operation", "op", cmd, "device", dev.Name, "transport", t)
	if err := o.await(ctx, start); err != nil {
		return &OperationError{Op: cmd, Err: err}
	}
	return nil
}

// await starts an asynchronous operation and blocks until its completion
// callback fires, the timeout passes or ctx is cancelled. Only the first
// call to the callback is delivered.
func (o *operator) await(ctx context.Context, start func(context.Context, func(error))) error {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	result := make(chan error, 1)
	var once sync.Once
	start(ctx, func(err error) {
		once.Do(func() { result <- err })
	})

	select {
	case err := <-result:
		slog.Debug("completion received", "error", err)
		return err
	case <-ctx.Done():
		// A completion racing with the deadline still wins.
		select {
		case err := <-result:
			return err
		default:
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("timed out waiting for completion: %w", ctx.Err())
		}
		return fmt.Errorf("interrupted: %w", ctx.Err())
	}
}
