package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// helperClient talks to a helper process that owns the platform API, one
// JSON request and one JSON response per unix socket connection.
type helperClient struct {
	socket string
	dialer net.Dialer
}

func newHelperClient(socket string) *helperClient {
	return &helperClient{socket: socket}
}

func (h *helperClient) dial(ctx context.Context) (net.Conn, error) {
	conn, err := h.dialer.DialContext(ctx, "unix", h.socket)
	if err != nil {
		return nil, &UnavailableError{Err: fmt.Errorf("connect to helper: %w (is the helper listening on %s?)", err, h.socket)}
	}
	return conn, nil
}

// call sends req and decodes the reply. Cancelling ctx closes the
// connection, which unblocks the read.
func (h *helperClient) call(ctx context.Context, req helperRequest) (helperResponse, error) {
	conn, err := h.dial(ctx)
	if err != nil {
		return helperResponse{}, err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return helperResponse{}, fmt.Errorf("send request: %w", err)
	}

	var resp helperResponse
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		if ctx.Err() != nil {
			return helperResponse{}, ctx.Err()
		}
		return helperResponse{}, fmt.Errorf("read response: %w", err)
	}
	if resp.Error != "" {
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}

func (h *helperClient) Devices(ctx context.Context) ([]Device, error) {
	resp, err := h.call(ctx, helperRequest{Command: string(CmdDevices)})
	if err != nil {
		return nil, err
	}
	devices := make([]Device, 0, len(resp.Devices))
	for _, d := range resp.Devices {
		devices = append(devices, Device{Name: d.Name, Ref: d.Ref})
	}
	return devices, nil
}

func (h *helperClient) Connect(ctx context.Context, dev Device, t Transport, done func(error)) {
	req := helperRequest{Command: string(CmdConnect), Device: dev.Ref}
	if t == TransportWired {
		req.Transport = "wired"
	}
	go func() {
		_, err := h.call(ctx, req)
		done(err)
	}()
}

func (h *helperClient) Disconnect(ctx context.Context, dev Device, done func(error)) {
	req := helperRequest{Command: string(CmdDisconnect), Device: dev.Ref}
	go func() {
		_, err := h.call(ctx, req)
		done(err)
	}()
}

func (h *helperClient) Close() error { return nil }
