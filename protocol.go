package main

// Command is the operation requested on the command line.
type Command string

const (
	CmdDevices    Command = "devices"
	CmdConnect    Command = "connect"
	CmdDisconnect Command = "disconnect"
)

// Transport is the connection path requested for a connect.
type Transport int

const (
	TransportDefault Transport = iota
	TransportWired
)

func (t Transport) String() string {
	if t == TransportWired {
		return "wired"
	}
	return "default"
}

// Device is a reachable screen sharing device as reported by the service.
// Ref is opaque to the CLI and only handed back to the backend.
type Device struct {
	Name string
	Ref  string
}

// helperRequest is sent from the CLI to the helper socket.
type helperRequest struct {
	Command   string `json:"command"`             // "devices" | "connect" | "disconnect"
	Device    string `json:"device,omitempty"`    // device ref
	Transport string `json:"transport,omitempty"` // "wired", connect only
}

// helperResponse is sent from the helper back to the CLI.
type helperResponse struct {
	Devices []helperDevice `json:"devices,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type helperDevice struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
}
