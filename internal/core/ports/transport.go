package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Transport abstracts delivery of rendered ticket bytes to a device.
// The engine is transport-agnostic; the concrete implementation speaks the
// device's wire protocol over a raw socket.
type Transport interface {
	// Connect opens a connection to the device within the given timeout.
	// The returned connection is single-use: send, then close.
	Connect(ctx context.Context, address kernel.NetworkAddress, timeout time.Duration) (Connection, error)
}

// Connection is one open channel to a device.
type Connection interface {
	// Send writes the rendered bytes unmodified and waits for the write
	// to be accepted.
	Send(content []byte) error

	// Close releases the connection. Safe to call after a failed Send.
	Close() error
}

// NetworkScanner discovers reachable devices on the local network.
type NetworkScanner interface {
	// Scan sweeps the local subnet and returns the addresses that accepted
	// a connection on the raw-print port.
	Scan(ctx context.Context) ([]kernel.NetworkAddress, error)
}
