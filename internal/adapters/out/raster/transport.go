// Package raster implements the device-facing network adapters: a raw TCP
// transport for delivering rendered ticket bytes and a subnet scanner for
// discovering devices listening on the raw-print port.
package raster

import (
	"context"
	"net"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// TCPTransport implements ports.Transport over raw TCP sockets. Thermal
// printers accept rendered bytes on a plain socket with no handshake, so the
// transport writes the payload unmodified.
type TCPTransport struct{}

// NewTCPTransport creates a raw TCP transport.
func NewTCPTransport() *TCPTransport {
	return &TCPTransport{}
}

// Connect opens a TCP connection to the device within the given timeout.
func (t *TCPTransport) Connect(
	ctx context.Context,
	address kernel.NetworkAddress,
	timeout time.Duration,
) (ports.Connection, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, errs.NewValueIsInvalidError("timeout")
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address.String())
	if err != nil {
		return nil, err
	}

	return &tcpConnection{conn: conn, writeTimeout: timeout}, nil
}

// tcpConnection is one open socket to a device. Single-use: send, then close.
type tcpConnection struct {
	conn         net.Conn
	writeTimeout time.Duration
}

// Send writes the rendered bytes unmodified. The write deadline reuses the
// connect timeout so a wedged device cannot stall a dispatch worker.
func (c *tcpConnection) Send(content []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}

	_, err := c.conn.Write(content)
	return err
}

// Close releases the socket. Safe to call after a failed Send.
func (c *tcpConnection) Close() error {
	return c.conn.Close()
}
