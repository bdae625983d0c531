package raster_test

import (
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"dispatch/internal/adapters/out/raster"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenerAddress(t *testing.T, l net.Listener) kernel.NetworkAddress {
	t.Helper()

	host, portStr, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	address, err := kernel.NewNetworkAddress(host, port)
	require.NoError(t, err)
	return address
}

func TestTCPTransport(t *testing.T) {
	t.Run("delivers bytes unmodified", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer listener.Close()

		received := make(chan []byte, 1)
		go func() {
			conn, acceptErr := listener.Accept()
			if acceptErr != nil {
				return
			}
			defer conn.Close()
			data, _ := io.ReadAll(conn)
			received <- data
		}()

		transport := raster.NewTCPTransport()
		conn, err := transport.Connect(context.Background(), listenerAddress(t, listener), time.Second)
		require.NoError(t, err)

		payload := []byte{0x1B, 0x40, '2', 'x', ' ', 'B', 'u', 'r', 'g', 'e', 'r', '\n'}
		require.NoError(t, conn.Send(payload))
		require.NoError(t, conn.Close())

		select {
		case data := <-received:
			assert.Equal(t, payload, data)
		case <-time.After(2 * time.Second):
			t.Fatal("listener never received the payload")
		}
	})

	t.Run("connect refused on closed port", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		address := listenerAddress(t, listener)
		require.NoError(t, listener.Close())

		transport := raster.NewTCPTransport()
		conn, err := transport.Connect(context.Background(), address, time.Second)
		assert.Error(t, err)
		assert.Nil(t, conn)
	})

	t.Run("rejects non-positive timeout", func(t *testing.T) {
		address, err := kernel.NewNetworkAddress("127.0.0.1", kernel.DefaultRawPrintPort)
		require.NoError(t, err)

		transport := raster.NewTCPTransport()
		_, err = transport.Connect(context.Background(), address, 0)
		assert.Error(t, err)
	})

	t.Run("cancelled context aborts connect", func(t *testing.T) {
		address, err := kernel.NewNetworkAddress("10.255.255.1", kernel.DefaultRawPrintPort)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		transport := raster.NewTCPTransport()
		_, err = transport.Connect(ctx, address, time.Second)
		assert.Error(t, err)
	})
}
