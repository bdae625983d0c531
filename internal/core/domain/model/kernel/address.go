package kernel

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// AddressMinPort is the lowest TCP port an endpoint may declare.
	AddressMinPort = 1
	// AddressMaxPort is the highest TCP port an endpoint may declare.
	AddressMaxPort = 65535
	// DefaultRawPrintPort is the conventional raw-socket print port.
	DefaultRawPrintPort = 9100
)

// ErrNetworkAddressIsNotConstructed is returned when attempting to use an
// improperly initialized NetworkAddress.
var ErrNetworkAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"network address must be created via NewNetworkAddress")

// NetworkAddress is an immutable value object holding the host and TCP port of
// a physical output device. The zero value is invalid and fails validation.
//
// Example:
//
//	addr, err := kernel.NewNetworkAddress("192.168.1.42", 9100)
//	if err != nil {
//	    // handle validation error
//	}
//	fmt.Println(addr) // 192.168.1.42:9100
type NetworkAddress struct { //nolint:recvcheck //using for validation
	host string
	port int

	guard guard.ConstructorGuard
}

// NewNetworkAddress creates a validated NetworkAddress. The host must be
// non-empty and must not contain whitespace; the port must fall within
// [AddressMinPort..AddressMaxPort].
func NewNetworkAddress(host string, port int) (NetworkAddress, error) {
	addr := NetworkAddress{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(addr.setHost(host), addr.setPort(port)); err != nil {
		return NetworkAddress{}, err
	}

	return addr, nil
}

// Validate checks that the address was built through NewNetworkAddress.
func (a NetworkAddress) Validate() error {
	return a.guard.Validate(ErrNetworkAddressIsNotConstructed)
}

// Host returns the host part of the address.
func (a NetworkAddress) Host() string {
	return a.host
}

// Port returns the TCP port of the address.
func (a NetworkAddress) Port() int {
	return a.port
}

// String returns the dialable "host:port" form.
func (a NetworkAddress) String() string {
	return fmt.Sprintf("%s:%d", a.host, a.port)
}

// IsEqual reports whether two addresses point at the same host and port.
// Both addresses must be properly constructed.
func (a NetworkAddress) IsEqual(other NetworkAddress) (bool, error) {
	if err := errors.Join(a.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return a.host == other.host && a.port == other.port, nil
}

func (a *NetworkAddress) setHost(host string) error {
	if host == "" {
		return errs.NewValueIsRequiredError("host")
	}
	if strings.ContainsAny(host, " \t\n") {
		return errs.NewValueIsInvalidError("host")
	}

	a.host = host
	return nil
}

func (a *NetworkAddress) setPort(port int) error {
	if port < AddressMinPort || port > AddressMaxPort {
		return errs.NewValueIsOutOfRangeError("port", port, AddressMinPort, AddressMaxPort)
	}

	a.port = port
	return nil
}
