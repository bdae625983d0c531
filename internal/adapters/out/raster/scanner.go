package raster

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	// scanWorkers bounds the number of concurrent probe connections during a
	// subnet sweep.
	scanWorkers = 50

	// scanProbeTimeout is the per-host connect timeout. Printers answer the
	// raw-print port immediately; anything slower is not a printer.
	scanProbeTimeout = 300 * time.Millisecond
)

// SubnetScanner implements ports.NetworkScanner by sweeping the local /24
// subnet for devices accepting connections on the raw-print port.
type SubnetScanner struct {
	port int
}

// NewSubnetScanner creates a scanner probing the given port, usually
// kernel.DefaultRawPrintPort.
func NewSubnetScanner(port int) *SubnetScanner {
	return &SubnetScanner{port: port}
}

// Scan detects the local IPv4 address, derives its /24 subnet, and probes
// every host in it. Returns the addresses that accepted a connection, in
// ascending host order so repeated sweeps produce stable output.
func (s *SubnetScanner) Scan(ctx context.Context) ([]kernel.NetworkAddress, error) {
	localIP, err := detectLocalIP()
	if err != nil {
		return nil, err
	}

	subnet := localIP.Mask(net.CIDRMask(24, 32))

	hosts := make(chan string, 254)
	found := make(chan string, 254)

	var wg sync.WaitGroup
	for range scanWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for host := range hosts {
				if ctx.Err() != nil {
					continue
				}
				if s.probe(ctx, host) {
					found <- host
				}
			}
		}()
	}

	for i := 1; i <= 254; i++ {
		hosts <- fmt.Sprintf("%d.%d.%d.%d", subnet[0], subnet[1], subnet[2], i)
	}
	close(hosts)

	go func() {
		wg.Wait()
		close(found)
	}()

	reachable := make([]string, 0)
	for host := range found {
		reachable = append(reachable, host)
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(reachable, func(i, j int) bool {
		return net.ParseIP(reachable[i]).To4()[3] < net.ParseIP(reachable[j]).To4()[3]
	})

	addresses := make([]kernel.NetworkAddress, 0, len(reachable))
	for _, host := range reachable {
		address, addrErr := kernel.NewNetworkAddress(host, s.port)
		if addrErr != nil {
			return nil, addrErr
		}
		addresses = append(addresses, address)
	}

	return addresses, nil
}

// probe reports whether the host accepts a connection on the scan port.
func (s *SubnetScanner) probe(ctx context.Context, host string) bool {
	dialer := net.Dialer{Timeout: scanProbeTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", host, s.port))
	if err != nil {
		return false
	}

	_ = conn.Close()
	return true
}

// detectLocalIP returns the first non-loopback IPv4 address of this machine.
func detectLocalIP() (net.IP, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, err
	}

	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.To4(), nil
		}
	}

	return nil, fmt.Errorf("no local IPv4 address found")
}
