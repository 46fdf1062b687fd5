// Package discover advertises a running canvas server on the local network
// and lets clients find one without typing an address.
package discover

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

const serviceType = "_realtime-canvas._tcp"

// Advertise registers this server instance over mDNS. The returned server
// must be shut down on exit.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"", // domain, ".local" by default
		"", // hostname, OS default
		port,
		nil, // auto-detect IPs
		[]string{"Realtime-canvas"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse looks up advertised canvas servers and calls found with each
// host:port it resolves.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()
	return mdns.Lookup(serviceType, entries)
}
