// Package mdns advertises the Lampstand server on the local network so
// companion devices can find it without typing an address.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/hashicorp/mdns"
)

const (
	// ServiceType is the mDNS service type for Lampstand servers.
	ServiceType = "_lampstand._tcp"

	// APIVersion is the API version advertised in TXT records.
	APIVersion = "v1"
)

// Advertisement describes what gets published in TXT records.
type Advertisement struct {
	InstanceID string // stable server identity, survives restarts
	Name       string // human-readable name shown in the pairing UI
	Pairing    bool   // whether a pairing PIN is currently active
}

// Service manages mDNS advertisement.
type Service struct {
	server *mdns.Server
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates an mDNS service. Nothing is advertised until Start.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Start begins advertising on the given port. Calling Start again
// replaces the running advertisement, which is how pairing state
// changes get published. Failures are typically non-fatal, multicast
// may simply be unavailable on the host.
func (s *Service) Start(ad Advertisement, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
	}

	host, err := os.Hostname()
	if err != nil {
		host = "lampstand-server"
	}

	txtRecords := []string{
		fmt.Sprintf("id=%s", ad.InstanceID),
		fmt.Sprintf("name=%s", ad.Name),
		fmt.Sprintf("api=%s", APIVersion),
		fmt.Sprintf("pairing=%t", ad.Pairing),
	}

	service, err := mdns.NewMDNSService(
		host,
		ServiceType,
		"", // domain, empty = .local
		"", // host, empty = system hostname
		port,
		nil, // all interfaces
		txtRecords,
	)
	if err != nil {
		return fmt.Errorf("create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("start mDNS server: %w", err)
	}

	s.server = server
	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"port", port,
		"name", ad.Name,
		"pairing", ad.Pairing,
	)
	return nil
}

// Stop stops advertising. Safe to call repeatedly or before Start.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		_ = s.server.Shutdown()
		s.server = nil
		s.logger.Info("mDNS advertisement stopped")
	}
}
