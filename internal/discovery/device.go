package discovery

import (
	"fmt"
	"time"
)

// Device represents a discovered Tapo device on the network
type Device struct {
	// Model is the device model (e.g., "L530") when published in TXT records
	Model string

	// Hostname is the mDNS hostname (e.g., "L530-AABB.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.42")
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// MAC is the device MAC address when published in TXT records
	MAC string

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	model := d.Model
	if model == "" {
		model = "Tapo"
	}
	return fmt.Sprintf("%s (%s) at %s:%d", model, d.Hostname, d.IP, d.Port)
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", d.IP, d.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
