// Package discovery provides mDNS-based discovery of Tapo devices.
//
// This package implements multicast DNS (mDNS) service discovery to
// automatically locate Tapo smart bulbs on the local network. Tapo
// devices advertise themselves using the "_tplink._tcp" service type
// and publish their model and MAC address in TXT records.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for service advertisements from Tapo devices
//  3. Collects device information (hostname, IP, model, MAC)
//  4. Returns a list of discovered devices after the timeout period
//
// # Usage Example
//
//	// Discover devices with 10-second timeout
//	devices, err := discovery.ScanForDevices(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, device := range devices {
//	    fmt.Printf("Found: %s at %s (Model: %s)\n",
//	        device.Hostname, device.IP, device.Model)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions
// can run simultaneously without interference.
package discovery
