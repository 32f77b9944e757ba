// Package config provides user configuration management for tapolight.
//
// This package manages a YAML-based configuration file that stores
// user-defined metadata for Tapo devices, including nicknames and last
// known addresses, plus application preferences. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/tapolight/config.yaml or $HOME/.config/tapolight/config.yaml
//   - macOS: $HOME/.config/tapolight/config.yaml
//   - Windows: %LOCALAPPDATA%\tapolight\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores the Tapo account password. Only
// the account email may be remembered; the password is always prompted
// when needed.
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Record a discovered device
//	registry.SetDeviceNickname("8022B1B52EDA34C9", "Living Room")
//	registry.UpdateDeviceLastSeen("8022B1B52EDA34C9", "192.168.1.42")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
