package config

import "time"

// Registry represents the entire user configuration file.
// This stores user-defined metadata for devices and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by device ID
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single Tapo device.
// This is keyed by the device ID in the Registry.
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	Model    string    `yaml:"model,omitempty"`     // Device model (e.g., "L530")
	MAC      string    `yaml:"mac,omitempty"`       // Device MAC address
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last known IP address
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool          `yaml:"auto_discover"`             // Enable automatic mDNS discovery on startup
	DiscoverTimeout int           `yaml:"discover_timeout"`          // mDNS discovery timeout in seconds
	DefaultAccount  *AccountPrefs `yaml:"default_account,omitempty"` // Default Tapo account preferences
}

// AccountPrefs represents default Tapo account preferences.
// Note: Passwords are NEVER stored - they are always prompted from the user.
type AccountPrefs struct {
	Email string `yaml:"email,omitempty"` // Tapo account email
	// Password is NEVER stored in config file for security reasons
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
			DefaultAccount:  &AccountPrefs{},
		},
	}
}

// GetDevice retrieves device metadata by device ID.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(deviceID string) *Device {
	return r.Devices[deviceID]
}

// FindByNickname retrieves the first device whose nickname matches.
// Returns the device ID and metadata, or "" and nil when not found.
func (r *Registry) FindByNickname(nickname string) (string, *Device) {
	for id, device := range r.Devices {
		if device.Nickname == nickname {
			return id, device
		}
	}
	return "", nil
}

// EnsureDevice ensures a device entry exists in the registry.
// If the device doesn't exist, creates a new entry with default values.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(deviceID string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	if device, exists := r.Devices[deviceID]; exists {
		return device
	}

	device := &Device{}
	r.Devices[deviceID] = device
	return device
}

// UpdateDeviceLastSeen updates the last seen timestamp and IP for a device.
func (r *Registry) UpdateDeviceLastSeen(deviceID, ip string) {
	device := r.EnsureDevice(deviceID)
	device.LastSeen = time.Now()
	device.LastIP = ip
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(deviceID, nickname string) {
	device := r.EnsureDevice(deviceID)
	device.Nickname = nickname
}

// DefaultEmail returns the stored default account email, if any.
func (r *Registry) DefaultEmail() string {
	if r.Preferences == nil || r.Preferences.DefaultAccount == nil {
		return ""
	}
	return r.Preferences.DefaultAccount.Email
}

// SetDefaultEmail stores the default account email.
func (r *Registry) SetDefaultEmail(email string) {
	if r.Preferences == nil {
		r.Preferences = &Preferences{AutoDiscover: true, DiscoverTimeout: 10}
	}
	if r.Preferences.DefaultAccount == nil {
		r.Preferences.DefaultAccount = &AccountPrefs{}
	}
	r.Preferences.DefaultAccount.Email = email
}
