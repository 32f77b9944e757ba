package device

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DeviceInfo is the parsed result of a get_device_info request.
// Hue and saturation are only meaningful when ColorTemp is 0, and vice
// versa; the fields mirror the wire slots shared by the lighting modes.
type DeviceInfo struct {
	DeviceID    string `json:"device_id"`
	Model       string `json:"model"`
	Type        string `json:"type"`
	FWVersion   string `json:"fw_ver"`
	HWVersion   string `json:"hw_ver"`
	MAC         string `json:"mac"`
	Nickname    string `json:"nickname"` // base64 encoded by the firmware
	IP          string `json:"ip"`
	RSSI        int    `json:"rssi"`
	SignalLevel int    `json:"signal_level"`
	Overheated  bool   `json:"overheated"`

	DeviceOn   bool   `json:"device_on"`
	Brightness uint8  `json:"brightness"`
	Hue        uint16 `json:"hue"`
	Saturation uint8  `json:"saturation"`
	ColorTemp  uint16 `json:"color_temp"`

	DefaultStates DefaultStates `json:"default_states"`
	OnTime        uint64        `json:"on_time"`
}

// DecodedNickname returns the user-assigned nickname in plain text.
// Falls back to the raw value if it is not valid base64.
func (d *DeviceInfo) DecodedNickname() string {
	decoded, err := base64.StdEncoding.DecodeString(d.Nickname)
	if err != nil {
		return d.Nickname
	}
	return string(decoded)
}

// ColorTemperatureActive reports whether the bulb is in white mode
func (d *DeviceInfo) ColorTemperatureActive() bool {
	return d.ColorTemp != 0
}

// Summary returns a one-line summary of the bulb state
func (d *DeviceInfo) Summary() string {
	power := "off"
	if d.DeviceOn {
		power = "on"
	}
	return fmt.Sprintf("%s (%s) %s, brightness %d%%", d.DecodedNickname(), d.Model, power, d.Brightness)
}

// FormatDetailed returns a multi-line human-readable report of the bulb state
func (d *DeviceInfo) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Device ===\n")
	b.WriteString(fmt.Sprintf("Nickname:   %s\n", d.DecodedNickname()))
	b.WriteString(fmt.Sprintf("Model:      %s\n", d.Model))
	b.WriteString(fmt.Sprintf("Device ID:  %s\n", d.DeviceID))
	b.WriteString(fmt.Sprintf("MAC:        %s\n", d.MAC))
	b.WriteString(fmt.Sprintf("Firmware:   %s\n", d.FWVersion))
	b.WriteString(fmt.Sprintf("Signal:     %d/4 (RSSI %d)\n", d.SignalLevel, d.RSSI))
	if d.Overheated {
		b.WriteString("Overheated: YES\n")
	}

	b.WriteString("\n=== Light State ===\n")
	if d.DeviceOn {
		b.WriteString("Power:      on\n")
	} else {
		b.WriteString("Power:      off\n")
	}
	b.WriteString(fmt.Sprintf("Brightness: %d%%\n", d.Brightness))
	if d.ColorTemperatureActive() {
		b.WriteString(fmt.Sprintf("Mode:       white (%dK)\n", d.ColorTemp))
	} else {
		b.WriteString(fmt.Sprintf("Mode:       color (hue %d, saturation %d%%)\n", d.Hue, d.Saturation))
	}

	if d.DefaultStates.Brightness != nil || d.DefaultStates.RePowerType != nil {
		b.WriteString("\n=== Power Restoration ===\n")
		if ds := d.DefaultStates.Brightness; ds != nil {
			if ds.Type == DefaultStateCustom {
				b.WriteString(fmt.Sprintf("Brightness: custom (%d%%)\n", ds.Value))
			} else {
				b.WriteString("Brightness: last state\n")
			}
		}
		if pt := d.DefaultStates.RePowerType; pt != nil {
			if *pt == DefaultPowerAlwaysOn {
				b.WriteString("Power:      always on\n")
			} else {
				b.WriteString("Power:      last state\n")
			}
		}
	}

	return b.String()
}
