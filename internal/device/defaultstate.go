package device

import (
	"encoding/json"
	"fmt"
)

// DefaultStateType selects how the bulb restores brightness after a power
// cut: a fixed custom value or whatever was active before.
type DefaultStateType string

const (
	DefaultStateCustom     DefaultStateType = "custom"
	DefaultStateLastStates DefaultStateType = "last_states"
)

// UnmarshalJSON rejects tags outside the closed variant set. An unknown tag
// is a deserialization error for the caller, never a silent default.
func (t *DefaultStateType) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	switch DefaultStateType(tag) {
	case DefaultStateCustom, DefaultStateLastStates:
		*t = DefaultStateType(tag)
		return nil
	}

	return fmt.Errorf("unknown default state type %q", tag)
}

// DefaultPowerType selects how the bulb restores power after a power cut.
type DefaultPowerType string

const (
	DefaultPowerAlwaysOn   DefaultPowerType = "always_on"
	DefaultPowerLastStates DefaultPowerType = "last_states"
)

// UnmarshalJSON rejects tags outside the closed variant set.
func (t *DefaultPowerType) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	switch DefaultPowerType(tag) {
	case DefaultPowerAlwaysOn, DefaultPowerLastStates:
		*t = DefaultPowerType(tag)
		return nil
	}

	return fmt.Errorf("unknown default power type %q", tag)
}

// DefaultBrightnessState is the bulb's brightness restoration policy.
// Value is only meaningful when Type is DefaultStateCustom.
type DefaultBrightnessState struct {
	Type  DefaultStateType `json:"type"`
	Value uint8            `json:"value"`
}

// DefaultStates groups the restoration policies reported in device info.
type DefaultStates struct {
	Brightness  *DefaultBrightnessState `json:"brightness,omitempty"`
	RePowerType *DefaultPowerType       `json:"re_power_type,omitempty"`
}
