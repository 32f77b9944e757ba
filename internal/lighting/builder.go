package lighting

import (
	"context"
	"encoding/json"
)

// Requester is the capability the builder needs to apply staged parameters:
// anything that can execute a set_device_info request against a device.
// The concrete implementation (internal/device.Client) owns transport,
// sessions and retries; the builder neither knows nor controls how the
// request reaches the device.
type Requester interface {
	SetDeviceInfo(ctx context.Context, params json.RawMessage) error
}

// ColorLightParams accumulates an update for a Tapo color bulb.
// Each setter returns the builder for chaining; Send validates the staged
// state and submits it as a single request. A builder is a private,
// sequentially-owned value: it is not safe for concurrent mutation and is
// not meant to be reused after Send.
//
// Example usage:
//
//	err := lighting.NewColorLightParams(client).
//	    TurnOn().
//	    SetBrightness(50).
//	    SetHueSaturation(120, 100).
//	    Send(ctx)
type ColorLightParams struct {
	requester Requester

	deviceOn         *bool
	brightness       *uint8
	hue              *uint16
	saturation       *uint8
	colorTemperature *uint16
}

// deviceInfoParams is the wire shape of the staged fields. Unset fields are
// omitted entirely rather than sent as null.
type deviceInfoParams struct {
	DeviceOn         *bool   `json:"device_on,omitempty"`
	Brightness       *uint8  `json:"brightness,omitempty"`
	Hue              *uint16 `json:"hue,omitempty"`
	Saturation       *uint8  `json:"saturation,omitempty"`
	ColorTemperature *uint16 `json:"color_temp,omitempty"`
}

// NewColorLightParams creates an empty builder bound to a request executor.
func NewColorLightParams(requester Requester) *ColorLightParams {
	return &ColorLightParams{requester: requester}
}

// TurnOn requests the device to be powered on.
func (p *ColorLightParams) TurnOn() *ColorLightParams {
	on := true
	p.deviceOn = &on
	return p
}

// TurnOff requests the device to be powered off.
func (p *ColorLightParams) TurnOff() *ColorLightParams {
	on := false
	p.deviceOn = &on
	return p
}

// SetBrightness stages a brightness value between 1 and 100.
// The range is checked at Send time, not here.
func (p *ColorLightParams) SetBrightness(value uint8) *ColorLightParams {
	p.brightness = &value
	return p
}

// SetColor stages a named color preset, overwriting hue, saturation and
// color temperature with the preset's table values. Panics if the color has
// no table entry (an internal table/enum mismatch).
func (p *ColorLightParams) SetColor(color Color) *ColorLightParams {
	triple := lookupColor(color)

	p.hue = copyU16(triple.Hue)
	p.saturation = copyU8(triple.Saturation)
	p.colorTemperature = copyU16(triple.ColorTemperature)

	return p
}

// SetHueSaturation stages a hue (1-360) and saturation (1-100) pair.
// Color temperature is forced to 0 so the device stays in hue/saturation
// mode, overwriting any prior SetColorTemperature call.
func (p *ColorLightParams) SetHueSaturation(hue uint16, saturation uint8) *ColorLightParams {
	ct := uint16(0)
	p.hue = &hue
	p.saturation = &saturation
	p.colorTemperature = &ct
	return p
}

// SetColorTemperature stages a white color temperature between 2500 and
// 6500 kelvin. Hue and saturation are forced to their 0/100 sentinels so the
// device stays in temperature mode, overwriting any prior SetHueSaturation
// or SetColor call.
func (p *ColorLightParams) SetColorTemperature(value uint16) *ColorLightParams {
	hue := uint16(0)
	saturation := uint8(100)
	p.hue = &hue
	p.saturation = &saturation
	p.colorTemperature = &value
	return p
}

// Send validates the staged parameters and submits them through the bound
// Requester. On validation failure the Requester is never invoked; errors
// from the Requester are propagated unchanged.
func (p *ColorLightParams) Send(ctx context.Context) error {
	if err := p.validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(deviceInfoParams{
		DeviceOn:         p.deviceOn,
		Brightness:       p.brightness,
		Hue:              p.hue,
		Saturation:       p.saturation,
		ColorTemperature: p.colorTemperature,
	})
	if err != nil {
		return err
	}

	return p.requester.SetDeviceInfo(ctx, payload)
}

// validate runs the submit-time validation pass over the final staged state.
//
// Hue and color temperature share wire slots across lighting modes, so each
// is only range-checked when its mode is active, as indicated by the
// sentinel values the other mode's setter leaves behind. This keeps
// validation independent of setter order.
func (p *ColorLightParams) validate() error {
	if p.deviceOn == nil &&
		p.brightness == nil &&
		p.hue == nil &&
		p.saturation == nil &&
		p.colorTemperature == nil {
		return NewValidationError("DeviceInfoParams", "requires at least one property")
	}

	if p.brightness != nil {
		if *p.brightness < 1 || *p.brightness > 100 {
			return NewValidationError("brightness", "must be between 1 and 100")
		}
	}

	if p.hue != nil {
		// Inert when temperature mode is active (color_temp != 0).
		colorTemp := uint16(0)
		if p.colorTemperature != nil {
			colorTemp = *p.colorTemperature
		}
		if colorTemp == 0 && (*p.hue < 1 || *p.hue > 360) {
			return NewValidationError("hue", "must be between 1 and 360")
		}
	}

	if p.saturation != nil {
		if *p.saturation < 1 || *p.saturation > 100 {
			return NewValidationError("saturation", "must be between 1 and 100")
		}
	}

	if p.colorTemperature != nil {
		// Inert when hue/saturation mode is active.
		hue := uint16(0)
		if p.hue != nil {
			hue = *p.hue
		}
		saturation := uint8(100)
		if p.saturation != nil {
			saturation = *p.saturation
		}
		if hue == 0 && saturation == 100 && (*p.colorTemperature < 2500 || *p.colorTemperature > 6500) {
			return NewValidationError("color_temperature", "must be between 2500 and 6500")
		}
	}

	return nil
}

func copyU8(v *uint8) *uint8 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyU16(v *uint16) *uint16 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
