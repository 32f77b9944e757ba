// Package lighting stages and validates state updates for Tapo color bulbs.
//
// The central type is ColorLightParams, a fluent builder that accumulates
// optional device state (power, brightness, color) and submits it as a single
// set_device_info request through a Requester capability. Validation happens
// once, at Send time, so callers can chain setters in any order.
//
// # Lighting Modes
//
// A color bulb expresses its appearance through one of three mutually
// exclusive modes that share the same three wire fields:
//   - a named color preset (SetColor)
//   - a hue/saturation pair (SetHueSaturation)
//   - a white color temperature (SetColorTemperature)
//
// The last setter called wins. Each mode setter writes sentinel values into
// the other mode's fields (hue=0 and saturation=100 deactivate hue/saturation
// mode; color_temp=0 deactivates temperature mode), and the validator only
// range-checks the fields of the mode that is currently active.
//
// # Usage Example
//
//	client := device.NewClient("192.168.1.100", device.DefaultPort, user, pass)
//
//	err := client.Light().
//	    TurnOn().
//	    SetBrightness(75).
//	    SetColorTemperature(4000).
//	    Send(ctx)
//
// # Error Handling
//
// Send returns a *ValidationError when the staged parameters are invalid; the
// Requester is never invoked in that case. Errors from the Requester itself
// are propagated unchanged. A named color missing from the internal color
// table panics, since that indicates an inconsistency between the Color
// enumeration and the table rather than bad runtime input.
package lighting
