package lighting

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// mockRequester records set_device_info calls for inspection
type mockRequester struct {
	calls   int
	payload json.RawMessage
	err     error
}

func (m *mockRequester) SetDeviceInfo(_ context.Context, params json.RawMessage) error {
	m.calls++
	m.payload = params
	return m.err
}

func decodePayload(t *testing.T, payload json.RawMessage) map[string]any {
	t.Helper()
	fields := make(map[string]any)
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatalf("payload is not a JSON object: %v", err)
	}
	return fields
}

// expectValidationError asserts err is a ValidationError for the given field
func expectValidationError(t *testing.T, err error, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error for %q, got nil", field)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if ve.Field != field {
		t.Errorf("Field = %q, want %q", ve.Field, field)
	}
}

func TestTurnOnOff(t *testing.T) {
	t.Run("on", func(t *testing.T) {
		req := &mockRequester{}
		if err := NewColorLightParams(req).TurnOn().Send(context.Background()); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		fields := decodePayload(t, req.payload)
		if fields["device_on"] != true {
			t.Errorf("device_on = %v, want true", fields["device_on"])
		}
	})

	t.Run("off", func(t *testing.T) {
		req := &mockRequester{}
		if err := NewColorLightParams(req).TurnOff().Send(context.Background()); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		fields := decodePayload(t, req.payload)
		if fields["device_on"] != false {
			t.Errorf("device_on = %v, want false", fields["device_on"])
		}
	})
}

func TestHueSaturationOverridesColorTemperature(t *testing.T) {
	req := &mockRequester{}
	params := NewColorLightParams(req).
		SetColorTemperature(3000).
		SetHueSaturation(50, 50)

	if params.hue == nil || *params.hue != 50 {
		t.Errorf("hue = %v, want 50", params.hue)
	}
	if params.saturation == nil || *params.saturation != 50 {
		t.Errorf("saturation = %v, want 50", params.saturation)
	}
	if params.colorTemperature == nil || *params.colorTemperature != 0 {
		t.Errorf("colorTemperature = %v, want 0", params.colorTemperature)
	}

	if err := params.Send(context.Background()); err != nil {
		t.Errorf("Send failed: %v", err)
	}
}

func TestColorTemperatureOverridesHueSaturation(t *testing.T) {
	req := &mockRequester{}
	params := NewColorLightParams(req).
		SetHueSaturation(50, 50).
		SetColorTemperature(3000)

	if params.hue == nil || *params.hue != 0 {
		t.Errorf("hue = %v, want 0", params.hue)
	}
	if params.saturation == nil || *params.saturation != 100 {
		t.Errorf("saturation = %v, want 100", params.saturation)
	}
	if params.colorTemperature == nil || *params.colorTemperature != 3000 {
		t.Errorf("colorTemperature = %v, want 3000", params.colorTemperature)
	}

	if err := params.Send(context.Background()); err != nil {
		t.Errorf("Send failed: %v", err)
	}
}

func TestSendWithoutProperties(t *testing.T) {
	req := &mockRequester{}
	err := NewColorLightParams(req).Send(context.Background())

	expectValidationError(t, err, "DeviceInfoParams")

	var ve *ValidationError
	errors.As(err, &ve)
	if ve.Message != "requires at least one property" {
		t.Errorf("Message = %q, want %q", ve.Message, "requires at least one property")
	}
	if req.calls != 0 {
		t.Errorf("requester invoked %d times, want 0", req.calls)
	}
}

func TestBrightnessValidation(t *testing.T) {
	t.Run("valid bounds succeed", func(t *testing.T) {
		for _, value := range []uint8{1, 50, 100} {
			req := &mockRequester{}
			if err := NewColorLightParams(req).SetBrightness(value).Send(context.Background()); err != nil {
				t.Errorf("brightness %d: unexpected error: %v", value, err)
			}
			if req.calls != 1 {
				t.Errorf("brightness %d: requester invoked %d times, want 1", value, req.calls)
			}
		}
	})

	t.Run("out of range fails without network effect", func(t *testing.T) {
		for _, value := range []uint8{0, 101} {
			req := &mockRequester{}
			err := NewColorLightParams(req).SetBrightness(value).Send(context.Background())
			expectValidationError(t, err, "brightness")
			if req.calls != 0 {
				t.Errorf("brightness %d: requester invoked %d times, want 0", value, req.calls)
			}
		}
	})
}

func TestHueValidation(t *testing.T) {
	for _, hue := range []uint16{0, 361} {
		req := &mockRequester{}
		err := NewColorLightParams(req).SetHueSaturation(hue, 50).Send(context.Background())
		expectValidationError(t, err, "hue")
		if req.calls != 0 {
			t.Errorf("hue %d: requester invoked %d times, want 0", hue, req.calls)
		}
	}
}

func TestSaturationValidation(t *testing.T) {
	for _, saturation := range []uint8{0, 101} {
		req := &mockRequester{}
		err := NewColorLightParams(req).SetHueSaturation(1, saturation).Send(context.Background())
		expectValidationError(t, err, "saturation")
		if req.calls != 0 {
			t.Errorf("saturation %d: requester invoked %d times, want 0", saturation, req.calls)
		}
	}
}

func TestColorTemperatureValidation(t *testing.T) {
	for _, value := range []uint16{2499, 6501} {
		req := &mockRequester{}
		err := NewColorLightParams(req).SetColorTemperature(value).Send(context.Background())
		expectValidationError(t, err, "color_temperature")
		if req.calls != 0 {
			t.Errorf("color_temp %d: requester invoked %d times, want 0", value, req.calls)
		}
	}

	t.Run("valid bounds succeed", func(t *testing.T) {
		for _, value := range []uint16{2500, 6500} {
			req := &mockRequester{}
			if err := NewColorLightParams(req).SetColorTemperature(value).Send(context.Background()); err != nil {
				t.Errorf("color_temp %d: unexpected error: %v", value, err)
			}
		}
	})
}

func TestStaleColorTemperatureNotCheckedInHueSaturationMode(t *testing.T) {
	// color_temp=0 written by SetHueSaturation is outside [2500,6500] but
	// inert, so it must not trip the temperature range check.
	req := &mockRequester{}
	if err := NewColorLightParams(req).SetHueSaturation(200, 80).Send(context.Background()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	fields := decodePayload(t, req.payload)
	if fields["color_temp"] != float64(0) {
		t.Errorf("color_temp = %v, want 0", fields["color_temp"])
	}
}

func TestPayloadOmitsUnsetFields(t *testing.T) {
	req := &mockRequester{}
	if err := NewColorLightParams(req).SetBrightness(50).Send(context.Background()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	fields := decodePayload(t, req.payload)
	if len(fields) != 1 {
		t.Errorf("payload has %d keys (%v), want only brightness", len(fields), fields)
	}
	if fields["brightness"] != float64(50) {
		t.Errorf("brightness = %v, want 50", fields["brightness"])
	}
}

func TestPayloadFullColorUpdate(t *testing.T) {
	req := &mockRequester{}
	err := NewColorLightParams(req).
		TurnOn().
		SetBrightness(80).
		SetHueSaturation(120, 100).
		Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	fields := decodePayload(t, req.payload)
	want := map[string]any{
		"device_on":  true,
		"brightness": float64(80),
		"hue":        float64(120),
		"saturation": float64(100),
		"color_temp": float64(0),
	}
	for key, wantValue := range want {
		if fields[key] != wantValue {
			t.Errorf("%s = %v, want %v", key, fields[key], wantValue)
		}
	}
	if len(fields) != len(want) {
		t.Errorf("payload has %d keys, want %d", len(fields), len(want))
	}
}

func TestSendPropagatesRequesterError(t *testing.T) {
	wantErr := errors.New("device unreachable")
	req := &mockRequester{err: wantErr}

	err := NewColorLightParams(req).TurnOn().Send(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("Send error = %v, want %v", err, wantErr)
	}
}
