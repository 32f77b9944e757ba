package lighting

import (
	"context"
	"testing"
)

func TestColorTableValues(t *testing.T) {
	// Every preset must resolve to values the validator accepts, so setting
	// a named color can never fail Send.
	for color, triple := range colorTable {
		t.Run(string(color), func(t *testing.T) {
			if triple.Hue != nil {
				if *triple.Hue < 1 || *triple.Hue > 360 {
					t.Errorf("hue %d out of range", *triple.Hue)
				}
				if triple.Saturation == nil {
					t.Error("chromatic preset without saturation")
				} else if *triple.Saturation < 1 || *triple.Saturation > 100 {
					t.Errorf("saturation %d out of range", *triple.Saturation)
				}
				if triple.ColorTemperature == nil || *triple.ColorTemperature != 0 {
					t.Error("chromatic preset must carry the color_temp=0 sentinel")
				}
			} else {
				if triple.ColorTemperature == nil {
					t.Fatal("white preset without color temperature")
				}
				if *triple.ColorTemperature < 2500 || *triple.ColorTemperature > 6500 {
					t.Errorf("color temperature %d out of range", *triple.ColorTemperature)
				}
				if triple.Saturation != nil {
					t.Error("white preset must leave saturation unset")
				}
			}
		})
	}
}

func TestSetColorChromatic(t *testing.T) {
	req := &mockRequester{}
	params := NewColorLightParams(req).SetColor(ColorForestGreen)

	if params.hue == nil || *params.hue != 120 {
		t.Errorf("hue = %v, want 120", params.hue)
	}
	if params.saturation == nil || *params.saturation != 75 {
		t.Errorf("saturation = %v, want 75", params.saturation)
	}
	if params.colorTemperature == nil || *params.colorTemperature != 0 {
		t.Errorf("colorTemperature = %v, want 0", params.colorTemperature)
	}

	if err := params.Send(context.Background()); err != nil {
		t.Errorf("Send failed: %v", err)
	}
}

func TestSetColorWhiteClearsHueSaturation(t *testing.T) {
	req := &mockRequester{}
	params := NewColorLightParams(req).
		SetHueSaturation(120, 100).
		SetColor(ColorWarmWhite)

	if params.hue != nil {
		t.Errorf("hue = %d, want unset", *params.hue)
	}
	if params.saturation != nil {
		t.Errorf("saturation = %d, want unset", *params.saturation)
	}
	if params.colorTemperature == nil || *params.colorTemperature != 3000 {
		t.Errorf("colorTemperature = %v, want 3000", params.colorTemperature)
	}

	if err := params.Send(context.Background()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	fields := decodePayload(t, req.payload)
	if _, present := fields["hue"]; present {
		t.Error("payload should omit hue for white presets")
	}
	if _, present := fields["saturation"]; present {
		t.Error("payload should omit saturation for white presets")
	}
}

func TestSetColorDoesNotAliasTable(t *testing.T) {
	first := NewColorLightParams(&mockRequester{}).SetColor(ColorGold)
	*first.hue = 1 // mutate the builder's copy

	second := NewColorLightParams(&mockRequester{}).SetColor(ColorGold)
	if *second.hue != 50 {
		t.Errorf("table entry mutated through builder: hue = %d, want 50", *second.hue)
	}
}

func TestLookupColorPanicsOnUnknownColor(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for color missing from the table")
		}
	}()
	lookupColor(Color("not_a_color"))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{input: "warm_white", want: ColorWarmWhite},
		{input: "Warm White", want: ColorWarmWhite},
		{input: "warm-white", want: ColorWarmWhite},
		{input: "DEEPSKYBLUE", want: ColorDeepSkyBlue},
		{input: "crimson", want: ColorCrimson},
		{input: "magenta", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAllColorsSortedAndComplete(t *testing.T) {
	colors := AllColors()
	if len(colors) != len(colorTable) {
		t.Fatalf("AllColors returned %d presets, table has %d", len(colors), len(colorTable))
	}
	for i := 1; i < len(colors); i++ {
		if colors[i-1] >= colors[i] {
			t.Errorf("colors not sorted: %q before %q", colors[i-1], colors[i])
		}
	}
}
