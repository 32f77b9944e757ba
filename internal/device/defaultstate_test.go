package device

import (
	"encoding/json"
	"testing"
)

func TestDefaultBrightnessStateUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  DefaultStateType
		wantValue uint8
		wantErr   bool
	}{
		{
			name:      "custom with value",
			input:     `{"type":"custom","value":42}`,
			wantType:  DefaultStateCustom,
			wantValue: 42,
		},
		{
			name:     "last states",
			input:    `{"type":"last_states","value":0}`,
			wantType: DefaultStateLastStates,
		},
		{
			name:    "unknown tag",
			input:   `{"type":"factory_default","value":10}`,
			wantErr: true,
		},
		{
			name:    "numeric tag",
			input:   `{"type":3,"value":10}`,
			wantErr: true,
		},
		{
			name:    "empty tag",
			input:   `{"type":"","value":10}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var state DefaultBrightnessState
			err := json.Unmarshal([]byte(tt.input), &state)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if state.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", state.Type, tt.wantType)
			}
			if state.Value != tt.wantValue {
				t.Errorf("Value = %d, want %d", state.Value, tt.wantValue)
			}
		})
	}
}

func TestDefaultPowerTypeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DefaultPowerType
		wantErr bool
	}{
		{name: "always on", input: `"always_on"`, want: DefaultPowerAlwaysOn},
		{name: "last states", input: `"last_states"`, want: DefaultPowerLastStates},
		{name: "unknown tag", input: `"always_off"`, wantErr: true},
		{name: "not a string", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var power DefaultPowerType
			err := json.Unmarshal([]byte(tt.input), &power)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && power != tt.want {
				t.Errorf("value = %q, want %q", power, tt.want)
			}
		})
	}
}

func TestDefaultStateRoundTrip(t *testing.T) {
	original := DefaultBrightnessState{Type: DefaultStateCustom, Value: 42}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded DefaultBrightnessState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}
}
