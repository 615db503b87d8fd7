package schema

import (
	"encoding/json"
	"testing"
)

func TestValidateDevice_Valid(t *testing.T) {
	v := NewValidator()

	err := v.ValidateDevice(map[string]any{
		"name":        "Living Room TV",
		"device_type": "ir",
		"emitter_ip":  "192.168.1.50",
		"commands": []any{
			map[string]any{"name": "power", "command_data": "2600500000", "command_type": "ir"},
		},
	})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidateDevice_MinimalPayload(t *testing.T) {
	v := NewValidator()

	err := v.ValidateDevice(map[string]any{
		"name":        "Fan",
		"device_type": "rf",
	})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidateDevice_MissingName(t *testing.T) {
	v := NewValidator()

	err := v.ValidateDevice(map[string]any{
		"device_type": "ir",
	})
	if err == nil {
		t.Error("expected validation error for missing name")
	}
}

func TestValidateDevice_InvalidType(t *testing.T) {
	v := NewValidator()

	err := v.ValidateDevice(map[string]any{
		"name":        "Fan",
		"device_type": "zigbee",
	})
	if err == nil {
		t.Error("expected validation error for unsupported device type")
	}
}

func TestValidateDevice_NegativeFrequency(t *testing.T) {
	v := NewValidator()

	err := v.ValidateDevice(map[string]any{
		"name":        "Fan",
		"device_type": "rf",
		"frequency":   float64(-433.92),
	})
	if err == nil {
		t.Error("expected validation error for non-positive frequency")
	}
}

func TestValidateDevice_UnknownProperty(t *testing.T) {
	v := NewValidator()

	err := v.ValidateDevice(map[string]any{
		"name":        "Fan",
		"device_type": "rf",
		"unknown":     "value",
	})
	if err == nil {
		t.Error("expected validation error for unknown property")
	}
}

func TestValidateDevice_CommandMissingData(t *testing.T) {
	v := NewValidator()

	err := v.ValidateDevice(map[string]any{
		"name":        "Fan",
		"device_type": "rf",
		"commands": []any{
			map[string]any{"name": "power"},
		},
	})
	if err == nil {
		t.Error("expected validation error for command without data")
	}
}

func TestValidate_EmptySchemaSkips(t *testing.T) {
	v := NewValidator()

	err := v.Validate(json.RawMessage(`{}`), map[string]any{
		"anything": "goes",
	})
	if err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
}

func TestValidate_NilSchemaSkips(t *testing.T) {
	v := NewValidator()

	err := v.Validate(nil, map[string]any{
		"anything": "goes",
	})
	if err != nil {
		t.Errorf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidate_CachesCompiledSchema(t *testing.T) {
	v := NewValidator()

	for range 2 {
		if err := v.ValidateDevice(map[string]any{"name": "Fan", "device_type": "rf"}); err != nil {
			t.Fatal(err)
		}
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}
