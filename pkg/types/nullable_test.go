package types

import (
	"encoding/json"
	"testing"
)

func TestNullableUnmarshal(t *testing.T) {
	type payload struct {
		Description Nullable[string] `json:"description"`
	}

	var got payload
	if err := json.Unmarshal([]byte(`{"description": "hello"}`), &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !got.Description.Valid || got.Description.Value == nil {
		t.Fatalf("expected valid value, got %+v", got.Description)
	}
	if *got.Description.Value != "hello" {
		t.Fatalf("unexpected value %q", *got.Description.Value)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"description": null}`), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.Description.Valid || got.Description.Value != nil {
		t.Fatalf("expected null to be valid but nil, got %+v", got.Description)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{}`), &got); err != nil {
		t.Fatalf("unmarshal missing: %v", err)
	}
	if got.Description.Valid {
		t.Fatalf("expected invalid flag for missing field, got %+v", got.Description)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"description": 12}`), &got); err == nil {
		t.Fatalf("expected type mismatch to fail")
	}
}

func TestNullableMarshal(t *testing.T) {
	raw, err := json.Marshal(map[string]Nullable[string]{"a": Set("x"), "b": Null[string]()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"a":"x","b":null}` {
		t.Fatalf("unexpected json %s", raw)
	}

	if Set("x").Interface() != "x" || Null[string]().Interface() != nil {
		t.Fatalf("unexpected Interface values")
	}
}
