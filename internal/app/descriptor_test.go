package app

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseModuleID(t *testing.T) {
	tests := []struct {
		raw  string
		want ModuleID
	}{
		{
			"command:net.imagej.ops.Crop",
			ModuleID{Raw: "command:net.imagej.ops.Crop", Type: "command", Source: "net.imagej.ops", Class: "Crop"},
		},
		{
			"script:/scripts/Process:Filter.py",
			ModuleID{Raw: "script:/scripts/Process:Filter.py", Type: "script", Source: "/scripts/Process:Filter", Class: "py"},
		},
		{
			"command:Plain",
			ModuleID{Raw: "command:Plain", Type: "command", Class: "Plain"},
		},
		{
			"no.colon.Here",
			ModuleID{Raw: "no.colon.Here", Source: "no.colon", Class: "Here"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseModuleID(tt.raw)); diff != "" {
				t.Errorf("ParseModuleID mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModuleID_DisplayName(t *testing.T) {
	if got := ParseModuleID("command:net.imagej.ops.Crop").DisplayName(); got != "Crop (net.imagej.ops)" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := ParseModuleID("command:Plain").DisplayName(); got != "Plain" {
		t.Errorf("DisplayName = %q", got)
	}
}

func TestParameterDescriptor_NullBoundsStayUnspecified(t *testing.T) {
	var d ParameterDescriptor
	raw := `{"name":"n","genericType":"int","minimumValue":null,"maximumValue":0,"stepSize":"0.25","choices":null}`
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Minimum != nil {
		t.Errorf("null minimum must stay nil, got %q", d.Minimum.String())
	}
	if d.Maximum == nil || d.Maximum.String() != "0" {
		t.Errorf("maximum 0 must be kept as \"0\", got %v", d.Maximum)
	}
	if d.StepSize.String() != "0.25" {
		t.Errorf("string step not kept: %q", d.StepSize.String())
	}
	if d.Choices != nil {
		t.Errorf("null choices must stay nil, got %v", d.Choices)
	}
	if d.Kind() != KindInteger {
		t.Errorf("Kind = %q, want integer", d.Kind())
	}
}

func TestParameterDescriptor_ScalarChoices(t *testing.T) {
	var d ParameterDescriptor
	if err := json.Unmarshal([]byte(`{"name":"c","choices":["a",2,true]}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "2", "true"}, []string(d.Choices)); diff != "" {
		t.Errorf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestParameterDescriptor_LabelFallback(t *testing.T) {
	if got := (ParameterDescriptor{Name: "sigma"}).DisplayLabel(); got != "sigma" {
		t.Errorf("DisplayLabel = %q, want name", got)
	}
	if got := (ParameterDescriptor{Name: "sigma", Label: "Sigma"}).DisplayLabel(); got != "Sigma" {
		t.Errorf("DisplayLabel = %q, want label", got)
	}
}

func TestDecodeModuleDetails(t *testing.T) {
	raw := `{
		"identifier": "command:net.imagej.ops.Crop",
		"inputs": [
			{"name": "in", "label": "Image", "genericType": "interface net.imagej.Dataset", "required": true},
			{"name": "big", "genericType": "long", "defaultValue": 9007199254740993}
		],
		"outputs": [{"name": "out", "genericType": "interface net.imagej.Dataset"}]
	}`
	d, err := DecodeModuleDetails([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeModuleDetails: %v", err)
	}
	if d.ID().Class != "Crop" {
		t.Errorf("class = %q", d.ID().Class)
	}
	if len(d.Inputs) != 2 || len(d.Outputs) != 1 {
		t.Fatalf("unexpected shape: %d inputs, %d outputs", len(d.Inputs), len(d.Outputs))
	}
	if d.Inputs[1].DefaultValue != json.Number("9007199254740993") {
		t.Errorf("large default rounded: %#v", d.Inputs[1].DefaultValue)
	}
}

func TestDecodeModuleDetails_Invalid(t *testing.T) {
	_, err := DecodeModuleDetails([]byte(`{"identifier": "command:A", "inputs": [{"name": " "}], "outputs": []}`))
	var ide *InvalidDescriptorError
	if !errors.As(err, &ide) {
		t.Fatalf("expected *InvalidDescriptorError, got %v", err)
	}
}
