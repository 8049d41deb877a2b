package app

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateModuleDetails_ValidDocument(t *testing.T) {
	doc := `{
		"identifier": "command:net.imagej.ops.Crop",
		"inputs": [
			{"name": "in", "genericType": "interface net.imagej.Dataset", "required": true},
			{"name": "sigma", "genericType": "double", "stepSize": null, "minimumValue": "0.5"}
		],
		"outputs": [{"name": "out", "genericType": "interface net.imagej.Dataset"}]
	}`
	if err := ValidateModuleDetails([]byte(doc)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateModuleDetails_Problems(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantSub string
	}{
		{"not json", `{`, "JSON parse error"},
		{"missing outputs", `{"identifier": "command:A", "inputs": []}`, "outputs"},
		{"empty name", `{"identifier": "command:A", "inputs": [{"name": ""}], "outputs": []}`, "/inputs/0/name"},
		{"bad step", `{"identifier": "command:A", "inputs": [{"name": "x", "stepSize": true}], "outputs": []}`, "/inputs/0/stepSize"},
		{"fractional columns", `{"identifier": "command:A", "inputs": [{"name": "x", "columnCount": 1.5}], "outputs": []}`, "/inputs/0/columnCount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModuleDetails([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			var ide *InvalidDescriptorError
			if !errors.As(err, &ide) {
				t.Fatalf("expected *InvalidDescriptorError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}
