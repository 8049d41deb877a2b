package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testModules = []string{
	"command:net.imagej.ops.Crop",
	"command:org.example.Crop",
	"command:org.example.Hello",
	"op:net.imagej.ops.math.Add",
}

func TestMatchModule(t *testing.T) {
	tests := []struct {
		query   string
		want    string
		wantErr string
	}{
		{query: "command:org.example.Crop", want: "command:org.example.Crop"},
		{query: "Hello", want: "command:org.example.Hello"},
		{query: "hello", want: "command:org.example.Hello"},
		{query: "add", want: "op:net.imagej.ops.math.Add"},
		{query: "Crop", wantErr: "ambiguous"},
		{query: "Blur", wantErr: "no corresponding module"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := MatchModule(testModules, tt.query)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("MatchModule(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchModule_NotFoundIsTyped(t *testing.T) {
	_, err := MatchModule(testModules, "Blur")
	var nf *ModuleNotFoundError
	if !errors.As(err, &nf) || nf.Command != "Blur" {
		t.Errorf("err = %v, want ModuleNotFoundError", err)
	}
}

func TestFilterGroups(t *testing.T) {
	groups := GroupModules(testModules)
	if got := FilterGroups(groups, ""); len(got) != 2 {
		t.Errorf("no filter kept %d groups", len(got))
	}
	got := FilterGroups(groups, "OP")
	if len(got) != 1 || got[0].Type != "op" {
		t.Errorf("FilterGroups(op) = %+v", got)
	}
	if got := FilterGroups(groups, "widget"); got != nil {
		t.Errorf("unknown type = %+v, want nil", got)
	}
}

func TestRenderModuleGroups(t *testing.T) {
	out := RenderModuleGroups(GroupModules(testModules))
	for _, want := range []string{"Command (3)", "Op (1)", "Crop", "(org.example)", "Add"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := RenderModuleGroups(nil); !strings.Contains(got, "No modules") {
		t.Errorf("empty = %q", got)
	}
}

func TestModuleView(t *testing.T) {
	d, err := DecodeModuleDetails([]byte(`{
		"identifier": "command:net.imagej.ops.Threshold",
		"inputs": [
			{"name": "in", "genericType": "interface net.imagej.Dataset", "required": true},
			{"name": "method", "genericType": "class java.lang.String", "required": false,
			 "choices": ["Otsu", "Huang"], "defaultValue": "Otsu"}
		],
		"outputs": [
			{"name": "mask", "genericType": "net.imglib2.img.Img<net.imglib2.type.logic.BitType>", "required": false}
		]
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v := NewModuleView(d)

	kinds := []SemanticKind{v.Inputs[0].Kind, v.Inputs[1].Kind}
	if diff := cmp.Diff([]SemanticKind{KindImageReference, KindEnumerated}, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}

	short := v.Render()
	long := v.RenderLong()
	for _, want := range []string{"Threshold (net.imagej.ops)", "in*", "choices:", "Otsu, Huang", "default:", "Img"} {
		if !strings.Contains(short, want) {
			t.Errorf("short render missing %q:\n%s", want, short)
		}
	}
	if strings.Contains(short, "net.imglib2.img.Img") {
		t.Errorf("short render shows the full type:\n%s", short)
	}
	if !strings.Contains(long, "net.imglib2.img.Img<net.imglib2.type.logic.BitType>") {
		t.Errorf("long render missing the full type:\n%s", long)
	}
}
