package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatOutput_YAML_WritesNumbersUnquoted(t *testing.T) {
	result := ExecutionResult{
		Module:       ParseModuleID("command:net.imagej.ops.Crop"),
		SubmissionID: "s-1",
		Outputs: []Output{
			{Name: "area", Kind: OutputValue, Value: json.Number("12.5")},
			{Name: "raw", Kind: OutputValue, Value: json.RawMessage(`{"a":1}`)},
		},
	}

	b, err := FormatOutput(result, OutputFormatYAML)
	if err != nil {
		t.Fatalf("FormatOutput: %v", err)
	}

	yamlStr := string(b)
	if !strings.Contains(yamlStr, "value: 12.5") {
		t.Errorf("expected unquoted number, got:\n%s", yamlStr)
	}
	if strings.Contains(yamlStr, "- 123") {
		t.Error("YAML must not serialize raw JSON as a byte sequence")
	}
	if !strings.Contains(yamlStr, "a: 1") {
		t.Errorf("expected raw JSON as a mapping, got:\n%s", yamlStr)
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want OutputFormat
		err  bool
	}{
		{"", OutputFormatText, false},
		{"text", OutputFormatText, false},
		{"json", OutputFormatJSON, false},
		{"yml", OutputFormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputResult_Quiet(t *testing.T) {
	err := OutputResult(map[string]any{"a": 1}, "quiet", "")
	er, ok := err.(ExitResult)
	if !ok {
		t.Fatalf("expected ExitResult, got %T", err)
	}
	if er.Code != 0 || er.Message != "" {
		t.Errorf("unexpected quiet result: %+v", er)
	}
}

func TestOutputResult_WritesFileByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	err := OutputResult(map[string]any{"id": "object:1"}, "", path)
	er, ok := err.(ExitResult)
	if !ok || er.Code != 0 {
		t.Fatalf("expected success ExitResult, got %v", err)
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read output: %v", readErr)
	}
	if !strings.Contains(string(data), "id:") || !strings.Contains(string(data), "object:1") {
		t.Errorf("expected YAML content, got %q", data)
	}
}

func TestOutputResult_TextFileUsesRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "links.txt")
	links := ObjectLinks{Ref: "object:1", RawURL: "http://h/objects/object:1", Format: "png", ConvertURL: "http://h/objects/object:1/png"}
	if err := OutputResult(links, "", path); err.(ExitResult).Code != 0 {
		t.Fatalf("OutputResult: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.HasPrefix(string(data), "{") || !strings.Contains(string(data), "png:") {
		t.Errorf("expected rendered text, got %q", data)
	}
}

func TestOutputResult_UnknownFormatIsUsageError(t *testing.T) {
	err := OutputResult(map[string]any{}, "xml", "")
	er, ok := err.(ExitResult)
	if !ok || er.Code != 2 || !er.ToStderr {
		t.Fatalf("expected usage ExitResult, got %#v", err)
	}
}

func TestOutputResultWithCode_KeepsCode(t *testing.T) {
	err := OutputResultWithCode(map[string]any{"a": 1}, "json", "", 1)
	er := err.(ExitResult)
	if er.Code != 1 || !strings.Contains(er.Message, `"a": 1`) {
		t.Errorf("unexpected result: %+v", er)
	}
}
