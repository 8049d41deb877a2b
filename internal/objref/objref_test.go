package objref

import "testing"

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"tagged", "object:abc123", true},
		{"bare tag", "object:", true},
		{"leading space", " object:abc", false},
		{"upper case", "Object:abc", false},
		{"similar text", "objects:abc", false},
		{"plain string", "hello", false},
		{"number", 42.0, false},
		{"nil", nil, false},
		{"map", map[string]any{"id": "object:abc"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.in); got != tt.want {
				t.Errorf("Is(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("object:"); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := Parse("abc"); err == nil {
		t.Error("expected error for untagged string")
	}
	ref, err := Parse("object:xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "object:xyz" {
		t.Errorf("ref = %q, want object:xyz", ref)
	}
}

func TestURLs(t *testing.T) {
	base := "http://localhost:8080/objects/"
	if got := RawURL(base, "object:1a2b"); got != "http://localhost:8080/objects/object:1a2b" {
		t.Errorf("RawURL = %q", got)
	}
	if got := ConvertURL(base, "object:1a2b", "png"); got != "http://localhost:8080/objects/object:1a2b/png" {
		t.Errorf("ConvertURL = %q", got)
	}
}
