package app

import (
	"encoding/json"
	"strings"
)

// NormalizeJSON returns v as generic JSON: maps, slices, float64, string,
// bool and nil. json.Number and json.RawMessage are decoded on the way.
func NormalizeJSON(v any) (any, error) {
	switch v.(type) {
	case nil, string, float64, bool:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseAssignment splits a "name=value" flag argument at the first '='.
func ParseAssignment(s string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", false
	}
	return name, value, true
}
