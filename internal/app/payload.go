package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
)

// Payload is the execution body: parameter name to value.
type Payload map[string]any

// RawOverrides maps a parameter name to text that is parsed as JSON and sent
// in place of the request's own value.
type RawOverrides map[string]string

// With returns ro with the entries of other added. other wins on a shared
// name. ro itself is not modified.
func (ro RawOverrides) With(other RawOverrides) RawOverrides {
	if len(other) == 0 {
		return ro
	}
	out := make(RawOverrides, len(ro)+len(other))
	for k, v := range ro {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

var jsonNumberRe = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ValidNumber reports whether text is a JSON number literal.
func ValidNumber(text string) bool {
	return jsonNumberRe.MatchString(text)
}

// SubmittedValue computes the value a request contributes to the payload.
// ok is false when the request is not submitted: static text, disabled
// fields, file inputs (filled in by the upload phase), unset spinners, and
// a required dropdown left on the sentinel.
func SubmittedValue(r InputRequest) (value any, ok bool, err error) {
	switch r.Kind {
	case RequestDropdown:
		if r.Dropdown.Placeholder && r.Dropdown.Value == NoSelection {
			return nil, false, nil
		}
		return r.Dropdown.Value, true, nil
	case RequestSpinner:
		text := r.Spinner.Value
		if text == "" {
			return nil, false, nil
		}
		if !jsonNumberRe.MatchString(text) {
			return nil, false, &MalformedPayloadError{Param: r.Name, Err: fmt.Errorf("not a number: %q", text)}
		}
		return json.Number(text), true, nil
	case RequestCheckbox:
		return r.Checkbox.Value, true, nil
	case RequestText:
		if r.Text.Disabled {
			return nil, false, nil
		}
		return r.Text.Value, true, nil
	case RequestFile:
		return nil, false, nil
	case RequestThumbnail:
		return r.Thumbnail.ObjectID, true, nil
	case RequestStaticText:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("unknown request kind %q", r.Kind)
	}
}

// BuildPayload assembles the phase-one payload from edited requests. Raw
// overrides replace the value of any submitted request they name; file
// inputs are left for ResolveUploads.
func BuildPayload(requests []InputRequest, raw RawOverrides) (Payload, error) {
	payload := make(Payload, len(requests))
	for _, r := range requests {
		if r.Kind == RequestStaticText || (r.Kind == RequestText && r.Text.Disabled) {
			continue
		}
		if text, ok := raw[r.Name]; ok && r.Kind != RequestFile {
			v, err := parseRaw(text)
			if err != nil {
				return nil, &MalformedPayloadError{Param: r.Name, Err: err}
			}
			payload[r.Name] = v
			continue
		}
		v, ok, err := SubmittedValue(r)
		if err != nil {
			return nil, err
		}
		if ok {
			payload[r.Name] = v
		}
	}
	return payload, nil
}

// parseRaw decodes override text as a single JSON value, keeping numbers
// exact.
func parseRaw(text string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
