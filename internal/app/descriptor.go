// Package app - descriptor.go holds module identities and parameter metadata.
package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NumericText is a bound or step exactly as the server reported it. The
// server sends either JSON numbers or strings; both are kept as text so that
// arbitrary-precision values are not rounded. A nil *NumericText means
// "not specified", which is distinct from "0".
type NumericText string

// UnmarshalJSON accepts a JSON number or string.
func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("numeric value %s: %w", data, err)
	}
	*n = NumericText(num.String())
	return nil
}

// MarshalJSON writes the value back as a number when it parses as one.
func (n NumericText) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(n), 64); err == nil {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

// String returns the text form.
func (n *NumericText) String() string {
	if n == nil {
		return ""
	}
	return string(*n)
}

// ChoiceList is an ordered list of choices. The server may send non-string
// scalars; they are rendered with their JSON text.
type ChoiceList []string

// UnmarshalJSON decodes a JSON array of scalars. JSON null leaves the list nil.
func (c *ChoiceList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("choices: %w", err)
	}
	out := make(ChoiceList, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, string(bytes.TrimSpace(r)))
	}
	*c = out
	return nil
}

// ParameterDescriptor describes one declared input or output of a module.
// It is created per module-detail fetch and never mutated.
type ParameterDescriptor struct {
	Name         string       `json:"name"`
	Label        string       `json:"label,omitempty"`
	GenericType  string       `json:"genericType"`
	Required     bool         `json:"required"`
	DefaultValue any          `json:"defaultValue"`
	Choices      ChoiceList   `json:"choices"`
	Minimum      *NumericText `json:"minimumValue"`
	Maximum      *NumericText `json:"maximumValue"`
	SoftMinimum  *NumericText `json:"softMinimum"`
	SoftMaximum  *NumericText `json:"softMaximum"`
	StepSize     *NumericText `json:"stepSize"`
	WidgetStyle  string       `json:"widgetStyle,omitempty"`
	ColumnCount  *int         `json:"columnCount"`
}

// DisplayLabel returns the label, falling back to the name.
func (d ParameterDescriptor) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.Name
}

// Kind classifies the descriptor's declared type.
func (d ParameterDescriptor) Kind() SemanticKind {
	return Classify(d.GenericType, d.Choices)
}

// Type returns the short/full type pair for display.
func (d ParameterDescriptor) Type() TypeInfo {
	return NewTypeInfo(d.GenericType)
}

// HasDefault reports whether the server declared a default value.
func (d ParameterDescriptor) HasDefault() bool {
	return d.DefaultValue != nil
}

// Validate checks the invariants the client relies on.
func (d ParameterDescriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &InvalidDescriptorError{Reason: "name is empty"}
	}
	return nil
}

// ModuleID is a parsed module identifier of the form
// "<type>:<source-path>.<ClassName>".
type ModuleID struct {
	Raw    string `json:"raw"`
	Type   string `json:"type"`
	Source string `json:"source"`
	Class  string `json:"class"`
}

// ParseModuleID splits raw on the first colon and the last dot.
// "command:net.imagej.ops.Crop" -> {command, net.imagej.ops, Crop}.
func ParseModuleID(raw string) ModuleID {
	id := ModuleID{Raw: raw}
	firstColon := strings.Index(raw, ":")
	rest := raw
	if firstColon >= 0 {
		id.Type = raw[:firstColon]
		rest = raw[firstColon+1:]
	}
	lastDot := strings.LastIndex(rest, ".")
	if lastDot < 0 {
		id.Class = rest
		return id
	}
	id.Source = rest[:lastDot]
	id.Class = rest[lastDot+1:]
	return id
}

// DisplayName is "Class (source)".
func (m ModuleID) DisplayName() string {
	if m.Source == "" {
		return m.Class
	}
	return m.Class + " (" + m.Source + ")"
}

// ModuleDetails is the metadata document of one module.
type ModuleDetails struct {
	Identifier string                `json:"identifier"`
	Name       string                `json:"name,omitempty"`
	Label      string                `json:"label,omitempty"`
	Inputs     []ParameterDescriptor `json:"inputs"`
	Outputs    []ParameterDescriptor `json:"outputs"`
}

// ID parses the details' identifier.
func (d ModuleDetails) ID() ModuleID {
	return ParseModuleID(d.Identifier)
}

// DecodeModuleDetails validates raw against the module-detail schema,
// decodes it, and checks every descriptor.
func DecodeModuleDetails(raw []byte) (*ModuleDetails, error) {
	if err := ValidateModuleDetails(raw); err != nil {
		return nil, err
	}
	var details ModuleDetails
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&details); err != nil {
		return nil, fmt.Errorf("decode module details: %w", err)
	}
	for i, in := range details.Inputs {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
	}
	for i, out := range details.Outputs {
		if err := out.Validate(); err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
	}
	return &details, nil
}
