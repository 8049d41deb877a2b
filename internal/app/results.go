package app

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/imagej/ijc/internal/objref"
)

// DefaultConversionFormat is the format conversion links use unless the
// user picks another.
const DefaultConversionFormat = "png"

// OutputKind distinguishes object references from plain values.
type OutputKind string

const (
	OutputObject OutputKind = "object"
	OutputValue  OutputKind = "value"
)

// Output is one classified module output.
type Output struct {
	Name  string     `json:"name"`
	Label string     `json:"label,omitempty"`
	Type  *TypeInfo  `json:"type,omitempty"`
	Kind  OutputKind `json:"kind"`
	Value any        `json:"value"`

	// Set for object references only.
	RawURL     string `json:"rawUrl,omitempty"`
	Format     string `json:"format,omitempty"`
	ConvertURL string `json:"convertUrl,omitempty"`
}

// WithFormat returns the output with its conversion link rebuilt for format.
// Plain values are returned unchanged.
func (o Output) WithFormat(objectsURL, format string) Output {
	if o.Kind != OutputObject {
		return o
	}
	o.Format = format
	o.ConvertURL = objref.ConvertURL(objectsURL, o.Value.(string), format)
	return o
}

// ClassifyOutput classifies one output value. Only a string beginning with
// the exact "object:" tag is an object reference.
func ClassifyOutput(objectsURL, format, name string, value any) Output {
	if format == "" {
		format = DefaultConversionFormat
	}
	if objref.Is(value) {
		ref := value.(string)
		return Output{
			Name:       name,
			Kind:       OutputObject,
			Value:      ref,
			RawURL:     objref.RawURL(objectsURL, ref),
			Format:     format,
			ConvertURL: objref.ConvertURL(objectsURL, ref, format),
		}
	}
	return Output{Name: name, Kind: OutputValue, Value: value}
}

// ClassifyOutputs classifies an execution's output map. Declared outputs
// come first in declared order; undeclared keys follow sorted by name.
func ClassifyOutputs(objectsURL, format string, outputs map[string]any, declared []ParameterDescriptor) []Output {
	result := make([]Output, 0, len(outputs))
	seen := make(map[string]bool, len(declared))
	for _, d := range declared {
		v, ok := outputs[d.Name]
		if !ok {
			continue
		}
		seen[d.Name] = true
		o := ClassifyOutput(objectsURL, format, d.Name, v)
		o.Label = d.DisplayLabel()
		t := d.Type()
		o.Type = &t
		result = append(result, o)
	}

	var extra []string
	for name := range outputs {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		result = append(result, ClassifyOutput(objectsURL, format, name, outputs[name]))
	}
	return result
}

// HasObjects reports whether any output is an object reference.
func HasObjects(outputs []Output) bool {
	for _, o := range outputs {
		if o.Kind == OutputObject {
			return true
		}
	}
	return false
}

// PrettyValue renders a plain output value as indented JSON. Strings are
// returned as-is.
func PrettyValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// OutputsMap returns name to value, the shape queries run against.
func OutputsMap(outputs []Output) map[string]any {
	m := make(map[string]any, len(outputs))
	for _, o := range outputs {
		m[o.Name] = o.Value
	}
	return m
}

// ExecutionResult is what a submission produced.
type ExecutionResult struct {
	Module       ModuleID          `json:"module"`
	SubmissionID string            `json:"submissionId"`
	Uploaded     map[string]string `json:"uploaded,omitempty"`
	Outputs      []Output          `json:"outputs"`
	DurationMs   int64             `json:"durationMs"`
}

// Render returns a human-friendly representation.
func (r ExecutionResult) Render() string {
	return r.RenderHighlighted(nil)
}

// RenderHighlighted is Render with plain values passed through hl, e.g. a
// syntax highlighter. A nil hl leaves values as they are.
func (r ExecutionResult) RenderHighlighted(hl func(string) string) string {
	s := Styles
	var sb strings.Builder

	sb.WriteString(s.Header.Render(r.Module.DisplayName()))
	sb.WriteString("\n")
	sb.WriteString(s.Dim.Render(fmt.Sprintf("submission %s, %dms", r.SubmissionID, r.DurationMs)))
	sb.WriteString("\n")

	if len(r.Uploaded) > 0 {
		names := make([]string, 0, len(r.Uploaded))
		for n := range r.Uploaded {
			names = append(names, n)
		}
		sort.Strings(names)
		sb.WriteString("\n")
		sb.WriteString(s.Header.Render("Uploaded"))
		sb.WriteString("\n")
		for _, n := range names {
			fmt.Fprintf(&sb, "  %s %s %s\n", s.Bullet.Render("•"), s.Key.Render(n), s.Dim.Render(r.Uploaded[n]))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(s.Header.Render("Outputs"))
	sb.WriteString("\n")
	if len(r.Outputs) == 0 {
		sb.WriteString(s.Dim.Render("  (none)"))
		return sb.String()
	}
	for _, o := range r.Outputs {
		sb.WriteString(renderOutput(o, hl))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderOutput(o Output, hl func(string) string) string {
	s := Styles
	var sb strings.Builder

	label := o.Name
	if o.Label != "" && o.Label != o.Name {
		label = fmt.Sprintf("%s (%s)", o.Label, o.Name)
	}
	sb.WriteString("  ")
	sb.WriteString(s.Key.Render(label))
	if o.Type != nil {
		sb.WriteString(" ")
		sb.WriteString(s.Dim.Render(o.Type.Short))
	}
	sb.WriteString("\n")

	switch o.Kind {
	case OutputObject:
		fmt.Fprintf(&sb, "    %s\n", s.Object.Render(fmt.Sprint(o.Value)))
		fmt.Fprintf(&sb, "    %s %s\n", s.Dim.Render("raw:"), s.Link.Render(o.RawURL))
		fmt.Fprintf(&sb, "    %s %s\n", s.Dim.Render(o.Format+":"), s.Link.Render(o.ConvertURL))
	default:
		text := PrettyValue(o.Value)
		if hl != nil {
			text = strings.TrimRight(hl(text), "\n")
		}
		for _, line := range strings.Split(text, "\n") {
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
