package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat is a value of the -F/--format flag.
type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
	OutputFormatText  OutputFormat = "text"
	OutputFormatQuiet OutputFormat = "quiet"
)

// ParseOutputFormat parses a format name. The empty string means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return OutputFormatText, nil
	case "json":
		return OutputFormatJSON, nil
	case "yaml", "yml":
		return OutputFormatYAML, nil
	case "quiet":
		return OutputFormatQuiet, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, json, yaml, quiet)", s)
	}
}

// fileFormat picks the encoding for -o path. A structured --format wins;
// otherwise the extension decides and anything unknown is JSON.
func fileFormat(path string, f OutputFormat) OutputFormat {
	if f == OutputFormatJSON || f == OutputFormatYAML {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return OutputFormatYAML
	case ".txt":
		return OutputFormatText
	default:
		return OutputFormatJSON
	}
}

// FormatOutput serializes v as indented JSON or YAML.
func FormatOutput(v any, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case OutputFormatYAML:
		// json.Number and json.RawMessage only encode sensibly as JSON, so
		// YAML goes through the generic JSON form first.
		plain, err := NormalizeJSON(v)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(plain)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Renderable is implemented by results with a human-friendly form.
type Renderable interface {
	Render() string
}

// printer encodes one command result.
type printer struct {
	format OutputFormat
	path   string
	code   int
	text   func() string
}

func (p printer) encode(v any, f OutputFormat) (string, error) {
	if f != OutputFormatText {
		b, err := FormatOutput(v, f)
		return string(b), err
	}
	switch {
	case p.text != nil:
		return strings.TrimRight(p.text(), "\n"), nil
	case isRenderable(v):
		return v.(Renderable).Render(), nil
	}
	b, err := FormatOutput(v, OutputFormatJSON)
	if err != nil {
		return fmt.Sprintf("%v", v), nil
	}
	return string(b), nil
}

func isRenderable(v any) bool {
	_, ok := v.(Renderable)
	return ok
}

// print returns the ExitResult carrying v: on stdout, or written to p.path
// with a short confirmation.
func (p printer) print(v any) error {
	if p.format == OutputFormatQuiet {
		return ExitResult{Code: p.code}
	}
	if p.path == "" {
		text, err := p.encode(v, p.format)
		if err != nil {
			return err
		}
		return ExitResult{Code: p.code, Message: text}
	}

	text, err := p.encode(v, fileFormat(p.path, p.format))
	if err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := WriteFileAtomic(p.path, []byte(text), FilePerm); err != nil {
		return exitText(1, err.Error(), true)
	}
	return ExitResult{Code: p.code, Message: "Wrote " + p.path}
}

func newPrinter(format, outputPath string, code int, text func() string, fallback ...OutputFormat) (printer, error) {
	f, err := ParseOutputFormat(format)
	if err != nil {
		return printer{}, usageExit(err.Error())
	}
	if format == "" && len(fallback) > 0 {
		f = fallback[0]
	}
	return printer{format: f, path: outputPath, code: code, text: text}, nil
}

// OutputResult prints v per --format (json|yaml|text|quiet), or writes it
// to outputPath when set. An empty format uses defaultFormat when given,
// text otherwise. Text output prefers v's Render method.
func OutputResult(v any, format, outputPath string, defaultFormat ...OutputFormat) error {
	p, err := newPrinter(format, outputPath, 0, nil, defaultFormat...)
	if err != nil {
		return err
	}
	return p.print(v)
}

// OutputResultWithCode is OutputResult with a non-zero exit code, for data
// that is valid but should still fail the process, e.g. a menu printed
// after a failed refresh.
func OutputResultWithCode(v any, format, outputPath string, code int) error {
	p, err := newPrinter(format, outputPath, code, nil)
	if err != nil {
		return err
	}
	return p.print(v)
}

// OutputResultText is OutputResult with textFn as the text rendering.
func OutputResultText(v any, format, outputPath string, textFn func() string) error {
	p, err := newPrinter(format, outputPath, 0, textFn)
	if err != nil {
		return err
	}
	return p.print(v)
}
