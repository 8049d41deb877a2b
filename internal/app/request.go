// Package app - request.go builds input requests from parameter descriptors.
package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RequestKind tags the variant an InputRequest carries.
type RequestKind string

const (
	RequestDropdown   RequestKind = "dropdown"
	RequestSpinner    RequestKind = "spinner"
	RequestCheckbox   RequestKind = "checkbox"
	RequestText       RequestKind = "simple-text"
	RequestFile       RequestKind = "file-input"
	RequestThumbnail  RequestKind = "thumbnail"
	RequestStaticText RequestKind = "static-text"
)

// NoSelection is the sentinel choice prepended to required dropdowns so the
// user has to pick a value explicitly.
const NoSelection = ""

// StepAny is the step of float spinners with no declared step size.
const StepAny = "any"

// ChoiceStyle is the rendering hint of a dropdown.
type ChoiceStyle string

const (
	ChoiceListBox         ChoiceStyle = "list"
	ChoiceRadioHorizontal ChoiceStyle = "radio-horizontal"
	ChoiceRadioVertical   ChoiceStyle = "radio-vertical"
)

// TextStyle is the rendering hint of a text field.
type TextStyle string

const (
	TextField    TextStyle = "text-field"
	TextArea     TextStyle = "text-area"
	TextPassword TextStyle = "password"
	TextDate     TextStyle = "date"
)

// defaultColumnCount is used when a string parameter has no columnCount.
const defaultColumnCount = 6

// DropdownRequest selects one of a fixed list of choices.
type DropdownRequest struct {
	Choices []string    `json:"choices"`
	Value   string      `json:"value"`
	Style   ChoiceStyle `json:"style"`
	// Placeholder is set when Choices[0] is the NoSelection sentinel.
	Placeholder bool `json:"placeholder,omitempty"`
}

// SpinnerRequest edits a number. Value is the text the user typed; an empty
// Value means unset. Nil bounds are unspecified.
type SpinnerRequest struct {
	Integer bool         `json:"integer"`
	Min     *NumericText `json:"min,omitempty"`
	Max     *NumericText `json:"max,omitempty"`
	SoftMin *NumericText `json:"softMin,omitempty"`
	SoftMax *NumericText `json:"softMax,omitempty"`
	Step    string       `json:"step"`
	Value   string       `json:"value"`
	// Slider asks for a paired coarse control over [SoftMin, SoftMax].
	Slider bool `json:"slider,omitempty"`
}

// CheckboxRequest edits a boolean.
type CheckboxRequest struct {
	Value bool `json:"value"`
}

// TextRequest edits free text. Disabled fields are supplied by the server
// and never submitted.
type TextRequest struct {
	Value    string    `json:"value"`
	Disabled bool      `json:"disabled,omitempty"`
	Style    TextStyle `json:"style"`
	Columns  int       `json:"columns,omitempty"`
}

// FileRequest picks a local file to upload before execution.
type FileRequest struct {
	Path string `json:"path"`
}

// ThumbnailRequest shows the active object that an image parameter is bound to.
type ThumbnailRequest struct {
	Source   string `json:"source"`
	ObjectID string `json:"objectId"`
}

// StaticTextRequest is informational only; its value is the text itself and
// it is never part of the payload.
type StaticTextRequest struct {
	Text string `json:"text"`
}

// InputRequest is the interactive representation of one module input. Kind
// selects which of the variant pointers is set; exactly one is non-nil.
type InputRequest struct {
	Kind     RequestKind `json:"kind"`
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	Type     TypeInfo    `json:"type"`
	Required bool        `json:"required,omitempty"`

	Dropdown  *DropdownRequest   `json:"dropdown,omitempty"`
	Spinner   *SpinnerRequest    `json:"spinner,omitempty"`
	Checkbox  *CheckboxRequest   `json:"checkbox,omitempty"`
	Text      *TextRequest       `json:"text,omitempty"`
	File      *FileRequest       `json:"file,omitempty"`
	Thumbnail *ThumbnailRequest  `json:"thumbnail,omitempty"`
	Static    *StaticTextRequest `json:"static,omitempty"`
}

// BuildContext is the ambient state request building reads. It is passed
// explicitly and captured when a dialog opens.
type BuildContext struct {
	ActiveObject *ObjectRef
}

// BuildRequest produces the input request for one descriptor. It fails only
// for image-reference parameters when no object is active.
func BuildRequest(d ParameterDescriptor, bc BuildContext) (InputRequest, error) {
	req := InputRequest{
		Name:     d.Name,
		Label:    d.DisplayLabel(),
		Type:     d.Type(),
		Required: d.Required,
	}
	useDefault := !d.Required && d.HasDefault()

	switch kind := d.Kind(); kind {
	case KindEnumerated:
		req.Kind = RequestDropdown
		req.Dropdown = buildDropdown(d)

	case KindInteger, KindFloat:
		step := "1"
		if kind == KindFloat {
			step = StepAny
		}
		if d.StepSize != nil {
			step = d.StepSize.String()
		}
		value := ""
		if useDefault {
			value = defaultText(d.DefaultValue)
		}
		req.Kind = RequestSpinner
		req.Spinner = &SpinnerRequest{
			Integer: kind == KindInteger,
			Min:     d.Minimum,
			Max:     d.Maximum,
			SoftMin: d.SoftMinimum,
			SoftMax: d.SoftMaximum,
			Step:    step,
			Value:   value,
			Slider:  isSliderStyle(d.WidgetStyle),
		}

	case KindBoolean:
		value := false
		if useDefault {
			value = defaultBool(d.DefaultValue)
		}
		req.Kind = RequestCheckbox
		req.Checkbox = &CheckboxRequest{Value: value}

	case KindString, KindDate:
		value := ""
		if useDefault {
			value = defaultText(d.DefaultValue)
		}
		style := textStyle(d.WidgetStyle)
		if kind == KindDate {
			style = TextDate
		}
		columns := defaultColumnCount
		if d.ColumnCount != nil {
			columns = *d.ColumnCount
		}
		req.Kind = RequestText
		req.Text = &TextRequest{Value: value, Style: style, Columns: columns * 2}

	case KindFile:
		req.Kind = RequestFile
		req.File = &FileRequest{}

	case KindInjectable:
		req.Kind = RequestText
		req.Text = &TextRequest{Disabled: true, Style: TextField}

	case KindImageReference:
		if bc.ActiveObject == nil {
			return InputRequest{}, &MissingContextError{Param: d.Name}
		}
		req.Kind = RequestThumbnail
		req.Thumbnail = &ThumbnailRequest{
			Source:   bc.ActiveObject.Src,
			ObjectID: bc.ActiveObject.ID,
		}

	case KindUnrecognized:
		req.Kind = RequestStaticText
		req.Static = &StaticTextRequest{
			Text: "Not implemented input widget for class: " + d.GenericType,
		}

	default:
		panic(fmt.Sprintf("unhandled semantic kind %q", kind))
	}

	return req, nil
}

// BuildRequests builds one request per input, in declared order.
func BuildRequests(inputs []ParameterDescriptor, bc BuildContext) ([]InputRequest, error) {
	requests := make([]InputRequest, 0, len(inputs))
	for _, in := range inputs {
		req, err := BuildRequest(in, bc)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func buildDropdown(d ParameterDescriptor) *DropdownRequest {
	dd := &DropdownRequest{Style: choiceStyle(d.WidgetStyle)}
	if d.Required {
		dd.Placeholder = true
		dd.Choices = append([]string{NoSelection}, d.Choices...)
		dd.Value = NoSelection
		return dd
	}

	dd.Choices = append([]string(nil), d.Choices...)
	if d.HasDefault() {
		def := defaultText(d.DefaultValue)
		for _, c := range d.Choices {
			if c == def {
				dd.Value = def
				return dd
			}
		}
	}
	// Without a usable default the first choice is preselected.
	if len(dd.Choices) > 0 {
		dd.Value = dd.Choices[0]
	}
	return dd
}

func choiceStyle(widgetStyle string) ChoiceStyle {
	switch widgetStyle {
	case "radioButtonHorizontal":
		return ChoiceRadioHorizontal
	case "radioButtonVertical":
		return ChoiceRadioVertical
	default:
		return ChoiceListBox
	}
}

func textStyle(widgetStyle string) TextStyle {
	switch widgetStyle {
	case "password":
		return TextPassword
	case "text area":
		return TextArea
	default:
		return TextField
	}
}

func isSliderStyle(widgetStyle string) bool {
	return widgetStyle == "slider" || widgetStyle == "scroll bar"
}

// defaultText renders a JSON default as field text.
func defaultText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

func defaultBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(val))
		return b
	default:
		return false
	}
}

// Settable reports whether a user may assign a value to the request.
func (r InputRequest) Settable() bool {
	switch r.Kind {
	case RequestStaticText:
		return false
	case RequestText:
		return !r.Text.Disabled
	default:
		return true
	}
}

// SetValue assigns user text to the request, parsed per variant.
func (r *InputRequest) SetValue(text string) error {
	switch r.Kind {
	case RequestDropdown:
		r.Dropdown.Value = text
	case RequestSpinner:
		r.Spinner.Value = strings.TrimSpace(text)
	case RequestCheckbox:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return &MalformedPayloadError{Param: r.Name, Err: fmt.Errorf("not a boolean: %q", text)}
		}
		r.Checkbox.Value = b
	case RequestText:
		if r.Text.Disabled {
			return fmt.Errorf("%q is supplied by the server and cannot be set", r.Name)
		}
		r.Text.Value = text
	case RequestFile:
		r.File.Path = text
	case RequestThumbnail:
		r.Thumbnail.ObjectID = text
	case RequestStaticText:
		return fmt.Errorf("%q has no input widget", r.Name)
	default:
		return fmt.Errorf("unknown request kind %q", r.Kind)
	}
	return nil
}

// DisplayValue is the current value as text, for previews and summaries.
func (r InputRequest) DisplayValue() string {
	switch r.Kind {
	case RequestDropdown:
		return r.Dropdown.Value
	case RequestSpinner:
		return r.Spinner.Value
	case RequestCheckbox:
		return strconv.FormatBool(r.Checkbox.Value)
	case RequestText:
		if r.Text.Style == TextPassword && r.Text.Value != "" {
			return strings.Repeat("*", len(r.Text.Value))
		}
		return r.Text.Value
	case RequestFile:
		return r.File.Path
	case RequestThumbnail:
		return r.Thumbnail.ObjectID
	case RequestStaticText:
		return r.Static.Text
	default:
		return ""
	}
}

// FindRequest returns the request named name.
func FindRequest(requests []InputRequest, name string) (*InputRequest, bool) {
	for i := range requests {
		if requests[i].Name == name {
			return &requests[i], true
		}
	}
	return nil, false
}
