package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imagej/ijc/internal/app"
)

// ErrDialogCancelled is returned when the user aborts an input form.
var ErrDialogCancelled = errors.New("cancelled")

// noSelectionLabel is shown for the sentinel choice of required dropdowns.
const noSelectionLabel = "(select a value)"

// formBinding ties one settable request to the value its form field edits.
type formBinding struct {
	index int
	text  *string
	flag  *bool
}

// rawBinding is the JSON text entered for one parameter on the raw page.
type rawBinding struct {
	name string
	text *string
}

// inputForm is a huh form over a dialog's requests. Values are written back
// to the requests by apply once the form completes.
//
// When any request takes a value, a toggle on the first page opens a second
// page with one JSON input per such request. Non-blank entries there become
// raw overrides.
type inputForm struct {
	form       *huh.Form
	bindings   []formBinding
	rawEnabled *bool
	raw        []rawBinding
}

// newInputForm builds one form field per request.
func newInputForm(title string, requests []app.InputRequest) *inputForm {
	f := &inputForm{}
	fields := make([]huh.Field, 0, len(requests)+1)
	var rawFields []huh.Field
	for i, r := range requests {
		fields = append(fields, f.field(i, r))
		if acceptsRaw(r) {
			rawFields = append(rawFields, f.rawField(r))
		}
	}

	groups := []*huh.Group{nil}
	if len(rawFields) > 0 {
		enabled := false
		f.rawEnabled = &enabled
		fields = append(fields, huh.NewConfirm().
			Title("Enter raw JSON values?").
			Description("for arrays, objects or exact numbers").
			Affirmative("Yes").
			Negative("No").
			Value(f.rawEnabled))
		groups = append(groups, huh.NewGroup(rawFields...).
			Title("Raw JSON").
			Description("Blank fields keep the value from the previous page.").
			WithHideFunc(func() bool { return !enabled }))
	}
	groups[0] = huh.NewGroup(fields...).Title(title)
	f.form = huh.NewForm(groups...).WithShowHelp(true)
	return f
}

// acceptsRaw reports whether r is submitted from a value the user edits.
// Files are uploaded, and context or static entries are not editable.
func acceptsRaw(r app.InputRequest) bool {
	switch r.Kind {
	case app.RequestDropdown, app.RequestSpinner, app.RequestCheckbox:
		return true
	case app.RequestText:
		return !r.Text.Disabled
	default:
		return false
	}
}

func (f *inputForm) rawField(r app.InputRequest) huh.Field {
	text := ""
	f.raw = append(f.raw, rawBinding{name: r.Name, text: &text})
	return huh.NewInput().
		Title(r.Label).
		Placeholder(`e.g. [1, 2] or {"x": 1}`).
		Value(&text).
		Validate(jsonValidator)
}

func jsonValidator(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || json.Valid([]byte(s)) {
		return nil
	}
	return fmt.Errorf("not valid JSON")
}

func (f *inputForm) bindText(i int, initial string) *string {
	v := initial
	f.bindings = append(f.bindings, formBinding{index: i, text: &v})
	return &v
}

func (f *inputForm) bindFlag(i int, initial bool) *bool {
	v := initial
	f.bindings = append(f.bindings, formBinding{index: i, flag: &v})
	return &v
}

func (f *inputForm) field(i int, r app.InputRequest) huh.Field {
	label := r.Label
	if r.Required {
		label += " *"
	}

	switch r.Kind {
	case app.RequestDropdown:
		opts := make([]huh.Option[string], 0, len(r.Dropdown.Choices))
		for _, c := range r.Dropdown.Choices {
			if c == app.NoSelection && r.Dropdown.Placeholder {
				opts = append(opts, huh.NewOption(noSelectionLabel, c))
				continue
			}
			opts = append(opts, huh.NewOption(c, c))
		}
		return huh.NewSelect[string]().
			Title(label).
			Options(opts...).
			Inline(r.Dropdown.Style == app.ChoiceRadioHorizontal).
			Value(f.bindText(i, r.Dropdown.Value))

	case app.RequestSpinner:
		s := r.Spinner
		return huh.NewInput().
			Title(label).
			Description(spinnerHint(s)).
			Value(f.bindText(i, s.Value)).
			Validate(numberValidator(s.Integer))

	case app.RequestCheckbox:
		return huh.NewConfirm().
			Title(label).
			Affirmative("Yes").
			Negative("No").
			Value(f.bindFlag(i, r.Checkbox.Value))

	case app.RequestText:
		t := r.Text
		if t.Disabled {
			return huh.NewNote().Title(label).Description(t.Value + "\n(supplied by the server)")
		}
		if t.Style == app.TextArea {
			return huh.NewText().Title(label).Value(f.bindText(i, t.Value))
		}
		in := huh.NewInput().Title(label).Value(f.bindText(i, t.Value))
		switch t.Style {
		case app.TextPassword:
			in = in.EchoMode(huh.EchoModePassword)
		case app.TextDate:
			in = in.Placeholder("YYYY-MM-DD")
		}
		return in

	case app.RequestFile:
		return huh.NewInput().
			Title(label).
			Description("local file, uploaded before the module runs").
			Value(f.bindText(i, r.File.Path)).
			Validate(fileValidator(r.Required))

	case app.RequestThumbnail:
		th := r.Thumbnail
		return huh.NewNote().
			Title(label).
			Description(fmt.Sprintf("Active object %s\n%s", th.ObjectID, th.Source))

	default:
		return huh.NewNote().Title(label).Description(r.Static.Text)
	}
}

func spinnerHint(s *app.SpinnerRequest) string {
	var parts []string
	if s.Integer {
		parts = append(parts, "integer")
	} else {
		parts = append(parts, "number")
	}
	if s.Min != nil || s.Max != nil {
		parts = append(parts, fmt.Sprintf("range %s..%s", s.Min.String(), s.Max.String()))
	}
	if s.Step != "" && s.Step != app.StepAny {
		parts = append(parts, "step "+s.Step)
	}
	return strings.Join(parts, ", ")
}

func numberValidator(integer bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if !app.ValidNumber(s) {
			return fmt.Errorf("not a number")
		}
		if integer {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				return fmt.Errorf("not an integer")
			}
		}
		return nil
	}
}

func fileValidator(required bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return fmt.Errorf("a file is required")
			}
			return nil
		}
		info, err := os.Stat(s)
		if err != nil {
			return fmt.Errorf("cannot read %s", s)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", s)
		}
		return nil
	}
}

// apply writes the edited values back to requests and returns the raw JSON
// overrides entered, or nil when the raw page was not used.
func (f *inputForm) apply(requests []app.InputRequest) (app.RawOverrides, error) {
	for _, b := range f.bindings {
		r := &requests[b.index]
		var text string
		if b.flag != nil {
			text = strconv.FormatBool(*b.flag)
		} else {
			text = *b.text
		}
		if r.Kind == app.RequestFile {
			text = strings.TrimSpace(text)
		}
		if err := r.SetValue(text); err != nil {
			return nil, err
		}
	}
	if f.rawEnabled == nil || !*f.rawEnabled {
		return nil, nil
	}
	var raw app.RawOverrides
	for _, b := range f.raw {
		text := strings.TrimSpace(*b.text)
		if text == "" {
			continue
		}
		if raw == nil {
			raw = make(app.RawOverrides)
		}
		raw[b.name] = text
	}
	return raw, nil
}

// RunDialog shows the input form for d, stores the answers in d.Requests
// and returns any raw JSON overrides entered. It returns ErrDialogCancelled
// when the user aborts.
func RunDialog(ctx context.Context, d *app.Dialog) (app.RawOverrides, error) {
	f := newInputForm(d.Module.ID().DisplayName(), d.Requests)
	if err := f.form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrDialogCancelled
		}
		return nil, err
	}
	return f.apply(d.Requests)
}
