// Package app - modules.go renders module listings and module details.
package app

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

// FilterGroups keeps only the group of type t. An empty t keeps all.
func FilterGroups(groups []ModuleGroup, t string) []ModuleGroup {
	if t == "" {
		return groups
	}
	for _, g := range groups {
		if strings.EqualFold(g.Type, t) {
			return []ModuleGroup{g}
		}
	}
	return nil
}

// RenderModuleGroups renders grouped modules, one heading per type.
func RenderModuleGroups(groups []ModuleGroup) string {
	s := Styles
	if len(groups) == 0 {
		return s.Dim.Render("No modules.")
	}
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		heading := titleCase.String(g.Type)
		if heading == "" {
			heading = "Untyped"
		}
		sb.WriteString(s.Header.Render(fmt.Sprintf("%s (%d)", heading, len(g.Modules))))
		sb.WriteString("\n")
		for _, m := range g.Modules {
			fmt.Fprintf(&sb, "  %s %s", s.Bullet.Render("•"), s.Key.Render(m.Class))
			if m.Source != "" {
				sb.WriteString(" ")
				sb.WriteString(s.Dim.Render("(" + m.Source + ")"))
			}
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ModuleView is the printable shape of a module's details.
type ModuleView struct {
	ID      ModuleID        `json:"id"`
	Label   string          `json:"label,omitempty"`
	Inputs  []ParameterView `json:"inputs"`
	Outputs []ParameterView `json:"outputs"`
}

// ParameterView is one declared parameter with its classification.
type ParameterView struct {
	Name     string       `json:"name"`
	Label    string       `json:"label,omitempty"`
	Type     TypeInfo     `json:"type"`
	Kind     SemanticKind `json:"kind"`
	Required bool         `json:"required,omitempty"`
	Default  any          `json:"default,omitempty"`
	Choices  []string     `json:"choices,omitempty"`
}

// NewModuleView builds the printable view of d.
func NewModuleView(d *ModuleDetails) ModuleView {
	v := ModuleView{ID: d.ID(), Label: d.Label}
	for _, p := range d.Inputs {
		v.Inputs = append(v.Inputs, newParameterView(p))
	}
	for _, p := range d.Outputs {
		v.Outputs = append(v.Outputs, newParameterView(p))
	}
	return v
}

func newParameterView(p ParameterDescriptor) ParameterView {
	return ParameterView{
		Name:     p.Name,
		Label:    p.Label,
		Type:     p.Type(),
		Kind:     p.Kind(),
		Required: p.Required,
		Default:  p.DefaultValue,
		Choices:  p.Choices,
	}
}

// Render shows short type names; RenderLong shows full identifiers.
func (v ModuleView) Render() string { return v.render(false) }

// RenderLong renders with full type identifiers.
func (v ModuleView) RenderLong() string { return v.render(true) }

func (v ModuleView) render(long bool) string {
	s := Styles
	var sb strings.Builder
	sb.WriteString(s.Header.Render(v.ID.DisplayName()))
	if v.Label != "" {
		sb.WriteString("  ")
		sb.WriteString(s.Dim.Render(v.Label))
	}
	sb.WriteString("\n")
	sb.WriteString(s.Dim.Render(v.ID.Raw))
	sb.WriteString("\n")

	section := func(title string, params []ParameterView) {
		sb.WriteString("\n")
		sb.WriteString(s.Header.Render(title))
		sb.WriteString("\n")
		if len(params) == 0 {
			sb.WriteString(s.Dim.Render("  (none)"))
			sb.WriteString("\n")
			return
		}
		for _, p := range params {
			typ := p.Type.Short
			if long {
				typ = p.Type.Full
			}
			name := p.Name
			if p.Required {
				name += "*"
			}
			fmt.Fprintf(&sb, "  %s %s %s", s.Bullet.Render("•"), s.Key.Render(name), s.Dim.Render(typ))
			if p.Kind != KindUnrecognized {
				sb.WriteString(" ")
				sb.WriteString(s.Dim.Render("[" + string(p.Kind) + "]"))
			}
			if p.Label != "" && p.Label != p.Name {
				sb.WriteString("  ")
				sb.WriteString(p.Label)
			}
			sb.WriteString("\n")
			if len(p.Choices) > 0 {
				fmt.Fprintf(&sb, "      %s %s\n", s.Dim.Render("choices:"), strings.Join(p.Choices, ", "))
			}
			if p.Default != nil {
				fmt.Fprintf(&sb, "      %s %s\n", s.Dim.Render("default:"), PrettyValue(p.Default))
			}
		}
	}
	section("Inputs", v.Inputs)
	section("Outputs", v.Outputs)
	return strings.TrimRight(sb.String(), "\n")
}

// MatchModule resolves a user-typed module name against ids. A full
// identifier matches itself; otherwise the class name is matched, exactly
// and then case-insensitively, and must be unique.
func MatchModule(ids []string, query string) (string, error) {
	for _, id := range ids {
		if id == query {
			return id, nil
		}
	}
	var exact, folded []string
	for _, id := range ids {
		mid := ParseModuleID(id)
		switch {
		case mid.Class == query:
			exact = append(exact, id)
		case strings.EqualFold(mid.Class, query):
			folded = append(folded, id)
		}
	}
	candidates := exact
	if len(candidates) == 0 {
		candidates = folded
	}
	switch len(candidates) {
	case 0:
		return "", &ModuleNotFoundError{Command: query}
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("module name %q is ambiguous: %s", query, strings.Join(candidates, ", "))
	}
}
