package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Reserved menu dictionary keys. Every other key names a child.
const (
	menuKeyLabel   = "Label"
	menuKeyCommand = "Command"
	menuKeyLevel   = "Level"

	// menuProviderKey wraps the tree in the menu provider module's output.
	menuProviderKey = "mappedMenuItems"
)

// CommandModulePrefix turns a menu command into a module identifier.
const CommandModulePrefix = "command:"

// MenuItem is one node of the menu tree. Children keep the order their keys
// appeared in the server's dictionary.
type MenuItem struct {
	Label    string     `json:"label"`
	Command  string     `json:"command,omitempty"`
	Level    int        `json:"level,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// IsLeaf reports whether the item has no children.
func (m MenuItem) IsLeaf() bool { return len(m.Children) == 0 }

// ModuleID is the identifier of the module a leaf runs.
func (m MenuItem) ModuleID() string {
	return CommandModulePrefix + m.Command
}

// ExtractMenu builds the menu tree from a nested dictionary. It accepts the
// admin shape {Level, Label, Command, child...}, the provider shape
// {Label, Command, child...}, and either wrapped as {"mappedMenuItems": ...}.
func ExtractMenu(raw []byte) (*MenuItem, error) {
	raw = bytes.TrimSpace(raw)
	if inner, ok, err := unwrapProvider(raw); err != nil {
		return nil, err
	} else if ok {
		raw = inner
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	root, err := decodeMenuItem(dec, "")
	if err != nil {
		return nil, fmt.Errorf("menu: %w", err)
	}
	return &root, nil
}

// unwrapProvider returns the tree inside a provider output, if raw is one.
func unwrapProvider(raw []byte) ([]byte, bool, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, false, fmt.Errorf("menu: %w", err)
	}
	if _, hasLabel := top[menuKeyLabel]; hasLabel {
		return nil, false, nil
	}
	inner, ok := top[menuProviderKey]
	if !ok {
		return nil, false, nil
	}
	return bytes.TrimSpace(inner), true, nil
}

func decodeMenuItem(dec *json.Decoder, path string) (MenuItem, error) {
	var item MenuItem
	if err := expectDelim(dec, '{', path); err != nil {
		return item, err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return item, err
		}
		key, ok := tok.(string)
		if !ok {
			return item, fmt.Errorf("%s: unexpected token %v", pathOrRoot(path), tok)
		}

		switch key {
		case menuKeyLabel:
			if item.Label, err = decodeNullableString(dec); err != nil {
				return item, fmt.Errorf("%s/%s: %w", pathOrRoot(path), key, err)
			}
		case menuKeyCommand:
			if item.Command, err = decodeNullableString(dec); err != nil {
				return item, fmt.Errorf("%s/%s: %w", pathOrRoot(path), key, err)
			}
		case menuKeyLevel:
			var lvl any
			if err := dec.Decode(&lvl); err != nil {
				return item, err
			}
			if n, ok := lvl.(json.Number); ok {
				if v, err := n.Int64(); err == nil {
					item.Level = int(v)
				}
			}
		default:
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return item, err
			}
			value = bytes.TrimSpace(value)
			if len(value) == 0 || value[0] != '{' {
				continue
			}
			sub := json.NewDecoder(bytes.NewReader(value))
			sub.UseNumber()
			child, err := decodeMenuItem(sub, path+"/"+key)
			if err != nil {
				return item, err
			}
			item.Children = append(item.Children, child)
		}
	}
	if _, err := dec.Token(); err != nil {
		return item, err
	}
	return item, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%s: expected %q, got %v", pathOrRoot(path), want, tok)
	}
	return nil
}

func decodeNullableString(dec *json.Decoder) (string, error) {
	var s *string
	if err := dec.Decode(&s); err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return *s, nil
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// FindMenuItem walks labels from root. Labels match exactly first, then
// case-insensitively.
func FindMenuItem(root *MenuItem, labels []string) (*MenuItem, error) {
	cur := root
	for i, label := range labels {
		next := findChild(cur.Children, label)
		if next == nil {
			return nil, fmt.Errorf("menu item %q not found under %q", label, strings.Join(labels[:i], " > "))
		}
		cur = next
	}
	return cur, nil
}

func findChild(children []MenuItem, label string) *MenuItem {
	for i := range children {
		if children[i].Label == label {
			return &children[i]
		}
	}
	for i := range children {
		if strings.EqualFold(children[i].Label, label) {
			return &children[i]
		}
	}
	return nil
}

// ResolveModule maps a menu leaf to the module whose identifier equals
// "command:" + its command.
func ResolveModule(item MenuItem, modules []string) (string, error) {
	if item.Command == "" {
		return "", &ModuleNotFoundError{Command: item.Label}
	}
	want := item.ModuleID()
	for _, id := range modules {
		if id == want {
			return id, nil
		}
	}
	return "", &ModuleNotFoundError{Command: item.Command}
}

// Render draws the menu as an indented tree.
func (m MenuItem) Render() string {
	var sb strings.Builder
	sb.WriteString(Styles.Header.Render(labelOrPlaceholder(m.Label)))
	sb.WriteString("\n")
	renderMenuChildren(&sb, m.Children, "")
	return strings.TrimRight(sb.String(), "\n")
}

func renderMenuChildren(sb *strings.Builder, children []MenuItem, prefix string) {
	s := Styles
	for i, c := range children {
		last := i == len(children)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		sb.WriteString(s.Bullet.Render(prefix + branch))
		if c.IsLeaf() {
			sb.WriteString(labelOrPlaceholder(c.Label))
			if c.Command != "" {
				sb.WriteString(" ")
				sb.WriteString(s.Dim.Render(c.Command))
			}
		} else {
			sb.WriteString(s.Key.Render(labelOrPlaceholder(c.Label)))
		}
		sb.WriteString("\n")
		renderMenuChildren(sb, c.Children, prefix+indent)
	}
}

func labelOrPlaceholder(label string) string {
	if label == "" {
		return "(unnamed)"
	}
	return label
}
