package a11y

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Class is an index into the fixed table of semantic widget roles.
type Class int

const (
	// ClassUnknown means the caller did not supply a class; the event
	// router resolves it from the cache.
	ClassUnknown Class = -1

	ClassView Class = iota - 1
	ClassButton
	ClassCheckBox
	ClassDialog
	ClassEditText
	ClassGridView
	ClassImage
	ClassListView
	ClassMenuItem
	ClassProgressBar
	ClassRadioButton
	ClassSeekBar
	ClassSpinner
	ClassTabWidget
	ClassToggleButton
	// ClassWebView is the document container hosting the virtual tree.
	ClassWebView
)

var classNames = [...]string{
	"view",
	"button",
	"checkbox",
	"dialog",
	"edittext",
	"gridview",
	"image",
	"listview",
	"menuitem",
	"progressbar",
	"radiobutton",
	"seekbar",
	"spinner",
	"tabwidget",
	"togglebutton",
	"webview",
}

// Valid reports whether c indexes the role table.
func (c Class) Valid() bool {
	return c >= 0 && int(c) < len(classNames)
}

// Resolve returns c, or ClassView when c is out of range.
func (c Class) Resolve() Class {
	if c.Valid() {
		return c
	}
	return ClassView
}

func (c Class) String() string {
	if c.Valid() {
		return classNames[c]
	}
	if c == ClassUnknown {
		return "unknown"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// ParseClass resolves a class by role name.
func ParseClass(name string) (Class, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range classNames {
		if n == name {
			return Class(i), nil
		}
	}
	if name == "unknown" {
		return ClassUnknown, nil
	}
	return ClassUnknown, fmt.Errorf("unknown class %q", name)
}

// UnmarshalYAML accepts either the table index or the role name.
func (c *Class) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("class: expected scalar at line %d", value.Line)
	}
	var idx int
	if err := value.Decode(&idx); err == nil {
		*c = Class(idx)
		return nil
	}
	parsed, err := ParseClass(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText encodes the class by role name.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a role name.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
