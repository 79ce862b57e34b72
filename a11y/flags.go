package a11y

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Flags is the boolean semantic state of a node, packed as a bitset.
type Flags uint32

// Bit positions match the values the engine packs into bundles.
const (
	FlagCheckable        Flags = 1 << 1
	FlagChecked          Flags = 1 << 2
	FlagClickable        Flags = 1 << 3
	FlagContentInvalid   Flags = 1 << 4
	FlagContextClickable Flags = 1 << 5
	FlagEditable         Flags = 1 << 6
	FlagEnabled          Flags = 1 << 7
	FlagFocusable        Flags = 1 << 8
	// FlagFocused is carried by the engine but input focus is tracked by
	// the bridge session, so materialization ignores it.
	FlagFocused          Flags = 1 << 9
	FlagLongClickable    Flags = 1 << 10
	FlagMultiLine        Flags = 1 << 11
	FlagPassword         Flags = 1 << 12
	FlagScrollable       Flags = 1 << 13
	FlagSelected         Flags = 1 << 14
	FlagVisibleToUser    Flags = 1 << 15
	FlagSelectable       Flags = 1 << 16
)

var flagNames = map[Flags]string{
	FlagCheckable:        "checkable",
	FlagChecked:          "checked",
	FlagClickable:        "clickable",
	FlagContentInvalid:   "content-invalid",
	FlagContextClickable: "context-clickable",
	FlagEditable:         "editable",
	FlagEnabled:          "enabled",
	FlagFocusable:        "focusable",
	FlagFocused:          "focused",
	FlagLongClickable:    "long-clickable",
	FlagMultiLine:        "multi-line",
	FlagPassword:         "password",
	FlagScrollable:       "scrollable",
	FlagSelected:         "selected",
	FlagVisibleToUser:    "visible",
	FlagSelectable:       "selectable",
}

// Has reports whether every bit in mask is set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Any reports whether at least one bit in mask is set.
func (f Flags) Any(mask Flags) bool {
	return f&mask != 0
}

// With returns f with mask set or cleared.
func (f Flags) With(mask Flags, on bool) Flags {
	if on {
		return f | mask
	}
	return f &^ mask
}

// Names returns the sorted names of the set bits.
func (f Flags) Names() []string {
	names := make([]string, 0, len(flagNames))
	for bit, name := range flagNames {
		if f&bit != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}

// ParseFlag resolves a flag by name.
func ParseFlag(name string) (Flags, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for bit, n := range flagNames {
		if n == name {
			return bit, nil
		}
	}
	return 0, fmt.Errorf("unknown flag %q", name)
}

// UnmarshalYAML accepts either the packed integer or a list of flag names.
func (f *Flags) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var raw uint32
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("flags: %w", err)
		}
		*f = Flags(raw)
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return fmt.Errorf("flags: %w", err)
		}
		var out Flags
		for _, name := range names {
			bit, err := ParseFlag(name)
			if err != nil {
				return err
			}
			out |= bit
		}
		*f = out
		return nil
	default:
		return fmt.Errorf("flags: unsupported yaml node at line %d", value.Line)
	}
}
