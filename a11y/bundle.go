// Package a11y defines the accessibility data shared by the engine side and
// the platform side of the bridge: attribute bundles produced by the engine,
// the native nodes and events handed to the platform, and the action,
// granularity and event vocabularies that travel between them.
package a11y

// NodeID is the engine-assigned virtual identifier of a node.
type NodeID int

const (
	// RootID is the sentinel for "no node": it addresses the hosting view
	// itself, which is also the root of the virtual tree.
	RootID NodeID = -1

	// NoFocus marks an unset focus or hover slot in session state.
	NoFocus NodeID = 0
)

// Bounds is a rectangle in absolute screen coordinates.
type Bounds struct {
	Left   int `yaml:"left" json:"left"`
	Top    int `yaml:"top" json:"top"`
	Right  int `yaml:"right" json:"right"`
	Bottom int `yaml:"bottom" json:"bottom"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() int {
	return b.Right - b.Left
}

// Height returns the vertical extent.
func (b Bounds) Height() int {
	return b.Bottom - b.Top
}

// Offset translates the rectangle by (-dx, -dy).
func (b Bounds) Offset(dx, dy int) Bounds {
	return Bounds{
		Left:   b.Left - dx,
		Top:    b.Top - dy,
		Right:  b.Right - dx,
		Bottom: b.Bottom - dy,
	}
}

// RangeInfo describes a ranged value such as a slider or progress bar.
type RangeInfo struct {
	Type    int     `yaml:"type" json:"type"`
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Current float64 `yaml:"current" json:"current"`
}

// CollectionInfo describes a table, list or tree container.
type CollectionInfo struct {
	RowCount      int  `yaml:"rowCount" json:"row_count"`
	ColumnCount   int  `yaml:"columnCount" json:"column_count"`
	Hierarchical  bool `yaml:"isHierarchical" json:"hierarchical,omitempty"`
	SelectionMode int  `yaml:"selectionMode" json:"selection_mode,omitempty"`
}

// CollectionItemInfo places a node inside its collection.
type CollectionItemInfo struct {
	RowIndex    int `yaml:"rowIndex" json:"row_index"`
	RowSpan     int `yaml:"rowSpan" json:"row_span"`
	ColumnIndex int `yaml:"columnIndex" json:"column_index"`
	ColumnSpan  int `yaml:"columnSpan" json:"column_span"`
}

// Bundle is the attribute snapshot the engine produces for one node.
//
// Caches own bundles by value and reference other nodes only by id.
// Pointer and slice fields are replaced wholesale, never edited in place,
// so a shallow copy stays valid after the cached original changes.
type Bundle struct {
	ID       NodeID `yaml:"id" json:"id"`
	ParentID NodeID `yaml:"parentId" json:"parent_id"`
	Class    Class  `yaml:"className" json:"class"`
	Flags    Flags  `yaml:"flags" json:"flags"`

	Text               string `yaml:"text,omitempty" json:"text,omitempty"`
	Hint               string `yaml:"hint,omitempty" json:"hint,omitempty"`
	RoleDescription    string `yaml:"roleDescription,omitempty" json:"role_description,omitempty"`
	EngineRole         string `yaml:"geckoRole,omitempty" json:"engine_role,omitempty"`
	ViewIDResourceName string `yaml:"viewIdResourceName,omitempty" json:"view_id_resource_name,omitempty"`
	InputType          int    `yaml:"inputType,omitempty" json:"input_type,omitempty"`

	Bounds   *Bounds  `yaml:"bounds,omitempty" json:"bounds,omitempty"`
	Children []NodeID `yaml:"children,omitempty" json:"children,omitempty"`

	Range          *RangeInfo          `yaml:"rangeInfo,omitempty" json:"range,omitempty"`
	Collection     *CollectionInfo     `yaml:"collectionInfo,omitempty" json:"collection,omitempty"`
	CollectionItem *CollectionItemInfo `yaml:"collectionItemInfo,omitempty" json:"collection_item,omitempty"`
}

// IsRoot reports whether the bundle describes the hosting view.
func (b *Bundle) IsRoot() bool {
	return b != nil && b.ID == RootID
}

// Clone returns a shallow copy. See the Bundle ownership note.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
