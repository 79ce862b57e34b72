package bridge

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/furry-a11y/a11y"
	"github.com/odvcencio/furry-a11y/cache"
	"github.com/odvcencio/furry-a11y/logging"
)

func TestMaterializeClickableOnly(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.session.SetAttached(true)
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{bundle(3, 1, a11y.ClassButton, a11y.FlagClickable)})

	got := f.session.Materialize(3, true)
	want := a11y.Node{
		ID:          3,
		ParentID:    1,
		Class:       a11y.ClassButton,
		PackageName: DefaultPackageName,
		Clickable:   true,
		Actions: []a11y.Action{
			a11y.ActionNextHTMLElement,
			a11y.ActionPreviousHTMLElement,
			a11y.ActionPreviousAtGranularity,
			a11y.ActionNextAtGranularity,
			a11y.ActionClick,
			a11y.ActionAccessibilityFocus,
		},
		Granularities: a11y.DefaultGranularities,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
}

func TestMaterializeEveryFlag(t *testing.T) {
	f := newFixture(fakeSettings{})
	var all a11y.Flags
	for bit := a11y.FlagCheckable; bit <= a11y.FlagSelectable; bit <<= 1 {
		all |= bit
	}
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{bundle(2, 1, a11y.ClassEditText, all)})

	got := f.session.Materialize(2, true)
	assert.True(t, got.Checkable)
	assert.True(t, got.Checked)
	assert.True(t, got.Clickable)
	assert.True(t, got.ContentInvalid)
	assert.True(t, got.ContextClickable)
	assert.True(t, got.Editable)
	assert.True(t, got.Enabled)
	assert.True(t, got.Focusable)
	assert.True(t, got.LongClickable)
	assert.True(t, got.MultiLine)
	assert.True(t, got.Password)
	assert.True(t, got.Scrollable)
	assert.True(t, got.Selected)
	assert.True(t, got.VisibleToUser)
	// Input focus comes from the session, never from the bundle.
	assert.False(t, got.Focused)
	for _, action := range []a11y.Action{a11y.ActionSetSelection, a11y.ActionCut, a11y.ActionCopy, a11y.ActionPaste} {
		assert.True(t, got.HasAction(action), "missing %s", action)
	}
}

func TestMaterializeDetachedFallsBack(t *testing.T) {
	var buf bytes.Buffer
	engine := newFakeEngine()
	engine.nodes[7] = bundle(7, 1, a11y.ClassButton, 0)
	session := NewSession(Config{
		Engine:   engine,
		Host:     &fakeHost{},
		Settings: fakeSettings{},
		Logger:   logging.New("debug", "json", &buf),
	})
	session.SetAttached(false)

	var node a11y.Node
	require.NotPanics(t, func() {
		node = session.Materialize(7, false)
	})
	assert.Equal(t, a11y.RootID, node.ID)
	assert.Equal(t, a11y.ClassWebView, node.Class)
	assert.Empty(t, engine.queries)
	assert.Contains(t, buf.String(), "failed to retrieve accessible node")
}

func TestCreateNodeDetachedIgnoresCache(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.host.display = true
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{bundle(4, 1, a11y.ClassButton, 0)})

	node := f.session.CreateNode(4)
	assert.Equal(t, a11y.RootID, node.ID)
	assert.Equal(t, a11y.ClassWebView, node.Class)
	assert.Equal(t, "host view", node.Text)
}

func TestCreateNodeFullTreeQueriesEngine(t *testing.T) {
	engine := newFakeEngine()
	b := bundle(9, 1, a11y.ClassCheckBox, a11y.FlagCheckable|a11y.FlagChecked)
	b.Text = "Remember me"
	engine.nodes[9] = b
	session := NewSession(Config{Engine: engine, Host: &fakeHost{}, Settings: fakeSettings{}, FullTree: true})
	session.SetAttached(true)

	node := session.CreateNode(9)
	assert.Equal(t, []a11y.NodeID{9}, engine.queries)
	assert.Equal(t, a11y.ClassCheckBox, node.Class)
	assert.Equal(t, "Remember me", node.Text)
	assert.True(t, node.Checked)

	engine.fail = true
	node = session.CreateNode(9)
	assert.Equal(t, a11y.RootID, node.ID)
}

func TestCreateNodeUsesCacheWithoutFullTree(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.session.SetAttached(true)
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{bundle(5, 1, a11y.ClassImage, 0)})

	node := f.session.CreateNode(5)
	assert.Equal(t, a11y.ClassImage, node.Class)
	assert.Empty(t, f.engine.queries)
}

func TestMaterializeRoot(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.host.display = true
	root := bundle(a11y.RootID, a11y.RootID, a11y.ClassWebView, a11y.FlagScrollable)
	root.Text = "Page title"
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{root})

	node := f.session.Materialize(a11y.RootID, true)
	assert.Equal(t, a11y.RootID, node.ID)
	assert.Equal(t, "Page title", node.Text)
	assert.True(t, node.HasAction(a11y.ActionFocus), "host metadata applied first")
	assert.Equal(t, DefaultPackageName, node.PackageName)
	assert.True(t, node.HasAction(a11y.ActionScrollForward))
	assert.True(t, node.HasAction(a11y.ActionScrollBackward))
	assert.Equal(t, a11y.HTMLElementRules, node.Extras[a11y.ExtraHTMLElementValues])
}

func TestMaterializeNonRootHasNoScrollActions(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{bundle(2, 1, a11y.ClassListView, a11y.FlagScrollable)})

	node := f.session.Materialize(2, true)
	assert.False(t, node.HasAction(a11y.ActionScrollForward))
	assert.NotContains(t, node.Extras, a11y.ExtraHTMLElementValues)
}

func TestMaterializeStaleChildren(t *testing.T) {
	f := newFixture(fakeSettings{})
	parent := bundle(1, a11y.RootID, a11y.ClassListView, 0)
	parent.Children = []a11y.NodeID{2, 3, 4}
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{
		parent,
		bundle(2, 1, a11y.ClassView, 0),
		bundle(3, 1, a11y.ClassView, 0),
	})
	// Node 3 moved under node 5 in a newer push.
	f.session.ReplaceCache(cache.FocusPath, []*a11y.Bundle{bundle(3, 5, a11y.ClassView, 0)})

	fromCache := f.session.Materialize(1, true)
	assert.Equal(t, []a11y.NodeID{2}, fromCache.Children)

	f.engine.nodes[1] = parent
	f.session.SetAttached(true)
	live := f.session.Materialize(1, false)
	assert.Equal(t, []a11y.NodeID{2, 3, 4}, live.Children)
}

func TestMaterializeBounds(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.host.originX, f.host.originY = 10, 20
	b := bundle(2, 1, a11y.ClassButton, 0)
	b.Bounds = &a11y.Bounds{Left: 15, Top: 30, Right: 115, Bottom: 60}
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{b})

	node := f.session.Materialize(2, true)
	require.NotNil(t, node.BoundsInScreen)
	require.NotNil(t, node.BoundsInParent)
	assert.Equal(t, a11y.Bounds{Left: 15, Top: 30, Right: 115, Bottom: 60}, *node.BoundsInScreen)
	assert.Equal(t, a11y.Bounds{Left: 5, Top: 10, Right: 105, Bottom: 40}, *node.BoundsInParent)

	f.session.UpdateBounds([]*a11y.Bundle{{ID: 2, Bounds: &a11y.Bounds{Left: 10, Top: 20, Right: 20, Bottom: 30}}})
	node = f.session.Materialize(2, true)
	assert.Equal(t, a11y.Bounds{Right: 10, Bottom: 10}, *node.BoundsInParent)
}

func TestMaterializeNestedInfo(t *testing.T) {
	f := newFixture(fakeSettings{})
	slider := bundle(2, 1, a11y.ClassSeekBar, 0)
	slider.Range = &a11y.RangeInfo{Type: 1, Min: 0, Max: 10, Current: 4}
	table := bundle(3, 1, a11y.ClassGridView, 0)
	table.Collection = &a11y.CollectionInfo{RowCount: 2, ColumnCount: 3, SelectionMode: 1}
	cell := bundle(4, 3, a11y.ClassView, 0)
	cell.CollectionItem = &a11y.CollectionItemInfo{RowIndex: 1, RowSpan: 1, ColumnIndex: 2, ColumnSpan: 1}
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{slider, table, cell})

	n := f.session.Materialize(2, true)
	require.NotNil(t, n.Range)
	assert.Equal(t, 4.0, n.Range.Current)
	assert.Nil(t, n.Collection)
	assert.Nil(t, n.CollectionItem)

	n = f.session.Materialize(3, true)
	require.NotNil(t, n.Collection)
	assert.Equal(t, 1, n.Collection.SelectionMode)
	assert.Nil(t, n.Range)

	n = f.session.Materialize(4, true)
	require.NotNil(t, n.CollectionItem)
	assert.Equal(t, 2, n.CollectionItem.ColumnIndex)
}

func TestMaterializeExtras(t *testing.T) {
	f := newFixture(fakeSettings{})
	b := bundle(2, 1, a11y.ClassEditText, a11y.FlagEditable)
	b.Hint = "Search"
	b.EngineRole = "entry"
	b.RoleDescription = "search box"
	b.ViewIDResourceName = "q"
	b.InputType = 1
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{b})

	n := f.session.Materialize(2, true)
	assert.Equal(t, "Search", n.Hint)
	assert.Equal(t, "q", n.ViewIDResourceName)
	assert.Equal(t, 1, n.InputType)
	assert.Equal(t, map[string]string{
		a11y.ExtraHint:            "Search",
		a11y.ExtraEngineRole:      "entry",
		a11y.ExtraRoleDescription: "search box",
	}, n.Extras)
}

func TestCapabilitiesGateMaterialization(t *testing.T) {
	engine := newFakeEngine()
	limited := Capabilities{ExtendedState: true}
	host := capsHost{&fakeHost{caps: &limited}}
	session := NewSession(Config{Engine: engine, Host: host, Settings: fakeSettings{}})
	assert.Equal(t, limited, session.Capabilities())

	b := bundle(2, 1, a11y.ClassEditText, a11y.FlagEditable|a11y.FlagContextClickable)
	b.Hint = "Name"
	b.ViewIDResourceName = "name"
	b.Collection = &a11y.CollectionInfo{RowCount: 1, SelectionMode: 2}
	session.ReplaceCache(cache.Viewport, []*a11y.Bundle{b})

	n := session.Materialize(2, true)
	assert.False(t, n.Editable)
	assert.False(t, n.HasAction(a11y.ActionPaste))
	assert.False(t, n.ContextClickable)
	assert.Empty(t, n.ViewIDResourceName)
	assert.Empty(t, n.Hint)
	assert.Equal(t, "Name", n.Extras[a11y.ExtraHint])
	require.NotNil(t, n.Collection)
	assert.Zero(t, n.Collection.SelectionMode)

	none := Capabilities{}
	bare := NewSession(Config{Engine: engine, Settings: fakeSettings{}, Capabilities: &none})
	bare.ReplaceCache(cache.Viewport, []*a11y.Bundle{b})
	n = bare.Materialize(2, true)
	assert.Nil(t, n.Extras)
	assert.Nil(t, n.Collection)
}

func TestMaterializeOutOfRangeClass(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{bundle(2, 1, a11y.Class(99), 0)})
	assert.Equal(t, a11y.ClassView, f.session.Materialize(2, true).Class)
}

func TestMaterializeFocusFromSession(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{
		bundle(2, 1, a11y.ClassButton, a11y.FlagFocused),
		bundle(3, 1, a11y.ClassButton, 0),
	})
	f.send(EngineEvent{Type: a11y.EventAccessibilityFocused, Source: 3, Class: a11y.ClassUnknown})
	f.send(EngineEvent{Type: a11y.EventFocused, Source: 3, Class: a11y.ClassUnknown})

	n2 := f.session.Materialize(2, true)
	assert.False(t, n2.Focused)
	assert.False(t, n2.AccessibilityFocused)
	assert.True(t, n2.HasAction(a11y.ActionAccessibilityFocus))

	n3 := f.session.Materialize(3, true)
	assert.True(t, n3.Focused)
	assert.True(t, n3.AccessibilityFocused)
	assert.True(t, n3.HasAction(a11y.ActionClearAccessibilityFocus))
	assert.False(t, n3.HasAction(a11y.ActionAccessibilityFocus))
}

func TestFindFocus(t *testing.T) {
	f := newFixture(fakeSettings{})
	f.session.SetAttached(true)
	f.session.ReplaceCache(cache.Viewport, []*a11y.Bundle{bundle(3, 1, a11y.ClassButton, 0)})

	_, ok := f.session.FindFocus(a11y.FocusAccessibility)
	assert.False(t, ok)

	f.send(EngineEvent{Type: a11y.EventAccessibilityFocused, Source: 3, Class: a11y.ClassUnknown})
	node, ok := f.session.FindFocus(a11y.FocusAccessibility)
	require.True(t, ok)
	assert.Equal(t, a11y.NodeID(3), node.ID)

	_, ok = f.session.FindFocus(a11y.FocusInput)
	assert.False(t, ok)
}
