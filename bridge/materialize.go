package bridge

import "github.com/odvcencio/furry-a11y/a11y"

// CreateNode answers a platform node query. It always returns a node: when
// the engine is detached or the node is unknown the result is the fallback
// document container.
func (s *Session) CreateNode(id a11y.NodeID) a11y.Node {
	if s == nil {
		return a11y.Node{ID: a11y.RootID, ParentID: a11y.RootID, Class: a11y.ClassWebView}
	}
	if !s.Attached() {
		s.logger.Warn("failed to retrieve accessible node", "node", int(id), "attached", false)
		return s.fallbackNode()
	}
	return s.Materialize(id, !s.fullTree)
}

// FindFocus returns the node holding the given kind of focus. It reports
// false when nothing is tracked, leaving the platform to its default search.
func (s *Session) FindFocus(kind a11y.FocusKind) (a11y.Node, bool) {
	if s == nil {
		return a11y.Node{}, false
	}
	focus := s.Focus()
	var id a11y.NodeID
	switch kind {
	case a11y.FocusAccessibility:
		id = focus.Accessibility
	case a11y.FocusInput:
		id = focus.Input
	}
	if id == a11y.NoFocus {
		return a11y.Node{}, false
	}
	return s.CreateNode(id), true
}

// Materialize builds the native node for id. With fromCacheOnly unset and
// the engine attached the bundle comes straight from the engine; otherwise
// from the freshest cache. A missing bundle yields the fallback node.
func (s *Session) Materialize(id a11y.NodeID, fromCacheOnly bool) a11y.Node {
	if s == nil {
		return s.CreateNode(id)
	}
	var (
		bundle a11y.Bundle
		ok     bool
	)
	if !fromCacheOnly && s.Attached() {
		bundle, ok = s.query(id)
	} else {
		bundle, ok = s.Lookup(id)
		if !ok {
			s.logger.Error("no cached node", "node", int(id))
		}
	}
	if !ok {
		s.logger.Warn("failed to retrieve accessible node", "node", int(id), "from_cache", fromCacheOnly)
		return s.fallbackNode()
	}
	return s.populate(bundle, fromCacheOnly)
}

func (s *Session) query(id a11y.NodeID) (a11y.Bundle, bool) {
	if s.engine == nil {
		return a11y.Bundle{}, false
	}
	b, err := s.engine.QueryNode(id)
	if err != nil {
		s.logger.Warn("engine node query failed", "node", int(id), "error", err)
		return a11y.Bundle{}, false
	}
	if b == nil {
		return a11y.Bundle{}, false
	}
	return *b, true
}

func (s *Session) fallbackNode() a11y.Node {
	node := a11y.Node{ID: a11y.RootID, ParentID: a11y.RootID}
	if host := s.boundHost(); host != nil && host.HasDisplay() {
		host.InitializeNode(&node)
	}
	node.ID = a11y.RootID
	node.Class = a11y.ClassWebView
	if node.PackageName == "" {
		node.PackageName = s.packageName
	}
	return node
}

func (s *Session) populate(b a11y.Bundle, fromCache bool) a11y.Node {
	host := s.boundHost()
	node := a11y.Node{ID: b.ID, ParentID: b.ParentID}

	isRoot := b.IsRoot()
	if isRoot {
		if host != nil && host.HasDisplay() {
			host.InitializeNode(&node)
		}
		node.ID = a11y.RootID
		node.ParentID = a11y.RootID
		node.AddAction(a11y.ActionScrollBackward)
		node.AddAction(a11y.ActionScrollForward)
	}

	if !b.Class.Valid() {
		s.logger.Error("class index out of range", "node", int(b.ID), "class", int(b.Class))
	}
	node.Class = b.Class.Resolve()
	node.PackageName = s.packageName
	if b.Text != "" {
		node.Text = b.Text
	}

	node.AddAction(a11y.ActionNextHTMLElement)
	node.AddAction(a11y.ActionPreviousHTMLElement)
	node.AddAction(a11y.ActionPreviousAtGranularity)
	node.AddAction(a11y.ActionNextAtGranularity)
	node.Granularities = a11y.DefaultGranularities

	flags := b.Flags
	if flags.Has(a11y.FlagClickable) {
		node.AddAction(a11y.ActionClick)
	}
	node.Checkable = flags.Has(a11y.FlagCheckable)
	node.Checked = flags.Has(a11y.FlagChecked)
	node.Clickable = flags.Has(a11y.FlagClickable)
	node.Enabled = flags.Has(a11y.FlagEnabled)
	node.Focusable = flags.Has(a11y.FlagFocusable)
	node.LongClickable = flags.Has(a11y.FlagLongClickable)
	node.Password = flags.Has(a11y.FlagPassword)
	node.Scrollable = flags.Has(a11y.FlagScrollable)
	node.Selected = flags.Has(a11y.FlagSelected)
	node.VisibleToUser = flags.Has(a11y.FlagVisibleToUser)

	focus := s.Focus()
	if focus.Accessibility != a11y.NoFocus && focus.Accessibility == b.ID {
		node.AddAction(a11y.ActionClearAccessibilityFocus)
		node.AccessibilityFocused = true
	} else {
		node.AddAction(a11y.ActionAccessibilityFocus)
	}
	node.Focused = focus.Input != a11y.NoFocus && focus.Input == b.ID

	if b.Bounds != nil {
		screen := *b.Bounds
		node.BoundsInScreen = &screen
		var ox, oy int
		if host != nil {
			ox, oy = host.ClientOrigin()
		}
		parent := screen.Offset(ox, oy)
		node.BoundsInParent = &parent
	}

	if len(node.Children) == 0 {
		for _, child := range b.Children {
			if fromCache {
				// Only attach children whose freshest bundle still points here.
				cb, ok := s.Lookup(child)
				if !ok || cb.ParentID != b.ID {
					continue
				}
			}
			node.AddChild(child)
		}
	}

	s.applyCapabilities(&node, b, isRoot)
	return node
}

func (s *Session) applyCapabilities(node *a11y.Node, b a11y.Bundle, isRoot bool) {
	caps := s.caps
	flags := b.Flags

	if caps.ViewIDNames {
		node.ViewIDResourceName = b.ViewIDResourceName
	}
	if caps.EditableActions && flags.Has(a11y.FlagEditable) {
		node.AddAction(a11y.ActionSetSelection)
		node.AddAction(a11y.ActionCut)
		node.AddAction(a11y.ActionCopy)
		node.AddAction(a11y.ActionPaste)
		node.Editable = true
	}

	if caps.ExtendedState {
		node.MultiLine = flags.Has(a11y.FlagMultiLine)
		node.ContentInvalid = flags.Has(a11y.FlagContentInvalid)

		if b.Hint != "" {
			node.SetExtra(a11y.ExtraHint, b.Hint)
			if caps.HintText {
				node.Hint = b.Hint
			}
		}
		if b.EngineRole != "" {
			node.SetExtra(a11y.ExtraEngineRole, b.EngineRole)
		}
		if b.RoleDescription != "" {
			node.SetExtra(a11y.ExtraRoleDescription, b.RoleDescription)
		}
		if isRoot {
			node.SetExtra(a11y.ExtraHTMLElementValues, a11y.HTMLElementRules)
		}

		if b.Range != nil {
			r := *b.Range
			node.Range = &r
		}
		if b.CollectionItem != nil {
			item := *b.CollectionItem
			node.CollectionItem = &item
		}
		if b.Collection != nil {
			coll := *b.Collection
			if !caps.CollectionSelectionMode {
				coll.SelectionMode = 0
			}
			node.Collection = &coll
		}
		node.InputType = b.InputType
	}

	if caps.ContextClickable {
		node.ContextClickable = flags.Has(a11y.FlagContextClickable)
	}
}
