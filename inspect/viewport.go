package inspect

// Viewport tracks the visible window of the outline and the selected row.
type Viewport struct {
	offset   int
	selected int
	rows     int
	height   int
}

// SetRows updates the row count and clamps the selection.
func (v *Viewport) SetRows(rows int) {
	if v == nil {
		return
	}
	v.rows = max(rows, 0)
	v.Select(v.selected)
}

// SetHeight updates the visible height and clamps the offset.
func (v *Viewport) SetHeight(height int) {
	if v == nil {
		return
	}
	v.height = max(height, 0)
	v.Select(v.selected)
}

// Selected returns the selected row index, or -1 when empty.
func (v *Viewport) Selected() int {
	if v == nil || v.rows == 0 {
		return -1
	}
	return v.selected
}

// Offset returns the first visible row.
func (v *Viewport) Offset() int {
	if v == nil {
		return 0
	}
	return v.offset
}

// Select moves the selection to index and scrolls it into view.
func (v *Viewport) Select(index int) {
	if v == nil {
		return
	}
	v.selected = clamp(index, 0, v.rows-1)
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.height > 0 && v.selected >= v.offset+v.height {
		v.offset = v.selected - v.height + 1
	}
	v.offset = clamp(v.offset, 0, v.rows-v.height)
}

// MoveBy moves the selection by delta rows.
func (v *Viewport) MoveBy(delta int) {
	if v == nil {
		return
	}
	v.Select(v.selected + delta)
}

// PageBy moves the selection by whole pages.
func (v *Viewport) PageBy(pages int) {
	if v == nil {
		return
	}
	v.MoveBy(pages * max(v.height, 1))
}

// Visible returns the half-open range of rows on screen.
func (v *Viewport) Visible() (start, end int) {
	if v == nil {
		return 0, 0
	}
	return v.offset, min(v.offset+v.height, v.rows)
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(n, lo), hi)
}
