// Package view implements the view commands: font-size adjustment with
// scroll compensation, and line scrolling that keeps the caret inside
// the visible region. The logic drives any editor.Surface; it never
// touches a concrete widget type.
package view

import "math"

// Range is a pair of zero-based line indices bounding the fully visible
// lines of a viewport.
type Range struct {
	// First is the first fully visible line. It is -1 when the topmost
	// line is fully visible at scroll offset zero.
	First int

	// Last is the last fully visible line.
	Last int
}

// VisibleLines computes which text lines are fully visible given the
// per-line text height, the vertical scroll offset, and the viewport
// height, all in pixels. Partially visible lines at either edge are
// excluded. Pure function.
func VisibleLines(textHeight, scrollTop, viewportHeight float64) Range {
	first := int(math.Ceil(scrollTop/textHeight)) - 1
	last := int(math.Floor((scrollTop+viewportHeight)/textHeight)) - 2
	return Range{First: first, Last: last}
}
