// Package editor defines the narrow capability interface the view
// commands require from a text-editing surface, plus a reference
// implementation used by the shell and the tests.
package editor

// Pos is a zero-based cursor position.
type Pos struct {
	// Line is the line index.
	Line int

	// Col is the column index in runes.
	Col int
}

// ScrollInfo is a snapshot of the surface's scroll state in pixels.
type ScrollInfo struct {
	// X is the horizontal scroll offset.
	X float64

	// Y is the vertical scroll offset.
	Y float64

	// Width is the viewport width.
	Width float64

	// Height is the viewport height.
	Height float64

	// ContentHeight is the total scrollable height of the content.
	ContentHeight float64
}

// InlineWidget describes an externally owned sub-component embedded in
// the text flow. It occupies vertical space below its anchor line.
type InlineWidget struct {
	// ID is the opaque handle returned when the widget was attached.
	ID string

	// Line is the zero-based anchor line.
	Line int

	// Height is the occupied vertical space in pixels.
	Height float64
}

// Surface is the capability interface consumed by the view commands. The
// scroll and font logic never sees a concrete widget type; any editor
// component that can answer these questions can be driven.
type Surface interface {
	// ScrollInfo returns the current scroll state.
	ScrollInfo() ScrollInfo

	// SetScrollPos sets the scroll offsets in pixels.
	SetScrollPos(x, y float64)

	// TextHeight returns the per-line text height in pixels.
	TextHeight() float64

	// TopPadding returns the vertical offset of the text content's top
	// padding in pixels.
	TopPadding() float64

	// CursorPos returns the primary cursor position.
	CursorPos() Pos

	// SetCursorPos moves the primary cursor, clamping to the text.
	SetCursorPos(pos Pos)

	// HasSelection reports whether a selection is active.
	HasSelection() bool

	// InlineWidgets enumerates the embedded inline widgets.
	InlineWidgets() []InlineWidget

	// RefreshLayout forces a full layout recomputation after font
	// metrics change.
	RefreshLayout()

	// MoveCursorVertically moves the cursor dir lines using the
	// surface's native line motion, preserving the sticky column.
	MoveCursorVertically(dir int)
}

// StyleSource provides the computed style a surface lays itself out
// with. *style.Sheet satisfies it.
type StyleSource interface {
	Computed() (fontSize, lineHeight string)
}
