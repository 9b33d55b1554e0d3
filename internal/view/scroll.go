package view

import "github.com/Elisabitao/brackets/internal/editor"

// LineScroller shifts the viewport by whole lines, repositioning the
// caret when it would otherwise leave the visible region.
type LineScroller struct {
	focused SurfaceProvider
}

// NewLineScroller creates a scroller over the given focus provider.
func NewLineScroller(focused SurfaceProvider) *LineScroller {
	return &LineScroller{focused: focused}
}

// ScrollLine moves the viewport one line down (direction > 0) or up
// (direction < 0). Inline widgets embedded in the text consume viewport
// space and are accounted for when deciding which lines count as
// visible.
func (s *LineScroller) ScrollLine(direction int) {
	surface := s.focused()
	if surface == nil {
		return
	}

	info := surface.ScrollInfo()
	textHeight := surface.TextHeight()
	padding := surface.TopPadding()
	cursor := surface.CursorPos()
	hasSelection := surface.HasSelection()

	scrollTop := info.Y

	// Scrolled above the content start and moving down: compute the
	// range as if the first line were flush with the padding, else the
	// correction below overshoots.
	effectiveTop := scrollTop
	if scrollTop <= padding && direction > 0 {
		effectiveTop = padding
	}

	viewportHeight := info.Height
	visible := VisibleLines(textHeight, effectiveTop, viewportHeight)

	// Each inline widget either sits above the viewport (its height has
	// already been scrolled past) or inside it (its height crowds lines
	// out the bottom). A widget straddling both takes the first branch
	// that matches.
	for _, w := range surface.InlineWidgets() {
		if w.Line < visible.First {
			effectiveTop -= w.Height
			visible = VisibleLines(textHeight, effectiveTop, viewportHeight)
		} else if float64(w.Line)+w.Height/textHeight < float64(visible.Last) {
			viewportHeight -= w.Height
			visible = VisibleLines(textHeight, effectiveTop, viewportHeight)
		}
	}

	if !hasSelection {
		switch {
		case direction > 0 && cursor.Line < visible.First:
			surface.SetCursorPos(editor.Pos{Line: visible.First + 1, Col: cursor.Col})
		case direction < 0 && cursor.Line > visible.Last:
			surface.SetCursorPos(editor.Pos{Line: visible.Last - 1, Col: cursor.Col})
		case (direction > 0 && cursor.Line == visible.First) ||
			(direction < 0 && cursor.Line == visible.Last):
			// At the boundary line being scrolled past: native motion
			// keeps the sticky column.
			surface.MoveCursorVertically(direction)
		}
	}

	surface.SetScrollPos(info.X, scrollTop+textHeight*float64(direction))
}
