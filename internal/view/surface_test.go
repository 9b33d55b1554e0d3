package view

import "github.com/Elisabitao/brackets/internal/editor"

// fakeSurface records every mutation the view logic performs so tests
// can assert exact call sequences.
type fakeSurface struct {
	info       editor.ScrollInfo
	textHeight float64
	padding    float64
	cursor     editor.Pos
	selection  bool
	widgets    []editor.InlineWidget

	refreshes     int
	scrollSets    []editor.ScrollInfo
	cursorSets    []editor.Pos
	verticalMoves []int
}

func (f *fakeSurface) ScrollInfo() editor.ScrollInfo { return f.info }

func (f *fakeSurface) SetScrollPos(x, y float64) {
	f.info.X = x
	f.info.Y = y
	f.scrollSets = append(f.scrollSets, editor.ScrollInfo{X: x, Y: y})
}

func (f *fakeSurface) TextHeight() float64 { return f.textHeight }

func (f *fakeSurface) TopPadding() float64 { return f.padding }

func (f *fakeSurface) CursorPos() editor.Pos { return f.cursor }

func (f *fakeSurface) SetCursorPos(pos editor.Pos) {
	f.cursor = pos
	f.cursorSets = append(f.cursorSets, pos)
}

func (f *fakeSurface) HasSelection() bool { return f.selection }

func (f *fakeSurface) InlineWidgets() []editor.InlineWidget { return f.widgets }

func (f *fakeSurface) RefreshLayout() { f.refreshes++ }

func (f *fakeSurface) MoveCursorVertically(dir int) {
	f.cursor.Line += dir
	f.verticalMoves = append(f.verticalMoves, dir)
}

func (f *fakeSurface) lastScroll() (editor.ScrollInfo, bool) {
	if len(f.scrollSets) == 0 {
		return editor.ScrollInfo{}, false
	}
	return f.scrollSets[len(f.scrollSets)-1], true
}

func provide(f *fakeSurface) SurfaceProvider {
	return func() editor.Surface { return f }
}

func scrollAt(x, y float64) editor.ScrollInfo {
	return editor.ScrollInfo{X: x, Y: y, Width: 800, Height: 600, ContentHeight: 100000}
}

