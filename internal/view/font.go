package view

import (
	"math"

	"github.com/Elisabitao/brackets/internal/editor"
	"github.com/Elisabitao/brackets/internal/style"
)

// Adjustment directions.
const (
	// Grow increases the font by one step.
	Grow = 1

	// Shrink decreases the font by one step.
	Shrink = -1
)

// SurfaceProvider returns the surface that currently has focus, or nil
// when no editor is focused.
type SurfaceProvider func() editor.Surface

// FontAdjuster applies one-step font-size changes to the shared style
// sheet and keeps the focused surface visually stable across them.
type FontAdjuster struct {
	sheet   *style.Sheet
	focused SurfaceProvider
}

// NewFontAdjuster creates an adjuster over the given sheet and focus
// provider.
func NewFontAdjuster(sheet *style.Sheet, focused SurfaceProvider) *FontAdjuster {
	return &FontAdjuster{sheet: sheet, focused: focused}
}

// Adjust grows or shrinks the font by one step. Unsupported style units,
// a missing focused surface, and adjustments that would cross the
// minimum size all degrade to silent no-ops. Each value steps in its own
// unit: 1 for px, 0.1 for em.
func (a *FontAdjuster) Adjust(direction int) {
	if direction != Grow && direction != Shrink {
		return
	}

	surface := a.focused()
	if surface == nil {
		return
	}

	fsRaw, lhRaw := a.sheet.Computed()
	fs, err := style.Parse(fsRaw)
	if err != nil {
		return
	}
	lh, err := style.Parse(lhRaw)
	if err != nil {
		return
	}

	newFs := fs.Add(fs.Unit.Step() * float64(direction))
	if direction == Shrink && newFs.Magnitude <= fs.Unit.MinSize() {
		return
	}
	newLh := lh.Add(lh.Unit.Step() * float64(direction))

	// Remove-then-install: Set replaces any prior override, so at most
	// one override ever exists.
	a.sheet.Set(newFs, newLh)

	surface.RefreshLayout()

	// Pixel sizes admit a scroll correction: rescale against the old
	// line height so the same logical line stays put, then nudge one
	// step in the direction of change. Relative units are left alone.
	if fs.Unit == style.UnitPixel && lh.Unit == style.UnitPixel && lh.Magnitude > 0 {
		info := surface.ScrollInfo()
		scrolled := math.Round(info.Y / lh.Magnitude)
		y := info.Y + float64(direction)*scrolled + float64(direction)*lh.Unit.Step()
		surface.SetScrollPos(info.X, y)
	}
}

// Restore removes the dynamic override and refreshes the focused
// surface. No-op when no override is installed.
func (a *FontAdjuster) Restore() {
	if !a.sheet.Clear() {
		return
	}
	if surface := a.focused(); surface != nil {
		surface.RefreshLayout()
	}
}
