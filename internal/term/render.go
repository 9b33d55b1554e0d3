package term

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/Elisabitao/brackets/internal/editor"
)

// paletteMaxRows caps the number of result rows the overlay shows.
const paletteMaxRows = 10

// Theme is the set of tcell styles the renderer draws with.
type Theme struct {
	Name       string
	Text       tcell.Style
	Gutter     tcell.Style
	Widget     tcell.Style
	Status     tcell.Style
	Overlay    tcell.Style
	OverlaySel tcell.Style
}

// DarkTheme returns the default theme.
func DarkTheme() Theme {
	bg := tcell.ColorBlack
	return Theme{
		Name:       "dark",
		Text:       tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(bg),
		Gutter:     tcell.StyleDefault.Foreground(tcell.ColorGray).Background(bg),
		Widget:     tcell.StyleDefault.Foreground(tcell.ColorGray).Background(bg).Dim(true),
		Status:     tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
		Overlay:    tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
		OverlaySel: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua),
	}
}

// LightTheme returns the light theme.
func LightTheme() Theme {
	bg := tcell.ColorWhite
	return Theme{
		Name:       "light",
		Text:       tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(bg),
		Gutter:     tcell.StyleDefault.Foreground(tcell.ColorGray).Background(bg),
		Widget:     tcell.StyleDefault.Foreground(tcell.ColorGray).Background(bg).Dim(true),
		Status:     tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray),
		Overlay:    tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightSteelBlue),
		OverlaySel: tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	}
}

// ThemeByName resolves a configured theme name, defaulting to dark.
func ThemeByName(name string) Theme {
	if strings.EqualFold(name, "light") {
		return LightTheme()
	}
	return DarkTheme()
}

// StatusInfo is what the status line shows.
type StatusInfo struct {
	// File is the display name of the focused file.
	File string

	// FontSize and LineHeight are the computed style strings.
	FontSize   string
	LineHeight string

	// Override marks the font size as dynamically adjusted.
	Override bool

	// Cursor is the caret position, zero based.
	Cursor editor.Pos

	// Message is a transient notice shown after the file name.
	Message string
}

// Renderer draws editor frames onto a screen. It is event-loop state
// and is not locked.
type Renderer struct {
	screen      Screen
	theme       Theme
	lineNumbers bool
}

// NewRenderer creates a renderer drawing with the given theme.
func NewRenderer(screen Screen, theme Theme, lineNumbers bool) *Renderer {
	return &Renderer{screen: screen, theme: theme, lineNumbers: lineNumbers}
}

// SetTheme swaps the theme. Configuration reload uses this.
func (r *Renderer) SetTheme(theme Theme) {
	r.theme = theme
}

// SetLineNumbers toggles the gutter.
func (r *Renderer) SetLineNumbers(on bool) {
	r.lineNumbers = on
}

// Render draws one frame: the text with gutter and widget placeholders,
// the status line, and the palette overlay when open.
func (r *Renderer) Render(view *editor.TextView, status StatusInfo, pal *Palette) {
	width, height := r.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	r.screen.Clear()
	r.screen.HideCursor()

	r.drawText(view, width, height-1)
	r.drawStatus(status, width, height-1)
	if pal != nil && pal.IsOpen() {
		r.drawPalette(pal, width, height)
	}

	r.screen.Show()
}

// drawText renders the visible slice of the view. The top rendered line
// is the first one any part of which is scrolled into the viewport;
// inline widgets occupy placeholder rows below their anchor line.
func (r *Renderer) drawText(view *editor.TextView, width, rows int) {
	if view == nil || rows <= 0 {
		return
	}

	textHeight := view.TextHeight()
	if textHeight <= 0 {
		return
	}
	topLine := int(view.ScrollInfo().Y / textHeight)

	gutterWidth := 0
	if r.lineNumbers {
		gutterWidth = digits(view.LineCount()) + 1
	}

	widgetRows := make(map[int]int)
	for _, w := range view.InlineWidgets() {
		widgetRows[w.Line] += int(math.Ceil(w.Height / textHeight))
	}

	cursor := view.CursorPos()
	line := topLine
	for y := 0; y < rows && line < view.LineCount(); line++ {
		if r.lineNumbers {
			num := strconv.Itoa(line + 1)
			putString(r.screen, gutterWidth-1-len(num), y, num, r.theme.Gutter, width)
		}

		putString(r.screen, gutterWidth, y, view.Line(line), r.theme.Text, width)

		if line == cursor.Line {
			if cx := gutterWidth + cursor.Col; cx < width {
				r.screen.ShowCursor(cx, y)
			}
		}
		y++

		for i := 0; i < widgetRows[line] && y < rows; i++ {
			for x := gutterWidth; x < width; x++ {
				r.screen.SetCell(x, y, '╌', r.theme.Widget)
			}
			y++
		}
	}
}

// drawStatus renders the bottom status line: file name and message on
// the left, font size and caret position on the right. A trailing "*"
// on the font size marks an active override.
func (r *Renderer) drawStatus(status StatusInfo, width, y int) {
	file := status.File
	if file == "" {
		file = "[untitled]"
	}

	left := " " + file
	if status.Message != "" {
		left += "  " + status.Message
	}

	font := status.FontSize
	if status.LineHeight != "" {
		font += "/" + status.LineHeight
	}
	if status.Override {
		font += "*"
	}
	right := fmt.Sprintf("%s  Ln %d, Col %d ", font, status.Cursor.Line+1, status.Cursor.Col+1)

	for x := 0; x < width; x++ {
		r.screen.SetCell(x, y, ' ', r.theme.Status)
	}
	putString(r.screen, 0, y, left, r.theme.Status, width)
	if x := width - utf8.RuneCountInString(right); x > utf8.RuneCountInString(left) {
		putString(r.screen, x, y, right, r.theme.Status, width)
	}
}

// drawPalette renders the overlay across the top of the screen: the
// query row, then the matching commands with the selected one
// highlighted and default chords right-aligned.
func (r *Renderer) drawPalette(pal *Palette, width, height int) {
	results := pal.Results()
	rows := len(results)
	if rows > paletteMaxRows {
		rows = paletteMaxRows
	}
	if rows > height-1 {
		rows = height - 1
	}

	for x := 0; x < width; x++ {
		r.screen.SetCell(x, 0, ' ', r.theme.Overlay)
	}
	end := putString(r.screen, 0, 0, "> "+pal.Query(), r.theme.Overlay, width)
	r.screen.ShowCursor(end, 0)

	// Keep the highlight on screen when it walks past the window.
	start := 0
	if sel := pal.Selected(); sel >= rows {
		start = sel - rows + 1
	}

	for i := 0; i < rows; i++ {
		idx := start + i
		y := i + 1
		style := r.theme.Overlay
		if idx == pal.Selected() {
			style = r.theme.OverlaySel
		}

		for x := 0; x < width; x++ {
			r.screen.SetCell(x, y, ' ', style)
		}

		cmd := results[idx]
		putString(r.screen, 2, y, cmd.Title, style, width)
		if cmd.Keybinding != "" {
			kb := cmd.Keybinding + " "
			if x := width - utf8.RuneCountInString(kb); x > 2+utf8.RuneCountInString(cmd.Title)+1 {
				putString(r.screen, x, y, kb, style, width)
			}
		}
	}
}

// putString writes text starting at x, clipped at maxX, and returns the
// column after the last rune written.
func putString(s Screen, x, y int, text string, style tcell.Style, maxX int) int {
	for _, ch := range text {
		if x >= maxX {
			break
		}
		s.SetCell(x, y, ch, style)
		x++
	}
	return x
}

func digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
