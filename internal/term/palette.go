package term

import (
	"github.com/Elisabitao/brackets/internal/command"
	"github.com/Elisabitao/brackets/internal/input/key"
)

// PaletteAction tells the event loop what to do after a palette
// keystroke.
type PaletteAction int

const (
	// PaletteNone means the palette consumed the key and stays open.
	PaletteNone PaletteAction = iota

	// PaletteClosed means the palette dismissed itself.
	PaletteClosed

	// PaletteExecute means the user picked a command.
	PaletteExecute
)

// CommandSource supplies the palette's searchable commands.
type CommandSource interface {
	Filter(query string) []*command.Command
}

// Palette is the command palette overlay: the query the user is typing
// and the commands matching it. It is event-loop state and is not
// locked.
type Palette struct {
	source CommandSource

	open    bool
	query   []rune
	results []*command.Command
	sel     int
}

// NewPalette creates a closed palette over the given source.
func NewPalette(source CommandSource) *Palette {
	return &Palette{source: source}
}

// Open clears the query and shows every command.
func (p *Palette) Open() {
	p.open = true
	p.query = p.query[:0]
	p.refresh()
}

// Close dismisses the overlay.
func (p *Palette) Close() {
	p.open = false
	p.results = nil
}

// IsOpen reports whether the overlay is showing.
func (p *Palette) IsOpen() bool { return p.open }

// Query returns the current filter text.
func (p *Palette) Query() string { return string(p.query) }

// Results returns the commands matching the query.
func (p *Palette) Results() []*command.Command { return p.results }

// Selected returns the index of the highlighted result.
func (p *Palette) Selected() int { return p.sel }

// HandleKey processes one keystroke while the palette is open. When the
// action is PaletteExecute the returned ID names the chosen command.
func (p *Palette) HandleKey(ev key.Event) (PaletteAction, string) {
	switch {
	case ev.Key == key.KeyEscape:
		p.Close()
		return PaletteClosed, ""

	case ev.Key == key.KeyEnter:
		if len(p.results) == 0 {
			p.Close()
			return PaletteClosed, ""
		}
		id := p.results[p.sel].ID
		p.Close()
		return PaletteExecute, id

	case ev.Key == key.KeyUp:
		if p.sel > 0 {
			p.sel--
		}

	case ev.Key == key.KeyDown:
		if p.sel < len(p.results)-1 {
			p.sel++
		}

	case ev.Key == key.KeyBackspace:
		if len(p.query) > 0 {
			p.query = p.query[:len(p.query)-1]
			p.refresh()
		}

	case ev.Key == key.KeyRune && !ev.Modifiers.Has(key.ModCtrl) && !ev.Modifiers.Has(key.ModAlt):
		p.query = append(p.query, ev.Rune)
		p.refresh()
	}

	return PaletteNone, ""
}

// refresh re-filters and moves the highlight back to the top.
func (p *Palette) refresh() {
	p.results = p.source.Filter(string(p.query))
	p.sel = 0
}
