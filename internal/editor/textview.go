package editor

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Elisabitao/brackets/internal/style"
)

// Errors returned by widget operations.
var (
	// ErrLineOutOfRange indicates the anchor line doesn't exist.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrWidgetNotFound indicates no widget carries the given handle.
	ErrWidgetNotFound = errors.New("inline widget not found")

	// ErrInvalidHeight indicates a widget height that is not positive.
	ErrInvalidHeight = errors.New("widget height must be positive")
)

const (
	defaultViewportWidth  = 800
	defaultViewportHeight = 600
	defaultTextHeight     = 21

	// rootFontPx resolves em font sizes with no enclosing context.
	rootFontPx = 16
)

// TextView is an in-memory text surface implementing Surface. It models
// the presentation state the view commands care about: pixel scroll
// offsets, per-line text height, cursor with sticky column, selection,
// and embedded inline widgets. Safe for concurrent use.
type TextView struct {
	mu sync.RWMutex

	path  string
	lines []string

	scrollX float64
	scrollY float64
	width   float64
	height  float64

	textHeight    float64
	padding       float64
	contentHeight float64

	cursor    Pos
	stickyCol int
	selAnchor *Pos

	widgets []InlineWidget

	styles StyleSource
}

// Option configures a TextView.
type Option func(*TextView)

// WithText sets the initial text content.
func WithText(text string) Option {
	return func(tv *TextView) {
		tv.lines = splitLines(text)
	}
}

// WithPath associates the view with a file path. Session state is keyed
// by this path.
func WithPath(path string) Option {
	return func(tv *TextView) {
		tv.path = path
	}
}

// WithViewportSize sets the visible area in pixels.
func WithViewportSize(width, height float64) Option {
	return func(tv *TextView) {
		if width > 0 {
			tv.width = width
		}
		if height > 0 {
			tv.height = height
		}
	}
}

// WithTextHeight pins the per-line text height in pixels. A style source
// overrides this on the next layout refresh.
func WithTextHeight(px float64) Option {
	return func(tv *TextView) {
		if px > 0 {
			tv.textHeight = px
		}
	}
}

// WithTopPadding sets the vertical padding above the text content.
func WithTopPadding(px float64) Option {
	return func(tv *TextView) {
		if px >= 0 {
			tv.padding = px
		}
	}
}

// WithStyles attaches the computed-style source the view lays itself out
// with. Layout refreshes re-derive the text height from it.
func WithStyles(src StyleSource) Option {
	return func(tv *TextView) {
		tv.styles = src
	}
}

// NewTextView creates a text view with the given options.
func NewTextView(opts ...Option) *TextView {
	tv := &TextView{
		lines:      []string{""},
		width:      defaultViewportWidth,
		height:     defaultViewportHeight,
		textHeight: defaultTextHeight,
	}
	for _, opt := range opts {
		opt(tv)
	}
	tv.refreshLocked()
	return tv
}

// Path returns the associated file path, if any.
func (tv *TextView) Path() string {
	tv.mu.RLock()
	defer tv.mu.RUnlock()
	return tv.path
}

// SetText replaces the entire text content. Widgets anchored beyond the
// new line count are dropped.
func (tv *TextView) SetText(text string) {
	tv.mu.Lock()
	defer tv.mu.Unlock()

	tv.lines = splitLines(text)

	kept := tv.widgets[:0]
	for _, w := range tv.widgets {
		if w.Line < len(tv.lines) {
			kept = append(kept, w)
		}
	}
	tv.widgets = kept

	tv.refreshLocked()
}

// Line returns the text of the given line, or the empty string when the
// index is out of range.
func (tv *TextView) Line(i int) string {
	tv.mu.RLock()
	defer tv.mu.RUnlock()

	if i < 0 || i >= len(tv.lines) {
		return ""
	}
	return tv.lines[i]
}

// LineCount returns the number of lines.
func (tv *TextView) LineCount() int {
	tv.mu.RLock()
	defer tv.mu.RUnlock()
	return len(tv.lines)
}

// Select activates a selection from anchor to head and places the cursor
// at head.
func (tv *TextView) Select(anchor, head Pos) {
	tv.mu.Lock()
	defer tv.mu.Unlock()

	a := tv.clampPosLocked(anchor)
	h := tv.clampPosLocked(head)
	tv.selAnchor = &a
	tv.cursor = h
	tv.stickyCol = h.Col
}

// ClearSelection collapses any active selection to the cursor.
func (tv *TextView) ClearSelection() {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	tv.selAnchor = nil
}

// AttachWidget embeds an inline widget below the given line and returns
// its handle.
func (tv *TextView) AttachWidget(line int, height float64) (string, error) {
	tv.mu.Lock()
	defer tv.mu.Unlock()

	if line < 0 || line >= len(tv.lines) {
		return "", ErrLineOutOfRange
	}
	if height <= 0 {
		return "", ErrInvalidHeight
	}

	w := InlineWidget{
		ID:     uuid.New().String(),
		Line:   line,
		Height: height,
	}
	tv.widgets = append(tv.widgets, w)
	tv.refreshLocked()
	return w.ID, nil
}

// DetachWidget removes the widget with the given handle.
func (tv *TextView) DetachWidget(id string) error {
	tv.mu.Lock()
	defer tv.mu.Unlock()

	for i, w := range tv.widgets {
		if w.ID == id {
			tv.widgets = append(tv.widgets[:i], tv.widgets[i+1:]...)
			tv.refreshLocked()
			return nil
		}
	}
	return ErrWidgetNotFound
}

// SetViewportSize resizes the visible area.
func (tv *TextView) SetViewportSize(width, height float64) {
	tv.mu.Lock()
	defer tv.mu.Unlock()

	if width > 0 {
		tv.width = width
	}
	if height > 0 {
		tv.height = height
	}
	tv.refreshLocked()
}

// ScrollInfo implements Surface.
func (tv *TextView) ScrollInfo() ScrollInfo {
	tv.mu.RLock()
	defer tv.mu.RUnlock()

	return ScrollInfo{
		X:             tv.scrollX,
		Y:             tv.scrollY,
		Width:         tv.width,
		Height:        tv.height,
		ContentHeight: tv.contentHeight,
	}
}

// SetScrollPos implements Surface. Offsets clamp to the scrollable
// content.
func (tv *TextView) SetScrollPos(x, y float64) {
	tv.mu.Lock()
	defer tv.mu.Unlock()

	if x < 0 {
		x = 0
	}
	tv.scrollX = x
	tv.scrollY = clampf(y, 0, tv.maxScrollLocked())
}

// TextHeight implements Surface.
func (tv *TextView) TextHeight() float64 {
	tv.mu.RLock()
	defer tv.mu.RUnlock()
	return tv.textHeight
}

// TopPadding implements Surface.
func (tv *TextView) TopPadding() float64 {
	tv.mu.RLock()
	defer tv.mu.RUnlock()
	return tv.padding
}

// CursorPos implements Surface.
func (tv *TextView) CursorPos() Pos {
	tv.mu.RLock()
	defer tv.mu.RUnlock()
	return tv.cursor
}

// SetCursorPos implements Surface. The position clamps to the text, the
// sticky column resets to the clamped column, and any selection
// collapses.
func (tv *TextView) SetCursorPos(pos Pos) {
	tv.mu.Lock()
	defer tv.mu.Unlock()

	tv.cursor = tv.clampPosLocked(pos)
	tv.stickyCol = tv.cursor.Col
	tv.selAnchor = nil
}

// HasSelection implements Surface.
func (tv *TextView) HasSelection() bool {
	tv.mu.RLock()
	defer tv.mu.RUnlock()
	return tv.selAnchor != nil && *tv.selAnchor != tv.cursor
}

// InlineWidgets implements Surface.
func (tv *TextView) InlineWidgets() []InlineWidget {
	tv.mu.RLock()
	defer tv.mu.RUnlock()

	out := make([]InlineWidget, len(tv.widgets))
	copy(out, tv.widgets)
	return out
}

// RefreshLayout implements Surface.
func (tv *TextView) RefreshLayout() {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	tv.refreshLocked()
}

// MoveCursorVertically implements Surface. The cursor moves dir lines,
// landing on the sticky column where the target line is long enough.
func (tv *TextView) MoveCursorVertically(dir int) {
	tv.mu.Lock()
	defer tv.mu.Unlock()

	line := clampi(tv.cursor.Line+dir, 0, len(tv.lines)-1)
	col := tv.stickyCol
	if limit := lineLen(tv.lines[line]); col > limit {
		col = limit
	}
	tv.cursor = Pos{Line: line, Col: col}
	tv.selAnchor = nil
}

// refreshLocked recomputes layout-derived state: the text height from
// the style source, the content height, and clamped scroll and cursor.
func (tv *TextView) refreshLocked() {
	if tv.styles != nil {
		if h, ok := resolveTextHeight(tv.styles); ok {
			tv.textHeight = h
		}
	}

	content := 2*tv.padding + float64(len(tv.lines))*tv.textHeight
	for _, w := range tv.widgets {
		content += w.Height
	}
	tv.contentHeight = content

	tv.scrollY = clampf(tv.scrollY, 0, tv.maxScrollLocked())
	tv.cursor = tv.clampPosLocked(tv.cursor)
}

func (tv *TextView) maxScrollLocked() float64 {
	limit := tv.contentHeight - tv.height
	if limit < 0 {
		return 0
	}
	return limit
}

func (tv *TextView) clampPosLocked(pos Pos) Pos {
	line := clampi(pos.Line, 0, len(tv.lines)-1)
	col := clampi(pos.Col, 0, lineLen(tv.lines[line]))
	return Pos{Line: line, Col: col}
}

// resolveTextHeight derives the pixel text height from computed style
// strings. Unsupported units leave the current height in place.
func resolveTextHeight(src StyleSource) (float64, bool) {
	fsRaw, lhRaw := src.Computed()

	fs, err := style.Parse(fsRaw)
	if err != nil {
		return 0, false
	}
	lh, err := style.Parse(lhRaw)
	if err != nil {
		return 0, false
	}

	px := lh.Pixels(fs.Pixels(rootFontPx))
	if px <= 0 {
		return 0, false
	}
	return px, true
}

func splitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func lineLen(s string) int {
	return utf8.RuneCountInString(s)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
