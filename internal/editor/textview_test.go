package editor

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Elisabitao/brackets/internal/style"
)

func sampleText(lines int) string {
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&sb, "line %d", i)
		if i < lines-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func TestNewTextViewDefaults(t *testing.T) {
	tv := NewTextView()

	if got := tv.LineCount(); got != 1 {
		t.Errorf("LineCount() = %d, want 1", got)
	}
	if got := tv.TextHeight(); got != defaultTextHeight {
		t.Errorf("TextHeight() = %v, want %v", got, defaultTextHeight)
	}
	if got := tv.CursorPos(); got != (Pos{}) {
		t.Errorf("CursorPos() = %+v, want origin", got)
	}
}

func TestSetTextAndLines(t *testing.T) {
	tv := NewTextView(WithText("alpha\nbeta\ngamma"))

	if got := tv.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}
	if got := tv.Line(1); got != "beta" {
		t.Errorf("Line(1) = %q, want %q", got, "beta")
	}
	if got := tv.Line(99); got != "" {
		t.Errorf("Line(99) = %q, want empty", got)
	}
}

func TestScrollClamping(t *testing.T) {
	tv := NewTextView(
		WithText(sampleText(100)),
		WithTextHeight(20),
		WithViewportSize(800, 600),
	)

	// content = 100*20 = 2000, max scroll = 1400
	tv.SetScrollPos(0, 5000)
	if got := tv.ScrollInfo().Y; got != 1400 {
		t.Errorf("scroll Y after overshoot = %v, want 1400", got)
	}

	tv.SetScrollPos(-10, -10)
	info := tv.ScrollInfo()
	if info.X != 0 || info.Y != 0 {
		t.Errorf("scroll after negative set = (%v, %v), want (0, 0)", info.X, info.Y)
	}

	if info.ContentHeight != 2000 {
		t.Errorf("ContentHeight = %v, want 2000", info.ContentHeight)
	}
}

func TestSetCursorPosClamps(t *testing.T) {
	tv := NewTextView(WithText("short\na much longer line"))

	tv.SetCursorPos(Pos{Line: 50, Col: 50})
	got := tv.CursorPos()
	if got.Line != 1 {
		t.Errorf("cursor line = %d, want 1", got.Line)
	}
	if got.Col != lineLen("a much longer line") {
		t.Errorf("cursor col = %d, want line length", got.Col)
	}
}

func TestMoveCursorVerticallyStickyColumn(t *testing.T) {
	tv := NewTextView(WithText("a long first line\nhi\nanother long line"))

	tv.SetCursorPos(Pos{Line: 0, Col: 10})

	tv.MoveCursorVertically(1)
	if got := tv.CursorPos(); got != (Pos{Line: 1, Col: 2}) {
		t.Errorf("cursor after move down = %+v, want {1 2}", got)
	}

	tv.MoveCursorVertically(1)
	if got := tv.CursorPos(); got != (Pos{Line: 2, Col: 10}) {
		t.Errorf("cursor after second move down = %+v, want sticky col {2 10}", got)
	}

	// Past the last line stays on it.
	tv.MoveCursorVertically(5)
	if got := tv.CursorPos().Line; got != 2 {
		t.Errorf("cursor line after overshoot = %d, want 2", got)
	}
}

func TestSelection(t *testing.T) {
	tv := NewTextView(WithText("alpha\nbeta\ngamma"))

	if tv.HasSelection() {
		t.Error("HasSelection() = true on fresh view")
	}

	tv.Select(Pos{Line: 0, Col: 0}, Pos{Line: 1, Col: 2})
	if !tv.HasSelection() {
		t.Error("HasSelection() = false after Select")
	}
	if got := tv.CursorPos(); got != (Pos{Line: 1, Col: 2}) {
		t.Errorf("cursor after Select = %+v, want head {1 2}", got)
	}

	tv.ClearSelection()
	if tv.HasSelection() {
		t.Error("HasSelection() = true after ClearSelection")
	}

	tv.Select(Pos{Line: 0, Col: 1}, Pos{Line: 2, Col: 0})
	tv.SetCursorPos(Pos{Line: 0, Col: 0})
	if tv.HasSelection() {
		t.Error("SetCursorPos did not collapse the selection")
	}
}

func TestCollapsedSelectIsNoSelection(t *testing.T) {
	tv := NewTextView(WithText("alpha\nbeta"))

	tv.Select(Pos{Line: 1, Col: 1}, Pos{Line: 1, Col: 1})
	if tv.HasSelection() {
		t.Error("HasSelection() = true for collapsed selection")
	}
}

func TestAttachDetachWidget(t *testing.T) {
	tv := NewTextView(
		WithText(sampleText(50)),
		WithTextHeight(20),
		WithViewportSize(800, 400),
	)
	base := tv.ScrollInfo().ContentHeight

	id, err := tv.AttachWidget(10, 120)
	if err != nil {
		t.Fatalf("AttachWidget() error = %v", err)
	}
	if id == "" {
		t.Fatal("AttachWidget() returned empty handle")
	}

	id2, err := tv.AttachWidget(20, 60)
	if err != nil {
		t.Fatalf("second AttachWidget() error = %v", err)
	}
	if id2 == id {
		t.Error("widget handles are not unique")
	}

	if got := tv.ScrollInfo().ContentHeight; got != base+180 {
		t.Errorf("ContentHeight with widgets = %v, want %v", got, base+180)
	}
	if got := len(tv.InlineWidgets()); got != 2 {
		t.Errorf("InlineWidgets() count = %d, want 2", got)
	}

	if err := tv.DetachWidget(id); err != nil {
		t.Fatalf("DetachWidget() error = %v", err)
	}
	if got := tv.ScrollInfo().ContentHeight; got != base+60 {
		t.Errorf("ContentHeight after detach = %v, want %v", got, base+60)
	}

	if err := tv.DetachWidget("nope"); !errors.Is(err, ErrWidgetNotFound) {
		t.Errorf("DetachWidget(unknown) error = %v, want ErrWidgetNotFound", err)
	}
}

func TestAttachWidgetValidation(t *testing.T) {
	tv := NewTextView(WithText("only\ntwo"))

	if _, err := tv.AttachWidget(7, 50); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("AttachWidget(bad line) error = %v, want ErrLineOutOfRange", err)
	}
	if _, err := tv.AttachWidget(0, 0); !errors.Is(err, ErrInvalidHeight) {
		t.Errorf("AttachWidget(zero height) error = %v, want ErrInvalidHeight", err)
	}
}

func TestSetTextDropsDanglingWidgets(t *testing.T) {
	tv := NewTextView(WithText(sampleText(30)))
	if _, err := tv.AttachWidget(25, 40); err != nil {
		t.Fatalf("AttachWidget() error = %v", err)
	}

	tv.SetText("just\nfour\nlines\nnow")
	if got := len(tv.InlineWidgets()); got != 0 {
		t.Errorf("widgets after shrink = %d, want 0", got)
	}
}

func TestRefreshLayoutDerivesTextHeight(t *testing.T) {
	sheet := style.NewSheet("14px", "21px")
	tv := NewTextView(
		WithText(sampleText(10)),
		WithStyles(sheet),
	)

	if got := tv.TextHeight(); got != 21 {
		t.Errorf("TextHeight() = %v, want 21 from styles", got)
	}

	sheet.Set(style.MustParse("16px"), style.MustParse("24px"))
	tv.RefreshLayout()
	if got := tv.TextHeight(); got != 24 {
		t.Errorf("TextHeight() after override = %v, want 24", got)
	}
}

func TestRefreshLayoutIgnoresUnsupportedUnits(t *testing.T) {
	sheet := style.NewSheet("14px", "21px")
	tv := NewTextView(WithText(sampleText(10)), WithStyles(sheet))

	sheet.SetBaseline("50%", "120%")
	tv.RefreshLayout()
	if got := tv.TextHeight(); got != 21 {
		t.Errorf("TextHeight() with percent units = %v, want prior 21", got)
	}
}

func TestRefreshLayoutResolvesEmAgainstFontSize(t *testing.T) {
	sheet := style.NewSheet("1em", "1.5em")
	tv := NewTextView(WithText(sampleText(10)), WithStyles(sheet))

	// 1em font = 16px root, line height 1.5em of that = 24px.
	if got := tv.TextHeight(); got != 24 {
		t.Errorf("TextHeight() = %v, want 24", got)
	}
}

func TestRefreshLayoutReclampsScroll(t *testing.T) {
	tv := NewTextView(
		WithText(sampleText(100)),
		WithTextHeight(20),
		WithViewportSize(800, 600),
	)
	tv.SetScrollPos(0, 1400)

	tv.SetText(sampleText(40)) // content shrinks to 800, max scroll 200
	if got := tv.ScrollInfo().Y; got != 200 {
		t.Errorf("scroll Y after shrink = %v, want 200", got)
	}
}
