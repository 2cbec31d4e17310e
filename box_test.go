package vscroll

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestBoxInnerRect(t *testing.T) {
	b := NewBox()
	b.SetRect(2, 3, 20, 10)
	if x, y, w, h := b.GetInnerRect(); x != 2 || y != 3 || w != 20 || h != 10 {
		t.Fatalf("bare inner rect = %d,%d %dx%d", x, y, w, h)
	}

	b.SetBorders(BordersAll)
	if x, y, w, h := b.GetInnerRect(); x != 3 || y != 4 || w != 18 || h != 8 {
		t.Fatalf("framed inner rect = %d,%d %dx%d", x, y, w, h)
	}

	// Captions take their edge even without a frame.
	b.SetBorders(BordersNone).SetTitle("list").SetFooter("1/9")
	if x, y, w, h := b.GetInnerRect(); x != 2 || y != 4 || w != 20 || h != 8 {
		t.Fatalf("captioned inner rect = %d,%d %dx%d", x, y, w, h)
	}

	b.SetRect(0, 0, 1, 1)
	if _, _, w, h := b.GetInnerRect(); w != 0 || h != 0 {
		t.Fatalf("inner size of a tiny box = %dx%d, want 0x0", w, h)
	}
}

func TestBoxDrawsFrameAndCaptions(t *testing.T) {
	screen := newSimScreen(t, 10, 4)
	set, _ := BorderSetByName("round")
	b := NewBox().SetBorders(BordersAll).SetBorderSet(set).SetTitle("abcdefghijklmnop")
	b.SetRect(0, 0, 10, 4)
	b.Draw(screen)

	corners := map[[2]int]string{
		{0, 0}: set.TopLeft,
		{9, 0}: set.TopRight,
		{0, 3}: set.BottomLeft,
		{9, 3}: set.BottomRight,
	}
	for at, glyph := range corners {
		if got := cellRune(screen, at[0], at[1]); got != []rune(glyph)[0] {
			t.Fatalf("corner %v = %q, want %q", at, got, glyph)
		}
	}
	if got := cellRune(screen, 0, 1); got != []rune(set.Left)[0] {
		t.Fatalf("left edge = %q, want %q", got, set.Left)
	}
	if got := cellRune(screen, 8, 0); got != '…' {
		t.Fatalf("cut title should end with an ellipsis, got %q", got)
	}
}

type dirtyChild struct {
	*Box
}

func TestBoxDirtyParent(t *testing.T) {
	parent := NewBox()
	child := &dirtyChild{Box: NewBox()}
	BindDirtyParent(child, parent)
	parent.MarkClean()
	child.MarkClean()

	child.SetFooter("2/9")
	if !parent.IsDirty() {
		t.Fatal("a dirty child should dirty its parent")
	}

	parent.MarkClean()
	child.MarkClean()
	child.SetFooter("2/9")
	if child.IsDirty() || parent.IsDirty() {
		t.Fatal("setting an unchanged value should not dirty anything")
	}

	UnbindDirtyParent(child, parent)
	child.SetFooter("3/9")
	if parent.IsDirty() {
		t.Fatal("an unbound child still dirtied its parent")
	}
}

func TestBoxFocus(t *testing.T) {
	b := NewBox()
	b.MarkClean()
	b.Focus(nil)
	if !b.HasFocus() || !b.IsDirty() {
		t.Fatal("Focus should set focus and request a redraw")
	}
	b.Blur()
	if b.HasFocus() {
		t.Fatal("Blur should drop focus")
	}

	_, cmd := b.MouseHandler(MouseLeftDown, tcell.NewEventMouse(0, 0, tcell.ButtonPrimary, tcell.ModNone))
	if focus, ok := cmd.(SetFocusCommand); !ok || focus.Target != b {
		t.Fatalf("click inside the box returned %#v", cmd)
	}
}
