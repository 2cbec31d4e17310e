package help

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/vscroll/keybind"
)

func TestFullHelpLinesAlignsColumns(t *testing.T) {
	h := New()
	groups := keybind.DefaultNavigationKeyMap().FullHelp()

	got := h.FullHelpLines(groups, 100)
	want := []string{
		"↓/j down    pgdn/ctrl+f page down    home/g first",
		"↑/k up      pgup/ctrl+b page up      end/G  last",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFullHelpLinesTruncatesColumns(t *testing.T) {
	h := New()
	got := h.FullHelpLines(keybind.DefaultNavigationKeyMap().FullHelp(), 30)
	if len(got) != 2 || got[0] != "↓/j down …" || got[1] != "↑/k up" {
		t.Fatalf("truncated lines = %q", got)
	}
}

func TestShortHelpDraw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(40, 1)

	keyMap := keybind.DefaultNavigationKeyMap()
	h := New().SetKeyMap(keyMap)
	h.SetRect(0, 0, 40, 1)
	h.Draw(screen)
	if got := screenLine(screen, 40); got != "↓/j down • ↑/k up" {
		t.Fatalf("short help = %q", got)
	}

	keyMap.Up.SetEnabled(false)
	h.SetKeyMap(keyMap)
	h.Draw(screen)
	if got := screenLine(screen, 40); got != "↓/j down" {
		t.Fatalf("short help with disabled key = %q", got)
	}
}

type fixedCursor struct{ selected, count int }

func (c fixedCursor) SelectedIndex() int { return c.selected }
func (c fixedCursor) Len() int           { return c.count }

func italicAt(screen tcell.Screen, x, y int) bool {
	_, _, style, _ := screen.GetContent(x, y)
	_, _, attrs := style.Decompose()
	return attrs&tcell.AttrItalic != 0
}

func TestFullHelpMarksIdleNavigationKeys(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(60, 2)

	nav := keybind.DefaultNavigationKeyMap()
	h := New().SetKeyMap(nav).SetShowAll(true).SetCursor(fixedCursor{selected: 0, count: 10}, nav)
	h.SetRect(0, 0, 60, 2)
	h.Draw(screen)
	// Column one holds down over up; column three starts at x 37.
	if italicAt(screen, 0, 0) {
		t.Fatal("down should be active on the first row")
	}
	if !italicAt(screen, 0, 1) || !italicAt(screen, 37, 0) {
		t.Fatal("up and home should be idle on the first row")
	}

	h.SetCursor(fixedCursor{selected: 9, count: 10}, nav)
	screen.Clear()
	h.Draw(screen)
	if !italicAt(screen, 0, 0) || !italicAt(screen, 37, 1) {
		t.Fatal("down and end should be idle on the last row")
	}
	if italicAt(screen, 0, 1) {
		t.Fatal("up should be active on the last row")
	}

	// Without a cursor nothing is idle.
	h.SetCursor(nil, nav)
	screen.Clear()
	h.Draw(screen)
	if italicAt(screen, 0, 1) {
		t.Fatal("up drawn idle without a cursor")
	}
}

func TestFullHelpIgnoresNonNavigationKeys(t *testing.T) {
	nav := keybind.DefaultNavigationKeyMap()
	quit := keybind.NewKeybind(keybind.WithKeys("q"), keybind.WithHelp("q", "quit"))
	h := New().SetCursor(fixedCursor{selected: -1, count: 0}, nav)
	hints := h.hints([]keybind.Keybind{quit, nav.Down})
	if len(hints) != 2 || hints[0].idle || !hints[1].idle {
		t.Fatalf("hints = %+v, want quit active and down idle on an empty list", hints)
	}
}

func screenLine(screen tcell.Screen, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, 0)
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
