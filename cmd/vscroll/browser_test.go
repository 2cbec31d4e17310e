package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/vscroll"
	"github.com/xqrs/vscroll/internal/config"
	"github.com/xqrs/vscroll/store"
)

// queueScheduler holds callbacks until run is called, so the test decides
// when deferred work happens.
type queueScheduler struct {
	pending []func()
}

type queuedTimer struct{}

func (queuedTimer) Stop() bool { return false }

func (s *queueScheduler) AfterFunc(_ time.Duration, f func()) vscroll.Timer {
	s.pending = append(s.pending, f)
	return queuedTimer{}
}

func (s *queueScheduler) Now() time.Time {
	return time.Time{}
}

func (s *queueScheduler) run() {
	pending := s.pending
	s.pending = nil
	for _, f := range pending {
		f()
	}
}

func newTestBrowser(t *testing.T, opts browserOptions, st store.Store) (*browser, *queueScheduler, tcell.Screen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 12)

	cfg := config.Default().List
	cfg.SmoothScroll = false
	cfg.PersistKey = "test"
	scheduler := &queueScheduler{}
	b := newBrowser(cfg, opts, scheduler, st, nil)
	b.SetRect(0, 0, 40, 12)

	var focus func(p vscroll.Primitive)
	focus = func(p vscroll.Primitive) {
		b.list.Blur()
		b.help.Blur()
		p.Focus(focus)
	}
	b.Focus(focus)
	b.Draw(screen)
	return b, scheduler, screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func lines(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", i)
	}
	return out
}

func TestBrowserGlobalKeys(t *testing.T) {
	b, _, screen := newTestBrowser(t, browserOptions{items: lines(100)}, store.NewMemory())
	var copied string
	b.copy = func(text string) error {
		copied = text
		return nil
	}

	if _, ok := b.InputHandler(key('?')).(vscroll.RedrawCommand); !ok || !b.GetVisible(helpLayer) {
		t.Fatalf("? did not open the help overlay")
	}
	b.Draw(screen)
	if _, _, w, h := b.help.GetRect(); w == 0 || h == 0 {
		t.Fatalf("help overlay was not laid out")
	}
	if _, ok := b.InputHandler(key('q')).(vscroll.RedrawCommand); !ok || b.GetVisible(helpLayer) {
		t.Fatalf("q did not close the help overlay")
	}

	b.InputHandler(key('j'))
	b.InputHandler(key('j'))
	if got := b.list.SelectedIndex(); got != 1 {
		t.Fatalf("selected index = %d, want 1", got)
	}
	b.InputHandler(key('y'))
	if copied != "line 1" {
		t.Fatalf("copied %q, want %q", copied, "line 1")
	}
	if footer := b.list.GetFooter(); !strings.Contains(footer, "copied row 2") || !strings.Contains(footer, "2/100") {
		t.Fatalf("footer = %q", footer)
	}

	if _, ok := b.InputHandler(key('q')).(vscroll.QuitCommand); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestBrowserCopyFailureKeepsRunning(t *testing.T) {
	b, _, _ := newTestBrowser(t, browserOptions{items: lines(5)}, store.NewMemory())
	b.copy = func(string) error { return fmt.Errorf("no clipboard") }

	b.InputHandler(key('y'))
	if footer := b.list.GetFooter(); !strings.Contains(footer, "nothing selected") {
		t.Fatalf("footer = %q", footer)
	}
	b.InputHandler(key('j'))
	b.InputHandler(key('y'))
	if footer := b.list.GetFooter(); !strings.Contains(footer, "clipboard unavailable") {
		t.Fatalf("footer = %q", footer)
	}
}

func TestBrowserSavesPositionOnQuit(t *testing.T) {
	st := store.NewMemory()
	b, _, _ := newTestBrowser(t, browserOptions{items: lines(100)}, st)

	b.InputHandler(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	top := b.list.ScrollTop()
	if top == 0 {
		t.Fatalf("End did not scroll")
	}
	b.InputHandler(key('q'))

	value, ok, err := st.Get(vscroll.PersistKey("test"))
	if err != nil || !ok || value != fmt.Sprint(top) {
		t.Fatalf("stored %q ok=%v err=%v, want %d", value, ok, err, top)
	}
}

func TestBrowserFilterAndGeneratedPages(t *testing.T) {
	b, scheduler, _ := newTestBrowser(t, browserOptions{generateTotal: 40, pageSize: 15}, store.NewMemory())
	if len(b.items) != 15 {
		t.Fatalf("first page has %d items, want 15", len(b.items))
	}
	b.InputHandler(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	scheduler.run()
	if len(b.items) != 30 {
		t.Fatalf("reaching the bottom loaded %d items, want 30", len(b.items))
	}
	b.loadMore()
	b.loadMore()
	if len(b.items) != 40 || b.generated != 40 {
		t.Fatalf("after paging: items=%d generated=%d", len(b.items), b.generated)
	}
	if !strings.HasPrefix(b.items[39], "0000039") {
		t.Fatalf("last item = %q", b.items[39])
	}

	f, _, _ := newTestBrowser(t, browserOptions{items: []string{"GET /a", "POST /b"}, filter: "post"}, store.NewMemory())
	f.appendItems([]string{"GET /c", "POST /d"})
	if len(f.items) != 2 || f.items[0] != "POST /b" || f.items[1] != "POST /d" {
		t.Fatalf("filtered items = %q", f.items)
	}
}
