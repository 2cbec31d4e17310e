package vscroll

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

// quitBox quits the application on any key.
type quitBox struct {
	*Box
}

func (q *quitBox) InputHandler(event *tcell.EventKey) Command {
	return QuitCommand{}
}

func TestApplicationSchedulesOnEventLoop(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(20, 3)

	root := &quitBox{Box: NewBox()}
	root.SetBorders(BordersAll)
	app := NewApplication().SetScreen(screen).SetRoot(root)

	done := make(chan error, 1)
	go func() {
		done <- app.Run()
	}()

	fired := make(chan struct{})
	app.AfterFunc(10*time.Millisecond, func() {
		root.SetTitle("tick")
		close(fired)
	})
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduled callback did not run")
	}

	var top string
	app.QueueUpdate(func() {
		var b strings.Builder
		for x := 0; x < 20; x++ {
			r, _, _, _ := screen.GetContent(x, 0)
			b.WriteRune(r)
		}
		top = b.String()
	})
	if !strings.Contains(top, "tick") {
		t.Fatalf("title not drawn after the callback: %q", top)
	}

	app.QueueEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("QuitCommand did not stop the application")
	}

	ran := make(chan struct{}, 1)
	app.AfterFunc(0, func() { ran <- struct{}{} })
	select {
	case <-ran:
		t.Fatalf("callback ran after the application stopped")
	case <-time.After(50 * time.Millisecond):
	}
}
