package vscroll

import (
	"math"
	"testing"
	"time"
)

func newTestController(s *manualScheduler) *ScrollController {
	return NewScrollController(s).
		SetItemHeight(50).
		SetContainerHeight(400).
		SetItemCount(1000).
		SetOverscan(5)
}

func TestScrollToIndexInstant(t *testing.T) {
	c := newTestController(newManualScheduler())
	var events []ScrollEvent
	c.SetScrollFunc(func(e ScrollEvent) { events = append(events, e) })

	c.ScrollToIndex(10)
	if got := c.ScrollTop(); got != 500 {
		t.Fatalf("ScrollTop() = %d, want 500", got)
	}
	if len(events) != 1 || events[0].ScrollTop != 500 {
		t.Fatalf("unexpected scroll events: %+v", events)
	}
	if want := 500.0 / 49600.0; math.Abs(events[0].Percentage-want) > 1e-9 {
		t.Fatalf("Percentage = %f, want %f", events[0].Percentage, want)
	}

	c.ScrollToIndex(5000)
	if got := c.ScrollTop(); got != 49600 {
		t.Fatalf("out of range index should clamp to max offset, got %d", got)
	}
	c.ScrollToIndex(-3)
	if got := c.ScrollTop(); got != 0 {
		t.Fatalf("negative index should clamp to 0, got %d", got)
	}
}

func TestScrollToTopAndBottom(t *testing.T) {
	c := newTestController(newManualScheduler())
	c.ScrollToBottom()
	if got := c.ScrollTop(); got != 49600 {
		t.Fatalf("ScrollToBottom: got %d, want 49600", got)
	}
	if !c.AtBottom() {
		t.Fatal("expected AtBottom after ScrollToBottom")
	}
	c.ScrollToTop()
	if got := c.ScrollTop(); got != 0 {
		t.Fatalf("ScrollToTop: got %d, want 0", got)
	}
}

func TestHandleScrollClampsAndAlwaysEmits(t *testing.T) {
	c := newTestController(newManualScheduler())
	var events []ScrollEvent
	c.SetScrollFunc(func(e ScrollEvent) { events = append(events, e) })

	c.HandleScroll(-20)
	c.HandleScroll(90000)
	c.ScrollBy(-100)
	want := []int{0, 49600, 49500}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, top := range want {
		if events[i].ScrollTop != top {
			t.Fatalf("event %d: ScrollTop = %d, want %d", i, events[i].ScrollTop, top)
		}
		if events[i].Percentage < 0 || events[i].Percentage > 1 {
			t.Fatalf("event %d: percentage %f out of range", i, events[i].Percentage)
		}
	}
}

func TestReachEventsFireOncePerArrival(t *testing.T) {
	c := newTestController(newManualScheduler())
	var tops, bottoms int
	c.SetReachTopFunc(func() { tops++ })
	c.SetReachBottomFunc(func() { bottoms++ })

	c.HandleScroll(0)
	c.HandleScroll(0)
	if tops != 1 {
		t.Fatalf("reach-top fired %d times, want 1", tops)
	}
	c.HandleScroll(49599)
	c.HandleScroll(49600)
	if bottoms != 1 {
		t.Fatalf("reach-bottom fired %d times, want 1", bottoms)
	}
	c.HandleScroll(100)
	c.HandleScroll(49600)
	if bottoms != 2 {
		t.Fatalf("reach-bottom should re-arm after leaving the edge, fired %d", bottoms)
	}
	c.HandleScroll(0)
	if tops != 2 {
		t.Fatalf("reach-top should re-arm after leaving the edge, fired %d", tops)
	}
}

func TestReachEventsWhenContentFits(t *testing.T) {
	c := NewScrollController(newManualScheduler()).
		SetItemHeight(50).
		SetContainerHeight(400).
		SetItemCount(3)
	var tops, bottoms int
	c.SetReachTopFunc(func() { tops++ })
	c.SetReachBottomFunc(func() { bottoms++ })

	c.HandleScroll(0)
	if tops != 1 || bottoms != 1 {
		t.Fatalf("expected both edges on first scroll, got top=%d bottom=%d", tops, bottoms)
	}
	if _, ok := c.Scrollbar(); ok {
		t.Fatal("no scrollbar expected when content fits")
	}
}

func TestScrollbarGeometry(t *testing.T) {
	c := newTestController(newManualScheduler())
	c.HandleScroll(24800)
	bar, ok := c.Scrollbar()
	if !ok {
		t.Fatal("expected a scrollbar")
	}
	if math.Abs(bar.ThumbSizeRatio-400.0/50000.0) > 1e-9 {
		t.Fatalf("ThumbSizeRatio = %f", bar.ThumbSizeRatio)
	}
	if math.Abs(bar.ThumbOffsetRatio-0.5) > 1e-9 {
		t.Fatalf("ThumbOffsetRatio = %f, want 0.5", bar.ThumbOffsetRatio)
	}
}

func TestGeometryChangeClampsOffset(t *testing.T) {
	c := newTestController(newManualScheduler())
	c.HandleScroll(49600)
	var events []ScrollEvent
	c.SetScrollFunc(func(e ScrollEvent) { events = append(events, e) })

	c.SetItemCount(10)
	if got := c.ScrollTop(); got != 100 {
		t.Fatalf("after shrinking, ScrollTop = %d, want 100", got)
	}
	if len(events) != 1 {
		t.Fatalf("clamp should emit one scroll event, got %d", len(events))
	}
	c.SetContainerHeight(1000)
	if got := c.ScrollTop(); got != 0 {
		t.Fatalf("after growing the viewport, ScrollTop = %d, want 0", got)
	}
}

func TestRestoreDefersClamp(t *testing.T) {
	c := NewScrollController(newManualScheduler())
	var events int
	c.SetScrollFunc(func(ScrollEvent) { events++ })

	c.Restore(500)
	if got := c.ScrollTop(); got != 500 {
		t.Fatalf("Restore should keep the raw offset, got %d", got)
	}
	c.SetItemCount(1000).SetItemHeight(50).SetContainerHeight(400)
	if got := c.ScrollTop(); got != 500 {
		t.Fatalf("valid restored offset should survive layout, got %d", got)
	}
	if events != 0 {
		t.Fatalf("restore must not emit scroll events, got %d", events)
	}

	c.Restore(-40)
	if got := c.ScrollTop(); got != 0 {
		t.Fatalf("negative restore should become 0, got %d", got)
	}
}

func TestSmoothScrollReachesTarget(t *testing.T) {
	s := newManualScheduler()
	c := newTestController(s).SetSmoothScroll(true)
	var tops []int
	c.SetScrollFunc(func(e ScrollEvent) { tops = append(tops, e.ScrollTop) })

	c.ScrollToIndex(100)
	if !c.Animating() {
		t.Fatal("expected an animation to start")
	}
	if c.ScrollTop() != 0 {
		t.Fatalf("smooth scroll must not jump, got %d", c.ScrollTop())
	}

	s.Advance(FrameInterval)
	mid := c.ScrollTop()
	if mid <= 0 || mid >= 5000 {
		t.Fatalf("first frame should land between endpoints, got %d", mid)
	}

	s.Advance(SmoothScrollDuration)
	if c.Animating() {
		t.Fatal("animation should have finished")
	}
	if got := c.ScrollTop(); got != 5000 {
		t.Fatalf("final offset = %d, want 5000", got)
	}
	for i := 1; i < len(tops); i++ {
		if tops[i] < tops[i-1] {
			t.Fatalf("animation went backwards: %v", tops)
		}
	}
	if s.Pending() != 0 {
		t.Fatalf("no frames should remain scheduled, got %d", s.Pending())
	}
}

func TestSmoothScrollLastCommandWins(t *testing.T) {
	s := newManualScheduler()
	c := newTestController(s).SetSmoothScroll(true)

	c.ScrollToIndex(100)
	s.Advance(3 * FrameInterval)
	c.ScrollToIndex(20)
	s.Advance(time.Second)
	if got := c.ScrollTop(); got != 1000 {
		t.Fatalf("later command should win, got %d want 1000", got)
	}

	c.ScrollToIndex(200)
	s.Advance(FrameInterval)
	c.HandleScroll(300)
	s.Advance(time.Second)
	if got := c.ScrollTop(); got != 300 {
		t.Fatalf("native scroll should cancel the animation, got %d", got)
	}
}

func TestSmoothScrollRetargetsOnItemHeightChange(t *testing.T) {
	s := newManualScheduler()
	c := newTestController(s).SetSmoothScroll(true)

	c.ScrollToIndex(40)
	s.Advance(2 * FrameInterval)
	c.SetItemHeight(20)
	s.Advance(time.Second)
	if got := c.ScrollTop(); got != 800 {
		t.Fatalf("animation should follow the new item height, got %d want 800", got)
	}
}

func TestCancelStopsFrames(t *testing.T) {
	s := newManualScheduler()
	c := newTestController(s).SetSmoothScroll(true)
	c.ScrollToBottom()
	c.Cancel()
	if s.Pending() != 0 {
		t.Fatalf("Cancel should stop the pending frame, %d left", s.Pending())
	}
	before := c.ScrollTop()
	s.Advance(time.Second)
	if c.ScrollTop() != before {
		t.Fatal("offset changed after Cancel")
	}
}

func TestEnsureVisibleScrollsMinimally(t *testing.T) {
	c := newTestController(newManualScheduler())
	if c.EnsureVisible(3) {
		t.Fatal("row already visible should not scroll")
	}
	if !c.EnsureVisible(8) {
		t.Fatal("row below the fold should scroll")
	}
	if got := c.ScrollTop(); got != 50 {
		t.Fatalf("row 8 should sit on the bottom edge, ScrollTop = %d want 50", got)
	}
	c.EnsureVisible(0)
	if got := c.ScrollTop(); got != 0 {
		t.Fatalf("row above the fold should align to top, ScrollTop = %d", got)
	}
	c.EnsureVisible(999)
	if got := c.ScrollTop(); got != 49600 {
		t.Fatalf("last row: ScrollTop = %d want 49600", got)
	}
}

func TestSmoothScrollNeedsEventLoopScheduler(t *testing.T) {
	c := NewScrollController(nil).
		SetItemHeight(50).
		SetContainerHeight(400).
		SetItemCount(1000).
		SetSmoothScroll(true)
	if c.SmoothScroll() {
		t.Fatal("system timers should not drive smooth scrolling")
	}
	c.ScrollToIndex(10)
	if c.Animating() || c.ScrollTop() != 500 {
		t.Fatalf("expected an instant jump to 500, got %d (animating %v)", c.ScrollTop(), c.Animating())
	}

	c.SetScheduler(newManualScheduler())
	if !c.SmoothScroll() {
		t.Fatal("a loop scheduler should enable smooth scrolling")
	}
}

func TestResetClearsViewportAndLatches(t *testing.T) {
	s := newManualScheduler()
	c := newTestController(s)
	bottoms := 0
	c.SetReachBottomFunc(func() { bottoms++ })

	c.ScrollToBottom()
	c.Reset()
	if got := c.ScrollTop(); got != 0 {
		t.Fatalf("ScrollTop() after Reset = %d, want 0", got)
	}
	if got := c.Geometry().ItemCount; got != 1000 {
		t.Fatalf("Reset dropped the item count: %d", got)
	}
	c.ScrollToBottom()
	if bottoms != 2 {
		t.Fatalf("reach-bottom fired %d times, want 2", bottoms)
	}
}
