package vscroll

import (
	"math"
	"time"
)

const (
	// FrameInterval is the delay between two animation frames.
	FrameInterval = 16 * time.Millisecond
	// SmoothScrollDuration is the length of an eased programmatic scroll.
	SmoothScrollDuration = 200 * time.Millisecond
	// ReachEpsilon is the distance from the bottom edge that still counts as
	// having reached it.
	ReachEpsilon = 1
)

// ViewportState is the live scroll state of a list.
type ViewportState struct {
	ScrollTop       int
	ContainerHeight int
}

// ScrollEvent is emitted every time the scroll offset is applied.
type ScrollEvent struct {
	ScrollTop  int
	Percentage float64
}

// ScrollbarGeometry describes the thumb of a custom scrollbar as ratios of the
// track length.
type ScrollbarGeometry struct {
	ThumbOffsetRatio float64
	ThumbSizeRatio   float64
}

type targetKind uint8

const (
	targetOffset targetKind = iota
	targetIndex
	targetTop
	targetBottom
)

// scrollTarget is resolved against the current geometry on every frame, so a
// change of item height or count mid-animation moves the destination too.
type scrollTarget struct {
	kind  targetKind
	value int
}

type scrollAnimation struct {
	generation uint64
	target     scrollTarget
	from       int
	started    time.Time
	timer      Timer
}

// ScrollController owns the scroll offset of a fixed-height list. It applies
// native scroll input, drives instant or eased programmatic scrolling and
// reports edge events. It is not safe for concurrent use; drive it from a
// single event loop.
type ScrollController struct {
	scheduler Scheduler
	viewport  ViewportState

	itemCount  int
	itemHeight int
	overscan   int

	smooth     bool
	loopSafe   bool
	duration   time.Duration
	anim       *scrollAnimation
	generation uint64

	// Edge latches: set while resting on an edge so its event fires once.
	atTop, atBottom bool

	onScroll      func(ScrollEvent)
	onReachTop    func()
	onReachBottom func()
}

// NewScrollController returns a controller using scheduler for animation
// frames. A nil scheduler selects SystemScheduler.
func NewScrollController(scheduler Scheduler) *ScrollController {
	c := &ScrollController{duration: SmoothScrollDuration}
	return c.SetScheduler(scheduler)
}

// SetScheduler replaces the scheduler. Any running animation is cancelled.
// SystemScheduler delivers frames on timer goroutines, so a controller using
// it scrolls instantly even in smooth mode.
func (c *ScrollController) SetScheduler(scheduler Scheduler) *ScrollController {
	if scheduler == nil {
		scheduler = SystemScheduler()
	}
	c.Cancel()
	c.scheduler = scheduler
	_, timers := scheduler.(systemScheduler)
	c.loopSafe = !timers
	return c
}

// SetSmoothScroll toggles eased programmatic scrolling.
func (c *ScrollController) SetSmoothScroll(smooth bool) *ScrollController {
	c.smooth = smooth
	return c
}

// SmoothScroll reports whether programmatic scrolls are eased. It is false
// whenever the scheduler cannot deliver frames on the event loop.
func (c *ScrollController) SmoothScroll() bool {
	return c.smooth && c.loopSafe
}

// SetSmoothScrollDuration sets the length of eased scrolls.
func (c *ScrollController) SetSmoothScrollDuration(d time.Duration) *ScrollController {
	if d <= 0 {
		d = SmoothScrollDuration
	}
	c.duration = d
	return c
}

// SetScrollFunc sets the handler invoked for every applied scroll offset.
func (c *ScrollController) SetScrollFunc(handler func(ScrollEvent)) *ScrollController {
	c.onScroll = handler
	return c
}

// SetReachTopFunc sets the handler invoked when the top edge is reached.
func (c *ScrollController) SetReachTopFunc(handler func()) *ScrollController {
	c.onReachTop = handler
	return c
}

// SetReachBottomFunc sets the handler invoked when the bottom edge is reached.
func (c *ScrollController) SetReachBottomFunc(handler func()) *ScrollController {
	c.onReachBottom = handler
	return c
}

// SetItemCount updates the number of items and clamps the offset.
func (c *ScrollController) SetItemCount(count int) *ScrollController {
	c.itemCount = max(count, 0)
	c.clamp()
	return c
}

// SetItemHeight updates the fixed item height and clamps the offset.
func (c *ScrollController) SetItemHeight(height int) *ScrollController {
	c.itemHeight = height
	c.clamp()
	return c
}

// SetContainerHeight updates the viewport height and clamps the offset.
func (c *ScrollController) SetContainerHeight(height int) *ScrollController {
	c.viewport.ContainerHeight = max(height, 0)
	c.clamp()
	return c
}

// SetOverscan sets how many rows are materialised beyond each edge.
func (c *ScrollController) SetOverscan(overscan int) *ScrollController {
	c.overscan = max(overscan, 0)
	return c
}

// Geometry returns the current layout inputs.
func (c *ScrollController) Geometry() Geometry {
	return Geometry{
		ItemCount:       c.itemCount,
		ItemHeight:      c.itemHeight,
		ContainerHeight: c.viewport.ContainerHeight,
		Overscan:        c.overscan,
		ScrollTop:       c.viewport.ScrollTop,
	}
}

// Viewport returns the current viewport state.
func (c *ScrollController) Viewport() ViewportState {
	return c.viewport
}

// ScrollTop returns the current scroll offset.
func (c *ScrollController) ScrollTop() int {
	return c.viewport.ScrollTop
}

// Restore sets the offset without emitting events. It is meant for the
// initial offset read back from persistence before anything is drawn; the
// value is clamped by the next geometry change rather than immediately, since
// the viewport height is usually unknown at that point.
func (c *ScrollController) Restore(offset int) {
	c.Cancel()
	c.viewport.ScrollTop = max(offset, 0)
}

// HandleScroll applies a native scroll to offset. It cancels any running
// animation and always emits a scroll event.
func (c *ScrollController) HandleScroll(offset int) {
	c.Cancel()
	c.apply(offset, true)
}

// ScrollBy applies a native scroll relative to the current offset.
func (c *ScrollController) ScrollBy(delta int) {
	c.HandleScroll(c.viewport.ScrollTop + delta)
}

// ScrollTo scrolls to an absolute offset.
func (c *ScrollController) ScrollTo(offset int) {
	c.start(scrollTarget{kind: targetOffset, value: offset})
}

// ScrollToIndex scrolls so item index sits at the top of the viewport. The
// index is clamped to the item range.
func (c *ScrollController) ScrollToIndex(index int) {
	c.start(scrollTarget{kind: targetIndex, value: index})
}

// ScrollToTop scrolls to the first item.
func (c *ScrollController) ScrollToTop() {
	c.start(scrollTarget{kind: targetTop})
}

// ScrollToBottom scrolls to the end of the content.
func (c *ScrollController) ScrollToBottom() {
	c.start(scrollTarget{kind: targetBottom})
}

// EnsureVisible scrolls the minimum distance that brings item index fully
// into view. It returns false if no scroll was needed.
func (c *ScrollController) EnsureVisible(index int) bool {
	g := c.Geometry()
	if g.Validate() != nil || g.ItemCount == 0 {
		return false
	}
	index = min(max(index, 0), g.ItemCount-1)
	top := g.ItemOffset(index)
	bottom := top + g.ItemHeight
	current := g.ScrollTop
	if c.anim != nil {
		current = c.resolve(c.anim.target)
	}

	var target int
	switch {
	case top < current || g.ItemHeight > g.ContainerHeight:
		target = top
	case bottom > current+g.ContainerHeight:
		target = bottom - g.ContainerHeight
	default:
		return false
	}
	if target == current {
		return false
	}
	c.ScrollTo(target)
	return true
}

// Reset cancels any animation and returns to the top with both edge latches
// cleared, as if the controller had just been created. Geometry inputs are
// kept.
func (c *ScrollController) Reset() {
	c.Cancel()
	c.viewport.ScrollTop = 0
	c.atTop, c.atBottom = false, false
}

// Animating reports whether an eased scroll is in flight.
func (c *ScrollController) Animating() bool {
	return c.anim != nil
}

// Cancel stops any in-flight animation. It is safe to call repeatedly.
func (c *ScrollController) Cancel() {
	c.generation++
	if c.anim != nil {
		if c.anim.timer != nil {
			c.anim.timer.Stop()
		}
		c.anim = nil
	}
}

// Percentage returns how far the viewport has travelled, in [0,1].
func (c *ScrollController) Percentage() float64 {
	g := c.Geometry()
	p := float64(g.ScrollTop) / float64(max(1, g.TotalHeight()-g.ContainerHeight))
	return math.Min(math.Max(p, 0), 1)
}

// AtBottom reports whether the viewport rests on the bottom edge.
func (c *ScrollController) AtBottom() bool {
	g := c.Geometry()
	return g.ScrollTop >= g.MaxScrollTop()-ReachEpsilon
}

// Scrollbar returns the thumb geometry. ok is false when the content fits in
// the viewport and no scrollbar should be drawn.
func (c *ScrollController) Scrollbar() (geometry ScrollbarGeometry, ok bool) {
	g := c.Geometry()
	total := g.TotalHeight()
	if total <= g.ContainerHeight {
		return ScrollbarGeometry{}, false
	}
	return ScrollbarGeometry{
		ThumbSizeRatio:   math.Min(1, float64(g.ContainerHeight)/float64(total)),
		ThumbOffsetRatio: c.Percentage(),
	}, true
}

func (c *ScrollController) resolve(t scrollTarget) int {
	g := c.Geometry()
	switch t.kind {
	case targetIndex:
		if g.ItemCount == 0 {
			return 0
		}
		index := min(max(t.value, 0), g.ItemCount-1)
		return g.ClampScrollTop(g.ItemOffset(index))
	case targetTop:
		return 0
	case targetBottom:
		return g.MaxScrollTop()
	default:
		return g.ClampScrollTop(t.value)
	}
}

// start begins a programmatic scroll. Whatever was running is superseded.
func (c *ScrollController) start(target scrollTarget) {
	c.Cancel()
	to := c.resolve(target)
	if !c.SmoothScroll() || to == c.viewport.ScrollTop {
		c.apply(to, false)
		return
	}

	anim := &scrollAnimation{
		generation: c.generation,
		target:     target,
		from:       c.viewport.ScrollTop,
		started:    c.scheduler.Now(),
	}
	c.anim = anim
	c.scheduleFrame(anim)
}

func (c *ScrollController) scheduleFrame(anim *scrollAnimation) {
	generation := anim.generation
	anim.timer = c.scheduler.AfterFunc(FrameInterval, func() {
		c.frame(generation)
	})
}

func (c *ScrollController) frame(generation uint64) {
	anim := c.anim
	if anim == nil || anim.generation != generation {
		return
	}

	to := c.resolve(anim.target)
	progress := float64(c.scheduler.Now().Sub(anim.started)) / float64(c.duration)
	if progress >= 1 {
		c.anim = nil
		c.apply(to, false)
		return
	}

	eased := easeOutCubic(math.Max(progress, 0))
	position := anim.from + int(math.Round(float64(to-anim.from)*eased))
	c.apply(position, false)

	// A handler may have started another scroll.
	if c.anim != anim {
		return
	}
	c.scheduleFrame(anim)
}

func easeOutCubic(t float64) float64 {
	t = 1 - t
	return 1 - t*t*t
}

// clamp pulls the offset back into range after a geometry change.
func (c *ScrollController) clamp() {
	g := c.Geometry()
	if g.Validate() != nil {
		return
	}
	if limit := g.MaxScrollTop(); c.viewport.ScrollTop > limit {
		c.apply(limit, false)
	}
}

func (c *ScrollController) apply(offset int, native bool) {
	g := c.Geometry()
	offset = g.ClampScrollTop(offset)
	changed := offset != c.viewport.ScrollTop
	c.viewport.ScrollTop = offset
	if !changed && !native {
		return
	}

	if c.onScroll != nil {
		c.onScroll(ScrollEvent{ScrollTop: offset, Percentage: c.Percentage()})
	}
	c.checkEdges()
}

func (c *ScrollController) checkEdges() {
	g := c.Geometry()
	top := g.ScrollTop <= 0
	bottom := g.ScrollTop >= g.MaxScrollTop()-ReachEpsilon

	if top && !c.atTop {
		c.atTop = true
		if c.onReachTop != nil {
			c.onReachTop()
		}
	} else if !top {
		c.atTop = false
	}

	if bottom && !c.atBottom {
		c.atBottom = true
		if c.onReachBottom != nil {
			c.onReachBottom()
		}
	} else if !bottom {
		c.atBottom = false
	}
}
