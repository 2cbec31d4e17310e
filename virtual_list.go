package vscroll

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/vscroll/internal/logging"
	"github.com/xqrs/vscroll/keybind"
	"github.com/xqrs/vscroll/store"
)

// DefaultOverscan is the number of rows materialised beyond each viewport edge.
const DefaultOverscan = 3

// wheelStep is the number of rows one wheel notch scrolls.
const wheelStep = 3

// Role is the accessibility role of a list container.
type Role string

const (
	// RoleListbox is a selectable list.
	RoleListbox Role = "listbox"
	// RoleLog is an append-only log whose newest entries arrive at the bottom.
	RoleLog Role = "log"
)

// RowRoleOption is the accessibility role reported for every rendered row.
const RowRoleOption = "option"

// Accessibility describes how the list presents itself to assistive tooling.
type Accessibility struct {
	Role     Role
	Label    string
	Live     string
	TabIndex int
}

// ItemEvent is emitted for clicks and hovers on a row.
type ItemEvent[T any] struct {
	Index int
	Item  T
}

// RenderedRow is one materialised row.
type RenderedRow[T any] struct {
	Index    int
	Item     T
	Offset   int
	Selected bool
	Hovered  bool
	RowRole  string
}

// ItemRenderer draws a row into the rectangle at (x, y, width, height). The
// screen is clipped to the list viewport.
type ItemRenderer[T any] func(screen tcell.Screen, x, y, width, height int, row RenderedRow[T])

type viewportRect struct {
	x, y, width, height int
}

func (r viewportRect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.width && y >= r.y && y < r.y+r.height
}

// VirtualList renders a fixed-height list of any length while only drawing the
// rows that intersect the viewport plus an overscan margin.
//
// The selected index is owned by the host: navigation keys and clicks request a
// new index through the SetSelectedIndexFunc callback, and the list only shows
// what was last passed to SetSelectedIndex.
type VirtualList[T any] struct {
	*Box

	items      []T
	itemHeight int
	height     int
	maxHeight  int
	overscan   int

	selected int
	hovered  int

	role          Role
	label         string
	live          string
	rtl           bool
	followTail    bool
	following     bool
	smooth        bool
	renderer      ItemRenderer[T]
	keyMap        keybind.NavigationKeyMap
	selectedStyle tcell.Style
	hoverStyle    tcell.Style

	scheduler  Scheduler
	logger     *slog.Logger
	store      store.Store
	persistKey string

	controller *ScrollController
	persister  *ScrollPersister
	scrollBar  *ScrollBar

	mounted      bool
	configErr    error
	configLogged bool

	rendered   []RenderedRow[T]
	rows       viewportRect
	bar        viewportRect
	barVisible bool

	onScroll      func(ScrollEvent)
	onReachTop    func()
	onReachBottom func()
	onItemClick   func(ItemEvent[T])
	onItemHover   func(ItemEvent[T])
	onSelected    func(int)
}

// NewVirtualList returns an empty list with an item height of one row.
func NewVirtualList[T any]() *VirtualList[T] {
	l := &VirtualList[T]{
		Box:           NewBox(),
		itemHeight:    1,
		overscan:      DefaultOverscan,
		selected:      -1,
		hovered:       -1,
		role:          RoleListbox,
		keyMap:        keybind.DefaultNavigationKeyMap(),
		selectedStyle: tcell.StyleDefault.Foreground(Styles.PrimaryTextColor).Background(Styles.SelectedBackgroundColor),
		hoverStyle:    tcell.StyleDefault.Foreground(Styles.PrimaryTextColor).Background(Styles.HoverBackgroundColor),
		scheduler:     SystemScheduler(),
		logger:        logging.NewNop(),
		scrollBar:     NewScrollBar(),
	}
	l.controller = NewScrollController(l.scheduler).
		SetScrollFunc(l.handleScroll).
		SetReachTopFunc(func() {
			if l.onReachTop != nil {
				l.onReachTop()
			}
		}).
		SetReachBottomFunc(func() {
			if l.onReachBottom != nil {
				l.onReachBottom()
			}
		})
	return l
}

// SetItems replaces the items. When following the tail, a list resting on the
// bottom stays there.
func (l *VirtualList[T]) SetItems(items []T) *VirtualList[T] {
	l.items = items
	if l.hovered >= len(items) {
		l.hovered = -1
	}
	if l.mounted && l.configErr == nil {
		l.controller.SetItemCount(len(items))
		l.pinTail()
	}
	l.MarkDirty()
	return l
}

// Items returns the current items.
func (l *VirtualList[T]) Items() []T {
	return l.items
}

// Len returns the number of items.
func (l *VirtualList[T]) Len() int {
	return len(l.items)
}

// SetItemHeight sets the fixed height of every row. A list with a
// non-positive height refuses to render.
func (l *VirtualList[T]) SetItemHeight(height int) *VirtualList[T] {
	if l.itemHeight == height {
		return l
	}
	l.itemHeight = height
	switch {
	case !l.mounted:
	case l.configErr != nil:
		// Never got past validation, so nothing was restored yet.
		l.Unmount()
		_ = l.Mount()
	default:
		if err := l.validate(); err != nil {
			l.configErr = err
			l.configLogged = false
		} else {
			l.controller.SetItemHeight(height)
		}
	}
	l.MarkDirty()
	return l
}

// SetHeight fixes the viewport height in rows. Zero uses the inner rect.
func (l *VirtualList[T]) SetHeight(height int) *VirtualList[T] {
	l.height = max(height, 0)
	l.MarkDirty()
	return l
}

// SetMaxHeight caps the viewport height in rows. Zero means no cap.
func (l *VirtualList[T]) SetMaxHeight(height int) *VirtualList[T] {
	l.maxHeight = max(height, 0)
	l.MarkDirty()
	return l
}

// SetOverscan sets the number of extra rows kept beyond each edge.
func (l *VirtualList[T]) SetOverscan(overscan int) *VirtualList[T] {
	l.overscan = max(overscan, 0)
	l.controller.SetOverscan(l.overscan)
	l.MarkDirty()
	return l
}

// SetSelectedIndex shows index as selected. -1 clears the selection.
func (l *VirtualList[T]) SetSelectedIndex(index int) *VirtualList[T] {
	if index < -1 {
		index = -1
	}
	if l.selected != index {
		l.selected = index
		l.MarkDirty()
	}
	return l
}

// SelectedIndex returns the index last passed to SetSelectedIndex.
func (l *VirtualList[T]) SelectedIndex() int {
	return l.selected
}

// SetPersistScrollKey enables offset persistence under key. Takes effect at
// the next mount.
func (l *VirtualList[T]) SetPersistScrollKey(key string) *VirtualList[T] {
	l.persistKey = key
	return l
}

// SetStore sets where persisted offsets live. Takes effect at the next mount.
func (l *VirtualList[T]) SetStore(st store.Store) *VirtualList[T] {
	l.store = st
	return l
}

// SetSmoothScroll toggles eased programmatic scrolling.
func (l *VirtualList[T]) SetSmoothScroll(smooth bool) *VirtualList[T] {
	l.smooth = smooth
	l.controller.SetSmoothScroll(smooth)
	return l
}

// SetAriaLabel sets the accessible label, drawn as the title.
func (l *VirtualList[T]) SetAriaLabel(label string) *VirtualList[T] {
	l.label = label
	l.SetTitle(label)
	return l
}

// SetAriaLive sets the live-region politeness, e.g. "polite".
func (l *VirtualList[T]) SetAriaLive(live string) *VirtualList[T] {
	l.live = live
	return l
}

// SetRTL mirrors the horizontal layout: the scrollbar moves to the left and
// row text is right-aligned.
func (l *VirtualList[T]) SetRTL(rtl bool) *VirtualList[T] {
	if l.rtl != rtl {
		l.rtl = rtl
		l.MarkDirty()
	}
	return l
}

// SetRole sets the accessibility role.
func (l *VirtualList[T]) SetRole(role Role) *VirtualList[T] {
	if role == "" {
		role = RoleListbox
	}
	l.role = role
	return l
}

// SetFollowTail keeps the list pinned to the bottom while new items are
// appended, as long as it already rests there.
func (l *VirtualList[T]) SetFollowTail(follow bool) *VirtualList[T] {
	l.followTail = follow
	l.following = follow && (!l.mounted || l.controller.AtBottom())
	return l
}

// SetRenderer replaces the default row renderer.
func (l *VirtualList[T]) SetRenderer(renderer ItemRenderer[T]) *VirtualList[T] {
	l.renderer = renderer
	l.MarkDirty()
	return l
}

// SetScheduler sets the scheduler used for animation frames and debounced
// writes. Pass the Application to keep all callbacks on its event loop.
func (l *VirtualList[T]) SetScheduler(scheduler Scheduler) *VirtualList[T] {
	if scheduler == nil {
		scheduler = SystemScheduler()
	}
	l.scheduler = scheduler
	l.controller.SetScheduler(scheduler)
	return l
}

// SetLogger sets the logger for configuration and persistence problems.
func (l *VirtualList[T]) SetLogger(logger *slog.Logger) *VirtualList[T] {
	if logger == nil {
		logger = logging.NewNop()
	}
	l.logger = logger
	return l
}

// SetKeyMap replaces the navigation keys.
func (l *VirtualList[T]) SetKeyMap(keyMap keybind.NavigationKeyMap) *VirtualList[T] {
	l.keyMap = keyMap
	return l
}

// KeyMap returns the navigation keys.
func (l *VirtualList[T]) KeyMap() keybind.NavigationKeyMap {
	return l.keyMap
}

// SetSelectedStyle sets the style of the selected row.
func (l *VirtualList[T]) SetSelectedStyle(style tcell.Style) *VirtualList[T] {
	l.selectedStyle = style
	l.MarkDirty()
	return l
}

// SetHoverStyle sets the style of the row under the mouse.
func (l *VirtualList[T]) SetHoverStyle(style tcell.Style) *VirtualList[T] {
	l.hoverStyle = style
	l.MarkDirty()
	return l
}

// ScrollBar returns the scrollbar so its glyphs and click behaviour can be
// customised.
func (l *VirtualList[T]) ScrollBar() *ScrollBar {
	return l.scrollBar
}

func (l *VirtualList[T]) SetScrollFunc(handler func(ScrollEvent)) *VirtualList[T] {
	l.onScroll = handler
	return l
}

func (l *VirtualList[T]) SetReachTopFunc(handler func()) *VirtualList[T] {
	l.onReachTop = handler
	return l
}

func (l *VirtualList[T]) SetReachBottomFunc(handler func()) *VirtualList[T] {
	l.onReachBottom = handler
	return l
}

func (l *VirtualList[T]) SetItemClickFunc(handler func(ItemEvent[T])) *VirtualList[T] {
	l.onItemClick = handler
	return l
}

func (l *VirtualList[T]) SetItemHoverFunc(handler func(ItemEvent[T])) *VirtualList[T] {
	l.onItemHover = handler
	return l
}

// SetSelectedIndexFunc sets the handler that receives selection requests.
func (l *VirtualList[T]) SetSelectedIndexFunc(handler func(index int)) *VirtualList[T] {
	l.onSelected = handler
	return l
}

// Accessibility returns the container's accessibility attributes.
func (l *VirtualList[T]) Accessibility() Accessibility {
	return Accessibility{Role: l.role, Label: l.label, Live: l.live}
}

// Mount validates the configuration and restores the persisted offset. It is
// called implicitly by the first Draw. Calling it again is a no-op until
// Unmount.
func (l *VirtualList[T]) Mount() error {
	if l.mounted {
		return l.configErr
	}
	l.mounted = true
	l.configErr = nil
	l.configLogged = false

	l.controller.SetOverscan(l.overscan)
	l.controller.SetSmoothScroll(l.smooth)
	l.controller.SetItemCount(len(l.items))

	if err := l.validate(); err != nil {
		l.configErr = err
		return err
	}

	l.persister = NewScrollPersister(l.store, l.persistKey, l.scheduler, l.logger)
	restored := false
	if offset, ok := l.persister.Restore(); ok {
		l.controller.Restore(offset)
		restored = true
	}
	l.controller.SetItemHeight(l.itemHeight)
	l.following = l.followTail && !restored
	return nil
}

// Unmount drops the pending persistence write and any running animation. The
// viewport is discarded: the next Mount starts at the top unless a persisted
// offset is restored.
func (l *VirtualList[T]) Unmount() {
	if !l.mounted {
		return
	}
	l.mounted = false
	l.controller.Reset()
	l.hovered = -1
	if l.persister != nil {
		l.persister.Cancel()
		l.persister = nil
	}
	l.rendered = nil
}

// Mounted reports whether the list is mounted.
func (l *VirtualList[T]) Mounted() bool {
	return l.mounted
}

func (l *VirtualList[T]) validate() error {
	if err := (Geometry{ItemHeight: l.itemHeight}).Validate(); err != nil {
		return fmt.Errorf("virtual list: %w", err)
	}
	return nil
}

// ScrollTop returns the current scroll offset in rows.
func (l *VirtualList[T]) ScrollTop() int {
	return l.controller.ScrollTop()
}

// Percentage returns how far the list is scrolled, in [0,1].
func (l *VirtualList[T]) Percentage() float64 {
	return l.controller.Percentage()
}

// ScrollToIndex scrolls item index to the top of the viewport.
func (l *VirtualList[T]) ScrollToIndex(index int) {
	if l.ready() {
		l.controller.ScrollToIndex(index)
	}
}

// ScrollToTop scrolls to the first item.
func (l *VirtualList[T]) ScrollToTop() {
	if l.ready() {
		l.controller.ScrollToTop()
	}
}

// ScrollToBottom scrolls to the last item.
func (l *VirtualList[T]) ScrollToBottom() {
	if l.ready() {
		l.controller.ScrollToBottom()
	}
}

// VisibleRange returns the materialised index range.
func (l *VirtualList[T]) VisibleRange() Range {
	if !l.ready() {
		return Range{}
	}
	return l.controller.Geometry().VisibleRange()
}

// Rendered returns the rows materialised by the last Draw.
func (l *VirtualList[T]) Rendered() []RenderedRow[T] {
	return l.rendered
}

// ready mounts on demand and reports whether the engine may be used.
func (l *VirtualList[T]) ready() bool {
	if !l.mounted {
		_ = l.Mount()
	}
	if l.configErr != nil {
		l.logConfigError()
		return false
	}
	l.controller.SetContainerHeight(l.containerHeight())
	return true
}

func (l *VirtualList[T]) logConfigError() {
	if l.configLogged {
		return
	}
	l.configLogged = true
	l.logger.Error("list not rendered",
		logging.String(logging.FieldEventType, "invalid_configuration"),
		logging.Int("item_height", l.itemHeight),
		logging.Error(l.configErr))
}

func (l *VirtualList[T]) containerHeight() int {
	_, _, _, height := l.GetInnerRect()
	if l.height > 0 {
		height = min(height, l.height)
	}
	if l.maxHeight > 0 {
		height = min(height, l.maxHeight)
	}
	return max(height, 0)
}

func (l *VirtualList[T]) handleScroll(event ScrollEvent) {
	if l.persister != nil {
		l.persister.Schedule(event.ScrollTop)
	}
	if l.followTail {
		l.following = l.controller.AtBottom()
	}
	l.MarkDirty()
	if l.onScroll != nil {
		l.onScroll(event)
	}
}

// pinTail moves a following list onto the bottom edge.
func (l *VirtualList[T]) pinTail() {
	if !l.followTail || !l.following {
		return
	}
	g := l.controller.Geometry()
	if g.Validate() != nil || g.ContainerHeight == 0 {
		return
	}
	if g.ScrollTop != g.MaxScrollTop() {
		l.controller.HandleScroll(g.MaxScrollTop())
	}
}

// Draw draws the materialised rows and, when the content overflows, the
// scrollbar.
func (l *VirtualList[T]) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)
	l.rendered = l.rendered[:0]
	if !l.ready() {
		return
	}
	l.pinTail()

	x, y, width, _ := l.GetInnerRect()
	g := l.controller.Geometry()
	thumb, showBar := l.controller.Scrollbar()
	l.layout(x, y, width, g.ContainerHeight, showBar)

	clipped := newClippedScreen(screen, l.rows.x, l.rows.y, l.rows.width, l.rows.height)
	visible := g.VisibleRange()
	for index := visible.Start; index < visible.End; index++ {
		row := RenderedRow[T]{
			Index:    index,
			Item:     l.items[index],
			Offset:   g.ItemOffset(index),
			Selected: index == l.selected,
			Hovered:  index == l.hovered,
			RowRole:  RowRoleOption,
		}
		l.rendered = append(l.rendered, row)

		top := l.rows.y + row.Offset - g.ScrollTop
		if top+g.ItemHeight <= l.rows.y || top >= l.rows.y+l.rows.height {
			continue
		}
		if l.renderer != nil {
			l.renderer(clipped, l.rows.x, top, l.rows.width, g.ItemHeight, row)
		} else {
			l.drawRow(clipped, l.rows.x, top, l.rows.width, g.ItemHeight, row)
		}
	}

	l.scrollBar.SetRect(l.bar.x, l.bar.y, l.bar.width, l.bar.height)
	l.scrollBar.SetGeometry(thumb, showBar)
	if l.barVisible {
		l.scrollBar.Draw(screen)
	}
}

// layout splits the inner rect into the row area and the scrollbar column.
func (l *VirtualList[T]) layout(x, y, width, height int, showBar bool) {
	l.barVisible = showBar && width > 1
	l.rows = viewportRect{x: x, y: y, width: width, height: height}
	l.bar = viewportRect{}
	if !l.barVisible {
		return
	}
	l.rows.width--
	if l.rtl {
		l.bar = viewportRect{x: x, y: y, width: 1, height: height}
		l.rows.x++
	} else {
		l.bar = viewportRect{x: x + width - 1, y: y, width: 1, height: height}
	}
}

func (l *VirtualList[T]) drawRow(screen tcell.Screen, x, y, width, height int, row RenderedRow[T]) {
	style := tcell.StyleDefault.Foreground(Styles.PrimaryTextColor).Background(l.background)
	switch {
	case row.Selected:
		style = l.selectedStyle
	case row.Hovered:
		style = l.hoverStyle
	}
	if row.Selected || row.Hovered {
		fillRect(screen, x, y, width, height, style)
	}

	text := TruncateWidth(strings.TrimRight(fmt.Sprint(row.Item), "\r\n"), width)
	alignment := AlignmentLeft
	if l.rtl {
		alignment = AlignmentRight
	}
	PrintWithStyle(screen, text, x, y, width, alignment, style)
}

// indexAt returns the item under the screen cell, or -1.
func (l *VirtualList[T]) indexAt(x, y int) int {
	if !l.rows.contains(x, y) {
		return -1
	}
	g := l.controller.Geometry()
	if g.Validate() != nil || g.ItemCount == 0 {
		return -1
	}
	offset := g.ScrollTop + y - l.rows.y
	if offset >= g.TotalHeight() {
		return -1
	}
	return g.IndexAt(offset)
}

// navAction maps a key event to a navigation step.
func (l *VirtualList[T]) navAction(event *tcell.EventKey) NavAction {
	switch {
	case keybind.Matches(event, l.keyMap.Down):
		return NavNext
	case keybind.Matches(event, l.keyMap.Up):
		return NavPrev
	case keybind.Matches(event, l.keyMap.PageDown):
		return NavPageDown
	case keybind.Matches(event, l.keyMap.PageUp):
		return NavPageUp
	case keybind.Matches(event, l.keyMap.Home):
		return NavFirst
	case keybind.Matches(event, l.keyMap.End):
		return NavLast
	}
	return NavNone
}

// Navigate applies a navigation step: it requests the new selection from the
// host and scrolls the row into view. ok is false for an empty list.
func (l *VirtualList[T]) Navigate(action NavAction) (index int, ok bool) {
	if !l.ready() {
		return -1, false
	}
	g := l.controller.Geometry()
	visible := g.VisibleCount()
	index, ok = NextIndex(action, l.selected, len(l.items), visible)
	if !ok {
		return index, false
	}
	if l.onSelected != nil {
		l.onSelected(index)
	}
	l.controller.EnsureVisible(index)
	l.MarkDirty()
	return index, true
}

// InputHandler handles navigation keys.
func (l *VirtualList[T]) InputHandler(event *tcell.EventKey) Command {
	action := l.navAction(event)
	if action == NavNone {
		return nil
	}
	if _, ok := l.Navigate(action); !ok {
		return ConsumeEventCommand{}
	}
	return RedrawCommand{}
}

// MouseHandler handles wheel scrolling, row clicks and hovers, and scrollbar
// track clicks.
func (l *VirtualList[T]) MouseHandler(action MouseAction, event *tcell.EventMouse) (capture Primitive, cmd Command) {
	x, y := event.Position()
	if !l.InRect(x, y) {
		if action == MouseMove && l.hovered != -1 {
			l.hovered = -1
			l.MarkDirty()
			return nil, RedrawCommand{}
		}
		return nil, nil
	}
	if !l.ready() {
		return nil, nil
	}

	switch action {
	case MouseScrollUp:
		l.controller.ScrollBy(-wheelStep * l.controller.Geometry().ItemHeight)
		return nil, RedrawCommand{}
	case MouseScrollDown:
		l.controller.ScrollBy(wheelStep * l.controller.Geometry().ItemHeight)
		return nil, RedrawCommand{}
	case MouseLeftDown:
		cmd = SetFocusCommand{Target: l}
		if l.barVisible && l.bar.contains(x, y) {
			g := l.controller.Geometry()
			if offset, ok := l.scrollBar.OffsetForTrackClick(y-l.bar.y, l.bar.height, g.ScrollTop, g.TotalHeight(), g.ContainerHeight); ok {
				l.controller.HandleScroll(offset)
				cmd = AppendCommand(cmd, RedrawCommand{})
			}
		}
		return nil, cmd
	case MouseLeftClick:
		index := l.indexAt(x, y)
		if index < 0 {
			return nil, ConsumeEventCommand{}
		}
		if l.onItemClick != nil {
			l.onItemClick(ItemEvent[T]{Index: index, Item: l.items[index]})
		}
		if l.onSelected != nil {
			l.onSelected(index)
		}
		l.controller.EnsureVisible(index)
		l.MarkDirty()
		return nil, RedrawCommand{}
	case MouseMove:
		index := l.indexAt(x, y)
		if index == l.hovered {
			return nil, nil
		}
		l.hovered = index
		l.MarkDirty()
		if index >= 0 && l.onItemHover != nil {
			l.onItemHover(ItemEvent[T]{Index: index, Item: l.items[index]})
		}
		return nil, RedrawCommand{}
	}
	return nil, nil
}

var _ Primitive = (*VirtualList[string])(nil)
