package vscroll

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
)

// Box is the base of every primitive: a rectangle with an optional frame, a
// caption on the top edge and one on the bottom edge. A list draws its
// accessible label as the title and its position status as the footer.
//
// Embedders get rectangle bookkeeping, focus state and dirty tracking.
type Box struct {
	outer rect
	// inner is recomputed lazily after any change that moves the content area.
	inner      rect
	innerValid bool

	background  tcell.Color
	borders     Borders
	borderSet   BorderSet
	borderStyle tcell.Style

	title  caption
	footer caption

	hasFocus bool

	dirty atomic.Bool
	// dirtyParent is notified on the clean to dirty transition so containers
	// never have to scan their children.
	dirtyParent atomic.Pointer[Box]
}

type rect struct {
	x, y, width, height int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.width && y >= r.y && y < r.y+r.height
}

// inset shrinks r by the given edges. The size never goes negative.
func (r rect) inset(top, bottom, left, right int) rect {
	return rect{
		x:      r.x + left,
		y:      r.y + top,
		width:  max(r.width-left-right, 0),
		height: max(r.height-top-bottom, 0),
	}
}

// caption is a line of text printed over a horizontal edge of the box.
type caption struct {
	text  string
	style tcell.Style
	align Alignment
}

// draw prints the caption between the corners of a box edge at row y. Text
// that does not fit is cut and ends with an ellipsis.
func (c caption) draw(screen tcell.Screen, x, y, width int) {
	if c.text == "" || width < 4 {
		return
	}
	start, end, _ := printWithStyle(screen, c.text, x+1, y, 0, width-2, c.align, c.style, true)
	printed := end - start
	if printed <= 0 || printed >= len(c.text) {
		return
	}
	ellipsisX := x + width - 2
	if c.align == AlignmentRight {
		ellipsisX = x + 1
	}
	_, _, style, _ := screen.GetContent(ellipsisX, y)
	fg, _, _ := style.Decompose()
	Print(screen, SemigraphicsHorizontalEllipsis, ellipsisX, y, 1, AlignmentLeft, fg)
}

// NewBox returns a Box without a border.
func NewBox() *Box {
	b := &Box{
		outer:       rect{width: 15, height: 10},
		background:  Styles.PrimitiveBackgroundColor,
		borderSet:   BorderSetPlain(),
		borderStyle: tcell.StyleDefault.Foreground(Styles.BorderColor).Background(Styles.PrimitiveBackgroundColor),
		title:       caption{style: tcell.StyleDefault.Foreground(Styles.TitleColor), align: AlignmentCenter},
		footer:      caption{style: tcell.StyleDefault.Foreground(Styles.TitleColor), align: AlignmentCenter},
	}
	b.dirty.Store(true)
	return b
}

// change stores v in *field. A changed value dirties the box, and when reflow
// is set it also invalidates the inner rectangle.
func change[V comparable](b *Box, field *V, v V, reflow bool) {
	if *field == v {
		return
	}
	*field = v
	if reflow {
		b.innerValid = false
	}
	b.MarkDirty()
}

// GetRect returns the position and size of the box.
func (b *Box) GetRect() (int, int, int, int) {
	r := b.outer
	return r.x, r.y, r.width, r.height
}

// GetInnerRect returns the content area: the rectangle minus the frame and
// any edge that carries a caption. Width and height are never negative.
func (b *Box) GetInnerRect() (int, int, int, int) {
	if !b.innerValid {
		b.inner = b.outer.inset(
			edge(b.title.text != "" || b.borders.Has(BordersTop)),
			edge(b.footer.text != "" || b.borders.Has(BordersBottom)),
			edge(b.borders.Has(BordersLeft)),
			edge(b.borders.Has(BordersRight)),
		)
		b.innerValid = true
	}
	r := b.inner
	return r.x, r.y, r.width, r.height
}

func edge(present bool) int {
	if present {
		return 1
	}
	return 0
}

// SetRect moves and resizes the box.
func (b *Box) SetRect(x, y, width, height int) {
	change(b, &b.outer, rect{x: x, y: y, width: width, height: height}, true)
}

// IsDirty returns whether this primitive needs redrawing.
func (b *Box) IsDirty() bool {
	return b.dirty.Load()
}

// MarkDirty marks this primitive, and the container it is bound to, as
// needing a redraw.
func (b *Box) MarkDirty() {
	if b.dirty.Swap(true) {
		return
	}
	if parent := b.dirtyParent.Load(); parent != nil {
		parent.MarkDirty()
	}
}

// MarkClean marks this primitive as clean.
func (b *Box) MarkClean() {
	b.dirty.Store(false)
}

func (b *Box) setDirtyParent(parent *Box) {
	if parent != nil && parent != b {
		b.dirtyParent.Store(parent)
	}
}

func (b *Box) clearDirtyParent(parent *Box) {
	if parent != nil {
		b.dirtyParent.CompareAndSwap(parent, nil)
	}
}

type dirtyParentSetter interface {
	setDirtyParent(parent *Box)
	clearDirtyParent(parent *Box)
}

// BindDirtyParent makes child dirty its container parent whenever it needs
// a redraw. Only primitives built on a Box take part.
func BindDirtyParent(child Primitive, parent *Box) {
	if setter, ok := child.(dirtyParentSetter); ok && parent != nil {
		setter.setDirtyParent(parent)
	}
}

// UnbindDirtyParent undoes BindDirtyParent.
func UnbindDirtyParent(child Primitive, parent *Box) {
	if setter, ok := child.(dirtyParentSetter); ok && parent != nil {
		setter.clearDirtyParent(parent)
	}
}

// InputHandler ignores all key events.
func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

// MouseHandler focuses the box when it is clicked.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (capture Primitive, cmd Command) {
	if action == MouseLeftDown && b.InRect(event.Position()) {
		return nil, SetFocusCommand{Target: b}
	}
	return nil, nil
}

// InRect reports whether the cell at x, y lies inside the box.
func (b *Box) InRect(x, y int) bool {
	return b.outer.contains(x, y)
}

// SetBorders sets which edges of the frame are drawn.
func (b *Box) SetBorders(flag Borders) *Box {
	change(b, &b.borders, flag, true)
	return b
}

// SetBorderSet sets the glyphs of the frame.
func (b *Box) SetBorderSet(borderSet BorderSet) *Box {
	change(b, &b.borderSet, borderSet, false)
	return b
}

// GetTitle returns the text on the top edge.
func (b *Box) GetTitle() string {
	return b.title.text
}

// SetTitle sets the text on the top edge.
func (b *Box) SetTitle(title string) *Box {
	change(b, &b.title.text, title, true)
	return b
}

// GetFooter returns the text on the bottom edge.
func (b *Box) GetFooter() string {
	return b.footer.text
}

// SetFooter sets the text on the bottom edge.
func (b *Box) SetFooter(footer string) *Box {
	change(b, &b.footer.text, footer, true)
	return b
}

// SetFooterAlignment sets where the footer sits on the bottom edge.
func (b *Box) SetFooterAlignment(alignment Alignment) *Box {
	change(b, &b.footer.align, alignment, false)
	return b
}

// Draw draws this primitive onto the screen.
func (b *Box) Draw(screen tcell.Screen) {
	b.DrawForSubclass(screen, b)
}

// DrawForSubclass draws the background, frame and captions of a primitive p
// that embeds this box. Embedders call it before drawing their content.
func (b *Box) DrawForSubclass(screen tcell.Screen, p Primitive) {
	r := b.outer
	if r.width <= 0 || r.height <= 0 {
		return
	}
	fillRect(screen, r.x, r.y, r.width, r.height, tcell.StyleDefault.Background(b.background))
	if b.borders != BordersNone && r.width >= 2 && r.height >= 2 {
		b.drawFrame(screen)
	}
	b.title.draw(screen, r.x, r.y, r.width)
	b.footer.draw(screen, r.x, r.y+r.height-1, r.width)
	b.innerValid = false
	b.GetInnerRect()
}

func (b *Box) drawFrame(screen tcell.Screen) {
	r, set, style := b.outer, b.borderSet, b.borderStyle
	left, right := r.x, r.x+r.width-1
	top, bottom := r.y, r.y+r.height-1

	for x := left + 1; x < right; x++ {
		if b.borders.Has(BordersTop) {
			setCell(screen, x, top, set.Top, style)
		}
		if b.borders.Has(BordersBottom) {
			setCell(screen, x, bottom, set.Bottom, style)
		}
	}
	for y := top + 1; y < bottom; y++ {
		if b.borders.Has(BordersLeft) {
			setCell(screen, left, y, set.Left, style)
		}
		if b.borders.Has(BordersRight) {
			setCell(screen, right, y, set.Right, style)
		}
	}

	corners := []struct {
		edges Borders
		x, y  int
		glyph string
	}{
		{BordersTop | BordersLeft, left, top, set.TopLeft},
		{BordersTop | BordersRight, right, top, set.TopRight},
		{BordersBottom | BordersLeft, left, bottom, set.BottomLeft},
		{BordersBottom | BordersRight, right, bottom, set.BottomRight},
	}
	for _, c := range corners {
		if b.borders.Has(c.edges) {
			setCell(screen, c.x, c.y, c.glyph, style)
		}
	}
}

// Focus is called when this primitive directly receives focus.
func (b *Box) Focus(delegate func(p Primitive)) {
	change(b, &b.hasFocus, true, false)
}

// Blur is called when this primitive directly loses focus.
func (b *Box) Blur() {
	change(b, &b.hasFocus, false, false)
}

// HasFocus returns whether or not this primitive has focus.
func (b *Box) HasFocus() bool {
	return b.hasFocus
}
