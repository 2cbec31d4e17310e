package vscroll

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// ScrollBarArrows controls which endcaps are rendered.
type ScrollBarArrows uint8

const (
	ScrollBarArrowsNone ScrollBarArrows = iota
	ScrollBarArrowsStart
	ScrollBarArrowsEnd
	ScrollBarArrowsBoth
)

func (a ScrollBarArrows) hasStart() bool {
	return a == ScrollBarArrowsStart || a == ScrollBarArrowsBoth
}

func (a ScrollBarArrows) hasEnd() bool {
	return a == ScrollBarArrowsEnd || a == ScrollBarArrowsBoth
}

// TrackClickBehavior configures behavior when clicking scrollbar track cells
// outside the thumb.
type TrackClickBehavior uint8

const (
	// TrackClickBehaviorPage moves one viewport towards the click.
	TrackClickBehaviorPage TrackClickBehavior = iota
	// TrackClickBehaviorJumpToClick moves the thumb under the click.
	TrackClickBehaviorJumpToClick
)

const subcell = 8

// GlyphSet defines vertical track, arrow, and fractional thumb glyphs.
type GlyphSet struct {
	TrackVertical string

	ArrowVerticalStart string
	ArrowVerticalEnd   string

	ThumbVerticalLower [8]string
	ThumbVerticalUpper [8]string
}

// MinimalGlyphSet returns the minimal glyph set (space track, fractional thumbs).
func MinimalGlyphSet() GlyphSet {
	g := UnicodeGlyphSet()
	g.TrackVertical = " "
	return g
}

// LegacyComputingGlyphSet returns legacy-computing symbols for full 1/8
// fractional fidelity. Not every terminal font carries them.
func LegacyComputingGlyphSet() GlyphSet {
	g := UnicodeGlyphSet()
	g.ThumbVerticalUpper = [8]string{
		BlockUpperOneEighthBlock, "\U0001FB82", "\U0001FB83", BlockUpperHalfBlock,
		"\U0001FB84", "\U0001FB85", "\U0001FB86", BlockFullBlock,
	}
	return g
}

// UnicodeGlyphSet returns a standard-unicode-only approximation set.
func UnicodeGlyphSet() GlyphSet {
	return GlyphSet{
		TrackVertical: BoxDrawingsLightVertical,

		ArrowVerticalStart: GeometricBlackUpPointingTriangle,
		ArrowVerticalEnd:   GeometricBlackDownPointingTriangle,

		ThumbVerticalLower: [8]string{
			BlockLowerOneEighthBlock, BlockLowerOneQuarterBlock, BlockLowerThreeEighthsBlock, BlockLowerHalfBlock,
			BlockLowerFiveEighthsBlock, BlockLowerThreeQuartersBlock, BlockLowerSevenEighthsBlock, BlockFullBlock,
		},
		ThumbVerticalUpper: [8]string{
			BlockUpperOneEighthBlock, BlockUpperOneEighthBlock, BlockUpperHalfBlock, BlockUpperHalfBlock,
			BlockUpperHalfBlock, BlockUpperHalfBlock, BlockFullBlock, BlockFullBlock,
		},
	}
}

// ScrollBar renders a vertical scrollbar from a [ScrollbarGeometry]. It does
// not scroll anything by itself; the owning list feeds it the thumb ratios and
// asks it to translate track clicks into offsets.
type ScrollBar struct {
	*Box

	autoHide bool
	visible  bool
	geometry ScrollbarGeometry

	trackStyle tcell.Style
	thumbStyle tcell.Style
	arrowStyle tcell.Style

	glyphSet GlyphSet
	arrows   ScrollBarArrows

	trackClickBehavior TrackClickBehavior

	showTrack bool
}

// NewScrollBar returns a new vertical scrollbar.
func NewScrollBar() *ScrollBar {
	return &ScrollBar{
		Box:                NewBox(),
		autoHide:           true,
		trackStyle:         tcell.StyleDefault.Dim(true),
		thumbStyle:         tcell.StyleDefault,
		arrowStyle:         tcell.StyleDefault.Dim(true),
		glyphSet:           MinimalGlyphSet(),
		arrows:             ScrollBarArrowsNone,
		trackClickBehavior: TrackClickBehaviorPage,
		showTrack:          true,
	}
}

// SetGeometry sets the thumb ratios. visible is false when the content fits
// and there is nothing to scroll.
func (s *ScrollBar) SetGeometry(geometry ScrollbarGeometry, visible bool) *ScrollBar {
	geometry.ThumbOffsetRatio = clampRatio(geometry.ThumbOffsetRatio)
	geometry.ThumbSizeRatio = clampRatio(geometry.ThumbSizeRatio)
	if s.geometry != geometry || s.visible != visible {
		s.geometry = geometry
		s.visible = visible
		s.MarkDirty()
	}
	return s
}

// Geometry returns the thumb ratios last set and whether the thumb is shown.
func (s *ScrollBar) Geometry() (ScrollbarGeometry, bool) {
	return s.geometry, s.visible
}

// SetGlyphSet applies a glyph set.
func (s *ScrollBar) SetGlyphSet(g GlyphSet) *ScrollBar {
	s.glyphSet = g
	s.MarkDirty()
	return s
}

// SetArrows sets which arrow endcaps are rendered.
func (s *ScrollBar) SetArrows(arrows ScrollBarArrows) *ScrollBar {
	if s.arrows != arrows {
		s.arrows = arrows
		s.MarkDirty()
	}
	return s
}

// SetTrackClickBehavior sets behavior used for track clicks.
func (s *ScrollBar) SetTrackClickBehavior(behavior TrackClickBehavior) *ScrollBar {
	s.trackClickBehavior = behavior
	return s
}

// SetAutoHide controls whether the scrollbar is hidden when there is nothing
// to scroll. A scrollbar that does not auto-hide draws a full-length thumb.
func (s *ScrollBar) SetAutoHide(autoHide bool) *ScrollBar {
	if s.autoHide != autoHide {
		s.autoHide = autoHide
		s.MarkDirty()
	}
	return s
}

// SetThumbGlyph sets all thumb glyphs to a single symbol.
func (s *ScrollBar) SetThumbGlyph(glyph string) *ScrollBar {
	for i := range len(s.glyphSet.ThumbVerticalLower) {
		s.glyphSet.ThumbVerticalLower[i] = glyph
		s.glyphSet.ThumbVerticalUpper[i] = glyph
	}
	s.MarkDirty()
	return s
}

// SetThumbStyle sets the thumb style.
func (s *ScrollBar) SetThumbStyle(style tcell.Style) *ScrollBar {
	if s.thumbStyle != style {
		s.thumbStyle = style
		s.MarkDirty()
	}
	return s
}

// SetTrackGlyph sets the track symbol and visibility.
func (s *ScrollBar) SetTrackGlyph(glyph string, visible bool) *ScrollBar {
	s.glyphSet.TrackVertical = glyph
	s.showTrack = visible
	s.MarkDirty()
	return s
}

// SetTrackStyle sets the track style.
func (s *ScrollBar) SetTrackStyle(style tcell.Style) *ScrollBar {
	if s.trackStyle != style {
		s.trackStyle = style
		s.MarkDirty()
	}
	return s
}

// SetArrowStyle sets the arrow endcap style.
func (s *ScrollBar) SetArrowStyle(style tcell.Style) *ScrollBar {
	if s.arrowStyle != style {
		s.arrowStyle = style
		s.MarkDirty()
	}
	return s
}

func (s *ScrollBar) arrowCount() (start, end int) {
	if s.arrows.hasStart() {
		start = 1
	}
	if s.arrows.hasEnd() {
		end = 1
	}
	return start, end
}

func (s *ScrollBar) trackCells(length int) int {
	if length <= 0 {
		return 0
	}
	start, end := s.arrowCount()
	return max(length-start-end, 0)
}

type scrollMetrics struct {
	trackCells int
	trackLen   int
	thumbLen   int
	thumbStart int
}

// computeScrollMetrics converts thumb ratios into subcell units so the thumb
// can move in 1/8-cell steps.
func computeScrollMetrics(trackCells int, g ScrollbarGeometry) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen == 0 {
		return scrollMetrics{}
	}
	thumbLen := int(math.Round(float64(trackLen) * g.ThumbSizeRatio))
	thumbLen = min(max(thumbLen, subcell), trackLen)
	travel := trackLen - thumbLen
	thumbStart := int(math.Round(float64(travel) * g.ThumbOffsetRatio))
	return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

func (s *ScrollBar) metrics(length int) (scrollMetrics, bool) {
	if !s.visible {
		if s.autoHide {
			return scrollMetrics{}, false
		}
		return computeScrollMetrics(s.trackCells(length), ScrollbarGeometry{ThumbSizeRatio: 1}), length > 0
	}
	m := computeScrollMetrics(s.trackCells(length), s.geometry)
	return m, m.trackLen > 0
}

func cellFill(m scrollMetrics, cellIndex int) (start int, fillLen int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := cellIndex * subcell
	cellEnd := cellStart + subcell
	thumbEnd := m.thumbStart + m.thumbLen
	start = max(m.thumbStart, cellStart)
	end := min(thumbEnd, cellEnd)
	if end <= start {
		return 0, 0
	}
	// Cell-local [start,len] used by fractional glyph selection.
	fillLen = min(end-start, subcell)
	start = min(max(start-cellStart, 0), subcell)
	return start, fillLen
}

func (s *ScrollBar) glyphForVertical(start, fillLen int) (string, tcell.Style) {
	if fillLen <= 0 {
		if !s.showTrack {
			return " ", s.trackStyle
		}
		return s.glyphSet.TrackVertical, s.trackStyle
	}
	if fillLen >= subcell {
		return s.glyphSet.ThumbVerticalLower[7], s.thumbStyle
	}
	ix := fillLen - 1
	if start == 0 {
		return s.glyphSet.ThumbVerticalUpper[ix], s.thumbStyle
	}
	return s.glyphSet.ThumbVerticalLower[ix], s.thumbStyle
}

// OffsetForTrackClick maps a click on row (relative to the top of the
// scrollbar, arrows included) to a new scroll offset. height is the scrollbar
// height in cells, scrollTop the current offset, and content and viewport the
// total and visible lengths in the same units as scrollTop. ok is false when
// the click hit the thumb or nothing is scrollable.
func (s *ScrollBar) OffsetForTrackClick(row, height, scrollTop, content, viewport int) (offset int, ok bool) {
	maxOffset := max(content-viewport, 0)
	if maxOffset == 0 || height <= 0 || row < 0 || row >= height {
		return scrollTop, false
	}
	startArrow, endArrow := s.arrowCount()
	if startArrow == 1 && row == 0 {
		return max(scrollTop-viewport, 0), true
	}
	if endArrow == 1 && row == height-1 {
		return min(scrollTop+viewport, maxOffset), true
	}

	m := computeScrollMetrics(s.trackCells(height), s.geometry)
	if m.trackLen == 0 {
		return scrollTop, false
	}
	cell := row - startArrow
	clickStart := cell * subcell
	clickEnd := clickStart + subcell
	if clickEnd > m.thumbStart && clickStart < m.thumbStart+m.thumbLen {
		return scrollTop, false
	}

	switch s.trackClickBehavior {
	case TrackClickBehaviorJumpToClick:
		travel := m.trackLen - m.thumbLen
		if travel <= 0 {
			return scrollTop, false
		}
		// Centre the thumb on the clicked cell.
		center := clickStart + subcell/2 - m.thumbLen/2
		ratio := clampRatio(float64(center) / float64(travel))
		offset = int(math.Round(ratio * float64(maxOffset)))
	default:
		if clickStart < m.thumbStart {
			offset = scrollTop - viewport
		} else {
			offset = scrollTop + viewport
		}
	}
	return min(max(offset, 0), maxOffset), true
}

// Draw draws the scrollbar.
func (s *ScrollBar) Draw(screen tcell.Screen) {
	s.DrawForSubclass(screen, s)

	x, y, _, height := s.GetInnerRect()
	if height <= 0 {
		return
	}
	m, ok := s.metrics(height)
	if !ok {
		return
	}

	row := y
	if s.arrows.hasStart() {
		setCell(screen, x, row, s.glyphSet.ArrowVerticalStart, s.arrowStyle)
		row++
	}
	for cell := 0; cell < m.trackCells; cell++ {
		start, fillLen := cellFill(m, cell)
		glyph, style := s.glyphForVertical(start, fillLen)
		setCell(screen, x, row, glyph, style)
		row++
	}
	if s.arrows.hasEnd() {
		setCell(screen, x, row, s.glyphSet.ArrowVerticalEnd, s.arrowStyle)
	}
}

func clampRatio(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}

var _ Primitive = &ScrollBar{}
