package vscroll

import (
	"errors"
	"fmt"
)

// ErrInvalidItemHeight is returned when a list is configured with an item
// height that is zero or negative.
var ErrInvalidItemHeight = errors.New("item height must be positive")

// Range is a half-open interval [Start, End) of item indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return max(r.End-r.Start, 0)
}

// Contains reports whether index lies inside the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// Geometry describes a fixed-height list laid out in a scrollable viewport.
// All methods are pure; a Geometry is recomputed whenever one of its inputs
// changes and is never cached across such changes.
type Geometry struct {
	ItemCount       int
	ItemHeight      int
	ContainerHeight int
	Overscan        int
	ScrollTop       int
}

// Validate returns ErrInvalidItemHeight if the geometry cannot be laid out.
func (g Geometry) Validate() error {
	if g.ItemHeight <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidItemHeight, g.ItemHeight)
	}
	return nil
}

func (g Geometry) valid() bool {
	return g.ItemHeight > 0
}

func (g Geometry) count() int {
	return max(g.ItemCount, 0)
}

func (g Geometry) container() int {
	return max(g.ContainerHeight, 0)
}

// TotalHeight returns the height of the full content, independent of how many
// rows are materialised.
func (g Geometry) TotalHeight() int {
	if !g.valid() {
		return 0
	}
	return g.count() * g.ItemHeight
}

// MaxScrollTop returns the largest reachable scroll offset.
func (g Geometry) MaxScrollTop() int {
	return max(0, g.TotalHeight()-g.container())
}

// ClampScrollTop clamps offset into [0, MaxScrollTop()].
func (g Geometry) ClampScrollTop(offset int) int {
	return min(max(offset, 0), g.MaxScrollTop())
}

// FirstVisible returns the index of the item under the top edge of the
// viewport, clamped to [0, ItemCount].
func (g Geometry) FirstVisible() int {
	if !g.valid() {
		return 0
	}
	return min(max(g.ScrollTop/g.ItemHeight, 0), g.count())
}

// VisibleCount returns how many item slots fit in the viewport, rounding up so
// a partially visible row counts.
func (g Geometry) VisibleCount() int {
	if !g.valid() {
		return 0
	}
	return (g.container() + g.ItemHeight - 1) / g.ItemHeight
}

// VisibleRange returns the window of items to materialise, including overscan
// on both sides where the sequence allows it.
func (g Geometry) VisibleRange() Range {
	if !g.valid() || g.count() == 0 {
		return Range{}
	}
	overscan := max(g.Overscan, 0)
	first := g.FirstVisible()
	start := max(0, first-overscan)
	end := min(g.count(), first+g.VisibleCount()+overscan)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// ItemOffset returns the absolute offset of item index from the top of the
// content.
func (g Geometry) ItemOffset(index int) int {
	if !g.valid() {
		return 0
	}
	return index * g.ItemHeight
}

// IndexAt returns the item index covering the absolute content offset, or -1.
func (g Geometry) IndexAt(offset int) int {
	if !g.valid() || offset < 0 {
		return -1
	}
	index := offset / g.ItemHeight
	if index >= g.count() {
		return -1
	}
	return index
}
