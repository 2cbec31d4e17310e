package vscroll

import (
	"errors"
	"testing"
)

func TestGeometryVisibleRange(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		want Range
	}{
		{
			name: "top of a long list",
			g:    Geometry{ItemCount: 1000, ItemHeight: 50, ContainerHeight: 400, Overscan: 5},
			want: Range{Start: 0, End: 13},
		},
		{
			name: "middle of a long list",
			g:    Geometry{ItemCount: 1000, ItemHeight: 50, ContainerHeight: 400, Overscan: 5, ScrollTop: 5000},
			want: Range{Start: 95, End: 113},
		},
		{
			name: "partial row counts",
			g:    Geometry{ItemCount: 100, ItemHeight: 3, ContainerHeight: 10, Overscan: 0, ScrollTop: 4},
			want: Range{Start: 1, End: 5},
		},
		{
			name: "end clamped to count",
			g:    Geometry{ItemCount: 10, ItemHeight: 1, ContainerHeight: 5, Overscan: 3, ScrollTop: 5},
			want: Range{Start: 2, End: 10},
		},
		{
			name: "negative overscan treated as zero",
			g:    Geometry{ItemCount: 10, ItemHeight: 1, ContainerHeight: 2, Overscan: -4, ScrollTop: 3},
			want: Range{Start: 3, End: 5},
		},
		{
			name: "empty list",
			g:    Geometry{ItemHeight: 50, ContainerHeight: 400, Overscan: 3},
			want: Range{},
		},
		{
			name: "invalid item height",
			g:    Geometry{ItemCount: 10, ContainerHeight: 400, Overscan: 3},
			want: Range{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.g.VisibleRange()
			if got != tt.want {
				t.Fatalf("VisibleRange() = %+v, want %+v", got, tt.want)
			}
			if got.Start < 0 || got.Start > got.End || got.End > max(tt.g.ItemCount, 0) {
				t.Fatalf("range %+v violates 0 <= start <= end <= %d", got, tt.g.ItemCount)
			}
		})
	}
}

func TestGeometryWindowCoversViewportPlusOverscan(t *testing.T) {
	base := Geometry{ItemCount: 1000, ItemHeight: 50, ContainerHeight: 400, Overscan: 5}
	for top := 250; top <= 40000; top += 777 {
		g := base
		g.ScrollTop = top
		r := g.VisibleRange()
		if r.Start == 0 || r.End == g.ItemCount {
			continue
		}
		if want := g.VisibleCount() + 2*g.Overscan; r.Len() < want {
			t.Fatalf("scrollTop %d: window %d rows, want at least %d", top, r.Len(), want)
		}
	}
}

func TestGeometryTotalsAndClamp(t *testing.T) {
	g := Geometry{ItemCount: 1000, ItemHeight: 50, ContainerHeight: 400}
	if got := g.TotalHeight(); got != 50000 {
		t.Fatalf("TotalHeight() = %d, want 50000", got)
	}
	if got := g.MaxScrollTop(); got != 49600 {
		t.Fatalf("MaxScrollTop() = %d, want 49600", got)
	}
	for _, tc := range []struct{ in, want int }{{-10, 0}, {0, 0}, {700, 700}, {60000, 49600}} {
		if got := g.ClampScrollTop(tc.in); got != tc.want {
			t.Fatalf("ClampScrollTop(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}

	short := Geometry{ItemCount: 3, ItemHeight: 50, ContainerHeight: 400}
	if got := short.MaxScrollTop(); got != 0 {
		t.Fatalf("short list MaxScrollTop() = %d, want 0", got)
	}
	if got := (Geometry{ItemHeight: 50}).TotalHeight(); got != 0 {
		t.Fatalf("empty TotalHeight() = %d, want 0", got)
	}
}

func TestGeometryOffsetsAndIndexAt(t *testing.T) {
	g := Geometry{ItemCount: 20, ItemHeight: 50, ContainerHeight: 400}
	if got := g.ItemOffset(10); got != 500 {
		t.Fatalf("ItemOffset(10) = %d, want 500", got)
	}
	if got := g.IndexAt(549); got != 10 {
		t.Fatalf("IndexAt(549) = %d, want 10", got)
	}
	if got := g.IndexAt(1000); got != -1 {
		t.Fatalf("IndexAt past end = %d, want -1", got)
	}
	if got := g.IndexAt(-1); got != -1 {
		t.Fatalf("IndexAt(-1) = %d, want -1", got)
	}
}

func TestGeometryValidate(t *testing.T) {
	for _, height := range []int{0, -5} {
		err := Geometry{ItemCount: 10, ItemHeight: height}.Validate()
		if !errors.Is(err, ErrInvalidItemHeight) {
			t.Fatalf("height %d: expected ErrInvalidItemHeight, got %v", height, err)
		}
	}
	if err := (Geometry{ItemHeight: 1}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRange(t *testing.T) {
	r := Range{Start: 2, End: 5}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	if !r.Contains(2) || !r.Contains(4) || r.Contains(5) || r.Contains(1) {
		t.Fatalf("Contains is not half-open for %+v", r)
	}
	if (Range{Start: 4, End: 1}).Len() != 0 {
		t.Fatal("inverted range should be empty")
	}
}
