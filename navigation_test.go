package vscroll

import "testing"

func TestNextIndex(t *testing.T) {
	tests := []struct {
		name    string
		action  NavAction
		current int
		count   int
		visible int
		want    int
		ok      bool
	}{
		{"next", NavNext, 2, 10, 4, 3, true},
		{"next clamps at end", NavNext, 9, 10, 4, 9, true},
		{"next from no selection", NavNext, -1, 10, 4, 0, true},
		{"prev", NavPrev, 2, 10, 4, 1, true},
		{"prev clamps at start", NavPrev, 0, 10, 4, 0, true},
		{"prev from no selection", NavPrev, -1, 10, 4, 0, true},
		{"page down", NavPageDown, 1, 10, 4, 5, true},
		{"page down clamps", NavPageDown, 8, 10, 4, 9, true},
		{"page up", NavPageUp, 6, 10, 4, 2, true},
		{"page up clamps", NavPageUp, 2, 10, 4, 0, true},
		{"page with empty viewport moves one", NavPageDown, 2, 10, 0, 3, true},
		{"first", NavFirst, 7, 10, 4, 0, true},
		{"last", NavLast, 0, 10, 4, 9, true},
		{"out of range current", NavNext, 40, 10, 4, 9, true},
		{"empty list", NavNext, 0, 0, 4, -1, false},
		{"unknown action", NavNone, 3, 10, 4, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextIndex(tt.action, tt.current, tt.count, tt.visible)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("NextIndex(%s, %d, %d, %d) = (%d, %v), want (%d, %v)",
					tt.action, tt.current, tt.count, tt.visible, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNavActionString(t *testing.T) {
	if NavPageDown.String() != "page-down" || NavNone.String() != "none" {
		t.Fatalf("unexpected names: %s %s", NavPageDown, NavNone)
	}
}
