// Package help draws the key hints of a list: a one-line summary, or one
// column per key group. When it follows a list cursor, navigation keys that
// would leave the selection where it is are drawn idle.
package help

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/vscroll"
	"github.com/xqrs/vscroll/keybind"
)

const (
	shortSeparator = " • "
	columnGap      = "    "
)

type KeyMap interface {
	// ShortHelp returns the keys of the one-line summary.
	ShortHelp() []keybind.Keybind
	// FullHelp returns key groups; each group becomes a column.
	FullHelp() [][]keybind.Keybind
}

// Cursor is the selection a help view follows.
type Cursor interface {
	SelectedIndex() int
	Len() int
}

// Help draws the hints of a KeyMap.
type Help struct {
	*vscroll.Box
	Styles Styles

	keyMap  KeyMap
	showAll bool

	cursor Cursor
	nav    keybind.NavigationKeyMap
}

func New() *Help {
	return &Help{
		Box:    vscroll.NewBox(),
		Styles: DefaultStyles(),
	}
}

// SetKeyMap sets the keys to describe.
func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	h.MarkDirty()
	return h
}

// SetShowAll switches between the one-line summary and the column layout.
func (h *Help) SetShowAll(showAll bool) *Help {
	h.showAll = showAll
	h.MarkDirty()
	return h
}

// ShowAll reports whether the column layout is drawn.
func (h *Help) ShowAll() bool {
	return h.showAll
}

// SetCursor makes the bindings of nav follow cursor. A nil cursor draws every
// key as active.
func (h *Help) SetCursor(cursor Cursor, nav keybind.NavigationKeyMap) *Help {
	h.cursor = cursor
	h.nav = nav
	h.MarkDirty()
	return h
}

// Draw draws this primitive onto the screen.
func (h *Help) Draw(screen tcell.Screen) {
	h.DrawForSubclass(screen, h)
	if h.keyMap == nil {
		return
	}

	x, y, width, height := h.GetInnerRect()
	var lines []line
	if h.showAll {
		lines = h.columns(h.keyMap.FullHelp(), width)
	} else if l := h.summary(h.keyMap.ShortHelp(), width); len(l) > 0 {
		lines = []line{l}
	}
	for row, l := range lines {
		if row >= height {
			break
		}
		l.draw(screen, x, y+row, width)
	}
}

// FullHelpLines returns the column layout of groups as plain text.
func (h *Help) FullHelpLines(groups [][]keybind.Keybind, maxWidth int) []string {
	lines := h.columns(groups, maxWidth)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

// hint is one key and its description.
type hint struct {
	key, desc string
	idle      bool
}

func (h *Help) hints(bindings []keybind.Keybind) []hint {
	out := make([]hint, 0, len(bindings))
	for _, kb := range bindings {
		help := kb.Help()
		if !kb.Enabled() || help.Key == "" && help.Desc == "" {
			continue
		}
		out = append(out, hint{key: help.Key, desc: help.Desc, idle: h.idle(kb)})
	}
	return out
}

// idle reports whether kb is a navigation key that cannot move the cursor.
func (h *Help) idle(kb keybind.Keybind) bool {
	if h.cursor == nil {
		return false
	}
	action := navAction(h.nav, kb)
	if action == vscroll.NavNone {
		return false
	}
	current := h.cursor.SelectedIndex()
	next, ok := vscroll.NextIndex(action, current, h.cursor.Len(), 1)
	return !ok || next == current
}

func navAction(m keybind.NavigationKeyMap, kb keybind.Keybind) vscroll.NavAction {
	keys := kb.Keys()
	if len(keys) == 0 {
		return vscroll.NavNone
	}
	for _, candidate := range []struct {
		kb     keybind.Keybind
		action vscroll.NavAction
	}{
		{m.Down, vscroll.NavNext},
		{m.Up, vscroll.NavPrev},
		{m.PageDown, vscroll.NavPageDown},
		{m.PageUp, vscroll.NavPageUp},
		{m.Home, vscroll.NavFirst},
		{m.End, vscroll.NavLast},
	} {
		if slices.Equal(candidate.kb.Keys(), keys) {
			return candidate.action
		}
	}
	return vscroll.NavNone
}

// summary joins as many hints as fit in maxWidth. Hints that do not fit are
// replaced by an ellipsis when there is room for it.
func (h *Help) summary(bindings []keybind.Keybind, maxWidth int) line {
	var out line
	hints := h.hints(bindings)
	for i, hn := range hints {
		var next line
		if i > 0 {
			next.add(shortSeparator, h.Styles.Separator)
		}
		next.addHint(hn, h.Styles, 0)
		if maxWidth > 0 && out.width()+next.width() > maxWidth {
			if i == 0 {
				return nil
			}
			h.addEllipsis(&out, maxWidth)
			return out
		}
		out = append(out, next...)
	}
	return out
}

type column struct {
	hints    []hint
	keyWidth int
	width    int
}

// columns lays groups out left to right. Columns that would overflow
// maxWidth are dropped and marked by an ellipsis on the first row.
func (h *Help) columns(groups [][]keybind.Keybind, maxWidth int) []line {
	var cols []column
	for _, group := range groups {
		hints := h.hints(group)
		if len(hints) == 0 {
			continue
		}
		col := column{hints: hints}
		for _, hn := range hints {
			col.keyWidth = max(col.keyWidth, vscroll.TaggedStringWidth(hn.key))
		}
		for _, hn := range hints {
			col.width = max(col.width, hn.width(col.keyWidth))
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return nil
	}

	gap := vscroll.TaggedStringWidth(columnGap)
	used, fit := 0, 0
	for i, col := range cols {
		w := col.width
		if i > 0 {
			w += gap
		}
		if maxWidth > 0 && used+w > maxWidth {
			break
		}
		used += w
		fit++
	}
	if fit == 0 {
		return []line{{{text: vscroll.SemigraphicsHorizontalEllipsis, style: h.Styles.Ellipsis}}}
	}
	shown := cols[:fit]

	rows := 0
	for _, col := range shown {
		rows = max(rows, len(col.hints))
	}
	lines := make([]line, rows)
	for row := range lines {
		for i, col := range shown {
			if i > 0 {
				lines[row].add(columnGap, h.Styles.Separator)
			}
			last := i == len(shown)-1
			if row >= len(col.hints) {
				if !last {
					lines[row].add(strings.Repeat(" ", col.width), h.Styles.Desc)
				}
				continue
			}
			pad := col.width
			if last {
				pad = 0
			}
			lines[row].addHint(col.hints[row], h.Styles, col.keyWidth, pad)
		}
		lines[row] = lines[row].trimRight()
	}
	if fit < len(cols) {
		h.addEllipsis(&lines[0], maxWidth)
	}
	return lines
}

func (h *Help) addEllipsis(l *line, maxWidth int) {
	tail := " " + vscroll.SemigraphicsHorizontalEllipsis
	if maxWidth > 0 && l.width()+vscroll.TaggedStringWidth(tail) <= maxWidth {
		l.add(tail, h.Styles.Ellipsis)
	}
}

func (hn hint) width(keyWidth int) int {
	w := keyWidth
	if hn.key != "" && hn.desc != "" {
		w++
	}
	return w + vscroll.TaggedStringWidth(hn.desc)
}

type span struct {
	text  string
	style tcell.Style
}

// line is a row of styled text.
type line []span

func (l *line) add(text string, style tcell.Style) {
	if text != "" {
		*l = append(*l, span{text: text, style: style})
	}
}

// addHint appends hn with its key padded to keyWidth. A positive cellWidth
// pads the whole hint to that width.
func (l *line) addHint(hn hint, styles Styles, keyWidth int, cellWidth ...int) {
	keyStyle, descStyle := styles.Key, styles.Desc
	if hn.idle {
		keyStyle, descStyle = styles.Idle, styles.Idle
	}
	start := l.width()
	l.add(hn.key, keyStyle)
	if pad := keyWidth - vscroll.TaggedStringWidth(hn.key); pad > 0 {
		l.add(strings.Repeat(" ", pad), keyStyle)
	}
	if hn.key != "" && hn.desc != "" {
		l.add(" ", descStyle)
	}
	l.add(hn.desc, descStyle)
	if len(cellWidth) > 0 {
		if pad := cellWidth[0] - (l.width() - start); pad > 0 {
			l.add(strings.Repeat(" ", pad), styles.Desc)
		}
	}
}

func (l line) width() int {
	w := 0
	for _, s := range l {
		w += vscroll.TaggedStringWidth(s.text)
	}
	return w
}

// trimRight drops trailing blank spans.
func (l line) trimRight() line {
	for len(l) > 0 && strings.TrimSpace(l[len(l)-1].text) == "" {
		l = l[:len(l)-1]
	}
	return l
}

func (l line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.text)
	}
	return b.String()
}

func (l line) draw(screen tcell.Screen, x, y, width int) {
	for _, s := range l {
		if width <= 0 {
			return
		}
		_, printed := vscroll.PrintWithStyle(screen, s.text, x, y, width, vscroll.AlignmentLeft, s.style)
		x += printed
		width -= printed
	}
}
