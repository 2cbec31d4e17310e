package main

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/xqrs/vscroll"
	"github.com/xqrs/vscroll/help"
	"github.com/xqrs/vscroll/internal/config"
	"github.com/xqrs/vscroll/internal/logging"
	"github.com/xqrs/vscroll/keybind"
	"github.com/xqrs/vscroll/layers"
	"github.com/xqrs/vscroll/store"
)

const (
	listLayer = "list"
	helpLayer = "help"
)

type browserKeyMap struct {
	keybind.NavigationKeyMap
	Copy keybind.Keybind
	Help keybind.Keybind
	Quit keybind.Keybind
}

func newBrowserKeyMap(nav keybind.NavigationKeyMap) browserKeyMap {
	return browserKeyMap{
		NavigationKeyMap: nav,
		Copy:             keybind.NewKeybind(keybind.WithKeys("y"), keybind.WithHelp("y", "copy row")),
		Help:             keybind.NewKeybind(keybind.WithKeys("?"), keybind.WithHelp("?", "help")),
		Quit:             keybind.NewKeybind(keybind.WithKeys("q", "esc", "ctrl+c"), keybind.WithHelp("q/esc", "quit")),
	}
}

func (m browserKeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{m.Down, m.Up, m.Help, m.Quit}
}

func (m browserKeyMap) FullHelp() [][]keybind.Keybind {
	return append(m.NavigationKeyMap.FullHelp(), []keybind.Keybind{m.Copy, m.Help, m.Quit})
}

type browserOptions struct {
	title  string
	items  []string
	filter string

	// generateTotal rows are produced pageSize at a time as the list reaches
	// its bottom. A zero pageSize produces them all up front.
	generateTotal int
	pageSize      int
}

// browser is the root primitive of the browse command: a virtual list with a
// help overlay and a few global keys on top of it.
type browser struct {
	*layers.Layers

	list   *vscroll.VirtualList[string]
	help   *help.Help
	keys   browserKeyMap
	store  store.Store
	logger *slog.Logger

	persistKey string
	filter     string
	items      []string
	status     string

	scheduler     vscroll.Scheduler
	generated     int
	generateTotal int
	pageSize      int

	copy func(string) error
}

func newBrowser(cfg config.List, opts browserOptions, scheduler vscroll.Scheduler, st store.Store, logger *slog.Logger) *browser {
	if logger == nil {
		logger = logging.NewNop()
	}
	b := &browser{
		Layers:        layers.New(),
		list:          vscroll.NewVirtualList[string](),
		help:          help.New(),
		store:         st,
		logger:        logging.NewComponentLogger(logger, "browser"),
		persistKey:    cfg.PersistKey,
		filter:        opts.filter,
		scheduler:     scheduler,
		generateTotal: opts.generateTotal,
		pageSize:      opts.pageSize,
		copy:          func(string) error { return fmt.Errorf("clipboard not configured") },
	}
	b.keys = newBrowserKeyMap(b.list.KeyMap())

	b.list.
		SetItemHeight(cfg.ItemHeight).
		SetHeight(cfg.Height).
		SetMaxHeight(cfg.MaxHeight).
		SetOverscan(cfg.Overscan).
		SetSmoothScroll(cfg.SmoothScroll).
		SetRole(vscroll.Role(cfg.Role)).
		SetRTL(cfg.RTL).
		SetFollowTail(cfg.FollowTail).
		SetPersistScrollKey(cfg.PersistKey).
		SetStore(st).
		SetScheduler(scheduler).
		SetLogger(logger).
		SetAriaLabel(opts.title).
		SetSelectedIndexFunc(func(index int) {
			b.list.SetSelectedIndex(index)
			b.status = ""
			b.updateFooter()
		}).
		SetScrollFunc(func(vscroll.ScrollEvent) {
			b.updateFooter()
		}).
		SetReachBottomFunc(func() {
			// Appending from inside a scroll notification would re-enter the
			// controller.
			b.scheduler.AfterFunc(0, b.loadMore)
		})
	b.list.SetBorders(vscroll.BordersAll)
	if borderSet, ok := vscroll.BorderSetByName(cfg.Border); ok {
		b.list.SetBorderSet(borderSet)
		b.help.SetBorderSet(borderSet)
	}
	b.list.SetFooterAlignment(vscroll.AlignmentRight)

	b.help.SetKeyMap(b.keys).SetShowAll(true).SetCursor(b.list, b.keys.NavigationKeyMap)
	b.help.SetBorders(vscroll.BordersAll)
	b.help.SetTitle(" keys ")

	b.AddLayer(b.list, layers.WithName(listLayer), layers.WithResize(true))
	b.AddLayer(b.help, layers.WithName(helpLayer), layers.WithOverlay(), layers.WithVisible(false))
	b.SetBackgroundLayerStyle(tcell.StyleDefault.Dim(true))

	items := opts.items
	if b.generateTotal > 0 {
		first := b.generateTotal
		if b.pageSize > 0 {
			first = min(b.pageSize, b.generateTotal)
		}
		items = generateItems(0, first)
		b.generated = first
	}
	b.items = filterItems(items, b.filter)
	b.list.SetItems(b.items)
	b.updateFooter()
	return b
}

// InputHandler handles the global keys and passes the rest to the front
// layer.
func (b *browser) InputHandler(event *tcell.EventKey) vscroll.Command {
	helpVisible := b.GetVisible(helpLayer)
	switch {
	case keybind.Matches(event, b.keys.Quit):
		if helpVisible {
			b.HideLayer(helpLayer)
			return vscroll.RedrawCommand{}
		}
		b.savePosition()
		return vscroll.QuitCommand{}
	case keybind.Matches(event, b.keys.Help):
		if helpVisible {
			b.HideLayer(helpLayer)
		} else {
			b.ShowLayer(helpLayer)
		}
		return vscroll.RedrawCommand{}
	case keybind.Matches(event, b.keys.Copy) && !helpVisible:
		b.copySelected()
		return vscroll.RedrawCommand{}
	}
	return b.Layers.InputHandler(event)
}

// Draw centres the help overlay before drawing the layers.
func (b *browser) Draw(screen tcell.Screen) {
	if b.GetVisible(helpLayer) {
		b.layoutHelp()
	}
	b.Layers.Draw(screen)
}

func (b *browser) layoutHelp() {
	x, y, width, height := b.GetRect()
	lines := b.help.FullHelpLines(b.keys.FullHelp(), max(width-2, 0))
	w := 0
	for _, line := range lines {
		w = max(w, runewidth.StringWidth(line))
	}
	w = min(w+2, width)
	h := min(len(lines)+2, height)
	b.help.SetRect(x+(width-w)/2, y+(height-h)/2, w, h)
}

func (b *browser) copySelected() {
	index := b.list.SelectedIndex()
	if index < 0 || index >= len(b.items) {
		b.setStatus("nothing selected")
		return
	}
	if err := b.copy(b.items[index]); err != nil {
		logging.WarnWithContext(b.logger, "copy row to clipboard", "clipboard_unavailable",
			logging.Int("index", index),
			logging.Error(err))
		b.setStatus("clipboard unavailable")
		return
	}
	b.setStatus(fmt.Sprintf("copied row %d", index+1))
}

// appendItems adds lines that pass the filter to the end of the list.
func (b *browser) appendItems(lines []string) {
	matched := filterItems(lines, b.filter)
	if len(matched) == 0 {
		return
	}
	b.items = append(b.items, matched...)
	b.list.SetItems(b.items)
	b.updateFooter()
}

func (b *browser) loadMore() {
	if b.pageSize <= 0 || b.generated >= b.generateTotal {
		return
	}
	count := min(b.pageSize, b.generateTotal-b.generated)
	page := generateItems(b.generated, count)
	b.generated += count
	b.logger.Debug("generated page",
		logging.Int("count", count),
		logging.Int("generated", b.generated))
	b.appendItems(page)
}

func (b *browser) follow(t *tailer) {
	lines, err := t.ReadAppended()
	if err != nil {
		logging.WarnWithContext(b.logger, "read appended lines", "follow_read_failed", logging.Error(err))
		return
	}
	b.appendItems(lines)
}

// savePosition writes the current offset right away so a scroll made just
// before quitting is not lost with the pending debounced write.
func (b *browser) savePosition() {
	if b.persistKey == "" || b.store == nil || !b.list.Mounted() {
		return
	}
	if err := b.store.Set(vscroll.PersistKey(b.persistKey), strconv.Itoa(b.list.ScrollTop())); err != nil {
		logging.WarnWithContext(b.logger, "save scroll offset on exit", "persist_write_failed", logging.Error(err))
	}
}

func (b *browser) setStatus(status string) {
	b.status = status
	b.updateFooter()
}

func (b *browser) updateFooter() {
	position := "-"
	if index := b.list.SelectedIndex(); index >= 0 && index < len(b.items) {
		position = strconv.Itoa(index + 1)
	}
	footer := fmt.Sprintf(" %s/%d  %d%% ", position, len(b.items), int(math.Round(b.list.Percentage()*100)))
	if b.status != "" {
		footer = " " + b.status + " ·" + footer
	}
	b.list.SetFooter(footer)
	b.help.MarkDirty()
}
