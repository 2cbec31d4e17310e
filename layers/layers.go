// Package layers stacks primitives on top of each other, for example a help
// overlay above a list.
package layers

import (
	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/vscroll"
)

// layer represents one layer of a Layers object.
type layer struct {
	name    string            // The layer's name.
	item    vscroll.Primitive // The layer's primitive.
	resize  bool              // Whether or not to resize the layer when it is drawn.
	visible bool              // Whether or not this layer is visible.
	enabled bool              // Whether or not this layer can receive focus/input.
	overlay bool              // Whether this layer applies a background style to layers behind it.
}

// Layers is a container for other primitives laid out on top of each other.
// The layers are drawn from back to front and can optionally apply a
// background style to the layers behind them (typically used for modal dialogs).
type Layers struct {
	*vscroll.Box

	// The contained layers. (Visible) layers are drawn from back to front.
	layers []*layer
	// The style applied to layers behind the active overlay layer.
	backgroundLayerStyle tcell.Style

	// We keep a reference to the function which allows us to set the focus to
	// a newly visible layer.
	setFocus func(p vscroll.Primitive)
}

// Option configures a layer on Add.
type Option func(*layer)

// WithName sets the layer's name.
func WithName(name string) Option {
	return func(l *layer) {
		l.name = name
	}
}

// WithResize sets whether the layer is resized to the container's inner rect.
func WithResize(resize bool) Option {
	return func(l *layer) {
		l.resize = resize
	}
}

// WithVisible sets the initial visibility of the layer.
func WithVisible(visible bool) Option {
	return func(l *layer) {
		l.visible = visible
	}
}

// WithEnabled sets whether the layer can receive focus and input.
func WithEnabled(enabled bool) Option {
	return func(l *layer) {
		l.enabled = enabled
	}
}

// WithOverlay marks this layer as an overlay layer.
func WithOverlay() Option {
	return func(l *layer) {
		l.overlay = true
	}
}

// New returns a new Layers object.
func New() *Layers {
	l := &Layers{Box: vscroll.NewBox()}
	return l
}

// GetVisible returns whether the given layer is visible.
func (l *Layers) GetVisible(name string) bool {
	for _, layer := range l.layers {
		if name == layer.name {
			return layer.visible
		}
	}
	return false
}

// Clear removes all layers.
func (l *Layers) Clear() *Layers {
	if len(l.layers) > 0 {
		for _, layer := range l.layers {
			vscroll.UnbindDirtyParent(layer.item, l.Box)
		}
		l.layers = nil
		l.MarkDirty()
	}
	return l
}

// AddLayer adds a new layer for the given primitive. Options can configure
// name, visibility, resize, overlay, and enabled state.
func (l *Layers) AddLayer(item vscroll.Primitive, opts ...Option) *Layers {
	hasFocus := l.HasFocus()
	newLayer := &layer{
		item:    item,
		visible: true,
		enabled: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(newLayer)
		}
	}
	if newLayer.name != "" {
		for index, layer := range l.layers {
			if layer.name == newLayer.name {
				vscroll.UnbindDirtyParent(layer.item, l.Box)
				l.layers = append(l.layers[:index], l.layers[index+1:]...)
				l.MarkDirty()
				break
			}
		}
	}
	vscroll.BindDirtyParent(item, l.Box)
	l.layers = append(l.layers, newLayer)
	l.MarkDirty()
	if hasFocus {
		l.Focus(l.setFocus)
	}
	return l
}

// RemoveLayer removes the layer with the given name.
func (l *Layers) RemoveLayer(name string) *Layers {
	hasFocus := l.HasFocus()
	for index, layer := range l.layers {
		if layer.name == name {
			vscroll.UnbindDirtyParent(layer.item, l.Box)
			l.layers = append(l.layers[:index], l.layers[index+1:]...)
			l.MarkDirty()
			break
		}
	}
	if hasFocus {
		l.Focus(l.setFocus)
	}
	return l
}

// HasLayer returns true if a layer with the given name exists in this object.
func (l *Layers) HasLayer(name string) bool {
	for _, layer := range l.layers {
		if layer.name == name {
			return true
		}
	}
	return false
}

// ShowLayer sets a layer's visibility to "true" (in addition to any other layers
// which are already visible).
func (l *Layers) ShowLayer(name string) *Layers {
	for _, layer := range l.layers {
		if layer.name == name && !layer.visible {
			layer.visible = true
			l.MarkDirty()
			break
		}
	}
	if l.HasFocus() {
		l.Focus(l.setFocus)
	}
	return l
}

// HideLayer sets a layer's visibility to "false".
func (l *Layers) HideLayer(name string) *Layers {
	for _, layer := range l.layers {
		if layer.name == name && layer.visible {
			layer.visible = false
			l.MarkDirty()
			break
		}
	}
	if l.HasFocus() {
		l.Focus(l.setFocus)
	}
	return l
}

// SetBackgroundLayerStyle sets the style applied to layers behind the active
// overlay layer.
func (l *Layers) SetBackgroundLayerStyle(style tcell.Style) *Layers {
	if l.backgroundLayerStyle != style {
		l.backgroundLayerStyle = style
		l.MarkDirty()
	}
	return l
}

type dirtyTracker interface {
	IsDirty() bool
	MarkClean()
}

// IsDirty returns whether this primitive or one of its visible children needs redraw.
// Children that do not track their state are always redrawn.
func (l *Layers) IsDirty() bool {
	if l.Box.IsDirty() {
		return true
	}
	for _, layer := range l.layers {
		if !layer.visible || layer.item == nil {
			continue
		}
		tracker, ok := layer.item.(dirtyTracker)
		if !ok || tracker.IsDirty() {
			return true
		}
	}
	return false
}

// MarkClean marks this primitive and all children as clean.
func (l *Layers) MarkClean() {
	l.Box.MarkClean()
	for _, layer := range l.layers {
		if tracker, ok := layer.item.(dirtyTracker); ok {
			tracker.MarkClean()
		}
	}
}

// HasFocus returns whether or not this primitive has focus.
func (l *Layers) HasFocus() bool {
	for _, layer := range l.layers {
		if layer.enabled && layer.item.HasFocus() {
			return true
		}
	}
	return l.Box.HasFocus()
}

// Focus is called by the application when the primitive receives focus.
func (l *Layers) Focus(delegate func(p vscroll.Primitive)) {
	if delegate == nil {
		return // We cannot delegate so we cannot focus.
	}
	l.setFocus = delegate
	if top := l.topVisibleEnabledLayer(); top != nil {
		delegate(top.item)
		return
	}
	l.Box.Focus(delegate)
}

// Draw draws this primitive onto the screen.
func (l *Layers) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)

	overlayIndex := l.topVisibleEnabledOverlayIndex()
	var ovScreen *overlayScreen
	if overlayIndex >= 0 {
		ovScreen = newOverlayScreen(screen, l.backgroundLayerStyle)
	}
	for index, layer := range l.layers {
		if !layer.visible {
			continue
		}
		layerScreen := screen
		if ovScreen != nil && index < overlayIndex {
			// Draw lower layers through the overlay screen so only the touched
			// cells get styled (avoids a full-screen pass).
			layerScreen = ovScreen
		}
		if layer.resize {
			x, y, width, height := l.GetInnerRect()
			layer.item.SetRect(x, y, width, height)
		}
		layer.item.Draw(layerScreen)
	}
}

// MouseHandler passes mouse events to the front-most visible layer that
// handles them. Layers behind an active overlay never see mouse input.
func (l *Layers) MouseHandler(action vscroll.MouseAction, event *tcell.EventMouse) (capture vscroll.Primitive, cmd vscroll.Command) {
	if !l.InRect(event.Position()) {
		return nil, nil
	}

	overlayIndex := l.topVisibleEnabledOverlayIndex()
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if !layer.visible || !layer.enabled {
			continue
		}
		if overlayIndex >= 0 && index < overlayIndex {
			break
		}
		capture, cmd = layer.item.MouseHandler(action, event)
		if cmd != nil || capture != nil {
			return capture, cmd
		}
	}

	if overlayIndex >= 0 {
		return nil, vscroll.ConsumeEventCommand{}
	}
	return nil, nil
}

// InputHandler passes key events to the layer holding the focus.
func (l *Layers) InputHandler(event *tcell.EventKey) vscroll.Command {
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if layer.enabled && layer.item.HasFocus() {
			return layer.item.InputHandler(event)
		}
	}
	return nil
}

func (l *Layers) topVisibleEnabledLayer() *layer {
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if layer.visible && layer.enabled {
			return layer
		}
	}
	return nil
}

// topVisibleEnabledOverlayIndex returns the index of the top-most overlay
// layer that is both visible and enabled. This is used so only one overlay
// is applied at a time.
func (l *Layers) topVisibleEnabledOverlayIndex() int {
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if layer.visible && layer.enabled && layer.overlay {
			return index
		}
	}
	return -1
}

type overlayScreen struct {
	tcell.Screen
	overlay tcell.Style
}

func newOverlayScreen(screen tcell.Screen, overlay tcell.Style) *overlayScreen {
	return &overlayScreen{
		Screen:  screen,
		overlay: overlay,
	}
}

func (s *overlayScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	s.Screen.SetContent(x, y, primary, combining, applyBackgroundStyle(style, s.overlay))
}

func (s *overlayScreen) SetCell(x int, y int, style tcell.Style, ch ...rune) {
	if len(ch) == 0 {
		return
	}
	s.SetContent(x, y, ch[0], ch[1:], style)
}

func applyBackgroundStyle(base tcell.Style, overlay tcell.Style) tcell.Style {
	overlayFg, overlayBg, overlayAttrs := overlay.Decompose()

	// Apply overlay foreground/background only when explicitly set. This avoids
	// forcing defaults that could unexpectedly replace existing content colors.
	if overlayFg != tcell.ColorDefault {
		base = base.Foreground(overlayFg)
	}
	if overlayBg != tcell.ColorDefault {
		base = base.Background(overlayBg)
	}

	// Attributes are added, never removed, so underlines and the like survive.
	_, _, baseAttrs := base.Decompose()
	return base.Attributes(baseAttrs | overlayAttrs)
}
