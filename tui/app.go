// Package tui is the interactive terminal host for the map editor. It draws
// devices and link paths on a braille canvas and feeds pointer and key
// events into an editing session.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/phyoewaiaung/network-map/editor"
	"github.com/phyoewaiaung/network-map/geometry"
	"github.com/phyoewaiaung/network-map/netmap"
	"github.com/phyoewaiaung/network-map/workspace"
)

// Device markers carry the same status palette as the exporters; the edited
// link and its handles use the highlight color.
var (
	colorAvailable = tcell.NewHexColor(0x339AF0)
	colorConnected = tcell.NewHexColor(0x51CF66)
	colorDisabled  = tcell.NewHexColor(0x868E96)
	colorLink      = tcell.NewHexColor(0x868E96)
	colorHighlight = tcell.NewHexColor(0xFFA500)

	labelStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
)

// pickRadiusSq is how close a click must land to a drawn path, in squared
// cells, to count as a click on that link.
const pickRadiusSq = 4.0

// App drives one editing session on a terminal screen.
type App struct {
	screen  tcell.Screen
	session *editor.Session
	loader  *workspace.Loader // nil when editing an in-memory map
	view    *Viewport

	status   string
	buttons  tcell.ButtonMask
	mouseX   int
	mouseY   int
	selected []string // devices picked for the next link, at most two
}

// NewApp wraps an initialized screen. Use Run for the usual full-terminal
// entry point.
func NewApp(screen tcell.Screen, session *editor.Session, loader *workspace.Loader) *App {
	a := &App{
		screen:  screen,
		session: session,
		loader:  loader,
		view:    NewViewport(),
		status:  "ready",
	}
	a.view.Fit(session.Map())
	return a
}

// Run opens the terminal, drives the editor until the user quits, and
// restores the terminal on the way out.
func Run(session *editor.Session, loader *workspace.Loader) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.SetStyle(tcell.StyleDefault)

	return NewApp(screen, session, loader).loop()
}

func (a *App) loop() error {
	for {
		a.draw()
		switch ev := a.screen.PollEvent().(type) {
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if a.HandleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			a.HandleMouse(ev)
		}
	}
}

// mapSize returns the drawable area, leaving one row for the status bar.
func (a *App) mapSize() (w, h int) {
	w, h = a.screen.Size()
	h--
	if h < 1 {
		h = 1
	}
	return w, h
}

// HandleKey processes one key event and reports whether the app should
// exit. Panning is suppressed while a waypoint drag is active so the view
// does not shift under the held pointer.
func (a *App) HandleKey(ev *tcell.EventKey) bool {
	dragging := a.session.State() == editor.StateDragging

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		a.session.HandleKey(editor.KeyEscape)
		a.status = "edit cancelled"
		return false
	case tcell.KeyUp:
		if !dragging {
			a.view.Pan(0, 1)
		}
		return false
	case tcell.KeyDown:
		if !dragging {
			a.view.Pan(0, -1)
		}
		return false
	case tcell.KeyLeft:
		if !dragging {
			a.view.Pan(2, 0)
		}
		return false
	case tcell.KeyRight:
		if !dragging {
			a.view.Pan(-2, 0)
		}
		return false
	case tcell.KeyDelete:
		a.removeHandleUnderCursor()
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case '+', '=':
		a.view.ZoomIn()
		a.status = fmt.Sprintf("zoom %.2fx", a.view.Zoom())
	case '-', '_':
		a.view.ZoomOut()
		a.status = fmt.Sprintf("zoom %.2fx", a.view.Zoom())
	case 'f':
		a.view.Fit(a.session.Map())
		a.status = "view fitted"
	case 'a':
		a.addDeviceAtCursor()
	case 'x':
		if a.session.State() == editor.StateIdle {
			a.deleteDeviceUnderCursor()
		} else {
			a.removeHandleUnderCursor()
		}
	case 'l':
		a.linkSelected()
	case 'e':
		a.beginEditAtCursor()
	case 's':
		a.applyStyle(netmap.StyleStraight)
	case 'c':
		a.applyStyle(netmap.StyleCurved)
	case 'v':
		a.applyStyle(netmap.StyleCustom)
	case 'w':
		a.save()
	case 'r':
		a.reload()
	}
	return false
}

// HandleMouse routes pointer events into the session based on its state.
func (a *App) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	a.mouseX, a.mouseY = x, y

	if buttons&tcell.WheelUp != 0 {
		a.view.ZoomIn()
	}
	if buttons&tcell.WheelDown != 0 {
		a.view.ZoomOut()
	}

	pressed := buttons&tcell.Button1 != 0
	wasPressed := a.buttons&tcell.Button1 != 0
	rightPressed := buttons&tcell.Button2 != 0
	wasRightPressed := a.buttons&tcell.Button2 != 0
	a.buttons = buttons

	w, h := a.mapSize()
	if rightPressed && !wasRightPressed {
		// Right-click on the background abandons the edit; on a handle
		// it does nothing.
		if a.handleAt(x, y, w, h) < 0 {
			a.session.Cancel()
			a.status = "edit cancelled"
		}
		return
	}

	switch {
	case pressed && !wasPressed:
		if y >= h {
			return
		}
		a.press(x, y, w, h, ev.Modifiers())
	case pressed && wasPressed:
		if a.session.State() == editor.StateDragging {
			a.session.HandleDragMove(a.view.Unproject(x, y, w, h))
		}
	case !pressed && wasPressed:
		a.session.EndDrag()
	}
}

// press handles a fresh button-down at cell (x, y).
func (a *App) press(x, y, w, h int, mod tcell.ModMask) {
	switch a.session.State() {
	case editor.StateIdle:
		if id, ok := a.deviceAt(x, y, w, h); ok {
			a.toggleSelect(id)
			return
		}
		source, target, ok := a.linkAt(x, y, w, h)
		if !ok {
			return
		}
		a.session.BeginEdit(source, target)
		a.status = fmt.Sprintf("editing %s -> %s", a.deviceLabel(source), a.deviceLabel(target))

	case editor.StateEditing:
		source, target, ok := a.session.EditedLink()
		if !ok {
			return
		}
		if idx := a.handleAt(x, y, w, h); idx >= 0 {
			if mod&tcell.ModAlt != 0 {
				a.session.RemoveWaypoint(source, target, idx)
				a.status = "waypoint removed"
				return
			}
			a.session.StartWaypointDrag(source, target, idx)
			return
		}
		if hs, ht, ok := a.linkAt(x, y, w, h); ok && hs == source && ht == target {
			a.session.HandlePathPress(source, target, a.view.Unproject(x, y, w, h))
		}
	}
}

// linkAt finds the link whose drawn path passes nearest to cell (x, y),
// within the pick radius.
func (a *App) linkAt(x, y, w, h int) (source, target string, ok bool) {
	p := cellPoint(x, y)
	best := pickRadiusSq
	for _, rl := range a.session.RenderAll() {
		cells := a.projectPath(rl.Path, w, h)
		for i := 0; i+1 < len(cells); i++ {
			if d := geometry.SqDistToSegment(p, cells[i], cells[i+1]); d <= best {
				best = d
				source, target, ok = rl.Link.Source, rl.Link.Target, true
			}
		}
	}
	return source, target, ok
}

// handleAt finds the waypoint handle of the edited link under cell (x, y),
// or -1.
func (a *App) handleAt(x, y, w, h int) int {
	handles := a.session.Handles()
	for i, wp := range handles {
		hx, hy := a.view.Project(wp, w, h)
		if abs(hx-x) <= 1 && abs(hy-y) <= 1 {
			return i
		}
	}
	return -1
}

// deviceAt finds the device marker under cell (x, y), hit within one cell.
func (a *App) deviceAt(x, y, w, h int) (string, bool) {
	for _, d := range a.session.Map().Devices {
		dx, dy := a.view.Project(d.Position, w, h)
		if abs(dx-x) <= 1 && abs(dy-y) <= 1 {
			return d.ID, true
		}
	}
	return "", false
}

// toggleSelect adds or removes a device from the link selection, keeping
// at most the two most recent picks.
func (a *App) toggleSelect(id string) {
	for i, s := range a.selected {
		if s == id {
			a.selected = append(a.selected[:i], a.selected[i+1:]...)
			a.status = "deselected " + a.deviceLabel(id)
			return
		}
	}
	a.selected = append(a.selected, id)
	if len(a.selected) > 2 {
		a.selected = a.selected[len(a.selected)-2:]
	}
	if len(a.selected) == 2 {
		a.status = fmt.Sprintf("selected %s and %s (l to link)",
			a.deviceLabel(a.selected[0]), a.deviceLabel(a.selected[1]))
	} else {
		a.status = "selected " + a.deviceLabel(id)
	}
}

func (a *App) addDeviceAtCursor() {
	w, h := a.mapSize()
	pos := a.view.Unproject(a.mouseX, a.mouseY, w, h)
	a.session.AddDevice(pos)
	a.status = fmt.Sprintf("device added at %.4f, %.4f", pos.Lat, pos.Lng)
}

func (a *App) deleteDeviceUnderCursor() {
	w, h := a.mapSize()
	id, ok := a.deviceAt(a.mouseX, a.mouseY, w, h)
	if !ok {
		a.status = "no device under cursor"
		return
	}
	a.session.RemoveDevice(id)
	a.dropSelection(id)
	a.status = "device removed"
}

// dropSelection forgets a device that no longer exists.
func (a *App) dropSelection(id string) {
	kept := a.selected[:0]
	for _, s := range a.selected {
		if s != id {
			kept = append(kept, s)
		}
	}
	a.selected = kept
}

func (a *App) linkSelected() {
	if len(a.selected) != 2 {
		a.status = "select two devices first"
		return
	}
	source, target := a.selected[0], a.selected[1]
	if _, exists := a.session.Map().Link(source, target); exists {
		a.status = "link already exists"
		return
	}
	a.session.AddLink(source, target)
	a.selected = nil
	a.status = fmt.Sprintf("linked %s -> %s", a.deviceLabel(source), a.deviceLabel(target))
}

func (a *App) beginEditAtCursor() {
	w, h := a.mapSize()
	source, target, ok := a.linkAt(a.mouseX, a.mouseY, w, h)
	if !ok {
		a.status = "no link under cursor"
		return
	}
	a.session.BeginEdit(source, target)
	a.status = fmt.Sprintf("editing %s -> %s", a.deviceLabel(source), a.deviceLabel(target))
}

// applyStyle restyles the edited link, or the link under the cursor when
// idle. Asking for custom on an already-custom link toggles smoothing.
func (a *App) applyStyle(style netmap.LinkStyle) {
	source, target, ok := a.session.EditedLink()
	if !ok {
		w, h := a.mapSize()
		if source, target, ok = a.linkAt(a.mouseX, a.mouseY, w, h); !ok {
			a.status = "no link under cursor"
			return
		}
	}
	l, found := a.session.Map().Link(source, target)
	if !found {
		return
	}
	if style == netmap.StyleCustom && l.Style == netmap.StyleCustom {
		a.session.SetLinkCurvy(source, target, !l.Curvy)
		if l.Curvy {
			a.status = "smoothing off"
		} else {
			a.status = "smoothing on"
		}
		return
	}
	a.session.SetLinkStyle(source, target, style)
	a.status = "style " + style.String()
}

func (a *App) removeHandleUnderCursor() {
	source, target, ok := a.session.EditedLink()
	if !ok {
		return
	}
	w, h := a.mapSize()
	if idx := a.handleAt(a.mouseX, a.mouseY, w, h); idx >= 0 {
		a.session.RemoveWaypoint(source, target, idx)
		a.status = "waypoint removed"
	}
}

func (a *App) save() {
	if a.loader == nil {
		a.status = "no file to save to"
		return
	}
	if err := workspace.Save(a.loader.Path(), a.session.Map()); err != nil {
		a.status = "save failed: " + err.Error()
		return
	}
	a.status = "saved " + a.loader.Path()
}

func (a *App) reload() {
	if a.loader == nil {
		a.status = "no file to reload from"
		return
	}
	m, err := a.loader.Reload()
	if err != nil {
		a.status = "reload failed: " + err.Error()
		return
	}
	a.session.SetMap(m)
	a.selected = nil
	a.view.Fit(m)
	a.status = "reloaded " + a.loader.Path()
}

// draw repaints the whole screen.
func (a *App) draw() {
	a.screen.Clear()
	w, h := a.mapSize()

	canvas := NewCanvas(w, h)
	editedSource, editedTarget, editing := a.session.EditedLink()
	for _, rl := range a.session.RenderAll() {
		color := colorLink
		if editing && rl.Link.Source == editedSource && rl.Link.Target == editedTarget {
			color = colorHighlight
		}
		micro := make([][2]int, len(rl.Path))
		for i, p := range rl.Path {
			mx, my := a.view.ProjectMicro(p, w, h)
			micro[i] = [2]int{mx, my}
		}
		canvas.Polyline(micro, color)
	}
	canvas.Flush(a.screen, 0, 0)

	// Devices over the paths, labels beside the markers. Devices picked
	// for linking render reversed.
	for _, d := range a.session.Map().Devices {
		x, y := a.view.Project(d.Position, w, h)
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		style := tcell.StyleDefault.Foreground(statusColor(d.Status))
		if a.isSelected(d.ID) {
			style = style.Reverse(true)
		}
		a.screen.SetContent(x, y, '■', nil, style)
		a.putString(x+2, y, labelStyle, truncate(d.Label, 16))
	}

	// Waypoint handles of the edited link on top of everything.
	if editing {
		dragIndex := a.session.DragIndex()
		for i, wp := range a.session.Handles() {
			x, y := a.view.Project(wp, w, h)
			if x < 0 || x >= w || y < 0 || y >= h {
				continue
			}
			style := tcell.StyleDefault.Foreground(colorHighlight)
			if i == dragIndex {
				style = style.Bold(true)
			}
			a.screen.SetContent(x, y, '◆', nil, style)
		}
	}

	a.drawStatusBar(w, h)
	a.screen.Show()
}

func (a *App) drawStatusBar(w, h int) {
	line := fmt.Sprintf(" %s | %s | %s ", a.session.State(), a.status, a.hints())
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, h, ' ', nil, statusStyle)
	}
	a.putStringStyle(0, h, statusStyle, truncate(line, w))
}

func (a *App) isSelected(id string) bool {
	for _, s := range a.selected {
		if s == id {
			return true
		}
	}
	return false
}

func (a *App) hints() string {
	switch a.session.State() {
	case editor.StateEditing:
		return "click path: add  drag handle: move  alt-click/x: delete  v: smooth  s/c: restyle  esc: done"
	case editor.StateDragging:
		return "release to drop"
	default:
		return "a: add  x: del  l: link  e/click: edit  s/c/v: style  w: write  r: reload  q: quit"
	}
}

func (a *App) putString(x, y int, style tcell.Style, s string) {
	w, h := a.mapSize()
	if y < 0 || y >= h {
		return
	}
	for i, r := range s {
		if x+i >= w {
			break
		}
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}

// putStringStyle writes outside the map area, used for the status bar row.
func (a *App) putStringStyle(x, y int, style tcell.Style, s string) {
	for i, r := range s {
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (a *App) deviceLabel(id string) string {
	d, ok := a.session.Map().Device(id)
	if !ok || d.Label == "" {
		return id
	}
	return d.Label
}

// projectPath converts a rendered path to cell-space points so the
// hit-test helpers can measure against the pointer cell.
func (a *App) projectPath(path []netmap.Coordinate, w, h int) []netmap.Coordinate {
	cells := make([]netmap.Coordinate, len(path))
	for i, p := range path {
		x, y := a.view.Project(p, w, h)
		cells[i] = cellPoint(x, y)
	}
	return cells
}

// cellPoint treats a screen cell as a coordinate so path distance helpers
// apply in screen space.
func cellPoint(x, y int) netmap.Coordinate {
	return netmap.Coordinate{Lat: float64(y), Lng: float64(x)}
}

func statusColor(s netmap.DeviceStatus) tcell.Color {
	switch s {
	case netmap.StatusConnected:
		return colorConnected
	case netmap.StatusDisabled:
		return colorDisabled
	default:
		return colorAvailable
	}
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
