package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/phyoewaiaung/network-map/editor"
	"github.com/phyoewaiaung/network-map/netmap"
)

// newTestApp builds an app over a simulation screen with two devices on a
// horizontal straight link.
func newTestApp(t *testing.T) (*App, string, string) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("initializing simulation screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	m := netmap.New()
	a := m.AddDevice(netmap.Coordinate{Lat: 0, Lng: 0})
	b := m.AddDevice(netmap.Coordinate{Lat: 0, Lng: 10})
	m.AddLink(a, b)

	app := NewApp(screen, editor.NewSession(m), nil)
	return app, a, b
}

func mouse(x, y int, buttons tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, buttons, tcell.ModNone)
}

// pathCell returns a cell the fixture link's path passes through.
func pathCell(app *App) (int, int) {
	w, h := app.mapSize()
	return app.view.Project(netmap.Coordinate{Lat: 0, Lng: 5}, w, h)
}

func TestClickLinkBeginsEdit(t *testing.T) {
	app, a, b := newTestApp(t)
	x, y := pathCell(app)

	app.HandleMouse(mouse(x, y, tcell.Button1))
	if app.session.State() != editor.StateEditing {
		t.Fatalf("state = %v after click on path, want editing", app.session.State())
	}
	source, target, ok := app.session.EditedLink()
	if !ok || source != a || target != b {
		t.Errorf("edited link = %s->%s, want %s->%s", source, target, a, b)
	}
	app.HandleMouse(mouse(x, y, tcell.ButtonNone))
	if app.session.State() != editor.StateEditing {
		t.Errorf("release ended the edit: state = %v", app.session.State())
	}
}

func TestClickEmptySpaceIgnored(t *testing.T) {
	app, _, _ := newTestApp(t)

	// Top-left corner is far from the path through the middle.
	app.HandleMouse(mouse(0, 0, tcell.Button1))
	if app.session.State() != editor.StateIdle {
		t.Errorf("state = %v after click on empty space, want idle", app.session.State())
	}
}

func TestPressDragReleaseSculptsPath(t *testing.T) {
	app, _, _ := newTestApp(t)
	x, y := pathCell(app)
	w, h := app.mapSize()

	// Enter editing, then press on the path to insert and grab a point.
	app.HandleMouse(mouse(x, y, tcell.Button1))
	app.HandleMouse(mouse(x, y, tcell.ButtonNone))
	app.HandleMouse(mouse(x, y, tcell.Button1))
	if app.session.State() != editor.StateDragging {
		t.Fatalf("state = %v after press on path, want dragging", app.session.State())
	}
	if got := len(app.session.Handles()); got != 1 {
		t.Fatalf("got %d handles after press, want 1", got)
	}

	app.HandleMouse(mouse(50, 8, tcell.Button1))
	want := app.view.Unproject(50, 8, w, h)
	if app.session.Handles()[0] != want {
		t.Errorf("dragged handle = %+v, want %+v", app.session.Handles()[0], want)
	}

	app.HandleMouse(mouse(50, 8, tcell.ButtonNone))
	if app.session.State() != editor.StateEditing {
		t.Errorf("state = %v after release, want editing", app.session.State())
	}
	if app.session.DragIndex() != -1 {
		t.Errorf("drag index = %d after release, want -1", app.session.DragIndex())
	}
}

func TestGrabExistingHandle(t *testing.T) {
	app, _, _ := newTestApp(t)
	x, y := pathCell(app)
	w, h := app.mapSize()

	app.HandleMouse(mouse(x, y, tcell.Button1))
	app.HandleMouse(mouse(x, y, tcell.ButtonNone))
	app.HandleMouse(mouse(x, y, tcell.Button1))
	app.HandleMouse(mouse(x, y, tcell.ButtonNone))

	// Press directly on the handle we just placed.
	hx, hy := app.view.Project(app.session.Handles()[0], w, h)
	app.HandleMouse(mouse(hx, hy, tcell.Button1))
	if app.session.State() != editor.StateDragging {
		t.Fatalf("state = %v after press on handle, want dragging", app.session.State())
	}
	if got := len(app.session.Handles()); got != 1 {
		t.Errorf("grabbing a handle inserted a new one: %d handles", got)
	}
}

func TestEscapeCancelsEdit(t *testing.T) {
	app, _, _ := newTestApp(t)
	x, y := pathCell(app)
	app.HandleMouse(mouse(x, y, tcell.Button1))

	quit := app.HandleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	if quit {
		t.Fatal("escape requested quit")
	}
	if app.session.State() != editor.StateIdle {
		t.Errorf("state = %v after escape, want idle", app.session.State())
	}
}

func TestSelectDevicesAndLink(t *testing.T) {
	app, a, b := newTestApp(t)
	w, h := app.mapSize()
	app.session.RemoveLink(a, b)

	ax, ay := app.view.Project(netmap.Coordinate{Lat: 0, Lng: 0}, w, h)
	bx, by := app.view.Project(netmap.Coordinate{Lat: 0, Lng: 10}, w, h)

	app.HandleMouse(mouse(ax, ay, tcell.Button1))
	app.HandleMouse(mouse(ax, ay, tcell.ButtonNone))
	app.HandleMouse(mouse(bx, by, tcell.Button1))
	app.HandleMouse(mouse(bx, by, tcell.ButtonNone))
	if len(app.selected) != 2 {
		t.Fatalf("got %d selected devices, want 2", len(app.selected))
	}

	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone))
	if _, ok := app.session.Map().Link(a, b); !ok {
		t.Error("l did not create the link between the selected devices")
	}
	if len(app.selected) != 0 {
		t.Errorf("selection kept after linking: %v", app.selected)
	}

	// Clicking a selected device again deselects it.
	app.HandleMouse(mouse(ax, ay, tcell.Button1))
	app.HandleMouse(mouse(ax, ay, tcell.ButtonNone))
	app.HandleMouse(mouse(ax, ay, tcell.Button1))
	app.HandleMouse(mouse(ax, ay, tcell.ButtonNone))
	if len(app.selected) != 0 {
		t.Errorf("second click did not deselect: %v", app.selected)
	}
}

func TestAddDeviceKey(t *testing.T) {
	app, a, b := newTestApp(t)
	w, h := app.mapSize()

	app.HandleMouse(mouse(20, 5, tcell.ButtonNone))
	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))

	devices := app.session.Map().Devices
	if len(devices) != 3 {
		t.Fatalf("got %d devices after a, want 3", len(devices))
	}
	want := app.view.Unproject(20, 5, w, h)
	for _, d := range devices {
		if d.ID == a || d.ID == b {
			continue
		}
		if d.Position != want {
			t.Errorf("new device at %+v, want %+v", d.Position, want)
		}
	}
}

func TestDeleteDeviceCascades(t *testing.T) {
	app, a, _ := newTestApp(t)
	w, h := app.mapSize()
	ax, ay := app.view.Project(netmap.Coordinate{Lat: 0, Lng: 0}, w, h)

	app.HandleMouse(mouse(ax, ay, tcell.ButtonNone))
	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))

	if app.session.Map().HasDevice(a) {
		t.Error("x did not remove the device under the cursor")
	}
	if got := len(app.session.Map().Links); got != 0 {
		t.Errorf("cascade left %d links", got)
	}
}

func TestStyleKeys(t *testing.T) {
	app, a, b := newTestApp(t)

	// Near the left device the path stays in reach for every style.
	app.HandleMouse(mouse(5, 11, tcell.ButtonNone))

	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	l, _ := app.session.Map().Link(a, b)
	if l.Style != netmap.StyleCurved {
		t.Fatalf("style = %v after c, want curved", l.Style)
	}

	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'v', tcell.ModNone))
	l, _ = app.session.Map().Link(a, b)
	if l.Style != netmap.StyleCustom {
		t.Fatalf("style = %v after v, want custom", l.Style)
	}

	// A second v toggles smoothing instead of restyling.
	was := l.Curvy
	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'v', tcell.ModNone))
	l, _ = app.session.Map().Link(a, b)
	if l.Curvy == was {
		t.Error("second v did not toggle smoothing")
	}

	app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone))
	l, _ = app.session.Map().Link(a, b)
	if l.Style != netmap.StyleStraight || len(l.Waypoints) != 0 || l.Curvy {
		t.Errorf("after s: %+v", l)
	}
}

func TestAltClickRemovesHandle(t *testing.T) {
	app, _, _ := newTestApp(t)
	x, y := pathCell(app)
	w, h := app.mapSize()

	app.HandleMouse(mouse(x, y, tcell.Button1))
	app.HandleMouse(mouse(x, y, tcell.ButtonNone))
	app.HandleMouse(mouse(x, y, tcell.Button1))
	app.HandleMouse(mouse(x, y, tcell.ButtonNone))
	if got := len(app.session.Handles()); got != 1 {
		t.Fatalf("got %d handles, want 1", got)
	}

	hx, hy := app.view.Project(app.session.Handles()[0], w, h)
	app.HandleMouse(tcell.NewEventMouse(hx, hy, tcell.Button1, tcell.ModAlt))
	if got := len(app.session.Handles()); got != 0 {
		t.Errorf("alt-click left %d handles, want 0", got)
	}
	if app.session.State() != editor.StateEditing {
		t.Errorf("state = %v after alt-click, want editing", app.session.State())
	}
}

func TestRightClickCancels(t *testing.T) {
	app, _, _ := newTestApp(t)
	x, y := pathCell(app)

	app.HandleMouse(mouse(x, y, tcell.Button1))
	app.HandleMouse(mouse(x, y, tcell.ButtonNone))
	if app.session.State() != editor.StateEditing {
		t.Fatalf("state = %v, want editing", app.session.State())
	}

	app.HandleMouse(mouse(0, 0, tcell.Button2))
	if app.session.State() != editor.StateIdle {
		t.Errorf("state = %v after right-click, want idle", app.session.State())
	}
}

func TestPanSuppressedWhileDragging(t *testing.T) {
	app, _, _ := newTestApp(t)
	x, y := pathCell(app)

	app.HandleMouse(mouse(x, y, tcell.Button1))
	app.HandleMouse(mouse(x, y, tcell.ButtonNone))
	app.HandleMouse(mouse(x, y, tcell.Button1))
	if app.session.State() != editor.StateDragging {
		t.Fatalf("state = %v, want dragging", app.session.State())
	}

	app.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	if app.view.offsetY != 0 {
		t.Errorf("arrow panned while dragging: offsetY = %d", app.view.offsetY)
	}

	app.HandleMouse(mouse(x, y, tcell.ButtonNone))
	app.HandleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	if app.view.offsetY != 1 {
		t.Errorf("arrow did not pan after release: offsetY = %d", app.view.offsetY)
	}
}

func TestQuitKeys(t *testing.T) {
	app, _, _ := newTestApp(t)
	if !app.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("q did not quit")
	}
	if !app.HandleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)) {
		t.Error("ctrl-c did not quit")
	}
}

func TestWheelZooms(t *testing.T) {
	app, _, _ := newTestApp(t)
	before := app.view.Zoom()
	app.HandleMouse(mouse(40, 12, tcell.WheelUp))
	if app.view.Zoom() <= before {
		t.Errorf("wheel up: zoom %f -> %f", before, app.view.Zoom())
	}
	app.HandleMouse(mouse(40, 12, tcell.WheelDown))
	app.HandleMouse(mouse(40, 12, tcell.WheelDown))
	if app.view.Zoom() >= before {
		t.Errorf("wheel down: zoom did not drop below %f", before)
	}
}

func TestDrawPaintsPathAndStatusBar(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.draw()

	_, y := pathCell(app)
	found := false
	for x := 0; x < 80; x++ {
		r, _, _, _ := app.screen.GetContent(x, y)
		if r >= 0x2800 && r <= 0x28FF {
			found = true
			break
		}
	}
	if !found {
		t.Error("no braille cells on the link's row")
	}

	_, h := app.mapSize()
	content := ""
	for x := 0; x < 20; x++ {
		r, _, _, _ := app.screen.GetContent(x, h)
		content += string(r)
	}
	if content == "" || content[1] == ' ' {
		t.Errorf("status bar row empty: %q", content)
	}
}
