// Package api exposes the map and its editing session over HTTP. The
// session itself is single-threaded; the handler serializes access with a
// mutex and translates HTTP requests into session events.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phyoewaiaung/network-map/editor"
	"github.com/phyoewaiaung/network-map/metrics"
	"github.com/phyoewaiaung/network-map/netmap"
	"github.com/phyoewaiaung/network-map/workspace"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	mu       sync.Mutex
	session  *editor.Session
	loader   *workspace.Loader // nil when serving an in-memory map
	autosave bool
	mux      *http.ServeMux
	wrapped  http.Handler
}

// New creates an HTTP handler and registers all routes.
func New(session *editor.Session, loader *workspace.Loader) *Handler {
	h := &Handler{session: session, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/map", h.getMap)
	h.mux.HandleFunc("PUT /v1/map", h.replaceMap)
	h.mux.HandleFunc("POST /v1/map/save", h.saveMap)
	h.mux.HandleFunc("POST /v1/map/reload", h.reloadMap)
	h.mux.HandleFunc("GET /v1/devices", h.listDevices)
	h.mux.HandleFunc("POST /v1/devices", h.addDevice)
	h.mux.HandleFunc("PATCH /v1/devices/{id}", h.updateDevice)
	h.mux.HandleFunc("DELETE /v1/devices/{id}", h.removeDevice)
	h.mux.HandleFunc("GET /v1/links", h.listLinks)
	h.mux.HandleFunc("POST /v1/links", h.addLink)
	h.mux.HandleFunc("PATCH /v1/links/{source}/{target}", h.updateLink)
	h.mux.HandleFunc("DELETE /v1/links/{source}/{target}", h.removeLink)
	h.mux.HandleFunc("GET /v1/links/{source}/{target}/path", h.linkPath)
	h.mux.HandleFunc("GET /v1/session", h.getSession)
	h.mux.HandleFunc("DELETE /v1/session", h.cancelSession)
	h.mux.HandleFunc("POST /v1/session/events", h.sessionEvent)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	h.wrapped = loggingMiddleware(h.mux)
	h.updateGauges()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.wrapped.ServeHTTP(w, r)
}

// SwapMap replaces the served document. The file watcher calls this when
// the map file changes behind the server.
func (h *Handler) SwapMap(m *netmap.Map) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.SetMap(m)
	h.updateGauges()
}

// EnableAutosave makes the handler write the document back to the
// workspace file after every mutation.
func (h *Handler) EnableAutosave() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.autosave = true
}

// maybeAutosave persists the document after a mutation when autosave is
// on. Callers hold h.mu.
func (h *Handler) maybeAutosave() {
	if !h.autosave || h.loader == nil {
		return
	}
	if err := workspace.Save(h.loader.Path(), h.session.Map()); err != nil {
		slog.Warn("autosave failed", "path", h.loader.Path(), "error", err)
	}
}

// updateGauges refreshes the entity-count gauges. Callers hold h.mu.
func (h *Handler) updateGauges() {
	m := h.session.Map()
	metrics.MapDevices.Set(float64(len(m.Devices)))
	metrics.MapLinks.Set(float64(len(m.Links)))
}

// linkView is a link plus its rendered path.
type linkView struct {
	netmap.Link
	Path []netmap.Coordinate `json:"path,omitempty"`
}

// sessionView is the wire shape of the editing state.
type sessionView struct {
	State     string              `json:"state"`
	Source    string              `json:"source,omitempty"`
	Target    string              `json:"target,omitempty"`
	DragIndex int                 `json:"drag_index"`
	Handles   []netmap.Coordinate `json:"handles,omitempty"`
}

// sessionSnapshot builds a sessionView. Callers hold h.mu.
func (h *Handler) sessionSnapshot() sessionView {
	v := sessionView{
		State:     h.session.State().String(),
		DragIndex: h.session.DragIndex(),
	}
	if source, target, ok := h.session.EditedLink(); ok {
		v.Source = source
		v.Target = target
		v.Handles = h.session.Handles()
	}
	return v
}

// GET /v1/map — the document with rendered paths and session state.
func (h *Handler) getMap(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m := h.session.Map()
	links := make([]linkView, 0, len(m.Links))
	for _, l := range m.Links {
		view := linkView{Link: l}
		if path, ok := h.session.RenderPath(l); ok {
			view.Path = path
			metrics.RenderedPathPoints.Observe(float64(len(path)))
		}
		links = append(links, view)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metadata": m.Metadata,
		"devices":  m.Devices,
		"links":    links,
		"session":  h.sessionSnapshot(),
	})
}

// PUT /v1/map — replace the whole document.
func (h *Handler) replaceMap(w http.ResponseWriter, r *http.Request) {
	var m netmap.Map
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	workspace.Normalize(&m)
	if err := workspace.Validate(&m); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.SetMap(&m)
	h.updateGauges()
	metrics.MutationsTotal.WithLabelValues("replace_map").Inc()
	h.maybeAutosave()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"devices": len(m.Devices),
		"links":   len(m.Links),
	})
}

// POST /v1/map/save — write the document back to the workspace file.
func (h *Handler) saveMap(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusConflict, "no workspace file configured")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := workspace.Save(h.loader.Path(), h.session.Map()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"saved": true,
		"path":  h.loader.Path(),
	})
}

// POST /v1/map/reload — re-read the document from the workspace file.
func (h *Handler) reloadMap(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusConflict, "no workspace file configured")
		return
	}

	m, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.DocumentReloads.Inc()

	h.mu.Lock()
	defer h.mu.Unlock()
	// The loader's OnChange callbacks may already have swapped the map;
	// setting it again is harmless and keeps the paths independent.
	h.session.SetMap(m)
	h.updateGauges()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"devices":  len(m.Devices),
		"links":    len(m.Links),
	})
}

// GET /v1/devices — list devices.
func (h *Handler) listDevices(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, h.session.Map().Devices)
}

// POST /v1/devices — add a device at a position.
func (h *Handler) addDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position netmap.Coordinate `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.session.AddDevice(req.Position)
	h.updateGauges()
	metrics.MutationsTotal.WithLabelValues("add_device").Inc()
	h.maybeAutosave()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// devicePatchRequest mirrors netmap.DevicePatch on the wire.
type devicePatchRequest struct {
	Label    *string              `json:"label"`
	Position *netmap.Coordinate   `json:"position"`
	Status   *netmap.DeviceStatus `json:"status"`
	Width    *float64             `json:"width"`
	Height   *float64             `json:"height"`
}

// PATCH /v1/devices/{id} — update device fields.
func (h *Handler) updateDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req devicePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.session.Map().HasDevice(id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown device: %s", id))
		return
	}
	h.session.UpdateDevice(id, netmap.DevicePatch{
		Label:    req.Label,
		Position: req.Position,
		Status:   req.Status,
		Width:    req.Width,
		Height:   req.Height,
	})
	metrics.MutationsTotal.WithLabelValues("update_device").Inc()
	h.maybeAutosave()
	d, _ := h.session.Map().Device(id)
	writeJSON(w, http.StatusOK, d)
}

// DELETE /v1/devices/{id} — remove a device and its links.
func (h *Handler) removeDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.RemoveDevice(id)
	h.updateGauges()
	metrics.MutationsTotal.WithLabelValues("remove_device").Inc()
	h.maybeAutosave()
	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/links — list links.
func (h *Handler) listLinks(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, h.session.Map().Links)
}

// POST /v1/links — link two devices.
func (h *Handler) addLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.session.Map()
	if !m.HasDevice(req.Source) || !m.HasDevice(req.Target) {
		writeError(w, http.StatusNotFound, "unknown source or target device")
		return
	}
	if _, exists := m.Link(req.Source, req.Target); exists {
		writeError(w, http.StatusConflict, "link already exists")
		return
	}
	h.session.AddLink(req.Source, req.Target)
	h.updateGauges()
	metrics.MutationsTotal.WithLabelValues("add_link").Inc()
	h.maybeAutosave()
	l, _ := m.Link(req.Source, req.Target)
	writeJSON(w, http.StatusCreated, l)
}

// PATCH /v1/links/{source}/{target} — change style, waypoints or smoothing.
func (h *Handler) updateLink(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")
	target := r.PathValue("target")

	var req struct {
		Style     *netmap.LinkStyle    `json:"style"`
		Waypoints *[]netmap.Coordinate `json:"waypoints"`
		Curvy     *bool                `json:"curvy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.session.Map().Link(source, target); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown link: %s->%s", source, target))
		return
	}
	if req.Style != nil {
		h.session.SetLinkStyle(source, target, *req.Style)
		metrics.MutationsTotal.WithLabelValues("set_link_style").Inc()
	}
	if req.Waypoints != nil {
		h.session.SetLinkWaypoints(source, target, *req.Waypoints)
		metrics.MutationsTotal.WithLabelValues("set_link_waypoints").Inc()
	}
	if req.Curvy != nil {
		h.session.SetLinkCurvy(source, target, *req.Curvy)
		metrics.MutationsTotal.WithLabelValues("set_link_curvy").Inc()
	}
	h.maybeAutosave()
	l, _ := h.session.Map().Link(source, target)
	writeJSON(w, http.StatusOK, l)
}

// DELETE /v1/links/{source}/{target} — remove a link.
func (h *Handler) removeLink(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")
	target := r.PathValue("target")

	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.RemoveLink(source, target)
	h.updateGauges()
	metrics.MutationsTotal.WithLabelValues("remove_link").Inc()
	h.maybeAutosave()
	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/links/{source}/{target}/path — the computed render points.
func (h *Handler) linkPath(w http.ResponseWriter, r *http.Request) {
	source := r.PathValue("source")
	target := r.PathValue("target")

	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.session.Map().Link(source, target)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown link: %s->%s", source, target))
		return
	}
	path, ok := h.session.RenderPath(l)
	if !ok {
		// The link references a missing device; it exists but cannot
		// be drawn.
		writeJSON(w, http.StatusOK, map[string]interface{}{"points": nil})
		return
	}
	metrics.RenderedPathPoints.Observe(float64(len(path)))
	writeJSON(w, http.StatusOK, map[string]interface{}{"points": path})
}

// GET /v1/session — current editing state.
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, h.sessionSnapshot())
}

// DELETE /v1/session — cancel any active edit.
func (h *Handler) cancelSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.Cancel()
	metrics.SessionTransitions.WithLabelValues(h.session.State().String()).Inc()
	writeJSON(w, http.StatusOK, h.sessionSnapshot())
}

// sessionEventRequest is one editing event from a client.
type sessionEventRequest struct {
	Type   string             `json:"type"`
	Source string             `json:"source,omitempty"`
	Target string             `json:"target,omitempty"`
	At     *netmap.Coordinate `json:"at,omitempty"`
	Index  *int               `json:"index,omitempty"`
	Key    string             `json:"key,omitempty"`
}

// POST /v1/session/events — feed one event into the state machine. Events
// that are invalid for the current state are silently ignored, matching
// the editor's semantics; the response always carries the resulting state.
func (h *Handler) sessionEvent(w http.ResponseWriter, r *http.Request) {
	var ev sessionEventRequest
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch ev.Type {
	case "begin_edit":
		h.session.BeginEdit(ev.Source, ev.Target)
	case "path_click":
		if ev.At == nil {
			writeError(w, http.StatusBadRequest, "path_click requires at")
			return
		}
		h.session.HandlePathClick(ev.Source, ev.Target, *ev.At)
	case "path_press":
		if ev.At == nil {
			writeError(w, http.StatusBadRequest, "path_press requires at")
			return
		}
		h.session.HandlePathPress(ev.Source, ev.Target, *ev.At)
	case "waypoint_press":
		if ev.Index == nil {
			writeError(w, http.StatusBadRequest, "waypoint_press requires index")
			return
		}
		h.session.StartWaypointDrag(ev.Source, ev.Target, *ev.Index)
	case "drag_move":
		if ev.At == nil {
			writeError(w, http.StatusBadRequest, "drag_move requires at")
			return
		}
		h.session.HandleDragMove(*ev.At)
	case "drag_end":
		h.session.EndDrag()
	case "waypoint_remove":
		if ev.Index == nil {
			writeError(w, http.StatusBadRequest, "waypoint_remove requires index")
			return
		}
		h.session.RemoveWaypoint(ev.Source, ev.Target, *ev.Index)
	case "cancel":
		h.session.Cancel()
	case "key":
		if ev.Key == "escape" {
			h.session.HandleKey(editor.KeyEscape)
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown event type: %q", ev.Type))
		return
	}

	metrics.SessionEventsTotal.WithLabelValues(ev.Type).Inc()
	metrics.SessionTransitions.WithLabelValues(h.session.State().String()).Inc()
	// Waypoint edits change the document too; drag_move is skipped so a
	// sculpting stream does not rewrite the file on every sample.
	if ev.Type != "drag_move" {
		h.maybeAutosave()
	}
	writeJSON(w, http.StatusOK, h.sessionSnapshot())
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
