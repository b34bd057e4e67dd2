// Package editor owns the modal state machine for interactive link-path
// editing. A Session wraps a netmap.Map, interprets pointer and key events
// from a host, and applies the resulting mutations to the map. Events that
// make no sense in the current state are ignored rather than failed, so
// hosts can forward input without pre-validating it.
package editor

// State identifies what the session is currently doing.
type State int

const (
	// StateIdle means no link is being edited.
	StateIdle State = iota
	// StateEditing means one link's waypoints are exposed as handles.
	StateEditing
	// StateDragging means one of those handles is following the pointer.
	StateDragging
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// KeyEscape is the key identifier hosts feed to HandleKey for the Escape
// key.
const KeyEscape = 27
