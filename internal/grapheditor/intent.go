package grapheditor

import "github.com/framefuse/keyline/internal/easing"

// IntentType discriminates what the host should do with an emitted intent.
type IntentType uint8

const (
	IntentNone IntentType = iota

	// IntentCapturePointer asks the host to route all further pointer events
	// of the gesture to this editor, regardless of hit area.
	IntentCapturePointer
	// IntentReleasePointer ends exclusive pointer routing. Emitted on every
	// exit path from a gesture.
	IntentReleasePointer

	// IntentSelectionChanged carries the new selected keyframe ids.
	IntentSelectionChanged
	// IntentDragStarted marks the start of an undo-batchable gesture.
	IntentDragStarted
	// IntentKeyframeMoved previews/commits a keyframe at (Frame, Value).
	IntentKeyframeMoved
	// IntentBezierHandleMoved carries the full updated bezier parameters of
	// the departing keyframe owning the dragged handle.
	IntentBezierHandleMoved
	// IntentDragEnded closes the undo batch opened by IntentDragStarted.
	IntentDragEnded
	// IntentViewportChanged reports a zoom/pan/fit/reset result.
	IntentViewportChanged
)

// HandleEnd identifies which bezier handle of a segment is being dragged.
type HandleEnd uint8

const (
	// HandleOut is the departing keyframe's handle, controlling (x1, y1).
	HandleOut HandleEnd = iota
	// HandleIn is the arriving side's handle, controlling (x2, y2).
	HandleIn
)

// Intent is a single instruction for the host. The editor never mutates the
// keyframe store itself; the host applies intents into its own state.
type Intent struct {
	Type       IntentType
	KeyframeID string
	Frame      int
	Value      float64
	Handle     HandleEnd
	Bezier     easing.BezierParams
	Selection  []string
	Viewport   Viewport
}
