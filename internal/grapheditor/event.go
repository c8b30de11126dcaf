package grapheditor

import (
	"github.com/framefuse/keyline/internal/keyframe"
	"github.com/framefuse/keyline/internal/transition"
)

// EventType discriminates host input delivered to the editor.
type EventType uint8

const (
	EventPointerDown EventType = iota
	EventPointerMove
	EventPointerUp
	// EventPointerLost is an abnormal end of pointer delivery (device gone,
	// capture stolen). Treated as a release at the last previewed position.
	EventPointerLost
	EventWheel

	// Discrete viewport actions.
	EventZoomIn
	EventZoomOut
	EventZoomFit
	EventZoomReset
)

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	// Shift locks the drag to its dominant axis.
	Shift bool
	// Alt halves pointer deltas for fine adjustment.
	Alt bool
	// SnapDisable temporarily suppresses snapping while held.
	SnapDisable bool
}

// Event is one host input event in viewport pixel coordinates.
type Event struct {
	Type EventType
	X    float64
	Y    float64
	// WheelDelta is positive for zoom out, negative for zoom in.
	WheelDelta float64
	Mod        Modifiers
}

// Context is the slice of host state the editor needs to process one event.
// The editor stores none of it; every event is resolved against fresh data.
type Context struct {
	// Keyframes of the edited property, sorted by frame.
	Keyframes []keyframe.Keyframe
	// Playhead is the current frame of the timeline cursor, a snap target.
	Playhead int
	// Blocked are the transition-reserved ranges of the edited clip.
	Blocked []transition.BlockedRange
}
