package grapheditor

import (
	"math"
	"sort"

	"github.com/framefuse/keyline/internal/easing"
	"github.com/framefuse/keyline/internal/keyframe"
	"github.com/framefuse/keyline/internal/transition"
)

// State is the editor's drag sub-state.
type State uint8

const (
	StateIdle State = iota
	// StatePendingDrag: pointer is down on a keyframe but the gesture is
	// still eligible to resolve as a plain click.
	StatePendingDrag
	StateDraggingKeyframe
	StateDraggingHandle
)

// Config holds the fixed interaction thresholds.
type Config struct {
	// DragThresholdPx is the displacement on either axis that turns a click
	// into a drag.
	DragThresholdPx float64
	// SnapThresholdPx is the maximum pixel distance at which a candidate
	// snaps to a target.
	SnapThresholdPx float64
	// HitRadiusPx is the hit-area radius of keyframe points and handles.
	HitRadiusPx float64
	// SnapEnabled toggles snapping globally; the SnapDisable modifier
	// suppresses it per-event.
	SnapEnabled bool
}

// DefaultConfig returns the stock interaction thresholds.
func DefaultConfig() Config {
	return Config{
		DragThresholdPx: 3,
		SnapThresholdPx: 8,
		HitRadiusPx:     6,
		SnapEnabled:     true,
	}
}

// Editor is the interactive curve editor for one (item, property) pair. It
// owns only view state (viewport, drag, selection); keyframe data arrives
// with every event and all mutation is emitted as intents for the host to
// apply. Single-threaded: one editor serves one open graph.
type Editor struct {
	cfg      Config
	property keyframe.Property
	maxFrame int
	viewport Viewport
	state    State

	selection map[string]bool

	// Gesture bookkeeping, valid outside StateIdle.
	startX, startY float64
	dragID         string
	dragStartFrame int
	dragStartValue float64

	// Handle drags.
	handleEnd    HandleEnd
	handlePrevID string

	// Background press eligible to resolve as deselect on release.
	backgroundDown bool
}

// New creates an editor for a property over a clip of maxFrame frames, with a
// viewport of the given pixel size showing the property's full declared range.
func New(property keyframe.Property, maxFrame int, width, height float64, cfg Config) *Editor {
	e := &Editor{cfg: cfg}
	e.Reset(property, maxFrame, width, height)
	return e
}

// Reset switches the editor to a different property or item, fully clearing
// viewport, drag state, and selection.
func (e *Editor) Reset(property keyframe.Property, maxFrame int, width, height float64) {
	e.property = property
	e.maxFrame = maxFrame
	e.viewport = resetViewport(width, height, property, maxFrame)
	e.state = StateIdle
	e.selection = make(map[string]bool)
	e.clearGesture()
}

// State returns the current drag sub-state.
func (e *Editor) State() State { return e.state }

// Viewport returns the current screen/data mapping.
func (e *Editor) Viewport() Viewport { return e.viewport }

// Selection returns the selected keyframe ids, sorted for determinism.
func (e *Editor) Selection() []string {
	ids := make([]string, 0, len(e.selection))
	for id := range e.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetSnapEnabled toggles snapping.
func (e *Editor) SetSnapEnabled(enabled bool) { e.cfg.SnapEnabled = enabled }

// HandleEvent advances the state machine and returns the intents the host
// must apply. It never fails; events that cannot make progress are ignored.
func (e *Editor) HandleEvent(ev Event, ctx Context) []Intent {
	switch ev.Type {
	case EventPointerDown:
		return e.pointerDown(ev, ctx)
	case EventPointerMove:
		return e.pointerMove(ev, ctx)
	case EventPointerUp:
		return e.pointerUp()
	case EventPointerLost:
		return e.pointerLost()
	case EventWheel:
		return e.wheel(ev)
	case EventZoomIn, EventZoomOut, EventZoomFit, EventZoomReset:
		return e.zoomAction(ev.Type, ctx)
	}
	return nil
}

func (e *Editor) pointerDown(ev Event, ctx Context) []Intent {
	if e.state != StateIdle {
		return nil
	}
	e.backgroundDown = false

	if prevID, end, ok := e.hitHandle(ev.X, ev.Y, ctx); ok {
		// Handles drag immediately; there is no click meaning for them.
		e.state = StateDraggingHandle
		e.handlePrevID = prevID
		e.handleEnd = end
		e.startX, e.startY = ev.X, ev.Y
		return []Intent{
			{Type: IntentCapturePointer},
			{Type: IntentDragStarted},
		}
	}

	if kf, ok := e.hitKeyframe(ev.X, ev.Y, ctx); ok {
		e.state = StatePendingDrag
		e.dragID = kf.ID
		e.dragStartFrame = kf.Frame
		e.dragStartValue = kf.Value
		e.startX, e.startY = ev.X, ev.Y
		return []Intent{{Type: IntentCapturePointer}}
	}

	e.backgroundDown = true
	return nil
}

func (e *Editor) pointerMove(ev Event, ctx Context) []Intent {
	switch e.state {
	case StatePendingDrag:
		dx := ev.X - e.startX
		dy := ev.Y - e.startY
		if math.Abs(dx) <= e.cfg.DragThresholdPx && math.Abs(dy) <= e.cfg.DragThresholdPx {
			return nil
		}
		e.state = StateDraggingKeyframe
		intents := []Intent{{Type: IntentDragStarted}}
		return append(intents, e.dragKeyframe(ev, ctx)...)

	case StateDraggingKeyframe:
		return e.dragKeyframe(ev, ctx)

	case StateDraggingHandle:
		return e.dragHandle(ev, ctx)
	}
	return nil
}

// dragKeyframe converts the pointer position into a clamped, snapped,
// blocked-range-aware (frame, value) candidate and emits a move intent.
func (e *Editor) dragKeyframe(ev Event, ctx Context) []Intent {
	dx := ev.X - e.startX
	dy := ev.Y - e.startY
	if ev.Mod.Alt {
		dx /= 2
		dy /= 2
	}
	if ev.Mod.Shift {
		// Lock the secondary axis once the dominant axis of accumulated
		// displacement is determined. Recomputed every move, so the lock can
		// flip early in a drag.
		if math.Abs(dx) >= math.Abs(dy) {
			dy = 0
		} else {
			dx = 0
		}
	}

	frameF := float64(e.dragStartFrame) + dx/e.viewport.PixelsPerFrame()
	valueF := e.dragStartValue - dy/e.viewport.PixelsPerValue()

	frameF = clampF(frameF, 0, float64(e.maxFrame-1))
	minV, maxV := e.property.Range()
	valueF = clampF(valueF, minV, maxV)

	if e.cfg.SnapEnabled && !ev.Mod.SnapDisable {
		frameF = e.snapFrame(frameF, ctx)
		valueF = e.snapValue(valueF, ctx, minV, maxV)
	}

	frame := int(math.Round(frameF))
	frame = e.avoidBlocked(frame, ctx.Blocked)
	frame = clampI(frame, 0, e.maxFrame-1)

	return []Intent{{
		Type:       IntentKeyframeMoved,
		KeyframeID: e.dragID,
		Frame:      frame,
		Value:      valueF,
	}}
}

// snapFrame snaps the candidate frame to the closest of: frame 0, the
// playhead, and every other keyframe's frame, within the pixel threshold.
func (e *Editor) snapFrame(frameF float64, ctx Context) float64 {
	threshold := e.cfg.SnapThresholdPx / e.viewport.PixelsPerFrame()
	targets := []float64{0, float64(ctx.Playhead)}
	for _, kf := range ctx.Keyframes {
		if kf.ID != e.dragID {
			targets = append(targets, float64(kf.Frame))
		}
	}
	return snapToClosest(frameF, targets, threshold)
}

// snapValue snaps the candidate value to the closest of: the property's
// declared min/max, zero and one when in range, and every other keyframe's
// value, within the pixel threshold.
func (e *Editor) snapValue(valueF float64, ctx Context, minV, maxV float64) float64 {
	threshold := e.cfg.SnapThresholdPx / e.viewport.PixelsPerValue()
	targets := []float64{minV, maxV}
	if minV < 0 && maxV > 0 {
		targets = append(targets, 0)
	}
	if minV < 1 && maxV > 1 {
		targets = append(targets, 1)
	}
	for _, kf := range ctx.Keyframes {
		if kf.ID != e.dragID {
			targets = append(targets, kf.Value)
		}
	}
	return snapToClosest(valueF, targets, threshold)
}

func snapToClosest(v float64, targets []float64, threshold float64) float64 {
	best := v
	bestDist := threshold
	for _, target := range targets {
		if d := math.Abs(v - target); d <= bestDist {
			best = target
			bestDist = d
		}
	}
	return best
}

// avoidBlocked keeps the candidate frame out of transition-reserved ranges,
// clamping to the near edge relative to where the drag started. The drag
// never teleports across a blocked region.
func (e *Editor) avoidBlocked(frame int, blocked []transition.BlockedRange) int {
	for _, r := range blocked {
		if !r.Contains(frame) {
			continue
		}
		if e.dragStartFrame < r.Start {
			return r.Start - 1
		}
		return r.End
	}
	return frame
}

// dragHandle projects the pointer onto the segment between the two keyframes
// bounding the dragged handle and emits the updated bezier parameters.
func (e *Editor) dragHandle(ev Event, ctx Context) []Intent {
	prev, next, ok := segmentFor(e.handlePrevID, ctx.Keyframes)
	if !ok || next.Frame == prev.Frame {
		// Zero-width segment: the handle cannot make progress.
		return nil
	}

	bez := easing.BezierParams{X1: 0.25, Y1: 0.25, X2: 0.75, Y2: 0.75}
	if prev.Easing.Kind == easing.CubicBezier && prev.Easing.Bezier != nil {
		bez = *prev.Easing.Bezier
	}

	u := (e.viewport.XToFrame(ev.X) - float64(prev.Frame)) / float64(next.Frame-prev.Frame)
	u = clampF(u, 0, 1) // time must not reverse

	// Y is left unclamped: overshoot is a valid authored effect. A flat
	// segment has no value direction to project onto, so Y is kept.
	valueSpan := next.Value - prev.Value
	switch e.handleEnd {
	case HandleOut:
		bez.X1 = u
		if valueSpan != 0 {
			bez.Y1 = (e.viewport.YToValue(ev.Y) - prev.Value) / valueSpan
		}
	case HandleIn:
		bez.X2 = u
		if valueSpan != 0 {
			bez.Y2 = (e.viewport.YToValue(ev.Y) - prev.Value) / valueSpan
		}
	}

	return []Intent{{
		Type:       IntentBezierHandleMoved,
		KeyframeID: prev.ID,
		Handle:     e.handleEnd,
		Bezier:     bez,
	}}
}

func (e *Editor) pointerUp() []Intent {
	switch e.state {
	case StatePendingDrag:
		// Below the drag threshold the gesture is a click: toggle selection.
		e.selection[e.dragID] = !e.selection[e.dragID]
		if !e.selection[e.dragID] {
			delete(e.selection, e.dragID)
		}
		intents := []Intent{
			{Type: IntentSelectionChanged, Selection: e.Selection()},
			{Type: IntentReleasePointer},
		}
		e.endGesture()
		return intents

	case StateDraggingKeyframe, StateDraggingHandle:
		intents := []Intent{
			{Type: IntentDragEnded},
			{Type: IntentReleasePointer},
		}
		e.endGesture()
		return intents
	}

	// Background click with no gesture in flight deselects everything.
	if e.backgroundDown {
		e.backgroundDown = false
		if len(e.selection) > 0 {
			e.selection = make(map[string]bool)
			return []Intent{{Type: IntentSelectionChanged, Selection: nil}}
		}
	}
	return nil
}

// pointerLost handles abnormal capture loss: equivalent to a release at the
// last previewed position. The host keeps the last accepted move applied.
func (e *Editor) pointerLost() []Intent {
	switch e.state {
	case StatePendingDrag:
		e.endGesture()
		return []Intent{{Type: IntentReleasePointer}}
	case StateDraggingKeyframe, StateDraggingHandle:
		intents := []Intent{
			{Type: IntentDragEnded},
			{Type: IntentReleasePointer},
		}
		e.endGesture()
		return intents
	}
	e.backgroundDown = false
	return nil
}

// wheel zooms about the pointer's data-space position. Suppressed entirely
// while any drag sub-state is active.
func (e *Editor) wheel(ev Event) []Intent {
	if e.state != StateIdle || ev.WheelDelta == 0 {
		return nil
	}
	factor := zoomOutFactor
	if ev.WheelDelta < 0 {
		factor = zoomInFactor
	}
	e.viewport = e.viewport.zoomAbout(factor, ev.X, ev.Y)
	return []Intent{{Type: IntentViewportChanged, Viewport: e.viewport}}
}

func (e *Editor) zoomAction(t EventType, ctx Context) []Intent {
	if e.state != StateIdle {
		return nil
	}
	switch t {
	case EventZoomIn:
		e.viewport = e.viewport.zoomCentered(zoomInFactor)
	case EventZoomOut:
		e.viewport = e.viewport.zoomCentered(zoomOutFactor)
	case EventZoomFit:
		e.viewport = fitViewport(e.viewport, e.property, e.maxFrame, ctx.Keyframes)
	case EventZoomReset:
		e.viewport = resetViewport(e.viewport.Width, e.viewport.Height, e.property, e.maxFrame)
	}
	return []Intent{{Type: IntentViewportChanged, Viewport: e.viewport}}
}

// hitKeyframe returns the topmost keyframe whose point hit-area contains the
// pixel position.
func (e *Editor) hitKeyframe(x, y float64, ctx Context) (keyframe.Keyframe, bool) {
	for i := len(ctx.Keyframes) - 1; i >= 0; i-- {
		kf := ctx.Keyframes[i]
		px := e.viewport.FrameToX(float64(kf.Frame))
		py := e.viewport.ValueToY(kf.Value)
		if math.Hypot(x-px, y-py) <= e.cfg.HitRadiusPx {
			return kf, true
		}
	}
	return keyframe.Keyframe{}, false
}

// hitHandle returns the bezier handle under the pixel position. Handles exist
// only on segments whose departing keyframe uses cubic-bezier easing, and a
// zero-width segment exposes no handles at all.
func (e *Editor) hitHandle(x, y float64, ctx Context) (prevID string, end HandleEnd, ok bool) {
	for i := 0; i < len(ctx.Keyframes)-1; i++ {
		prev := ctx.Keyframes[i]
		next := ctx.Keyframes[i+1]
		if prev.Easing.Kind != easing.CubicBezier || prev.Easing.Bezier == nil {
			continue
		}
		if next.Frame == prev.Frame {
			continue
		}

		bez := *prev.Easing.Bezier
		frameSpan := float64(next.Frame - prev.Frame)
		valueSpan := next.Value - prev.Value

		outX := e.viewport.FrameToX(float64(prev.Frame) + bez.X1*frameSpan)
		outY := e.viewport.ValueToY(prev.Value + bez.Y1*valueSpan)
		if math.Hypot(x-outX, y-outY) <= e.cfg.HitRadiusPx {
			return prev.ID, HandleOut, true
		}

		inX := e.viewport.FrameToX(float64(prev.Frame) + bez.X2*frameSpan)
		inY := e.viewport.ValueToY(prev.Value + bez.Y2*valueSpan)
		if math.Hypot(x-inX, y-inY) <= e.cfg.HitRadiusPx {
			return prev.ID, HandleIn, true
		}
	}
	return "", 0, false
}

// segmentFor finds the segment departing from the keyframe with the given id.
func segmentFor(prevID string, kfs []keyframe.Keyframe) (prev, next keyframe.Keyframe, ok bool) {
	for i := 0; i < len(kfs)-1; i++ {
		if kfs[i].ID == prevID {
			return kfs[i], kfs[i+1], true
		}
	}
	return keyframe.Keyframe{}, keyframe.Keyframe{}, false
}

func (e *Editor) clearGesture() {
	e.startX, e.startY = 0, 0
	e.dragID = ""
	e.dragStartFrame = 0
	e.dragStartValue = 0
	e.handlePrevID = ""
	e.backgroundDown = false
}

func (e *Editor) endGesture() {
	e.state = StateIdle
	e.clearGesture()
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
