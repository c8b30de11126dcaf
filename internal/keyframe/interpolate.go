package keyframe

import "github.com/framefuse/keyline/internal/easing"

// Value resolves a property's value at a frame from its sorted keyframe list.
// An empty list returns the base (non-animated) value; frames outside the
// keyframed span hold the nearest endpoint. Between two keyframes, progress is
// shaped by the departing keyframe's easing and blended linearly.
func Value(keyframes []Keyframe, frame float64, baseValue float64) float64 {
	if len(keyframes) == 0 {
		return baseValue
	}

	first := keyframes[0]
	last := keyframes[len(keyframes)-1]
	if frame <= float64(first.Frame) {
		return first.Value
	}
	if frame >= float64(last.Frame) {
		return last.Value
	}

	for i := 0; i < len(keyframes)-1; i++ {
		prev := keyframes[i]
		next := keyframes[i+1]
		if frame < float64(prev.Frame) || frame >= float64(next.Frame) {
			continue
		}
		span := next.Frame - prev.Frame
		if span == 0 {
			// Duplicate frames violate the track invariant but must not
			// divide by zero.
			return prev.Value
		}
		t := (frame - float64(prev.Frame)) / float64(span)
		eased := easing.Evaluate(t, prev.Easing)
		return prev.Value + (next.Value-prev.Value)*eased
	}

	return last.Value
}
