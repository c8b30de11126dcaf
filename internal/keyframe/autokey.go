package keyframe

// Action is what the auto-keyframe policy asks the caller to do.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
)

// Decision is the outcome of the auto-keyframe policy for one property edit.
// When Handled is false the caller applies the edit to the base, non-animated
// value instead of writing a keyframe.
type Decision struct {
	Handled    bool
	Action     Action
	KeyframeID string
}

// Decide resolves what a direct-manipulation edit of a property should do to
// the keyframe store. The policy is invoked once per animatable sub-property
// per edit; callers fall back to a base-transform update only when every
// invoked sub-property reports Handled=false.
//
// New keyframes produced by ActionAdd default to linear easing.
func Decide(track *Track, relativeFrame int, itemDuration int) Decision {
	// A property with no keyframes stays non-animated.
	if track == nil || track.Empty() {
		return Decision{}
	}
	if relativeFrame < 0 || relativeFrame >= itemDuration {
		return Decision{}
	}
	if existing, ok := track.At(relativeFrame); ok {
		return Decision{Handled: true, Action: ActionUpdate, KeyframeID: existing.ID}
	}
	return Decision{Handled: true, Action: ActionAdd}
}
