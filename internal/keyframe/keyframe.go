package keyframe

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/framefuse/keyline/internal/easing"
)

// Property names an animatable numeric property of a timeline item.
type Property string

const (
	PropX            Property = "x"
	PropY            Property = "y"
	PropWidth        Property = "width"
	PropHeight       Property = "height"
	PropRotation     Property = "rotation"
	PropOpacity      Property = "opacity"
	PropCornerRadius Property = "cornerRadius"
)

// Properties lists every animatable property in display order.
var Properties = []Property{
	PropX, PropY, PropWidth, PropHeight, PropRotation, PropOpacity, PropCornerRadius,
}

// Range returns the declared value range for the property. Values a user can
// author are clamped to this range during interactive edits.
func (p Property) Range() (min, max float64) {
	switch p {
	case PropOpacity:
		return 0, 1
	case PropRotation:
		return -360, 360
	case PropWidth, PropHeight:
		return 0, 10000
	case PropCornerRadius:
		return 0, 500
	default: // x, y
		return -10000, 10000
	}
}

// Valid reports whether p is a known animatable property.
func (p Property) Valid() bool {
	for _, known := range Properties {
		if p == known {
			return true
		}
	}
	return false
}

// Keyframe anchors a property value at a clip-relative frame. Easing describes
// the transition leaving this keyframe, not arriving at it.
type Keyframe struct {
	ID     string
	Frame  int
	Value  float64
	Easing easing.Spec
}

// NewKeyframe creates a keyframe with a fresh id and linear easing.
func NewKeyframe(frame int, value float64) Keyframe {
	return Keyframe{
		ID:     uuid.New().String(),
		Frame:  frame,
		Value:  value,
		Easing: easing.LinearSpec(),
	}
}

// Track holds the keyframes of one property, sorted by frame with unique
// frames. All mutation goes through the methods below to preserve that
// invariant.
type Track struct {
	Property  Property
	Keyframes []Keyframe
}

// Insert adds a keyframe, keeping the list sorted. Inserting at a frame that
// already holds a keyframe is rejected; use Update instead.
func (t *Track) Insert(kf Keyframe) error {
	if kf.Frame < 0 {
		return fmt.Errorf("keyframe frame %d is negative", kf.Frame)
	}
	if _, ok := t.At(kf.Frame); ok {
		return fmt.Errorf("keyframe already exists at frame %d", kf.Frame)
	}
	t.Keyframes = append(t.Keyframes, kf)
	sort.Slice(t.Keyframes, func(i, j int) bool {
		return t.Keyframes[i].Frame < t.Keyframes[j].Frame
	})
	return nil
}

// Update replaces the value and easing of the keyframe with the given id.
func (t *Track) Update(id string, value float64, spec easing.Spec) error {
	for i := range t.Keyframes {
		if t.Keyframes[i].ID == id {
			t.Keyframes[i].Value = value
			t.Keyframes[i].Easing = spec
			return nil
		}
	}
	return fmt.Errorf("keyframe %s not found", id)
}

// Move changes a keyframe's frame and value, re-sorting the list. Moving onto
// another keyframe's frame is rejected.
func (t *Track) Move(id string, frame int, value float64) error {
	if frame < 0 {
		return fmt.Errorf("keyframe frame %d is negative", frame)
	}
	idx := -1
	for i := range t.Keyframes {
		if t.Keyframes[i].ID == id {
			idx = i
			continue
		}
		if t.Keyframes[i].Frame == frame {
			return fmt.Errorf("keyframe already exists at frame %d", frame)
		}
	}
	if idx < 0 {
		return fmt.Errorf("keyframe %s not found", id)
	}
	t.Keyframes[idx].Frame = frame
	t.Keyframes[idx].Value = value
	sort.Slice(t.Keyframes, func(i, j int) bool {
		return t.Keyframes[i].Frame < t.Keyframes[j].Frame
	})
	return nil
}

// Remove deletes the keyframe with the given id. Removing an unknown id is a
// no-op; the caller removes the track itself once it is empty.
func (t *Track) Remove(id string) {
	for i := range t.Keyframes {
		if t.Keyframes[i].ID == id {
			t.Keyframes = append(t.Keyframes[:i], t.Keyframes[i+1:]...)
			return
		}
	}
}

// At returns the keyframe exactly at the given frame.
func (t *Track) At(frame int) (Keyframe, bool) {
	for _, kf := range t.Keyframes {
		if kf.Frame == frame {
			return kf, true
		}
	}
	return Keyframe{}, false
}

// Get returns the keyframe with the given id.
func (t *Track) Get(id string) (Keyframe, bool) {
	for _, kf := range t.Keyframes {
		if kf.ID == id {
			return kf, true
		}
	}
	return Keyframe{}, false
}

// Empty reports whether the track has no keyframes, meaning the property is
// not animated and the base value applies everywhere.
func (t *Track) Empty() bool {
	return len(t.Keyframes) == 0
}

// ItemAnimation is the set of property tracks for one timeline item. Tracks
// are created lazily on first insert and dropped when their last keyframe is
// removed.
type ItemAnimation struct {
	ItemID string
	Tracks map[Property]*Track
}

// NewItemAnimation creates an empty animation set for an item.
func NewItemAnimation(itemID string) *ItemAnimation {
	return &ItemAnimation{
		ItemID: itemID,
		Tracks: make(map[Property]*Track),
	}
}

// Track returns the track for a property, or nil if the property is not
// animated.
func (a *ItemAnimation) Track(p Property) *Track {
	return a.Tracks[p]
}

// Insert adds a keyframe to the property's track, creating the track on first
// use.
func (a *ItemAnimation) Insert(p Property, kf Keyframe) error {
	if !p.Valid() {
		return fmt.Errorf("unknown property %q", p)
	}
	tr := a.Tracks[p]
	if tr == nil {
		tr = &Track{Property: p}
		a.Tracks[p] = tr
	}
	return tr.Insert(kf)
}

// Remove deletes a keyframe from the property's track and drops the track once
// it is empty.
func (a *ItemAnimation) Remove(p Property, id string) {
	tr := a.Tracks[p]
	if tr == nil {
		return
	}
	tr.Remove(id)
	if tr.Empty() {
		delete(a.Tracks, p)
	}
}

// Animated reports whether any property of the item has keyframes.
func (a *ItemAnimation) Animated() bool {
	return len(a.Tracks) > 0
}
