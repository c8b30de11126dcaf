// Package scenario defines the YAML document the preview tools consume: a set
// of timeline items with base values, keyframe tracks, and the transitions
// between adjacent items. It is an input format for offline tooling, not the
// editor's own persistence.
package scenario

import (
	"fmt"

	"github.com/framefuse/keyline/internal/easing"
	"github.com/framefuse/keyline/internal/keyframe"
	"github.com/framefuse/keyline/internal/transition"
)

// Scenario is a complete animation document.
type Scenario struct {
	Version     string           `yaml:"version"`
	Items       []Item           `yaml:"items"`
	Transitions []TransitionSpec `yaml:"transitions,omitempty"`
}

// Item is one timeline item with its animated property tracks.
type Item struct {
	ID               string             `yaml:"id"`
	DurationInFrames int                `yaml:"duration"`
	FPS              float64            `yaml:"fps"`
	Base             map[string]float64 `yaml:"base,omitempty"`
	Tracks           []Track            `yaml:"tracks"`
}

// Track is the keyframe list of one property.
type Track struct {
	Property  string `yaml:"property"`
	Keyframes []Key  `yaml:"keyframes"`
}

// Key is one authored keyframe.
type Key struct {
	Frame  int         `yaml:"frame"`
	Value  float64     `yaml:"value"`
	Easing easing.Spec `yaml:"easing"`
}

// TransitionSpec declares a transition between two adjacent items.
type TransitionSpec struct {
	ID               string `yaml:"id"`
	Left             string `yaml:"left"`
	Right            string `yaml:"right"`
	DurationInFrames int    `yaml:"duration"`
	Alignment        string `yaml:"alignment"`
}

// BaseValue returns the item's non-animated value for a property, defaulting
// to the sensible zero for the property kind.
func (i Item) BaseValue(p keyframe.Property) float64 {
	if v, ok := i.Base[string(p)]; ok {
		return v
	}
	if p == keyframe.PropOpacity {
		return 1
	}
	return 0
}

// Animation validates the item's tracks and builds the runtime keyframe sets.
// Unknown properties, negative frames, and duplicate frames are rejected.
func (i Item) Animation() (*keyframe.ItemAnimation, error) {
	anim := keyframe.NewItemAnimation(i.ID)
	for _, tr := range i.Tracks {
		prop := keyframe.Property(tr.Property)
		if !prop.Valid() {
			return nil, fmt.Errorf("item %s: unknown property %q", i.ID, tr.Property)
		}
		for _, k := range tr.Keyframes {
			kf := keyframe.NewKeyframe(k.Frame, k.Value)
			if k.Easing.Kind != "" {
				kf.Easing = k.Easing
			}
			if err := anim.Insert(prop, kf); err != nil {
				return nil, fmt.Errorf("item %s, property %s: %w", i.ID, tr.Property, err)
			}
		}
	}
	return anim, nil
}

// TransitionsFor returns the runtime transitions touching the given item.
func (s *Scenario) TransitionsFor(itemID string) []transition.Transition {
	var out []transition.Transition
	for _, t := range s.Transitions {
		if t.Left != itemID && t.Right != itemID {
			continue
		}
		align := transition.Alignment(t.Alignment)
		if align == "" {
			align = transition.AlignCenter
		}
		out = append(out, transition.Transition{
			ID:               t.ID,
			LeftClipID:       t.Left,
			RightClipID:      t.Right,
			DurationInFrames: t.DurationInFrames,
			Alignment:        align,
		})
	}
	return out
}

// Item returns the item with the given id.
func (s *Scenario) Item(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}
