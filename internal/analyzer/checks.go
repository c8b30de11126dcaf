package analyzer

import (
	"fmt"

	"github.com/framefuse/keyline/internal/easing"
	"github.com/framefuse/keyline/internal/keyframe"
	"github.com/framefuse/keyline/internal/scenario"
	"github.com/framefuse/keyline/internal/transition"
)

// BlockedChecker flags keyframes placed inside transition-reserved ranges.
// The editor refuses to drag keyframes into them, but hand-written YAML can
// still put them there.
type BlockedChecker struct{}

func (c *BlockedChecker) Check(sc *scenario.Scenario) ([]Issue, error) {
	var issues []Issue
	for _, item := range sc.Items {
		clip := transition.Clip{ID: item.ID, DurationInFrames: item.DurationInFrames}
		transitions := sc.TransitionsFor(item.ID)
		for _, tr := range item.Tracks {
			for _, k := range tr.Keyframes {
				if br, ok := transition.IsBlocked(k.Frame, clip, transitions); ok {
					issues = append(issues, Issue{
						ItemID:   item.ID,
						Property: tr.Property,
						Frame:    k.Frame,
						Message:  fmt.Sprintf("inside %s range [%d, %d) of transition %s", br.Role, br.Start, br.End, br.TransitionID),
					})
				}
			}
		}
	}
	return issues, nil
}

// RangeChecker flags keyframe values outside the property's declared range
// and frames outside the item.
type RangeChecker struct{}

func (c *RangeChecker) Check(sc *scenario.Scenario) ([]Issue, error) {
	var issues []Issue
	for _, item := range sc.Items {
		for _, tr := range item.Tracks {
			prop := keyframe.Property(tr.Property)
			if !prop.Valid() {
				issues = append(issues, Issue{
					ItemID:   item.ID,
					Property: tr.Property,
					Message:  "unknown property",
				})
				continue
			}
			lo, hi := prop.Range()
			for _, k := range tr.Keyframes {
				if k.Value < lo || k.Value > hi {
					issues = append(issues, Issue{
						ItemID:   item.ID,
						Property: tr.Property,
						Frame:    k.Frame,
						Message:  fmt.Sprintf("value %g outside [%g, %g]", k.Value, lo, hi),
					})
				}
				if k.Frame >= item.DurationInFrames {
					issues = append(issues, Issue{
						ItemID:   item.ID,
						Property: tr.Property,
						Frame:    k.Frame,
						Message:  fmt.Sprintf("frame beyond item duration %d", item.DurationInFrames),
					})
				}
			}
		}
	}
	return issues, nil
}

// EasingChecker flags easing specs the evaluator silently repairs or cannot
// evaluate: missing parameters, bezier control X outside [0, 1] and
// non-positive spring physics.
type EasingChecker struct{}

func (c *EasingChecker) Check(sc *scenario.Scenario) ([]Issue, error) {
	var issues []Issue
	for _, item := range sc.Items {
		for _, tr := range item.Tracks {
			for _, k := range tr.Keyframes {
				if msg, bad := lintSpec(k.Easing); bad {
					issues = append(issues, Issue{
						ItemID:   item.ID,
						Property: tr.Property,
						Frame:    k.Frame,
						Message:  msg,
					})
				}
			}
		}
	}
	return issues, nil
}

func lintSpec(spec easing.Spec) (string, bool) {
	switch spec.Kind {
	case easing.CubicBezier:
		b := spec.Bezier
		if b == nil {
			return "cubic-bezier without parameters, falls back to linear", true
		}
		if b.X1 < 0 || b.X1 > 1 || b.X2 < 0 || b.X2 > 1 {
			return fmt.Sprintf("bezier control x (%g, %g) outside [0, 1], will be clamped", b.X1, b.X2), true
		}
	case easing.Spring:
		s := spec.Spring
		if s == nil {
			return "spring without parameters, falls back to linear", true
		}
		if s.Tension <= 0 || s.Friction <= 0 || s.Mass <= 0 {
			return "spring physics must be positive, falls back to linear", true
		}
	}
	return "", false
}
