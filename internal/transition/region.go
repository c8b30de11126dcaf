// Package transition computes the frame ranges a transition reserves on its
// two adjacent clips. Keyframes must not be placed inside a reserved range;
// the graph editor and keyframe toggles consult these ranges before every
// placement.
package transition

// Alignment declares how a transition's duration is split across the clip
// boundary it spans.
type Alignment string

const (
	// AlignCenter consumes half the duration from each clip.
	AlignCenter Alignment = "center"
	// AlignStart places the whole transition inside the right clip.
	AlignStart Alignment = "start"
	// AlignEnd places the whole transition inside the left clip.
	AlignEnd Alignment = "end"
)

// Clip is the slice of timeline state the calculator needs.
type Clip struct {
	ID               string
	DurationInFrames int
}

// Transition spans the boundary between two adjacent clips on one track.
type Transition struct {
	ID               string
	LeftClipID       string
	RightClipID      string
	DurationInFrames int
	Alignment        Alignment
}

// Role says which side of a clip a blocked range protects.
type Role string

const (
	RoleOutgoing Role = "outgoing"
	RoleIncoming Role = "incoming"
)

// BlockedRange is a half-open frame interval [Start, End) on a clip reserved
// by a transition. Derived, never persisted; recompute whenever transitions or
// clip durations change.
type BlockedRange struct {
	Start        int
	End          int
	Role         Role
	TransitionID string
}

// Contains reports whether the frame falls inside the range.
func (r BlockedRange) Contains(frame int) bool {
	return frame >= r.Start && frame < r.End
}

// split divides a transition's duration into the portion consumed from the
// end of the left clip (outgoing) and from the start of the right clip
// (incoming).
func split(tr Transition) (outgoing, incoming int) {
	switch tr.Alignment {
	case AlignStart:
		return 0, tr.DurationInFrames
	case AlignEnd:
		return tr.DurationInFrames, 0
	default:
		// Center: odd durations give the extra frame to the outgoing side.
		incoming = tr.DurationInFrames / 2
		outgoing = tr.DurationInFrames - incoming
		return outgoing, incoming
	}
}

// BlockedRanges returns the reserved ranges on a clip for every transition
// attached to it. A clip can be the right clip of one transition and the left
// clip of another; when the two reservations would overlap they are scaled
// down proportionally so the clip never becomes fully blocked.
func BlockedRanges(clip Clip, transitions []Transition) []BlockedRange {
	var incoming, outgoing int
	var incomingRef, outgoingRef string
	var hasIncoming, hasOutgoing bool

	for _, tr := range transitions {
		if tr.DurationInFrames <= 0 {
			continue
		}
		out, in := split(tr)
		if tr.LeftClipID == clip.ID && out > 0 {
			outgoing, outgoingRef, hasOutgoing = out, tr.ID, true
		}
		if tr.RightClipID == clip.ID && in > 0 {
			incoming, incomingRef, hasIncoming = in, tr.ID, true
		}
	}

	if hasIncoming && hasOutgoing {
		incoming, outgoing = rebalance(incoming, outgoing, clip.DurationInFrames)
	}

	var ranges []BlockedRange
	if hasIncoming && incoming > 0 {
		ranges = append(ranges, BlockedRange{
			Start:        0,
			End:          clampFrame(incoming, clip.DurationInFrames),
			Role:         RoleIncoming,
			TransitionID: incomingRef,
		})
	}
	if hasOutgoing && outgoing > 0 {
		start := clampFrame(clip.DurationInFrames-outgoing, clip.DurationInFrames)
		ranges = append(ranges, BlockedRange{
			Start:        start,
			End:          clip.DurationInFrames,
			Role:         RoleOutgoing,
			TransitionID: outgoingRef,
		})
	}
	return ranges
}

// rebalance scales overlapping reservations down proportionally so the two
// ranges never meet. The flooring remainder goes to whichever portion is
// smaller, so neither range collapses to zero for typical inputs.
func rebalance(incoming, outgoing, duration int) (int, int) {
	total := incoming + outgoing
	if total <= duration || total == 0 {
		return incoming, outgoing
	}

	scale := float64(duration) / float64(total)
	newIncoming := int(float64(incoming) * scale)
	newOutgoing := int(float64(outgoing) * scale)

	if remainder := duration - newIncoming - newOutgoing; remainder > 0 {
		if newIncoming <= newOutgoing {
			newIncoming += remainder
		} else {
			newOutgoing += remainder
		}
	}
	return newIncoming, newOutgoing
}

// IsBlocked returns the first reserved range containing the frame.
func IsBlocked(frame int, clip Clip, transitions []Transition) (BlockedRange, bool) {
	for _, r := range BlockedRanges(clip, transitions) {
		if r.Contains(frame) {
			return r, true
		}
	}
	return BlockedRange{}, false
}

func clampFrame(frame, duration int) int {
	if frame < 0 {
		return 0
	}
	if frame > duration {
		return duration
	}
	return frame
}
