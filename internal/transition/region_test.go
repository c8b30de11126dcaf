package transition

import "testing"

func TestBlockedRangesSingleSide(t *testing.T) {
	clip := Clip{ID: "b", DurationInFrames: 100}

	t.Run("left clip reserves its tail", func(t *testing.T) {
		tr := Transition{ID: "t1", LeftClipID: "b", RightClipID: "c", DurationInFrames: 20, Alignment: AlignCenter}
		ranges := BlockedRanges(clip, []Transition{tr})
		if len(ranges) != 1 {
			t.Fatalf("got %d ranges, want 1", len(ranges))
		}
		r := ranges[0]
		if r.Role != RoleOutgoing || r.Start != 90 || r.End != 100 {
			t.Errorf("got %+v, want outgoing [90, 100)", r)
		}
	})

	t.Run("right clip reserves its head", func(t *testing.T) {
		tr := Transition{ID: "t2", LeftClipID: "a", RightClipID: "b", DurationInFrames: 20, Alignment: AlignCenter}
		ranges := BlockedRanges(clip, []Transition{tr})
		if len(ranges) != 1 {
			t.Fatalf("got %d ranges, want 1", len(ranges))
		}
		r := ranges[0]
		if r.Role != RoleIncoming || r.Start != 0 || r.End != 10 {
			t.Errorf("got %+v, want incoming [0, 10)", r)
		}
	})

	t.Run("alignment start and end", func(t *testing.T) {
		start := Transition{ID: "t3", LeftClipID: "a", RightClipID: "b", DurationInFrames: 15, Alignment: AlignStart}
		ranges := BlockedRanges(clip, []Transition{start})
		if len(ranges) != 1 || ranges[0].End != 15 {
			t.Errorf("start-aligned: got %+v, want incoming [0, 15)", ranges)
		}

		end := Transition{ID: "t4", LeftClipID: "b", RightClipID: "c", DurationInFrames: 15, Alignment: AlignEnd}
		ranges = BlockedRanges(clip, []Transition{end})
		if len(ranges) != 1 || ranges[0].Start != 85 {
			t.Errorf("end-aligned: got %+v, want outgoing [85, 100)", ranges)
		}
	})
}

func TestBlockedRangesChainRebalance(t *testing.T) {
	// The clip is the right clip of t1 and the left clip of t2, and the two
	// reservations would overlap without rebalancing.
	clip := Clip{ID: "b", DurationInFrames: 30}
	transitions := []Transition{
		{ID: "t1", LeftClipID: "a", RightClipID: "b", DurationInFrames: 40, Alignment: AlignCenter},
		{ID: "t2", LeftClipID: "b", RightClipID: "c", DurationInFrames: 40, Alignment: AlignCenter},
	}

	ranges := BlockedRanges(clip, transitions)
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(ranges))
	}

	var incoming, outgoing BlockedRange
	for _, r := range ranges {
		switch r.Role {
		case RoleIncoming:
			incoming = r
		case RoleOutgoing:
			outgoing = r
		}
	}

	if incoming.End > outgoing.Start {
		t.Errorf("ranges overlap: incoming %+v, outgoing %+v", incoming, outgoing)
	}
	if incoming.End-incoming.Start == 0 || outgoing.End-outgoing.Start == 0 {
		t.Errorf("rebalance collapsed a range to zero: %+v, %+v", incoming, outgoing)
	}
}

func TestBlockedRangesInvariants(t *testing.T) {
	// Exhaustive sweep: ranges never overlap and stay inside the clip.
	for duration := 1; duration <= 40; duration++ {
		for inDur := 0; inDur <= 50; inDur += 5 {
			for outDur := 0; outDur <= 50; outDur += 5 {
				clip := Clip{ID: "b", DurationInFrames: duration}
				transitions := []Transition{
					{ID: "t1", LeftClipID: "a", RightClipID: "b", DurationInFrames: inDur, Alignment: AlignStart},
					{ID: "t2", LeftClipID: "b", RightClipID: "c", DurationInFrames: outDur, Alignment: AlignEnd},
				}

				ranges := BlockedRanges(clip, transitions)
				var incoming, outgoing *BlockedRange
				for i := range ranges {
					r := ranges[i]
					if r.Start < 0 || r.Start >= r.End || r.End > duration {
						t.Fatalf("dur=%d in=%d out=%d: malformed range %+v", duration, inDur, outDur, r)
					}
					switch r.Role {
					case RoleIncoming:
						incoming = &ranges[i]
					case RoleOutgoing:
						outgoing = &ranges[i]
					}
				}
				if incoming != nil && outgoing != nil && incoming.End > outgoing.Start {
					t.Fatalf("dur=%d in=%d out=%d: overlap %+v %+v", duration, inDur, outDur, *incoming, *outgoing)
				}
			}
		}
	}
}

func TestRebalanceRemainderGoesToSmallerPortion(t *testing.T) {
	// 10 incoming + 25 outgoing into 9 frames: scale 9/35 floors to 2 and 6,
	// and the leftover frame lands on the smaller (incoming) side.
	in, out := rebalance(10, 25, 9)
	if in+out != 9 {
		t.Fatalf("rebalance(10, 25, 9) = %d + %d, want total 9", in, out)
	}
	if in != 3 || out != 6 {
		t.Errorf("rebalance(10, 25, 9) = (%d, %d), want (3, 6)", in, out)
	}
}

func TestIsBlocked(t *testing.T) {
	clip := Clip{ID: "b", DurationInFrames: 100}
	transitions := []Transition{
		{ID: "t1", LeftClipID: "a", RightClipID: "b", DurationInFrames: 20, Alignment: AlignCenter},
	}

	tests := []struct {
		frame   int
		blocked bool
	}{
		{0, true},
		{9, true},
		{10, false}, // half-open: end is exclusive
		{50, false},
		{99, false},
	}
	for _, tt := range tests {
		_, got := IsBlocked(tt.frame, clip, transitions)
		if got != tt.blocked {
			t.Errorf("IsBlocked(%d) = %v, want %v", tt.frame, got, tt.blocked)
		}
	}

	r, ok := IsBlocked(3, clip, transitions)
	if !ok || r.TransitionID != "t1" {
		t.Errorf("IsBlocked(3) = %+v, %v; want range of t1", r, ok)
	}
}
