package keyframe

import "testing"

func TestTrackInsertKeepsOrder(t *testing.T) {
	tr := &Track{Property: PropX}
	for _, frame := range []int{50, 10, 30, 0, 20} {
		if err := tr.Insert(NewKeyframe(frame, float64(frame))); err != nil {
			t.Fatalf("insert at %d: %v", frame, err)
		}
	}

	want := []int{0, 10, 20, 30, 50}
	for i, kf := range tr.Keyframes {
		if kf.Frame != want[i] {
			t.Errorf("position %d: frame %d, want %d", i, kf.Frame, want[i])
		}
	}
}

func TestTrackInsertRejectsDuplicates(t *testing.T) {
	tr := &Track{Property: PropOpacity}
	if err := tr.Insert(NewKeyframe(10, 1)); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := tr.Insert(NewKeyframe(10, 0.5)); err == nil {
		t.Error("expected duplicate frame to be rejected")
	}
	if err := tr.Insert(NewKeyframe(-1, 0.5)); err == nil {
		t.Error("expected negative frame to be rejected")
	}
	if len(tr.Keyframes) != 1 {
		t.Errorf("track has %d keyframes, want 1", len(tr.Keyframes))
	}
}

func TestTrackMove(t *testing.T) {
	tr := &Track{Property: PropY}
	a := NewKeyframe(0, 0)
	b := NewKeyframe(20, 5)
	c := NewKeyframe(40, 10)
	for _, kf := range []Keyframe{a, b, c} {
		if err := tr.Insert(kf); err != nil {
			t.Fatal(err)
		}
	}

	// Move b past c; order must be restored.
	if err := tr.Move(b.ID, 60, 7); err != nil {
		t.Fatalf("move: %v", err)
	}
	want := []int{0, 40, 60}
	for i, kf := range tr.Keyframes {
		if kf.Frame != want[i] {
			t.Errorf("position %d: frame %d, want %d", i, kf.Frame, want[i])
		}
	}

	// Moving onto an occupied frame is rejected.
	if err := tr.Move(a.ID, 40, 0); err == nil {
		t.Error("expected move onto occupied frame to be rejected")
	}
	// Moving a keyframe onto its own frame is allowed (value-only change).
	if err := tr.Move(a.ID, 0, 3); err != nil {
		t.Errorf("move onto own frame: %v", err)
	}
}

func TestItemAnimationLazyTracks(t *testing.T) {
	anim := NewItemAnimation("item-1")
	if anim.Animated() {
		t.Error("new animation should have no tracks")
	}
	if anim.Track(PropX) != nil {
		t.Error("track should not exist before first insert")
	}

	kf := NewKeyframe(5, 1)
	if err := anim.Insert(PropX, kf); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if anim.Track(PropX) == nil {
		t.Fatal("track should exist after insert")
	}

	anim.Remove(PropX, kf.ID)
	if anim.Track(PropX) != nil {
		t.Error("empty track should be dropped after last keyframe is removed")
	}

	if err := anim.Insert("volume", NewKeyframe(0, 1)); err == nil {
		t.Error("expected unknown property to be rejected")
	}
}

func TestDecide(t *testing.T) {
	tr := &Track{Property: PropOpacity}
	existing := NewKeyframe(10, 0.5)
	if err := tr.Insert(existing); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		track    *Track
		frame    int
		duration int
		want     Decision
	}{
		{"nil track", nil, 5, 100, Decision{}},
		{"empty track", &Track{Property: PropX}, 5, 100, Decision{}},
		{"before clip", tr, -1, 100, Decision{}},
		{"at clip end", tr, 100, 100, Decision{}},
		{"update in place", tr, 10, 100, Decision{Handled: true, Action: ActionUpdate, KeyframeID: existing.ID}},
		{"add", tr, 20, 100, Decision{Handled: true, Action: ActionAdd}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.track, tt.frame, tt.duration)
			if got != tt.want {
				t.Errorf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecideIdempotent(t *testing.T) {
	tr := &Track{Property: PropX}
	if err := tr.Insert(NewKeyframe(3, 1)); err != nil {
		t.Fatal(err)
	}
	first := Decide(tr, 3, 10)
	second := Decide(tr, 3, 10)
	if first != second {
		t.Errorf("decisions differ: %+v vs %+v", first, second)
	}
	if len(tr.Keyframes) != 1 {
		t.Error("Decide must not mutate the track")
	}
}

func TestPropertyRanges(t *testing.T) {
	min, max := PropOpacity.Range()
	if min != 0 || max != 1 {
		t.Errorf("opacity range = [%v, %v], want [0, 1]", min, max)
	}
	min, max = PropX.Range()
	if min >= max {
		t.Errorf("x range = [%v, %v], want min < max", min, max)
	}
	if (Property("volume")).Valid() {
		t.Error("volume should not be a valid property")
	}
}
