package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/framefuse/keyline/internal/easing"
	"github.com/framefuse/keyline/internal/keyframe"
	"github.com/framefuse/keyline/internal/transition"
)

func testScenario() *Scenario {
	return &Scenario{
		Version: "1.0",
		Items: []Item{
			{
				ID:               "clip-1",
				DurationInFrames: 300,
				FPS:              30,
				Base:             map[string]float64{"x": 100},
				Tracks: []Track{
					{
						Property: "x",
						Keyframes: []Key{
							{Frame: 0, Value: 0},
							{Frame: 120, Value: 400, Easing: easing.Spec{Kind: easing.EaseInOut}},
						},
					},
					{
						Property: "opacity",
						Keyframes: []Key{
							{Frame: 0, Value: 0, Easing: easing.Spec{Kind: easing.Spring, Spring: &easing.DefaultSpring}},
							{Frame: 60, Value: 1},
						},
					},
				},
			},
		},
		Transitions: []TransitionSpec{
			{ID: "t1", Left: "clip-0", Right: "clip-1", DurationInFrames: 30, Alignment: "center"},
		},
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.yaml")
	want := testScenario()

	if err := Write(want, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got.Version != want.Version || len(got.Items) != 1 {
		t.Fatalf("round trip lost structure: %+v", got)
	}
	item := got.Items[0]
	if item.ID != "clip-1" || item.DurationInFrames != 300 || len(item.Tracks) != 2 {
		t.Errorf("item = %+v", item)
	}
	opacity := item.Tracks[1]
	if opacity.Keyframes[0].Easing.Kind != easing.Spring {
		t.Errorf("easing kind = %q, want spring", opacity.Keyframes[0].Easing.Kind)
	}
	if s := opacity.Keyframes[0].Easing.Spring; s == nil || s.Tension != 170 {
		t.Errorf("spring params lost: %+v", s)
	}
	if len(got.Transitions) != 1 || got.Transitions[0].ID != "t1" {
		t.Errorf("transitions = %+v", got.Transitions)
	}
}

func TestItemAnimation(t *testing.T) {
	item, _ := testScenario().Item("clip-1")
	anim, err := item.Animation()
	if err != nil {
		t.Fatalf("animation: %v", err)
	}

	tr := anim.Track(keyframe.PropX)
	if tr == nil || len(tr.Keyframes) != 2 {
		t.Fatalf("x track = %+v", tr)
	}
	// Keys without an explicit easing default to linear.
	if tr.Keyframes[0].Easing.Kind != easing.Linear {
		t.Errorf("default easing = %q, want linear", tr.Keyframes[0].Easing.Kind)
	}

	// Interpolation over the loaded track behaves.
	got := keyframe.Value(tr.Keyframes, 60, item.BaseValue(keyframe.PropX))
	if got <= 0 || got >= 400 {
		t.Errorf("interpolated x at frame 60 = %v, want between endpoints", got)
	}
}

func TestItemAnimationRejectsBadTracks(t *testing.T) {
	bad := Item{
		ID:               "clip-2",
		DurationInFrames: 100,
		Tracks: []Track{
			{Property: "volume", Keyframes: []Key{{Frame: 0, Value: 1}}},
		},
	}
	if _, err := bad.Animation(); err == nil {
		t.Error("expected unknown property to fail")
	}

	dup := Item{
		ID:               "clip-3",
		DurationInFrames: 100,
		Tracks: []Track{
			{Property: "x", Keyframes: []Key{{Frame: 10, Value: 1}, {Frame: 10, Value: 2}}},
		},
	}
	if _, err := dup.Animation(); err == nil {
		t.Error("expected duplicate frames to fail")
	}
}

func TestTransitionsFor(t *testing.T) {
	s := testScenario()
	trs := s.TransitionsFor("clip-1")
	if len(trs) != 1 {
		t.Fatalf("got %d transitions, want 1", len(trs))
	}
	if trs[0].Alignment != transition.AlignCenter || trs[0].RightClipID != "clip-1" {
		t.Errorf("transition = %+v", trs[0])
	}
	if got := s.TransitionsFor("clip-9"); len(got) != 0 {
		t.Errorf("unrelated item got transitions: %+v", got)
	}

	// The loaded transition blocks the head of clip-1.
	clip := transition.Clip{ID: "clip-1", DurationInFrames: 300}
	if _, blocked := transition.IsBlocked(5, clip, trs); !blocked {
		t.Error("frame 5 should be blocked by the incoming transition")
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindLatest(dir); err == nil {
		t.Error("expected error for empty directory")
	}

	old := filepath.Join(dir, "old.yaml")
	if err := Write(testScenario(), old); err != nil {
		t.Fatal(err)
	}
	// A non-scenario file must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if got != old {
		t.Errorf("latest = %s, want %s", got, old)
	}
}

func TestFindLatestSkipsUnstattableFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "anim.yaml")
	if err := Write(testScenario(), good); err != nil {
		t.Fatal(err)
	}
	// A dangling symlink lists in ReadDir but fails os.Stat, like a file
	// deleted between listing and sorting.
	if err := os.Symlink(filepath.Join(dir, "gone.yaml"), filepath.Join(dir, "dangling.yaml")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if got != good {
		t.Errorf("latest = %s, want %s", got, good)
	}
}
