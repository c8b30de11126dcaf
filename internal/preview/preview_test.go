package preview

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/framefuse/keyline/internal/config"
	"github.com/framefuse/keyline/internal/easing"
	"github.com/framefuse/keyline/internal/scenario"
)

func testScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Version: "1",
		Items: []scenario.Item{
			{
				ID:               "intro",
				DurationInFrames: 90,
				FPS:              30,
				Tracks: []scenario.Track{
					{
						Property: "opacity",
						Keyframes: []scenario.Key{
							{Frame: 0, Value: 0},
							{Frame: 60, Value: 1, Easing: easing.Spec{Kind: easing.EaseInOut}},
						},
					},
					{
						Property: "x",
						Keyframes: []scenario.Key{
							{Frame: 0, Value: -200},
							{Frame: 89, Value: 0},
						},
					},
				},
			},
			{
				ID:               "title",
				DurationInFrames: 60,
				FPS:              30,
				Tracks: []scenario.Track{
					{
						Property: "rotation",
						Keyframes: []scenario.Key{
							{Frame: 10, Value: 0},
							{Frame: 50, Value: 90},
						},
					},
				},
			},
		},
		Transitions: []scenario.TransitionSpec{
			{ID: "t1", Left: "intro", Right: "title", DurationInFrames: 20, Alignment: "center"},
		},
	}
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		OutputDir:   dir,
		Width:       120,
		Height:      60,
		SuperSample: 1,
		Workers:     2,
	}
}

func TestRunRendersAllTracks(t *testing.T) {
	dir := t.TempDir()
	p := NewProject(testConfig(dir), testScenario())
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"intro_opacity.png", "intro_x.png", "title_rotation.png"}
	for _, name := range want {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing output %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("output %s is empty", name)
		}
	}
}

func TestRunRejectsBadScenario(t *testing.T) {
	sc := testScenario()
	sc.Items[0].Tracks[0].Property = "glow"
	p := NewProject(testConfig(t.TempDir()), sc)
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for unknown property")
	}

	sc = testScenario()
	sc.Items[1].DurationInFrames = 0
	p = NewProject(testConfig(t.TempDir()), sc)
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestRunRejectsEmptyScenario(t *testing.T) {
	p := NewProject(testConfig(t.TempDir()), &scenario.Scenario{Version: "1"})
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for scenario without tracks")
	}
}

func TestRunStampsShareLink(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Width = 300
	cfg.Height = 150
	cfg.StampQR = true
	cfg.ShareBase = "https://framefuse.example/s"
	p := NewProject(cfg, testScenario())
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "intro_opacity.png")); err != nil {
		t.Fatalf("missing stamped output: %v", err)
	}
}
