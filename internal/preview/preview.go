// Package preview turns a scenario document into a directory of curve graph
// images, one PNG per animated property of every item.
package preview

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/framefuse/keyline/internal/config"
	"github.com/framefuse/keyline/internal/keyframe"
	"github.com/framefuse/keyline/internal/renderer"
	"github.com/framefuse/keyline/internal/scenario"
	"github.com/framefuse/keyline/internal/system"
	"github.com/framefuse/keyline/internal/transition"
)

// Project renders preview graphs for one scenario.
type Project struct {
	Config   *config.Config
	Scenario *scenario.Scenario
}

// NewProject pairs a scenario with the render settings.
func NewProject(cfg *config.Config, sc *scenario.Scenario) *Project {
	return &Project{Config: cfg, Scenario: sc}
}

// job is one graph render resolved from the scenario.
type job struct {
	itemID   string
	property keyframe.Property
	track    *keyframe.Track
	base     float64
	frames   int
	blocked  []transition.BlockedRange
	outPath  string
}

// Run renders every animated track to a PNG under the configured output
// directory. Renders run in parallel; the first failure cancels the rest.
func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()

	if err := os.MkdirAll(p.Config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs, err := p.collectJobs()
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("scenario has no animated tracks")
	}

	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.RecommendedWorkers()
	}
	log.Printf("[*] Rendering %d graphs with %d workers", len(jobs), workers)

	opts := renderer.GraphOptions{
		Width:       p.Config.Width,
		Height:      p.Config.Height,
		SuperSample: p.Config.SuperSample,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return p.renderOne(j, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf("[*] Rendered %d graphs in %.2fs", len(jobs), time.Since(startTime).Seconds())
	if p.Config.ShowStats {
		log.Printf("[*] %s", system.StatsLine())
	}
	return nil
}

// collectJobs resolves the scenario into render jobs, validating every item
// up front so a bad track fails the run before any file is written.
func (p *Project) collectJobs() ([]job, error) {
	var jobs []job
	for _, item := range p.Scenario.Items {
		if item.DurationInFrames <= 0 {
			return nil, fmt.Errorf("item %s: invalid duration %d", item.ID, item.DurationInFrames)
		}
		anim, err := item.Animation()
		if err != nil {
			return nil, err
		}
		clip := transition.Clip{ID: item.ID, DurationInFrames: item.DurationInFrames}
		blocked := transition.BlockedRanges(clip, p.Scenario.TransitionsFor(item.ID))

		props := make([]keyframe.Property, 0, len(anim.Tracks))
		for prop := range anim.Tracks {
			props = append(props, prop)
		}
		sort.Slice(props, func(i, j int) bool { return props[i] < props[j] })

		for _, prop := range props {
			name := fmt.Sprintf("%s_%s.png", item.ID, prop)
			jobs = append(jobs, job{
				itemID:   item.ID,
				property: prop,
				track:    anim.Tracks[prop],
				base:     item.BaseValue(prop),
				frames:   item.DurationInFrames,
				blocked:  blocked,
				outPath:  filepath.Join(p.Config.OutputDir, name),
			})
		}
	}
	return jobs, nil
}

func (p *Project) renderOne(j job, opts renderer.GraphOptions) error {
	img, err := renderer.RenderGraph(j.track, j.property, j.base, j.frames, j.blocked, opts)
	if err != nil {
		return fmt.Errorf("item %s, property %s: %w", j.itemID, j.property, err)
	}

	if p.Config.StampQR && p.Config.ShareBase != "" {
		link := fmt.Sprintf("%s/%s/%s", p.Config.ShareBase, j.itemID, j.property)
		if err := renderer.StampShareLink(img, link, 64); err != nil {
			log.Printf("[!] Skipping QR stamp for %s: %v", filepath.Base(j.outPath), err)
		}
	}

	f, err := os.Create(j.outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", j.outPath, err)
	}
	if err := renderer.EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
