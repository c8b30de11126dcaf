// Package renderer rasterizes animation tracks into curve graph images.
// Output is meant for scenario review: one PNG per animated property,
// showing the interpolated curve, keyframe markers and transition-blocked
// regions.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/framefuse/keyline/internal/keyframe"
	"github.com/framefuse/keyline/internal/system"
	"github.com/framefuse/keyline/internal/transition"
)

// GraphOptions controls the output of RenderGraph.
type GraphOptions struct {
	Width  int // output width in pixels
	Height int // output height in pixels

	// SuperSample renders at N times the output size and downscales.
	// 0 or 1 disables supersampling.
	SuperSample int
}

// DefaultGraphOptions returns settings suitable for scenario review images.
func DefaultGraphOptions() GraphOptions {
	return GraphOptions{
		Width:       960,
		Height:      480,
		SuperSample: 2,
	}
}

var (
	colorBackground = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	colorGrid       = color.RGBA{R: 48, G: 48, B: 56, A: 255}
	colorCurve      = color.RGBA{R: 120, G: 190, B: 255, A: 255}
	colorKeyframe   = color.RGBA{R: 255, G: 210, B: 80, A: 255}
	colorBlocked    = color.RGBA{R: 90, G: 40, B: 40, A: 255}
)

// RenderGraph rasterizes one property track over [0, maxFrame) into an RGBA
// image. Blocked ranges are shaded behind the curve. The returned image is
// owned by the caller.
func RenderGraph(track *keyframe.Track, property keyframe.Property, baseValue float64, maxFrame int, blocked []transition.BlockedRange, opts GraphOptions) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid graph size %dx%d", opts.Width, opts.Height)
	}
	if maxFrame <= 0 {
		return nil, fmt.Errorf("invalid frame count %d", maxFrame)
	}

	scale := opts.SuperSample
	if scale < 1 {
		scale = 1
	}
	w := opts.Width * scale
	h := opts.Height * scale

	canvas := system.GetImage(image.Rect(0, 0, w, h))
	defer system.PutImage(canvas)

	fillRect(canvas, canvas.Rect, colorBackground)

	// Sample the curve once to establish the vertical range.
	var keys []keyframe.Keyframe
	if track != nil {
		keys = track.Keyframes
	}
	frameSpan := float64(maxFrame - 1)
	if frameSpan < 1 {
		frameSpan = 1
	}

	samples := make([]float64, w)
	minV, maxV := math.Inf(1), math.Inf(-1)
	for px := 0; px < w; px++ {
		frame := float64(px) / float64(w-1) * frameSpan
		v := keyframe.Value(keys, frame, baseValue)
		samples[px] = v
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	if maxV-minV < 1e-9 {
		// Flat track: fall back to the declared property range so the
		// line lands somewhere meaningful.
		lo, hi := property.Range()
		minV, maxV = lo, hi
	}
	pad := (maxV - minV) * 0.1
	minV -= pad
	maxV += pad

	valueToY := func(v float64) int {
		rel := (v - minV) / (maxV - minV)
		return int(math.Round(float64(h-1) * (1 - rel)))
	}
	frameToX := func(f float64) int {
		return int(math.Round(f / frameSpan * float64(w-1)))
	}

	// Blocked regions first so the curve draws over them.
	for _, br := range blocked {
		x0 := frameToX(float64(br.Start))
		x1 := frameToX(float64(br.End))
		fillRect(canvas, image.Rect(x0, 0, x1, h), colorBlocked)
	}

	drawGrid(canvas, maxFrame, scale)

	// Curve as connected vertical segments between adjacent samples.
	thickness := scale
	for px := 1; px < w; px++ {
		y0 := valueToY(samples[px-1])
		y1 := valueToY(samples[px])
		drawSegment(canvas, px, y0, y1, thickness, colorCurve)
	}

	// Keyframe markers.
	markerR := 4 * scale
	for _, k := range keys {
		cx := frameToX(float64(k.Frame))
		cy := valueToY(k.Value)
		fillRect(canvas, image.Rect(cx-markerR, cy-markerR, cx+markerR+1, cy+markerR+1), colorKeyframe)
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	if scale == 1 {
		copy(out.Pix, canvas.Pix)
	} else {
		xdraw.CatmullRom.Scale(out, out.Rect, canvas, canvas.Rect, xdraw.Src, nil)
	}
	return out, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode graph PNG: %w", err)
	}
	return nil
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawSegment fills the vertical span between two adjacent samples so steep
// curves stay connected.
func drawSegment(img *image.RGBA, x, y0, y1, thickness int, c color.RGBA) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	fillRect(img, image.Rect(x-thickness+1, y0, x+1, y1+thickness), c)
}

func drawGrid(img *image.RGBA, maxFrame, scale int) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	span := float64(maxFrame - 1)
	if span < 1 {
		span = 1
	}

	// Vertical line every 30 frames, horizontal quarter lines.
	for f := 0; f < maxFrame; f += 30 {
		x := int(math.Round(float64(f) / span * float64(w-1)))
		fillRect(img, image.Rect(x, 0, x+scale, h), colorGrid)
	}
	for i := 1; i < 4; i++ {
		y := h * i / 4
		fillRect(img, image.Rect(0, y, w, y+scale), colorGrid)
	}
}
