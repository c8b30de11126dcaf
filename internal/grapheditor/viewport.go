package grapheditor

import (
	"math"

	"github.com/framefuse/keyline/internal/keyframe"
)

// Zoom factors applied per wheel notch or discrete zoom action.
const (
	zoomOutFactor = 1.1
	zoomInFactor  = 1 / zoomOutFactor
)

// Smallest spans a zoom can reach.
const (
	minFrameSpan = 2.0
	minValueSpan = 1e-3
)

// Viewport is the affine mapping between screen pixels and (frame, value)
// data space for one open graph. Screen y grows downward; value grows upward.
type Viewport struct {
	Width      float64
	Height     float64
	StartFrame float64
	EndFrame   float64
	MinValue   float64
	MaxValue   float64
}

// FrameSpan is the number of frames visible across the viewport width.
func (v Viewport) FrameSpan() float64 { return v.EndFrame - v.StartFrame }

// ValueSpan is the value range visible across the viewport height.
func (v Viewport) ValueSpan() float64 { return v.MaxValue - v.MinValue }

// PixelsPerFrame converts a frame delta to a pixel delta.
func (v Viewport) PixelsPerFrame() float64 { return v.Width / v.FrameSpan() }

// PixelsPerValue converts a value delta to a pixel delta.
func (v Viewport) PixelsPerValue() float64 { return v.Height / v.ValueSpan() }

// FrameToX maps a frame to a horizontal pixel position.
func (v Viewport) FrameToX(frame float64) float64 {
	return (frame - v.StartFrame) * v.PixelsPerFrame()
}

// XToFrame maps a horizontal pixel position to a frame.
func (v Viewport) XToFrame(x float64) float64 {
	return v.StartFrame + x/v.PixelsPerFrame()
}

// ValueToY maps a value to a vertical pixel position.
func (v Viewport) ValueToY(value float64) float64 {
	return (v.MaxValue - value) * v.PixelsPerValue()
}

// YToValue maps a vertical pixel position to a value.
func (v Viewport) YToValue(y float64) float64 {
	return v.MaxValue - y/v.PixelsPerValue()
}

// zoomAbout rescales both axes by factor, keeping the data point under the
// given pixel position fixed. Spans never shrink below the minimums.
func (v Viewport) zoomAbout(factor, px, py float64) Viewport {
	anchorFrame := v.XToFrame(px)
	anchorValue := v.YToValue(py)

	frameSpan := math.Max(v.FrameSpan()*factor, minFrameSpan)
	valueSpan := math.Max(v.ValueSpan()*factor, minValueSpan)

	fx := px / v.Width
	fy := py / v.Height

	out := v
	out.StartFrame = anchorFrame - fx*frameSpan
	out.EndFrame = out.StartFrame + frameSpan
	out.MaxValue = anchorValue + fy*valueSpan
	out.MinValue = out.MaxValue - valueSpan
	return out
}

// zoomCentered rescales both axes by factor about the viewport center.
func (v Viewport) zoomCentered(factor float64) Viewport {
	return v.zoomAbout(factor, v.Width/2, v.Height/2)
}

// resetViewport restores the full declared range of the property over the
// whole clip.
func resetViewport(width, height float64, property keyframe.Property, maxFrame int) Viewport {
	min, max := property.Range()
	end := float64(maxFrame)
	if end < minFrameSpan {
		end = minFrameSpan
	}
	return Viewport{
		Width:      width,
		Height:     height,
		StartFrame: 0,
		EndFrame:   end,
		MinValue:   min,
		MaxValue:   max,
	}
}

// fitViewport frames the keyframed value span with a little padding, falling
// back to the declared range when there is nothing to fit.
func fitViewport(v Viewport, property keyframe.Property, maxFrame int, kfs []keyframe.Keyframe) Viewport {
	out := resetViewport(v.Width, v.Height, property, maxFrame)
	if len(kfs) == 0 {
		return out
	}

	lo, hi := kfs[0].Value, kfs[0].Value
	for _, kf := range kfs[1:] {
		lo = math.Min(lo, kf.Value)
		hi = math.Max(hi, kf.Value)
	}
	span := hi - lo
	if span < minValueSpan {
		// Flat track: keep the declared range.
		return out
	}

	pad := span * 0.1
	out.MinValue = lo - pad
	out.MaxValue = hi + pad
	return out
}
