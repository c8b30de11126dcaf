package easing

import "math"

// Kind identifies an easing family.
type Kind string

const (
	Linear      Kind = "linear"
	EaseIn      Kind = "ease-in"
	EaseOut     Kind = "ease-out"
	EaseInOut   Kind = "ease-in-out"
	CubicBezier Kind = "cubic-bezier"
	Spring      Kind = "spring"
)

// BezierParams are the two control points of a cubic-bezier timing curve.
// X coordinates are clamped to [0,1] (time must be monotonic); Y coordinates
// may lie outside [0,1] to allow overshoot.
type BezierParams struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// SpringParams configure the damped harmonic oscillator curve.
type SpringParams struct {
	Tension  float64 `yaml:"tension"`
	Friction float64 `yaml:"friction"`
	Mass     float64 `yaml:"mass"`
}

// DefaultSpring matches the stock spring preset.
var DefaultSpring = SpringParams{Tension: 170, Friction: 26, Mass: 1}

// Spec describes how a segment between two keyframes is eased.
// Bezier and Spring are only consulted for their respective kinds.
type Spec struct {
	Kind   Kind          `yaml:"kind"`
	Bezier *BezierParams `yaml:"bezier,omitempty"`
	Spring *SpringParams `yaml:"spring,omitempty"`
}

// LinearSpec is the default easing for new keyframes.
func LinearSpec() Spec {
	return Spec{Kind: Linear}
}

const (
	bezierEpsilon  = 1e-6
	bezierMaxIters = 8
	springMaxOut   = 1.2
)

// Evaluate maps a normalized progress t in [0,1] to an eased output.
// Callers clamp t before use; this function does not. Malformed specs fall
// back to linear. NaN/Infinity inputs propagate to the output.
func Evaluate(t float64, spec Spec) float64 {
	switch spec.Kind {
	case Linear:
		return t
	case EaseIn:
		return t * t
	case EaseOut:
		return t * (2 - t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	case CubicBezier:
		if spec.Bezier == nil {
			return t
		}
		return evaluateBezier(t, *spec.Bezier)
	case Spring:
		if spec.Spring == nil {
			return t
		}
		return evaluateSpring(t, *spec.Spring)
	default:
		return t
	}
}

// evaluateBezier solves X(u) = t for the bezier parameter u, then returns Y(u).
func evaluateBezier(t float64, p BezierParams) float64 {
	if t == 0 {
		return 0
	}
	if t == 1 {
		return 1
	}

	x1 := clamp(p.X1, 0, 1)
	x2 := clamp(p.X2, 0, 1)

	// Standard cubic coefficients for a curve anchored at (0,0) and (1,1).
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx

	cy := 3 * p.Y1
	by := 3*(p.Y2-p.Y1) - cy
	ay := 1 - cy - by

	sampleX := func(u float64) float64 { return ((ax*u+bx)*u + cx) * u }
	sampleY := func(u float64) float64 { return ((ay*u+by)*u + cy) * u }
	sampleDX := func(u float64) float64 { return (3*ax*u+2*bx)*u + cx }

	// Newton-Raphson from seed u = t; a near-zero derivative stops iteration
	// rather than dividing.
	u := t
	for i := 0; i < bezierMaxIters; i++ {
		err := sampleX(u) - t
		if math.Abs(err) < bezierEpsilon {
			break
		}
		d := sampleDX(u)
		if math.Abs(d) < bezierEpsilon {
			break
		}
		u = clamp(u-err/d, 0, 1)
	}

	return sampleY(u)
}

// evaluateSpring is the closed-form damped harmonic oscillator, settling
// toward 1 as t approaches 1.
func evaluateSpring(t float64, p SpringParams) float64 {
	if t == 0 {
		return 0
	}
	if t == 1 {
		return 1
	}

	// Non-positive physics would put NaN into the settle-time scaling; fall
	// back to linear like any other malformed spec.
	if p.Tension <= 0 || p.Friction <= 0 || p.Mass <= 0 {
		return t
	}

	w0 := math.Sqrt(p.Tension / p.Mass)
	zeta := p.Friction / (2 * math.Sqrt(p.Tension*p.Mass))

	// The spring never fully settles in finite time; scale progress by the
	// conventional settle time so t=1 lands at "visually settled".
	tau := t * (4 / (zeta * w0))

	var decay float64
	switch {
	case zeta < 1:
		// Underdamped: oscillatory.
		wd := w0 * math.Sqrt(1-zeta*zeta)
		env := math.Exp(-zeta * w0 * tau)
		decay = env * (math.Cos(wd*tau) + (zeta*w0/wd)*math.Sin(wd*tau))
	case zeta == 1:
		// Critically damped.
		decay = math.Exp(-w0*tau) * (1 + w0*tau)
	default:
		// Overdamped: two real exponential roots.
		wr := w0 * math.Sqrt(zeta*zeta-1)
		r1 := -zeta*w0 + wr
		r2 := -zeta*w0 - wr
		c1 := -r2 / (r1 - r2)
		c2 := r1 / (r1 - r2)
		decay = c1*math.Exp(r1*tau) + c2*math.Exp(r2*tau)
	}

	// Bounded overshoot; near-zero mass and similar edge cases must not
	// produce runaway values.
	return clamp(1-decay, 0, springMaxOut)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
