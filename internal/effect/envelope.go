package effect

import "github.com/coreman2200/ledstrip/strip"

// Key is one point of an Envelope. Ease shapes the segment that starts at
// this key: "linear" (or ""), "smooth" or "cubic".
type Key struct {
	T    float64
	V    float64
	Ease string
}

// Envelope interpolates between keys sorted by T.
type Envelope struct {
	Keys []Key
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func ease(kind string, x float64) float64 {
	switch kind {
	case "smooth":
		return x * x * (3 - 2*x)
	case "cubic":
		// 6x^5 - 15x^4 + 10x^3
		return x * x * x * (x*(x*6-15) + 10)
	default:
		return x
	}
}

// At returns the envelope value at t. Outside the keys the nearest key's
// value holds; an empty envelope is 0.
func (e Envelope) At(t float64) float64 {
	n := len(e.Keys)
	switch {
	case n == 0:
		return 0
	case t <= e.Keys[0].T:
		return e.Keys[0].V
	case t >= e.Keys[n-1].T:
		return e.Keys[n-1].V
	}
	for i := 1; i < n; i++ {
		a, b := e.Keys[i-1], e.Keys[i]
		if t > b.T {
			continue
		}
		span := b.T - a.T
		if span <= 0 {
			return b.V
		}
		u := ease(a.Ease, clamp01((t-a.T)/span))
		return a.V + (b.V-a.V)*u
	}
	return e.Keys[n-1].V
}

// Breathe fills the strip with Color scaled by Shape, one Period frames long.
type Breathe struct {
	Color  strip.Color
	Period int
	Shape  Envelope
}

// breath ramps up and down with smoothstep easing.
var breath = Envelope{Keys: []Key{
	{T: 0, V: 0, Ease: "smooth"},
	{T: 0.5, V: 1, Ease: "smooth"},
	{T: 1, V: 0},
}}

func (b *Breathe) Name() string { return "breathe" }

func (b *Breathe) Step(s *strip.Strip, n int) error {
	period := b.Period
	if period <= 0 {
		period = 60
	}
	shape := b.Shape
	if len(shape.Keys) == 0 {
		shape = breath
	}
	level := shape.At(float64(n%period) / float64(period))
	return s.Fill(b.Color.Scale(float32(level)))
}
