package render

import (
	"image/color"
)

// Colormap maps a normalized value in [0, 1] to a color. Inputs outside
// the range are clamped.
type Colormap func(t float64) color.RGBA

// HotReversed is the strain-rate colormap: white through yellow and red
// to black, the reverse of the classic "hot" ramp.
func HotReversed(t float64) color.RGBA {
	return hot(1 - clamp01(t))
}

// hot ramps black -> red -> yellow -> white over [0, 1].
func hot(t float64) color.RGBA {
	t = clamp01(t)
	r := clamp01(3 * t)
	g := clamp01(3*t - 1)
	b := clamp01(3*t - 2)
	return color.RGBA{R: byteOf(r), G: byteOf(g), B: byteOf(b), A: 255}
}

// ConfTraceMap is the polymer-stretching colormap, a linear ramp through
// white, copper, sienna, and deep maroon.
func ConfTraceMap(t float64) color.RGBA {
	stops := []color.RGBA{
		{R: 0xFF, G: 0xFF, B: 0xFF, A: 255}, // white
		{R: 0xDA, G: 0x8A, B: 0x67, A: 255},
		{R: 0xA0, G: 0x52, B: 0x2D, A: 255},
		{R: 0x40, G: 0x00, B: 0x00, A: 255},
	}
	return lerpStops(stops, clamp01(t))
}

// lerpStops linearly interpolates between evenly spaced color stops.
func lerpStops(stops []color.RGBA, t float64) color.RGBA {
	if len(stops) == 1 {
		return stops[0]
	}
	scaled := t * float64(len(stops)-1)
	i := int(scaled)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	f := scaled - float64(i)
	a, b := stops[i], stops[i+1]
	return color.RGBA{
		R: byteLerp(a.R, b.R, f),
		G: byteLerp(a.G, b.G, f),
		B: byteLerp(a.B, b.B, f),
		A: 255,
	}
}

func byteLerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f)
}

func byteOf(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
