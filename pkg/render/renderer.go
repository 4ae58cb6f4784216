// Package render turns reshaped field grids and interface facets into
// raster frames. The strain-rate field fills the mirrored left half of
// the frame and the conformation-tensor trace the right half, with the
// reconstructed interface drawn on top.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"go.uber.org/zap"

	"ve-video-toolkit/pkg/basilisk"
	"ve-video-toolkit/pkg/config"
	"ve-video-toolkit/pkg/snapshot"
)

// Renderer consumes one snapshot's worth of pipeline output and writes
// the target raster file. Implementations must never leave a partial
// file at the target path.
type Renderer interface {
	Render(grid *basilisk.FieldGrid, facets []basilisk.Segment, bounds config.DomainBounds, snap snapshot.Descriptor) error
}

// Style collects every frame-level presentation choice in one immutable
// value so rendering carries no ambient global state.
type Style struct {
	FrameWidth  int
	FrameHeight int
	Margin      int

	Background     color.RGBA
	InterfaceColor color.RGBA
	InterfaceWidth int
	OutlineColor   color.RGBA
	AxisColor      color.RGBA

	StrainRateMap Colormap
	ConfTraceMap  Colormap
}

// DefaultStyle mirrors the established frame look: 1920x1080, light-blue
// interface, grey symmetry axis, black domain outline.
func DefaultStyle() Style {
	return Style{
		FrameWidth:     1920,
		FrameHeight:    1080,
		Margin:         40,
		Background:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		InterfaceColor: color.RGBA{R: 0x00, G: 0xB2, B: 0xFF, A: 255},
		InterfaceWidth: 4,
		OutlineColor:   color.RGBA{R: 0, G: 0, B: 0, A: 255},
		AxisColor:      color.RGBA{R: 128, G: 128, B: 128, A: 255},
		StrainRateMap:  HotReversed,
		ConfTraceMap:   ConfTraceMap,
	}
}

// Range is a colorbar interval for one physical field.
type Range struct {
	Min float64
	Max float64
}

// Normalize maps v into [0, 1] relative to the range.
func (r Range) Normalize(v float64) float64 {
	if r.Max == r.Min {
		return 0
	}
	return (v - r.Min) / (r.Max - r.Min)
}

// RasterRenderer rasterizes frames with the standard library image
// stack and writes them atomically.
type RasterRenderer struct {
	style       Style
	strainRange Range
	traceRange  Range
	logger      *zap.Logger
}

// NewRasterRenderer creates a renderer with the given style and colorbar
// bounds for the two physical fields.
func NewRasterRenderer(style Style, strainRange, traceRange Range, logger *zap.Logger) *RasterRenderer {
	return &RasterRenderer{
		style:       style,
		strainRange: strainRange,
		traceRange:  traceRange,
		logger:      logger,
	}
}

// Render draws one frame and writes it to snap.Target. The full frame is
// computed in memory and written through a temporary file, so a target
// path only ever holds a complete frame.
func (rr *RasterRenderer) Render(grid *basilisk.FieldGrid, facets []basilisk.Segment, bounds config.DomainBounds, snap snapshot.Descriptor) error {
	img := image.NewRGBA(image.Rect(0, 0, rr.style.FrameWidth, rr.style.FrameHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(rr.style.Background), image.Point{}, draw.Src)

	proj := newProjection(bounds, rr.style)
	rr.paintFields(img, proj, grid)
	rr.drawOutline(img, proj, bounds)
	rr.drawFacets(img, proj, facets)

	if err := writeAtomic(img, snap.Target); err != nil {
		return fmt.Errorf("writing frame %s: %w", snap.Target, err)
	}

	rr.logger.Debug("Frame rendered",
		zap.String("target", snap.Target),
		zap.Float64("time", snap.Time),
		zap.Int("facets", len(facets)))
	return nil
}

// projection maps world coordinates (r, z) onto frame pixels, z up.
type projection struct {
	bounds config.DomainBounds
	x0, y0 int
	w, h   int
}

func newProjection(bounds config.DomainBounds, style Style) projection {
	return projection{
		bounds: bounds,
		x0:     style.Margin,
		y0:     style.Margin,
		w:      style.FrameWidth - 2*style.Margin,
		h:      style.FrameHeight - 2*style.Margin,
	}
}

func (p projection) toPixel(r, z float64) (int, int) {
	x := p.x0 + int((r-p.bounds.RMin)/(p.bounds.RMax-p.bounds.RMin)*float64(p.w)+0.5)
	y := p.y0 + p.h - int((z-p.bounds.ZMin)/(p.bounds.ZMax-p.bounds.ZMin)*float64(p.h)+0.5)
	return x, y
}

func (p projection) toWorld(x, y int) (float64, float64) {
	r := p.bounds.RMin + (float64(x-p.x0)+0.5)/float64(p.w)*(p.bounds.RMax-p.bounds.RMin)
	z := p.bounds.ZMin + (float64(p.y0+p.h-y)-0.5)/float64(p.h)*(p.bounds.ZMax-p.bounds.ZMin)
	return r, z
}

// paintFields fills both half-domains from the sampled grids: strain
// rate mirrored onto r < 0, conformation trace on r > 0.
func (rr *RasterRenderer) paintFields(img *image.RGBA, proj projection, grid *basilisk.FieldGrid) {
	if grid == nil || grid.RowCount == 0 {
		return
	}

	rminp, rmaxp := grid.RadialExtent()
	zminp, zmaxp := grid.AxialExtent()
	rows, cols := grid.RowCount, grid.ColumnCount

	for y := proj.y0; y < proj.y0+proj.h; y++ {
		for x := proj.x0; x < proj.x0+proj.w; x++ {
			r, z := proj.toWorld(x, y)
			ra := math.Abs(r)
			if ra < rminp || ra > rmaxp || z < zminp || z > zmaxp {
				continue
			}

			col := gridIndex(ra, rminp, rmaxp, cols)
			row := gridIndex(z, zminp, zmaxp, rows)

			var c color.RGBA
			if r < 0 {
				c = rr.style.StrainRateMap(rr.strainRange.Normalize(grid.StrainRate[row][col]))
			} else {
				c = rr.style.ConfTraceMap(rr.traceRange.Normalize(grid.ConfTrace[row][col]))
			}
			img.SetRGBA(x, y, c)
		}
	}
}

// gridIndex maps a coordinate into a sample index, clamped to the grid.
func gridIndex(v, min, max float64, n int) int {
	if n <= 1 || max == min {
		return 0
	}
	i := int((v-min)/(max-min)*float64(n-1) + 0.5)
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// drawOutline traces the domain boundary and the symmetry axis.
func (rr *RasterRenderer) drawOutline(img *image.RGBA, proj projection, bounds config.DomainBounds) {
	corners := [][4]float64{
		{bounds.RMin, bounds.ZMin, bounds.RMin, bounds.ZMax},
		{bounds.RMax, bounds.ZMin, bounds.RMax, bounds.ZMax},
		{bounds.RMin, bounds.ZMin, bounds.RMax, bounds.ZMin},
		{bounds.RMin, bounds.ZMax, bounds.RMax, bounds.ZMax},
	}
	for _, c := range corners {
		x1, y1 := proj.toPixel(c[0], c[1])
		x2, y2 := proj.toPixel(c[2], c[3])
		drawLine(img, x1, y1, x2, y2, 2, rr.style.OutlineColor)
	}

	// Symmetry axis at r = 0.
	x1, y1 := proj.toPixel(0, bounds.ZMin)
	x2, y2 := proj.toPixel(0, bounds.ZMax)
	drawLine(img, x1, y1, x2, y2, 2, rr.style.AxisColor)
}

// drawFacets overlays the mirrored interface segments.
func (rr *RasterRenderer) drawFacets(img *image.RGBA, proj projection, facets []basilisk.Segment) {
	for _, seg := range facets {
		x1, y1 := proj.toPixel(seg.P1.R, seg.P1.Z)
		x2, y2 := proj.toPixel(seg.P2.R, seg.P2.Z)
		drawLine(img, x1, y1, x2, y2, rr.style.InterfaceWidth, rr.style.InterfaceColor)
	}
}

// drawLine paints a thick segment by stamping discs along its length.
func drawLine(img *image.RGBA, x1, y1, x2, y2, width int, c color.RGBA) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1
	radius := width / 2

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cx := x1 + int(t*dx+0.5)
		cy := y1 + int(t*dy+0.5)
		for oy := -radius; oy <= radius; oy++ {
			for ox := -radius; ox <= radius; ox++ {
				if ox*ox+oy*oy <= radius*radius {
					setClamped(img, cx+ox, cy+oy, c)
				}
			}
		}
	}
}

func setClamped(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// writeAtomic encodes the frame next to the target path and renames it
// into place, so an interrupted write never leaves a partial frame.
func writeAtomic(img image.Image, target string) error {
	tmp := target + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, target)
}
