// Package plot renders simple line charts of optimization traces as PNG
// images. It covers the two charts the run artifacts need, energy vs
// iteration and parameter trajectories, without pulling in a full
// plotting toolkit.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// Default chart geometry in pixels.
const (
	defaultWidth  = 800
	defaultHeight = 480
	marginLeft    = 60
	marginRight   = 20
	marginTop     = 20
	marginBottom  = 40
)

// Series is a single named line on a chart.
type Series struct {
	Name   string
	Values []float64
	Color  color.NRGBA
}

// Chart describes a line chart. X values are the sample indices
// (iteration numbers), Y values come from the series.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
	Width  int
	Height int
}

// Palette used when a series has no explicit color.
var palette = []color.NRGBA{
	{31, 119, 180, 255},  // blue
	{255, 127, 14, 255},  // orange
	{44, 160, 44, 255},   // green
	{214, 39, 40, 255},   // red
	{148, 103, 189, 255}, // purple
	{140, 86, 75, 255},   // brown
}

var (
	colorBackground = color.NRGBA{255, 255, 255, 255}
	colorAxis       = color.NRGBA{64, 64, 64, 255}
	colorGrid       = color.NRGBA{224, 224, 224, 255}
)

// EnergyChart builds a chart of cost values over iterations.
func EnergyChart(energies []float64) *Chart {
	return &Chart{
		Title:  "Energy",
		XLabel: "iteration",
		YLabel: "energy",
		Series: []Series{{Name: "energy", Values: energies}},
	}
}

// ParamChart builds a chart with one line per parameter component.
// history[i] is the full parameter vector at iteration i.
func ParamChart(history [][]float64) *Chart {
	chart := &Chart{
		Title:  "Parameters",
		XLabel: "iteration",
		YLabel: "value",
	}
	if len(history) == 0 {
		return chart
	}

	dim := len(history[0])
	for p := 0; p < dim; p++ {
		values := make([]float64, len(history))
		for i, params := range history {
			if p < len(params) {
				values[i] = params[p]
			}
		}
		chart.Series = append(chart.Series, Series{
			Name:   fmt.Sprintf("theta%d", p),
			Values: values,
		})
	}
	return chart
}

// Render draws the chart into a new image.
func (c *Chart) Render() *image.NRGBA {
	width, height := c.Width, c.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	fill(img, colorBackground)

	plotX0 := marginLeft
	plotY0 := marginTop
	plotX1 := width - marginRight
	plotY1 := height - marginBottom
	if plotX1 <= plotX0 || plotY1 <= plotY0 {
		return img
	}

	minY, maxY, n := c.dataRange()

	// Horizontal grid lines at quarter intervals
	for i := 0; i <= 4; i++ {
		y := plotY0 + (plotY1-plotY0)*i/4
		drawHLine(img, plotX0, plotX1, y, colorGrid)
	}

	// Axes
	drawHLine(img, plotX0, plotX1, plotY1, colorAxis)
	drawVLine(img, plotX0, plotY0, plotY1, colorAxis)

	if n < 1 {
		return img
	}

	// Map a sample (index, value) to pixel coordinates
	toPixel := func(i int, v float64) (int, int) {
		var fx float64
		if n > 1 {
			fx = float64(i) / float64(n-1)
		}
		fy := (v - minY) / (maxY - minY)
		x := plotX0 + int(math.Round(fx*float64(plotX1-plotX0)))
		y := plotY1 - int(math.Round(fy*float64(plotY1-plotY0)))
		return x, y
	}

	for si, s := range c.Series {
		col := s.Color
		if col.A == 0 {
			col = palette[si%len(palette)]
		}

		if len(s.Values) == 1 {
			x, y := toPixel(0, s.Values[0])
			drawMarker(img, x, y, col)
			continue
		}
		for i := 1; i < len(s.Values); i++ {
			x0, y0 := toPixel(i-1, s.Values[i-1])
			x1, y1 := toPixel(i, s.Values[i])
			drawLine(img, x0, y0, x1, y1, col)
		}
	}

	return img
}

// WritePNG renders the chart and encodes it as PNG.
func (c *Chart) WritePNG(w io.Writer) error {
	if err := png.Encode(w, c.Render()); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return nil
}

// dataRange returns the Y extent over all series and the longest series
// length. The extent is padded so flat lines don't collapse the scale.
func (c *Chart) dataRange() (minY, maxY float64, n int) {
	minY = math.Inf(1)
	maxY = math.Inf(-1)

	for _, s := range c.Series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
		for _, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}

	if n == 0 || minY > maxY {
		return 0, 1, n
	}
	if minY == maxY {
		minY -= 0.5
		maxY += 0.5
	} else {
		pad := (maxY - minY) * 0.05
		minY -= pad
		maxY += pad
	}
	return minY, maxY, n
}

func fill(img *image.NRGBA, c color.NRGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func drawHLine(img *image.NRGBA, x0, x1, y int, c color.NRGBA) {
	for x := x0; x <= x1; x++ {
		setPixel(img, x, y, c)
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	for y := y0; y <= y1; y++ {
		setPixel(img, x, y, c)
	}
}

// drawLine draws a line segment using Bresenham's algorithm.
func drawLine(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		setPixel(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawMarker draws a 3x3 square so single-point series stay visible.
func drawMarker(img *image.NRGBA, x, y int, c color.NRGBA) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			setPixel(img, x+dx, y+dy, c)
		}
	}
}

func setPixel(img *image.NRGBA, x, y int, c color.NRGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	img.SetNRGBA(x, y, c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
