package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"
)

const (
	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 90
	defaultRightBorder  = 40
)

// seriesPalette colors the four command axes, in series order.
var seriesPalette = [4]color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, // blue
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, // red
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, // green
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}, // orange
}

var frameGray = color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}

// BorderConfig defines the sizes of white space around the plot area
type BorderConfig struct {
	Top    int // headroom above the plot
	Left   int // space for the value scale
	Bottom int // space for the legend and information bar
	Right  int // right padding
}

// RenderConfig holds the configuration options for trace visualization
type RenderConfig struct {
	Width  int // plot area width in pixels
	Height int // plot area height in pixels

	Location *time.Location // timezone for time display

	BorderConfig BorderConfig
}

// TraceRenderer draws command axis time series as colored polylines.
type TraceRenderer struct {
	config RenderConfig
}

// NewTraceRenderer creates a trace renderer with the given configuration.
func NewTraceRenderer(config RenderConfig) *TraceRenderer {
	if config.Width == 0 {
		config.Width = 1200
	}
	if config.Height == 0 {
		config.Height = 600
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	return &TraceRenderer{config: config}
}

// PlotArea returns the rectangle the series are drawn into.
func (r *TraceRenderer) PlotArea() image.Rectangle {
	return image.Rect(
		r.config.BorderConfig.Left,
		r.config.BorderConfig.Top,
		r.config.BorderConfig.Left+r.config.Width,
		r.config.BorderConfig.Top+r.config.Height,
	)
}

// Render creates an image of the trace data without annotations.
func (r *TraceRenderer) Render(data *TraceData) (*image.RGBA, error) {
	if data.Count == 0 {
		return nil, fmt.Errorf("no commands to render")
	}

	fullWidth := r.config.Width + r.config.BorderConfig.Left + r.config.BorderConfig.Right
	fullHeight := r.config.Height + r.config.BorderConfig.Top + r.config.BorderConfig.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	area := r.PlotArea()
	drawFrame(img, area)

	mapper := newPointMapper(area, data)
	for i, series := range data.Series {
		r.drawSeries(img, mapper, series, seriesPalette[i])
	}

	return img, nil
}

func (r *TraceRenderer) drawSeries(img *image.RGBA, mapper pointMapper, series *Series, c color.RGBA) {
	var prevX, prevY int
	for i, pt := range series.Points {
		x, y := mapper.toPixel(pt)
		if i > 0 {
			drawLine(img, prevX, prevY, x, y, c)
		}
		prevX, prevY = x, y
	}
}

// pointMapper maps a trace point onto plot pixels, clamping a degenerate
// value or time range to the plot center.
type pointMapper struct {
	area      image.Rectangle
	start     time.Time
	timeSpan  float64 // seconds
	min, span float64
}

func newPointMapper(area image.Rectangle, data *TraceData) pointMapper {
	return pointMapper{
		area:     area,
		start:    data.Start,
		timeSpan: data.End.Sub(data.Start).Seconds(),
		min:      data.Min,
		span:     data.Max - data.Min,
	}
}

func (m pointMapper) toPixel(pt TracePoint) (x, y int) {
	fx, fy := 0.5, 0.5
	if m.timeSpan > 0 {
		fx = pt.T.Sub(m.start).Seconds() / m.timeSpan
	}
	if m.span > 0 {
		fy = (pt.V - m.min) / m.span
	}

	x = m.area.Min.X + int(fx*float64(m.area.Dx()-1))
	y = m.area.Max.Y - 1 - int(fy*float64(m.area.Dy()-1))
	return x, y
}

func drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X; x < area.Max.X; x++ {
		img.SetRGBA(x, area.Min.Y, frameGray)
		img.SetRGBA(x, area.Max.Y-1, frameGray)
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		img.SetRGBA(area.Min.X, y, frameGray)
		img.SetRGBA(area.Max.X-1, y, frameGray)
	}
}

// drawLine rasterizes a segment with the integer Bresenham walk.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
