package app

import (
	"fmt"
	"image"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dpi     float64 = 72
	size    float64 = 13
	spacing float64 = 1.2
)

type Annotator struct {
	context  *freetype.Context
	area     image.Rectangle
	location *time.Location
}

func NewAnnotator(renderer *TraceRenderer) (*Annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetFontSize(size)
	context.SetSrc(image.Black)
	context.SetHinting(font.HintingFull)

	return &Annotator{
		context:  context,
		area:     renderer.PlotArea(),
		location: renderer.config.Location,
	}, nil
}

func (a *Annotator) Annotate(img *image.RGBA, data *TraceData) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	ops := []struct {
		msg string
		fn  func(*image.RGBA, *TraceData) error
	}{
		{"drawing time scale", a.drawTimeScale},
		{"drawing value scale", a.drawValueScale},
		{"drawing legend", a.drawLegend},
		{"drawing info", a.drawInfo},
	}
	for _, op := range ops {
		if err := op.fn(img, data); err != nil {
			return fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return nil
}

func (a *Annotator) drawTimeScale(img *image.RGBA, data *TraceData) error {
	count := a.area.Dx() / 200
	if count < 2 {
		count = 2
	}
	secsPerLabel := data.End.Sub(data.Start).Seconds() / float64(count)
	pxPerLabel := a.area.Dx() / count

	for si := 0; si <= count; si++ {
		point := data.Start.Add(time.Duration(secsPerLabel*float64(si)) * time.Second)
		px := a.area.Min.X + si*pxPerLabel
		if px >= a.area.Max.X {
			px = a.area.Max.X - 1
		}

		// tick below the plot
		for i := 0; i < 6; i++ {
			img.Set(px, a.area.Max.Y+i, image.Black)
		}

		str := point.In(a.location).Format("15:04:05")
		pt := freetype.Pt(px-28, a.area.Max.Y+22)
		_, _ = a.context.DrawString(str, pt)
	}

	return nil
}

func (a *Annotator) drawValueScale(img *image.RGBA, data *TraceData) error {
	count := a.area.Dy() / 100
	if count < 2 {
		count = 2
	}
	valPerLabel := (data.Max - data.Min) / float64(count)
	pxPerLabel := a.area.Dy() / count

	for si := 0; si <= count; si++ {
		val := data.Min + valPerLabel*float64(si)
		px := a.area.Max.Y - si*pxPerLabel
		if px <= a.area.Min.Y {
			px = a.area.Min.Y + 1
		}

		// tick left of the plot
		for i := 1; i <= 6; i++ {
			img.Set(a.area.Min.X-i, px, image.Black)
		}

		str := humanize.FtoaWithDigits(val, 2)
		pt := freetype.Pt(a.area.Min.X-72, px+5)
		_, _ = a.context.DrawString(str, pt)
	}

	return nil
}

func (a *Annotator) drawLegend(img *image.RGBA, data *TraceData) error {
	pt := freetype.Pt(a.area.Min.X, a.area.Max.Y+45)
	for i, series := range data.Series {
		a.context.SetSrc(image.NewUniform(seriesPalette[i]))
		adv, err := a.context.DrawString(series.Name, pt)
		if err != nil {
			return err
		}
		pt.X = adv.X + a.context.PointToFixed(size*2)
	}
	a.context.SetSrc(image.Black)

	return nil
}

func (a *Annotator) drawInfo(img *image.RGBA, data *TraceData) error {
	duration := data.End.Sub(data.Start).Round(time.Second)

	strings := []string{
		fmt.Sprintf("Session %d (%s), mode %s", data.Session.ID, data.Session.Profile, data.Mode),
		fmt.Sprintf("%s to %s, %s",
			data.Start.In(a.location).Format(time.DateTime),
			data.End.In(a.location).Format(time.DateTime),
			duration),
		fmt.Sprintf("%s commands", humanize.Comma(data.Count)),
	}

	pt := freetype.Pt(a.area.Min.X, a.area.Max.Y+45+int(a.context.PointToFixed(size*spacing)>>6))
	for _, s := range strings {
		pt.Y += a.context.PointToFixed(size * spacing)
		_, _ = a.context.DrawString(s, pt)
	}

	return nil
}
