// Package timeline draws the per-frame history of a session as a PNG chart,
// with an emotion strip above the speed and audio traces.
package timeline

import (
	"io"

	"github.com/cyclopcam/pawscan/pkg/gen"
	"github.com/cyclopcam/pawscan/server/emotion"
	"github.com/cyclopcam/pawscan/server/scan"
	"github.com/fogleman/gg"
)

type Options struct {
	Width    int
	Height   int
	MaxSpeed float64 // px/frame at the top of the speed trace
}

func DefaultOptions() Options {
	return Options{Width: 900, Height: 300, MaxSpeed: 30}
}

// Strip colors, by emotion
var colors = map[emotion.Emotion]string{
	emotion.Happy:      "#f5c518",
	emotion.Excited:    "#ff7f0e",
	emotion.Playful:    "#2ca02c",
	emotion.Calm:       "#1f77b4",
	emotion.Anxious:    "#9467bd",
	emotion.Stressed:   "#8c564b",
	emotion.Fearful:    "#e377c2",
	emotion.Aggressive: "#d62728",
	emotion.Alert:      "#17becf",
	emotion.Sad:        "#7f7f7f",
	emotion.Curious:    "#bcbd22",
	emotion.Unknown:    "#dddddd",
}

const (
	margin      = 10
	labelWidth  = 60
	stripHeight = 0.2 // fractions of the plot height
	speedHeight = 0.5
)

// A pixel column of the chart, and the points that fall into it
type column struct {
	emotion emotion.Emotion
	speed   float64
	rms     float64
	vocal   bool
}

// Render draws the timeline. An empty timeline gives an empty chart.
func Render(points []scan.TimelinePoint, opt Options) *gg.Context {
	dc := gg.NewContext(opt.Width, opt.Height)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	x0 := float64(margin + labelWidth)
	plotW := float64(opt.Width) - x0 - margin
	plotH := float64(opt.Height - 2*margin)
	stripY := float64(margin)
	stripH := plotH * stripHeight
	speedY := stripY + stripH + margin
	speedH := plotH*speedHeight - margin
	audioY := speedY + speedH + margin
	audioH := float64(opt.Height-margin) - audioY

	dc.SetHexColor("#333333")
	dc.DrawStringAnchored("emotion", x0-margin, stripY+stripH/2, 1, 0.5)
	dc.DrawStringAnchored("speed", x0-margin, speedY+speedH/2, 1, 0.5)
	dc.DrawStringAnchored("audio", x0-margin, audioY+audioH/2, 1, 0.5)

	cols := bin(points, int(plotW))
	if len(cols) == 0 {
		return dc
	}
	colW := plotW / float64(len(cols))

	for i, c := range cols {
		dc.SetHexColor(colors[c.emotion])
		dc.DrawRectangle(x0+float64(i)*colW, stripY, colW+0.5, stripH)
		dc.Fill()
	}

	dc.SetHexColor("#eeeeee")
	dc.DrawRectangle(x0, speedY, plotW, speedH)
	dc.Fill()
	dc.SetHexColor("#1f77b4")
	dc.SetLineWidth(1.5)
	for i, c := range cols {
		x := x0 + (float64(i)+0.5)*colW
		y := speedY + speedH*(1-gen.Clamp(c.speed/opt.MaxSpeed, 0, 1))
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	for i, c := range cols {
		h := audioH * gen.Clamp(c.rms/0.5, 0, 1)
		if c.vocal {
			dc.SetHexColor("#d62728")
		} else {
			dc.SetHexColor("#999999")
		}
		dc.DrawRectangle(x0+float64(i)*colW, audioY+audioH-h, colW, h)
		dc.Fill()
	}
	return dc
}

// Group points into at most n columns. The emotion of a column is its most frequent one.
func bin(points []scan.TimelinePoint, n int) []column {
	if len(points) == 0 || n <= 0 {
		return nil
	}
	ncol := min(n, len(points))
	cols := make([]column, ncol)
	for i := range cols {
		lo := i * len(points) / ncol
		hi := (i + 1) * len(points) / ncol
		emotions := []emotion.Emotion{}
		c := &cols[i]
		for _, p := range points[lo:hi] {
			emotions = append(emotions, p.Emotion)
			c.speed += p.Speed
			c.rms = max(c.rms, p.RMS)
			c.vocal = c.vocal || p.Vocal
		}
		c.speed /= float64(hi - lo)
		c.emotion, _ = gen.Mode(emotions)
	}
	return cols
}

// WritePNG renders the timeline of a result as PNG
func WritePNG(w io.Writer, r *scan.Result, opt Options) error {
	return Render(r.Timeline, opt).EncodePNG(w)
}
