// Package report renders the score distribution plot and the molecule grid
// image of a run.
package report

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/okian/dockrank/internal/adapters/stream"
	"github.com/okian/dockrank/pkg/logger"
)

const (
	defaultDPI = 300

	// textShift moves marker captions left of their line, in score units.
	textShift = 0.3
	// textHeight places captions at this fraction of the density peak.
	textHeight = 0.45
)

var (
	shadeColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0x55}
	curveColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	cutoffColor = color.RGBA{R: 0xff, A: 0xff}
	medianColor = color.RGBA{B: 0xff, A: 0xff}
	stdDevColor = color.RGBA{A: 0xff}
)

// Distribution renders a kernel density plot of the docking scores with
// the top cutoff, the median and median±stdev marked.
type Distribution struct {
	settings
}

// NewDistribution creates a Distribution renderer drawing 8x6 inch images.
func NewDistribution(opts ...Option) *Distribution {
	return &Distribution{settings: newSettings(8*vg.Inch, 6*vg.Inch, defaultDPI, opts)}
}

// Render draws the distribution of scores to path. The x axis spans
// [upper, lower]; title is followed by the sample size.
func (d *Distribution) Render(ctx context.Context, path, title string, scores []float64, top int, upper, lower float64) (Summary, error) {
	if !IsSorted(scores) {
		scores = slices.Clone(scores)
		slices.Sort(scores)
	}
	sum, err := Summarize(scores, top)
	if err != nil {
		return Summary{}, err
	}

	p := plot.New()
	p.Title.Text = title + ": " + strconv.Itoa(sum.N)
	p.Title.TextStyle.Font.Size = vg.Points(20)
	p.X.Label.Text = "Score"
	p.Y.Label.Text = "Fraction of Docked Molecules"
	p.X.Min, p.X.Max = math.Min(upper, lower), math.Max(upper, lower)
	p.Y.Min = 0

	xs, ys := Density(scores, ScottBandwidth(scores), p.X.Min, p.X.Max)
	curve := make(plotter.XYs, len(xs))
	for i := range xs {
		curve[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	kde, err := plotter.NewLine(curve)
	if err != nil {
		return sum, fmt.Errorf("%w: %w", ErrRender, err)
	}
	kde.Color = curveColor
	kde.Width = vg.Points(1.5)
	kde.FillColor = shadeColor
	p.Add(kde)

	peak := slices.Max(ys)
	if peak <= 0 {
		peak = 1
	}
	p.Y.Max = peak * 1.05
	captionY := peak * textHeight

	markers := []struct {
		x       float64
		color   color.Color
		width   vg.Length
		caption string
	}{
		{sum.Cutoff, cutoffColor, vg.Points(3), fmt.Sprintf("Top %d: %.2f", sum.Top, sum.Cutoff)},
		{sum.Median, medianColor, vg.Points(3), fmt.Sprintf("Median:%.2f", sum.Median)},
		{sum.Median + sum.StdDev, stdDevColor, vg.Points(1.5), fmt.Sprintf("StDev: %.2f", sum.StdDev)},
		{sum.Median - sum.StdDev, stdDevColor, vg.Points(1.5), ""},
	}
	captions := plotter.XYLabels{}
	for _, m := range markers {
		line, err := plotter.NewLine(plotter.XYs{{X: m.x, Y: 0}, {X: m.x, Y: p.Y.Max}})
		if err != nil {
			return sum, fmt.Errorf("%w: %w", ErrRender, err)
		}
		line.Color = m.color
		line.Width = m.width
		p.Add(line)
		if m.caption != "" {
			captions.XYs = append(captions.XYs, plotter.XY{X: m.x - textShift, Y: captionY})
			captions.Labels = append(captions.Labels, m.caption)
		}
	}
	labels, err := plotter.NewLabels(captions)
	if err != nil {
		return sum, fmt.Errorf("%w: %w", ErrRender, err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Rotation = math.Pi / 2
		labels.TextStyle[i].Font.Size = vg.Points(14)
	}
	p.Add(labels)

	if err := d.save(p, path); err != nil {
		return sum, err
	}
	d.logger.Info(ctx, "distribution plot written",
		logger.String("path", path),
		logger.Int("n", sum.N),
		logger.Float64("cutoff", sum.Cutoff),
		logger.Float64("median", sum.Median),
		logger.Float64("stdev", sum.StdDev),
	)
	return sum, nil
}

func (d *Distribution) save(p *plot.Plot, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(d.width, d.height), vgimg.UseDPI(d.dpi))
	p.Draw(draw.New(c))
	return writePNG(c, path)
}

func writePNG(c *vgimg.Canvas, path string) error {
	f, err := stream.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", ErrRender, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, path, err)
	}
	return nil
}
