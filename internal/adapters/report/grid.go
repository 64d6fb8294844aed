package report

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/okian/dockrank/internal/domain/chem"
	"github.com/okian/dockrank/pkg/logger"
)

const (
	defaultColumns = 5
	gridDPI        = 96
	// bondGap separates the strokes of a multiple bond, in coordinate units.
	bondGap = 0.18
	// tileMargin pads each depiction around its bounding box.
	tileMargin = 0.8
)

var atomColors = map[string]color.Color{
	"N":  color.RGBA{B: 0xd0, A: 0xff},
	"O":  color.RGBA{R: 0xd0, A: 0xff},
	"S":  color.RGBA{R: 0xb0, G: 0x90, A: 0xff},
	"P":  color.RGBA{R: 0xe0, G: 0x70, A: 0xff},
	"F":  color.RGBA{G: 0xa0, A: 0xff},
	"Cl": color.RGBA{G: 0xa0, A: 0xff},
	"Br": color.RGBA{R: 0x90, G: 0x30, A: 0xff},
	"I":  color.RGBA{R: 0x80, B: 0x80, A: 0xff},
}

// Tile is one grid cell.
type Tile struct {
	Title string
	Mol   *chem.Molecule
}

// Grid renders 2-D depictions of molecules in rows of fixed width.
type Grid struct {
	settings
	limit int
}

// NewGrid creates a Grid renderer drawing at most limit tiles of 2x2 inches.
func NewGrid(limit int, opts ...Option) *Grid {
	return &Grid{settings: newSettings(2*vg.Inch, 2*vg.Inch, gridDPI, opts), limit: limit}
}

// Render draws tiles to path in order, truncated to the renderer limit.
func (g *Grid) Render(ctx context.Context, path string, tiles []Tile) error {
	if g.limit > 0 && len(tiles) > g.limit {
		tiles = tiles[:g.limit]
	}
	if len(tiles) == 0 {
		return ErrEmptySample
	}

	cols := min(g.columns, len(tiles))
	rows := (len(tiles) + cols - 1) / cols

	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
		for c := range plots[r] {
			i := r*cols + c
			if i >= len(tiles) {
				blank := plot.New()
				blank.HideAxes()
				plots[r][c] = blank
				continue
			}
			p, err := depict(tiles[i])
			if err != nil {
				return fmt.Errorf("%w: tile %d: %w", ErrRender, i, err)
			}
			plots[r][c] = p
		}
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(g.width*vg.Length(cols), g.height*vg.Length(rows)),
		vgimg.UseDPI(g.dpi),
	)
	dc := draw.New(canvas)
	layout := draw.Tiles{Rows: rows, Cols: cols, PadX: vg.Millimeter, PadY: vg.Millimeter}
	cells := plot.Align(plots, layout, dc)
	for r := range plots {
		for c := range plots[r] {
			if r*cols+c < len(tiles) {
				plots[r][c].Draw(cells[r][c])
			}
		}
	}

	if err := writePNG(canvas, path); err != nil {
		return err
	}
	g.logger.Info(ctx, "grid image written", logger.String("path", path), logger.Int("molecules", len(tiles)))
	return nil
}

// depict builds the plot of one molecule with equal axis scales.
func depict(t Tile) (*plot.Plot, error) {
	m := t.Mol
	p := plot.New()
	p.HideAxes()
	p.Title.Text = t.Title
	p.Title.TextStyle.Font.Size = vg.Points(7)

	minX, minY, maxX, maxY := m.Bounds()
	half := math.Max(maxX-minX, maxY-minY)/2 + tileMargin
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	p.X.Min, p.X.Max = cx-half, cx+half
	p.Y.Min, p.Y.Max = cy-half, cy+half

	for b := range m.NumBonds() {
		bond := m.Bond(b)
		if m.Hidden(bond.From) || m.Hidden(bond.To) {
			continue
		}
		a, z := m.Atom(bond.From), m.Atom(bond.To)
		for _, s := range strokes(a, z, bond.Order, m.IsAromaticBond(b)) {
			line, err := plotter.NewLine(plotter.XYs{s.from, s.to})
			if err != nil {
				return nil, err
			}
			line.Width = vg.Points(1)
			line.Dashes = s.dashes
			p.Add(line)
		}
	}

	var marks plotter.XYLabels
	var tint []color.Color
	for i := range m.NumAtoms() {
		a := m.Atom(i)
		if m.Hidden(i) || (a.Symbol == "C" && a.Charge == 0) {
			continue
		}
		marks.XYs = append(marks.XYs, plotter.XY{X: a.X, Y: a.Y})
		marks.Labels = append(marks.Labels, atomText(a, m.TotalH(i)))
		c, ok := atomColors[a.Symbol]
		if !ok {
			c = color.Black
		}
		tint = append(tint, c)
	}
	if len(marks.Labels) > 0 {
		labels, err := plotter.NewLabels(marks)
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = tint[i]
			labels.TextStyle[i].XAlign = -0.5
			labels.TextStyle[i].YAlign = -0.5
			labels.TextStyle[i].Font.Size = vg.Points(8)
		}
		p.Add(labels)
	}
	return p, nil
}

type stroke struct {
	from, to plotter.XY
	dashes   []vg.Length
}

// strokes returns the line segments of one bond: parallel offsets for
// multiple bonds and a dashed inner stroke for aromatic ones.
func strokes(a, z chem.Atom, order chem.BondOrder, aromatic bool) []stroke {
	from, to := plotter.XY{X: a.X, Y: a.Y}, plotter.XY{X: z.X, Y: z.Y}
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return []stroke{{from: from, to: to}}
	}
	ox, oy := -dy/length*bondGap, dx/length*bondGap
	shift := func(k float64) stroke {
		return stroke{
			from: plotter.XY{X: from.X + k*ox, Y: from.Y + k*oy},
			to:   plotter.XY{X: to.X + k*ox, Y: to.Y + k*oy},
		}
	}

	switch {
	case aromatic:
		inner := shift(1)
		inner.dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		return []stroke{shift(0), inner}
	case order == chem.BondDouble:
		return []stroke{shift(-0.5), shift(0.5)}
	case order == chem.BondTriple:
		return []stroke{shift(-1), shift(0), shift(1)}
	default:
		return []stroke{shift(0)}
	}
}

// atomText renders a heteroatom label such as "NH", "O-" or "N+".
func atomText(a chem.Atom, hydrogens int) string {
	var sb strings.Builder
	sb.WriteString(a.Symbol)
	switch {
	case hydrogens == 1:
		sb.WriteString("H")
	case hydrogens > 1:
		fmt.Fprintf(&sb, "H%d", hydrogens)
	}
	switch {
	case a.Charge == 1:
		sb.WriteString("+")
	case a.Charge == -1:
		sb.WriteString("-")
	case a.Charge > 1:
		fmt.Fprintf(&sb, "%d+", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&sb, "%d-", -a.Charge)
	}
	return sb.String()
}
