package report

// this file draws the PNG charts of the report sections.
//
// Vertical bar charts go through go-chart, everything else through
// gonum/plot. Each chart is drawn into its own buffer, so nothing is
// left behind once a page has been served.

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	colorTeal    = color.RGBA{R: 0, G: 128, B: 128, A: 255}
	colorSkyBlue = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	colorCoral   = color.RGBA{R: 255, G: 127, B: 80, A: 255}
	colorMagma   = color.RGBA{R: 140, G: 41, B: 129, A: 255}
)

// grid of the feature charts
const (
	gridRows = 2
	gridCols = 3
)

// barChartPNG draws counts as vertical bars.
func barChartPNG(title string, counts []Count) ([]byte, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("barChartPNG: no bars")
	}

	bars := make([]chart.Value, len(counts))
	max := 0.0
	for i, c := range counts {
		bars[i] = chart.Value{Value: float64(c.N), Label: c.Value}
		max = math.Max(max, float64(c.N))
	}

	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      1024,
		Height:     480,
		BarWidth:   60,
		BarSpacing: 24,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1}},
		Bars:       bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("barChartPNG: render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// hbarChartPNG draws group means as horizontal bars, the first group
// on top.
func hbarChartPNG(groups []GroupValue, xLabel, yLabel string) ([]byte, error) {
	n := len(groups)
	vals := make(plotter.Values, n)
	labels := make([]string, n)
	for i, g := range groups {
		vals[n-1-i] = g.Mean
		labels[n-1-i] = g.Key
	}

	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("hbarChartPNG: %w", err)
	}
	bars.Horizontal = true
	bars.Color = colorMagma
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalY(labels...)

	return plotPNG(p, 10*vg.Inch, 6*vg.Inch)
}

// lineChartPNG draws the yearly means as a line with markers over a grid.
func lineChartPNG(points []YearValue, xLabel, yLabel string) ([]byte, error) {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Year)
		xys[i].Y = pt.Mean
	}

	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	line, marks, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("lineChartPNG: %w", err)
	}
	line.Color = colorTeal
	marks.GlyphStyle.Color = colorTeal
	marks.GlyphStyle.Shape = draw.CircleGlyph{}
	marks.GlyphStyle.Radius = vg.Points(3)

	p.Add(plotter.NewGrid(), line, marks)

	return plotPNG(p, 12*vg.Inch, 5*vg.Inch)
}

// corrGrid lays a correlation matrix out for a heatmap: the first
// column of the matrix is the top row of the picture.
type corrGrid struct {
	m Matrix
}

func (g corrGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	return g.m.Values[len(g.m.Columns)-1-r][c]
}

func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// heatmapPNG draws m with a diverging palette over [-1, 1], each cell
// annotated with its value to two decimals.
func heatmapPNG(m Matrix) ([]byte, error) {
	n := len(m.Columns)
	if n < 2 {
		return nil, fmt.Errorf("heatmapPNG: need at least 2 columns, got %d", n)
	}
	g := corrGrid{m: m}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	hm := plotter.NewHeatMap(g, cmap.Palette(255))
	hm.Min = -1
	hm.Max = 1
	hm.NaN = color.White

	xys := make(plotter.XYs, 0, n*n)
	texts := make([]string, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			texts = append(texts, formatCorr(g.Z(c, r)))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("heatmapPNG: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
		labels.TextStyle[i].Font.Size = vg.Points(8)
	}

	rowNames := make([]string, n)
	for i, c := range m.Columns {
		rowNames[n-1-i] = c
	}

	p := plot.New()
	p.Add(hm, labels)
	p.NominalX(m.Columns...)
	p.NominalY(rowNames...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YTop

	return plotPNG(p, 10*vg.Inch, 8*vg.Inch)
}

func formatCorr(r float64) string {
	if math.IsNaN(r) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", r)
}

// feature is one numeric column drawn in a grid cell.
type feature struct {
	Name   string
	Values []float64 // NaN for missing
}

// boxGridPNG draws one box plot per feature in a 2x3 grid.
func boxGridPNG(features []feature) ([]byte, error) {
	plots := make([]*plot.Plot, 0, len(features))
	for _, f := range features {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s Outliers", f.Name)

		vals := present(f.Values)
		if len(vals) > 0 {
			box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
			if err != nil {
				return nil, fmt.Errorf("boxGridPNG: %s: %w", f.Name, err)
			}
			box.FillColor = colorSkyBlue
			p.Add(box)
		}
		p.NominalX(f.Name)

		plots = append(plots, p)
	}
	return gridPNG(plots, 5*vg.Inch, 3.5*vg.Inch)
}

// histGridPNG draws one density histogram with a kernel density curve
// per feature in a 2x3 grid.
func histGridPNG(features []feature) ([]byte, error) {
	plots := make([]*plot.Plot, 0, len(features))
	for _, f := range features {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s Distribution", f.Name)
		p.X.Label.Text = f.Name

		vals := present(f.Values)
		if len(vals) > 0 {
			h, err := plotter.NewHist(plotter.Values(vals), sturgesBins(len(vals)))
			if err != nil {
				return nil, fmt.Errorf("histGridPNG: %s: %w", f.Name, err)
			}
			h.FillColor = colorCoral
			p.Add(h)

			if kde := densityCurve(vals); kde != nil {
				h.Normalize(1)
				p.Add(kde)
				p.Y.Label.Text = "Density"
			} else {
				p.Y.Label.Text = "Count"
			}
		}

		plots = append(plots, p)
	}
	return gridPNG(plots, 5*vg.Inch, 3.5*vg.Inch)
}

func sturgesBins(n int) int {
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// densityCurve returns a Gaussian kernel density estimate of vals with
// Silverman's bandwidth. It is nil when vals has no spread.
func densityCurve(vals []float64) *plotter.Function {
	if len(vals) < 2 {
		return nil
	}
	sd := stat.StdDev(vals, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil
	}
	bw := 1.06 * sd * math.Pow(float64(len(vals)), -0.2)

	kernels := make([]distuv.Normal, len(vals))
	for i, v := range vals {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}
	fn := plotter.NewFunction(func(x float64) float64 {
		sum := 0.0
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		return sum / float64(len(kernels))
	})
	fn.Samples = 100
	fn.Color = colorCoral
	fn.Width = vg.Points(2)
	return fn
}

// gridPNG aligns plots row by row in a gridRows x gridCols layout.
// Empty cells get a blank plot.
func gridPNG(plots []*plot.Plot, cellW, cellH vg.Length) ([]byte, error) {
	if len(plots) > gridRows*gridCols {
		return nil, fmt.Errorf("gridPNG: %d plots do not fit a %dx%d grid", len(plots), gridRows, gridCols)
	}

	cells := make([][]*plot.Plot, gridRows)
	for r := range cells {
		cells[r] = make([]*plot.Plot, gridCols)
		for c := range cells[r] {
			if i := r*gridCols + c; i < len(plots) {
				cells[r][c] = plots[i]
				continue
			}
			blank := plot.New()
			blank.HideAxes()
			cells[r][c] = blank
		}
	}

	img := vgimg.New(cellW*gridCols, cellH*gridRows)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      gridRows,
		Cols:      gridCols,
		PadX:      vg.Millimeter * 6,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(cells, tiles, dc)
	for r := range cells {
		for c := range cells[r] {
			cells[r][c].Draw(canvases[r][c])
		}
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("gridPNG: encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

func plotPNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("plotPNG: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("plotPNG: encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
