package plot

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/Adina012/multifid-1d-nmr-plot/pkg/nmr"
)

// Render draws the given spectra according to opts and returns the figure.
//
// In ModeSingle all spectra share one axes and a legend built from their
// source labels. In ModeMultiple each spectrum gets its own subplot,
// stacked in input order with aligned x-ranges. The ppm axis is always
// drawn descending left-to-right and the intensity axis uses scientific
// notation; neither is configurable.
func Render(spectra []*nmr.Spectrum, opts Options) (*Figure, error) {
	if len(spectra) == 0 {
		return nil, ErrEmptySeries
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	xMin, xMax, err := displayRange(spectra, opts)
	if err != nil {
		return nil, err
	}
	p := opts.preset()

	if opts.mode() == ModeMultiple {
		return renderStacked(spectra, p, xMin, xMax)
	}
	return renderOverlaid(spectra, p, xMin, xMax)
}

// displayRange resolves the ppm interval to show: the union of all spectra
// extents, with either end overridable from Options.
//
// A degenerate derived range is padded rather than rejected: a one-sample
// spectrum is a valid parse result and must still render. ErrInvalidRange
// is reserved for caller-supplied bounds that collapse the interval.
func displayRange(spectra []*nmr.Spectrum, opts Options) (float64, float64, error) {
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for _, s := range spectra {
		first, last := s.X[0], s.X[len(s.X)-1]
		lo = math.Min(lo, math.Min(first, last))
		hi = math.Max(hi, math.Max(first, last))
	}

	overridden := opts.XMin != nil || opts.XMax != nil
	if opts.XMin != nil {
		lo = *opts.XMin
	}
	if opts.XMax != nil {
		hi = *opts.XMax
	}

	if lo >= hi {
		if overridden {
			return 0, 0, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, lo, hi)
		}
		lo, hi = lo-0.5, hi+0.5
	}

	return lo, hi, nil
}

func renderOverlaid(spectra []*nmr.Spectrum, p preset, xMin, xMax float64) (*Figure, error) {
	series := make([]chart.Series, 0, len(spectra))
	for i, s := range spectra {
		series = append(series, chart.ContinuousSeries{
			Name:    s.SourceLabel,
			XValues: s.X,
			YValues: s.Y,
			Style: chart.Style{
				StrokeWidth: p.strokeWidth,
				StrokeColor: chart.GetDefaultColor(i),
			},
		})
	}

	graph := newAxes("", series, p, xMin, xMax)
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	img, err := rasterize(&graph)
	if err != nil {
		return nil, err
	}
	return &Figure{img: img}, nil
}

func renderStacked(spectra []*nmr.Spectrum, p preset, xMin, xMax float64) (*Figure, error) {
	panels := make([]image.Image, 0, len(spectra))
	for i, s := range spectra {
		graph := newAxes(s.SourceLabel, []chart.Series{chart.ContinuousSeries{
			Name:    s.SourceLabel,
			XValues: s.X,
			YValues: s.Y,
			Style: chart.Style{
				StrokeWidth: p.strokeWidth,
				StrokeColor: chart.GetDefaultColor(i),
			},
		}}, p, xMin, xMax)

		img, err := rasterize(&graph)
		if err != nil {
			return nil, fmt.Errorf("plot: subplot %d (%s): %w", i+1, s.SourceLabel, err)
		}
		panels = append(panels, img)
	}

	return &Figure{img: stack(panels)}, nil
}

// newAxes builds one set of axes in the house style: reversed ppm x-axis,
// scientific-notation intensity y-axis.
func newAxes(title string, series []chart.Series, p preset, xMin, xMax float64) chart.Chart {
	return chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: p.fontSize + 2},
		Width:      p.width,
		Height:     p.height,
		DPI:        p.dpi,
		XAxis: chart.XAxis{
			Name:  "ppm",
			Style: chart.Style{FontSize: p.fontSize},
			Range: &chart.ContinuousRange{
				Min:        xMin,
				Max:        xMax,
				Descending: true,
			},
		},
		YAxis: chart.YAxis{
			Name:           "Intensity",
			Style:          chart.Style{FontSize: p.fontSize},
			ValueFormatter: scientificNotation,
		},
		Series: series,
	}
}

func scientificNotation(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'e', 2, 64)
}

func rasterize(graph *chart.Chart) (image.Image, error) {
	iw := &chart.ImageWriter{}
	if err := graph.Render(chart.PNG, iw); err != nil {
		return nil, err
	}
	return iw.Image()
}

// stack composites subplot rasters vertically in order. All panels share
// the same preset so widths match.
func stack(panels []image.Image) image.Image {
	width, height := 0, 0
	for _, p := range panels {
		b := p.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	y := 0
	for _, p := range panels {
		b := p.Bounds()
		draw.Draw(out, image.Rect(0, y, b.Dx(), y+b.Dy()), p, b.Min, draw.Src)
		y += b.Dy()
	}

	return out
}
