// Package plot renders parsed NMR spectra as line-plot figures with the
// conventional reversed ppm axis.
package plot

import (
	"errors"
	"fmt"
)

// Errors returned by Render.
var (
	ErrEmptySeries  = errors.New("plot: no spectra to render")
	ErrInvalidRange = errors.New("plot: x range does not define a non-degenerate interval")
)

// Mode selects the figure layout.
type Mode string

const (
	// ModeSingle overlays every spectrum on one shared axes with a legend.
	ModeSingle Mode = "single"
	// ModeMultiple stacks one subplot per spectrum, x-axes aligned.
	ModeMultiple Mode = "multiple"
)

// Quality selects an output preset.
type Quality string

const (
	// QualityPublication renders at print resolution with heavier strokes.
	QualityPublication Quality = "publication"
	// QualityPreview renders smaller and faster for on-screen checks.
	QualityPreview Quality = "preview"
)

// Options configures a single Render call. Rendering state is never held
// in package globals; every call carries its own configuration.
type Options struct {
	Mode    Mode
	Quality Quality

	// XMin and XMax optionally override the displayed ppm range. They are
	// a numeric interval (XMin < XMax); the axis is still drawn with the
	// larger value on the left. Nil means derive that end from the data.
	XMin *float64
	XMax *float64
}

func (o Options) mode() Mode {
	if o.Mode == "" {
		return ModeSingle
	}
	return o.Mode
}

func (o Options) quality() Quality {
	if o.Quality == "" {
		return QualityPreview
	}
	return o.Quality
}

func (o Options) validate() error {
	switch o.mode() {
	case ModeSingle, ModeMultiple:
	default:
		return fmt.Errorf("plot: unknown mode %q", o.Mode)
	}

	switch o.quality() {
	case QualityPublication, QualityPreview:
	default:
		return fmt.Errorf("plot: unknown quality %q", o.Quality)
	}

	if o.XMin != nil && o.XMax != nil && *o.XMin >= *o.XMax {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, *o.XMin, *o.XMax)
	}

	return nil
}

// preset holds the concrete rendering parameters a Quality maps to.
// Publication is twice the preview resolution in each dimension.
type preset struct {
	width       int
	height      int
	dpi         float64
	strokeWidth float64
	fontSize    float64
}

func (o Options) preset() preset {
	if o.quality() == QualityPublication {
		return preset{width: 2000, height: 1200, dpi: 144, strokeWidth: 2.0, fontSize: 12}
	}
	return preset{width: 1000, height: 600, dpi: 72, strokeWidth: 1.0, fontSize: 10}
}
