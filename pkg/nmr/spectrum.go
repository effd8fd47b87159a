// Package nmr reads 1D NMR spectra from the line-oriented text export
// format: comment-prefixed header lines declaring the chemical-shift
// bounds and sample count, followed by one intensity value per line.
package nmr

// Header holds the axis metadata declared by a data file's comment lines.
//
// Left and Right are the chemical-shift values (ppm) of the first and last
// sample. By NMR convention Left > Right (downfield first), but either
// order is accepted. Size is the declared sample count; it is advisory
// only and may disagree with the number of samples actually present.
type Header struct {
	Left  float64
	Right float64
	Size  int
}

// Spectrum is one parsed data series. X and Y always have equal length;
// X spans Header.Left to Header.Right over the samples actually read.
type Spectrum struct {
	X           []float64
	Y           []float64
	SourceLabel string
	Header      Header
}

// linspace returns n evenly spaced values from start to stop inclusive.
// n must be >= 1; n == 1 yields [start].
func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}

	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// Pin the endpoint so accumulated float error never moves it.
	out[n-1] = stop

	return out
}
