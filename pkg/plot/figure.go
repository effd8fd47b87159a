package plot

import (
	"bytes"
	"image"
	"image/png"
	"io"
)

// Figure is a rendered plot. It holds the final raster; callers decide
// whether to display it, upload it, or write it to disk.
type Figure struct {
	img image.Image
}

// Image returns the rendered raster.
func (f *Figure) Image() image.Image {
	return f.img
}

// WritePNG encodes the figure as PNG to w.
func (f *Figure) WritePNG(w io.Writer) error {
	return png.Encode(w, f.img)
}

// EncodePNG returns the figure as PNG bytes.
func (f *Figure) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.WritePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
