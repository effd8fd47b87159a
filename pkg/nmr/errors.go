package nmr

import (
	"errors"
	"fmt"
)

// Errors returned by the reader.
var (
	ErrHeaderMissing = errors.New("nmr: header missing LEFT, RIGHT, or SIZE")
	ErrEmptyData     = errors.New("nmr: no intensity samples found")
	ErrMalformedLine = errors.New("nmr: malformed data line")
)

// MalformedLineError reports a non-blank data line that could not be parsed
// as an intensity value. Line numbers are 1-based and count every line in
// the file, headers and blanks included.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("nmr: malformed data line %d: %q", e.Line, e.Text)
}

// Unwrap lets errors.Is match ErrMalformedLine.
func (e *MalformedLineError) Unwrap() error {
	return ErrMalformedLine
}
