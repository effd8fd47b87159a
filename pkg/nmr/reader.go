package nmr

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Header fields are located by label, not column position: exports from
// different processing tools wrap the values in different prose ("# LEFT =
// 10.5 ppm. RIGHT = -0.5 ppm."), so the numeric token after each label is
// extracted with a pattern.
var (
	leftRe  = regexp.MustCompile(`LEFT\s*[=:]?\s*([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)`)
	rightRe = regexp.MustCompile(`RIGHT\s*[=:]?\s*([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)`)
	sizeRe  = regexp.MustCompile(`SIZE\s*[=:]?\s*([0-9]+)`)
)

// Parse reads the NMR data file at path. The returned Spectrum's
// SourceLabel is the file's base name.
func Parse(path string) (*Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nmr: open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path))
}

// Read parses NMR data from r, labeling the result with label.
//
// Lines beginning with '#' are header lines; LEFT, RIGHT, and SIZE may
// appear on any of them, in any order. Every other non-blank line must be
// a single float intensity sample. The x-axis is reconstructed as an even
// spacing from LEFT to RIGHT over the samples actually read — the declared
// SIZE is not trusted for the axis length.
//
// Errors: ErrHeaderMissing if any of the three header fields cannot be
// located, ErrEmptyData if no samples are present, and a
// *MalformedLineError for the first unparseable data line.
func Read(r io.Reader, label string) (*Spectrum, error) {
	var (
		left, right         float64
		haveLeft, haveRight bool
		size                int
		haveSize            bool
		data                []float64
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.HasPrefix(line, "#") {
			if m := leftRe.FindStringSubmatch(line); m != nil && !haveLeft {
				left, _ = strconv.ParseFloat(m[1], 64)
				haveLeft = true
			}
			if m := rightRe.FindStringSubmatch(line); m != nil && !haveRight {
				right, _ = strconv.ParseFloat(m[1], 64)
				haveRight = true
			}
			if m := sizeRe.FindStringSubmatch(line); m != nil && !haveSize {
				size, _ = strconv.Atoi(m[1])
				haveSize = true
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, &MalformedLineError{Line: lineNo, Text: trimmed}
		}
		data = append(data, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("nmr: read %s: %w", label, err)
	}

	if !haveLeft || !haveRight || !haveSize {
		return nil, fmt.Errorf("%w in %s", ErrHeaderMissing, label)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyData, label)
	}

	return &Spectrum{
		X:           linspace(left, right, len(data)),
		Y:           data,
		SourceLabel: label,
		Header:      Header{Left: left, Right: right, Size: size},
	}, nil
}
