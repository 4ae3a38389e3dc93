package bmp

import (
	"fmt"
	"strings"
)

// OpenError reports that the file could not be opened or created.
type OpenError struct {
	Name string
	Err  error
}

func (e *OpenError) Error() string { return "bmp: cannot open " + e.Name + ": " + e.Err.Error() }
func (e *OpenError) Unwrap() error { return e.Err }

// FormatError reports that the input is not a valid BMP.
type FormatError struct {
	Name   string
	Reason string
}

func (e *FormatError) Error() string { return prefix(e.Name) + "invalid format: " + e.Reason }

// UnsupportedError reports that the input is a valid BMP using a feature
// other than 24-bit uncompressed pixels.
type UnsupportedError struct {
	Name    string
	Feature string
}

func (e *UnsupportedError) Error() string {
	return prefix(e.Name) + "unsupported feature: " + e.Feature
}

// TruncatedError reports that the stream ended before a header or a pixel
// row was complete. Row counts rows as stored on disk, starting at 1.
type TruncatedError struct {
	Name    string
	Section string
	Row     int
	Want    int
	Got     int
}

func (e *TruncatedError) Error() string {
	var b strings.Builder
	b.WriteString(prefix(e.Name))
	b.WriteString("truncated ")
	b.WriteString(e.Section)
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	fmt.Fprintf(&b, ": want %d bytes, got %d", e.Want, e.Got)
	return b.String()
}

// IOError reports a failure of the underlying stream mid-operation.
type IOError struct {
	Name string
	Op   string
	Err  error
}

func (e *IOError) Error() string { return prefix(e.Name) + e.Op + ": " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

func prefix(name string) string {
	if name == "" {
		return "bmp: "
	}
	return "bmp: " + name + ": "
}

// Attaches the file name to a codec error that doesn't carry one yet
func withName(err error, name string) error {
	switch e := err.(type) {
	case *FormatError:
		if e.Name == "" {
			e.Name = name
		}
	case *UnsupportedError:
		if e.Name == "" {
			e.Name = name
		}
	case *TruncatedError:
		if e.Name == "" {
			e.Name = name
		}
	case *IOError:
		if e.Name == "" {
			e.Name = name
		}
	}
	return err
}
