// BMP-specific structs, constants and the header codec
package bmp

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	FileHeaderSize  = 14                             // Size of BitmapFileHeader on disk
	InfoHeaderSize  = 40                             // Size of BitmapInfoHeader on disk
	PixelDataOffset = FileHeaderSize + InfoHeaderSize // Pixel array starts right after the headers

	BitsPerPixel  = 24
	BytesPerPixel = BitsPerPixel / 8

	defaultPixelsPerMeter  = 11811 // ~300 DPI
	defaultImportantColors = 0x1000000
)

// The FileHeader structure contains information about the type, size,
// and layout of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader
type FileHeader struct {
	Type     [2]byte // The file type: must be "BM".
	Size     uint32  // The size, in bytes, of the bitmap file.
	Reserved uint32  // Reserved; must be zero.
	OffBits  uint32  // Offset (in bytes) from the start of the file to the pixel array
}

// The InfoHeader structure contains information about the
// dimensions and color format of a DIB [device-independent bitmap].
type InfoHeader struct {
	Size            uint32 // The number of bytes required by the structure.
	Width           int32  // The width of the bitmap, in pixels.
	Height          int32  // The height of the bitmap, in pixels
	Planes          uint16 // The number of planes for the target device.
	BitCount        uint16 // The number of bits-per-pixel.
	Compression     uint32 // The type of compression
	SizeImage       uint32 // The size of the pixel array (in bytes).
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      int32  // Number of color indexes that are actually used by bitmap.
	ColorsImportant int32  // Number of color indexes required for displaying the bitmap.
}

// Returns the number of bytes a row of width pixels occupies on disk,
// padded up to a multiple of 4.
func Stride(width int) int {
	return 4 * ((width*BytesPerPixel + 3) / 4)
}

// Largest pixel array whose file size still fits the 32-bit size field
const MaxPixelDataSize = math.MaxUint32 - PixelDataOffset

// Reports whether a width x height image can be stored as a BMP file
func FitsLimit(width, height int) bool {
	if width < 0 || height < 0 || width > MaxPixelDataSize/BytesPerPixel {
		return false
	}
	return uint64(Stride(width))*uint64(height) <= MaxPixelDataSize
}

// Creates a fresh pair of headers describing a width x height 24-bit image
func NewHeaders(width, height int) (FileHeader, InfoHeader) {
	sizeImage := uint32(Stride(width) * height)

	fh := FileHeader{
		Type:    [2]byte{'B', 'M'},
		Size:    sizeImage + PixelDataOffset,
		OffBits: PixelDataOffset,
	}
	ih := InfoHeader{
		Size:            InfoHeaderSize,
		Width:           int32(width),
		Height:          int32(height),
		Planes:          1,
		BitCount:        BitsPerPixel,
		SizeImage:       sizeImage,
		XPixelsPerM:     defaultPixelsPerMeter,
		YPixelsPerM:     defaultPixelsPerMeter,
		ColorsImportant: defaultImportantColors,
	}
	return fh, ih
}

// Serializes the file header field by field (no struct layout involved)
func (h *FileHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, FileHeaderSize)
	h.put(b)
	return b, nil
}

// Parses a 14 byte file header. The signature is not validated here.
func (h *FileHeader) UnmarshalBinary(b []byte) error {
	if len(b) < FileHeaderSize {
		return fmt.Errorf("bmp: file header needs %d bytes, got %d", FileHeaderSize, len(b))
	}
	h.get(b)
	return nil
}

// b must hold at least FileHeaderSize bytes
func (h *FileHeader) put(b []byte) {
	_ = b[FileHeaderSize-1]
	b[0], b[1] = h.Type[0], h.Type[1]
	binary.LittleEndian.PutUint32(b[2:6], h.Size)
	binary.LittleEndian.PutUint32(b[6:10], h.Reserved)
	binary.LittleEndian.PutUint32(b[10:14], h.OffBits)
}

func (h *FileHeader) get(b []byte) {
	_ = b[FileHeaderSize-1]
	h.Type = [2]byte{b[0], b[1]}
	h.Size = binary.LittleEndian.Uint32(b[2:6])
	h.Reserved = binary.LittleEndian.Uint32(b[6:10])
	h.OffBits = binary.LittleEndian.Uint32(b[10:14])
}

func (h *InfoHeader) MarshalBinary() ([]byte, error) {
	b := make([]byte, InfoHeaderSize)
	h.put(b)
	return b, nil
}

func (h *InfoHeader) UnmarshalBinary(b []byte) error {
	if len(b) < InfoHeaderSize {
		return fmt.Errorf("bmp: info header needs %d bytes, got %d", InfoHeaderSize, len(b))
	}
	h.get(b)
	return nil
}

// b must hold at least InfoHeaderSize bytes
func (h *InfoHeader) put(b []byte) {
	_ = b[InfoHeaderSize-1]
	le := binary.LittleEndian
	le.PutUint32(b[0:4], h.Size)
	le.PutUint32(b[4:8], uint32(h.Width))
	le.PutUint32(b[8:12], uint32(h.Height))
	le.PutUint16(b[12:14], h.Planes)
	le.PutUint16(b[14:16], h.BitCount)
	le.PutUint32(b[16:20], h.Compression)
	le.PutUint32(b[20:24], h.SizeImage)
	le.PutUint32(b[24:28], uint32(h.XPixelsPerM))
	le.PutUint32(b[28:32], uint32(h.YPixelsPerM))
	le.PutUint32(b[32:36], uint32(h.ColorsUsed))
	le.PutUint32(b[36:40], uint32(h.ColorsImportant))
}

func (h *InfoHeader) get(b []byte) {
	_ = b[InfoHeaderSize-1]
	le := binary.LittleEndian
	h.Size = le.Uint32(b[0:4])
	h.Width = int32(le.Uint32(b[4:8]))
	h.Height = int32(le.Uint32(b[8:12]))
	h.Planes = le.Uint16(b[12:14])
	h.BitCount = le.Uint16(b[14:16])
	h.Compression = le.Uint32(b[16:20])
	h.SizeImage = le.Uint32(b[20:24])
	h.XPixelsPerM = int32(le.Uint32(b[24:28]))
	h.YPixelsPerM = int32(le.Uint32(b[28:32]))
	h.ColorsUsed = int32(le.Uint32(b[32:36]))
	h.ColorsImportant = int32(le.Uint32(b[36:40]))
}

// Writes both headers (exactly 54 bytes) to w
func WriteHeaders(w io.Writer, fh FileHeader, ih InfoHeader) error {
	var buf [PixelDataOffset]byte

	fh.put(buf[:FileHeaderSize])
	ih.put(buf[FileHeaderSize:])

	if _, err := w.Write(buf[:]); err != nil {
		return &IOError{Op: "write headers", Err: err}
	}
	return nil
}

// Reads and validates the file header and info header from r.
// On success exactly 54 bytes have been consumed.
func ReadHeaders(r io.Reader) (FileHeader, InfoHeader, error) {
	var fh FileHeader
	var ih InfoHeader

	// Read File Header
	buf := make([]byte, FileHeaderSize)
	if err := readHeader(r, buf, "file header"); err != nil {
		return fh, ih, err
	}
	fh.get(buf)

	// Verify that this is a .BMP file by checking the bitmap id
	if fh.Type[0] != 'B' || fh.Type[1] != 'M' {
		return fh, ih, &FormatError{Reason: fmt.Sprintf("bad signature %q, want \"BM\"", fh.Type[:])}
	}

	// Read Info Header
	buf = make([]byte, InfoHeaderSize)
	if err := readHeader(r, buf, "info header"); err != nil {
		return fh, ih, err
	}
	ih.get(buf)

	// Support only 24bit uncompressed Bitmaps
	if ih.BitCount != BitsPerPixel {
		return fh, ih, &UnsupportedError{Feature: fmt.Sprintf("bit depth %d", ih.BitCount)}
	}
	if ih.Compression != 0 {
		return fh, ih, &UnsupportedError{Feature: fmt.Sprintf("compression method %d", ih.Compression)}
	}

	if ih.Width < 0 || ih.Height < 0 {
		return fh, ih, &FormatError{Reason: fmt.Sprintf("negative dimensions %dx%d", ih.Width, ih.Height)}
	}
	if !FitsLimit(int(ih.Width), int(ih.Height)) {
		return fh, ih, &FormatError{Reason: fmt.Sprintf("dimensions %dx%d overflow the pixel array size", ih.Width, ih.Height)}
	}

	return fh, ih, nil
}

func readHeader(r io.Reader, buf []byte, what string) error {
	n, err := io.ReadFull(r, buf)
	switch err {
	case nil:
		return nil
	case io.EOF, io.ErrUnexpectedEOF:
		return &TruncatedError{Section: what, Want: len(buf), Got: n}
	default:
		return &IOError{Op: "read " + what, Err: err}
	}
}
