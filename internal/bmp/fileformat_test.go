package bmp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestStride(t *testing.T) {
	cases := map[int]int{0: 0, 1: 4, 2: 8, 3: 12, 4: 12, 5: 16, 8: 24, 11: 36}
	for width, want := range cases {
		if got := Stride(width); got != want {
			t.Errorf("Stride(%d) = %d, want %d", width, got, want)
		}
	}

	for width := range 1000 {
		s := Stride(width)
		if s%4 != 0 || s < width*3 || s-width*3 > 3 {
			t.Fatalf("Stride(%d) = %d breaks alignment", width, s)
		}
	}
}

func TestNewHeaders(t *testing.T) {
	fh, ih := NewHeaders(3, 2)

	if fh.Type != [2]byte{'B', 'M'} || fh.OffBits != 54 || fh.Reserved != 0 {
		t.Errorf("unexpected file header defaults: %+v", fh)
	}
	if ih.SizeImage != 24 || fh.Size != 24+54 {
		t.Errorf("sizes: image %d, file %d", ih.SizeImage, fh.Size)
	}
	if ih.Size != 40 || ih.Planes != 1 || ih.BitCount != 24 || ih.Compression != 0 {
		t.Errorf("unexpected info header defaults: %+v", ih)
	}
	if ih.XPixelsPerM != 11811 || ih.YPixelsPerM != 11811 || ih.ColorsUsed != 0 || ih.ColorsImportant != 0x1000000 {
		t.Errorf("unexpected resolution/colors: %+v", ih)
	}
}

func TestHeaderLayout(t *testing.T) {
	fh, ih := NewHeaders(5, 7)

	var buf bytes.Buffer
	if err := WriteHeaders(&buf, fh, ih); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if len(b) != 54 {
		t.Fatalf("headers are %d bytes, want 54", len(b))
	}

	le := binary.LittleEndian
	checks := []struct {
		name   string
		got    uint32
		expect uint32
	}{
		{"file size", le.Uint32(b[2:]), 16*7 + 54},
		{"reserved", le.Uint32(b[6:]), 0},
		{"offset", le.Uint32(b[10:]), 54},
		{"info size", le.Uint32(b[14:]), 40},
		{"width", le.Uint32(b[18:]), 5},
		{"height", le.Uint32(b[22:]), 7},
		{"planes", uint32(le.Uint16(b[26:])), 1},
		{"bpp", uint32(le.Uint16(b[28:])), 24},
		{"compression", le.Uint32(b[30:]), 0},
		{"image size", le.Uint32(b[34:]), 16 * 7},
		{"h res", le.Uint32(b[38:]), 11811},
		{"v res", le.Uint32(b[42:]), 11811},
		{"colors used", le.Uint32(b[46:]), 0},
		{"important colors", le.Uint32(b[50:]), 0x1000000},
	}
	if b[0] != 'B' || b[1] != 'M' {
		t.Errorf("signature = %q", b[:2])
	}
	for _, c := range checks {
		if c.got != c.expect {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.expect)
		}
	}
}

// Returns the 54 header bytes of a width x height image with mutate applied
func headerBytes(width, height int, mutate func(b []byte)) []byte {
	var buf bytes.Buffer
	fh, ih := NewHeaders(width, height)
	WriteHeaders(&buf, fh, ih)
	b := buf.Bytes()
	if mutate != nil {
		mutate(b)
	}
	return b
}

func TestReadHeaders(t *testing.T) {
	trailer := []byte{1, 2, 3}
	r := bytes.NewReader(append(headerBytes(4, 3, nil), trailer...))

	fh, ih, err := ReadHeaders(r)
	if err != nil {
		t.Fatal(err)
	}
	if ih.Width != 4 || ih.Height != 3 || fh.OffBits != 54 {
		t.Errorf("decoded %+v %+v", fh, ih)
	}
	if fh.Size != ih.SizeImage+54 || ih.SizeImage != uint32(Stride(4)*3) {
		t.Errorf("size invariants broken: %+v %+v", fh, ih)
	}
	if r.Len() != len(trailer) {
		t.Errorf("consumed %d bytes, want 54", 54+len(trailer)-r.Len())
	}
}

func TestReadHeadersRejects(t *testing.T) {
	le := binary.LittleEndian
	tests := []struct {
		name  string
		input []byte
		check func(err error) bool
	}{
		{"signature", headerBytes(1, 1, func(b []byte) { b[0], b[1] = 'P', 'K' }), isFormat},
		{"second signature byte", headerBytes(1, 1, func(b []byte) { b[1] = 'A' }), isFormat},
		{"32 bpp", headerBytes(1, 1, func(b []byte) { le.PutUint16(b[28:], 32) }), isUnsupported},
		{"8 bpp", headerBytes(1, 1, func(b []byte) { le.PutUint16(b[28:], 8) }), isUnsupported},
		{"rle8", headerBytes(1, 1, func(b []byte) { le.PutUint32(b[30:], 1) }), isUnsupported},
		{"negative height", headerBytes(1, 1, func(b []byte) { le.PutUint32(b[22:], uint32(0xffffffff)) }), isFormat},
		{"negative width", headerBytes(1, 1, func(b []byte) { le.PutUint32(b[18:], uint32(0xfffffffe)) }), isFormat},
		{"huge", headerBytes(1, 1, func(b []byte) {
			le.PutUint32(b[18:], 0x7fffffff)
			le.PutUint32(b[22:], 0x7fffffff)
		}), isFormat},
		{"short file header", []byte("BM\x00"), isTruncated},
		{"short info header", headerBytes(1, 1, nil)[:30], isTruncated},
		{"empty", nil, isTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadHeaders(bytes.NewReader(tt.input))
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestReadHeadersIOError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, _, err := ReadHeaders(&failingReader{data: headerBytes(1, 1, nil)[:20], err: boom})

	var ioErr *IOError
	if !errors.As(err, &ioErr) || !errors.Is(err, boom) {
		t.Fatalf("got %v, want IOError wrapping %v", err, boom)
	}
}

func TestHeaderUnmarshalShort(t *testing.T) {
	var fh FileHeader
	if err := fh.UnmarshalBinary(make([]byte, 13)); err == nil {
		t.Error("expected error for 13 byte file header")
	}
	var ih InfoHeader
	if err := ih.UnmarshalBinary(make([]byte, 39)); err == nil {
		t.Error("expected error for 39 byte info header")
	}
}

func isFormat(err error) bool {
	var e *FormatError
	return errors.As(err, &e)
}

func isUnsupported(err error) bool {
	var e *UnsupportedError
	return errors.As(err, &e)
}

func isTruncated(err error) bool {
	var e *TruncatedError
	return errors.As(err, &e)
}

// Serves data then fails with err
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

// Accepts limit bytes then fails
type failingWriter struct {
	limit int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		n := w.limit
		w.limit = 0
		return n, fmt.Errorf("no space left after %d bytes", n)
	}
	w.limit -= len(p)
	return len(p), nil
}

func TestHeaderMarshalMatchesWriteHeaders(t *testing.T) {
	fh, ih := NewHeaders(7, 3)

	var buf bytes.Buffer
	if err := WriteHeaders(&buf, fh, ih); err != nil {
		t.Fatal(err)
	}
	fb, err := fh.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	ib, err := ih.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), append(fb, ib...)) {
		t.Error("MarshalBinary and WriteHeaders disagree")
	}

	var fh2 FileHeader
	var ih2 InfoHeader
	if err := fh2.UnmarshalBinary(fb); err != nil || fh2 != fh {
		t.Errorf("file header: %+v, %v", fh2, err)
	}
	if err := ih2.UnmarshalBinary(ib); err != nil || ih2 != ih {
		t.Errorf("info header: %+v, %v", ih2, err)
	}
}

func TestSizeLimitIsShared(t *testing.T) {
	// Stride(1431655746) = 4294967240, the largest stride whose file size fits in 32 bits
	const widest = 1431655746
	if Stride(widest)+PixelDataOffset > math.MaxUint32 || Stride(widest+1)+PixelDataOffset <= math.MaxUint32 {
		t.Fatalf("boundary moved: Stride(%d) = %d", widest, Stride(widest))
	}

	for _, c := range []struct {
		width int
		fits  bool
	}{
		{widest, true},
		{widest + 1, false},
	} {
		if FitsLimit(c.width, 1) != c.fits {
			t.Errorf("FitsLimit(%d, 1) = %v", c.width, !c.fits)
		}

		data := headerBytes(1, 1, func(b []byte) { binary.LittleEndian.PutUint32(b[18:], uint32(c.width)) })
		_, _, err := ReadHeaders(bytes.NewReader(data))
		if c.fits && err != nil {
			t.Errorf("width %d: a loadable header was rejected: %v", c.width, err)
		}
		if !c.fits && !isFormat(err) {
			t.Errorf("width %d: got %v, want FormatError", c.width, err)
		}
	}

	if FitsLimit(-1, 1) || FitsLimit(1, -1) || !FitsLimit(0, 1<<40) {
		t.Error("FitsLimit mishandles degenerate sizes")
	}
}
