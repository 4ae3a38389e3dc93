// Adjusts image dimensions, orientation, or structure.
package adjustments

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/anas-shakeel/bmp24/internal/bmp"
)

// Crops a region in the image (0,0 is at the top-left of the image)
func Crop(img *bmp.Image, x, y, width, height int) (*bmp.Image, error) {
	// Validate bounds
	if x < 0 || y < 0 || width < 0 || height < 0 {
		return nil, errors.New("invalid bounds: negative offset or size")
	} else if width+x > img.Width() {
		return nil, errors.New("invalid bounds: width out of bounds")
	} else if height+y > img.Height() {
		return nil, errors.New("invalid bounds: height out of bounds")
	}

	cropped, _ := bmp.NewImage(width, height, bmp.Black)
	for row := range height {
		copy(cropped.Row(row), img.Row(row+y)[x : x+width])
	}
	return cropped, nil
}

// Scaling algorithms accepted by Resize
var scalers = map[string]draw.Scaler{
	"nearest":  draw.NearestNeighbor,
	"bilinear": draw.ApproxBiLinear,
	"catmull":  draw.CatmullRom,
}

// Scales the image to width x height using the named method
// ("nearest", "bilinear" or "catmull").
func Resize(img *bmp.Image, width, height int, method string) (*bmp.Image, error) {
	scaler, ok := scalers[method]
	if !ok {
		return nil, fmt.Errorf("invalid scaling method %q", method)
	}
	if width < 0 || height < 0 {
		return nil, errors.New("invalid size: width and height must not be negative")
	}
	if !bmp.FitsLimit(width, height) {
		return nil, fmt.Errorf("invalid size %dx%d: exceeds the 4 GiB BMP limit", width, height)
	}
	if width == 0 || height == 0 || img.Width() == 0 || img.Height() == 0 {
		return bmp.NewImage(width, height, bmp.Black)
	}

	src := img.ToRGBA()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return bmp.FromImage(dst), nil
}

// Mirrors the image top to bottom, in-place
func FlipVertical(img *bmp.Image) {
	for top, bottom := 0, img.Height()-1; top < bottom; top, bottom = top+1, bottom-1 {
		a, b := img.Row(top), img.Row(bottom)
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// Mirrors the image left to right, in-place
func FlipHorizontal(img *bmp.Image) {
	for row := range img.Height() {
		line := img.Row(row)
		for l, r := 0, len(line)-1; l < r; l, r = l+1, r-1 {
			line[l], line[r] = line[r], line[l]
		}
	}
}
