package pipeline

import (
	"fmt"

	"github.com/anas-shakeel/bmp24/internal/adjustments"
	"github.com/anas-shakeel/bmp24/internal/bmp"
	"github.com/anas-shakeel/bmp24/internal/filters"
)

type operation func(img *bmp.Image, p params) (*bmp.Image, error)

var operations = map[string]operation{
	"invert": func(img *bmp.Image, _ params) (*bmp.Image, error) {
		filters.Invert(img)
		return img, nil
	},
	"grayscale": func(img *bmp.Image, _ params) (*bmp.Image, error) {
		filters.Grayscale(img)
		return img, nil
	},
	"luma": func(img *bmp.Image, _ params) (*bmp.Image, error) {
		filters.GrayscaleLuma(img)
		return img, nil
	},
	"brightness": func(img *bmp.Image, p params) (*bmp.Image, error) {
		factor, err := p.num("factor", "")
		if err != nil {
			return nil, err
		}
		return img, filters.Brightness(img, factor, p.str("method", "multiply"))
	},
	"contrast": func(img *bmp.Image, p params) (*bmp.Image, error) {
		factor, err := p.num("factor", "")
		if err != nil {
			return nil, err
		}
		filters.Contrast(img, factor)
		return img, nil
	},
	"channel": func(img *bmp.Image, p params) (*bmp.Image, error) {
		return img, filters.Channel(img, p.str("channel", ""))
	},
	"dither": func(img *bmp.Image, _ params) (*bmp.Image, error) {
		return filters.Dither(img), nil
	},
	"crop": func(img *bmp.Image, p params) (*bmp.Image, error) {
		x, err := p.integer("x", "0")
		if err != nil {
			return nil, err
		}
		y, err := p.integer("y", "0")
		if err != nil {
			return nil, err
		}
		w, h := img.Width()-x, img.Height()-y
		if p.has("width") {
			if w, err = p.integer("width", ""); err != nil {
				return nil, err
			}
		}
		if p.has("height") {
			if h, err = p.integer("height", ""); err != nil {
				return nil, err
			}
		}
		return adjustments.Crop(img, x, y, w, h)
	},
	"resize": func(img *bmp.Image, p params) (*bmp.Image, error) {
		w, err := p.integer("width", "width")
		if err != nil {
			return nil, err
		}
		h, err := p.integer("height", "height")
		if err != nil {
			return nil, err
		}
		return adjustments.Resize(img, w, h, p.str("method", "catmull"))
	},
	"flip": func(img *bmp.Image, p params) (*bmp.Image, error) {
		switch dir := p.str("direction", "vertical"); dir {
		case "vertical":
			adjustments.FlipVertical(img)
		case "horizontal":
			adjustments.FlipHorizontal(img)
		default:
			return nil, fmt.Errorf("invalid flip direction %q", dir)
		}
		return img, nil
	},
}
