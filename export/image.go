package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// picture is a screenshot that decoded far enough to know its format and
// pixel size.
type picture struct {
	data   []byte
	format string
	width  int
	height int
}

// loadPicture reads and sniffs the screenshot behind ref. The error is
// meant for the inline placeholder.
func loadPicture(load ImageLoader, ref string) (picture, error) {
	data, err := load(ref)
	if err != nil {
		return picture{}, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return picture{}, fmt.Errorf("unsupported image %s: %w", ref, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return picture{}, errors.New("image has no pixels")
	}
	return picture{data: data, format: format, width: cfg.Width, height: cfg.Height}, nil
}

func (p picture) ext() string {
	if p.format == "jpeg" {
		return "jpg"
	}
	return p.format
}

func (p picture) contentType() string {
	return "image/" + p.format
}

// fit scales the picture to fit into maxW x maxH without enlarging it.
func (p picture) fit(maxW, maxH float64) (float64, float64) {
	w, h := float64(p.width), float64(p.height)
	scale := 1.0
	if maxW > 0 && w*scale > maxW {
		scale = maxW / w
	}
	if maxH > 0 && h*scale > maxH {
		scale = maxH / h
	}
	return w * scale, h * scale
}
