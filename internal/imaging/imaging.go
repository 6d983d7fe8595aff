// Package imaging normalises item photos and derives their thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // png decoder
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	// MaxDimension bounds the width and height of a stored photo.
	MaxDimension = 1024
	// ThumbnailDimension bounds the width and height of a thumbnail.
	ThumbnailDimension = 256
	// MaxUploadSize is the largest accepted upload, in bytes.
	MaxUploadSize = 10 << 20

	jpegQuality = 85
	outputMIME  = "image/jpeg"
)

// ErrUnsupported is returned for uploads that are not JPEG or PNG images.
var ErrUnsupported = errors.New("unsupported image format")

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is an encoded item photo with its thumbnail.
type Photo struct {
	Data      []byte
	Thumbnail []byte
	MIME      string
	Width     int
	Height    int
}

// Process sniffs, decodes and re-encodes an uploaded photo as JPEG, shrinking
// it to MaxDimension and deriving a ThumbnailDimension thumbnail.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrUnsupported, MaxUploadSize)
	}

	// Client-supplied content types are ignored.
	if detected := http.DetectContentType(data); !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	full := fit(img, MaxDimension)
	fullData, err := encode(full)
	if err != nil {
		return nil, err
	}
	thumbData, err := encode(fit(full, ThumbnailDimension))
	if err != nil {
		return nil, err
	}

	return &Photo{
		Data:      fullData,
		Thumbnail: thumbData,
		MIME:      outputMIME,
		Width:     full.Bounds().Dx(),
		Height:    full.Bounds().Dy(),
	}, nil
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales img down, keeping its aspect ratio, until neither side exceeds
// maxDim. Smaller images are returned unchanged.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
