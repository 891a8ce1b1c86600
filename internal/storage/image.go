package storage

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	// MaxAvatarEdge bounds the longer side of stored profile images.
	MaxAvatarEdge = 1024
	JPEGQuality   = 85
	// MaxImagePixels caps the decoded size of an upload. Compressed files
	// under the byte limit can still declare enormous dimensions.
	MaxImagePixels = 40_000_000
)

var ErrInvalidImage = errors.New("invalid image")

// FitImage decodes content and, when its longer edge exceeds maxEdge,
// returns it downscaled and re-encoded in its original format. Images that
// already fit are returned unchanged.
func FitImage(content []byte, maxEdge int) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, ErrInvalidImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, ErrInvalidImage
	}
	if cfg.Width <= maxEdge && cfg.Height <= maxEdge {
		return content, nil
	}

	src, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, ErrInvalidImage
	}
	dst := resizeToFit(src, maxEdge, maxEdge)

	buf := bytes.NewBuffer(nil)
	switch format {
	case "png":
		err = png.Encode(buf, dst)
	case "gif":
		err = gif.Encode(buf, dst, nil)
	default:
		err = jpeg.Encode(buf, dst, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
