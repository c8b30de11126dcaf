package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/skip2/go-qrcode"
)

// StampShareLink draws a QR code with the given URL into the bottom-right
// corner of a rendered graph, so review images can be traced back to the
// scenario they came from.
func StampShareLink(img *image.RGBA, url string, sizePx int) error {
	if url == "" {
		return fmt.Errorf("share link is empty")
	}
	if sizePx <= 0 {
		sizePx = 64
	}

	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("failed to build QR code: %w", err)
	}
	qr.BackgroundColor = color.White
	qr.ForegroundColor = color.Black
	code := qr.Image(sizePx)

	margin := 8
	b := img.Rect
	dst := image.Rect(
		b.Max.X-sizePx-margin,
		b.Max.Y-sizePx-margin,
		b.Max.X-margin,
		b.Max.Y-margin,
	)
	if dst.Min.X < b.Min.X || dst.Min.Y < b.Min.Y {
		return fmt.Errorf("graph %dx%d too small for %dpx QR stamp", b.Dx(), b.Dy(), sizePx)
	}
	draw.Draw(img, dst, code, code.Bounds().Min, draw.Src)
	return nil
}
