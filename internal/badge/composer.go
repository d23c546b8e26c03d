// Package badge produces the QR entry-pass image: a remote-rendered QR code
// composited onto the event frame with the guest name drawn underneath.
package badge

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/sunshineplan/imgconv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	nameFontSize   = 28
	minFontSize    = 16
	nameBaselinePx = 12 // distance from the bottom edge to the text baseline
	nameMarginPx   = 8  // horizontal margin the name must fit within
)

var (
	fontOnce  sync.Once
	badgeFont *opentype.Font
	fontErr   error
)

func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		badgeFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return badgeFont, fontErr
}

// Compose flattens the frame, a centered QR overlay and the guest name into a
// single PNG. Either input failing to decode is a composition error; callers
// treat that as a branch failure.
func Compose(frame, qr []byte, overlayText string) ([]byte, error) {
	frameImg, err := imgconv.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	qrImg, err := imgconv.Decode(bytes.NewReader(qr))
	if err != nil {
		return nil, fmt.Errorf("decode qr: %w", err)
	}

	fb := frameImg.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, fb.Dx(), fb.Dy()))
	draw.Draw(canvas, canvas.Bounds(), frameImg, fb.Min, draw.Src)

	qb := qrImg.Bounds()
	offset := image.Pt((fb.Dx()-qb.Dx())/2, (fb.Dy()-qb.Dy())/2)
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(qb.Size())}, qrImg, qb.Min, draw.Over)

	if err := drawName(canvas, overlayText); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imgconv.Write(&buf, canvas, &imgconv.FormatOption{Format: imgconv.PNG}); err != nil {
		return nil, fmt.Errorf("encode badge: %w", err)
	}
	return buf.Bytes(), nil
}

// drawName renders the guest name bottom-centered. Long names step the font
// size down and are ellipsis-truncated as a last resort so the overlay never
// crops.
func drawName(canvas *image.RGBA, name string) error {
	if name == "" {
		return nil
	}

	f, err := loadFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	maxWidth := fixed.I(canvas.Bounds().Dx() - 2*nameMarginPx)

	for size := nameFontSize; ; size -= 4 {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return fmt.Errorf("build font face: %w", err)
		}

		d := &font.Drawer{Dst: canvas, Src: image.Black, Face: face}
		text := name
		if size <= minFontSize {
			text = truncateToWidth(d, name, maxWidth)
		}

		if w := d.MeasureString(text); w <= maxWidth || size <= minFontSize {
			d.Dot = fixed.Point26_6{
				X: fixed.I(canvas.Bounds().Dx()/2) - w/2,
				Y: fixed.I(canvas.Bounds().Dy() - nameBaselinePx),
			}
			if w > maxWidth {
				d.Dot.X = fixed.I(nameMarginPx)
			}
			d.DrawString(text)
			face.Close()
			return nil
		}
		face.Close()
	}
}

func truncateToWidth(d *font.Drawer, s string, maxWidth fixed.Int26_6) string {
	if d.MeasureString(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		if d.MeasureString(string(runes)+"…") <= maxWidth {
			break
		}
	}
	return string(runes) + "…"
}
