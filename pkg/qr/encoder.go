package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder renders text into grayscale PNG QR codes.
type Encoder struct {
	minSize int
	level   qrcode.RecoveryLevel
}

// NewEncoder creates an encoder rendering images at least minSize pixels on
// each edge.
func NewEncoder(minSize int) *Encoder {
	return &Encoder{minSize: minSize, level: qrcode.Medium}
}

// EncodePNG renders content as a QR code. It fails when the content cannot
// fit a QR code (empty, or beyond the symbol capacity).
func (e *Encoder) EncodePNG(content string) ([]byte, error) {
	code, err := qrcode.New(content, e.level)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}

	img := code.Image(e.minSize)
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}
