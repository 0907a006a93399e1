// Package qrimage draws QR-bill codes as PNG images.
package qrimage

import (
	"context"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Bill layout constants: 46 mm at 166 px, error correction M, no quiet zone.
const (
	Size          = 166
	RecoveryLevel = qrcode.Medium
	DisableBorder = true
)

// Renderer implements qrbill.ImageRenderer with skip2/go-qrcode.
type Renderer struct {
	size int
}

// NewRenderer returns a renderer producing Size×Size images.
func NewRenderer() *Renderer {
	return &Renderer{size: Size}
}

// RenderQR encodes content as a PNG.
func (r *Renderer) RenderQR(ctx context.Context, content string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := qrcode.New(content, RecoveryLevel)
	if err != nil {
		return nil, fmt.Errorf("qrimage: encode: %w", err)
	}
	q.DisableBorder = DisableBorder
	png, err := q.PNG(r.size)
	if err != nil {
		return nil, fmt.Errorf("qrimage: png: %w", err)
	}
	return png, nil
}
