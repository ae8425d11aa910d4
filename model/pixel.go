package model

// This module defines the colour cells that animations render into and that
// output transports consume

import (
	"fmt"
)

// Pixel is a single RGB colour cell on the strip
type Pixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var (
	Black = Pixel{0x00, 0x00, 0x00}
	White = Pixel{0xFF, 0xFF, 0xFF}

	// TypicalLEDStrip is the colour correction for common 5050 WS2811/WS2812 strips
	TypicalLEDStrip = Pixel{0xFF, 0xB0, 0xF0}
)

func (p Pixel) String() string {
	return fmt.Sprintf("#%02X%02X%02X", p.R, p.G, p.B)
}

// Scale multiplies each channel by the matching channel of adj treated as a
// fraction of 256, so a channel of 255 in adj leaves the value unchanged
func (p Pixel) Scale(adj Pixel) Pixel {
	return Pixel{
		R: scale8(p.R, adj.R),
		G: scale8(p.G, adj.G),
		B: scale8(p.B, adj.B),
	}
}

// Adjustment folds a global brightness into a colour correction, yielding the
// per channel scale that output transports apply with Pixel.Scale
func Adjustment(correction Pixel, brightness uint8) Pixel {
	return Pixel{
		R: scale8(correction.R, brightness),
		G: scale8(correction.G, brightness),
		B: scale8(correction.B, brightness),
	}
}

func scale8(v uint8, scale uint8) uint8 {
	return uint8((uint16(v) * (uint16(scale) + 1)) >> 8)
}

// FrameBuffer is the fixed length sequence of pixels for one strip. The length
// is set at construction and never changes
type FrameBuffer []Pixel

// NewFrameBuffer allocates a black frame of n pixels, n must be at least 1
func NewFrameBuffer(n int) FrameBuffer {
	if n < 1 {
		panic(fmt.Sprintf("frame buffer length must be at least 1, got %d", n))
	}
	return make(FrameBuffer, n)
}

// Fill sets every pixel to c
func (buf FrameBuffer) Fill(c Pixel) {
	for i := range buf {
		buf[i] = c
	}
}

// Copy returns a detached copy of the frame
func (buf FrameBuffer) Copy() (cpy FrameBuffer) {
	cpy = make(FrameBuffer, len(buf))
	copy(cpy, buf)
	return cpy
}
