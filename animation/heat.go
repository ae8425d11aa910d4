package animation

import (
	"github.com/bklang/Blit-Sheep/model"
)

// HeatColor maps a temperature onto a black body radiation approximation,
// black through red, orange and yellow to white as heat rises
func HeatColor(temperature uint8) model.Pixel {
	// Scale down to 0-191 so the ramp splits into three 64 step thirds
	t192 := scale8Video(temperature, 191)

	// 0..63 within the current third, stretched to 0..252
	heatramp := (t192 & 0x3F) << 2

	switch {
	case t192&0x80 != 0:
		// hottest
		return model.Pixel{R: 0xFF, G: 0xFF, B: heatramp}
	case t192&0x40 != 0:
		// middle
		return model.Pixel{R: 0xFF, G: heatramp, B: 0x00}
	default:
		// coolest
		return model.Pixel{R: heatramp, G: 0x00, B: 0x00}
	}
}
