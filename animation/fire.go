package animation

// A one dimensional fire simulation. An array of heat cells models the
// temperature at each point along the strip. Every frame the cells cool a
// little, heat drifts up the strip and diffuses, new sparks are sometimes lit
// near the bottom and the heat is rendered through a black body colour ramp.
//
// Temperature is in arbitrary units from 0 (cold black) to 255 (white hot).

import (
	"github.com/bklang/Blit-Sheep/model"
)

const (
	// Sparks are only ever lit within this many cells of the base
	sparkZone = 7

	sparkMinHeat = 160
	sparkMaxHeat = 255
)

// FireConfig tunes the fire simulation
type FireConfig struct {
	// How much the air cools as it rises. Less cooling gives taller flames,
	// more cooling shorter flames. Suggested range 20-100
	Cooling int `yaml:"cooling"`

	// Chance out of 255 that a new spark is lit each frame. Higher is a more
	// roaring fire, lower is more flickery. Suggested range 50-200
	Sparking uint8 `yaml:"sparking"`
}

// Fire is the heat diffusion generator
type Fire struct {
	cfg  FireConfig
	src  Source
	heat []uint8
}

// NewFire creates a fire whose heat cells are sized on the first frame
func NewFire(cfg FireConfig, src Source) *Fire {
	return &Fire{
		cfg: cfg,
		src: src,
	}
}

// Heat returns a copy of the current heat cells
func (f *Fire) Heat() []uint8 {
	return append([]uint8(nil), f.heat...)
}

// Step advances the simulation one frame and renders it into buf
func (f *Fire) Step(buf model.FrameBuffer) {
	n := len(buf)
	if len(f.heat) != n {
		f.heat = make([]uint8, n)
	}

	// Step 1.  Cool down every cell a little
	limit := (f.cfg.Cooling*10)/n + 2
	for i := range f.heat {
		f.heat[i] = qsubInt(f.heat[i], randRange(f.src, 0, limit))
	}

	// Step 2.  Heat from each cell drifts 'up' and diffuses a little
	diffuse(f.heat)

	// Step 3.  Randomly ignite new 'sparks' of heat near the bottom
	if random8(f.src) < f.cfg.Sparking {
		zone := sparkZone
		if zone > n {
			zone = n
		}
		y := randRange(f.src, 0, zone)
		f.heat[y] = qadd8(f.heat[y], uint8(randRange(f.src, sparkMinHeat, sparkMaxHeat)))
	}

	// Step 4.  Map from heat cells to LED colors
	for j, h := range f.heat {
		buf[j] = HeatColor(h)
	}
}

// diffuse must walk from the top down so every cell reads the previous frame's
// values of the two cells beneath it
func diffuse(heat []uint8) {
	for k := len(heat) - 1; k >= 2; k-- {
		heat[k] = uint8((uint16(heat[k-1]) + 2*uint16(heat[k-2])) / 3)
	}
}
