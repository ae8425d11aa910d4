package animation

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/bklang/Blit-Sheep/model"
)

// GlowConfig tunes the single colour pulse
type GlowConfig struct {
	Hue   float64 `yaml:"hue"`   // degrees, 0 is red
	Speed int     `yaml:"speed"` // level change per frame
	Min   int     `yaml:"min"`   // dimmest level of the pulse
	Max   int     `yaml:"max"`   // brightest level, usually the brightness ceiling
}

// Glow creates a simple pulsing effect of a single color across the whole strip
type Glow struct {
	cfg    GlowConfig
	level  int
	rising bool
}

// NewGlow starts the pulse at its dimmest, rising
func NewGlow(cfg GlowConfig) *Glow {
	return &Glow{
		cfg:    cfg,
		level:  cfg.Min,
		rising: true,
	}
}

// Level is the brightness the last frame was rendered at
func (g *Glow) Level() int {
	return g.level
}

// Rising reports the current direction of the pulse
func (g *Glow) Rising() bool {
	return g.rising
}

// Step moves the level one increment along the triangle wave and paints it
func (g *Glow) Step(buf model.FrameBuffer) {
	if g.rising {
		g.level += g.cfg.Speed
		if g.level >= g.cfg.Max {
			g.level = g.cfg.Max
			g.rising = false
		}
	} else {
		g.level -= g.cfg.Speed
		if g.level <= g.cfg.Min {
			g.level = g.cfg.Min
			g.rising = true
		}
	}

	r, gr, b := colorful.Hsv(g.cfg.Hue, 1.0, float64(g.level)/255.0).RGB255()
	buf.Fill(model.Pixel{R: r, G: gr, B: b})
}
