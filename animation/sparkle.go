package animation

// Sparkle randomly adds a new segment of light that quickly fades. It keeps no
// state of its own, the previous frame left in the buffer is what decays

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/bklang/Blit-Sheep/model"
)

// SparkleConfig tunes the sparkle generator
type SparkleConfig struct {
	NewRate  int   `yaml:"new_rate"`  // chance per frame out of 1000 of a new sparkle
	Fade     uint8 `yaml:"fade"`      // fraction out of 255 removed from every pixel per frame
	MinWidth int   `yaml:"min_width"` // narrowest sparkle, inclusive
	MaxWidth int   `yaml:"max_width"` // widest sparkle, exclusive
}

type Sparkle struct {
	cfg SparkleConfig
	src Source
}

func NewSparkle(cfg SparkleConfig, src Source) *Sparkle {
	return &Sparkle{
		cfg: cfg,
		src: src,
	}
}

func (s *Sparkle) Step(buf model.FrameBuffer) {
	// Decay all previous sparkles
	keep := 0xFF - s.cfg.Fade
	adj := model.Pixel{R: keep, G: keep, B: keep}
	for i := range buf {
		buf[i] = buf[i].Scale(adj)
	}

	if randRange(s.src, 0, 1000) >= s.cfg.NewRate {
		return
	}

	pos := randRange(s.src, 0, len(buf))
	buf[pos] = model.White

	// Spread out sparkle lighting, fading toward the edges
	width := randRange(s.src, s.cfg.MinWidth, s.cfg.MaxWidth)
	for i := 1; i < width; i++ {
		val := edge(i, width)
		if pos+i < len(buf) {
			buf[pos+i] = val
		}
		if pos-i >= 0 {
			buf[pos-i] = val
		}
	}
}

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

// edge blends from white toward black in proportion to offset/width
func edge(offset, width int) model.Pixel {
	r, g, b := white.BlendRgb(black, float64(offset)/float64(width)).RGB255()
	return model.Pixel{R: r, G: g, B: b}
}
