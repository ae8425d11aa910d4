/*
Package animation contains implementations of procedural animation routines,
generating frame buffers representing LED color values for consecutive frames.

Every generator owns its own simulation state, which persists between frames
and is only touched from inside its Step call.
*/
package animation

import (
	"github.com/bklang/Blit-Sheep/model"
)

// Generator is an interface for types that support generation of animation
// frames
type Generator interface {
	// Step renders the next frame into buf. The buffer size determines the
	// number of LEDs to generate a frame for. Generators may read the previous
	// frame back out of buf
	Step(buf model.FrameBuffer)
}

// Entry is a named generator within a Registry
type Entry struct {
	Name      string
	Generator Generator
}

// Catalog builds the standard animation set in button order
func Catalog(fire FireConfig, glow GlowConfig, sparkle SparkleConfig, src Source) (reg *Registry) {
	return NewRegistry(
		Entry{Name: "Fire", Generator: NewFire(fire, src)},
		Entry{Name: "Red Glow", Generator: NewGlow(glow)},
		Entry{Name: "Sparkle", Generator: NewSparkle(sparkle, src)},
	)
}
