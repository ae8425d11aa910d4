package blitsheep

// This file contains the frame scheduler. Once per frame period the current
// animation renders into the shared frame buffer, the frame is pushed to the
// strip and the button is sampled. A press that lands outside of the debounce
// window moves the catalog on to the next animation

import (
	"fmt"
	"time"

	"github.com/karlmutch/errors"

	"github.com/bklang/Blit-Sheep/animation"
	"github.com/bklang/Blit-Sheep/model"
)

// Output receives every rendered frame along with the global brightness cap
type Output interface {
	Push(frame model.FrameBuffer, brightness uint8) (err errors.Error)
}

// Button reports whether it was pressed since it was last asked
type Button interface {
	Pressed() bool
}

type Scheduler struct {
	registry   *animation.Registry
	buf        model.FrameBuffer
	output     Output
	button     Button
	brightness uint8
	debounce   time.Duration

	// clock is the elapsed time since the scheduler started, the last accepted
	// press starts out at zero so an early press can still be swallowed
	clock        func() time.Duration
	lastAccepted time.Duration

	errorC chan<- errors.Error
}

func NewScheduler(registry *animation.Registry, numLEDs int, output Output, button Button,
	brightness uint8, debounce time.Duration, errorC chan<- errors.Error) (sched *Scheduler) {

	start := time.Now()
	return &Scheduler{
		registry:   registry,
		buf:        model.NewFrameBuffer(numLEDs),
		output:     output,
		button:     button,
		brightness: brightness,
		debounce:   debounce,
		clock:      func() time.Duration { return time.Since(start) },
		errorC:     errorC,
	}
}

// Tick runs one frame, it returns true when the button switched animations
func (sched *Scheduler) Tick() (changed bool) {
	current := sched.registry.Current()
	current.Generator.Step(sched.buf)

	if sched.output != nil {
		if err := sched.output.Push(sched.buf, sched.brightness); err != nil {
			reportError(err.With("animation", current.Name), sched.errorC)
		}
	}

	if sched.button == nil || !sched.button.Pressed() {
		return false
	}

	now := sched.clock()
	if now-sched.lastAccepted < sched.debounce {
		return false
	}
	sched.lastAccepted = now

	next := sched.registry.Advance()
	logger.Info(fmt.Sprintf("Button press detected. Changing to %s", next.Name))
	return true
}

// Animation is the name of the running animation
func (sched *Scheduler) Animation() string {
	return sched.registry.Current().Name
}

// Frame returns a copy of the most recently rendered frame
func (sched *Scheduler) Frame() model.FrameBuffer {
	return sched.buf.Copy()
}
