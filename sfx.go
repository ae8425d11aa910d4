package blitsheep

// This module implements a sound effects generator that tracks the state of
// the node based on the node status messages that are sent to it, it then
// in turn queues up cues to match.

import (
	"fmt"
	"os"
	"time"

	"github.com/karlmutch/errors"

	"github.com/bklang/Blit-Sheep/model"
)

var (
	// rising pair when this node takes control
	controllerCue = []Tone{{Freq: 660, Duration: 120 * time.Millisecond}, {Freq: 880, Duration: 180 * time.Millisecond}}
	// falling pair when control moves elsewhere
	followerCue = []Tone{{Freq: 440, Duration: 120 * time.Millisecond}, {Freq: 330, Duration: 180 * time.Millisecond}}
	// click for an animation change
	animationCue = []Tone{{Freq: 1320, Duration: 40 * time.Millisecond}}
)

// cuesFor selects the cue for a status transition, last is nil for the very
// first status seen
func cuesFor(last *model.NodeStatus, current *model.NodeStatus) (tones []Tone) {
	if current == nil {
		return nil
	}
	if last == nil {
		if current.Controller {
			return controllerCue
		}
		return nil
	}

	if last.Controller != current.Controller {
		if current.Controller {
			tones = append(tones, controllerCue...)
		} else {
			tones = append(tones, followerCue...)
		}
	}
	if last.Animation != current.Animation {
		if len(tones) != 0 {
			tones = append(tones, Tone{Duration: 60 * time.Millisecond})
		}
		tones = append(tones, animationCue...)
	}
	return tones
}

type SFXState struct {
	current *model.NodeStatus
	cueC    chan []Tone
}

func (sfx *SFXState) process(msg *model.NodeStatus) {
	if msg == nil {
		return
	}

	current := msg.DeepCopy()
	tones := cuesFor(sfx.current, current)
	sfx.current = current

	if len(tones) == 0 {
		return
	}
	go func() {
		select {
		case sfx.cueC <- tones:
		case <-time.After(time.Second):
		}
	}()
}

// StartSFX will add itself to the subscriptions for node status messages
func StartSFX(subscribeC chan chan *model.NodeStatus, errorC chan<- errors.Error, quitC <-chan struct{}) {

	sfx := &SFXState{
		cueC: make(chan []Tone, 3),
	}

	if err := InitAudio(sfx.cueC, errorC, quitC); err != nil {
		select {
		case errorC <- err:
		case <-time.After(100 * time.Millisecond):
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return
	}

	// Allow a lot of messages to queue up as we will only process the last one anyway
	updateC := make(chan *model.NodeStatus, 10)
	subscribeC <- updateC

	for {
		select {
		case msg := <-updateC:
			// Skip to the most recent status if we are backed up
			for len(updateC) != 0 {
				msg = <-updateC
			}
			sfx.process(msg)
		case <-quitC:
			return
		}
	}
}
