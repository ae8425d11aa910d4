package blitsheep

// This module is responsible for driving the audio output of a node. Cues are
// short sequences of sine tones synthesized on the fly, nodes at an event are
// usually out of reach of a screen so the cues tell the operator when a node
// takes over as the controller or switches animation

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-stack/stack"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/karlmutch/errors"
)

const (
	sampleRate = beep.SampleRate(44100)

	// cueVolume is the linear gain applied to every cue
	cueVolume = 0.25
)

// Tone is a single note of a cue
type Tone struct {
	Freq     float64
	Duration time.Duration
}

// InitAudio opens the speaker and starts playing cues sent on cueC
func InitAudio(cueC <-chan []Tone, errorC chan<- errors.Error, quitC <-chan struct{}) (err errors.Error) {

	if errGo := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); errGo != nil {
		return errors.Wrap(errGo).With("rate", int(sampleRate)).With("stack", stack.Trace().TrimRuntime())
	}

	go runAudio(cueC, errorC, quitC)

	return nil
}

// synthesize renders a cue into a single streamer, a zero frequency is a rest
func synthesize(sr beep.SampleRate, tones []Tone) (streamer beep.Streamer, err errors.Error) {
	notes := make([]beep.Streamer, 0, len(tones))
	for _, tone := range tones {
		if tone.Freq <= 0 {
			notes = append(notes, beep.Silence(sr.N(tone.Duration)))
			continue
		}
		sine, errGo := generators.SineTone(sr, tone.Freq)
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("freq", tone.Freq).With("stack", stack.Trace().TrimRuntime())
		}
		notes = append(notes, beep.Take(sr.N(tone.Duration), sine))
	}

	return &effects.Volume{
		Streamer: beep.Seq(notes...),
		Base:     2,
		Volume:   math.Log2(cueVolume),
	}, nil
}

func runAudio(cueC <-chan []Tone, errorC chan<- errors.Error, quitC <-chan struct{}) {
	defer speaker.Clear()

	for {
		select {
		case tones := <-cueC:
			if len(tones) == 0 {
				continue
			}
			streamer, err := synthesize(sampleRate, tones)
			if err != nil {
				if errorC != nil {
					reportError(err, errorC)
				} else {
					fmt.Fprintln(os.Stderr, err.Error())
				}
				continue
			}
			speaker.Play(streamer)
		case <-quitC:
			return
		}
	}
}
