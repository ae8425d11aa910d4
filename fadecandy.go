package blitsheep

// This file contains the fadecandy output. Frames are colour corrected and
// scaled to the brightness cap before being sent to an fcserver using the
// Open Pixel Control protocol, identical frames are only sent once

import (
	"bytes"
	"time"

	"github.com/cnf/structhash"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/kellydunn/go-opc"

	"github.com/bklang/Blit-Sheep/model"
)

// opcFrame is the unit of change detection for the OPC channel
type opcFrame struct {
	Channel uint8
	Pixels  []model.Pixel
}

type OPCOutput struct {
	server     string
	channel    uint8
	correction model.Pixel

	client    *opc.Client
	connected bool
	retryAt   time.Time
	last      []byte
}

func NewOPCOutput(server string, channel uint8, correction model.Pixel) (out *OPCOutput) {
	return &OPCOutput{
		server:     server,
		channel:    channel,
		correction: correction,
		client:     opc.NewClient(),
	}
}

// connect dials the fcserver, a failure holds off the next attempt for a second
func (out *OPCOutput) connect() (err errors.Error) {
	if errGo := out.client.Connect("tcp", out.server); errGo != nil {
		out.retryAt = time.Now().Add(time.Second)
		return errors.Wrap(errGo).With("url", out.server).With("stack", stack.Trace().TrimRuntime())
	}
	out.connected = true
	logger.Info("connected to the fadecandy server", "url", out.server)
	return nil
}

func (out *OPCOutput) Push(frame model.FrameBuffer, brightness uint8) (err errors.Error) {
	if !out.connected {
		// Frames are dropped quietly until the next dial is due, only the
		// dial itself is reported
		if time.Now().Before(out.retryAt) {
			return nil
		}
		if err = out.connect(); err != nil {
			return err
		}
	}

	pixels := scaleFrame(frame, out.correction, brightness)

	hash := structhash.Md5(opcFrame{Channel: out.channel, Pixels: pixels}, 1)
	if bytes.Equal(out.last, hash) {
		return nil
	}

	m := opc.NewMessage(out.channel)
	m.SetLength(uint16(len(pixels) * 3))
	for i, p := range pixels {
		m.SetPixelColor(i, p.R, p.G, p.B)
	}

	if errGo := out.client.Send(m); errGo != nil {
		out.connected = false
		out.last = nil
		return errors.Wrap(errGo).With("url", out.server).With("stack", stack.Trace().TrimRuntime())
	}
	out.last = hash
	return nil
}

// scaleFrame applies the strip colour correction and the brightness cap the
// way the hardware driver would, the frame itself is left untouched
func scaleFrame(frame model.FrameBuffer, correction model.Pixel, brightness uint8) (pixels []model.Pixel) {
	adj := model.Adjustment(correction, brightness)

	pixels = make([]model.Pixel, len(frame))
	for i, p := range frame {
		pixels[i] = p.Scale(adj)
	}
	return pixels
}
