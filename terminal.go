package blitsheep

// This file contains a terminal rendition of the LED strip. It stands in for
// the hardware during development, the strip is drawn as a row of coloured
// blocks, the space bar acts as the button and q or escape quits

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/bklang/Blit-Sheep/model"
)

const ledGlyph = '█'

type TerminalStrip struct {
	screen     tcell.Screen
	correction model.Pixel

	pressed atomic.Bool
	status  *model.NodeStatus
	sync.Mutex

	quitC    chan struct{}
	quitOnce sync.Once
}

// NewTerminalStrip takes ownership of the screen and initializes it
func NewTerminalStrip(screen tcell.Screen, correction model.Pixel) (strip *TerminalStrip, err errors.Error) {
	if errGo := screen.Init(); errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	screen.Clear()

	return &TerminalStrip{
		screen:     screen,
		correction: correction,
		quitC:      make(chan struct{}),
	}, nil
}

// Push draws the frame as it would appear on the strip, wrapping long strips
// across several rows. The status line sits beneath the strip
func (strip *TerminalStrip) Push(frame model.FrameBuffer, brightness uint8) (err errors.Error) {
	width, height := strip.screen.Size()
	if width < 1 {
		return nil
	}

	pixels := scaleFrame(frame, strip.correction, brightness)
	for i, p := range pixels {
		style := tcell.StyleDefault.
			Foreground(tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B))).
			Background(tcell.ColorBlack)
		strip.screen.SetContent(i%width, i/width, ledGlyph, nil, style)
	}

	rows := (len(pixels) + width - 1) / width
	if rows+1 < height {
		strip.drawText(0, rows+1, width, strip.statusLine())
	}
	strip.screen.Show()
	return nil
}

func (strip *TerminalStrip) statusLine() string {
	strip.Lock()
	status := strip.status
	strip.Unlock()

	if status == nil {
		return "waiting for the mesh"
	}
	return fmt.Sprintf("node %s  %s  leader %s  nodes %d  %s",
		status.Self, status.Role(), status.Leader, len(status.Nodes), status.Animation)
}

func (strip *TerminalStrip) drawText(x int, y int, width int, text string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	col := x
	for _, r := range text {
		if col >= width {
			break
		}
		strip.screen.SetContent(col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		strip.screen.SetContent(col, y, ' ', nil, style)
	}
}

// Pressed reports and clears a latched space bar press
func (strip *TerminalStrip) Pressed() bool {
	return strip.pressed.Swap(false)
}

// Quit is closed once the user asks to leave
func (strip *TerminalStrip) Quit() <-chan struct{} {
	return strip.quitC
}

func (strip *TerminalStrip) quit() {
	strip.quitOnce.Do(func() { close(strip.quitC) })
}

// handle processes a single terminal event, it returns false once the event
// stream has ended
func (strip *TerminalStrip) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return false
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			strip.quit()
		case tcell.KeyEnter:
			strip.pressed.Store(true)
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				strip.pressed.Store(true)
			case 'q', 'Q':
				strip.quit()
			}
		}
	case *tcell.EventResize:
		strip.screen.Clear()
		strip.screen.Sync()
	}
	return true
}

// PollKeys reads terminal input until the screen is closed
func (strip *TerminalStrip) PollKeys() {
	for strip.handle(strip.screen.PollEvent()) {
	}
}

// Watch keeps the status line current from the node status broadcast
func (strip *TerminalStrip) Watch(subscribeC chan chan *model.NodeStatus, quitC <-chan struct{}) {
	statusC := make(chan *model.NodeStatus, 1)
	subscribeC <- statusC

	for {
		select {
		case status := <-statusC:
			strip.Lock()
			strip.status = status
			strip.Unlock()
		case <-quitC:
			return
		}
	}
}

// Close restores the terminal
func (strip *TerminalStrip) Close() {
	strip.screen.Fini()
}
