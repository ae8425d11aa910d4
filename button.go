package blitsheep

import (
	"bufio"
	"io"
	"sync/atomic"
)

// LineButton is a momentary push button driven by lines of text, every line
// read counts as a single press. It lets a headless node be driven from a
// pipe or the console
type LineButton struct {
	pressed atomic.Bool
}

// Watch reads presses until the reader is exhausted
func (button *LineButton) Watch(rdr io.Reader) {
	scanner := bufio.NewScanner(rdr)
	for scanner.Scan() {
		button.Press()
	}
}

func (button *LineButton) Press() {
	button.pressed.Store(true)
}

// Pressed reports and clears a latched press
func (button *LineButton) Pressed() bool {
	return button.pressed.Swap(false)
}
