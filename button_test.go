package blitsheep

import (
	"strings"
	"testing"
)

func TestLineButton(t *testing.T) {
	button := &LineButton{}
	if button.Pressed() {
		t.Fatal("expected no press before any input")
	}

	// Presses latch, several lines before a read count once
	button.Watch(strings.NewReader("\n\nnext\n"))
	if !button.Pressed() {
		t.Error("expected a press from stdin")
	}
	if button.Pressed() {
		t.Error("expected the press to clear once read")
	}
}
