package animation

import (
	"testing"

	"github.com/bklang/Blit-Sheep/model"
)

var referenceSparkle = SparkleConfig{NewRate: 450, Fade: 15, MinWidth: 1, MaxWidth: 4}

func TestSparkleFadeIsMonotonic(t *testing.T) {
	cfg := referenceSparkle
	cfg.NewRate = 0

	sparkle := NewSparkle(cfg, &xorshift32{state: 99})
	buf := model.FrameBuffer{
		{255, 255, 255}, {1, 2, 3}, {0, 0, 0}, {128, 64, 32}, {17, 200, 90},
	}

	for step := 0; step < 40; step++ {
		prior := buf.Copy()
		sparkle.Step(buf)
		for i := range buf {
			if buf[i].R > prior[i].R || buf[i].G > prior[i].G || buf[i].B > prior[i].B {
				t.Fatalf("step %d pixel %d brightened from %v to %v", step, i, prior[i], buf[i])
			}
		}
	}
	if buf[0] == model.White {
		t.Error("expected white to have decayed")
	}
}

func TestSparkleFadeAmount(t *testing.T) {
	cfg := referenceSparkle
	cfg.NewRate = 0

	buf := model.FrameBuffer{model.White}
	NewSparkle(cfg, fixedSource(0)).Step(buf)
	if buf[0] != (model.Pixel{240, 240, 240}) {
		t.Errorf("expected white to fade to 240, got %v", buf[0])
	}
}

func TestSparkleFadeReachesBlack(t *testing.T) {
	cfg := referenceSparkle
	cfg.NewRate = 0

	buf := model.FrameBuffer{{1, 1, 1}}
	NewSparkle(cfg, fixedSource(0)).Step(buf)
	if buf[0] != model.Black {
		t.Errorf("expected a dim pixel to fade out completely, got %v", buf[0])
	}
}

func TestSparklePlacement(t *testing.T) {
	cases := []struct {
		name     string
		pos      int
		width    int
		expected model.FrameBuffer
	}{
		{
			name:  "centre",
			pos:   5,
			width: 3,
			expected: model.FrameBuffer{
				{}, {}, {}, {85, 85, 85}, {170, 170, 170},
				{255, 255, 255}, {170, 170, 170}, {85, 85, 85}, {}, {},
			},
		},
		{
			name:  "clipped at the start",
			pos:   0,
			width: 3,
			expected: model.FrameBuffer{
				{255, 255, 255}, {170, 170, 170}, {85, 85, 85}, {}, {},
				{}, {}, {}, {}, {},
			},
		},
		{
			name:  "clipped at the end",
			pos:   9,
			width: 2,
			expected: model.FrameBuffer{
				{}, {}, {}, {}, {},
				{}, {}, {}, {128, 128, 128}, {255, 255, 255},
			},
		},
		{
			name:  "single pixel",
			pos:   2,
			width: 1,
			expected: model.FrameBuffer{
				{}, {}, {255, 255, 255}, {}, {},
				{}, {}, {}, {}, {},
			},
		},
	}

	for _, tc := range cases {
		src := &scriptedSource{values: []uint32{
			0,                       // new sparkle roll
			fraction(tc.pos, 10),    // position
			fraction(tc.width-1, 3), // width offset within [1,4)
		}}
		buf := model.NewFrameBuffer(10)
		NewSparkle(referenceSparkle, src).Step(buf)

		for i := range tc.expected {
			if buf[i] != tc.expected[i] {
				t.Errorf("%s: pixel %d expected %v, got %v", tc.name, i, tc.expected[i], buf[i])
			}
		}
	}
}

func TestSparkleRate(t *testing.T) {
	sparkle := NewSparkle(referenceSparkle, NewSource(42))
	buf := model.NewFrameBuffer(30)

	placed := 0
	for i := 0; i < 10000; i++ {
		buf.Fill(model.Black)
		sparkle.Step(buf)
		for _, p := range buf {
			if p == model.White {
				placed++
				break
			}
		}
	}
	if placed < 4200 || placed > 4800 {
		t.Errorf("expected roughly 4500 sparkles in 10000 frames, got %d", placed)
	}
}
