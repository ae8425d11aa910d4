package animation

import (
	"testing"

	"github.com/bklang/Blit-Sheep/model"
)

type countingGenerator struct {
	steps int
}

func (g *countingGenerator) Step(buf model.FrameBuffer) {
	g.steps++
}

func newTestRegistry(n int) *Registry {
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, Entry{Name: string(rune('a' + i)), Generator: &countingGenerator{}})
	}
	return NewRegistry(entries...)
}

func TestRegistryAdvanceWraps(t *testing.T) {
	for length := 1; length <= 5; length++ {
		reg := newTestRegistry(length)
		start := reg.Index()

		for i := 0; i < length; i++ {
			reg.Advance()
		}
		if reg.Index() != start {
			t.Errorf("length %d: expected to return to %d after %d advances, got %d", length, start, length, reg.Index())
		}

		for k := 0; k < 3*length+2; k++ {
			reg := newTestRegistry(length)
			for i := 0; i < k; i++ {
				reg.Advance()
			}
			if reg.Index() != k%length {
				t.Errorf("length %d: expected index %d after %d advances, got %d", length, k%length, k, reg.Index())
			}
		}
	}
}

func TestRegistryAdvanceReturnsNewCurrent(t *testing.T) {
	reg := newTestRegistry(3)

	entry := reg.Advance()
	if entry.Name != "b" || reg.Current().Name != "b" {
		t.Errorf("expected b to be current, got %s and %s", entry.Name, reg.Current().Name)
	}
}

func TestRegistryEmptyPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected an empty registry to panic")
		}
	}()
	NewRegistry()
}

func TestRegistryNilGeneratorPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected a nil generator to panic")
		}
	}()
	NewRegistry(Entry{Name: "broken"})
}

func TestRegistryIsDetachedFromInput(t *testing.T) {
	entries := []Entry{
		{Name: "one", Generator: &countingGenerator{}},
		{Name: "two", Generator: &countingGenerator{}},
	}
	reg := NewRegistry(entries...)
	entries[0].Name = "changed"

	if reg.Current().Name != "one" {
		t.Errorf("expected the catalog to be immutable, got %s", reg.Current().Name)
	}
}

func TestCatalogOrder(t *testing.T) {
	reg := Catalog(referenceFire, GlowConfig{Speed: 2, Min: 50, Max: 150}, referenceSparkle, NewSource(1))

	expected := []string{"Fire", "Red Glow", "Sparkle"}
	names := reg.Names()
	if len(names) != len(expected) {
		t.Fatalf("expected %d animations, got %d", len(expected), len(names))
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("position %d expected %s, got %s", i, expected[i], names[i])
		}
	}
}
