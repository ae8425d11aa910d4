package animation

import (
	"fmt"
)

// Registry is the fixed, ordered catalog of animations the button cycles
// through. The catalog cannot change after construction
type Registry struct {
	entries []Entry
	current int
}

// NewRegistry panics when given no entries, an empty catalog is a programming
// error
func NewRegistry(entries ...Entry) *Registry {
	if len(entries) == 0 {
		panic("animation registry requires at least one entry")
	}
	for i, entry := range entries {
		if entry.Generator == nil {
			panic(fmt.Sprintf("animation registry entry %d (%s) has no generator", i, entry.Name))
		}
	}
	return &Registry{
		entries: append([]Entry(nil), entries...),
	}
}

// Advance moves to the next animation, wrapping back to the first
func (reg *Registry) Advance() Entry {
	reg.current = (reg.current + 1) % len(reg.entries)
	return reg.entries[reg.current]
}

// Current returns the active animation
func (reg *Registry) Current() Entry {
	return reg.entries[reg.current]
}

func (reg *Registry) Index() int {
	return reg.current
}

func (reg *Registry) Len() int {
	return len(reg.entries)
}

// Names lists the catalog in button order
func (reg *Registry) Names() (names []string) {
	names = make([]string, 0, len(reg.entries))
	for _, entry := range reg.entries {
		names = append(names, entry.Name)
	}
	return names
}
