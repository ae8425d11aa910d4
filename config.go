package blitsheep

// This file contains the node configuration. Defaults carry the reference
// tunables, binaries overlay flags, environment variables and an optional
// YAML file on top of them

import (
	"fmt"
	"os"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v2"

	"github.com/bklang/Blit-Sheep/animation"
	"github.com/bklang/Blit-Sheep/model"
)

// Topology source modes
const (
	Standalone = "standalone"
	Memberlist = "memberlist"
	Bridge     = "bridge"
)

type MeshConfig struct {
	Mode     string   `yaml:"mode"`      // standalone, memberlist or bridge
	Name     string   `yaml:"name"`      // mesh label, nodes only see peers with the same label
	NodeID   uint32   `yaml:"node_id"`   // zero picks a random identity at startup
	BindAddr string   `yaml:"bind_addr"` // memberlist gossip address
	BindPort int      `yaml:"bind_port"` // memberlist gossip port
	Seeds    []string `yaml:"seeds"`     // memberlist peers to join at startup

	BridgeURL  string        `yaml:"bridge_url"`  // endpoint returning the mesh node list as JSON
	BridgePoll time.Duration `yaml:"bridge_poll"` // how often the bridge is polled
}

type OPCConfig struct {
	Server  string `yaml:"server"`  // fcserver host:port
	Channel uint8  `yaml:"channel"` // OPC channel, 0 broadcasts to all
}

type Config struct {
	NumLEDs       int           `yaml:"num_leds"`
	FramePeriod   time.Duration `yaml:"frame_period"`
	Debounce      time.Duration `yaml:"debounce"`
	MaxBrightness uint8         `yaml:"max_brightness"`
	Correction    string        `yaml:"correction"` // hex colour correction for the strip
	Seed          uint64        `yaml:"seed"`       // zero seeds the generators from the clock

	Fire    animation.FireConfig    `yaml:"fire"`
	Glow    animation.GlowConfig    `yaml:"glow"` // glow.max of zero peaks at max_brightness
	Sparkle animation.SparkleConfig `yaml:"sparkle"`

	Mesh MeshConfig `yaml:"mesh"`
	OPC  OPCConfig  `yaml:"opc"`

	Cues bool `yaml:"cues"` // audible controller and animation cues
}

// DefaultConfig returns the reference configuration for a 60 LED strip
func DefaultConfig() *Config {
	return &Config{
		NumLEDs:       60,
		FramePeriod:   15 * time.Millisecond,
		Debounce:      750 * time.Millisecond,
		MaxBrightness: 150,
		Correction:    model.TypicalLEDStrip.String(),
		Fire: animation.FireConfig{
			Cooling:  55,
			Sparking: 100,
		},
		Glow: animation.GlowConfig{
			Hue:   0,
			Speed: 2,
			Min:   50,
		},
		Sparkle: animation.SparkleConfig{
			NewRate:  450,
			Fade:     15,
			MinWidth: 1,
			MaxWidth: 4,
		},
		Mesh: MeshConfig{
			Mode:       Standalone,
			Name:       "Blit Sheep",
			BindAddr:   "0.0.0.0",
			BindPort:   5555,
			BridgePoll: time.Second,
		},
		OPC: OPCConfig{
			Server: "localhost:7890",
		},
	}
}

// LoadConfig overlays a YAML file onto the defaults. Unknown keys are rejected
func LoadConfig(fn string) (cfg *Config, err errors.Error) {
	cfg = DefaultConfig()

	byt, errGo := os.ReadFile(fn)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	if errGo = yaml.UnmarshalStrict(byt, cfg); errGo != nil {
		return nil, errors.Wrap(errGo).With("file", fn).With("stack", stack.Trace().TrimRuntime())
	}
	if err = cfg.Validate(); err != nil {
		return nil, err.With("file", fn)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with
func (cfg *Config) Validate() (err errors.Error) {
	invalid := func(field string, value interface{}, why string) errors.Error {
		return errors.New(fmt.Sprintf("invalid %s, %s", field, why)).With("value", value).With("stack", stack.Trace().TrimRuntime())
	}

	switch {
	case cfg.NumLEDs < 1:
		return invalid("num_leds", cfg.NumLEDs, "the strip needs at least one LED")
	case cfg.FramePeriod <= 0:
		return invalid("frame_period", cfg.FramePeriod, "must be positive")
	case cfg.Debounce < 0:
		return invalid("debounce", cfg.Debounce, "must not be negative")
	case cfg.Fire.Cooling < 0:
		return invalid("fire.cooling", cfg.Fire.Cooling, "must not be negative")
	}

	glow := cfg.GlowConfig()
	switch {
	case glow.Speed <= 0:
		return invalid("glow.speed", glow.Speed, "must be positive")
	case glow.Min < 0:
		return invalid("glow.min", glow.Min, "must not be negative")
	case glow.Max > 0xFF:
		return invalid("glow.max", glow.Max, "must fit in 8 bits")
	case glow.Max <= glow.Min:
		return invalid("glow.max", glow.Max, "must be above glow.min, a zero glow.max follows max_brightness")
	case cfg.Sparkle.NewRate < 0 || cfg.Sparkle.NewRate > 1000:
		return invalid("sparkle.new_rate", cfg.Sparkle.NewRate, "must be within 0-1000")
	case cfg.Sparkle.MinWidth < 1:
		return invalid("sparkle.min_width", cfg.Sparkle.MinWidth, "must be at least 1")
	case cfg.Sparkle.MaxWidth <= cfg.Sparkle.MinWidth:
		return invalid("sparkle.max_width", cfg.Sparkle.MaxWidth, "must be above sparkle.min_width")
	}

	if _, err = cfg.CorrectionPixel(); err != nil {
		return err
	}

	switch cfg.Mesh.Mode {
	case Standalone:
	case Memberlist:
		if cfg.Mesh.BindPort < 0 || cfg.Mesh.BindPort > 0xFFFF {
			return invalid("mesh.bind_port", cfg.Mesh.BindPort, "must be a valid port")
		}
	case Bridge:
		if len(cfg.Mesh.BridgeURL) == 0 {
			return invalid("mesh.bridge_url", cfg.Mesh.BridgeURL, "is required in bridge mode")
		}
		if cfg.Mesh.BridgePoll <= 0 {
			return invalid("mesh.bridge_poll", cfg.Mesh.BridgePoll, "must be positive")
		}
	default:
		return invalid("mesh.mode", cfg.Mesh.Mode, "expected standalone, memberlist or bridge")
	}
	return nil
}

// GlowConfig is the glow tunables with an unset peak following the
// brightness cap
func (cfg *Config) GlowConfig() (glow animation.GlowConfig) {
	glow = cfg.Glow
	if glow.Max == 0 {
		glow.Max = int(cfg.MaxBrightness)
	}
	return glow
}

// CorrectionPixel parses the hex colour correction
func (cfg *Config) CorrectionPixel() (correction model.Pixel, err errors.Error) {
	c, errGo := colorful.Hex(cfg.Correction)
	if errGo != nil {
		return correction, errors.Wrap(errGo).With("correction", cfg.Correction).With("stack", stack.Trace().TrimRuntime())
	}
	correction.R, correction.G, correction.B = c.RGB255()
	return correction, nil
}
