package blitsheep

// This module wires a node together. The animation catalog, the topology
// source and the engine are created from the configuration and the status
// broadcast is started so that indicators can subscribe to it

import (
	"github.com/karlmutch/errors"

	"github.com/bklang/Blit-Sheep/animation"
	"github.com/bklang/Blit-Sheep/model"
)

type Gateway struct {
	Engine *Engine
}

// Start runs the node until quitC is closed. The returned channel accepts
// subscriptions to node status changes
func (gw *Gateway) Start(cfg *Config, output Output, button Button, errorC chan<- errors.Error, quitC <-chan struct{}) (subscribeC chan chan *model.NodeStatus, err errors.Error) {

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	source, err := OpenSource(cfg.Mesh, errorC, quitC)
	if err != nil {
		return nil, err
	}

	registry := animation.Catalog(cfg.Fire, cfg.GlowConfig(), cfg.Sparkle, animation.NewSource(cfg.Seed))
	scheduler := NewScheduler(registry, cfg.NumLEDs, output, button, cfg.MaxBrightness, cfg.Debounce, errorC)

	statusC, subscribeC := startFanOut(quitC)

	// After creating the broadcast channel we add a listener
	// for the sounds effects so that it can process detected
	// state changes etc
	//
	if cfg.Cues {
		go StartSFX(subscribeC, errorC, quitC)
	}

	gw.Engine = NewEngine(scheduler, source, cfg.FramePeriod, statusC, errorC)
	go gw.Engine.Run(quitC)

	return subscribeC, nil
}
