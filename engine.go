package blitsheep

// This file contains the engine that drives a node. It owns the frame
// scheduler and the controller election and runs both from a single loop so
// animation state is never touched concurrently. Status changes are published
// for the indicators, the sound effects and the terminal preview

import (
	"fmt"
	"os"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	logxi "github.com/mgutz/logxi/v1"

	"github.com/bklang/Blit-Sheep/model"
)

var (
	logger = logxi.New("blitsheep")
)

// SetLogLevel changes the level of the node logging, binaries use it to
// surface the election and animation messages
func SetLogLevel(level int) {
	logger.SetLevel(level)
}

type Engine struct {
	scheduler *Scheduler
	election  *Election
	source    Source
	period    time.Duration

	statusC chan<- *model.NodeStatus
	errorC  chan<- errors.Error
}

func NewEngine(scheduler *Scheduler, source Source, period time.Duration,
	statusC chan<- *model.NodeStatus, errorC chan<- errors.Error) (engine *Engine) {

	return &Engine{
		scheduler: scheduler,
		election:  NewElection(source.SelfID()),
		source:    source,
		period:    period,
		statusC:   statusC,
		errorC:    errorC,
	}
}

// Status describes the current role and animation of this node
func (engine *Engine) Status() (status *model.NodeStatus) {
	return &model.NodeStatus{
		Self:       engine.election.Self(),
		Nodes:      engine.election.Nodes(),
		Controller: engine.election.IsController(),
		Leader:     engine.election.Leader(),
		Animation:  engine.scheduler.Animation(),
	}
}

// TopologyChanged reruns the election over a fresh snapshot
func (engine *Engine) TopologyChanged() {
	engine.election.Recompute(engine.source.Snapshot())
	engine.publish()
}

// Tick renders and pushes one frame
func (engine *Engine) Tick() {
	if engine.scheduler.Tick() {
		engine.publish()
	}
}

func (engine *Engine) publish() {
	if engine.statusC == nil {
		return
	}
	select {
	case engine.statusC <- engine.Status():
	case <-time.After(20 * time.Millisecond):
		reportError(errors.New("node status dropped").With("stack", stack.Trace().TrimRuntime()), engine.errorC)
	}
}

// Run elects a controller from the view available at startup and then
// alternates between frames and membership changes until quitC is closed
func (engine *Engine) Run(quitC <-chan struct{}) {

	engine.TopologyChanged()

	frames := time.NewTicker(engine.period)
	defer frames.Stop()

	for {
		select {
		case <-frames.C:
			engine.Tick()
		case <-engine.source.Changed():
			engine.TopologyChanged()
		case <-quitC:
			return
		}
	}
}

// reportError hands an error to the watcher without holding up the frame loop
func reportError(err errors.Error, errorC chan<- errors.Error) {
	select {
	case errorC <- err:
	default:
		fmt.Fprintln(os.Stderr, err.Error())
	}
}
