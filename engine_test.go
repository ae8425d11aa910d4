package blitsheep

import (
	"sync"
	"testing"
	"time"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/bklang/Blit-Sheep/model"
)

type fakeSource struct {
	self     model.NodeID
	nodes    []model.NodeID
	changedC chan struct{}
	sync.Mutex
}

func newFakeSource(self model.NodeID, nodes ...model.NodeID) *fakeSource {
	return &fakeSource{self: self, nodes: nodes, changedC: make(chan struct{}, 1)}
}

func (src *fakeSource) SelfID() model.NodeID {
	return src.self
}

func (src *fakeSource) Snapshot() []model.NodeID {
	src.Lock()
	defer src.Unlock()
	return append([]model.NodeID(nil), src.nodes...)
}

func (src *fakeSource) Changed() <-chan struct{} {
	return src.changedC
}

func (src *fakeSource) set(nodes ...model.NodeID) {
	src.Lock()
	src.nodes = nodes
	src.Unlock()
	src.changedC <- struct{}{}
}

func waitStatus(t *testing.T, statusC <-chan *model.NodeStatus) (status *model.NodeStatus) {
	t.Helper()
	select {
	case status = <-statusC:
		return status
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a node status")
	}
	return nil
}

func TestEngineBootstrapElection(t *testing.T) {
	statusC := make(chan *model.NodeStatus, 4)
	sched, _ := newTestScheduler(&recordingOutput{}, nil, nil)
	engine := NewEngine(sched, newFakeSource(7, 7, 9), 10*time.Millisecond, statusC, nil)

	quitC := make(chan struct{})
	defer close(quitC)
	go engine.Run(quitC)

	status := waitStatus(t, statusC)
	if !status.Controller || status.Self != 7 || status.Leader != 7 {
		t.Errorf("expected node 7 to start as the controller, got %+v", status)
	}
	if status.Animation != "red" {
		t.Errorf("expected the first animation, got %s", status.Animation)
	}
}

func TestEngineFollowsTopology(t *testing.T) {
	statusC := make(chan *model.NodeStatus, 4)
	source := newFakeSource(7)
	sched, _ := newTestScheduler(&recordingOutput{}, nil, nil)
	engine := NewEngine(sched, source, 10*time.Millisecond, statusC, nil)

	quitC := make(chan struct{})
	defer close(quitC)
	go engine.Run(quitC)

	if status := waitStatus(t, statusC); !status.Controller {
		t.Fatalf("expected a lone node to be the controller, got %+v", status)
	}

	source.set(3, 7)
	status := waitStatus(t, statusC)
	if status.Controller || status.Leader != 3 || status.Role() != model.Follower {
		t.Errorf("expected node 3 to take over, got %+v", status)
	}

	source.set(7)
	if status = waitStatus(t, statusC); !status.Controller {
		t.Errorf("expected node 7 to regain control, got %+v", status)
	}
}

func TestEnginePublishesAnimationChanges(t *testing.T) {
	statusC := make(chan *model.NodeStatus, 4)
	sched, _ := newTestScheduler(&recordingOutput{}, &scriptedButton{presses: []bool{true}}, nil)
	sched.clock = func() time.Duration { return time.Second }
	engine := NewEngine(sched, newFakeSource(1), time.Hour, statusC, nil)

	engine.TopologyChanged()
	waitStatus(t, statusC)

	engine.Tick()
	if status := waitStatus(t, statusC); status.Animation != "green" {
		t.Errorf("expected green after the press, got %s", status.Animation)
	}

	engine.Tick()
	select {
	case status := <-statusC:
		t.Errorf("expected no status without a change, got %+v", status)
	default:
	}
}

func TestEngineRunStops(t *testing.T) {
	sched, _ := newTestScheduler(&recordingOutput{}, nil, nil)
	engine := NewEngine(sched, Alone(1), time.Millisecond, nil, nil)

	quitC := make(chan struct{})
	doneC := make(chan struct{})
	go func() {
		engine.Run(quitC)
		close(doneC)
	}()

	close(quitC)
	select {
	case <-doneC:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the engine to stop")
	}
}

func TestSetLogLevel(t *testing.T) {
	defer SetLogLevel(logxi.LevelWarn)

	SetLogLevel(logxi.LevelDebug)
	if !logger.IsDebug() || !logger.IsInfo() {
		t.Error("expected election and animation messages to be logged at debug")
	}

	SetLogLevel(logxi.LevelError)
	if logger.IsInfo() {
		t.Error("expected info messages to be suppressed at error")
	}
}
