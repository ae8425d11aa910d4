package blitsheep

import (
	"testing"
	"time"

	"github.com/bklang/Blit-Sheep/model"
)

func TestFanOutBroadcasts(t *testing.T) {
	quitC := make(chan struct{})
	defer close(quitC)

	inC, subC := startFanOut(quitC)

	first := make(chan *model.NodeStatus, 1)
	second := make(chan *model.NodeStatus, 1)
	subC <- first
	subC <- second

	// Give the fan out a chance to register both subscribers
	time.Sleep(50 * time.Millisecond)

	sent := &model.NodeStatus{Self: 4, Nodes: []model.NodeID{4, 8}, Controller: true, Leader: 4, Animation: "Fire"}
	inC <- sent

	for i, ch := range []chan *model.NodeStatus{first, second} {
		msg := waitStatus(t, ch)
		if msg == sent {
			t.Errorf("subscriber %d expected its own copy of the status", i)
		}
		if msg.Self != 4 || !msg.Controller || msg.Animation != "Fire" || len(msg.Nodes) != 2 {
			t.Errorf("subscriber %d got %+v", i, msg)
		}
	}
}

func TestFanOutDropsClosedSubscribers(t *testing.T) {
	quitC := make(chan struct{})
	defer close(quitC)

	inC, subC := startFanOut(quitC)

	gone := make(chan *model.NodeStatus, 1)
	live := make(chan *model.NodeStatus, 1)
	subC <- gone
	subC <- live
	time.Sleep(50 * time.Millisecond)
	close(gone)

	for i := 0; i < 3; i++ {
		inC <- &model.NodeStatus{Self: model.NodeID(i)}
		if msg := waitStatus(t, live); msg.Self != model.NodeID(i) {
			t.Errorf("expected status %d, got %d", i, msg.Self)
		}
	}
}
