package blitsheep

import (
	"fmt"
	"time"

	"github.com/bklang/Blit-Sheep/model"
)

// startFanOut implement a broadcast mechanisim for accepting node status messages
// and relaying them to subscribers.  The function returns a single channel
// to which status messages get sent and, a channel that can be used to add
// listeners. Subscribers that close their channel are dropped on the next message
//
func startFanOut(quitC <-chan struct{}) (inC chan *model.NodeStatus, subC chan chan *model.NodeStatus) {

	inC = make(chan *model.NodeStatus, 1)
	subC = make(chan chan *model.NodeStatus, 1)

	go func(quitC <-chan struct{}) {
		defer logger.Debug("fanout stopped")

		subs := []chan *model.NodeStatus{}
		for {
			select {
			case <-quitC:
				return
			case sub := <-subC:
				if nil != sub {
					subs = append(subs, sub)
					logger.Debug("subscription added", "subscribers", len(subs))
				}
			case msg := <-inC:
				// Subscribers are groomed out on unrecoverable failures using
				// https://github.com/golang/go/wiki/SliceTricks#filtering-without-allocating
				if logger.IsTrace() {
					logger.Trace(fmt.Sprintf("node status %s (%d)", msg.Role(), len(subs)))
				}
				live := subs[:0]
				for _, ch := range subs {
					if deliver(ch, msg.DeepCopy()) {
						live = append(live, ch)
					}
				}
				subs = live
			}
		}
	}(quitC)

	return inC, subC
}

// deliver returns false once the subscriber has gone away
func deliver(ch chan *model.NodeStatus, msg *model.NodeStatus) (alive bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("subscription dropped failed to send")
			alive = false
		}
	}()

	select {
	case ch <- msg:
	case <-time.After(250 * time.Millisecond):
		logger.Debug("subscription failed to send")
	}
	return true
}
