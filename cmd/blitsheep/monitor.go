package main

import (
	"fmt"

	"github.com/bklang/Blit-Sheep/model"
)

// This file implements a monitor that subscribe to and displays
// the node status using event subscription

func runMonitoring(subscribeC chan chan *model.NodeStatus, msgC chan<- string, quitC <-chan struct{}) {

	statusC := make(chan *model.NodeStatus, 1)
	subscribeC <- statusC

	for {
		select {
		case msg := <-statusC:
			logger.Debug(fmt.Sprintf("%+v", msg))
			select {
			case msgC <- fmt.Sprintf("node %s is a %s running %s, leader %s of %d nodes\n",
				msg.Self, msg.Role(), msg.Animation, msg.Leader, len(msg.Nodes)):
			default:
			}
		case <-quitC:
			return
		}
	}
}
