package blitsheep

// This module implements the leaderless controller election. Every node looks
// at the membership it can currently see and the node with the lowest
// identifier considers itself the controller. No messages are exchanged, so the
// result is only as consistent as the mesh view each node holds

import (
	"fmt"
	"sort"

	"github.com/bklang/Blit-Sheep/model"
)

type Election struct {
	self       model.NodeID
	leader     model.NodeID
	nodes      []model.NodeID
	controller bool
	decided    bool
}

// NewElection starts as an undecided follower until the first Recompute
func NewElection(self model.NodeID) *Election {
	return &Election{
		self:   self,
		leader: self,
	}
}

// Recompute derives the controller flag from a membership snapshot. The
// snapshot may or may not include this node, an empty snapshot means the node
// is alone and takes control. It returns true when the role changed
func (e *Election) Recompute(snapshot []model.NodeID) (changed bool) {
	lowest := e.self
	for _, id := range snapshot {
		if id < lowest {
			lowest = id
		}
	}

	controller := lowest == e.self
	changed = !e.decided || controller != e.controller

	e.nodes = sortedNodes(snapshot)
	e.leader = lowest
	e.controller = controller
	e.decided = true

	if logger.IsDebug() {
		logger.Debug("mesh membership", "self", e.self, "nodes", fmt.Sprint(e.nodes))
	}
	if controller {
		logger.Info(fmt.Sprintf("Node %s: I am the controller now", e.self))
	} else {
		logger.Info(fmt.Sprintf("Node %s is the controller now", lowest))
	}
	return changed
}

func (e *Election) IsController() bool {
	return e.controller
}

// Leader is the lowest identifier in the last snapshot
func (e *Election) Leader() model.NodeID {
	return e.leader
}

func (e *Election) Self() model.NodeID {
	return e.self
}

// Nodes returns the last snapshot in ascending order
func (e *Election) Nodes() []model.NodeID {
	return append([]model.NodeID(nil), e.nodes...)
}

func (e *Election) Role() model.Role {
	if e.controller {
		return model.Controller
	}
	return model.Follower
}

func sortedNodes(snapshot []model.NodeID) (nodes []model.NodeID) {
	nodes = append([]model.NodeID{}, snapshot...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}
