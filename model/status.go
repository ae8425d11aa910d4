package model

// This module defines the implementation neutral mesh state information
// data structures that are fanned out to status indicators

import (
	"encoding/json"
	"strconv"
)

// NodeID identifies a node on the mesh, the lowest visible value is the controller
type NodeID uint32

func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Role is the election outcome for a node
type Role string

const (
	Follower   Role = "follower"
	Controller Role = "controller"
)

// NodeStatus is published whenever the election result or the running
// animation changes
type NodeStatus struct {
	Self       NodeID   `json:"self"`
	Nodes      []NodeID `json:"nodes"`
	Controller bool     `json:"controller"`
	Leader     NodeID   `json:"leader"`
	Animation  string   `json:"animation"`
}

// Role maps the controller flag onto a role name
func (status *NodeStatus) Role() Role {
	if status.Controller {
		return Controller
	}
	return Follower
}

// DeepCopy deepcopies a to b using json marshaling
func (status *NodeStatus) DeepCopy() (cpy *NodeStatus) {
	cpy = &NodeStatus{}

	byt, _ := json.Marshal(status)
	json.Unmarshal(byt, cpy)
	return cpy
}

// Topology is the membership view reported by a mesh bridge
type Topology struct {
	NodeID NodeID   `json:"nodeId"`
	Nodes  []NodeID `json:"nodes"`
}
