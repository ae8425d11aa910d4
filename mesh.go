package blitsheep

// This module contains the topology sources that feed the controller election.
// A source knows the identity of the local node, can produce a snapshot of the
// nodes currently visible on the mesh and signals whenever that view changes

import (
	"encoding/binary"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-stack/stack"
	"github.com/google/uuid"
	"github.com/hashicorp/memberlist"
	"github.com/karlmutch/errors"

	"github.com/bklang/Blit-Sheep/model"
)

type Source interface {
	SelfID() model.NodeID
	Snapshot() []model.NodeID
	// Changed fires after the membership has changed, a nil channel never fires
	Changed() <-chan struct{}
}

// OpenSource builds the topology source selected by the mesh configuration.
// Sources that hold network resources release them when quitC is closed
func OpenSource(cfg MeshConfig, errorC chan<- errors.Error, quitC <-chan struct{}) (source Source, err errors.Error) {
	self := model.NodeID(cfg.NodeID)
	if self == 0 {
		self = model.NodeID(uuid.New().ID())
	}

	switch cfg.Mode {
	case Standalone, "":
		logger.Info(fmt.Sprintf("Node %s running standalone", self))
		return Alone(self), nil

	case Memberlist:
		mesh, err := NewMeshSource(cfg, self)
		if err != nil {
			return nil, err
		}
		go func() {
			<-quitC
			mesh.Close()
		}()
		return mesh, nil

	case Bridge:
		u, errGo := url.Parse(cfg.BridgeURL)
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("url", cfg.BridgeURL).With("stack", stack.Trace().TrimRuntime())
		}
		bridge := NewBridgeSource(*u, self, cfg.BridgePoll, errorC)
		go bridge.Run(quitC)
		return bridge, nil
	}
	return nil, errors.New("unknown mesh mode").With("mode", cfg.Mode).With("stack", stack.Trace().TrimRuntime())
}

// Alone is the topology of a node without a mesh, it never sees any peers
type Alone model.NodeID

func (alone Alone) SelfID() model.NodeID {
	return model.NodeID(alone)
}

func (alone Alone) Snapshot() []model.NodeID {
	return nil
}

func (alone Alone) Changed() <-chan struct{} {
	return nil
}

// MeshSource discovers peers using memberlist gossip. Each member advertises
// its node identifier in the member metadata
type MeshSource struct {
	self     model.NodeID
	list     *memberlist.Memberlist
	changedC chan struct{}
}

// meshDelegate only carries the local node metadata, no user state is gossiped
type meshDelegate struct {
	meta []byte
}

func (d *meshDelegate) NodeMeta(limit int) []byte {
	return d.meta
}

func (d *meshDelegate) NotifyMsg([]byte) {}

func (d *meshDelegate) GetBroadcasts(overhead, limit int) [][]byte {
	return nil
}

func (d *meshDelegate) LocalState(join bool) []byte {
	return nil
}

func (d *meshDelegate) MergeRemoteState(buf []byte, join bool) {}

// meshEvents relays membership changes to the election
type meshEvents struct {
	mesh *MeshSource
}

func (ev *meshEvents) NotifyJoin(node *memberlist.Node) {
	id, _ := decodeNodeID(node.Meta)
	logger.Info(fmt.Sprintf("Node %s joined the mesh", id), "addr", node.Address())
	ev.mesh.signal()
}

func (ev *meshEvents) NotifyLeave(node *memberlist.Node) {
	id, _ := decodeNodeID(node.Meta)
	logger.Info(fmt.Sprintf("Node %s left the mesh", id), "addr", node.Address())
	ev.mesh.signal()
}

func (ev *meshEvents) NotifyUpdate(node *memberlist.Node) {
	ev.mesh.signal()
}

func encodeNodeID(id model.NodeID) (meta []byte) {
	meta = make([]byte, 4)
	binary.BigEndian.PutUint32(meta, uint32(id))
	return meta
}

func decodeNodeID(meta []byte) (id model.NodeID, isPresent bool) {
	if len(meta) != 4 {
		return 0, false
	}
	return model.NodeID(binary.BigEndian.Uint32(meta)), true
}

// NewMeshSource joins the gossip mesh, failing to reach any of the seeds is
// not fatal as the peers may come up later and join us instead
func NewMeshSource(cfg MeshConfig, self model.NodeID) (mesh *MeshSource, err errors.Error) {
	mesh = &MeshSource{
		self:     self,
		changedC: make(chan struct{}, 1),
	}

	conf := memberlist.DefaultLANConfig()
	conf.Name = fmt.Sprintf("sheep-%s", self)
	conf.Label = cfg.Name
	conf.BindAddr = cfg.BindAddr
	conf.BindPort = cfg.BindPort
	conf.AdvertisePort = cfg.BindPort
	conf.Delegate = &meshDelegate{meta: encodeNodeID(self)}
	conf.Events = &meshEvents{mesh: mesh}
	conf.LogOutput = &logWriter{}

	list, errGo := memberlist.Create(conf)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("port", cfg.BindPort).With("stack", stack.Trace().TrimRuntime())
	}
	mesh.list = list

	if len(cfg.Seeds) != 0 {
		joined, errGo := list.Join(cfg.Seeds)
		if errGo != nil {
			logger.Warn("mesh seeds unreachable", "seeds", strings.Join(cfg.Seeds, ","), "error", errGo.Error())
		} else {
			logger.Info(fmt.Sprintf("Node %s joined %d peers", self, joined))
		}
	}
	mesh.signal()
	return mesh, nil
}

func (mesh *MeshSource) signal() {
	select {
	case mesh.changedC <- struct{}{}:
	default:
	}
}

func (mesh *MeshSource) SelfID() model.NodeID {
	return mesh.self
}

// Snapshot lists the live members that advertise a node identifier
func (mesh *MeshSource) Snapshot() (nodes []model.NodeID) {
	for _, member := range mesh.list.Members() {
		if id, isPresent := decodeNodeID(member.Meta); isPresent {
			nodes = append(nodes, id)
		}
	}
	return nodes
}

func (mesh *MeshSource) Changed() <-chan struct{} {
	return mesh.changedC
}

// Close leaves the mesh so peers can re-elect without waiting on failure detection
func (mesh *MeshSource) Close() {
	if errGo := mesh.list.Leave(2 * time.Second); errGo != nil {
		logger.Warn("mesh leave failed", "error", errGo.Error())
	}
	if errGo := mesh.list.Shutdown(); errGo != nil {
		logger.Warn("mesh shutdown failed", "error", errGo.Error())
	}
}

// logWriter routes the memberlist internal logging into our debug log
type logWriter struct{}

func (*logWriter) Write(p []byte) (n int, errGo error) {
	logger.Debug(strings.TrimSpace(string(p)))
	return len(p), nil
}
