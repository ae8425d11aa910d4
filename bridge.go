package blitsheep

// This module implements a topology source that polls a mesh bridge. The
// bridge is a radio that sits on the mesh and reports the node identifiers it
// can see as JSON over HTTP, for example
//
//	{"nodeId": 2147483647, "nodes": [12, 4096]}

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/cnf/structhash"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/bklang/Blit-Sheep/model"
)

type BridgeSource struct {
	url    url.URL
	self   model.NodeID
	poll   time.Duration
	client *http.Client

	nodes []model.NodeID
	last  []byte
	sync.Mutex

	changedC chan struct{}
	errorC   chan<- errors.Error
}

func NewBridgeSource(url url.URL, self model.NodeID, poll time.Duration, errorC chan<- errors.Error) (bridge *BridgeSource) {
	return &BridgeSource{
		url:      url,
		self:     self,
		poll:     poll,
		client:   &http.Client{Timeout: poll},
		changedC: make(chan struct{}, 1),
		errorC:   errorC,
	}
}

// checkBridge fetches the current membership view from the bridge
func (bridge *BridgeSource) checkBridge() (topology *model.Topology, err errors.Error) {

	body := []byte{}

	switch bridge.url.Scheme {
	case "http", "https":
		resp, errGo := bridge.client.Get(bridge.url.String())
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("url", bridge.url.String()).With("stack", stack.Trace().TrimRuntime())
		}

		body, errGo = io.ReadAll(resp.Body)
		resp.Body.Close()
		if errGo != nil {
			return nil, errors.Wrap(errGo).With("url", bridge.url.String()).With("stack", stack.Trace().TrimRuntime())
		}
		if resp.StatusCode != http.StatusOK {
			errGo = fmt.Errorf("unexpected status %s from the mesh bridge", resp.Status)
			return nil, errors.Wrap(errGo).With("url", bridge.url.String()).With("stack", stack.Trace().TrimRuntime())
		}

	default:
		errGo := fmt.Errorf("unknown scheme %s for the mesh bridge URI", bridge.url.Scheme)
		return nil, errors.Wrap(errGo).With("url", bridge.url.String()).With("stack", stack.Trace().TrimRuntime())
	}

	topology = &model.Topology{}
	if errGo := json.Unmarshal(body, topology); errGo != nil {
		return nil, errors.Wrap(errGo).With("url", bridge.url.String()).With("body", string(body)).With("stack", stack.Trace().TrimRuntime())
	}
	return topology, nil
}

// refresh polls the bridge once and signals the election when the reported
// membership is different from the last poll
func (bridge *BridgeSource) refresh() {
	topology, err := bridge.checkBridge()
	if err != nil {
		go func(err errors.Error) {
			select {
			case bridge.errorC <- err:
			case <-time.After(500 * time.Millisecond):
				fmt.Fprintf(os.Stderr, "could not send error for mesh bridge update %s\n", err.Error())
			}
		}(err)
		return
	}

	nodes := append([]model.NodeID{}, topology.Nodes...)
	if topology.NodeID != 0 {
		nodes = append(nodes, topology.NodeID)
	}
	nodes = sortedNodes(nodes)

	hash := structhash.Md5(model.Topology{NodeID: topology.NodeID, Nodes: nodes}, 1)

	bridge.Lock()
	changed := !bytes.Equal(bridge.last, hash)
	bridge.last = hash
	bridge.nodes = nodes
	bridge.Unlock()

	if !changed {
		return
	}
	select {
	case bridge.changedC <- struct{}{}:
	default:
	}
}

func (bridge *BridgeSource) SelfID() model.NodeID {
	return bridge.self
}

// Snapshot returns the membership from the last successful poll
func (bridge *BridgeSource) Snapshot() []model.NodeID {
	bridge.Lock()
	defer bridge.Unlock()
	return append([]model.NodeID(nil), bridge.nodes...)
}

func (bridge *BridgeSource) Changed() <-chan struct{} {
	return bridge.changedC
}

// Run polls the bridge until quitC is closed
func (bridge *BridgeSource) Run(quitC <-chan struct{}) {

	bridge.refresh()

	poll := time.NewTicker(bridge.poll)
	defer poll.Stop()

	for {
		select {
		case <-poll.C:
			bridge.refresh()

		case <-quitC:
			return
		}
	}
}
