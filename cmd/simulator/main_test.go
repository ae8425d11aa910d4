package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bklang/Blit-Sheep/model"
)

// The steps are deliberately out of order
const testScenario = `
- at: 20s
  nodes: [9000]
- at: 0s
  nodes: [4000, 9000]
- at: 40s
  nodes: [12]
- at: 60s
  finish: true
`

func writeScenario(t *testing.T, doc string) (fn string) {
	fn = filepath.Join(t.TempDir(), "scenario.yaml")
	if errGo := os.WriteFile(fn, []byte(doc), 0600); errGo != nil {
		t.Fatal(errGo)
	}
	return fn
}

// rewind moves the scenario clock back as if it started elapsed ago
func rewind(elapsed time.Duration) {
	testSchedule.Lock()
	testSchedule.startTime = time.Now().Add(-elapsed)
	testSchedule.Unlock()
}

func sameNodes(a []model.NodeID, b []model.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScenarioSteps(t *testing.T) {
	if err := loadTest(writeScenario(t, testScenario)); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		elapsed  time.Duration
		scale    int
		expected []model.NodeID
	}{
		{elapsed: 0, scale: 1, expected: []model.NodeID{4000, 9000}},
		{elapsed: 5 * time.Second, scale: 1, expected: []model.NodeID{4000, 9000}},
		{elapsed: 25 * time.Second, scale: 1, expected: []model.NodeID{9000}},
		{elapsed: 45 * time.Second, scale: 1, expected: []model.NodeID{12}},
		// an accelerated clock reaches the later steps sooner
		{elapsed: 12 * time.Second, scale: 2, expected: []model.NodeID{9000}},
		{elapsed: 25 * time.Second, scale: 2, expected: []model.NodeID{12}},
	}

	defer func(saved int) { *scale = saved }(*scale)
	for _, tc := range cases {
		*scale = tc.scale
		rewind(tc.elapsed)
		if step := currentStep(); !sameNodes(step.Nodes, tc.expected) {
			t.Errorf("%s at scale %d expected %v, got %v", tc.elapsed, tc.scale, tc.expected, step.Nodes)
		}
	}
}

func TestScenarioFinishRestarts(t *testing.T) {
	if err := loadTest(writeScenario(t, testScenario)); err != nil {
		t.Fatal(err)
	}

	rewind(65 * time.Second)
	step := currentStep()
	if step.Finish || !sameNodes(step.Nodes, []model.NodeID{4000, 9000}) {
		t.Errorf("expected the first step after finishing, got %+v", step)
	}

	testSchedule.Lock()
	elapsed := time.Since(testSchedule.startTime)
	testSchedule.Unlock()
	if elapsed > time.Second {
		t.Errorf("expected the scenario clock to restart, it is %s in", elapsed)
	}

	rewind(25 * time.Second)
	if step = currentStep(); !sameNodes(step.Nodes, []model.NodeID{9000}) {
		t.Errorf("expected the restarted scenario to advance again, got %v", step.Nodes)
	}
}

func TestScenarioRejected(t *testing.T) {
	if err := loadTest(writeScenario(t, "[]\n")); err == nil {
		t.Error("expected an empty scenario to be rejected")
	}
	if err := loadTest(writeScenario(t, "- at: 0s\n  nodez: [1]\n")); err == nil {
		t.Error("expected a misspelt key to be rejected")
	}
	if err := loadTest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected a missing scenario to be rejected")
	}
}

func TestServeTopology(t *testing.T) {
	if err := loadTest(writeScenario(t, testScenario)); err != nil {
		t.Fatal(err)
	}
	defer func(saved uint) { *bridgeID = saved }(*bridgeID)
	*bridgeID = 9

	rewind(25 * time.Second)
	rec := httptest.NewRecorder()
	serveHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON, got %s", ct)
	}

	topology := &model.Topology{}
	if errGo := json.Unmarshal(rec.Body.Bytes(), topology); errGo != nil {
		t.Fatal(errGo)
	}
	if topology.NodeID != 9 || !sameNodes(topology.Nodes, []model.NodeID{9000}) {
		t.Errorf("expected bridge 9 reporting [9000], got %+v", topology)
	}
}

func TestServeConfigure(t *testing.T) {
	if err := loadTest(writeScenario(t, testScenario)); err != nil {
		t.Fatal(err)
	}
	defer func(saved bool, path string) { *remote, *scenarioPath = saved, path }(*remote, *scenarioPath)
	*remote = true

	fn := writeScenario(t, "- at: 0s\n  nodes: [77]\n")
	rec := httptest.NewRecorder()
	serveHandler(rec, httptest.NewRequest(http.MethodGet, "/configure"+filepath.ToSlash(fn), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected the scenario to be switched, got %d %s", rec.Code, rec.Body.String())
	}

	if step := currentStep(); !sameNodes(step.Nodes, []model.NodeID{77}) {
		t.Errorf("expected the new scenario, got %v", step.Nodes)
	}

	rec = httptest.NewRecorder()
	serveHandler(rec, httptest.NewRequest(http.MethodGet, "/configure/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected a missing scenario name to be refused, got %d", rec.Code)
	}
}
