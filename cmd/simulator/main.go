package main

// The simulator stands in for a mesh bridge. It replays a scenario of mesh
// membership changes over HTTP so that nodes running in bridge mode can be
// exercised without radios. A scenario is a YAML file such as
//
//	- at: 0s
//	  nodes: [4000, 9000]
//	- at: 30s
//	  nodes: [9000]
//	- at: 60s
//	  finish: true
//
// Each step takes effect at its offset from the start of the scenario, a
// finish step restarts the scenario from the top

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	logxi "github.com/mgutz/logxi/v1"
	"gopkg.in/yaml.v2"

	"github.com/bklang/Blit-Sheep/model"
)

var (
	listen       = flag.String("listen", ":8080", "Address to bind to")
	scenarioPath = flag.String("path", "./scenario.yaml", "The scenario file to replay")
	remote       = flag.Bool("remote", false, "Enable remote management of the scenario being run")
	scale        = flag.Int("scale", 1, "factor by which to accelerate the relative rate of the clock")
	bridgeID     = flag.Uint("node-id", 0, "The identifier the bridge reports for itself, 0 omits it")
)

type testStep struct {
	At     time.Duration  `yaml:"at"`
	Nodes  []model.NodeID `yaml:"nodes"`
	Finish bool           `yaml:"finish"`
}

type testWindow struct {
	startTime time.Time
	steps     []*testStep
	sync.Mutex
}

var (
	// create Logger interface
	logW = logxi.NewLogger(logxi.NewConcurrentWriter(os.Stdout), "blitsheep-simulator")

	testSchedule = testWindow{
		startTime: time.Now().Round(time.Second),
		steps:     []*testStep{},
	}
)

func main() {

	flag.Parse()

	if err := loadTest(*scenarioPath); err != nil {
		logxi.Fatal(err.Error())
		os.Exit(-1)
	}

	http.HandleFunc("/", serveHandler)

	if err := http.ListenAndServe(*listen, nil); err != nil {
		logW.Warn(err.Error())
	}
}

// loadTest reads the scenario and restarts the scenario clock
func loadTest(scenario string) (err error) {
	byt, err := os.ReadFile(scenario)
	if err != nil {
		return err
	}

	steps := []*testStep{}
	if err = yaml.UnmarshalStrict(byt, &steps); err != nil {
		return err
	}
	if len(steps) == 0 {
		return fmt.Errorf("scenario %s has no steps", scenario)
	}

	// Sort our steps in ascending order and we are done
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].At < steps[j].At
	})

	testSchedule.Lock()
	testSchedule.startTime = time.Now()
	testSchedule.steps = steps
	testSchedule.Unlock()

	logW.Debug(fmt.Sprintf("loaded scenario %s with %d steps", scenario, len(steps)))
	return nil
}

// currentStep locates the last step that has become active, a finish step
// restarts the clock and the first step is used again
func currentStep() (step *testStep) {
	testSchedule.Lock()
	defer testSchedule.Unlock()

	elapsed := time.Since(testSchedule.startTime) * time.Duration(*scale)
	slot := sort.Search(len(testSchedule.steps), func(i int) bool { return testSchedule.steps[i].At > elapsed }) - 1
	if slot < 0 {
		slot = 0
	}

	step = testSchedule.steps[slot]
	if step.Finish {
		logW.Debug("scenario finished, restarting")
		testSchedule.startTime = time.Now()
		step = testSchedule.steps[0]
	}
	return step
}

func serveConfigure(w http.ResponseWriter, r *http.Request) {

	fn := strings.TrimPrefix(r.URL.Path, "/configure")
	if len(fn) == 0 || fn == "/" {
		http.Error(w, "configure paths must name a scenario file", http.StatusNotFound)
		return
	}

	if err := loadTest(fn); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	*scenarioPath = fn
}

func serveHandler(w http.ResponseWriter, r *http.Request) {

	if *remote && strings.HasPrefix(r.URL.Path, "/configure/") {
		serveConfigure(w, r)
		return
	}

	step := currentStep()
	topology := &model.Topology{
		NodeID: model.NodeID(*bridgeID),
		Nodes:  step.Nodes,
	}
	logW.Debug(fmt.Sprintf("serving %v", step.Nodes))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(topology); err != nil {
		logW.Warn(err.Error())
	}
}
