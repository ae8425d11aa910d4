package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	logxi "github.com/mgutz/logxi/v1" // Using a forked copy of this package results in build issues

	"github.com/go-stack/stack"
	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag
	"github.com/karlmutch/errors"

	blitsheep "github.com/bklang/Blit-Sheep"
)

var (
	logger = logxi.New("blitsheep")

	verbose = flag.Bool("v", false, "When enabled will print internal logging for this tool")

	cfgFile     = flag.String("config", "", "YAML file with the node configuration, flags override values in the file")
	numLEDs     = flag.Int("leds", 60, "The number of LEDs on the strip")
	brightness  = flag.Uint("brightness", 150, "The brightness cap applied to every frame, 0-255")
	seed        = flag.Uint64("seed", 0, "Seed for the animation generators, 0 seeds from the clock")
	opcServer   = flag.String("opc", "localhost:7890", "The host:port of the fadecandy server")
	opcChannel  = flag.Uint("opc-channel", 0, "The OPC channel the strip is attached to")
	meshMode    = flag.String("mesh", "standalone", "The topology source, one of standalone, memberlist or bridge")
	meshName    = flag.String("mesh-name", "Blit Sheep", "The mesh name, nodes only see peers on the same mesh")
	nodeID      = flag.Uint("node-id", 0, "The node identifier on the mesh, 0 picks a random identifier")
	meshBind    = flag.String("mesh-bind", "0.0.0.0", "The address memberlist gossips on")
	meshPort    = flag.Int("mesh-port", 5555, "The port memberlist gossips on")
	meshSeeds   = flag.String("mesh-seeds", "", "Comma separated host:port list of memberlist peers to join")
	bridgeURL   = flag.String("bridge", "", "URL of the mesh bridge reporting the visible nodes")
	cues        = flag.Bool("cues", false, "Play audible cues on controller and animation changes")
	stdinButton = flag.Bool("stdin-button", true, "Treat every line read from stdin as a button press")
)

func usage() {
	fmt.Fprintln(os.Stderr, path.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "usage: ", os.Args[0], "[options]       mesh → animations → OPC (blitsheep)      ", gitHash, "    ", buildTime)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "blitsheep drives an LED strip on a mesh of nodes, the node with the lowest identifier is the controller")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment Variables:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options can also be extracted from environment variables by changing dashes '-' to underscores and using upper case.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "log levels are handled by the LOGXI env variables, these are documented at https://github.com/mgutz/logxi")
}

func init() {
	flag.Usage = usage
}

// loadConfig starts from the config file, or the defaults, and applies any
// flags that were given explicitly
func loadConfig() (cfg *blitsheep.Config, err errors.Error) {
	cfg = blitsheep.DefaultConfig()
	if len(*cfgFile) != 0 {
		if cfg, err = blitsheep.LoadConfig(*cfgFile); err != nil {
			return nil, err
		}
	}

	var flagErr errors.Error
	flag.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch f.Name {
		case "leds":
			cfg.NumLEDs = *numLEDs
		case "brightness":
			cfg.MaxBrightness, flagErr = byteFlag(f.Name, *brightness)
		case "seed":
			cfg.Seed = *seed
		case "opc":
			cfg.OPC.Server = *opcServer
		case "opc-channel":
			cfg.OPC.Channel, flagErr = byteFlag(f.Name, *opcChannel)
		case "mesh":
			cfg.Mesh.Mode = *meshMode
		case "mesh-name":
			cfg.Mesh.Name = *meshName
		case "node-id":
			cfg.Mesh.NodeID = uint32(*nodeID)
		case "mesh-bind":
			cfg.Mesh.BindAddr = *meshBind
		case "mesh-port":
			cfg.Mesh.BindPort = *meshPort
		case "mesh-seeds":
			cfg.Mesh.Seeds = strings.Split(*meshSeeds, ",")
		case "bridge":
			cfg.Mesh.BridgeURL = *bridgeURL
		case "cues":
			cfg.Cues = *cues
		}
	})
	if flagErr != nil {
		return nil, flagErr
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// byteFlag narrows an unsigned flag to 8 bits, larger values are rejected
// rather than wrapped
func byteFlag(name string, value uint) (narrowed uint8, err errors.Error) {
	if value > 0xFF {
		return 0, errors.New(fmt.Sprintf("-%s must be within 0-255", name)).With("value", value).With("stack", stack.Trace().TrimRuntime())
	}
	return uint8(value), nil
}

func main() {

	// Parse the CLI flags
	if !flag.Parsed() {
		envflag.Parse()
	}

	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
		blitsheep.SetLogLevel(logxi.LevelDebug)
	}

	logger.Debug(fmt.Sprintf("%s built at %s, against commit id %s\n", os.Args[0], buildTime, gitHash))

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal(err.Error())
		os.Exit(-1)
	}

	correction, err := cfg.CorrectionPixel()
	if err != nil {
		logger.Fatal(err.Error())
		os.Exit(-1)
	}

	quitC := make(chan struct{})
	errC := make(chan errors.Error, 8)
	msgC := make(chan string, 8)

	runTUI(msgC, errC, quitC)

	button := &blitsheep.LineButton{}
	if *stdinButton {
		go button.Watch(os.Stdin)
	}

	gw := &blitsheep.Gateway{}
	subscribeC, err := gw.Start(cfg, blitsheep.NewOPCOutput(cfg.OPC.Server, cfg.OPC.Channel, correction), button, errC, quitC)
	if err != nil {
		logger.Fatal(err.Error())
		os.Exit(-1)
	}

	go runMonitoring(subscribeC, msgC, quitC)

	stopC := make(chan os.Signal, 1)
	signal.Notify(stopC, os.Interrupt, syscall.SIGTERM)
	<-stopC

	logger.Info("stopping")
	close(quitC)
}
