package main

// The preview runs a node against the terminal instead of a fadecandy board.
// The strip is drawn with coloured blocks, the space bar is the button and q
// or escape quits. Start several previews with -mesh memberlist to watch the
// controller election move between them

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/karlmutch/envflag"
	"github.com/karlmutch/errors"
	logxi "github.com/mgutz/logxi/v1"

	blitsheep "github.com/bklang/Blit-Sheep"
)

var (
	logger = logxi.New("preview")

	cfgFile   = flag.String("config", "", "YAML file with the node configuration, flags override values in the file")
	numLEDs   = flag.Int("leds", 60, "The number of LEDs on the strip")
	meshMode  = flag.String("mesh", "standalone", "The topology source, one of standalone, memberlist or bridge")
	nodeID    = flag.Uint("node-id", 0, "The node identifier on the mesh, 0 picks a random identifier")
	meshPort  = flag.Int("mesh-port", 5555, "The port memberlist gossips on")
	meshSeeds = flag.String("mesh-seeds", "", "Comma separated host:port list of memberlist peers to join")
	bridgeURL = flag.String("bridge", "", "URL of the mesh bridge reporting the visible nodes")
)

func loadConfig() (cfg *blitsheep.Config, err errors.Error) {
	cfg = blitsheep.DefaultConfig()
	if len(*cfgFile) != 0 {
		if cfg, err = blitsheep.LoadConfig(*cfgFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "leds":
			cfg.NumLEDs = *numLEDs
		case "mesh":
			cfg.Mesh.Mode = *meshMode
		case "node-id":
			cfg.Mesh.NodeID = uint32(*nodeID)
		case "mesh-port":
			cfg.Mesh.BindPort = *meshPort
		case "mesh-seeds":
			cfg.Mesh.Seeds = strings.Split(*meshSeeds, ",")
		case "bridge":
			cfg.Mesh.BridgeURL = *bridgeURL
		}
	})
	return cfg, cfg.Validate()
}

func main() {

	if !flag.Parsed() {
		envflag.Parse()
	}

	// The screen is owned by the strip so log lines would only garble it
	logger.SetLevel(logxi.LevelError)
	blitsheep.SetLogLevel(logxi.LevelError)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}
	correction, err := cfg.CorrectionPixel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}

	screen, errGo := tcell.NewScreen()
	if errGo != nil {
		fmt.Fprintln(os.Stderr, errGo.Error())
		os.Exit(-1)
	}
	strip, err := blitsheep.NewTerminalStrip(screen, correction)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}

	quitC := make(chan struct{})
	errorC := make(chan errors.Error, 8)

	gw := &blitsheep.Gateway{}
	subscribeC, err := gw.Start(cfg, strip, strip, errorC, quitC)
	if err != nil {
		strip.Close()
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}

	go strip.Watch(subscribeC, quitC)
	go strip.PollKeys()

	errs := []errors.Error{}
	for {
		select {
		case err := <-errorC:
			// Only the most recent errors are shown once the screen is released
			if errs = append(errs, err); len(errs) > 20 {
				errs = errs[1:]
			}
			continue
		case <-strip.Quit():
		}
		break
	}

	close(quitC)
	strip.Close()

	for _, err := range errs {
		fmt.Fprintln(os.Stderr, err.Error())
	}
}
