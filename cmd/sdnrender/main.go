// Command sdnrender renders the impulse response of a rectangular room with
// a Scattering Delay Network and prints its acoustic metrics.
//
// Usage:
//
//	sdnrender [flags]
//
// Examples:
//
//	sdnrender -room 6x4x3 -source 1,1,1.5 -mic 4,3,1.5
//	sdnrender -absorption 0.3 -seconds 2 -png ir.png -html response.html
//	sdnrender -config room.json -stereo
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cwbudde/algo-sdn/dsp/sdn"
	"github.com/cwbudde/algo-sdn/internal/config"
	"github.com/cwbudde/algo-sdn/measure/ir"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sdnrender: ")

	var f flags
	f.register(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sdnrender [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a room impulse response and prints its acoustic metrics.\n")
		fmt.Fprintf(os.Stderr, "Flags override values read from -config.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := &config.RoomConfig{}
	if f.configPath != "" {
		loaded, err := config.LoadRoomConfig(f.configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if err := f.apply(cfg, set); err != nil {
		log.Fatalf("flags: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	rate := cfg.GetSampleRate()

	network, err := sdn.New(rate, cfg.Options()...)
	if err != nil {
		log.Fatalf("build network: %v", err)
	}

	r, err := render(network, cfg.Samples(), cfg.GetStereo())
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	metrics, err := ir.NewAnalyzer(rate).Analyze(r.mono)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	if err := printReport(os.Stdout, network, metrics); err != nil {
		log.Fatalf("report: %v", err)
	}

	if f.pngPath != "" {
		if err := writeIRPlot(f.pngPath, rate, r); err != nil {
			log.Fatalf("png: %v", err)
		}
		log.Printf("wrote %s", f.pngPath)
	}

	if f.htmlPath != "" {
		if err := writeResponseChart(f.htmlPath, r.mono, rate); err != nil {
			log.Fatalf("html: %v", err)
		}
		log.Printf("wrote %s", f.htmlPath)
	}
}
