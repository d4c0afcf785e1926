package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/Arcadia24/voice-interaction-three/params"
)

var defaults = params.DefaultParameters()

var (
	configPath = flag.String("config", "", "JSON or YAML file to load parameters from")

	bloomThreshold = flag.Float64("bloom-threshold", defaults.BloomThreshold, "luminance above which pixels glow")
	bloomStrength  = flag.Float64("bloom-strength", defaults.BloomStrength, "intensity of the glow")
	bloomRadius    = flag.Float64("bloom-radius", defaults.BloomRadius, "spread of the glow")

	strategy   = flag.String("strategy", defaults.Strategy, "deformation strategy: vertex or aggregate")
	binMapping = flag.String("bin-mapping", defaults.BinMapping, "vertex to bin mapping: wrap or spread")
	color      = flag.String("color", defaults.Color, "base color of the mesh")
	wireframe  = flag.Bool("wireframe", defaults.Wireframe, "draw the mesh as lines")
	debug      = flag.Bool("debug", defaults.Debug, "log per frame diagnostics")
)

// loadParameters reads -config, then lets explicitly set flags override it.
func loadParameters() (params.Parameters, error) {
	p := params.DefaultParameters()
	if *configPath != "" {
		var err error
		if p, err = params.Load(*configPath); err != nil {
			return p, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bloom-threshold":
			p.BloomThreshold = *bloomThreshold
		case "bloom-strength":
			p.BloomStrength = *bloomStrength
		case "bloom-radius":
			p.BloomRadius = *bloomRadius
		case "strategy":
			p.Strategy = *strategy
		case "bin-mapping":
			p.BinMapping = *binMapping
		case "color":
			p.Color = *color
		case "wireframe":
			p.Wireframe = *wireframe
		case "debug":
			p.Debug = *debug
		}
	})
	return p, p.Validate()
}

// setDebug raises glog verbosity to 2 while debug is set.
func setDebug(on bool) {
	if !on || glog.V(2) {
		return
	}
	if err := flag.Set("v", "2"); err != nil {
		glog.Warningf("enabling debug logging: %v", err)
	}
}
