// Package params holds the runtime tunable parameters of the visualizer.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/Arcadia24/voice-interaction-three/deform"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid parameters")

// Parameters is a set of parameters that control the visualization
type Parameters struct {
	BloomThreshold float64 `json:"bloomThreshold" yaml:"bloomThreshold"`
	BloomStrength  float64 `json:"bloomStrength" yaml:"bloomStrength"`
	BloomRadius    float64 `json:"bloomRadius" yaml:"bloomRadius"`

	Strategy   string `json:"strategy" yaml:"strategy"`
	BinMapping string `json:"binMapping" yaml:"binMapping"`

	Color     string `json:"color" yaml:"color"`
	Wireframe bool   `json:"wireframe" yaml:"wireframe"`

	Debug bool `json:"debug" yaml:"debug"`
}

// DefaultParameters returns the parameters used when nothing is configured.
func DefaultParameters() Parameters {
	return Parameters{
		BloomThreshold: 0.7,
		BloomStrength:  0.4,
		BloomRadius:    0.4,
		Strategy:       deform.Vertex.String(),
		BinMapping:     "wrap",
		Color:          "#ffffff",
		Wireframe:      true,
	}
}

// Validate checks ranges and enum values.
func (p *Parameters) Validate() error {
	if !inRange(p.BloomThreshold, 0, 1) {
		return fmt.Errorf("%w: bloomThreshold %v not in [0, 1]", ErrInvalid, p.BloomThreshold)
	}
	if !inRange(p.BloomStrength, 0, math.Inf(1)) {
		return fmt.Errorf("%w: bloomStrength %v is negative", ErrInvalid, p.BloomStrength)
	}
	if !inRange(p.BloomRadius, 0, math.Inf(1)) {
		return fmt.Errorf("%w: bloomRadius %v is negative", ErrInvalid, p.BloomRadius)
	}
	if _, err := deform.ParseStrategy(p.Strategy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := deform.ParseBinMapper(p.BinMapping); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := colorful.Hex(p.Color); err != nil {
		return fmt.Errorf("%w: color %q", ErrInvalid, p.Color)
	}
	return nil
}

func inRange(x, lo, hi float64) bool {
	return !math.IsNaN(x) && x >= lo && x <= hi
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads parameters from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their default values.
func Load(path string) (Parameters, error) {
	p := DefaultParameters()
	bs, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(bs, &p)
	} else {
		err = json.Unmarshal(bs, &p)
	}
	if err != nil {
		return p, fmt.Errorf("decoding %s: %w", path, err)
	}
	return p, p.Validate()
}

// Save writes p to a JSON or YAML file, chosen by extension.
func Save(path string, p Parameters) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	if isYAML(path) {
		enc := yaml.NewEncoder(fp)
		if err := enc.Encode(&p); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	return enc.Encode(&p)
}
