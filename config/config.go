// Package config holds the conversion options, read from an optional YAML
// file and overridden by command line flags.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Unfold       bool   `yaml:"unfold"`        // unfold simple repeats
	VolPan       bool   `yaml:"volpan"`        // also write midi channel, volume and panning
	CreditFilter int    `yaml:"credit_filter"` // 0 to 6, higher keeps more credit lines
	UnitDen      int    `yaml:"unit_length"`   // L:1/D for all voices, 0 computes it per voice
	LineWidth    int    `yaml:"line_width"`    // characters per line of notes, 0 for the default
	OutDir       string `yaml:"out_dir"`       // "" writes to stdout
	Volta        int    `yaml:"volta"`         // volta typesetting, 0 to 3
	Midi         bool   `yaml:"midi"`          // also write a midi file per tune
}

func Load(path string) (Options, error) {
	var opts Options
	if path == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrap(err, "parsing config file")
	}
	return opts, nil
}

func isUnitDen(d int) bool {
	for n := 1; n <= 512; n *= 2 {
		if d == n {
			return true
		}
	}
	return false
}

func (o Options) Validate() error {
	if o.LineWidth < 0 {
		return errors.New("line width: only values >= 0")
	}
	if o.UnitDen != 0 && !isUnitDen(o.UnitDen) {
		return errors.Errorf("unit length %d should be one of 1,2,4,8,16,32,64,128,256,512", o.UnitDen)
	}
	if o.CreditFilter < 0 || o.CreditFilter > 6 {
		return errors.Errorf("credit filter %d should be between 0 and 6", o.CreditFilter)
	}
	if o.Volta < 0 || o.Volta > 3 {
		return errors.Errorf("volta option %d should be between 0 and 3", o.Volta)
	}
	if o.OutDir != "" {
		if fi, err := os.Stat(o.OutDir); err == nil && !fi.IsDir() {
			return errors.Errorf("%s is not a directory", o.OutDir)
		}
	}
	return nil
}
