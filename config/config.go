// Package config reads pattern database definitions from YAML files.
package config

import (
	"io/ioutil"

	"patterndb/multipattern"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// Definition is the top level of a definition file.
type Definition struct {
	Mode     string    `yaml:"mode"`
	Horizon  string    `yaml:"horizon"`
	Platform *Platform `yaml:"platform"`
	Patterns []Pattern `yaml:"patterns"`
}

// Platform is the optional cross-compilation target.
type Platform struct {
	Tune          string   `yaml:"tune"`
	Features      []string `yaml:"features"`
	CacheLineSize int      `yaml:"cache_line_size"`
}

// Pattern is one pattern entry. Flags are given by name, as raw bits, or both.
type Pattern struct {
	Expr     string   `yaml:"expr"`
	Flags    []string `yaml:"flags"`
	FlagBits uint     `yaml:"flag_bits"`
	ID       uint     `yaml:"id"`
}

// Load reads and validates the definition file at path.
func Load(path string) (*Definition, error) {
	bb, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read definition file %s", path)
	}

	d, err := Parse(bb)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid definition file %s", path)
	}
	return d, nil
}

// Parse decodes and validates a YAML definition.
func Parse(bb []byte) (*Definition, error) {
	d := &Definition{}
	if err := yaml.Unmarshal(bb, d); err != nil {
		return nil, errors.Wrap(err, "failed to decode YAML")
	}

	if _, err := d.ScanMode(); err != nil {
		return nil, err
	}
	if _, err := d.ScanHorizon(); err != nil {
		return nil, err
	}
	if _, err := d.TargetPlatform(); err != nil {
		return nil, err
	}
	if _, err := d.PatternSet(); err != nil {
		return nil, err
	}

	return d, nil
}

// ScanMode returns the configured mode. Block is the default.
func (d *Definition) ScanMode() (multipattern.Mode, error) {
	if d.Mode == "" {
		return multipattern.Block, nil
	}
	return multipattern.ParseMode(d.Mode)
}

// ScanHorizon returns the configured horizon. None is the default.
func (d *Definition) ScanHorizon() (multipattern.Horizon, error) {
	return multipattern.ParseHorizon(d.Horizon)
}

// TargetPlatform returns the configured platform, or nil to compile for the host.
func (d *Definition) TargetPlatform() (*multipattern.PlatformInfo, error) {
	if d.Platform == nil {
		return nil, nil
	}

	tune, err := multipattern.ParseTuneFamily(d.Platform.Tune)
	if err != nil {
		return nil, errors.Wrap(err, "platform")
	}

	p := &multipattern.PlatformInfo{Tune: tune, CacheLineSize: d.Platform.CacheLineSize}
	for _, name := range d.Platform.Features {
		f, err := multipattern.ParseCPUFeature(name)
		if err != nil {
			return nil, errors.Wrap(err, "platform")
		}
		p.Features |= f
	}

	if p.CacheLineSize < 0 {
		return nil, errors.Errorf("platform: negative cache line size %d", p.CacheLineSize)
	}
	return p, nil
}

// PatternSet builds a PatternSet holding the configured patterns in file order.
func (d *Definition) PatternSet() (*multipattern.PatternSet, error) {
	s := multipattern.NewPatternSet()
	for i, p := range d.Patterns {
		flags := multipattern.Flag(p.FlagBits)
		for _, name := range p.Flags {
			f, err := multipattern.ParseFlag(name)
			if err != nil {
				return nil, errors.Wrapf(err, "pattern %d (id %d)", i, p.ID)
			}
			flags |= f
		}

		s.AddPattern(p.Expr, flags, p.ID)
	}
	return s, nil
}
