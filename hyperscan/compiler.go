//go:build cgo && hyperscan

package hyperscan

import (
	"errors"
	"fmt"
	"strings"

	"patterndb/multipattern"

	hs "github.com/flier/gohs/hyperscan"
	"github.com/rs/zerolog"
)

// Compiler implements multipattern.Compiler with Hyperscan.
type Compiler struct {
	logger zerolog.Logger
}

// NewCompiler creates a Hyperscan-backed multipattern.Compiler.
func NewCompiler(logger zerolog.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile compiles the request's patterns into a Hyperscan database.
func (c *Compiler) Compile(req multipattern.CompileRequest) (h multipattern.Handle, err error) {
	mode, err := modeFlags(req.Mode, req.Horizon)
	if err != nil {
		return
	}

	platform, err := hsPlatform(req.Platform)
	if err != nil {
		return
	}

	patterns, err := hsPatterns(req.Patterns)
	if err != nil {
		return
	}
	b := &hs.DatabaseBuilder{
		Patterns: patterns,
		Mode:     mode,
		Platform: platform,
	}

	db, err := b.Build()
	if err != nil {
		err = c.compileError(err, patterns)
		return
	}

	h, err = newHandle(req.Mode, db)
	if err != nil {
		db.Close()
		h = nil
	}
	return
}

// hsPatterns converts the snapshot. Hyperscan reports identifiers as 32 bit unsigned ints.
func hsPatterns(snap multipattern.Snapshot) ([]*hs.Pattern, error) {
	patterns := make([]*hs.Pattern, snap.Len())
	for i := range patterns {
		p := snap.At(i)
		if p.ID > multipattern.MaxPatternID {
			msg := fmt.Sprintf("Pattern identifier %d exceeds the maximum of %d.", p.ID, multipattern.MaxPatternID)
			return nil, multipattern.NewCompileError(multipattern.CodeCompilerError, msg, i)
		}

		hp := hs.NewPattern(p.Expression, hs.CompileFlag(p.Flags))
		hp.Id = int(p.ID)
		patterns[i] = hp
	}
	return patterns, nil
}

func modeFlags(mode multipattern.Mode, horizon multipattern.Horizon) (m hs.ModeFlag, err error) {
	switch mode {
	case multipattern.Block:
		m = hs.BlockMode
	case multipattern.Vector:
		m = hs.VectoredMode
	case multipattern.Stream:
		m = hs.StreamMode
	default:
		err = multipattern.NewCompileError(multipattern.CodeInvalid, fmt.Sprintf("unsupported scanning mode %v", mode), multipattern.NoPatternIndex)
		return
	}

	switch horizon {
	case multipattern.HorizonNone:
	case multipattern.HorizonSmall:
		m |= hs.SomHorizonSmallMode
	case multipattern.HorizonMedium:
		m |= hs.SomHorizonMediumMode
	case multipattern.HorizonLarge:
		m |= hs.SomHorizonLargeMode
	default:
		err = multipattern.NewCompileError(multipattern.CodeInvalid, fmt.Sprintf("unsupported horizon %v", horizon), multipattern.NoPatternIndex)
	}
	return
}

// hsPlatform converts a platform descriptor. Hyperscan has no cache line setting, so a valid size is only recorded on the database.
func hsPlatform(p *multipattern.PlatformInfo) (hs.Platform, error) {
	if p == nil {
		return hs.PopulatePlatform(), nil
	}

	if err := p.Check(); err != nil {
		return nil, err
	}

	return hs.NewPlatform(hs.TuneFlag(p.Tune), hs.CpuFeature(p.Features)), nil
}

// compileError converts a Hyperscan compile failure. Hyperscan's message is kept as is; the offending pattern is found by checking each pattern on its own.
func (c *Compiler) compileError(err error, patterns []*hs.Pattern) error {
	if errors.Is(err, hs.ErrNoMemory) || strings.Contains(err.Error(), "Unable to allocate memory") {
		return &multipattern.ResourceError{Err: err}
	}

	idx := multipattern.NoPatternIndex
	for i, p := range patterns {
		if _, infoErr := p.Info(); infoErr != nil {
			idx = i
			break
		}
	}

	c.logger.Debug().Err(err).Int("pattern_index", idx).Msg("Hyperscan rejected patterns")
	return multipattern.NewCompileError(multipattern.CodeCompilerError, err.Error(), idx)
}
