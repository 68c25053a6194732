// Package goregexp is a pure Go multipattern.Compiler for hosts without the Hyperscan library.
//
// It accepts the common subset of Hyperscan syntax that the Go engines share and reports matches with
// leftmost-first, non-overlapping semantics, which can differ from Hyperscan's report-every-end-offset semantics.
package goregexp

import (
	"fmt"

	"patterndb/multipattern"

	"github.com/rs/zerolog"
)

// Compiler implements multipattern.Compiler with Go regex engines.
type Compiler struct {
	logger zerolog.Logger
}

// NewCompiler creates a Compiler.
func NewCompiler(logger zerolog.Logger) *Compiler {
	return &Compiler{logger: logger}
}

// Compile compiles every pattern of the request. The first pattern that fails aborts the build.
func (c *Compiler) Compile(req multipattern.CompileRequest) (multipattern.Handle, error) {
	if err := checkPlatform(req.Platform); err != nil {
		return nil, err
	}

	if err := checkHorizon(req); err != nil {
		return nil, err
	}

	h := &Handle{mode: req.Mode}
	for i := 0; i < req.Patterns.Len(); i++ {
		p := req.Patterns.At(i)

		cp, err := compilePattern(p)
		if err != nil {
			c.logger.Debug().Err(err).Int("pattern_index", i).Str("expression", p.Expression).Msg("Go regexp rejected pattern")
			return nil, multipattern.NewCompileError(multipattern.CodeCompilerError, err.Error(), i)
		}

		h.patterns = append(h.patterns, cp)
		h.size += len(p.Expression)
	}

	return h, nil
}

func compilePattern(p multipattern.Pattern) (cp compiledPattern, err error) {
	if p.ID > multipattern.MaxPatternID {
		err = fmt.Errorf("Pattern identifier %d exceeds the maximum of %d.", p.ID, multipattern.MaxPatternID)
		return
	}
	if p.Flags&multipattern.Combination != 0 {
		err = fmt.Errorf("logical combinations are not supported")
		return
	}

	re, err := compileRegexpFacade(goSyntax(p.Expression, p.Flags), p.Flags&multipattern.UTF8 != 0)
	if err != nil {
		return
	}

	if p.Flags&multipattern.AllowEmpty == 0 && re.Match(nil) {
		err = fmt.Errorf("Pattern matches empty buffer; use HS_FLAG_ALLOWEMPTY to enable support.")
		return
	}

	cp = compiledPattern{id: p.ID, flags: p.Flags, re: re}
	return
}

// checkHorizon applies Hyperscan's rule that streaming start-of-match tracking needs a horizon.
func checkHorizon(req multipattern.CompileRequest) error {
	if req.Mode != multipattern.Stream || req.Horizon != multipattern.HorizonNone {
		return nil
	}

	for i := 0; i < req.Patterns.Len(); i++ {
		if req.Patterns.At(i).Flags&multipattern.SomLeftMost != 0 {
			msg := "Invalid parameter: stream mode with leftmost start of match requires a SOM horizon."
			return multipattern.NewCompileError(multipattern.CodeCompilerError, msg, multipattern.NoPatternIndex)
		}
	}
	return nil
}

func checkPlatform(p *multipattern.PlatformInfo) error {
	if p == nil {
		return nil
	}
	return p.Check()
}
