//go:build cgo && hyperscan

package main

import (
	"patterndb/hyperscan"
	"patterndb/multipattern"

	"github.com/rs/zerolog"
)

func init() {
	compilerConstructors["hyperscan"] = func(logger zerolog.Logger) multipattern.Compiler {
		return hyperscan.NewCompiler(logger)
	}
}
