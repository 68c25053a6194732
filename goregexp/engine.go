package goregexp

import (
	"bytes"
	"fmt"

	"github.com/coregx/coregex"
	"rsc.io/binaryregexp"
)

// regexpFacade is a compiled expression. coregex handles text patterns; Russ Cox's binaryregexp fork handles patterns that
// search for raw bytes, which the UTF-8 based engines cannot express.
type regexpFacade struct {
	core *coregex.Regex
	bin  *binaryregexp.Regexp
}

func compileRegexpFacade(expr string, utf8 bool) (g *regexpFacade, err error) {
	hasHexEscapedBytes := containsHexEscapedBytes(expr)

	// If there are any non-printable characters, then convert them into the \x00 representation
	var b bytes.Buffer
	for i := 0; i < len(expr); i++ {
		// ' ' is the lowest value printable ASCII char, and '~' is the highest
		if ' ' <= expr[i] && expr[i] <= '~' || utf8 && expr[i] >= 0x80 {
			b.WriteByte(expr[i])
		} else {
			fmt.Fprintf(&b, "\\x%02X", expr[i])
			hasHexEscapedBytes = true
		}
	}
	expr = b.String()

	if utf8 || !hasHexEscapedBytes {
		var r *coregex.Regex
		r, err = coregex.Compile(expr)
		if err != nil {
			return
		}

		g = &regexpFacade{core: r}
		return
	}

	var r *binaryregexp.Regexp
	r, err = binaryregexp.Compile(expr)
	if err != nil {
		return
	}

	g = &regexpFacade{bin: r}
	return
}

func (g *regexpFacade) FindAllIndex(b []byte, n int) [][]int {
	if g.core != nil {
		return g.core.FindAllIndex(b, n)
	}
	return g.bin.FindAllIndex(b, n)
}

func (g *regexpFacade) Match(b []byte) bool {
	if g.core != nil {
		return g.core.Match(b)
	}
	return g.bin.Match(b)
}

var hexEscapeRegexp = coregex.MustCompile(`((^|[^\\])(\\\\)*)\\x([0-9a-fA-F]{2})`)

func containsHexEscapedBytes(s string) bool {
	return hexEscapeRegexp.MatchString(s)
}
