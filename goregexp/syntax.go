package goregexp

import (
	"strings"

	"patterndb/multipattern"
)

// goSyntax rewrites a Hyperscan expression into the syntax the Go engines accept and prefixes the inline flags
// that correspond to its compile flags.
func goSyntax(expr string, flags multipattern.Flag) string {
	expr = removePossessiveQuantifiers(expr)

	var inline string
	if flags&multipattern.Caseless != 0 {
		inline += "i"
	}
	if flags&multipattern.MultiLine != 0 {
		inline += "m"
	}
	if flags&multipattern.DotAll != 0 {
		inline += "s"
	}
	if inline == "" {
		return expr
	}

	return "(?" + inline + ")" + expr
}

// PCRE has possessive quantifiers such as "a++", which only tell a backtracking engine not to backtrack.
// The Go engines never backtrack and reject the syntax, so the trailing '+' is dropped.
func removePossessiveQuantifiers(expr string) string {
	var b strings.Builder
	b.Grow(len(expr))

	inClass := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]

		// \Q...\E quotes its content literally, up to the end of the expression if \E is missing.
		if c == '\\' && i+1 < len(expr) && expr[i+1] == 'Q' {
			end := len(expr)
			if j := strings.Index(expr[i+2:], `\E`); j >= 0 {
				end = i + 2 + j + 2
			}
			b.WriteString(expr[i:end])
			i = end - 1
			continue
		}

		if c == '\\' && i+1 < len(expr) {
			b.WriteByte(c)
			b.WriteByte(expr[i+1])
			i++
			continue
		}

		if inClass {
			if c == ']' {
				inClass = false
			}
			b.WriteByte(c)
			continue
		}

		switch c {
		case '[':
			inClass = true
			b.WriteByte(c)
			// A ']' directly after '[' or '[^' is a literal.
			if i+1 < len(expr) && expr[i+1] == '^' {
				b.WriteByte('^')
				i++
			}
			if i+1 < len(expr) && expr[i+1] == ']' {
				b.WriteByte(']')
				i++
			}
			continue

		case '+', '*', '?':
			// "(?" opens a group and is not a quantifier.
			if c == '?' && i > 0 && expr[i-1] == '(' && !escapedAt(expr, i-1) {
				b.WriteByte(c)
				continue
			}
			b.WriteByte(c)

		case '{':
			n := repetitionLen(expr[i:])
			if n == 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(expr[i : i+n])
			i += n - 1

		default:
			b.WriteByte(c)
			continue
		}

		if i+1 < len(expr) && expr[i+1] == '+' {
			i++
		}
	}

	return b.String()
}

// repetitionLen returns the length of a "{n}", "{n,}" or "{n,m}" counted repetition at the start of s, or 0.
func repetitionLen(s string) int {
	i := 1
	digits := func() int {
		start := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i - start
	}

	if digits() == 0 {
		return 0
	}
	if i < len(s) && s[i] == ',' {
		i++
		digits()
	}
	if i < len(s) && s[i] == '}' {
		return i + 1
	}
	return 0
}

// escapedAt reports whether the byte at i is preceded by an odd number of backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
