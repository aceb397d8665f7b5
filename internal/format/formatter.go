// Package format post-processes generated source text before it is returned
// or cached.
package format

import (
	"regexp"
	"strings"
)

// IndentUnit is the indentation added per bracket depth level.
const IndentUnit = "    "

// Formatter normalizes generated code for a language.
type Formatter interface {
	Format(code, language string) string
}

var (
	blankRunRegex = regexp.MustCompile(`\n\s*\n`)
	openerRegex   = regexp.MustCompile(`[{(\[]`)
	closerRegex   = regexp.MustCompile(`[})\]]`)
)

// BracketFormatter indents code by tracking bracket depth line by line.
//
// It is a heuristic, not a parser. A line containing any opener is written at
// the current depth and increases it; otherwise a line containing any closer
// decreases the depth (never below zero) and is written at the new depth.
// A line holding both an opener and a closer counts only as an opener, so
// single-line blocks push every following line one level deeper.
// The language argument is ignored.
type BracketFormatter struct{}

// NewBracketFormatter returns the default heuristic formatter.
func NewBracketFormatter() BracketFormatter {
	return BracketFormatter{}
}

// Format collapses runs of blank lines and reindents by bracket depth.
func (BracketFormatter) Format(code, _ string) string {
	code = blankRunRegex.ReplaceAllString(code, "\n\n")

	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	level := 0

	for _, line := range lines {
		switch {
		case openerRegex.MatchString(line):
			out = append(out, strings.Repeat(IndentUnit, level)+line)
			level++
		case closerRegex.MatchString(line):
			level = max(0, level-1)
			out = append(out, strings.Repeat(IndentUnit, level)+line)
		default:
			out = append(out, strings.Repeat(IndentUnit, level)+line)
		}
	}

	return strings.Join(out, "\n")
}
