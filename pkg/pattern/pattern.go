// Package pattern compiles the glob patterns used by rules and ignore lists.
//
// Rule file matches are case-insensitive: CompileRule lowercases the pattern and
// MatchRule lowercases the candidate name. Ignore patterns are case-sensitive and
// tested against the raw directory basename. Both behaviors are part of the
// configuration contract and must not be unified.
package pattern

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Directory references that stop descent when listed as a rule exclusion.
const (
	SelfDir   = "."
	ParentDir = ".."
)

// Pattern is a compiled glob.
type Pattern struct {
	source  string
	expr    string
	literal bool
}

// Compile turns source into a Pattern. Braces are plain characters, not
// alternation. A "**" that is not a whole path segment, or any other invalid
// glob syntax, makes the returned pattern match source literally with
// usedLiteralFallback set.
func Compile(source string) (p Pattern, usedLiteralFallback bool) {
	if !partialRecursive(source) {
		expr := literalBraces(source)
		if doublestar.ValidatePattern(expr) {
			return Pattern{source: source, expr: expr}, false
		}
	}
	return Pattern{source: source, expr: Escape(source), literal: true}, true
}

// partialRecursive reports whether a "**" shares a segment with other text
func partialRecursive(source string) bool {
	for _, seg := range strings.Split(source, "/") {
		if seg != "**" && strings.Contains(seg, "**") {
			return true
		}
	}
	return false
}

// literalBraces escapes '{' and '}' outside character classes
func literalBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	inClass := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '[' && !inClass:
			inClass = true
		case r == ']' && inClass:
			inClass = false
		case (r == '{' || r == '}') && !inClass:
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CompileRule compiles a rule file-match pattern for case-insensitive matching.
func CompileRule(source string) (Pattern, bool) {
	return Compile(strings.ToLower(source))
}

// Match reports whether name matches the pattern. name is compared as given.
func (p Pattern) Match(name string) bool {
	ok, err := doublestar.Match(p.expr, name)
	return err == nil && ok
}

// MatchRule lowercases name before matching; use with CompileRule patterns.
func (p Pattern) MatchRule(name string) bool {
	return p.Match(strings.ToLower(name))
}

// String returns the source text the pattern was compiled from.
func (p Pattern) String() string {
	return p.source
}

// Literal reports whether the pattern fell back to literal matching.
func (p Pattern) Literal() bool {
	return p.literal
}

// Escape backslash-escapes every glob metacharacter in s.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsSelfOrParent reports whether name is "." or "..".
func IsSelfOrParent(name string) bool {
	return name == SelfDir || name == ParentDir
}
