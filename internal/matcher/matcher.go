// Package matcher matches model identifiers against user-supplied search
// patterns: plain substrings, shell-style globs or regular expressions.
// Matching is case-insensitive.
package matcher

import (
	"regexp"
	"strings"

	"github.com/agentstation/modelreg/pkg/errors"
)

// Kind is a pattern syntax.
type Kind int

const (
	// Auto picks the kind from the pattern with Detect.
	Auto Kind = iota
	// Substring matches anywhere in the input.
	Substring
	// Glob uses *, ? and [...] against the whole input. * crosses "/".
	Glob
	// Regex is an unanchored regular expression.
	Regex
)

func (k Kind) String() string {
	switch k {
	case Auto:
		return "auto"
	case Substring:
		return "substring"
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	default:
		return "unknown"
	}
}

// Matcher is a compiled pattern. It is safe for concurrent use.
type Matcher struct {
	pattern string
	kind    Kind
	lower   string
	re      *regexp.Regexp
}

// New compiles pattern. Invalid patterns return a *errors.ValidationError.
func New(pattern string, kind Kind) (*Matcher, error) {
	if kind == Auto {
		kind = Detect(pattern)
	}
	m := &Matcher{pattern: pattern, kind: kind}

	switch kind {
	case Substring:
		m.lower = strings.ToLower(pattern)
		return m, nil
	case Glob:
		pattern = GlobToRegex(pattern)
	case Regex:
	default:
		return nil, errors.NewValidationError("kind", kind.String(), "unsupported pattern kind")
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, errors.NewValidationError("search", m.pattern, "invalid "+kind.String()+" pattern: "+err.Error())
	}
	m.re = re
	return m, nil
}

// Match reports whether input matches.
func (m *Matcher) Match(input string) bool {
	if m.re != nil {
		return m.re.MatchString(input)
	}
	return strings.Contains(strings.ToLower(input), m.lower)
}

// Pattern returns the pattern as given.
func (m *Matcher) Pattern() string { return m.pattern }

// Kind returns the resolved pattern kind.
func (m *Matcher) Kind() Kind { return m.kind }

// regexIndicators are sequences that only make sense in a regular
// expression.
var regexIndicators = []string{
	"^", "$", `\d`, `\w`, `\s`, `\D`, `\W`, `\S`, "(?", "{", "}", "+", "|", "(", ")", ".*",
}

// Detect guesses the kind of pattern: regex when it holds regex-only
// syntax, glob when it holds *, ? or [, and substring otherwise.
func Detect(pattern string) Kind {
	for _, ind := range regexIndicators {
		if strings.Contains(pattern, ind) {
			return Regex
		}
	}
	if strings.ContainsAny(pattern, "*?[") {
		return Glob
	}
	return Substring
}

// GlobToRegex converts a glob to an anchored regular expression.
func GlobToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")

	for i := 0; i < len(glob); i++ {
		switch c := glob[i]; c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i + 1
			if j < len(glob) && (glob[j] == '!' || glob[j] == '^') {
				b.WriteString("[^")
				j++
			} else {
				b.WriteString("[")
			}
			for ; j < len(glob) && glob[j] != ']'; j++ {
				if glob[j] == '\\' && j+1 < len(glob) {
					b.WriteByte(glob[j])
					j++
				}
				b.WriteByte(glob[j])
			}
			// an unclosed class is left open and fails to compile
			if j < len(glob) {
				b.WriteString("]")
				i = j
			} else {
				i = j - 1
			}
		case '\\':
			if i+1 < len(glob) {
				i++
				b.WriteString(regexp.QuoteMeta(string(glob[i])))
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString("$")
	return b.String()
}
