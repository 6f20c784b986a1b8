package filter

import (
	"regexp"
	"strings"
)

// compiledPattern is a glob pattern compiled to a regexp.
type compiledPattern struct {
	re       *regexp.Regexp
	original string
	anchored bool // contains a slash; matched from the root
	dirOnly  bool // trailing slash
}

func compilePattern(pattern string) (*compiledPattern, error) {
	cp := &compiledPattern{original: pattern}

	body := pattern
	if strings.HasSuffix(body, "/") {
		cp.dirOnly = true
		body = strings.TrimSuffix(body, "/")
	}
	if strings.Contains(body, "/") {
		cp.anchored = true
		body = strings.TrimPrefix(body, "/")
	}

	prefix := "(^|/)"
	if cp.anchored {
		prefix = "^"
	}

	re, err := regexp.Compile(prefix + translateGlob(body) + "$")
	if err != nil {
		return nil, err
	}
	cp.re = re
	return cp, nil
}

func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	return cp.re.MatchString(relPath)
}

// translateGlob rewrites glob syntax as a regexp fragment:
// "**/" any number of leading directories, "**" anything, "*" anything
// but a slash, "?" one non-slash byte, "[...]" a class ("!" negates).
//
//nolint:gocyclo,revive // cognitive-complexity: byte-at-a-time glob scanner
func translateGlob(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); {
		rest := glob[i:]
		switch {
		case strings.HasPrefix(rest, "**/"):
			b.WriteString("(.*/)?")
			i += 3
		case strings.HasPrefix(rest, "**"):
			b.WriteString(".*")
			i += 2
		case rest[0] == '*':
			b.WriteString("[^/]*")
			i++
		case rest[0] == '?':
			b.WriteString("[^/]")
			i++
		case rest[0] == '[':
			class, n := bracketClass(rest)
			if n == 0 {
				b.WriteString(`\[`)
				i++
				continue
			}
			b.WriteString(class)
			i += n
		default:
			b.WriteString(regexp.QuoteMeta(rest[:1]))
			i++
		}
	}
	return b.String()
}

// bracketClass converts a leading "[...]" into a regexp class and returns
// it with the number of bytes consumed, or 0 if the bracket is unterminated.
func bracketClass(s string) (string, int) {
	j := 1
	if j < len(s) && s[j] == '!' {
		j++
	}
	if j < len(s) && s[j] == ']' {
		j++
	}
	end := strings.IndexByte(s[j:], ']')
	if end < 0 {
		return "", 0
	}
	end += j
	inner := s[1:end]
	if strings.HasPrefix(inner, "!") {
		inner = "^" + inner[1:]
	}
	return "[" + inner + "]", end + 1
}
