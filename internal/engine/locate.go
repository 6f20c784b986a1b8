package engine

import (
	"path/filepath"
	"strings"
)

const (
	externalDir = "_external"
	rootToken   = "ROOT"
)

// BackupLocator maps a file path to the location of its backup copy.
// The mapping is lexical: it never touches the filesystem.
type BackupLocator struct {
	RepoRoot   string
	BackupRoot string
}

// PathFor returns where the backup copy of path lives. Paths inside
// RepoRoot mirror their repo-relative layout under BackupRoot; anything
// else lands in BackupRoot/_external/<token>/<path without its root>,
// where token is the upper-cased drive letter or "ROOT".
//
// Drive-letter ("C:\...", "c:/...") and UNC ("\\host\share") forms are
// recognized on every platform so the mapping does not depend on the
// host OS. Relative paths resolve against RepoRoot. A backslash only
// separates components in those Windows forms, or when RepoRoot is one;
// in a POSIX path it is part of the file name.
func (l BackupLocator) PathFor(path string) string {
	winRepo := windowsStyle(l.RepoRoot)
	repo := splitRooted(l.RepoRoot, winRepo)
	target := splitRooted(path, winRepo || windowsStyle(path))
	if target.token == "" {
		target = rootedPath{
			token: repo.token,
			parts: cleanParts(append(append([]string{}, repo.parts...), target.parts...)),
		}
	}

	if rel, ok := target.within(repo); ok {
		return filepath.Join(append([]string{l.BackupRoot}, rel...)...)
	}

	elems := append([]string{l.BackupRoot, externalDir, target.token}, target.parts...)
	return filepath.Join(elems...)
}

// rootedPath is a path split into its root token and cleaned components.
// token is empty for relative paths.
type rootedPath struct {
	token string
	parts []string
}

func (p rootedPath) isDrive() bool {
	return len(p.token) == 1
}

// within reports whether p lies under base and returns the remaining
// components. Drive paths compare case-insensitively.
func (p rootedPath) within(base rootedPath) ([]string, bool) {
	if p.token != base.token || len(p.parts) < len(base.parts) {
		return nil, false
	}
	for i, part := range base.parts {
		if p.isDrive() {
			if !strings.EqualFold(part, p.parts[i]) {
				return nil, false
			}
		} else if part != p.parts[i] {
			return nil, false
		}
	}
	return p.parts[len(base.parts):], true
}

// splitRooted splits path into its root token and components. backslash
// selects whether '\' separates components as well as '/'.
func splitRooted(path string, backslash bool) rootedPath {
	split := func(p string) []string {
		return strings.FieldsFunc(p, func(r rune) bool {
			return r == '/' || (backslash && r == '\\')
		})
	}
	switch {
	case hasDriveLetter(path):
		return rootedPath{
			token: strings.ToUpper(path[:1]),
			parts: cleanParts(split(path[2:])),
		}
	case strings.HasPrefix(path, `\\`), strings.HasPrefix(path, "//"):
		// UNC: host and share stay as leading components.
		return rootedPath{token: rootToken, parts: cleanParts(split(path[2:]))}
	case strings.HasPrefix(path, "/"), backslash && strings.HasPrefix(path, `\`):
		return rootedPath{token: rootToken, parts: cleanParts(split(path))}
	default:
		return rootedPath{parts: split(path)}
	}
}

// windowsStyle reports whether path is a drive-letter or UNC path.
func windowsStyle(path string) bool {
	return hasDriveLetter(path) || strings.HasPrefix(path, `\\`)
}

func hasDriveLetter(path string) bool {
	if len(path) < 2 || path[1] != ':' {
		return false
	}
	c := path[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// cleanParts resolves "." and ".." lexically. ".." never climbs above
// the root.
func cleanParts(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, part)
		}
	}
	return out
}
