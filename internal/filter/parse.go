package filter

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// LoadFile reads filter rules from path on fsys and appends them to the
// chain in file order. Lines are "+ pattern" (include), "- pattern" or a
// bare pattern (exclude); blank lines and "#" comments are skipped.
func (c *Chain) LoadFile(fsys afero.Fs, path string) error {
	f, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		include := false
		pattern := line
		switch {
		case strings.HasPrefix(line, "+ "):
			include = true
			pattern = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "- "):
			pattern = strings.TrimSpace(line[2:])
		}

		if err := c.add(pattern, include); err != nil {
			return fmt.Errorf("filter file %s line %d: %w", path, lineNum, err)
		}
	}

	return scanner.Err()
}
