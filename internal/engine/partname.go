package engine

import (
	"fmt"
	"strconv"
	"strings"
)

const partMarker = ".part"

// PartName returns the name of the n-th (1-based) part of base, with the
// sequence number zero-padded to width digits.
func PartName(base string, n, width int) string {
	return fmt.Sprintf("%s%s%0*d", base, partMarker, width, n)
}

// ParsePartName splits a part file name into its base name and sequence
// number. The ".part" marker matches case-insensitively and must be
// followed by exactly width digits.
func ParsePartName(name string, width int) (string, int, bool) {
	if len(name) < len(partMarker)+width {
		return "", 0, false
	}
	digits := name[len(name)-width:]
	for i := range len(digits) {
		if digits[i] < '0' || digits[i] > '9' {
			return "", 0, false
		}
	}

	head := name[:len(name)-width]
	if !strings.EqualFold(head[len(head)-len(partMarker):], partMarker) {
		return "", 0, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, false
	}
	return head[:len(head)-len(partMarker)], n, true
}

// IsPartFile reports whether name looks like a part file.
func IsPartFile(name string, width int) bool {
	_, _, ok := ParsePartName(name, width)
	return ok
}

// PartCount is the number of parts a file of size bytes splits into.
func PartCount(size, chunk int64) int64 {
	if size <= 0 {
		return 0
	}
	return (size + chunk - 1) / chunk
}

// PartSizes lists the size of each part of a file of size bytes.
func PartSizes(size, chunk int64) []int64 {
	sizes := make([]int64, 0, PartCount(size, chunk))
	for offset := int64(0); offset < size; offset += chunk {
		sizes = append(sizes, min(chunk, size-offset))
	}
	return sizes
}
