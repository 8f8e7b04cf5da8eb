package aged

import (
	"regexp"
	"strings"
)

var (
	// dividerMarker starts the divider row under a pipe table header: "---|---|...".
	dividerMarker = regexp.MustCompile(`^-{3,}\|`)
	// dividerLine also matches the divider rows repeated on later pages.
	dividerLine = regexp.MustCompile(`^[\s|:+-]*-{3,}[\s|:+-]*$`)
)

func isDivider(line string) bool {
	return dividerLine.MatchString(strings.TrimSpace(line))
}

// locateDivider returns the index of the first divider marker line, or -1.
func locateDivider(lines []string) int {
	for i, line := range lines {
		if dividerMarker.MatchString(strings.TrimSpace(line)) {
			return i
		}
	}
	return -1
}

// LocateTable finds the last preamble line, the header row just above the
// first divider. It returns (0, false) when there is no divider; a divider on
// the first line yields (0, true).
func LocateTable(lines []string) (int, bool) {
	i := locateDivider(lines)
	if i < 0 {
		return 0, false
	}
	return max(i-1, 0), true
}
