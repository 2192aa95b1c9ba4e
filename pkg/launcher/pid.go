package launcher

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ForkedProcessMarker precedes the process id in the output of a forking
// mongod or mongos.
const ForkedProcessMarker = "forked process:"

var (
	// ErrMarkerNotFound is returned when the output has no forked process line.
	ErrMarkerNotFound = errors.New("forked process marker not found")
	// ErrInvalidPID is returned when the marker is not followed by a number.
	ErrInvalidPID = errors.New("forked process id is not numeric")
)

const outputPreviewLen = 200

// ExtractPID returns the process id reported after the forked process marker.
// Leading whitespace after the marker is skipped and the id is the run of
// digits that follows, which must end at whitespace or the end of output.
func ExtractPID(output string) (string, error) {
	idx := strings.Index(output, ForkedProcessMarker)
	if idx < 0 {
		return "", errors.Wrapf(ErrMarkerNotFound, "output %q", preview(output))
	}

	rest := strings.TrimSpace(output[idx+len(ForkedProcessMarker):])
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(rest)
	}
	if end == 0 || (end < len(rest) && !unicode.IsSpace(rune(rest[end]))) {
		return "", errors.Wrapf(ErrInvalidPID, "output %q", preview(rest))
	}

	return rest[:end], nil
}

func preview(s string) string {
	if len(s) <= outputPreviewLen {
		return s
	}
	return s[:outputPreviewLen] + "..."
}
