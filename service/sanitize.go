package service

import (
	"regexp"
	"strings"
)

type SanitizationError struct {
	Message string
	Details string
}

func (e *SanitizationError) Error() string {
	return e.Message + ": " + e.Details
}

// Patterns that let a document break out of its scratch directory or reach
// the shell. The compile runs an opaque external binary on user input, so the
// only practical line of defense at this layer is refusing the documented
// escape hatches.
var (
	shellEscapePatterns = []string{
		`\\write18\s*\{`,
		`\\immediate\s*\\write18`,
		`\\ShellEscape\s*\{`,
		`\\DirectLua\s*\{[^}]*os\.execute`,
	}

	pathEscapePattern = regexp.MustCompile(`\\(?:input|include|openin|openout|InputIfFileExists)\b[^{}\n]*[{= ]\s*(/|~|\.\./)`)
)

// SanitizeSource rejects source text that tries to invoke the shell or read
// or write files outside the per-request scratch directory.
func SanitizeSource(source string) error {
	if strings.ContainsRune(source, 0) {
		return &SanitizationError{
			Message: "Invalid source text",
			Details: "source contains NUL bytes",
		}
	}

	if matched, err := matchPatterns(shellEscapePatterns, source); err != nil || matched {
		return &SanitizationError{
			Message: "Prohibited shell escape detected",
			Details: "source attempts to execute external commands",
		}
	}

	if pathEscapePattern.MatchString(source) {
		return &SanitizationError{
			Message: "Prohibited file access detected",
			Details: "source references files outside the working directory",
		}
	}

	return nil
}

func matchPatterns(patterns []string, source string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := regexp.MatchString(pattern, source)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
