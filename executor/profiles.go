package executor

import (
	"path/filepath"
	"strings"
)

// Profile defines how a particular LaTeX engine is invoked and where it
// leaves its artifact relative to the input file.
type Profile struct {
	Args   func(inputFile string) []string
	Output func(inputFile string) string
}

func pdfName(inputFile string) string {
	return strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + ".pdf"
}

// profiles holds invocation settings for the supported engines, keyed by the
// binary's base name.
var profiles = map[string]Profile{
	"tectonic": {
		Args: func(inputFile string) []string {
			return []string{inputFile}
		},
		Output: pdfName,
	},
	"pdflatex": {
		Args: func(inputFile string) []string {
			return []string{"-interaction=nonstopmode", "-halt-on-error", inputFile}
		},
		Output: pdfName,
	},
	"xelatex": {
		Args: func(inputFile string) []string {
			return []string{"-interaction=nonstopmode", "-halt-on-error", inputFile}
		},
		Output: pdfName,
	},
	"lualatex": {
		Args: func(inputFile string) []string {
			return []string{"-interaction=nonstopmode", "-halt-on-error", inputFile}
		},
		Output: pdfName,
	},
}

// GetProfile retrieves the invocation profile for a compiler binary. Unknown
// binaries get the tectonic-style single-argument invocation.
func GetProfile(bin string) Profile {
	if p, ok := profiles[filepath.Base(bin)]; ok {
		return p
	}
	return Profile{
		Args:   func(inputFile string) []string { return []string{inputFile} },
		Output: pdfName,
	}
}
