package executor

import (
	"reflect"
	"testing"
)

func TestGetProfile_KnownEngines(t *testing.T) {
	p := GetProfile("/usr/bin/pdflatex")
	want := []string{"-interaction=nonstopmode", "-halt-on-error", "input.tex"}
	if got := p.Args("input.tex"); !reflect.DeepEqual(got, want) {
		t.Fatalf("pdflatex args = %v, want %v", got, want)
	}

	p = GetProfile("tectonic")
	if got := p.Args("input.tex"); !reflect.DeepEqual(got, []string{"input.tex"}) {
		t.Fatalf("tectonic args = %v", got)
	}
}

func TestGetProfile_OutputDerivedFromInput(t *testing.T) {
	for _, bin := range []string{"tectonic", "pdflatex", "some-custom-engine"} {
		if got := GetProfile(bin).Output("input.tex"); got != "input.pdf" {
			t.Fatalf("%s output = %q, want input.pdf", bin, got)
		}
	}
}
