package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.CompilerBin != "tectonic" {
		t.Errorf("CompilerBin = %q", cfg.CompilerBin)
	}
	if cfg.Engine != "local" {
		t.Errorf("Engine = %q", cfg.Engine)
	}
	if cfg.CompileTimeout != 60*time.Second {
		t.Errorf("CompileTimeout = %v", cfg.CompileTimeout)
	}
	if cfg.MaxSourceBytes != 1<<20 {
		t.Errorf("MaxSourceBytes = %d", cfg.MaxSourceBytes)
	}
	if cfg.ScratchRoot == "" {
		t.Error("ScratchRoot is empty")
	}
	if len(cfg.CompilerArgs) != 0 {
		t.Errorf("CompilerArgs = %v, want none by default", cfg.CompilerArgs)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("COMPILERBIN", "pdflatex")
	t.Setenv("COMPILERARGS", "-output-format pdf -shell-restricted")
	t.Setenv("COMPILETIMEOUT", "30s")
	t.Setenv("MAXSOURCEBYTES", "2048")
	t.Setenv("MAXWORKERS", "7")
	t.Setenv("ENGINE", "docker")
	t.Setenv("WARMUPONSTART", "true")

	cfg := LoadConfig()
	if cfg.CompilerBin != "pdflatex" {
		t.Errorf("CompilerBin = %q", cfg.CompilerBin)
	}
	wantArgs := []string{"-output-format", "pdf", "-shell-restricted"}
	if !reflect.DeepEqual(cfg.CompilerArgs, wantArgs) {
		t.Errorf("CompilerArgs = %v, want %v", cfg.CompilerArgs, wantArgs)
	}
	if cfg.CompileTimeout != 30*time.Second {
		t.Errorf("CompileTimeout = %v", cfg.CompileTimeout)
	}
	if cfg.MaxSourceBytes != 2048 {
		t.Errorf("MaxSourceBytes = %d", cfg.MaxSourceBytes)
	}
	if cfg.MaxWorkers != 7 {
		t.Errorf("MaxWorkers = %d", cfg.MaxWorkers)
	}
	if cfg.Engine != "docker" {
		t.Errorf("Engine = %q", cfg.Engine)
	}
	if !cfg.WarmupOnStart {
		t.Error("WarmupOnStart not set")
	}
}

func TestLoadConfig_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("MAXSOURCEBYTES", "not-a-number")
	t.Setenv("COMPILETIMEOUT", "soon")

	cfg := LoadConfig()
	if cfg.MaxSourceBytes != 1<<20 {
		t.Errorf("MaxSourceBytes = %d, want default", cfg.MaxSourceBytes)
	}
	if cfg.CompileTimeout != 60*time.Second {
		t.Errorf("CompileTimeout = %v, want default", cfg.CompileTimeout)
	}
}
