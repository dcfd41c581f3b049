package service

import (
	"strings"
	"testing"

	"texengine/executor"
	"texengine/model"
)

type stubPool struct {
	result     executor.Result
	submitted  int
	lastID     string
	lastSource string
}

func (s *stubPool) Submit(requestID, source string) executor.Result {
	s.submitted++
	s.lastID = requestID
	s.lastSource = source
	return s.result
}

func TestCompile_EmptySourceRejected(t *testing.T) {
	pool := &stubPool{}
	svc := NewCompileService(pool, 1024)

	resp := svc.Compile("")
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.FailureKind != model.KindInvalidInput {
		t.Fatalf("kind = %s, want %s", resp.FailureKind, model.KindInvalidInput)
	}
	if pool.submitted != 0 {
		t.Fatal("invalid input must not reach the pool")
	}
}

func TestCompile_InvalidUTF8Rejected(t *testing.T) {
	pool := &stubPool{}
	svc := NewCompileService(pool, 1024)

	resp := svc.Compile("\xff\xfe not text")
	if resp.Success || resp.FailureKind != model.KindInvalidInput {
		t.Fatalf("got %+v, want invalid_input failure", resp)
	}
	if pool.submitted != 0 {
		t.Fatal("invalid input must not reach the pool")
	}
}

func TestCompile_OversizeSourceRejected(t *testing.T) {
	pool := &stubPool{}
	svc := NewCompileService(pool, 16)

	resp := svc.Compile(strings.Repeat("a", 17))
	if resp.Success || resp.FailureKind != model.KindInputTooLarge {
		t.Fatalf("got %+v, want input_too_large failure", resp)
	}
	if !strings.Contains(resp.Message, "16") {
		t.Fatalf("message should state the limit: %q", resp.Message)
	}
	if pool.submitted != 0 {
		t.Fatal("oversize input must not reach the pool")
	}
}

func TestCompile_ShellEscapeRejected(t *testing.T) {
	pool := &stubPool{}
	svc := NewCompileService(pool, 1024)

	resp := svc.Compile(`\documentclass{article}\write18{rm -rf /}`)
	if resp.Success || resp.FailureKind != model.KindInvalidInput {
		t.Fatalf("got %+v, want invalid_input failure", resp)
	}
	if pool.submitted != 0 {
		t.Fatal("rejected input must not reach the pool")
	}
}

func TestCompile_SuccessPackaging(t *testing.T) {
	artifact := []byte("%PDF-1.5 body")
	pool := &stubPool{result: executor.Result{Artifact: artifact, ArtifactSize: len(artifact)}}
	svc := NewCompileService(pool, 1024)

	src := `\documentclass{article}\begin{document}Hello\end{document}`
	resp := svc.Compile(src)
	if !resp.Success {
		t.Fatalf("unexpected failure: %+v", resp)
	}
	if resp.ArtifactSize != len(resp.Artifact) {
		t.Fatalf("artifact size %d != len %d", resp.ArtifactSize, len(resp.Artifact))
	}
	if resp.RequestID == "" {
		t.Fatal("missing request id")
	}
	if pool.lastSource != src {
		t.Fatal("source text was altered on the way to the pool")
	}
	if pool.lastID != resp.RequestID {
		t.Fatal("response request id does not match the submitted one")
	}
}

func TestCompile_FailurePassthrough(t *testing.T) {
	pool := &stubPool{result: executor.Result{
		Err: &executor.Failure{
			Kind:       model.KindCompilerFailure,
			Message:    "compiler exited with status 1",
			LogExcerpt: "! Emergency stop",
		},
	}}
	svc := NewCompileService(pool, 1024)

	resp := svc.Compile(`\documentclass{article}`)
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.FailureKind != model.KindCompilerFailure {
		t.Fatalf("kind = %s", resp.FailureKind)
	}
	if resp.Message == "" || resp.LogExcerpt != "! Emergency stop" {
		t.Fatalf("diagnostics lost: %+v", resp)
	}
}

func TestCompile_DistinctRequestIDs(t *testing.T) {
	pool := &stubPool{result: executor.Result{Artifact: []byte("x"), ArtifactSize: 1}}
	svc := NewCompileService(pool, 1024)

	a := svc.Compile("doc")
	b := svc.Compile("doc")
	if a.RequestID == b.RequestID {
		t.Fatal("request ids must be unique per request")
	}
}
