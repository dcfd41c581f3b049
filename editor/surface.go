// Package editor holds the surface-side half of the compile protocol: an
// in-memory source buffer, a single-in-flight request latch, and asynchronous
// delivery of the most recent result.
package editor

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"texengine/model"
)

// ErrCompileInFlight is returned when RequestCompile is called while a
// previous request is still outstanding. The surface's policy is to reject
// concurrent triggers: the user re-triggers explicitly once the pending
// compile resolves.
var ErrCompileInFlight = errors.New("a compile is already in flight")

// CompileFunc performs one blocking compile of the given source text. The
// surface calls it on its own goroutine so the caller stays responsive.
type CompileFunc func(sourceText string) *model.CompileResponse

// FailurePolicy controls what happens to the displayed artifact when a
// compile fails.
type FailurePolicy int

const (
	// KeepArtifactOnFailure leaves the previously rendered artifact visible
	// next to the failure diagnostics.
	KeepArtifactOnFailure FailurePolicy = iota
	// ClearArtifactOnFailure drops the stale artifact so only the failure is
	// shown.
	ClearArtifactOnFailure
)

// Update is delivered once per accepted request.
type Update struct {
	Token    string
	Response *model.CompileResponse
}

// Surface owns the current source buffer and the display state derived from
// the most recent compile result. All methods are safe for concurrent use.
type Surface struct {
	mu           sync.Mutex
	buffer       string
	busy         bool
	token        string
	artifact     []byte
	artifactSize int
	failMessage  string
	failExcerpt  string

	policy  FailurePolicy
	compile CompileFunc
	updates chan Update
}

func NewSurface(compile CompileFunc, policy FailurePolicy) *Surface {
	return &Surface{
		policy:  policy,
		compile: compile,
		updates: make(chan Update, 1),
	}
}

// SetSourceText replaces the in-memory buffer. No validation, no side effects.
func (s *Surface) SetSourceText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = text
}

// SourceText returns the current buffer contents.
func (s *Surface) SourceText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Busy reports whether a request is outstanding.
func (s *Surface) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// RequestCompile snapshots the buffer, packages it as a request and runs the
// compile on a background goroutine. It returns the request token, or
// ErrCompileInFlight while a previous request is outstanding. Exactly one
// Update is delivered on Updates for each accepted request.
func (s *Surface) RequestCompile() (string, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return "", ErrCompileInFlight
	}
	s.busy = true
	token := uuid.NewString()
	s.token = token
	source := s.buffer
	s.mu.Unlock()

	go func() {
		s.deliver(token, s.compile(source))
	}()
	return token, nil
}

// CancelPending releases the latch without waiting for the outstanding
// compile. The abandoned request's late response is discarded when it
// arrives; its token no longer matches.
func (s *Surface) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.busy {
		return
	}
	s.busy = false
	s.token = ""
}

// Updates delivers one Update per accepted request, in request order.
func (s *Surface) Updates() <-chan Update {
	return s.updates
}

// Artifact returns the currently displayed artifact and its byte size.
func (s *Surface) Artifact() ([]byte, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifact, s.artifactSize
}

// LastFailure returns the displayed failure message and log excerpt, both
// empty after a successful compile.
func (s *Surface) LastFailure() (message, logExcerpt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failMessage, s.failExcerpt
}

func (s *Surface) deliver(token string, resp *model.CompileResponse) {
	s.mu.Lock()
	if token != s.token {
		// A newer request owns the display; this response is stale.
		s.mu.Unlock()
		return
	}
	s.busy = false
	if resp.Success {
		s.artifact = resp.Artifact
		s.artifactSize = resp.ArtifactSize
		s.failMessage = ""
		s.failExcerpt = ""
	} else {
		s.failMessage = resp.Message
		s.failExcerpt = resp.LogExcerpt
		if s.policy == ClearArtifactOnFailure {
			s.artifact = nil
			s.artifactSize = 0
		}
	}
	s.mu.Unlock()

	s.updates <- Update{Token: token, Response: resp}
}
