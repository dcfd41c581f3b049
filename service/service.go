package service

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"texengine/executor"
	"texengine/model"
)

var (
	ErrEmptySource    = errors.New("source text is empty")
	ErrInvalidUTF8    = errors.New("source text is not valid UTF-8")
	ErrSourceTooLarge = errors.New("source text exceeds maximum length")
)

// Submitter is the slice of the worker pool the service needs.
type Submitter interface {
	Submit(requestID, source string) executor.Result
}

// CompileService validates a compile request and turns the executor's result
// into the wire response. Every failure kind is converted to a response here;
// nothing propagates to the transports as a fault.
type CompileService struct {
	pool           Submitter
	maxSourceBytes int
}

func NewCompileService(pool Submitter, maxSourceBytes int) *CompileService {
	if maxSourceBytes <= 0 {
		maxSourceBytes = 1 << 20
	}
	return &CompileService{
		pool:           pool,
		maxSourceBytes: maxSourceBytes,
	}
}

func (s *CompileService) Compile(sourceText string) *model.CompileResponse {
	requestID := uuid.NewString()
	start := time.Now()

	if sourceText == "" {
		return failureResponse(requestID, model.KindInvalidInput, ErrEmptySource.Error(), "", start)
	}
	if !utf8.ValidString(sourceText) {
		return failureResponse(requestID, model.KindInvalidInput, ErrInvalidUTF8.Error(), "", start)
	}
	if len(sourceText) > s.maxSourceBytes {
		msg := fmt.Sprintf("%s: %d bytes, limit is %d", ErrSourceTooLarge, len(sourceText), s.maxSourceBytes)
		return failureResponse(requestID, model.KindInputTooLarge, msg, "", start)
	}
	if err := SanitizeSource(sourceText); err != nil {
		return failureResponse(requestID, model.KindInvalidInput, err.Error(), "", start)
	}

	result := s.pool.Submit(requestID, sourceText)
	if result.Err != nil {
		f := executor.FailureOf(result.Err)
		return failureResponse(requestID, f.Kind, f.Message, f.LogExcerpt, start)
	}

	return &model.CompileResponse{
		Success:      true,
		Artifact:     result.Artifact,
		ArtifactSize: result.ArtifactSize,
		Duration:     time.Since(start).String(),
		RequestID:    requestID,
	}
}

func failureResponse(requestID string, kind model.FailureKind, message, excerpt string, start time.Time) *model.CompileResponse {
	return &model.CompileResponse{
		Success:     false,
		FailureKind: kind,
		Message:     message,
		LogExcerpt:  excerpt,
		Duration:    time.Since(start).String(),
		RequestID:   requestID,
	}
}
