package model

// CompileRequest is the single message the editor surface sends across the
// execution boundary: the full source text, nothing else.
type CompileRequest struct {
	SourceText string `json:"source_text" binding:"required"`
}

// FailureKind classifies why a compile did not produce an artifact.
type FailureKind string

const (
	// KindEnvironmentError covers scratch directory / file I/O failures.
	KindEnvironmentError FailureKind = "environment_error"
	// KindCompilerFailure means the compiler ran and exited non-zero.
	KindCompilerFailure FailureKind = "compiler_failure"
	// KindOutputMissing means the compiler exited zero but left no artifact.
	KindOutputMissing FailureKind = "output_missing"
	// KindTimeout means the compiler exceeded its execution bound and was killed.
	KindTimeout FailureKind = "timeout"
	// KindInputTooLarge means the source exceeded the configured size ceiling.
	KindInputTooLarge FailureKind = "input_too_large"
	// KindInvalidInput covers empty or non-UTF-8 source and rejected primitives.
	KindInvalidInput FailureKind = "invalid_input"
	// KindQueueFull means the executor's job queue had no free capacity.
	KindQueueFull FailureKind = "queue_full"
)

// CompileResponse is the flattened Success/Failure union returned for every
// request. On success Artifact, ArtifactSize and Duration are set; on failure
// FailureKind, Message and, when the compiler produced any diagnostics,
// LogExcerpt.
type CompileResponse struct {
	Success      bool        `json:"success"`
	Artifact     []byte      `json:"artifact,omitempty"`
	ArtifactSize int         `json:"artifact_size,omitempty"`
	FailureKind  FailureKind `json:"failure_kind,omitempty"`
	Message      string      `json:"message,omitempty"`
	LogExcerpt   string      `json:"log_excerpt,omitempty"`
	Duration     string      `json:"duration,omitempty"`
	RequestID    string      `json:"request_id,omitempty"`
}
