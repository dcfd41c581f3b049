package executor

import (
	"time"

	"texengine/model"
)

// Job represents a single compile request travelling through the pool.
type Job struct {
	ID     string
	Source string
	Result chan Result
}

// Result contains the outcome of one compile: either the artifact bytes or a
// *Failure in Err. LogExcerpt carries bounded compiler diagnostics in both
// cases (a successful run may still warn).
type Result struct {
	Artifact     []byte
	ArtifactSize int
	LogExcerpt   string
	Duration     time.Duration
	Err          error
}

// Failure is the typed error every failed compile reduces to. It never
// escapes the service boundary as a fault; it is packaged into a response.
type Failure struct {
	Kind       model.FailureKind
	Message    string
	LogExcerpt string
}

func (f *Failure) Error() string {
	return f.Message
}

// FailureOf extracts the Failure from a compile error, synthesizing an
// environment failure for any error that is not already classified.
func FailureOf(err error) *Failure {
	if f, ok := err.(*Failure); ok {
		return f
	}
	return &Failure{Kind: model.KindEnvironmentError, Message: err.Error()}
}
