package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	logrus "github.com/sirupsen/logrus"

	"texengine/model"
)

// inputFileName is the fixed source filename inside a scratch directory; the
// artifact name is derived from it by the engine profile.
const inputFileName = "input.tex"

// Runner invokes the compiler binary against a prepared scratch directory and
// returns its combined stdout/stderr. The error is the raw process error; the
// Compiler classifies it.
type Runner interface {
	Run(ctx context.Context, scratchDir, inputFile string) (string, error)
}

// CompilerOptions configures a Compiler.
type CompilerOptions struct {
	Bin           string
	ExtraArgs     []string
	ScratchRoot   string
	Timeout       time.Duration
	LogExcerptMax int
	Runner        Runner
	Logger        *logrus.Logger
}

// Compiler performs one full compile per call: write the source into an
// isolated scratch directory, run the engine, read back the artifact. Every
// call is an independent compile-from-scratch; scratch directories are
// uniquely named per request, so concurrent calls never share state.
type Compiler struct {
	bin         string
	scratchRoot string
	timeout     time.Duration
	logMax      int
	runner      Runner
	profile     Profile
	logger      *logrus.Logger
}

func NewCompiler(opts CompilerOptions) *Compiler {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.LogExcerptMax <= 0 {
		opts.LogExcerptMax = 8192
	}
	if opts.Runner == nil {
		opts.Runner = &LocalRunner{Bin: opts.Bin, ExtraArgs: opts.ExtraArgs}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Compiler{
		bin:         opts.Bin,
		scratchRoot: opts.ScratchRoot,
		timeout:     opts.Timeout,
		logMax:      opts.LogExcerptMax,
		runner:      opts.Runner,
		profile:     GetProfile(opts.Bin),
		logger:      opts.Logger,
	}
}

// Compile runs the full write -> compile -> read sequence for one request.
// The returned Result carries either the artifact or a *Failure in Err.
func (c *Compiler) Compile(ctx context.Context, requestID, source string) Result {
	start := time.Now()
	res := c.compile(ctx, requestID, source)
	res.Duration = time.Since(start)

	if res.Err != nil {
		c.logger.WithFields(logrus.Fields{
			"request":  requestID,
			"kind":     FailureOf(res.Err).Kind,
			"duration": res.Duration,
		}).Error("compile failed")
	} else {
		c.logger.WithFields(logrus.Fields{
			"request":  requestID,
			"size":     res.ArtifactSize,
			"duration": res.Duration,
		}).Debug("compile completed")
	}
	return res
}

func (c *Compiler) compile(ctx context.Context, requestID, source string) Result {
	scratch := filepath.Join(c.scratchRoot, requestID)
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return failure(model.KindEnvironmentError,
			fmt.Sprintf("could not create scratch directory: %v", err), "")
	}
	defer os.RemoveAll(scratch)

	inputPath := filepath.Join(scratch, inputFileName)
	if err := os.WriteFile(inputPath, []byte(source), 0o644); err != nil {
		return failure(model.KindEnvironmentError,
			fmt.Sprintf("could not write source file: %v", err), "")
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	output, err := c.runner.Run(runCtx, scratch, inputFileName)
	excerpt := TruncateLog(output, c.logMax)

	if runCtx.Err() == context.DeadlineExceeded {
		return failure(model.KindTimeout,
			fmt.Sprintf("compile timed out after %v", c.timeout), excerpt)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return failure(model.KindCompilerFailure,
				fmt.Sprintf("compiler exited with status %d", exitErr.ExitCode()), excerpt)
		}
		return failure(model.KindEnvironmentError,
			fmt.Sprintf("could not invoke compiler %q: %v", c.bin, err), excerpt)
	}

	outputPath := filepath.Join(scratch, c.profile.Output(inputFileName))
	if _, err := os.Stat(outputPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return failure(model.KindOutputMissing,
				"compiler reported success but produced no output file", excerpt)
		}
		return failure(model.KindEnvironmentError,
			fmt.Sprintf("could not stat output file: %v", err), excerpt)
	}

	artifact, err := os.ReadFile(outputPath)
	if err != nil {
		return failure(model.KindEnvironmentError,
			fmt.Sprintf("could not read output file: %v", err), excerpt)
	}

	return Result{Artifact: artifact, ArtifactSize: len(artifact), LogExcerpt: excerpt}
}

func failure(kind model.FailureKind, message, excerpt string) Result {
	return Result{
		LogExcerpt: excerpt,
		Err:        &Failure{Kind: kind, Message: message, LogExcerpt: excerpt},
	}
}

// TruncateLog bounds compiler output to max bytes, keeping the tail: LaTeX
// engines report the actual error at the end of the log.
func TruncateLog(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	const marker = "...(log truncated)...\n"
	if max <= len(marker) {
		return s[len(s)-max:]
	}
	return marker + s[len(s)-(max-len(marker)):]
}

// LocalRunner executes the compiler binary directly on the host with the
// scratch directory as its working directory.
type LocalRunner struct {
	Bin       string
	ExtraArgs []string
}

func (r *LocalRunner) Run(ctx context.Context, scratchDir, inputFile string) (string, error) {
	args := append(append([]string{}, r.ExtraArgs...), GetProfile(r.Bin).Args(inputFile)...)
	cmd := exec.CommandContext(ctx, r.Bin, args...)
	cmd.Dir = scratchDir

	output, err := cmd.CombinedOutput()
	return string(output), err
}
