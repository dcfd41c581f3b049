package executor

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
)

// ContainerPool is the slice of the ContainerManager the runner needs.
type ContainerPool interface {
	GetAvailableContainer() (string, error)
	SetContainerState(containerID string, state ContainerState)
	RemoveContainer(containerID string)
	StartContainer() error
}

// DockerRunner compiles inside a sandbox container from the manager's pool.
// The host prepares the scratch directory; the container sees it under
// /scratch through the bind mount, so the artifact lands where the Compiler
// expects it.
type DockerRunner struct {
	Manager ContainerPool
	Bin     string
}

func (r *DockerRunner) Run(ctx context.Context, scratchDir, inputFile string) (string, error) {
	containerID, err := r.Manager.GetAvailableContainer()
	if err != nil {
		return "", err
	}

	workdir := "/scratch/" + filepath.Base(scratchDir)
	args := append(
		[]string{"exec", "-w", workdir, containerID, r.Bin},
		GetProfile(r.Bin).Args(inputFile)...,
	)
	cmd := exec.CommandContext(ctx, "docker", args...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		// Killing the exec client does not kill the engine inside the
		// sandbox. Replace the container rather than handing it out again
		// with the runaway process still in it.
		r.Manager.RemoveContainer(containerID)
		r.Manager.StartContainer()
		return output.String(), runErr
	}

	r.Manager.SetContainerState(containerID, StateIdle)
	return output.String(), runErr
}
