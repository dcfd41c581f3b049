package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	logrus "github.com/sirupsen/logrus"
)

// WorkerLabel marks sandbox containers owned by this service so that pool
// reconciliation and cleanup tooling can find them.
const WorkerLabel = "texengine.worker"

// ContainerState represents the current state of a sandbox container.
type ContainerState string

const (
	StateIdle  ContainerState = "idle"
	StateBusy  ContainerState = "busy"
	StateError ContainerState = "error"
)

// ContainerInfo holds information about a sandbox container.
type ContainerInfo struct {
	ID    string
	State ContainerState
}

// ContainerManager maintains a pool of TeX sandbox containers. Each container
// has the scratch root bind-mounted at /scratch and no network, so a compile
// inside the sandbox reads and writes the same per-request scratch directory
// the host prepares.
type ContainerManager struct {
	dockerClient *client.Client
	containers   map[string]*ContainerInfo
	mu           sync.Mutex
	logger       *logrus.Logger

	image       string
	scratchRoot string
	maxWorkers  int
	memory      int64
	nanoCPUs    int64

	shutdownChan chan struct{}
}

// NewContainerManager creates a new container manager.
func NewContainerManager(image, scratchRoot string, maxWorkers int, memory, nanoCPUs int64, logger *logrus.Logger) (*ContainerManager, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %v", err)
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &ContainerManager{
		dockerClient: dockerClient,
		containers:   make(map[string]*ContainerInfo),
		logger:       logger,
		image:        image,
		scratchRoot:  scratchRoot,
		maxWorkers:   maxWorkers,
		memory:       memory,
		nanoCPUs:     nanoCPUs,
		shutdownChan: make(chan struct{}),
	}, nil
}

// InitializePool ensures the correct number of sandbox containers are running.
func (cm *ContainerManager) InitializePool() error {
	containers, err := cm.listWorkers(context.Background())
	if err != nil {
		cm.logger.Errorf("failed to list containers: %v", err)
		return fmt.Errorf("failed to list containers: %v", err)
	}

	// Register existing sandbox containers.
	for _, c := range containers {
		state := StateIdle
		if c.State != "running" {
			state = StateError
		}
		cm.mu.Lock()
		cm.containers[c.ID] = &ContainerInfo{ID: c.ID, State: state}
		cm.mu.Unlock()
		cm.logger.Printf("Found existing sandbox container: %s (state: %s)", shortID(c.ID), state)
	}

	cm.mu.Lock()
	currentCount := len(cm.containers)
	cm.mu.Unlock()

	if currentCount > cm.maxWorkers {
		cm.logger.Printf("Found %d sandbox containers, removing excess...", currentCount)
		cm.removeExcess(currentCount - cm.maxWorkers)
	} else if currentCount < cm.maxWorkers {
		cm.logger.Printf("Only %d sandbox containers found, creating %d more...", currentCount, cm.maxWorkers-currentCount)
		for i := 0; i < cm.maxWorkers-currentCount; i++ {
			if err := cm.StartContainer(); err != nil {
				cm.logger.Printf("Failed to start container: %v", err)
			}
		}
	}

	cm.mu.Lock()
	count := len(cm.containers)
	cm.mu.Unlock()
	if count == 0 {
		return errors.New("failed to initialize container pool")
	}
	return nil
}

func (cm *ContainerManager) listWorkers(ctx context.Context) ([]types.Container, error) {
	f := filters.NewArgs(filters.Arg("label", WorkerLabel))
	return cm.dockerClient.ContainerList(ctx, container.ListOptions{All: true, Filters: f})
}

// StartContainer creates and starts a new sandbox container.
func (cm *ContainerManager) StartContainer() error {
	ctx := context.Background()

	cm.mu.Lock()
	containerCount := len(cm.containers)
	cm.mu.Unlock()
	if containerCount >= cm.maxWorkers {
		cm.logger.Printf("Already have %d containers, not starting new one", containerCount)
		return nil
	}

	config := &container.Config{
		Image:  cm.image,
		Cmd:    []string{"sleep", "infinity"},
		Labels: map[string]string{WorkerLabel: "1"},
	}
	hostConfig := &container.HostConfig{
		Binds: []string{cm.scratchRoot + ":/scratch"},
		Resources: container.Resources{
			Memory:   cm.memory,
			NanoCPUs: cm.nanoCPUs,
		},
		NetworkMode: "none",
	}

	resp, err := cm.dockerClient.ContainerCreate(ctx, config, hostConfig, nil, nil, "")
	if err != nil {
		return fmt.Errorf("failed to create container: %v", err)
	}

	if err := cm.dockerClient.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		cm.dockerClient.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return fmt.Errorf("failed to start container: %v", err)
	}

	cm.mu.Lock()
	cm.containers[resp.ID] = &ContainerInfo{ID: resp.ID, State: StateIdle}
	cm.mu.Unlock()

	cm.logger.Printf("Started new sandbox container: %s", shortID(resp.ID))
	return nil
}

// RemoveContainer removes a container from the pool.
func (cm *ContainerManager) RemoveContainer(containerID string) {
	ctx := context.Background()

	if err := cm.dockerClient.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		cm.logger.Printf("Failed to remove container %s: %v", shortID(containerID), err)
	} else {
		cm.logger.Printf("Removed container: %s", shortID(containerID))
	}

	cm.mu.Lock()
	delete(cm.containers, containerID)
	cm.mu.Unlock()
}

func (cm *ContainerManager) removeExcess(n int) {
	cm.mu.Lock()
	var ids []string
	for id, info := range cm.containers {
		if info.State != StateBusy {
			ids = append(ids, id)
		}
	}
	cm.mu.Unlock()

	for i := 0; i < n && i < len(ids); i++ {
		cm.RemoveContainer(ids[i])
	}
}

// GetAvailableContainer finds an idle sandbox container, retrying briefly when
// all of them are busy.
func (cm *ContainerManager) GetAvailableContainer() (string, error) {
	maxRetries := 10
	retryDelay := 200 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		cm.mu.Lock()
		for id, info := range cm.containers {
			if info.State == StateIdle {
				info.State = StateBusy
				cm.mu.Unlock()
				return id, nil
			}
		}
		cm.mu.Unlock()
		time.Sleep(retryDelay)
	}

	return "", errors.New("no available containers after retries")
}

// SetContainerState updates a container's state.
func (cm *ContainerManager) SetContainerState(containerID string, state ContainerState) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if info, exists := cm.containers[containerID]; exists {
		info.State = state
	}
}

// MonitorContainers checks container health periodically and replaces dead
// containers until shutdown.
func (cm *ContainerManager) MonitorContainers(wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cm.checkContainerHealth()
		case <-cm.shutdownChan:
			return
		}
	}
}

// checkContainerHealth ensures container health and correct count.
func (cm *ContainerManager) checkContainerHealth() {
	containers, err := cm.listWorkers(context.Background())
	if err != nil {
		cm.logger.Printf("Failed to list containers: %v", err)
		return
	}

	running := make(map[string]bool)
	for _, c := range containers {
		if c.State == "running" {
			running[c.ID] = true
		}
	}

	cm.mu.Lock()
	var toRemove []string
	for id := range cm.containers {
		if !running[id] {
			cm.logger.Printf("Container %s not running, marking for removal", shortID(id))
			toRemove = append(toRemove, id)
		}
	}
	currentCount := len(cm.containers) - len(toRemove)
	cm.mu.Unlock()

	for _, id := range toRemove {
		cm.RemoveContainer(id)
	}

	if currentCount < cm.maxWorkers {
		cm.logger.Printf("Container count (%d) below target (%d), starting replacements", currentCount, cm.maxWorkers)
		for i := 0; i < cm.maxWorkers-currentCount; i++ {
			if err := cm.StartContainer(); err != nil {
				cm.logger.Printf("Failed to start replacement container: %v", err)
			}
		}
	}
}

// Shutdown stops the monitor and removes all sandbox containers.
func (cm *ContainerManager) Shutdown() {
	close(cm.shutdownChan)

	cm.mu.Lock()
	ids := make([]string, 0, len(cm.containers))
	for id := range cm.containers {
		ids = append(ids, id)
	}
	cm.mu.Unlock()

	for _, id := range ids {
		cm.RemoveContainer(id)
	}
}

// shortID returns a shortened container ID for logging.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
