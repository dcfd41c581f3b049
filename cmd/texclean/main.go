// texclean cleans up after the service: stale scratch directories and
// leftover sandbox containers.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

func runCommand(command string, args ...string) {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: texclean <scratch|containers|list>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scratch":
		root := os.Getenv("SCRATCHROOT")
		if root == "" {
			root = filepath.Join(os.TempDir(), "texengine")
		}
		cleanScratch(root, time.Hour)
	case "containers":
		out, err := exec.Command("docker", "ps", "-aq", "--filter", "label=texengine.worker").Output()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		ids := strings.Fields(string(out))
		if len(ids) == 0 {
			fmt.Println("No sandbox containers found.")
			return
		}
		runCommand("docker", append([]string{"rm", "-f"}, ids...)...)
	case "list":
		runCommand("docker", "ps", "-a", "--filter", "label=texengine.worker")
	default:
		fmt.Println("Unknown command.")
		os.Exit(1)
	}
}

// cleanScratch removes per-request scratch directories older than maxAge.
// A running compile's directory is younger than that by construction.
func cleanScratch(root string, maxAge time.Duration) {
	entries, err := os.ReadDir(root)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < maxAge {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, e.Name())); err != nil {
			fmt.Printf("Error removing %s: %v\n", e.Name(), err)
			continue
		}
		removed++
	}
	fmt.Printf("Removed %d stale scratch directories.\n", removed)
}
