// texc is the editor-side command line client: it loads a .tex file into a
// Surface, triggers one compile against a running texengine server and writes
// the PDF artifact next to the input.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"texengine/editor"
	"texengine/model"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "texengine server base URL")
	output := flag.String("o", "", "output PDF path (default: input name with .pdf)")
	timeout := flag.Duration("timeout", 2*time.Minute, "request timeout")
	clear := flag.Bool("clear-on-failure", false, "drop the previous artifact when a compile fails")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: texc [flags] <input.tex | ->")
		os.Exit(2)
	}
	input := flag.Arg(0)

	source, err := readSource(input)
	if err != nil {
		color.Red("cannot read %s: %v", input, err)
		os.Exit(1)
	}

	policy := editor.KeepArtifactOnFailure
	if *clear {
		policy = editor.ClearArtifactOnFailure
	}

	client := &http.Client{Timeout: *timeout}
	surface := editor.NewSurface(func(sourceText string) *model.CompileResponse {
		return compileRemote(client, *server, sourceText)
	}, policy)

	surface.SetSourceText(source)
	if _, err := surface.RequestCompile(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	upd := <-surface.Updates()

	resp := upd.Response
	if !resp.Success {
		color.Red("compile failed (%s): %s", resp.FailureKind, resp.Message)
		if resp.LogExcerpt != "" {
			color.Yellow("%s", resp.LogExcerpt)
		}
		os.Exit(1)
	}

	outPath := *output
	if outPath == "" {
		outPath = outputPath(input)
	}
	artifact, size := surface.Artifact()
	if err := os.WriteFile(outPath, artifact, 0o644); err != nil {
		color.Red("cannot write %s: %v", outPath, err)
		os.Exit(1)
	}
	color.Green("compiled %d bytes -> %s (%s)", size, outPath, resp.Duration)
}

func readSource(input string) (string, error) {
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(input)
	return string(data), err
}

func outputPath(input string) string {
	if input == "-" {
		return "texc.pdf"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
}

// compileRemote performs the single compileSource call over HTTP. Transport
// errors are folded into the same response union the server returns, so the
// surface never sees a fault.
func compileRemote(client *http.Client, server, sourceText string) *model.CompileResponse {
	body, err := json.Marshal(model.CompileRequest{SourceText: sourceText})
	if err != nil {
		return transportFailure(err)
	}

	resp, err := client.Post(server+"/compile", "application/json", bytes.NewReader(body))
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()

	var out model.CompileResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return transportFailure(fmt.Errorf("bad response from server: %w", err))
	}
	return &out
}

func transportFailure(err error) *model.CompileResponse {
	return &model.CompileResponse{
		Success:     false,
		FailureKind: model.KindEnvironmentError,
		Message:     err.Error(),
	}
}
