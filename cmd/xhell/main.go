package main

import (
	"fmt"
	"os"

	"github.com/xhell/xhell/internal/pipeline"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Pipeline stages re-execute this binary; they never reach cobra.
	if pipeline.IsStage() {
		a, err := newStageApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "xhell: %v\n", err)
			return 1
		}
		return exitCode(pipeline.RunStage(a.dispatcher))
	}

	status := 0
	if err := newRootCmd(&status).Execute(); err != nil {
		return 1
	}
	return exitCode(status)
}

// exitCode maps a shell status to a process exit code. StatusFailure, which
// is never a program's own code, becomes 1.
func exitCode(status int) int {
	if status < 0 {
		return 1
	}
	return status
}
