package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workpack/internal/trace"
)

// setupTracing inspects the --trace flag and returns the tracer to use.
func setupTracing(cmd *cobra.Command) (trace.Tracer, error) {
	levelStr, err := cmd.Root().PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		return trace.Nop, nil
	}
	return trace.NewStreamTracer(os.Stderr, level), nil
}
