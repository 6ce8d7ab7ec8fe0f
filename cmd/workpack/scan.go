package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"workpack/internal/diagfmt"
	"workpack/internal/driver"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [dir]",
	Short: "List new Worker(<url>) sites without rewriting",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type sitePayload struct {
	Path    string `json:"path"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
	Request string `json:"request"`
	InTry   bool   `json:"in_try"`
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	tracer, err := setupTracing(cmd)
	if err != nil {
		return err
	}

	fileSet, sites, bag, err := driver.ScanDir(cmd.Context(), driver.Options{
		Root:           dir,
		MaxDiagnostics: maxDiagnostics,
		Tracer:         tracer,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	// Диагностики сканирования — в stderr
	if bag.HasErrors() || bag.HasWarnings() {
		bag.Sort()
		opts := diagfmt.PrettyOpts{
			Color:    useColor(cmd, os.Stderr),
			PathMode: diagfmt.PathModeRelative,
		}
		diagfmt.Pretty(os.Stderr, bag, fileSet, opts)
	}

	switch format {
	case "pretty":
		for _, s := range sites {
			start, _ := fileSet.Resolve(s.Span)
			suffix := ""
			if s.InTry {
				suffix = " (in try)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: new Worker %s%s\n", s.Path, start.Line, start.Col, s.Request, suffix)
		}
		return nil
	case "json":
		payload := make([]sitePayload, 0, len(sites))
		for _, s := range sites {
			start, _ := fileSet.Resolve(s.Span)
			payload = append(payload, sitePayload{
				Path:    s.Path,
				Line:    start.Line,
				Col:     start.Col,
				Request: s.Request,
				InTry:   s.InTry,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
