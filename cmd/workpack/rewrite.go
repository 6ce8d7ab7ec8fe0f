package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"workpack/internal/chunk"
	"workpack/internal/diag"
	"workpack/internal/diagfmt"
	"workpack/internal/driver"
	"workpack/internal/observ"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [flags] [dir]",
	Short: "Rewrite new Worker(<url>) sites into loader imports",
	Long: `Rewrite scans every *.js/*.mjs file under the directory, resolves each
new Worker(<url>) construction, and rewrites it into a loader import
expression. Without --write it is a dry run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().Bool("write", false, "rewrite files in place")
	rewriteCmd.Flags().String("config", "", "path to workpack.toml (default <dir>/workpack.toml)")
	rewriteCmd.Flags().Bool("cache", false, "persist resolve results in the user cache directory")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cacheEnabled, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	jobs, _ := cmd.Root().PersistentFlags().GetInt("jobs")
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	// Манифест необязателен: без него действуют браузерные умолчания.
	if configPath == "" {
		configPath = filepath.Join(dir, chunk.ManifestName)
	}
	cfg, err := chunk.LoadConfig(configPath)
	if err != nil && !errors.Is(err, chunk.ErrManifestMissing) {
		return err
	}
	env, err := cfg.Environment()
	if err != nil {
		return err
	}

	tracer, err := setupTracing(cmd)
	if err != nil {
		return err
	}

	var diskCache *driver.DiskCache
	if cacheEnabled {
		diskCache, err = driver.OpenDiskCache("workpack")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	var timer *observ.Timer
	if timings {
		timer = observ.NewTimer()
	}

	fileSet, results, err := driver.RewriteDir(cmd.Context(), driver.Options{
		Root:           dir,
		Env:            env,
		DiskCache:      diskCache,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Write:          write,
		Tracer:         tracer,
		Timer:          timer,
	})
	if err != nil {
		return fmt.Errorf("rewrite failed: %w", err)
	}

	// Сливаем все диагностики и печатаем в stderr
	merged := diag.NewBag(maxDiagnostics)
	for _, r := range results {
		merged.Merge(r.Bag)
	}
	merged.Sort()
	if merged.Len() > 0 {
		opts := diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
		}
		diagfmt.Pretty(os.Stderr, merged, fileSet, opts)
	}

	changed, sites := 0, 0
	for _, r := range results {
		sites += r.Sites
		if !r.Changed {
			continue
		}
		changed++
		if quiet {
			continue
		}
		if write {
			fmt.Fprintf(cmd.OutOrStdout(), "rewrote %s (%d sites)\n", r.Path, r.Sites)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "would rewrite %s (%d sites)\n", r.Path, r.Sites)
		}
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%d sites in %d files\n", sites, changed)
	}

	if timer != nil {
		timer.Report(cmd.ErrOrStderr())
	}
	if err := tracer.Flush(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
	}

	if merged.HasErrors() {
		return fmt.Errorf("rewrite finished with errors")
	}
	return nil
}
