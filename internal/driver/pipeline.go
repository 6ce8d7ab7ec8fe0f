// Package driver orchestrates the rewrite pipeline over a project directory:
// list sources, load them into a FileSet, then scan, resolve, and rewrite
// every file in parallel. Per-file results carry their own diagnostics bag so
// one broken file never poisons the others.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"workpack/internal/ast"
	"workpack/internal/chunk"
	"workpack/internal/codegen"
	"workpack/internal/diag"
	"workpack/internal/memo"
	"workpack/internal/observ"
	"workpack/internal/resolve"
	"workpack/internal/scan"
	"workpack/internal/source"
	"workpack/internal/trace"
)

// memoCacheSize bounds the per-run resolve memo.
const memoCacheSize = 4096

// Options configures one pipeline run.
type Options struct {
	// Root is the project directory scanned for sources.
	Root string
	// Env is the chunking environment. Nil means browser defaults.
	Env *chunk.Environment
	// Resolver overrides the default directory resolver. Nil builds a
	// CachingResolver over Root.
	Resolver resolve.Resolver
	// DiskCache persists resolve results across runs. Optional.
	DiskCache *DiskCache
	// Jobs bounds parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each file's diagnostics bag.
	MaxDiagnostics int
	// Write rewrites files in place instead of keeping results in memory.
	Write bool
	// Tracer receives pipeline events. Nil means off.
	Tracer trace.Tracer
	// Timer records phase durations. Optional.
	Timer *observ.Timer
}

// FileResult содержит результат переписывания одного файла
type FileResult struct {
	Path    string        // Относительный путь к файлу
	FileID  source.FileID // ID файла в FileSet
	Bag     *diag.Bag     // Диагностики
	Sites   int           // Сколько сайтов new Worker(...) найдено
	Changed bool          // Был ли файл переписан
	Output  []byte        // Переписанное содержимое (nil, если без изменений)
}

// listSourceFiles возвращает отсортированный список *.js/*.mjs файлов,
// относительные slash-пути от root. node_modules пропускается.
func listSourceFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".js") || strings.HasSuffix(path, ".mjs") {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func joinRoot(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// RewriteDir rewrites every worker-instantiation site under opts.Root.
// Results come back in the listed (sorted) file order.
func RewriteDir(ctx context.Context, opts Options) (*source.FileSet, []FileResult, error) {
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	env := opts.Env
	if env == nil {
		env = &chunk.Environment{Loading: chunk.LoadingBrowser}
	}
	resolver := opts.Resolver
	if resolver == nil {
		mem, err := memo.New[resolve.Result](memoCacheSize)
		if err != nil {
			return nil, nil, fmt.Errorf("memo cache: %w", err)
		}
		resolver = NewCachingResolver(resolve.NewDirResolver(opts.Root), mem, opts.DiskCache)
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 256
	}

	tr.Emit(trace.Begin(trace.ScopeDriver, "rewrite-dir"))
	defer tr.Emit(trace.End(trace.ScopeDriver, "rewrite-dir"))

	var listIdx int
	if opts.Timer != nil {
		listIdx = opts.Timer.Begin("list")
	}
	files, err := listSourceFiles(opts.Root)
	if opts.Timer != nil {
		opts.Timer.EndWithNote(listIdx, fmt.Sprintf("%d files", len(files)))
	}
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(opts.Root)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Предзагружаем все файлы
	var loadIdx int
	if opts.Timer != nil {
		loadIdx = opts.Timer.Begin("load")
	}
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, rel := range files {
		fileID, loadErr := fileSet.Load(joinRoot(opts.Root, rel))
		if loadErr != nil {
			loadErrors[rel] = loadErr
			continue
		}
		fileIDs[rel] = fileID
	}
	if opts.Timer != nil {
		opts.Timer.End(loadIdx)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	var rewriteIdx int
	if opts.Timer != nil {
		rewriteIdx = opts.Timer.Begin("rewrite")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, rel := range files {
		i, rel := i, rel
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiagnostics)
			if loadErr, hadError := loadErrors[rel]; hadError {
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
					Primary:  source.Span{},
				})
				results[i] = FileResult{Path: rel, Bag: bag}
				return nil
			}

			fileID := fileIDs[rel]
			res, err := rewriteFile(opts, env, resolver, tr, rel, fileSet.Get(fileID), bag)
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			res.Path = rel
			res.FileID = fileID
			results[i] = res
			return nil
		})
	}

	err = g.Wait()
	if opts.Timer != nil {
		opts.Timer.End(rewriteIdx)
	}
	if err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// rewriteFile runs scan -> codegen -> render -> apply for one loaded file.
// rel is the file's root-relative path; descriptors carry it as origin so the
// resolver never re-joins an already root-prefixed path.
func rewriteFile(opts Options, env *chunk.Environment, resolver resolve.Resolver, tr trace.Tracer, rel string, file *source.File, bag *diag.Bag) (FileResult, error) {
	tr.Emit(trace.Begin(trace.ScopePass, "rewrite-file"))
	defer tr.Emit(trace.End(trace.ScopePass, "rewrite-file"))

	rep := diag.BagReporter{Bag: bag}
	exprs := ast.NewExprs(16)

	found := scan.File(file, exprs, rep, scan.Options{ImportExternals: env.ImportExternals(), Origin: rel})
	result := FileResult{Bag: bag, Sites: len(found)}
	if len(found) == 0 {
		return result, nil
	}

	patches := make([]codegen.Patch, 0, len(found))
	for _, ref := range found {
		patch, err := ref.CodeGeneration(exprs, env, chunk.DefaultMapper{}, resolver, rep, tr)
		if err != nil {
			return result, err
		}
		patches = append(patches, patch)
	}

	edits := codegen.Render(file, exprs, patches, rep)
	out, err := codegen.ApplyEdits(file.Content, edits)
	if err != nil {
		if errors.Is(err, codegen.ErrNoPatches) {
			return result, nil
		}
		return result, err
	}

	result.Changed = true
	result.Output = out

	if opts.Write {
		if err := os.WriteFile(filepath.FromSlash(file.Path), out, 0o644); err != nil {
			bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOWriteFileError,
				Message:  "failed to write file: " + err.Error(),
				Primary:  source.Span{File: file.ID},
			})
		}
	}
	return result, nil
}
