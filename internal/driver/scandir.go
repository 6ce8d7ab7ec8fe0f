package driver

import (
	"context"
	"fmt"

	"workpack/internal/ast"
	"workpack/internal/diag"
	"workpack/internal/scan"
	"workpack/internal/source"
	"workpack/internal/trace"
)

// SiteReport describes one discovered worker-instantiation site.
type SiteReport struct {
	Path    string      // относительный путь файла
	Span    source.Span // позиция конструирования
	Request string      // текстовый аргумент URL
	InTry   bool        // внутри try/catch
}

// ScanDir discovers every worker-instantiation site under opts.Root without
// rewriting anything. Sites come back in file order, files sorted.
func ScanDir(ctx context.Context, opts Options) (*source.FileSet, []SiteReport, *diag.Bag, error) {
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 256
	}

	tr.Emit(trace.Begin(trace.ScopeDriver, "scan-dir"))
	defer tr.Emit(trace.End(trace.ScopeDriver, "scan-dir"))

	files, err := listSourceFiles(opts.Root)
	if err != nil {
		return nil, nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(opts.Root)
	bag := diag.NewBag(maxDiagnostics)
	rep := diag.BagReporter{Bag: bag}

	var sites []SiteReport
	for _, rel := range files {
		select {
		case <-ctx.Done():
			return fileSet, sites, bag, ctx.Err()
		default:
		}

		fileID, loadErr := fileSet.Load(joinRoot(opts.Root, rel))
		if loadErr != nil {
			bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOLoadFileError,
				Message:  fmt.Sprintf("failed to load %s: %v", rel, loadErr),
			})
			continue
		}

		exprs := ast.NewExprs(16)
		for _, ref := range scan.File(fileSet.Get(fileID), exprs, rep, scan.Options{Origin: rel}) {
			sites = append(sites, SiteReport{
				Path:    rel,
				Span:    ref.IssueSpan,
				Request: ref.Request,
				InTry:   ref.InTry,
			})
		}
	}
	return fileSet, sites, bag, nil
}
