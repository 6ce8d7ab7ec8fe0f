package resolve

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"workpack/internal/diag"
	"workpack/internal/source"
)

// probeExtensions is the extension order tried for extensionless requests.
var probeExtensions = []string{"", ".js", ".mjs", ".ts"}

// DirResolver resolves relative requests against the origin file's directory
// on disk. Worker URLs are same-package by policy, so bare and absolute
// specifiers fail here.
type DirResolver struct {
	// Root is the project root; resolved targets are reported relative to it.
	Root string
}

func NewDirResolver(root string) *DirResolver {
	return &DirResolver{Root: root}
}

// Resolve implements Resolver. origin is the referencing file's path relative
// to Root (absolute paths under Root are accepted and normalized); request is
// the textual argument of the construction.
func (r *DirResolver) Resolve(origin, request string, kind Kind, issue source.Span, sev diag.Severity, rep diag.Reporter) Result {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	origin = r.relOrigin(origin)

	if !strings.HasPrefix(request, "./") && !strings.HasPrefix(request, "../") {
		rep.Report(diag.ResolveBadRequest, sev, issue,
			fmt.Sprintf("cannot resolve %s %q: worker URLs must be relative", kind, request), nil)
		return Result{}
	}

	base := path.Dir(origin)
	joined := path.Join(base, request)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		rep.Report(diag.ResolveBadRequest, sev, issue,
			fmt.Sprintf("cannot resolve %q: escapes the project root", request), nil)
		return Result{}
	}

	for _, ext := range probeExtensions {
		candidate := joined + ext
		full := filepath.Join(r.Root, filepath.FromSlash(candidate))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		return Result{Targets: []Target{{Path: candidate}}}
	}

	rep.Report(diag.ResolveFailed, sev, issue,
		fmt.Sprintf("cannot resolve %q from %q", request, origin), nil)
	return Result{}
}

func (r *DirResolver) relOrigin(origin string) string {
	if !filepath.IsAbs(origin) {
		return origin
	}
	rel, err := filepath.Rel(r.Root, filepath.FromSlash(origin))
	if err != nil || strings.HasPrefix(rel, "..") {
		return origin
	}
	return filepath.ToSlash(rel)
}
