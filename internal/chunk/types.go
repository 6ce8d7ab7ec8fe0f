// Package chunk models how resolved modules are delivered to the runtime:
// the chunking type of a reference, the target environment's chunk-loading
// capability, and the pattern mapping that turns a resolved target into a
// concrete import expression.
package chunk

import (
	"fmt"
	"strings"
)

// ChunkingType classifies how a reference's target joins the chunk graph.
type ChunkingType uint8

const (
	// TypeParallel bundles the target into the referencing chunk group.
	TypeParallel ChunkingType = iota
	// TypeAsync schedules the target as a separately loaded async chunk.
	// Worker scripts are always async: their code must never be inlined
	// into the referencing chunk.
	TypeAsync
)

func (t ChunkingType) String() string {
	switch t {
	case TypeParallel:
		return "parallel"
	case TypeAsync:
		return "async"
	}
	return "unknown"
}

// Loading describes the target runtime's chunk-loading capability.
type Loading uint8

const (
	// LoadingBrowser loads chunks with script tags / fetch.
	LoadingBrowser Loading = iota
	// LoadingNode loads chunks through the module system.
	LoadingNode
	// LoadingEdge is the restricted edge runtime: no dynamic chunk fetch,
	// worker code must be addressed as a graph-local chunk item.
	LoadingEdge
)

func (l Loading) String() string {
	switch l {
	case LoadingBrowser:
		return "browser"
	case LoadingNode:
		return "node"
	case LoadingEdge:
		return "edge"
	}
	return "unknown"
}

// ParseLoading converts a config string to a Loading mode.
func ParseLoading(s string) (Loading, error) {
	switch strings.ToLower(s) {
	case "browser", "":
		return LoadingBrowser, nil
	case "node":
		return LoadingNode, nil
	case "edge":
		return LoadingEdge, nil
	default:
		return LoadingBrowser, fmt.Errorf("unknown chunk_loading %q (want browser|node|edge)", s)
	}
}

// LoaderKind selects the pattern used to address the worker's code.
type LoaderKind uint8

const (
	// LoaderAsyncChunk addresses the code as an externally fetched chunk.
	LoaderAsyncChunk LoaderKind = iota
	// LoaderChunkItem addresses the code as a graph-local chunk item.
	LoaderChunkItem
)

func (k LoaderKind) String() string {
	switch k {
	case LoaderAsyncChunk:
		return "async-chunk"
	case LoaderChunkItem:
		return "chunk-item"
	}
	return "unknown"
}
