package chunk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, ManifestName)
	content := `
[env]
chunk_loading = "edge"

[build]
import_externals = true
chunk_base = "/static/chunks/"
`
	if err := os.WriteFile(manifest, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg, err := LoadConfig(manifest)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	env, err := cfg.Environment()
	if err != nil {
		t.Fatalf("Environment: %v", err)
	}
	if env.ChunkLoading() != LoadingEdge {
		t.Errorf("expected edge loading, got %v", env.ChunkLoading())
	}
	if !env.ImportExternals() {
		t.Error("expected import_externals to be true")
	}
	if env.ChunkBase() != "/static/chunks/" {
		t.Errorf("unexpected chunk base %q", env.ChunkBase())
	}
}

func TestLoadConfigMissingIsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, ManifestName))
	if !errors.Is(err, ErrManifestMissing) {
		t.Fatalf("expected ErrManifestMissing, got %v", err)
	}

	env, err := cfg.Environment()
	if err != nil {
		t.Fatalf("Environment: %v", err)
	}
	if env.ChunkLoading() != LoadingBrowser {
		t.Errorf("expected default browser loading, got %v", env.ChunkLoading())
	}
	if env.ImportExternals() {
		t.Error("expected import_externals default false")
	}
	if env.ChunkBase() != "/_chunks/" {
		t.Errorf("expected default chunk base, got %q", env.ChunkBase())
	}
}

func TestLoadConfigBadLoading(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(manifest, []byte("[env]\nchunk_loading = \"deno\"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg, err := LoadConfig(manifest)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := cfg.Environment(); err == nil {
		t.Error("expected error for unknown chunk_loading")
	}
}
