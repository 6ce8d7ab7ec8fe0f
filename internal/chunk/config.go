package chunk

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ManifestName is the conventional project manifest file name.
const ManifestName = "workpack.toml"

// ErrManifestMissing indicates there is no workpack.toml at the given path.
var ErrManifestMissing = errors.New("manifest not found")

// Config is the parsed workpack.toml.
type Config struct {
	Env   envSection   `toml:"env"`
	Build buildSection `toml:"build"`
}

type envSection struct {
	ChunkLoading string `toml:"chunk_loading"`
}

type buildSection struct {
	ImportExternals bool   `toml:"import_externals"`
	ChunkBase       string `toml:"chunk_base"`
}

// LoadConfig parses a workpack.toml. A missing file yields defaults and
// ErrManifestMissing so callers can treat the manifest as optional.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, ErrManifestMissing
		}
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// Environment materializes the config into a chunking environment.
func (c Config) Environment() (*Environment, error) {
	loading, err := ParseLoading(c.Env.ChunkLoading)
	if err != nil {
		return nil, err
	}
	return &Environment{
		Loading:   loading,
		Base:      c.Build.ChunkBase,
		Externals: c.Build.ImportExternals,
	}, nil
}
