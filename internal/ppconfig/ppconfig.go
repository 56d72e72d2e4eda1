// Package ppconfig is the pipeline's only piece of ambient configuration: a
// tiny, schema-versioned per-project JSON document carrying the two paths
// every constructor in this repo otherwise takes as an explicit argument —
// the artifact store root and the recipe directory default. Loading it is
// owned by the (out-of-core-scope) CLI; pipeline packages never read it
// themselves, per the "no implicit singletons" design note.
package ppconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SchemaVersion is bumped whenever the on-disk shape of Config changes in a
// way old readers can't ignore.
const SchemaVersion = 1

// Config is the per-project configuration: artifact store root and recipe
// directory default, nothing else.
type Config struct {
	SchemaVersion   int    `json:"schema_version"`
	ArtifactRoot    string `json:"artifact_root"`
	RecipeDirectory string `json:"recipe_directory"`
}

// Default returns a Config rooted under baseDir, using the same "one
// project, one data root" convention as a fresh store.
func Default(baseDir string) Config {
	return Config{
		SchemaVersion:   SchemaVersion,
		ArtifactRoot:    filepath.Join(baseDir, "artifacts"),
		RecipeDirectory: filepath.Join(baseDir, "recipes"),
	}
}

// Load reads a Config from path. A missing file is not an error: it returns
// Default(filepath.Dir(path)) so a first run has somewhere to write.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(filepath.Dir(path)), nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.SchemaVersion == 0 {
		cfg.SchemaVersion = SchemaVersion
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON.
func Save(path string, cfg Config) error {
	if cfg.SchemaVersion == 0 {
		cfg.SchemaVersion = SchemaVersion
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
