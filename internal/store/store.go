// Package store is the C4 artifact store: a strictly-typed, atomically
// persisted, schema-hash-checked home for every pipeline artifact, laid out
// as <root>/<task_id>/<artifact_name>.json.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcohefti/moneyrecipe/internal/perr"
	"github.com/marcohefti/moneyrecipe/internal/schema"
	"github.com/marcohefti/moneyrecipe/internal/slug"
)

// Store is a process-wide artifact root. It carries no other state: the
// per-task directory is single-writer by construction, so no locking is
// needed here (see the concurrency design).
type Store struct {
	root string
}

// New returns a Store rooted at root, creating it (mode 0700) if absent.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, perr.New(perr.PathUnsafe, "artifact store root must not be empty")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) artifactPath(taskID, artifactName string) (string, error) {
	if !slug.ValidComponent(taskID) {
		return "", perr.NewPath(perr.PathUnsafe, "invalid task_id", taskID)
	}
	if !slug.ValidComponent(artifactName) {
		return "", perr.NewPath(perr.PathUnsafe, "invalid artifact_name", artifactName)
	}
	return filepath.Join(s.root, taskID, artifactName+".json"), nil
}

// Save stamps v with its type's compile-time schema hash and atomically
// persists it.
func (s *Store) Save(taskID, artifactName string, v schema.Artifact) error {
	path, err := s.artifactPath(taskID, artifactName)
	if err != nil {
		return err
	}
	v.SetSchemaHash(schema.HashFor(v.ArtifactType()))

	raw, err := canonicalSorted(v)
	if err != nil {
		return perr.NewPath(perr.MalformedJSON, err.Error(), path)
	}
	if err := schema.Validate(v.ArtifactType(), raw); err != nil {
		return perr.NewPath(perr.Validation, err.Error(), path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return WriteFileAtomic(path, raw, 0o600)
}

// Load reads the artifact at <taskID>/<artifactName> into out, which must be
// a pointer to the concrete artifact type out.ArtifactType() names. Reading
// refuses to follow a symlink, rejects a schema_hash mismatch, and rejects
// an unknown top-level field, all before decoding into out.
func (s *Store) Load(taskID, artifactName string, out schema.Artifact) error {
	path, err := s.artifactPath(taskID, artifactName)
	if err != nil {
		return err
	}

	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return perr.NewPath(perr.PathUnsafe, "artifact does not exist", path)
		}
		return err
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return perr.NewPath(perr.PathUnsafe, "refusing to follow symlink", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return perr.NewPath(perr.MalformedJSON, err.Error(), path)
	}
	storedHash, _ := generic["schema_hash"].(string)
	wantHash := schema.HashFor(out.ArtifactType())
	if storedHash != wantHash {
		return perr.NewPath(perr.SchemaMismatch, fmt.Sprintf("stored schema_hash %q != compile-time hash %q", storedHash, wantHash), path)
	}

	if err := schema.Validate(out.ArtifactType(), data); err != nil {
		return perr.NewPath(perr.Validation, err.Error(), path)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return perr.NewPath(perr.MalformedJSON, err.Error(), path)
	}
	return nil
}

// Exists reports whether an artifact is already present for taskID/artifactName.
func (s *Store) Exists(taskID, artifactName string) bool {
	path, err := s.artifactPath(taskID, artifactName)
	if err != nil {
		return false
	}
	_, err = os.Lstat(path)
	return err == nil
}
