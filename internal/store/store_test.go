package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcohefti/moneyrecipe/internal/model"
	"github.com/marcohefti/moneyrecipe/internal/perr"
	"github.com/marcohefti/moneyrecipe/internal/store"
)

func newSignalSet() *model.SignalSet {
	return &model.SignalSet{
		Recording: model.SessionRecording{
			Task:   "find the jobs api",
			Result: "found it",
		},
		Signals: []model.RequestSignal{
			{URL: "https://api.example.com/search", Method: "GET", Status: 200},
		},
	}
}

func TestSaveLoad_RoundTrips(t *testing.T) {
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in := newSignalSet()
	if err := s.Save("task-1", "signals", in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := &model.SignalSet{}
	if err := s.Load("task-1", "signals", out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Recording.Task != in.Recording.Task {
		t.Fatalf("task mismatch: got %q want %q", out.Recording.Task, in.Recording.Task)
	}
	if out.GetSchemaHash() == "" {
		t.Fatalf("expected schema hash to be populated")
	}
}

func TestSave_PermissionsArePrivate(t *testing.T) {
	root := t.TempDir()
	s, err := store.New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save("task-1", "signals", newSignalSet()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fi, err := os.Stat(filepath.Join(root, "task-1", "signals.json"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("expected file mode 0600, got %o", fi.Mode().Perm())
	}
}

func TestLoad_RejectsInvalidTaskID(t *testing.T) {
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = s.Load("../escape", "signals", &model.SignalSet{})
	if !perr.Is(err, perr.PathUnsafe) {
		t.Fatalf("expected PathUnsafe, got %v", err)
	}
}

func TestLoad_RejectsSymlink(t *testing.T) {
	root := t.TempDir()
	s, err := store.New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save("task-1", "signals", newSignalSet()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	real := filepath.Join(root, "task-1", "signals.json")
	linked := filepath.Join(root, "task-1", "linked.json")
	if err := os.Symlink(real, linked); err != nil {
		t.Skipf("symlinks unsupported on this filesystem: %v", err)
	}

	err = s.Load("task-1", "linked", &model.SignalSet{})
	if !perr.Is(err, perr.PathUnsafe) {
		t.Fatalf("expected PathUnsafe for symlinked artifact, got %v", err)
	}
}

func TestLoad_RejectsSchemaHashMismatch(t *testing.T) {
	root := t.TempDir()
	s, err := store.New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Save("task-1", "signals", newSignalSet()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(root, "task-1", "signals.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	tampered := []byte(`{"recording":{},"signals":[],"schema_hash":"not-a-real-hash"}`)
	_ = raw
	if err := os.WriteFile(path, tampered, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err = s.Load("task-1", "signals", &model.SignalSet{})
	if !perr.Is(err, perr.SchemaMismatch) {
		t.Fatalf("expected SchemaMismatch, got %v", err)
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	root := t.TempDir()
	s, err := store.New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in := newSignalSet()
	if err := s.Save("task-1", "signals", in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(root, "task-1", "signals.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	hash := in.GetSchemaHash()
	tampered := []byte(`{"recording":{},"signals":[],"schema_hash":"` + hash + `","bogus_field":1}`)
	_ = raw
	if err := os.WriteFile(path, tampered, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err = s.Load("task-1", "signals", &model.SignalSet{})
	if err == nil {
		t.Fatalf("expected an error for an unknown top-level field")
	}
}
