package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteFileAtomic writes b to path via a same-directory temp file created
// with exclusive-create, fsyncs it, then renames it over path. The temp file
// is always created with perm so the final file never exists with looser
// permissions even momentarily. Exported so other stores with their own
// on-disk layout (the recipe store) can share the same write discipline.
func WriteFileAtomic(path string, b []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp-%d", path, time.Now().UnixNano())
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(tmp)
	}()

	if _, err := f.Write(b); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return replaceFile(tmp, path)
}
