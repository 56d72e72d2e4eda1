// Package recipe is the C12 recipe store: persistence of finalized recipes
// as human-readable, slug-keyed records, with pre-save safety validation
// distinct from the analyzer's. The SSRF-safe direct-execution helpers live
// in internal/ssrf; this package applies its domain-allowlist check on save.
package recipe

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"

	"github.com/marcohefti/moneyrecipe/internal/model"
	"github.com/marcohefti/moneyrecipe/internal/perr"
	"github.com/marcohefti/moneyrecipe/internal/sanitize"
	"github.com/marcohefti/moneyrecipe/internal/slug"
	"github.com/marcohefti/moneyrecipe/internal/ssrf"
	"github.com/marcohefti/moneyrecipe/internal/store"
)

var indexBucket = []byte("slugs")

// Store manages recipe storage: one YAML file per recipe under dir, plus a
// derived, rebuildable bbolt index mapping slug -> filename used to make the
// collision-policy lookup (§4.12) cheap without a directory scan. The YAML
// files remain the source of truth; New rebuilds the index from them every
// time the store is opened, never the other way around.
type Store struct {
	dir string
	idx *bbolt.DB
}

// New opens (creating if absent) a recipe store rooted at dir.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, perr.New(perr.PathUnsafe, "recipe store directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(filepath.Join(dir, ".index.bbolt"), 0o600, nil)
	if err != nil {
		return nil, err
	}
	s := &Store{dir: dir, idx: db}
	if err := s.rebuildIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the index handle.
func (s *Store) Close() error {
	return s.idx.Close()
}

func (s *Store) recipePath(fileSlug string) string {
	return filepath.Join(s.dir, fileSlug+".yaml")
}

// rebuildIndex repopulates the bbolt slug index from the on-disk *.yaml
// files. The index is a cache: if it is ever found inconsistent with the
// directory, the directory wins.
func (s *Store) rebuildIndex() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	return s.idx.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(indexBucket); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(indexBucket)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
				continue
			}
			fileSlug := strings.TrimSuffix(e.Name(), ".yaml")
			if err := b.Put([]byte(fileSlug), []byte(e.Name())); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) indexHas(fileSlug string) (bool, error) {
	var found bool
	err := s.idx.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(indexBucket)
		if b == nil {
			return nil
		}
		found = b.Get([]byte(fileSlug)) != nil
		return nil
	})
	return found, err
}

func (s *Store) indexPut(fileSlug string) error {
	return s.idx.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(indexBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(fileSlug), []byte(fileSlug+".yaml"))
	})
}

// nextAvailableSlug appends -2, -3, ... to base until an unused slug is
// found, consulting the index (which rebuildIndex keeps honest).
func (s *Store) nextAvailableSlug(base string) (string, error) {
	for i := 1; i < 10000; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		has, err := s.indexHas(candidate)
		if err != nil {
			return "", err
		}
		if !has {
			return candidate, nil
		}
	}
	return "", perr.New(perr.Validation, "could not find an available slug for "+base)
}

// Save validates r (§4.12 pre-save rules) and persists it atomically. With
// overwrite=false, a name collision picks the next unused "<slug>-N"
// suffix; with overwrite=true, the existing file at that slug is replaced in
// place. Returns the final on-disk path.
func (s *Store) Save(r *model.Recipe, overwrite bool) (string, error) {
	if err := validateForStorage(r); err != nil {
		return "", err
	}

	base := slug.Make(r.Name, 80)
	var fileSlug string
	if overwrite {
		fileSlug = base
	} else {
		existing, err := s.indexHas(base)
		if err != nil {
			return "", err
		}
		if !existing {
			fileSlug = base
		} else {
			fileSlug, err = s.nextAvailableSlug(base)
			if err != nil {
				return "", err
			}
		}
	}
	r.Name = fileSlug

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", perr.New(perr.MalformedJSON, "could not encode recipe: "+err.Error())
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	path := s.recipePath(fileSlug)
	if err := store.WriteFileAtomic(path, data, 0o600); err != nil {
		return "", err
	}
	if err := s.indexPut(fileSlug); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads the recipe stored at the given slug.
func (s *Store) Load(fileSlug string) (*model.Recipe, error) {
	path := s.recipePath(fileSlug)
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, perr.NewPath(perr.PathUnsafe, "recipe not found", path)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, perr.NewPath(perr.PathUnsafe, "refusing to follow symlink", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r model.Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, perr.NewPath(perr.MalformedJSON, err.Error(), path)
	}
	return &r, nil
}

// List returns every recipe in the store, sorted by name.
func (s *Store) List() ([]*model.Recipe, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []*model.Recipe
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		r, err := s.Load(strings.TrimSuffix(e.Name(), ".yaml"))
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Name > out[j].Name; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}

// RecordUsage updates a saved recipe's usage stats out-of-band, without
// going through Save's validation (the recipe is already on disk and
// trusted).
func (s *Store) RecordUsage(fileSlug string, success bool, nowUnix float64) error {
	r, err := s.Load(fileSlug)
	if err != nil {
		return err
	}
	r.Usage.LastUsed = &nowUnix
	if success {
		r.Usage.SuccessCount++
	} else {
		r.Usage.FailureCount++
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return store.WriteFileAtomic(s.recipePath(fileSlug), data, 0o600)
}

// validateForStorage applies the recipe store's own pre-save rules (§4.12),
// distinct from the analyzer's validation (internal/llm.validateDraft): it
// normalizes method/response_type case and rejects anything that would be
// unsafe to persist or unreplayable.
func validateForStorage(r *model.Recipe) error {
	if strings.TrimSpace(r.Name) == "" {
		return perr.New(perr.Validation, "recipe name must not be empty")
	}

	u, err := url.Parse(r.Request.URL)
	if err != nil {
		return perr.New(perr.Validation, "recipe request.url does not parse: "+err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return perr.New(perr.Validation, "recipe request.url must be http(s)")
	}
	if u.Hostname() == "" {
		return perr.New(perr.Validation, "recipe request.url must include a hostname")
	}
	if u.User != nil {
		return perr.New(perr.Validation, "recipe request.url must not contain userinfo")
	}

	r.Request.Method = strings.ToUpper(strings.TrimSpace(r.Request.Method))
	if !model.AllowedMethods[r.Request.Method] {
		return perr.New(perr.Validation, "recipe request.method "+r.Request.Method+" is not allowed")
	}

	r.Request.ResponseType = strings.ToLower(strings.TrimSpace(r.Request.ResponseType))
	if !model.AllowedResponseTypes[r.Request.ResponseType] {
		return perr.New(perr.Validation, "recipe request.response_type "+r.Request.ResponseType+" is not allowed")
	}
	if r.Request.ResponseType == model.ResponseTypeHTML {
		if len(r.Request.HTMLSelectors) == 0 {
			return perr.New(perr.Validation, "html response_type requires non-empty html_selectors")
		}
		for field, sel := range r.Request.HTMLSelectors {
			if !validCSSSelector(sel) {
				return perr.New(perr.Validation, "html_selectors["+field+"] is not a valid CSS selector: "+sel)
			}
		}
	}

	for name := range r.Request.Headers {
		if sanitize.IsSensitiveHeaderName(name) {
			return perr.New(perr.Validation, "recipe request.headers must not carry sensitive header "+name+"; strip before saving")
		}
	}

	for _, p := range r.Parameters {
		if !slug.ValidIdentifier(p.Name) {
			return perr.New(perr.Validation, "recipe parameter name is not a valid identifier: "+p.Name)
		}
	}

	if err := ssrf.ValidateDomainAllowed(r.Request.URL, r.Request.AllowedDomains); err != nil {
		return perr.New(perr.Validation, "recipe request.url is not covered by its own allowed_domains: "+err.Error())
	}

	return nil
}

// validCSSSelector reports whether sel parses as a CSS selector group,
// checked by actually compiling it with cascadia (the selector engine
// goquery matches with) rather than hand-rolling a CSS grammar check.
func validCSSSelector(sel string) bool {
	_, err := cascadia.Compile(sel)
	return err == nil
}
