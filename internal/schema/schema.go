// Package schema computes the per-type schema hash every persisted artifact
// carries, and enforces the strict, unknown-fields-rejected shape of that
// type at the persistence boundary.
package schema

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Artifact is implemented by every persisted pipeline artifact type in
// internal/model.
type Artifact interface {
	ArtifactType() string
	GetSchemaHash() string
	SetSchemaHash(hash string)
}

// hashes maps artifact type name to its compile-time schema hash, computed
// once in init() from the JSON Schema text in schemas.go with the
// schema_hash field itself elided.
var hashes = map[string]string{}

// loaders maps artifact type name to a compiled gojsonschema schema used for
// the strict-shape check on read.
var loaders = map[string]*gojsonschema.Schema{}

func init() {
	for name, text := range rawSchemas {
		h, err := hashSchemaText(text)
		if err != nil {
			panic(fmt.Sprintf("schema: invalid schema for %s: %v", name, err))
		}
		hashes[name] = h

		loader := gojsonschema.NewStringLoader(text)
		compiled, err := gojsonschema.NewSchema(loader)
		if err != nil {
			panic(fmt.Sprintf("schema: could not compile schema for %s: %v", name, err))
		}
		loaders[name] = compiled
	}
}

// hashSchemaText removes the schema_hash property (and its "required"
// entry) from the schema document, canonicalizes the rest (sorted keys) and
// returns its sha256 hex digest.
func hashSchemaText(text string) (string, error) {
	var generic map[string]any
	if err := json.Unmarshal([]byte(text), &generic); err != nil {
		return "", err
	}
	if props, ok := generic["properties"].(map[string]any); ok {
		delete(props, "schema_hash")
	}
	if required, ok := generic["required"].([]any); ok {
		kept := make([]any, 0, len(required))
		for _, r := range required {
			if r != "schema_hash" {
				kept = append(kept, r)
			}
		}
		generic["required"] = kept
	}
	canon, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// HashFor returns the compile-time schema hash for the named artifact type.
// It panics if the type was never registered: that is a programming error,
// not a runtime condition.
func HashFor(artifactType string) string {
	h, ok := hashes[artifactType]
	if !ok {
		panic("schema: unregistered artifact type " + artifactType)
	}
	return h
}

// Validate checks data against the named artifact type's JSON Schema,
// rejecting unknown top-level fields and missing required ones. This is the
// strict-shape check described in the artifact store's design.
func Validate(artifactType string, data []byte) error {
	compiled, ok := loaders[artifactType]
	if !ok {
		return fmt.Errorf("schema: unregistered artifact type %s", artifactType)
	}
	result, err := compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if !result.Valid() {
		var buf bytes.Buffer
		for i, e := range result.Errors() {
			if i > 0 {
				buf.WriteString("; ")
			}
			buf.WriteString(e.String())
		}
		return fmt.Errorf("schema: %s shape rejected: %s", artifactType, buf.String())
	}
	return nil
}
