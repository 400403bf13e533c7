package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

// LoadSchemaFile reads a schema from a local file. YAML is a superset of
// JSON, so .yaml, .yml, and .json files all parse through the same decoder.
func LoadSchemaFile(path string) (*kql.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var schema kql.Schema
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", filepath.Base(path), err)
	}
	return &schema, nil
}

// FileFetcher serves a schema from a local file and ignores the workspace
// credentials. It lets offline setups reuse the registry load path, and the
// serve command pairs it with a file watcher for live reloads.
type FileFetcher struct {
	Path string
}

// FetchSchema implements kql.SchemaFetcher by rereading the file.
func (f *FileFetcher) FetchSchema(_ context.Context, _, _, _ string) (*kql.Schema, error) {
	return LoadSchemaFile(f.Path)
}
