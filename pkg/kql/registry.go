package kql

import (
	"context"
	"sync"
)

// SchemaFetcher retrieves the schema for one workspace. Implementations
// live outside this package; the HTTP client against the workspace API is
// the production one.
type SchemaFetcher interface {
	FetchSchema(ctx context.Context, workspaceID, apiURL, token string) (*Schema, error)
}

// Registry holds the last successfully loaded schema for one workspace at a
// time. Loads replace the schema wholesale and never merge; on failure the
// previous schema stays in place. Reads are snapshots: a load completing
// mid-computation is simply not seen by requests already in flight.
type Registry struct {
	mu      sync.RWMutex
	schema  *Schema
	fetcher SchemaFetcher
}

// NewRegistry creates a registry that loads through the given fetcher. A
// nil fetcher is allowed; Load then always reports false and the registry
// only changes through Replace.
func NewRegistry(fetcher SchemaFetcher) *Registry {
	return &Registry{fetcher: fetcher}
}

// Load fetches the schema for the workspace and installs it, reporting
// whether the registry now holds that workspace's schema. Any failure
// (transport, non-2xx status, malformed body) leaves the previous schema
// untouched and reports false; it is the caller's job to log why. When
// loads race, whichever response arrives last wins.
func (r *Registry) Load(ctx context.Context, workspaceID, apiURL, token string) bool {
	if r.fetcher == nil {
		return false
	}
	schema, err := r.fetcher.FetchSchema(ctx, workspaceID, apiURL, token)
	if err != nil || schema == nil {
		return false
	}
	r.Replace(schema)
	return true
}

// Current returns the held schema, or nil before the first successful load.
// Callers must treat the returned schema as immutable.
func (r *Registry) Current() *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schema
}

// Replace installs a schema directly, bypassing the fetcher. Cache warm-up
// and file-based schema sources use this path.
func (r *Registry) Replace(schema *Schema) {
	r.mu.Lock()
	r.schema = schema
	r.mu.Unlock()
}
