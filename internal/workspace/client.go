// Package workspace fetches table schemas for a log-analytics workspace,
// either from the workspace API or from a local schema file.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

// DefaultTimeout bounds a single schema fetch.
const DefaultTimeout = 30 * time.Second

// StatusError reports a non-200 response from the workspace API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("workspace API returned status %d", e.Code)
}

// Client fetches workspace schemas over HTTP. It implements
// kql.SchemaFetcher and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a workspace API client with the default timeout.
func NewClient() *Client {
	return NewClientWithHTTP(nil)
}

// NewClientWithHTTP creates a client around an existing http.Client,
// falling back to a default one when nil.
func NewClientWithHTTP(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{httpClient: hc}
}

// FetchSchema retrieves the table schema for one workspace via
// GET {apiURL}/workspaces/{workspaceID}/schema with a bearer token.
func (c *Client) FetchSchema(ctx context.Context, workspaceID, apiURL, token string) (*kql.Schema, error) {
	endpoint := fmt.Sprintf("%s/workspaces/%s/schema",
		strings.TrimSuffix(apiURL, "/"), url.PathEscape(workspaceID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schema: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a bounded amount so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var schema kql.Schema
	if err := json.NewDecoder(resp.Body).Decode(&schema); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	return &schema, nil
}
