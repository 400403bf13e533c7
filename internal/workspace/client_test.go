package workspace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loglens-labs/kqlens/pkg/kql"
)

const schemaJSON = `{
	"tables": [
		{
			"name": "requests",
			"description": "Incoming requests",
			"columns": [
				{"name": "timestamp", "type": "datetime"},
				{"name": "name", "type": "string", "description": "Operation name"},
				{"name": "duration", "type": "real"}
			]
		},
		{
			"name": "exceptions",
			"columns": [
				{"name": "timestamp", "type": "datetime"},
				{"name": "type", "type": "string"}
			]
		}
	]
}`

func TestFetchSchema(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(schemaJSON)) //nolint:errcheck
	}))
	defer server.Close()

	client := NewClient()
	schema, err := client.FetchSchema(context.Background(), "ws-42", server.URL, "secret-token")
	require.NoError(t, err)
	require.NotNil(t, schema)

	assert.Equal(t, "/workspaces/ws-42/schema", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json", gotAccept)

	require.Len(t, schema.Tables, 2)
	assert.Equal(t, "requests", schema.Tables[0].Name)
	assert.Equal(t, "Incoming requests", schema.Tables[0].Description)
	require.Len(t, schema.Tables[0].Columns, 3)
	assert.Equal(t, "duration", schema.Tables[0].Columns[2].Name)
	assert.Equal(t, "real", schema.Tables[0].Columns[2].Type)
}

func TestFetchSchemaTrailingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"tables":[]}`)) //nolint:errcheck
	}))
	defer server.Close()

	_, err := NewClient().FetchSchema(context.Background(), "ws-1", server.URL+"/", "t")
	require.NoError(t, err)
	assert.Equal(t, "/workspaces/ws-1/schema", gotPath)
}

func TestFetchSchemaEscapesWorkspaceID(t *testing.T) {
	var gotEscaped string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEscaped = r.URL.EscapedPath()
		w.Write([]byte(`{"tables":[]}`)) //nolint:errcheck
	}))
	defer server.Close()

	_, err := NewClient().FetchSchema(context.Background(), "ws/../etc", server.URL, "t")
	require.NoError(t, err)
	assert.Equal(t, "/workspaces/ws%2F..%2Fetc/schema", gotEscaped)
}

func TestFetchSchemaStatusError(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.code)
			}))
			defer server.Close()

			schema, err := NewClient().FetchSchema(context.Background(), "ws-1", server.URL, "t")
			assert.Nil(t, schema)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.code, statusErr.Code)
		})
	}
}

func TestFetchSchemaMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tables": [`)) //nolint:errcheck
	}))
	defer server.Close()

	schema, err := NewClient().FetchSchema(context.Background(), "ws-1", server.URL, "t")
	assert.Nil(t, schema)
	assert.Error(t, err)
}

func TestFetchSchemaConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewClient().FetchSchema(context.Background(), "ws-1", server.URL, "t")
	assert.Error(t, err)
}

func TestFetchSchemaContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(schemaJSON)) //nolint:errcheck
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().FetchSchema(ctx, "ws-1", server.URL, "t")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistryLoadThroughClient(t *testing.T) {
	failing := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(schemaJSON)) //nolint:errcheck
	}))
	defer server.Close()

	reg := kql.NewRegistry(NewClient())
	require.True(t, reg.Load(context.Background(), "ws-1", server.URL, "t"))
	require.NotNil(t, reg.Current())
	assert.Len(t, reg.Current().Tables, 2)

	failing = true
	assert.False(t, reg.Load(context.Background(), "ws-1", server.URL, "t"))
	require.NotNil(t, reg.Current(), "failed reload must keep the previous schema")
	assert.Len(t, reg.Current().Tables, 2)
}

var _ kql.SchemaFetcher = (*Client)(nil)

func TestStatusErrorMessage(t *testing.T) {
	err := error(&StatusError{Code: 404})
	assert.Equal(t, "workspace API returned status 404", err.Error())
	assert.False(t, errors.Is(err, context.Canceled))
}
