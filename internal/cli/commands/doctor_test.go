package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loglens-labs/kqlens/internal/cli/config"
	"github.com/loglens-labs/kqlens/internal/cli/output"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name   string
		checks []HealthCheck
		want   int
	}{
		{
			name: "no checks returns 100",
			want: 100,
		},
		{
			name: "all passing returns 100",
			checks: []HealthCheck{
				{Name: "config file", Status: statusPass},
				{Name: "workspace api", Status: statusPass},
			},
			want: 100,
		},
		{
			name: "warning costs ten",
			checks: []HealthCheck{
				{Name: "config file", Status: statusWarn},
				{Name: "workspace api", Status: statusPass},
			},
			want: 90,
		},
		{
			name: "error costs twenty five",
			checks: []HealthCheck{
				{Name: "workspace api", Status: statusError},
			},
			want: 75,
		},
		{
			name: "mixed statuses stack",
			checks: []HealthCheck{
				{Name: "config file", Status: statusWarn},
				{Name: "workspace api", Status: statusError},
				{Name: "schema snapshot", Status: statusWarn},
			},
			want: 55,
		},
		{
			name: "score clamps at zero",
			checks: []HealthCheck{
				{Status: statusError},
				{Status: statusError},
				{Status: statusError},
				{Status: statusError},
				{Status: statusError},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateHealthScore(tt.checks))
		})
	}
}

func TestConfigChecks_WorkspaceWithToken(t *testing.T) {
	config.ResetConfig()
	cfg := &config.Config{WorkspaceID: "ws-1", APIURL: "https://api.example.com", Token: "secret"}

	checks := configChecks(cfg)

	require.Len(t, checks, 3)
	assert.Equal(t, statusWarn, checks[0].Status, "no config file on disk")
	assert.Equal(t, "schema source", checks[1].Name)
	assert.Equal(t, statusPass, checks[1].Status)
	assert.Equal(t, "api token", checks[2].Name)
	assert.Equal(t, statusPass, checks[2].Status)
}

func TestConfigChecks_MissingToken(t *testing.T) {
	config.ResetConfig()
	cfg := &config.Config{WorkspaceID: "ws-1", APIURL: "https://api.example.com"}

	checks := configChecks(cfg)

	require.Len(t, checks, 3)
	assert.Equal(t, "api token", checks[2].Name)
	assert.Equal(t, statusWarn, checks[2].Status)
}

func TestConfigChecks_SchemaFileSkipsWorkspace(t *testing.T) {
	config.ResetConfig()
	cfg := &config.Config{SchemaFile: "schema.yaml"}

	checks := configChecks(cfg)

	require.Len(t, checks, 2)
	assert.Equal(t, "schema source", checks[1].Name)
	assert.Equal(t, statusPass, checks[1].Status)
	assert.Contains(t, checks[1].Details[0], "schema.yaml")
}

func TestConfigChecks_NothingConfigured(t *testing.T) {
	config.ResetConfig()

	checks := configChecks(&config.Config{})

	require.Len(t, checks, 2)
	assert.Equal(t, statusWarn, checks[1].Status)
	assert.Contains(t, checks[1].Details[0], "only keyword suggestions")
}

func TestSchemaChecks_FileValid(t *testing.T) {
	path := writeSchemaFile(t, `
tables:
  - name: requests
    columns:
      - name: timestamp
        type: datetime
  - name: exceptions
    columns:
      - name: message
        type: string
`)
	c := testCommandContext(t, &config.Config{SchemaFile: path}, nil, false)

	checks := schemaChecks(context.Background(), c)

	require.Len(t, checks, 1)
	assert.Equal(t, "schema file", checks[0].Name)
	assert.Equal(t, statusPass, checks[0].Status)
	assert.Contains(t, checks[0].Details[0], "2 tables")
}

func TestSchemaChecks_FileMissing(t *testing.T) {
	c := testCommandContext(t, &config.Config{SchemaFile: "/nonexistent/schema.yaml"}, nil, false)

	checks := schemaChecks(context.Background(), c)

	require.Len(t, checks, 1)
	assert.Equal(t, statusError, checks[0].Status)
}

func TestSchemaChecks_WorkspaceReachable(t *testing.T) {
	cfg := &config.Config{WorkspaceID: "ws-1", APIURL: "https://api.example.com", Token: "secret"}
	fetcher := &stubFetcher{schema: testSchema()}
	c := testCommandContext(t, cfg, fetcher, false)

	checks := schemaChecks(context.Background(), c)

	require.Len(t, checks, 1)
	assert.Equal(t, "workspace api", checks[0].Name)
	assert.Equal(t, statusPass, checks[0].Status)
	assert.Equal(t, 1, fetcher.calls)
	assert.Contains(t, checks[0].Details[0], "1 tables from workspace ws-1")
}

func TestSchemaChecks_WorkspaceUnreachable(t *testing.T) {
	cfg := &config.Config{WorkspaceID: "ws-1", APIURL: "https://api.example.com"}
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	c := testCommandContext(t, cfg, fetcher, false)

	checks := schemaChecks(context.Background(), c)

	require.Len(t, checks, 1)
	assert.Equal(t, statusError, checks[0].Status)
	assert.Contains(t, checks[0].Details[0], "connection refused")
}

func TestSchemaChecks_NoSource(t *testing.T) {
	c := testCommandContext(t, &config.Config{}, nil, false)

	checks := schemaChecks(context.Background(), c)

	require.Len(t, checks, 1)
	assert.Equal(t, statusWarn, checks[0].Status)
	assert.Contains(t, checks[0].Details[0], "skipped")
}

func TestCacheChecks_StoreUnavailable(t *testing.T) {
	c := testCommandContext(t, &config.Config{CachePath: "/dev/null/cache.db"}, nil, false)

	checks := cacheChecks(c)

	require.Len(t, checks, 1)
	assert.Equal(t, "cache store", checks[0].Name)
	assert.Equal(t, statusWarn, checks[0].Status)
}

func TestCacheChecks_NoWorkspaceSkipsSnapshot(t *testing.T) {
	c := testCommandContext(t, &config.Config{CachePath: ":memory:"}, nil, true)

	checks := cacheChecks(c)

	require.Len(t, checks, 1)
	assert.Equal(t, "cache store", checks[0].Name)
	assert.Equal(t, statusPass, checks[0].Status)
}

func TestCacheChecks_NoSnapshotYet(t *testing.T) {
	cfg := &config.Config{WorkspaceID: "ws-1", APIURL: "https://api.example.com", CachePath: ":memory:", CacheTTL: time.Hour}
	c := testCommandContext(t, cfg, nil, true)

	checks := cacheChecks(c)

	require.Len(t, checks, 2)
	assert.Equal(t, "schema snapshot", checks[1].Name)
	assert.Equal(t, statusWarn, checks[1].Status)
	assert.Contains(t, checks[1].Details[0], "no snapshot cached")
}

func TestCacheChecks_FreshSnapshot(t *testing.T) {
	cfg := &config.Config{WorkspaceID: "ws-1", APIURL: "https://api.example.com", CachePath: ":memory:", CacheTTL: time.Hour}
	c := testCommandContext(t, cfg, nil, true)

	_, err := c.Cache.Save("ws-1", testSchema())
	require.NoError(t, err)

	checks := cacheChecks(c)

	require.Len(t, checks, 2)
	assert.Equal(t, statusPass, checks[1].Status)
	assert.Contains(t, checks[1].Details[0], "1 tables")
}

func TestCacheChecks_StaleSnapshot(t *testing.T) {
	// TTL zero expires every snapshot immediately.
	cfg := &config.Config{WorkspaceID: "ws-1", APIURL: "https://api.example.com", CachePath: ":memory:", CacheTTL: 0}
	c := testCommandContext(t, cfg, nil, true)

	_, err := c.Cache.Save("ws-1", testSchema())
	require.NoError(t, err)

	checks := cacheChecks(c)

	require.Len(t, checks, 2)
	assert.Equal(t, statusWarn, checks[1].Status)
	assert.Contains(t, checks[1].Details[0], "TTL")
}

func TestBuildDoctorOutput_HealthyWorkspace(t *testing.T) {
	config.ResetConfig()
	cfg := &config.Config{
		WorkspaceID: "ws-1",
		APIURL:      "https://api.example.com",
		Token:       "secret",
		CachePath:   ":memory:",
		CacheTTL:    time.Hour,
	}
	fetcher := &stubFetcher{schema: testSchema()}
	c := testCommandContext(t, cfg, fetcher, true)

	_, err := c.Cache.Save("ws-1", testSchema())
	require.NoError(t, err)

	report := buildDoctorOutput(context.Background(), c)

	assert.Equal(t, "ws-1", report.Workspace.WorkspaceID)
	// Only the missing config file warns; everything else passes.
	assert.Equal(t, 90, report.HealthScore)
	require.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.Recommendations[0], "kqlens.yaml")

	byName := map[string]string{}
	for _, check := range report.Checks {
		byName[check.Name] = check.Status
	}
	assert.Equal(t, statusPass, byName["schema source"])
	assert.Equal(t, statusPass, byName["api token"])
	assert.Equal(t, statusPass, byName["workspace api"])
	assert.Equal(t, statusPass, byName["cache store"])
	assert.Equal(t, statusPass, byName["schema snapshot"])
}

func TestBuildDoctorOutput_EmptyConfig(t *testing.T) {
	config.ResetConfig()
	c := testCommandContext(t, &config.Config{}, nil, false)

	report := buildDoctorOutput(context.Background(), c)

	// Config file, schema source, schema probe, and cache store all warn.
	assert.Equal(t, 60, report.HealthScore)
	assert.NotEmpty(t, report.Recommendations)
}

func TestGenerateRecommendations_CapsAtFive(t *testing.T) {
	checks := []HealthCheck{
		{Group: groupConfiguration, Name: "config file", Status: statusWarn},
		{Group: groupConfiguration, Name: "schema source", Status: statusWarn},
		{Group: groupConfiguration, Name: "api token", Status: statusWarn},
		{Group: groupSchema, Name: "workspace api", Status: statusError},
		{Group: groupSchema, Name: "schema file", Status: statusError},
		{Group: groupCache, Name: "cache store", Status: statusWarn},
		{Group: groupCache, Name: "schema snapshot", Status: statusWarn},
	}

	recs := generateRecommendations(checks)

	assert.Len(t, recs, 5)
}

func TestGenerateRecommendations_PassingChecksExcluded(t *testing.T) {
	checks := []HealthCheck{
		{Group: groupConfiguration, Name: "config file", Status: statusPass},
		{Group: groupCache, Name: "schema snapshot", Status: statusWarn},
	}

	recs := generateRecommendations(checks)

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "kqlens schema --refresh")
}

func TestRenderDoctorText(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRendererWithTTY(&out, &errOut, false, output.ModeText)

	report := &DoctorOutput{
		Workspace: WorkspaceSummary{
			WorkspaceID: "ws-1",
			APIURL:      "https://api.example.com",
			CachePath:   "/tmp/cache.db",
		},
		Checks: []HealthCheck{
			{Group: groupConfiguration, Name: "config file", Status: statusPass, Details: []string{"kqlens.yaml"}},
			{Group: groupSchema, Name: "workspace api", Status: statusError, Details: []string{"connection refused"}},
			{Group: groupCache, Name: "schema snapshot", Status: statusWarn, Details: []string{"no snapshot cached for workspace ws-1 yet"}},
		},
		HealthScore:     65,
		Recommendations: []string{"check api_url, token, and network reachability of the workspace API"},
	}

	renderDoctorText(r, report)

	text := out.String()
	assert.Contains(t, text, "kqlens Health Report")
	assert.Contains(t, text, "Configuration")
	assert.Contains(t, text, "Schema")
	assert.Contains(t, text, "Cache")
	assert.Contains(t, text, "✓ config file")
	assert.Contains(t, text, "✗ workspace api")
	assert.Contains(t, text, "! schema snapshot")
	assert.Contains(t, text, "connection refused")
	assert.Contains(t, text, "65/100")
	assert.Contains(t, text, "Recommendations")
	assert.Empty(t, errOut.String())
}

func TestRenderDoctorMarkdown(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRendererWithTTY(&out, &errOut, false, output.ModeMarkdown)

	report := &DoctorOutput{
		Workspace: WorkspaceSummary{APIURL: "https://api.example.com", CachePath: "/tmp/cache.db"},
		Checks: []HealthCheck{
			{Group: groupConfiguration, Name: "config file", Status: statusWarn, Details: []string{"no config file found, running on defaults and environment"}},
		},
		HealthScore:     90,
		Recommendations: []string{"write kqlens.yaml or ~/.kqlens/config.yaml to persist workspace settings"},
	}

	renderDoctorMarkdown(r, report)

	text := out.String()
	assert.Contains(t, text, "# kqlens Health Report")
	assert.Contains(t, text, "- **Health score:** 90/100")
	assert.Contains(t, text, "## Configuration")
	assert.Contains(t, text, "- **config file:** warn")
	assert.Contains(t, text, "## Recommendations")
	assert.NotContains(t, text, "\x1b[", "markdown output must not contain ANSI escapes")
}

func TestDoctorJSONRoundTrip(t *testing.T) {
	config.ResetConfig()
	cfg := &config.Config{WorkspaceID: "ws-1", APIURL: "https://api.example.com", Token: "secret", CachePath: ":memory:", CacheTTL: time.Hour}
	fetcher := &stubFetcher{schema: testSchema()}
	c := testCommandContext(t, cfg, fetcher, true)

	report := buildDoctorOutput(context.Background(), c)

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded DoctorOutput
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, report.HealthScore, decoded.HealthScore)
	assert.Len(t, decoded.Checks, len(report.Checks))
}
