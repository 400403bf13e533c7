package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/loglens-labs/kqlens/internal/cache"
	"github.com/loglens-labs/kqlens/internal/cli/config"
	"github.com/loglens-labs/kqlens/internal/cli/output"
	"github.com/loglens-labs/kqlens/internal/workspace"
)

// Check statuses reported by doctor probes.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// Check groups, rendered in this order.
const (
	groupConfiguration = "configuration"
	groupSchema        = "schema"
	groupCache         = "cache"
)

var doctorGroups = []string{groupConfiguration, groupSchema, groupCache}

// doctorProbeTimeout bounds the workspace API reachability probe so a dead
// endpoint cannot stall the whole report.
const doctorProbeTimeout = 5 * time.Second

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string
}

// DoctorOutput is the full health report produced by the doctor command.
type DoctorOutput struct {
	Workspace       WorkspaceSummary `json:"workspace"`
	Checks          []HealthCheck    `json:"checks"`
	HealthScore     int              `json:"health_score"`
	Recommendations []string         `json:"recommendations,omitempty"`
}

// WorkspaceSummary describes the configuration the report was built against.
type WorkspaceSummary struct {
	WorkspaceID string `json:"workspace_id,omitempty"`
	APIURL      string `json:"api_url"`
	SchemaFile  string `json:"schema_file,omitempty"`
	CachePath   string `json:"cache_path"`
	ConfigFile  string `json:"config_file,omitempty"`
}

// HealthCheck is the outcome of a single doctor probe.
type HealthCheck struct {
	Group   string   `json:"group"`
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, schema, and cache health",
		Long: `Run health checks against the current configuration and report
anything that would degrade suggestions, along with a 0-100 health score.

Checks cover the configuration itself, schema availability (local file or
workspace API), and the on-disk schema cache.`,
		Example: `  # Full health report
  kqlens doctor

  # Machine-readable report for scripts
  kqlens doctor --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, or json")

	return cmd
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx, cleanup := NewCommandContext(cmd)
	defer cleanup()

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	report := buildDoctorOutput(cmd.Context(), cmdCtx)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(report)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, report)
	default:
		renderDoctorText(r, report)
	}
	return nil
}

// buildDoctorOutput runs every health check and assembles the report.
func buildDoctorOutput(ctx context.Context, cmdCtx *CommandContext) *DoctorOutput {
	checks := collectDoctorChecks(ctx, cmdCtx)

	return &DoctorOutput{
		Workspace: WorkspaceSummary{
			WorkspaceID: cmdCtx.Cfg.WorkspaceID,
			APIURL:      cmdCtx.Cfg.APIURL,
			SchemaFile:  cmdCtx.Cfg.SchemaFile,
			CachePath:   cmdCtx.Cfg.CachePath,
			ConfigFile:  config.GetConfigFileUsed(),
		},
		Checks:          checks,
		HealthScore:     calculateHealthScore(checks),
		Recommendations: generateRecommendations(checks),
	}
}

func collectDoctorChecks(ctx context.Context, cmdCtx *CommandContext) []HealthCheck {
	checks := configChecks(cmdCtx.Cfg)
	checks = append(checks, schemaChecks(ctx, cmdCtx)...)
	checks = append(checks, cacheChecks(cmdCtx)...)
	return checks
}

func configChecks(cfg *config.Config) []HealthCheck {
	var checks []HealthCheck

	if file := config.GetConfigFileUsed(); file != "" {
		checks = append(checks, HealthCheck{
			Group:   groupConfiguration,
			Name:    "config file",
			Status:  statusPass,
			Details: []string{file},
		})
	} else {
		checks = append(checks, HealthCheck{
			Group:   groupConfiguration,
			Name:    "config file",
			Status:  statusWarn,
			Details: []string{"no config file found, running on defaults and environment"},
		})
	}

	switch {
	case cfg.SchemaFile != "":
		checks = append(checks, HealthCheck{
			Group:   groupConfiguration,
			Name:    "schema source",
			Status:  statusPass,
			Details: []string{fmt.Sprintf("local schema file %s", cfg.SchemaFile)},
		})
	case cfg.HasWorkspace():
		checks = append(checks, HealthCheck{
			Group:   groupConfiguration,
			Name:    "schema source",
			Status:  statusPass,
			Details: []string{fmt.Sprintf("workspace %s via %s", cfg.WorkspaceID, cfg.APIURL)},
		})
		if cfg.Token == "" {
			checks = append(checks, HealthCheck{
				Group:   groupConfiguration,
				Name:    "api token",
				Status:  statusWarn,
				Details: []string{"workspace_id is set but token is empty"},
			})
		} else {
			checks = append(checks, HealthCheck{
				Group:  groupConfiguration,
				Name:   "api token",
				Status: statusPass,
			})
		}
	default:
		checks = append(checks, HealthCheck{
			Group:   groupConfiguration,
			Name:    "schema source",
			Status:  statusWarn,
			Details: []string{"no workspace_id or schema_file configured; only keyword suggestions are available"},
		})
	}

	return checks
}

func schemaChecks(ctx context.Context, cmdCtx *CommandContext) []HealthCheck {
	cfg := cmdCtx.Cfg

	if cfg.SchemaFile != "" {
		schema, err := workspace.LoadSchemaFile(cfg.SchemaFile)
		if err != nil {
			return []HealthCheck{{
				Group:   groupSchema,
				Name:    "schema file",
				Status:  statusError,
				Details: []string{err.Error()},
			}}
		}
		return []HealthCheck{{
			Group:   groupSchema,
			Name:    "schema file",
			Status:  statusPass,
			Details: []string{fmt.Sprintf("%d tables in %s", len(schema.Tables), cfg.SchemaFile)},
		}}
	}

	if cfg.HasWorkspace() && cmdCtx.Fetcher != nil {
		probeCtx, cancel := context.WithTimeout(ctx, doctorProbeTimeout)
		defer cancel()

		schema, err := cmdCtx.Fetcher.FetchSchema(probeCtx, cfg.WorkspaceID, cfg.APIURL, cfg.Token)
		if err != nil {
			return []HealthCheck{{
				Group:   groupSchema,
				Name:    "workspace api",
				Status:  statusError,
				Details: []string{err.Error()},
			}}
		}
		return []HealthCheck{{
			Group:   groupSchema,
			Name:    "workspace api",
			Status:  statusPass,
			Details: []string{fmt.Sprintf("%d tables from workspace %s", len(schema.Tables), cfg.WorkspaceID)},
		}}
	}

	return []HealthCheck{{
		Group:   groupSchema,
		Name:    "schema source",
		Status:  statusWarn,
		Details: []string{"skipped: no schema source configured"},
	}}
}

func cacheChecks(cmdCtx *CommandContext) []HealthCheck {
	cfg := cmdCtx.Cfg

	if cmdCtx.Cache == nil {
		return []HealthCheck{{
			Group:   groupCache,
			Name:    "cache store",
			Status:  statusWarn,
			Details: []string{fmt.Sprintf("cache at %s could not be opened; offline fallback is unavailable", cfg.CachePath)},
		}}
	}

	var checks []HealthCheck
	version, err := cmdCtx.Cache.MigrationVersion()
	if err != nil {
		checks = append(checks, HealthCheck{
			Group:   groupCache,
			Name:    "cache store",
			Status:  statusError,
			Details: []string{err.Error()},
		})
	} else {
		checks = append(checks, HealthCheck{
			Group:   groupCache,
			Name:    "cache store",
			Status:  statusPass,
			Details: []string{fmt.Sprintf("schema version %d at %s", version, cfg.CachePath)},
		})
	}

	if !cfg.HasWorkspace() {
		return checks
	}

	snap, err := cmdCtx.Cache.Latest(cfg.WorkspaceID)
	switch {
	case errors.Is(err, cache.ErrNoSnapshot):
		checks = append(checks, HealthCheck{
			Group:   groupCache,
			Name:    "schema snapshot",
			Status:  statusWarn,
			Details: []string{fmt.Sprintf("no snapshot cached for workspace %s yet", cfg.WorkspaceID)},
		})
	case err != nil:
		checks = append(checks, HealthCheck{
			Group:   groupCache,
			Name:    "schema snapshot",
			Status:  statusError,
			Details: []string{err.Error()},
		})
	case snap.Age() > cfg.CacheTTL:
		checks = append(checks, HealthCheck{
			Group:   groupCache,
			Name:    "schema snapshot",
			Status:  statusWarn,
			Details: []string{fmt.Sprintf("snapshot is %s old, past the %s TTL", snap.Age().Round(time.Second), cfg.CacheTTL)},
		})
	default:
		checks = append(checks, HealthCheck{
			Group:   groupCache,
			Name:    "schema snapshot",
			Status:  statusPass,
			Details: []string{fmt.Sprintf("%d tables, fetched %s ago", len(snap.Schema.Tables), snap.Age().Round(time.Second))},
		})
	}

	return checks
}

// calculateHealthScore condenses check results into a 0-100 score. Errors
// cost more than warnings; a clean report scores 100.
func calculateHealthScore(checks []HealthCheck) int {
	score := 100
	for _, check := range checks {
		switch check.Status {
		case statusError:
			score -= 25
		case statusWarn:
			score -= 10
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// generateRecommendations turns non-passing checks into next actions,
// capped at five.
func generateRecommendations(checks []HealthCheck) []string {
	var recs []string
	for _, check := range checks {
		if check.Status == statusPass {
			continue
		}
		if rec := recommendationFor(check); rec != "" {
			recs = append(recs, rec)
		}
	}
	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

func recommendationFor(check HealthCheck) string {
	switch check.Name {
	case "config file":
		return "write kqlens.yaml or ~/.kqlens/config.yaml to persist workspace settings"
	case "schema source":
		if check.Group == groupConfiguration {
			return "set workspace_id and token, or pass --schema-file, to enable table and column suggestions"
		}
		return "configure a schema source so doctor can verify it"
	case "api token":
		return "set token in the config file or export KQLENS_TOKEN"
	case "workspace api":
		return "check api_url, token, and network reachability of the workspace API"
	case "schema file":
		return "fix the schema file path or its contents, then rerun doctor"
	case "cache store":
		return "verify cache_path points to a writable location, or delete the file and let kqlens recreate it"
	case "schema snapshot":
		return "run 'kqlens schema --refresh' to refresh the cached schema"
	default:
		return ""
	}
}

func checksInGroup(checks []HealthCheck, group string) []HealthCheck {
	var matched []HealthCheck
	for _, check := range checks {
		if check.Group == group {
			matched = append(matched, check)
		}
	}
	return matched
}

func renderDoctorText(r *output.Renderer, report *DoctorOutput) {
	styles := r.Styles()
	titleCaser := cases.Title(language.English)

	r.Println(styles.Header1.Render("kqlens Health Report"))
	r.Println("")

	ws := report.Workspace
	if ws.WorkspaceID != "" {
		r.Printf("%s %s\n", styles.Bold.Render("Workspace:"), ws.WorkspaceID)
	}
	r.Printf("%s %s\n", styles.Bold.Render("API URL:"), ws.APIURL)
	if ws.SchemaFile != "" {
		r.Printf("%s %s\n", styles.Bold.Render("Schema file:"), ws.SchemaFile)
	}
	r.Printf("%s %s\n", styles.Bold.Render("Cache:"), ws.CachePath)
	if ws.ConfigFile != "" {
		r.Printf("%s %s\n", styles.Bold.Render("Config file:"), ws.ConfigFile)
	}
	r.Println("")

	for _, group := range doctorGroups {
		grouped := checksInGroup(report.Checks, group)
		if len(grouped) == 0 {
			continue
		}

		r.Println(styles.Header2.Render(titleCaser.String(group)))
		for _, check := range grouped {
			var icon string
			switch check.Status {
			case statusPass:
				icon = styles.StatusSuccess.String()
			case statusWarn:
				icon = styles.Warning.Render("!")
			default:
				icon = styles.StatusFailed.String()
			}
			r.Printf("  %s %s\n", icon, check.Name)
			for _, detail := range check.Details {
				r.Println(styles.Muted.Render("      " + detail))
			}
		}
		r.Println("")
	}

	scoreStyle := styles.Success
	switch {
	case report.HealthScore < 70:
		scoreStyle = styles.Error
	case report.HealthScore < 90:
		scoreStyle = styles.Warning
	}
	r.Printf("%s %s\n", styles.Bold.Render("Health score:"), scoreStyle.Render(fmt.Sprintf("%d/100", report.HealthScore)))

	if len(report.Recommendations) > 0 {
		r.Println("")
		r.Println(styles.Header2.Render("Recommendations"))
		for _, rec := range report.Recommendations {
			r.Printf("  - %s\n", rec)
		}
	}
}

func renderDoctorMarkdown(r *output.Renderer, report *DoctorOutput) {
	titleCaser := cases.Title(language.English)

	r.Println(output.FormatHeader(1, "kqlens Health Report"))
	r.Println("")
	r.Println(output.FormatKeyValue("Health score", fmt.Sprintf("%d/100", report.HealthScore)))

	ws := report.Workspace
	if ws.WorkspaceID != "" {
		r.Println(output.FormatKeyValue("Workspace", ws.WorkspaceID))
	}
	r.Println(output.FormatKeyValue("API URL", ws.APIURL))
	if ws.SchemaFile != "" {
		r.Println(output.FormatKeyValue("Schema file", ws.SchemaFile))
	}
	r.Println(output.FormatKeyValue("Cache", ws.CachePath))

	for _, group := range doctorGroups {
		grouped := checksInGroup(report.Checks, group)
		if len(grouped) == 0 {
			continue
		}

		r.Println("")
		r.Println(output.FormatHeader(2, titleCaser.String(group)))
		r.Println("")
		for _, check := range grouped {
			r.Printf("- **%s:** %s\n", check.Name, check.Status)
			for _, detail := range check.Details {
				r.Printf("  - %s\n", detail)
			}
		}
	}

	if len(report.Recommendations) > 0 {
		r.Println("")
		r.Println(output.FormatHeader(2, "Recommendations"))
		r.Println("")
		for _, rec := range report.Recommendations {
			r.Printf("- %s\n", rec)
		}
	}
}
