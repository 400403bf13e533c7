//go:build governance

package kql_test

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/loglens-labs/kqlens"

// =============================================================================
// PURITY TEST - The completion engine must stay dependency-free
// =============================================================================

// TestGovernance_EnginePurity verifies that pkg/kql imports nothing beyond
// the standard library. The engine runs on every keystroke and is consumed
// as a plain library; transport, storage, and presentation live under
// internal/ and must not leak in.
func TestGovernance_EnginePurity(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/kql")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatal("Could not find pkg/kql")
	}

	for _, p := range pkgs {
		for importPath := range p.Imports {
			if isStdlib(importPath) {
				continue
			}
			t.Errorf("PURITY VIOLATION: '%s' imports '%s'.\n"+
				"   Fix: Keep the engine standard-library only; move the dependency under internal/.",
				strings.TrimPrefix(p.PkgPath, modulePath+"/"), importPath)
		}
	}
}

// =============================================================================
// LAYERING TEST - Public packages must not reach into internal/
// =============================================================================

// TestGovernance_PublicSurfaceLayering ensures nothing under pkg/ imports an
// internal package. The compiler only enforces internal/ visibility across
// module boundaries, so within this module the rule needs a test.
func TestGovernance_PublicSurfaceLayering(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	internalPrefix := modulePath + "/internal/"
	for _, p := range pkgs {
		if strings.HasSuffix(p.PkgPath, "_test") {
			continue
		}
		for importPath := range p.Imports {
			if strings.HasPrefix(importPath, internalPrefix) {
				t.Errorf("LAYERING VIOLATION: '%s' imports '%s'.\n"+
					"   Fix: Invert the dependency; public packages must not depend on internal/.",
					strings.TrimPrefix(p.PkgPath, modulePath+"/"), importPath)
			}
		}
	}
}

// isStdlib reports whether an import path belongs to the standard library.
// Standard library paths never carry a dot in their first segment.
func isStdlib(path string) bool {
	first := path
	if i := strings.Index(path, "/"); i >= 0 {
		first = path[:i]
	}
	return !strings.Contains(first, ".")
}
