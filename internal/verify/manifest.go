package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// cargoManifest models the slice of Cargo.toml the dependency check needs.
// Dependencies are either a bare version string or a table with features.
type cargoManifest struct {
	Dependencies map[string]toml.Primitive `toml:"dependencies"`
}

type cargoDependency struct {
	Features []string `toml:"features"`
}

// CheckManifest validates Cargo.toml dependency wiring: a fullstack project
// (askama templates) must serve static files, which needs tower-http with
// the fs feature enabled.
func CheckManifest(dir string) Check {
	path := filepath.Join(dir, "Cargo.toml")
	if _, err := os.Stat(path); err != nil {
		return Check{Name: "manifest", Passed: true, Message: "Not a Rust project"}
	}

	var manifest cargoManifest
	meta, err := toml.DecodeFile(path, &manifest)
	if err != nil {
		return Check{Name: "manifest", Message: fmt.Sprintf("Cargo.toml parse error: %v", err)}
	}

	if prim, ok := manifest.Dependencies["tower-http"]; ok {
		var dep cargoDependency
		// A bare version string has no features table; that decode error
		// just means no features were requested.
		if err := meta.PrimitiveDecode(prim, &dep); err == nil && hasFeature(dep, "fs") {
			return Check{Name: "manifest", Passed: true, Message: "tower-http has fs feature"}
		}
		return Check{Name: "manifest", Message: "tower-http missing fs feature"}
	}

	if isFullstack(manifest) {
		return Check{Name: "manifest", Message: "Fullstack project missing tower-http with fs feature"}
	}
	return Check{Name: "manifest", Passed: true, Message: "API only (no tower-http needed)"}
}

func hasFeature(dep cargoDependency, feature string) bool {
	for _, f := range dep.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Template engines in the dependency list mark a project as fullstack.
func isFullstack(manifest cargoManifest) bool {
	for name := range manifest.Dependencies {
		if strings.Contains(strings.ToLower(name), "askama") ||
			strings.Contains(strings.ToLower(name), "htmx") {
			return true
		}
	}
	return false
}
