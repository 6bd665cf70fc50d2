package verify

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/steveyegge/bdcheck/internal/runner"
)

// secretPatterns are the fallback substrings scanned when gitleaks is not
// installed. Crude on purpose; gitleaks is the real scanner.
var secretPatterns = []string{"API_KEY=", "SECRET=", "PASSWORD=", "aws_secret"}

var scannedExtensions = map[string]bool{
	".rs": true,
	".py": true,
	".js": true,
}

// CheckSecrets scans the project for committed credentials. Prefers
// gitleaks; falls back to an in-process pattern scan when it is missing.
func CheckSecrets(ctx context.Context, dir string) Check {
	if runner.Available("gitleaks") {
		res, err := runner.Run(ctx, dir, 0, "gitleaks", "detect", "--no-git", "-v")
		if err == nil {
			if res.OK() {
				return Check{Name: "secrets", Passed: true, Message: "No secrets detected"}
			}
			if strings.Contains(strings.ToLower(res.Output()), "leaks found") {
				return Check{Name: "secrets", Message: "Potential secrets detected! Review before committing."}
			}
		}
		// gitleaks errored for another reason; fall through to the scan.
	}

	if pattern, ok := scanForPatterns(dir); ok {
		return Check{Name: "secrets", Message: "Potential secret pattern found: " + pattern}
	}
	return Check{Name: "secrets", Passed: true, Message: "No obvious secrets detected"}
}

func scanForPatterns(dir string) (string, bool) {
	var found string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" {
			return filepath.SkipAll
		}
		if d.IsDir() {
			if name := d.Name(); name == ".git" || name == "node_modules" || name == "target" {
				return filepath.SkipDir
			}
			return nil
		}
		if !scannedExtensions[filepath.Ext(path)] {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		for _, pattern := range secretPatterns {
			if strings.Contains(string(content), pattern) {
				found = pattern
				return filepath.SkipAll
			}
		}
		return nil
	})
	return found, found != ""
}
