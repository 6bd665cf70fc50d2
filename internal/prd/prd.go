// Package prd parses and validates product requirement documents. Two
// consumers: the prd command validates structure, and the coverage check
// asks only for a feature count.
package prd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Type classifies a PRD by how much structure it carries.
type Type string

// PRD types, from simplest to most demanding.
const (
	TypeMinimal  Type = "minimal"
	TypeStandard Type = "standard"
	TypeFull     Type = "full"
)

// ParseType validates a --type flag value. Empty means auto-detect.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case "", TypeMinimal, TypeStandard, TypeFull:
		return t, nil
	default:
		return "", fmt.Errorf("unknown PRD type %q (valid: minimal, standard, full)", s)
	}
}

// Section is one markdown heading plus the text under it, in document order.
type Section struct {
	Name    string
	Content string
}

var headingRe = regexp.MustCompile(`^#{1,3}\s+(.+)$`)

// ExtractSections splits markdown content on level 1-3 headings. Text before
// the first heading is discarded.
func ExtractSections(content string) []Section {
	var sections []Section
	var current *Section
	var body []string

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(strings.Join(body, "\n"))
			sections = append(sections, *current)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &Section{Name: strings.TrimSpace(m[1])}
			body = body[:0]
			continue
		}
		body = append(body, line)
	}
	flush()
	return sections
}

// DetectType infers the PRD type from which sections are present.
// Constraints or risks imply full; a product type or non-goals section
// implies standard; otherwise minimal.
func DetectType(sections []Section) Type {
	var hasConstraints, hasRisks, hasType, hasNonGoals bool
	for _, s := range sections {
		name := strings.ToLower(s.Name)
		switch {
		case strings.Contains(name, "constraint"):
			hasConstraints = true
		case strings.Contains(name, "risk"):
			hasRisks = true
		case strings.Contains(name, "type"):
			hasType = true
		case strings.Contains(name, "non-goal") || strings.Contains(name, "out of scope"):
			hasNonGoals = true
		}
	}
	if hasConstraints || hasRisks {
		return TypeFull
	}
	if hasType || hasNonGoals {
		return TypeStandard
	}
	return TypeMinimal
}

var (
	checkboxRe  = regexp.MustCompile(`\[[ x]\]`)
	numberedRe  = regexp.MustCompile(`(?m)^\d+\.`)
	subHeaderRe = regexp.MustCompile(`(?m)^###\s+`)
)

// CountFeatures counts actionable items in the first feature-like section:
// the max of checkboxes, numbered items, and ### headers. Zero means no
// feature section was found or it had no recognizable list.
func CountFeatures(sections []Section) int {
	for _, s := range sections {
		name := strings.ToLower(s.Name)
		if strings.Contains(name, "feature") || strings.Contains(name, "scope") ||
			strings.Contains(name, "mvp") || strings.Contains(name, "core") {
			counts := []int{
				len(checkboxRe.FindAllString(s.Content, -1)),
				len(numberedRe.FindAllString(s.Content, -1)),
				len(subHeaderRe.FindAllString(s.Content, -1)),
			}
			best := 0
			for _, c := range counts {
				if c > best {
					best = c
				}
			}
			return best
		}
	}
	return 0
}

// DefaultFeatureCount is assumed when a PRD exists but its feature list
// cannot be parsed. The coverage audit must not pass vacuously on an
// unparseable document.
const DefaultFeatureCount = 4

var featureItemRe = regexp.MustCompile(`^(\d+\.|-)\s+\*\*`)

// FeatureCount reads a PRD file and returns the feature count the coverage
// audit consumes. Bold list items under a feature or MVP block are counted;
// a parseable file with no recognizable items falls back to
// DefaultFeatureCount, and an unreadable file yields zero.
func FeatureCount(path string) int {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0
	}

	features := 0
	inFeatures := false
	for _, line := range strings.Split(string(content), "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "feature") || strings.Contains(lower, "mvp") {
			inFeatures = true
		} else if strings.HasPrefix(line, "##") && inFeatures {
			inFeatures = false
		}
		if inFeatures && featureItemRe.MatchString(line) {
			features++
		}
	}
	if features > 0 {
		return features
	}
	return DefaultFeatureCount
}

// Find locates the PRD for a project path. The path itself may be the file;
// otherwise the conventional locations are tried in order.
func Find(path string) (string, bool) {
	candidates := []string{
		path,
		filepath.Join(path, "PRD.md"),
		filepath.Join(path, "docs", "PRD.md"),
		filepath.Join(path, "docs", "prd.md"),
	}
	for _, candidate := range candidates {
		if strings.ToLower(filepath.Ext(candidate)) != ".md" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
