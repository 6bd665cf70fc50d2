package prd

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Required section variants per type: each inner slice is one requirement
// satisfiable by any of its names (substring match, case-insensitive).
var minimalRequired = [][]string{
	{"Problem"},
	{"User", "Users", "Target User"},
	{"Core Feature", "Features", "Core Action", "MVP Scope"},
	{"Success Metric", "Success Criteria", "Success"},
}

var standardRequired = append(append([][]string{}, minimalRequired...), [][]string{
	{"Product Type", "Type"},
	{"Non-Goals", "Out of Scope"},
}...)

var fullRequired = append(append([][]string{}, standardRequired...), [][]string{
	{"Technical Constraints", "Constraints"},
	{"Dependencies"},
}...)

var recommendedSections = map[Type][]string{
	TypeMinimal:  nil,
	TypeStandard: {"Tech Stack", "Dependencies"},
	TypeFull:     {"Risks", "Timeline", "Overview"},
}

var knownProjectTypes = []string{
	"web app", "saas", "telegram bot", "discord bot",
	"rest api", "graphql api", "cli", "library", "sdk",
	"mobile app", "data pipeline", "browser extension",
}

// Result is the outcome of validating one PRD file.
type Result struct {
	Valid         bool     `json:"valid"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	SectionsFound []string `json:"sections_found"`
	Type          Type     `json:"prd_type"`
	FeatureCount  int      `json:"features_count"`
}

func (r *Result) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

func (r *Result) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Promote converts all warnings into errors, for strict mode.
func (r *Result) Promote() {
	for _, w := range r.Warnings {
		r.addError("(strict) " + w)
	}
	r.Warnings = nil
}

var actionableRe = regexp.MustCompile(`(?m)(\[[ x]\]|^\d+\.)`)
var subCheckboxRe = regexp.MustCompile(`-\s+\[[ x]\]`)

// Validate reads and validates a PRD file. expectedType overrides detection
// when non-empty.
func Validate(path string, expectedType Type) Result {
	result := Result{Valid: true}

	content, err := os.ReadFile(path)
	if err != nil {
		result.addError(fmt.Sprintf("Cannot read file: %v", err))
		return result
	}
	if len(strings.TrimSpace(string(content))) < 50 {
		result.addError("PRD is too short (< 50 characters)")
		return result
	}

	sections := ExtractSections(string(content))
	for _, s := range sections {
		result.SectionsFound = append(result.SectionsFound, s.Name)
	}

	result.Type = expectedType
	if result.Type == "" {
		result.Type = DetectType(sections)
	}

	var required [][]string
	switch result.Type {
	case TypeFull:
		required = fullRequired
	case TypeStandard:
		required = standardRequired
	default:
		required = minimalRequired
	}

	for _, variants := range required {
		if !hasAnySection(sections, variants...) {
			result.addError("Missing required section: " + variants[0])
		}
	}

	for _, s := range sections {
		if s.Content == "" {
			result.addWarning(fmt.Sprintf("Section %q is empty", s.Name))
		}
	}

	result.FeatureCount = CountFeatures(sections)
	if result.FeatureCount == 0 {
		result.addWarning("No features found (use checkboxes [ ] or numbered list)")
	}

	for _, recommended := range recommendedSections[result.Type] {
		if !hasAnySection(sections, recommended) {
			result.addWarning("Consider adding section: " + recommended)
		}
	}

	checkAcceptanceCriteria(sections, result.Type, &result)
	checkProjectType(sections, &result)
	checkActionableFormat(sections, &result)

	return result
}

func hasAnySection(sections []Section, variants ...string) bool {
	for _, s := range sections {
		name := strings.ToLower(s.Name)
		for _, v := range variants {
			if strings.Contains(name, strings.ToLower(v)) {
				return true
			}
		}
	}
	return false
}

func featureSection(sections []Section, keywords ...string) (Section, bool) {
	for _, s := range sections {
		name := strings.ToLower(s.Name)
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return s, true
			}
		}
	}
	return Section{}, false
}

// Full PRDs are expected to spell out acceptance criteria per feature.
func checkAcceptanceCriteria(sections []Section, t Type, result *Result) {
	if t == TypeMinimal {
		return
	}
	s, ok := featureSection(sections, "feature", "core")
	if !ok {
		return
	}
	hasCriteria := strings.Contains(strings.ToLower(s.Content), "acceptance criteria") ||
		subCheckboxRe.MatchString(s.Content)
	if !hasCriteria && t == TypeFull {
		result.addWarning("Full PRD should have acceptance criteria for features")
	}
}

func checkProjectType(sections []Section, result *Result) {
	for _, s := range sections {
		name := strings.ToLower(s.Name)
		if !strings.Contains(name, "type") || strings.Contains(name, "specific") {
			continue
		}
		content := strings.ToLower(s.Content)
		for _, t := range knownProjectTypes {
			if strings.Contains(content, t) {
				return
			}
		}
		result.addWarning(fmt.Sprintf("Product Type not recognized. Known types: %s...",
			strings.Join(knownProjectTypes[:5], ", ")))
		return
	}
}

func checkActionableFormat(sections []Section, result *Result) {
	s, ok := featureSection(sections, "feature", "scope", "mvp")
	if !ok {
		return
	}
	if !actionableRe.MatchString(s.Content) {
		result.addWarning("Features section should have checkboxes [ ] or numbered list")
	}
}
