package analyzer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"mediscan/internal/domain"
)

// Strategy attempts to recover a JSON document from raw model output.
// Strategies are tried in order; the first whose candidate unmarshals
// cleanly wins.
type Strategy struct {
	Name      string
	Candidate func(raw string) (string, bool)
}

var fenceRe = regexp.MustCompile("(?i)```(?:json)?\\s*|\\s*```")

// Strategies is the ordered fallback chain for parsing model output:
// direct parse, code-fence stripping, then the first embedded object.
var Strategies = []Strategy{
	{
		Name: "direct",
		Candidate: func(raw string) (string, bool) {
			s := strings.TrimSpace(raw)
			return s, s != ""
		},
	},
	{
		Name: "strip_fences",
		Candidate: func(raw string) (string, bool) {
			s := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
			return s, s != ""
		},
	},
	{
		Name: "first_object",
		Candidate: func(raw string) (string, bool) {
			start := strings.Index(raw, "{")
			end := strings.LastIndex(raw, "}")
			if start < 0 || end <= start {
				return "", false
			}
			return raw[start : end+1], true
		},
	},
}

// DecodeExtraction parses free-form model output into an Extraction
// using the strategy chain. Returns an error naming the failed
// strategies when no candidate parses.
func DecodeExtraction(raw string) (*domain.Extraction, error) {
	for _, s := range Strategies {
		candidate, ok := s.Candidate(raw)
		if !ok {
			continue
		}
		var ext domain.Extraction
		if err := json.Unmarshal([]byte(candidate), &ext); err != nil {
			continue
		}
		if ext.ConfidenceScore < 0 {
			ext.ConfidenceScore = 0
		} else if ext.ConfidenceScore > 1 {
			ext.ConfidenceScore = 1
		}
		return &ext, nil
	}
	return nil, fmt.Errorf("no strategy produced valid JSON (preview: %s)", truncate(raw, 200))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
