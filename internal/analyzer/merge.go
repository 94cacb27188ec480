package analyzer

import (
	"math"
	"strings"

	"mediscan/internal/domain"
)

// Merge deterministically combines per-chunk extractions, given in
// chunk order, into one document-level analysis.
//
// List fields are concatenated in chunk order and deduplicated
// case-insensitively, keeping first-seen casing. Nullable scalar fields
// take the longest non-empty candidate, earliest chunk winning ties.
// The confidence score is the flat arithmetic mean of the per-chunk
// scores rounded to two decimals; no multi-chunk penalty is applied.
func Merge(parts []domain.Extraction) domain.Analysis {
	switch len(parts) {
	case 0:
		return domain.Analysis{Status: domain.AnalysisStatusFailed}
	case 1:
		return domain.Analysis{Extraction: parts[0], Status: domain.AnalysisStatusSuccess}
	}

	var merged domain.Extraction
	merged.PatientInfo.Age = longestNonEmpty(collect(parts, func(e domain.Extraction) *string { return e.PatientInfo.Age }))
	merged.PatientInfo.Gender = longestNonEmpty(collect(parts, func(e domain.Extraction) *string { return e.PatientInfo.Gender }))

	merged.Symptoms = dedupe(parts, func(e domain.Extraction) []string { return e.Symptoms })
	merged.Medications = dedupe(parts, func(e domain.Extraction) []string { return e.Medications })
	merged.Procedures = dedupe(parts, func(e domain.Extraction) []string { return e.Procedures })
	merged.LabValues = dedupe(parts, func(e domain.Extraction) []string { return e.LabValues })
	merged.BodyParts = dedupe(parts, func(e domain.Extraction) []string { return e.BodyParts })
	merged.RiskFlags = dedupe(parts, func(e domain.Extraction) []string { return e.RiskFlags })

	merged.ClinicalImpression = longestNonEmpty(collect(parts, func(e domain.Extraction) *string { return e.ClinicalImpression }))
	merged.Specialty = longestNonEmpty(collect(parts, func(e domain.Extraction) *string { return e.Specialty }))
	merged.ProfessionalSummary = longestNonEmpty(collect(parts, func(e domain.Extraction) *string { return e.ProfessionalSummary }))
	merged.PatientFriendlySummary = longestNonEmpty(collect(parts, func(e domain.Extraction) *string { return e.PatientFriendlySummary }))

	sum := 0.0
	for _, p := range parts {
		sum += p.ConfidenceScore
	}
	merged.ConfidenceScore = round2(sum / float64(len(parts)))

	return domain.Analysis{Extraction: merged, Status: domain.AnalysisStatusSuccess}
}

// dedupe concatenates a list field across parts in chunk order, then
// drops case-insensitive duplicates, preserving first-seen casing.
func dedupe(parts []domain.Extraction, field func(domain.Extraction) []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range parts {
		for _, item := range field(p) {
			key := strings.ToLower(strings.TrimSpace(item))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

func collect(parts []domain.Extraction, field func(domain.Extraction) *string) []*string {
	out := make([]*string, len(parts))
	for i, p := range parts {
		out[i] = field(p)
	}
	return out
}

// longestNonEmpty picks the longest non-empty candidate; on equal
// length the earlier chunk wins.
func longestNonEmpty(candidates []*string) *string {
	var best *string
	for _, c := range candidates {
		if c == nil || *c == "" {
			continue
		}
		if best == nil || len(*c) > len(*best) {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	v := *best
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
