package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediscan/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestMerge_Empty(t *testing.T) {
	got := Merge(nil)

	assert.Equal(t, domain.AnalysisStatusFailed, got.Status)
	assert.Equal(t, 0.0, got.ConfidenceScore)
	assert.Empty(t, got.Symptoms)
	assert.Nil(t, got.ClinicalImpression)
}

func TestMerge_SingleIsIdentity(t *testing.T) {
	part := domain.Extraction{
		PatientInfo:        domain.PatientInfo{Age: strPtr("45"), Gender: strPtr("female")},
		Symptoms:           []string{"Fever", "Cough"},
		Medications:        []string{"Aspirin 81mg"},
		ClinicalImpression: strPtr("Likely viral infection"),
		ConfidenceScore:    0.834,
	}

	got := Merge([]domain.Extraction{part})

	assert.Equal(t, domain.AnalysisStatusSuccess, got.Status)
	assert.Equal(t, part, got.Extraction)
}

func TestMerge_Deterministic(t *testing.T) {
	parts := []domain.Extraction{
		{Symptoms: []string{"fever", "chills"}, ConfidenceScore: 0.7},
		{Symptoms: []string{"cough"}, ConfidenceScore: 0.9},
	}

	first := Merge(parts)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Merge(parts))
	}
}

func TestMerge_DedupesListsCaseInsensitively(t *testing.T) {
	parts := []domain.Extraction{
		{Symptoms: []string{"Fever", "cough"}},
		{Symptoms: []string{"fever", "FEVER", "Chills"}},
	}

	got := Merge(parts)

	// First-seen casing wins, chunk order preserved.
	assert.Equal(t, []string{"Fever", "cough", "Chills"}, got.Symptoms)
}

func TestMerge_ListFieldsConcatenateInChunkOrder(t *testing.T) {
	parts := []domain.Extraction{
		{Medications: []string{"Metformin"}, BodyParts: []string{"pancreas"}},
		{Medications: []string{"Insulin"}, BodyParts: []string{"liver"}},
		{Medications: []string{"Metformin", "Lisinopril"}},
	}

	got := Merge(parts)

	assert.Equal(t, []string{"Metformin", "Insulin", "Lisinopril"}, got.Medications)
	assert.Equal(t, []string{"pancreas", "liver"}, got.BodyParts)
}

func TestMerge_ScalarsTakeLongestNonEmpty(t *testing.T) {
	parts := []domain.Extraction{
		{ClinicalImpression: strPtr("short note")},
		{ClinicalImpression: strPtr("a considerably more detailed clinical impression")},
		{ClinicalImpression: strPtr("mid-length impression")},
	}

	got := Merge(parts)

	require.NotNil(t, got.ClinicalImpression)
	assert.Equal(t, "a considerably more detailed clinical impression", *got.ClinicalImpression)
}

func TestMerge_ScalarTiesBreakToEarliestChunk(t *testing.T) {
	parts := []domain.Extraction{
		{Specialty: strPtr("Cardiology")},
		{Specialty: strPtr("Neurology1")}, // same length as Cardiology
	}

	got := Merge(parts)

	require.NotNil(t, got.Specialty)
	assert.Equal(t, "Cardiology", *got.Specialty)
}

func TestMerge_ScalarNilWhenNoCandidate(t *testing.T) {
	parts := []domain.Extraction{
		{Symptoms: []string{"fever"}},
		{ProfessionalSummary: strPtr("")},
	}

	got := Merge(parts)

	assert.Nil(t, got.ProfessionalSummary)
	assert.Nil(t, got.PatientInfo.Age)
}

func TestMerge_ConfidenceIsFlatMeanRoundedToTwoDecimals(t *testing.T) {
	parts := []domain.Extraction{
		{ConfidenceScore: 0.8},
		{ConfidenceScore: 0.9},
		{ConfidenceScore: 0.7},
	}

	got := Merge(parts)

	// (0.8+0.9+0.7)/3 = 0.8; no multi-chunk penalty applied.
	assert.Equal(t, 0.8, got.ConfidenceScore)
}

func TestMerge_ConfidenceRounding(t *testing.T) {
	parts := []domain.Extraction{
		{ConfidenceScore: 0.85},
		{ConfidenceScore: 0.8},
	}

	got := Merge(parts)

	assert.Equal(t, 0.83, got.ConfidenceScore)
}
