package analyzer

import "fmt"

const analysisPromptTemplate = `You are a medical document analyst. Extract structured information from the medical transcription below.

CRITICAL: Return ONLY a valid JSON object. No markdown, no code fences, no explanations.

Required JSON structure:
{
  "patient_info": {"age": "string or null", "gender": "string or null"},
  "symptoms": ["list of symptoms"],
  "medications": ["list of medications and dosages"],
  "procedures": ["list of procedures or tests"],
  "lab_values": ["list of lab results with values"],
  "body_parts": ["list of body parts mentioned"],
  "clinical_impression": "brief clinical summary or null",
  "risk_flags": ["critical conditions, urgent findings"],
  "specialty_classification": "medical specialty or null",
  "professional_summary": "2-3 sentence professional clinical summary",
  "patient_friendly_summary": "2-3 sentence plain-language explanation",
  "confidence_score": 0.85
}

Do NOT diagnose or prescribe. Use [] for empty lists, null for missing values.

MEDICAL TRANSCRIPTION:
%s`

// BuildAnalysisPrompt returns the extraction prompt for one chunk of
// transcription text.
func BuildAnalysisPrompt(chunkText string) string {
	return fmt.Sprintf(analysisPromptTemplate, chunkText)
}
