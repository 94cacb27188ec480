package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPayload = `{"symptoms":["fever"],"confidence_score":0.85}`

func TestDecodeExtraction_DirectJSON(t *testing.T) {
	ext, err := DecodeExtraction(validPayload)

	require.NoError(t, err)
	assert.Equal(t, []string{"fever"}, ext.Symptoms)
	assert.Equal(t, 0.85, ext.ConfidenceScore)
}

func TestDecodeExtraction_StripsCodeFences(t *testing.T) {
	raw := "```json\n" + validPayload + "\n```"

	ext, err := DecodeExtraction(raw)

	require.NoError(t, err)
	assert.Equal(t, []string{"fever"}, ext.Symptoms)
}

func TestDecodeExtraction_FindsEmbeddedObject(t *testing.T) {
	raw := "Here is the analysis you asked for:\n" + validPayload + "\nLet me know if you need more."

	ext, err := DecodeExtraction(raw)

	require.NoError(t, err)
	assert.Equal(t, []string{"fever"}, ext.Symptoms)
}

func TestDecodeExtraction_FailsOnGarbage(t *testing.T) {
	for _, raw := range []string{"", "no json here at all", "{broken", "[1,2,3]"} {
		_, err := DecodeExtraction(raw)
		assert.Error(t, err, "input: %q", raw)
	}
}

func TestDecodeExtraction_ClampsConfidence(t *testing.T) {
	ext, err := DecodeExtraction(`{"confidence_score":1.7}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ext.ConfidenceScore)

	ext, err = DecodeExtraction(`{"confidence_score":-0.3}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ext.ConfidenceScore)
}

func TestStrategies_AreOrdered(t *testing.T) {
	names := make([]string, len(Strategies))
	for i, s := range Strategies {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"direct", "strip_fences", "first_object"}, names)
}
