package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediscan/internal/domain"
)

func testAnalysis(confidence float64) domain.Analysis {
	return domain.Analysis{
		Extraction: domain.Extraction{
			Symptoms:        []string{"fever"},
			ConfidenceScore: confidence,
		},
		Status: domain.AnalysisStatusSuccess,
	}
}

func TestFingerprint_NormalizesWhitespace(t *testing.T) {
	a := Fingerprint("patient   has\na fever")
	b := Fingerprint("patient has a fever")
	c := Fingerprint("patient has a cough")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestCache_GetMiss(t *testing.T) {
	c := New(10, time.Hour)

	got, ok := c.Get(Fingerprint("unknown"))
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCache_PutAndGet(t *testing.T) {
	c := New(10, time.Hour)
	fp := Fingerprint("some document text")

	c.Put(fp, testAnalysis(0.9))

	got, ok := c.Get(fp)
	require.True(t, ok)
	assert.Equal(t, 0.9, got.ConfidenceScore)
	assert.Equal(t, []string{"fever"}, got.Symptoms)
}

func TestCache_TTLExpiry(t *testing.T) {
	now := time.Now()
	c := New(10, time.Second)
	c.now = func() time.Time { return now }

	fp := Fingerprint("expiring doc")
	c.Put(fp, testAnalysis(0.8))

	_, ok := c.Get(fp)
	assert.True(t, ok, "entry should be present before TTL")

	now = now.Add(1500 * time.Millisecond)
	_, ok = c.Get(fp)
	assert.False(t, ok, "entry should be absent after TTL")
	assert.Equal(t, 0, c.Len(), "expired entry is removed on access")
}

func TestCache_EvictsOldestInserted(t *testing.T) {
	now := time.Now()
	c := New(3, time.Hour)
	c.now = func() time.Time { return now }

	fps := make([]string, 4)
	for i := range fps {
		fps[i] = Fingerprint(fmt.Sprintf("document %d", i))
	}

	for i := 0; i < 3; i++ {
		c.Put(fps[i], testAnalysis(float64(i)))
		now = now.Add(time.Second)
	}
	require.Equal(t, 3, c.Len())

	c.Put(fps[3], testAnalysis(3))

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get(fps[0])
	assert.False(t, ok, "first-inserted entry should have been evicted")
	for i := 1; i < 4; i++ {
		_, ok := c.Get(fps[i])
		assert.True(t, ok, "entry %d should survive", i)
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c := New(2, time.Hour)
	fpA := Fingerprint("doc a")
	fpB := Fingerprint("doc b")

	c.Put(fpA, testAnalysis(0.1))
	c.Put(fpB, testAnalysis(0.2))
	c.Put(fpA, testAnalysis(0.3))

	assert.Equal(t, 2, c.Len())
	got, ok := c.Get(fpA)
	require.True(t, ok)
	assert.Equal(t, 0.3, got.ConfidenceScore)
}
