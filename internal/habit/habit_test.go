package habit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHabitWeek_DefaultsToAllFalse(t *testing.T) {
	h := New(StringID("a"), "Read")
	assert.Equal(t, Week{}, h.Week("2026-10-19"))
	assert.Empty(t, h.CompletionData, "reading must not materialize a week")
}

func TestHabitToggle_LazilyAllocatesAndFlips(t *testing.T) {
	h := New(StringID("a"), "Read")

	v, err := h.Toggle("2026-10-19", 2)
	require.NoError(t, err)
	assert.True(t, v)
	assert.Equal(t, Week{false, false, true}, h.CompletionData["2026-10-19"])

	v, err = h.Toggle("2026-10-19", 2)
	require.NoError(t, err)
	assert.False(t, v)
	assert.Equal(t, Week{}, h.CompletionData["2026-10-19"])
}

func TestHabitToggle_RejectsOutOfRangeDay(t *testing.T) {
	h := New(StringID("a"), "Read")
	for _, d := range []int{-1, 7} {
		_, err := h.Toggle("2026-10-19", d)
		assert.Error(t, err)
	}
	assert.Empty(t, h.CompletionData)
}

func TestHabitClone_IsDeep(t *testing.T) {
	h := New(StringID("a"), "Read")
	_, _ = h.Toggle("2026-10-19", 0)

	c := h.Clone()
	_, _ = c.Toggle("2026-10-19", 1)
	_, _ = c.Toggle("2026-10-26", 1)

	assert.Equal(t, Week{true}, h.CompletionData["2026-10-19"])
	assert.Len(t, h.CompletionData, 1)
}

func TestID_JSON(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[1718000000000, "0190-abc"]`), &ids))
	require.Len(t, ids, 2)
	assert.Equal(t, NumericID(1718000000000), ids[0])
	assert.True(t, ids[0].Numeric())
	assert.Equal(t, StringID("0190-abc"), ids[1])

	out, err := json.Marshal(ids)
	require.NoError(t, err)
	assert.JSONEq(t, `[1718000000000, "0190-abc"]`, string(out))

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &bad))
}

func TestNormalizeName(t *testing.T) {
	n, ok := NormalizeName("  Read  ")
	assert.True(t, ok)
	assert.Equal(t, "Read", n)

	_, ok = NormalizeName("   ")
	assert.False(t, ok)

	// "e" + combining acute composes to a single rune.
	n, ok = NormalizeName("Cafe\u0301")
	assert.True(t, ok)
	assert.Equal(t, "Caf\u00e9", n)
}

func TestGenerators(t *testing.T) {
	a := UUIDv7Generator{}.Generate()
	b := UUIDv7Generator{}.Generate()
	assert.NotEqual(t, a, b)
	assert.Len(t, a.String(), 36)
	assert.False(t, a.Numeric())

	g := NewFixedGenerator("h1")
	assert.Equal(t, StringID("h1"), g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
