package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensDropStopWordsAndShortTerms(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	assert.Equal(t, []string{"enzyme", "binds", "dna", "x2"}, r.Tokens("The Enzyme binds to a DNA x2"))
	assert.Empty(t, r.Tokens("a I of the"))
}

func TestRankPrefersRareTerms(t *testing.T) {
	t.Parallel()

	r := &Ranker{TopK: 1, StopWords: englishStopWords}
	ranked := r.Rank([]string{"apple apple banana", "banana cherry", ""})
	require.Len(t, ranked, 3)

	require.Len(t, ranked[0], 1)
	assert.Equal(t, "apple", ranked[0][0].Term)
	require.Len(t, ranked[1], 1)
	assert.Equal(t, "cherry", ranked[1][0].Term)
	assert.Nil(t, ranked[2])
}

func TestRankNormalizesWeights(t *testing.T) {
	t.Parallel()

	ranked := NewRanker().Rank([]string{"solitary", "pair pair"})
	require.Len(t, ranked[0], 1)
	assert.InDelta(t, 1.0, ranked[0][0].Weight, 1e-12)
	assert.InDelta(t, 1.0, ranked[1][0].Weight, 1e-12)
}

func TestKeywordsTieBreakAndLimit(t *testing.T) {
	t.Parallel()

	r := NewRanker()
	got := r.Keywords([]string{"zeta eta theta iota kappa lambda omicron sigma alpha beta"})
	assert.Equal(t, []string{"alpha; beta; eta; iota; kappa; lambda; omicron; sigma"}, got)
}

func TestMaxFeaturesKeepsFrequentTerms(t *testing.T) {
	t.Parallel()

	r := &Ranker{TopK: 5, MaxFeatures: 1, StopWords: englishStopWords}
	got := r.Keywords([]string{"gene gene protein", "gene cell"})
	assert.Equal(t, []string{"gene", "gene"}, got)
}
