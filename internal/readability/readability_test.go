package readability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyllables(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"cat":         1,
		"the":         1,
		"make":        1,
		"table":       2,
		"beautiful":   3,
		"readability": 5,
		"rhythm":      1,
		"Quantum,":    2,
		"42":          0,
	}
	for word, want := range cases {
		assert.Equal(t, want, Syllables(word), word)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	st := Analyze("The cat sat on the mat. It was happy!")
	assert.Equal(t, Stats{Words: 9, Sentences: 2, Syllables: 10, Letters: 27, Polysyllables: 0}, st)

	assert.Equal(t, Stats{}, Analyze("   "))
	assert.Equal(t, 1, Analyze("no terminal punctuation here").Sentences)
	assert.Equal(t, 1, Analyze("Wait...").Sentences)
}

func TestFormulasOnSimpleSentence(t *testing.T) {
	t.Parallel()

	st := Analyze("The cat sat on the mat.")
	assert.Equal(t, Stats{Words: 6, Sentences: 1, Syllables: 6, Letters: 17}, st)

	assert.InDelta(t, -1.45, FleschKincaidGrade(st), 0.011)
	assert.InDelta(t, 116.15, FleschReadingEase(st), 0.011)
	assert.InDelta(t, -4.07, ColemanLiauIndex(st), 0.011)
	assert.InDelta(t, 3.13, SMOGIndex(st), 0.011)
	assert.InDelta(t, -5.09, AutomatedReadabilityIndex(st), 0.011)
}

func TestHarderTextScoresHigher(t *testing.T) {
	t.Parallel()

	simple := Score(strings.Repeat("The dog ran. ", 50))
	dense := Score(strings.Repeat("Phylogenetic reconstruction necessitates comprehensive evolutionary modelling considerations. ", 50))

	assert.Greater(t, dense.FleschKincaid, simple.FleschKincaid)
	assert.Greater(t, dense.ColemanLiau, simple.ColemanLiau)
	assert.Greater(t, dense.SMOG, simple.SMOG)
	assert.Greater(t, dense.ARI, simple.ARI)
	assert.Less(t, dense.FleschReadingEase, simple.FleschReadingEase)
	assert.Equal(t, 150, simple.Words)
}

func TestEmptyTextScoresZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Scores{}, Score(""))
	assert.Equal(t, Scores{}, Score("12 34 --"))
}

func TestBudgetNeverExceeded(t *testing.T) {
	t.Parallel()

	b := NewBudget(5, map[string]int{"Nature": 2, "PeerJ": 0})

	granted := 0
	for i := 0; i < 10; i++ {
		if b.Spend("Nature") {
			granted++
		}
	}
	assert.Equal(t, 2, granted)
	assert.Equal(t, 2, b.Spent("Nature"))
	assert.Equal(t, 0, b.Remaining("Nature"))
	assert.False(t, b.Allow("Nature"))

	for i := 0; i < 7; i++ {
		b.Spend("Cell")
	}
	assert.Equal(t, 5, b.Spent("Cell"))

	for i := 0; i < 100; i++ {
		assert.True(t, b.Spend("PeerJ"))
	}
	assert.Equal(t, -1, b.Remaining("PeerJ"))

	assert.True(t, b.Exhausted([]string{"Nature", "Cell"}))
	assert.False(t, b.Exhausted([]string{"Nature", "Science"}))
	assert.False(t, b.Exhausted(nil))
}
