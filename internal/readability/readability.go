// Package readability scores English text with the classic grade-level
// formulas. Every function is pure; empty text scores zero.
package readability

import (
	"math"
	"strings"
	"unicode"
)

// Stats are the raw counts the formulas are built from.
type Stats struct {
	Words         int
	Sentences     int
	Syllables     int
	Letters       int
	Polysyllables int
}

// Scores groups the metrics written to score checkpoints.
type Scores struct {
	FleschKincaid     float64
	ColemanLiau       float64
	FleschReadingEase float64
	SMOG              float64
	ARI               float64
	Words             int
}

// Analyze counts words, sentences, syllables and letters of text.
func Analyze(text string) Stats {
	var st Stats

	for _, token := range strings.Fields(text) {
		word := letters(token)
		if word == "" {
			continue
		}
		st.Words++
		st.Letters += len([]rune(word))

		syl := Syllables(word)
		st.Syllables += syl
		if syl >= 3 {
			st.Polysyllables++
		}
	}

	st.Sentences = countSentences(text)
	if st.Words > 0 && st.Sentences == 0 {
		st.Sentences = 1
	}
	return st
}

// Score computes every metric of text.
func Score(text string) Scores {
	st := Analyze(text)
	return Scores{
		FleschKincaid:     FleschKincaidGrade(st),
		ColemanLiau:       ColemanLiauIndex(st),
		FleschReadingEase: FleschReadingEase(st),
		SMOG:              SMOGIndex(st),
		ARI:               AutomatedReadabilityIndex(st),
		Words:             st.Words,
	}
}

// FleschKincaidGrade is 0.39 w/s + 11.8 syl/w - 15.59.
func FleschKincaidGrade(st Stats) float64 {
	if st.Words == 0 {
		return 0
	}
	return round(0.39*st.wordsPerSentence() + 11.8*st.syllablesPerWord() - 15.59)
}

// FleschReadingEase is 206.835 - 1.015 w/s - 84.6 syl/w.
func FleschReadingEase(st Stats) float64 {
	if st.Words == 0 {
		return 0
	}
	return round(206.835 - 1.015*st.wordsPerSentence() - 84.6*st.syllablesPerWord())
}

// ColemanLiauIndex is 0.0588 L - 0.296 S - 15.8 with L letters and S
// sentences per hundred words.
func ColemanLiauIndex(st Stats) float64 {
	if st.Words == 0 {
		return 0
	}
	l := float64(st.Letters) / float64(st.Words) * 100
	s := float64(st.Sentences) / float64(st.Words) * 100
	return round(0.0588*l - 0.296*s - 15.8)
}

// SMOGIndex is 1.043 sqrt(polysyllables * 30 / sentences) + 3.1291.
func SMOGIndex(st Stats) float64 {
	if st.Words == 0 || st.Sentences == 0 {
		return 0
	}
	return round(1.043*math.Sqrt(float64(st.Polysyllables)*30/float64(st.Sentences)) + 3.1291)
}

// AutomatedReadabilityIndex is 4.71 chars/w + 0.5 w/s - 21.43.
func AutomatedReadabilityIndex(st Stats) float64 {
	if st.Words == 0 {
		return 0
	}
	return round(4.71*float64(st.Letters)/float64(st.Words) + 0.5*st.wordsPerSentence() - 21.43)
}

// Syllables estimates the syllable count of a single word by counting vowel
// groups, dropping a silent trailing e. Every word has at least one.
func Syllables(word string) int {
	word = strings.ToLower(letters(word))
	if word == "" {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func (st Stats) wordsPerSentence() float64 {
	return float64(st.Words) / float64(st.Sentences)
}

func (st Stats) syllablesPerWord() float64 {
	return float64(st.Syllables) / float64(st.Words)
}

func countSentences(text string) int {
	count := 0
	inTerminal := false
	for _, r := range text {
		terminal := r == '.' || r == '!' || r == '?'
		if terminal && !inTerminal {
			count++
		}
		inTerminal = terminal
	}
	return count
}

func letters(token string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, token)
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
