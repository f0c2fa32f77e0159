// Package keywords ranks the terms of a small corpus by TF-IDF weight.
package keywords

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Defaults used by the readability pass.
const (
	DefaultTopK        = 8
	DefaultMaxFeatures = 5000
	Separator          = "; "
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Term is one ranked term of a document. Weights of a document are L2
// normalized over its whole vocabulary.
type Term struct {
	Term   string
	Weight float64
}

// Ranker computes TF-IDF weights with a smoothed idf.
type Ranker struct {
	TopK        int
	MaxFeatures int
	StopWords   map[string]struct{}
}

// NewRanker returns a ranker with the default limits and English stop words.
func NewRanker() *Ranker {
	return &Ranker{TopK: DefaultTopK, MaxFeatures: DefaultMaxFeatures, StopWords: englishStopWords}
}

// Tokens lowercases text and returns its terms of two or more word
// characters, stop words removed.
func (r *Ranker) Tokens(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := r.StopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Rank returns the TopK terms of every document, heaviest first. Ties are
// broken alphabetically. Documents without terms get a nil slice.
func (r *Ranker) Rank(docs []string) [][]Term {
	counts := make([]map[string]int, len(docs))
	total := map[string]int{}
	df := map[string]int{}
	for i, doc := range docs {
		counts[i] = map[string]int{}
		for _, tok := range r.Tokens(doc) {
			counts[i][tok]++
			total[tok]++
		}
		for tok := range counts[i] {
			df[tok]++
		}
	}
	vocab := r.vocabulary(total)

	n := float64(len(docs))
	out := make([][]Term, len(docs))
	for i, tf := range counts {
		terms := make([]string, 0, len(tf))
		for tok := range tf {
			if _, ok := vocab[tok]; ok {
				terms = append(terms, tok)
			}
		}
		if len(terms) == 0 {
			continue
		}
		sort.Strings(terms)
		weights := make([]float64, len(terms))
		for j, tok := range terms {
			idf := math.Log((1+n)/(1+float64(df[tok]))) + 1
			weights[j] = float64(tf[tok]) * idf
		}
		if norm := floats.Norm(weights, 2); norm > 0 {
			floats.Scale(1/norm, weights)
		}

		ranked := make([]Term, len(terms))
		for j, tok := range terms {
			ranked[j] = Term{Term: tok, Weight: weights[j]}
		}
		sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Weight > ranked[b].Weight })
		if r.TopK > 0 && len(ranked) > r.TopK {
			ranked = ranked[:r.TopK]
		}
		out[i] = ranked
	}
	return out
}

// Keywords joins the ranked terms of every document with Separator.
func (r *Ranker) Keywords(docs []string) []string {
	ranked := r.Rank(docs)
	out := make([]string, len(ranked))
	for i, terms := range ranked {
		names := make([]string, len(terms))
		for j, t := range terms {
			names[j] = t.Term
		}
		out[i] = strings.Join(names, Separator)
	}
	return out
}

// vocabulary keeps the MaxFeatures most frequent terms across the corpus.
func (r *Ranker) vocabulary(total map[string]int) map[string]struct{} {
	terms := make([]string, 0, len(total))
	for tok := range total {
		terms = append(terms, tok)
	}
	sort.Slice(terms, func(a, b int) bool {
		if total[terms[a]] != total[terms[b]] {
			return total[terms[a]] > total[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if r.MaxFeatures > 0 && len(terms) > r.MaxFeatures {
		terms = terms[:r.MaxFeatures]
	}
	vocab := make(map[string]struct{}, len(terms))
	for _, tok := range terms {
		vocab[tok] = struct{}{}
	}
	return vocab
}
