// Package textfeatures turns short free-text strings into TF-IDF weighted
// sparse vectors.
package textfeatures

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrEmptyCorpus = errors.New("textfeatures: empty corpus")
	ErrNotFitted   = errors.New("textfeatures: vectorizer not fitted")
	ErrNoTerms     = errors.New("textfeatures: corpus has no terms after stop word removal")
)

// Vectorizer is a TF-IDF extractor. After Fit the vocabulary and idf
// weights are frozen; tokens outside the vocabulary are ignored by Transform.
//
// Weights follow the smoothed formulation idf = ln((1+n)/(1+df)) + 1 and each
// output vector is L2 normalized.
type Vectorizer struct {
	StopWords bool

	terms []string
	idf   []float64
	index map[string]int
}

// NewVectorizer returns an unfitted vectorizer that removes English stop words.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{StopWords: true}
}

// Fit learns the vocabulary and document frequencies from corpus.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range Analyze(doc, v.StopWords) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return ErrNoTerms
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(corpus))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v.terms = terms
	v.idf = idf
	v.buildIndex()
	return nil
}

// FitTransform fits on corpus and returns its vectors.
func (v *Vectorizer) FitTransform(corpus []string) ([]SparseVector, error) {
	if err := v.Fit(corpus); err != nil {
		return nil, err
	}
	out := make([]SparseVector, len(corpus))
	for i, doc := range corpus {
		out[i] = v.Transform(doc)
	}
	return out, nil
}

// Transform maps text into the fitted feature space. An unfitted vectorizer
// or text with no known terms yields the zero vector.
func (v *Vectorizer) Transform(text string) SparseVector {
	counts := make(map[int]float64)
	for _, tok := range Analyze(text, v.StopWords) {
		if idx, ok := v.index[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	vec := SparseVector{Indices: indices, Values: make([]float64, len(indices))}
	for i, idx := range indices {
		vec.Values[i] = counts[idx] * v.idf[idx]
	}
	if norm := vec.Norm(); norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// Dimension is the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.terms) }

// Fitted reports whether Fit has succeeded or a fitted state was loaded.
func (v *Vectorizer) Fitted() bool { return len(v.terms) > 0 }

// Terms returns the vocabulary in feature-index order.
func (v *Vectorizer) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// IDF returns the weight of term, and false when the term is not in the vocabulary.
func (v *Vectorizer) IDF(term string) (float64, bool) {
	idx, ok := v.index[term]
	if !ok {
		return 0, false
	}
	return v.idf[idx], true
}

func (v *Vectorizer) buildIndex() {
	v.index = make(map[string]int, len(v.terms))
	for i, t := range v.terms {
		v.index[t] = i
	}
}

type vectorizerState struct {
	StopWords bool      `json:"stop_words"`
	Terms     []string  `json:"terms"`
	IDF       []float64 `json:"idf"`
}

// MarshalJSON encodes the fitted state.
func (v *Vectorizer) MarshalJSON() ([]byte, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}
	return json.Marshal(vectorizerState{StopWords: v.StopWords, Terms: v.terms, IDF: v.idf})
}

// UnmarshalJSON restores a fitted state and rebuilds the term index.
func (v *Vectorizer) UnmarshalJSON(data []byte) error {
	var st vectorizerState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if len(st.Terms) == 0 {
		return ErrNotFitted
	}
	if len(st.Terms) != len(st.IDF) {
		return fmt.Errorf("textfeatures: %d terms but %d idf weights", len(st.Terms), len(st.IDF))
	}
	if !sort.StringsAreSorted(st.Terms) {
		return errors.New("textfeatures: vocabulary is not sorted")
	}
	v.StopWords = st.StopWords
	v.terms = st.Terms
	v.idf = st.IDF
	v.buildIndex()
	return nil
}
