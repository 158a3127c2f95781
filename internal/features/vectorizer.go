// Package features builds the weighted TF-IDF representation of a catalog.
//
// Each record is turned into one composite text in which the title, category
// and tags are repeated so they carry more term frequency than the author and
// description. The corpus of composite texts is then vectorized with a fixed,
// capped vocabulary of unigrams and bigrams, smoothed inverse document
// frequency and per-row L2 normalization. For a given corpus and Config the
// resulting Matrix is exactly reproducible.
package features

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/lehigh-university-libraries/recommender/internal/catalog"
)

// Config controls vectorization
type Config struct {
	MaxFeatures int  `yaml:"max_features"`
	MinN        int  `yaml:"min_ngram"`
	MaxN        int  `yaml:"max_ngram"`
	StopWords   bool `yaml:"stop_words"`
}

// DefaultConfig caps the vocabulary at 1000 unigrams and bigrams with English stop words removed
func DefaultConfig() Config {
	return Config{
		MaxFeatures: 1000,
		MinN:        1,
		MaxN:        2,
		StopWords:   true,
	}
}

// FieldWeight is how many times a record field is repeated in the composite text
type FieldWeight struct {
	Field  string
	Repeat int
}

// DefaultFieldWeights gives the title the most weight, then category and tags
var DefaultFieldWeights = []FieldWeight{
	{"title", 3},
	{"category", 2},
	{"tags", 2},
	{"author", 1},
	{"description", 1},
}

// Vector is a sparse row. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the inner product of two sparse vectors
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean length of the vector
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Matrix holds one row per record, in corpus order
type Matrix struct {
	Vocabulary []string
	IDF        []float64
	Rows       []Vector
}

// Len returns the number of rows
func (m *Matrix) Len() int {
	return len(m.Rows)
}

// CompositeText concatenates the record fields, repeating each by its weight
func CompositeText(rec catalog.Record, weights []FieldWeight) string {
	var parts []string
	for _, fw := range weights {
		value := fieldValue(rec, fw.Field)
		if value == "" {
			continue
		}
		for i := 0; i < fw.Repeat; i++ {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}

func fieldValue(rec catalog.Record, field string) string {
	switch field {
	case "title":
		return rec.Title
	case "author":
		return rec.Author
	case "category":
		return rec.Category
	case "language":
		return rec.Language
	case "description":
		return rec.Description
	case "tags":
		return rec.Tags
	default:
		return ""
	}
}

// Build vectorizes the composite text of every record in the corpus
func Build(corpus catalog.Corpus, cfg Config) *Matrix {
	docs := make([]string, len(corpus))
	for i, rec := range corpus {
		docs[i] = CompositeText(rec, DefaultFieldWeights)
	}
	return Fit(docs, cfg)
}

// Fit learns a vocabulary and IDF weights from docs and returns their TF-IDF rows
func Fit(docs []string, cfg Config) *Matrix {
	if cfg.MinN < 1 {
		cfg.MinN = 1
	}
	if cfg.MaxN < cfg.MinN {
		cfg.MaxN = cfg.MinN
	}
	an := newAnalyzer(cfg)

	counts := make([]map[string]int, len(docs))
	totals := make(map[string]int)
	docFreq := make(map[string]int)
	for i, doc := range docs {
		tf := make(map[string]int)
		for _, term := range an.terms(doc) {
			tf[term]++
		}
		for term, c := range tf {
			totals[term] += c
			docFreq[term]++
		}
		counts[i] = tf
	}

	vocab := selectVocabulary(totals, cfg.MaxFeatures)
	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	rows := make([]Vector, len(docs))
	for i, tf := range counts {
		rows[i] = weightRow(tf, index, idf)
	}

	slog.Debug("Vectorized corpus", "documents", len(docs), "distinct_terms", len(totals), "vocabulary", len(vocab))

	return &Matrix{Vocabulary: vocab, IDF: idf, Rows: rows}
}

// selectVocabulary keeps the maxFeatures most frequent terms across the corpus,
// breaking ties alphabetically, and returns them in alphabetical order.
func selectVocabulary(totals map[string]int, maxFeatures int) []string {
	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)
	return terms
}

func weightRow(tf map[string]int, index map[string]int, idf []float64) Vector {
	weights := make(map[int]float64, len(tf))
	for term, c := range tf {
		if col, ok := index[term]; ok {
			weights[col] = float64(c) * idf[col]
		}
	}

	v := Vector{Indices: make([]int, 0, len(weights))}
	for col := range weights {
		v.Indices = append(v.Indices, col)
	}
	sort.Ints(v.Indices)
	v.Values = make([]float64, len(v.Indices))
	for k, col := range v.Indices {
		v.Values[k] = weights[col]
	}

	if norm := v.Norm(); norm > 0 {
		for k := range v.Values {
			v.Values[k] /= norm
		}
	}
	return v
}
