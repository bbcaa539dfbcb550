// Package wordvec trains skip-gram word embeddings with negative sampling
// and answers similarity queries over the result.
//
// The gradients are derived and applied by hand on flat float64 matrices;
// there is no autodiff machinery anywhere. Training is single-threaded and
// fully deterministic for a fixed seed.
//
// Typical usage:
//
//	emb, err := wordvec.Train(tokens, wordvec.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, m := range emb.MostSimilar("paris", 5) {
//		fmt.Printf("%s %.3f\n", m.Token, m.Score)
//	}
//
// The heavy lifting lives in the skipgram package; this package wires the
// stages together and provides the string-keyed query surface.
package wordvec

import (
	"sort"

	"github.com/happyhackingspace/wordvec/skipgram"
	"gonum.org/v1/gonum/floats"
)

// Embedding is a trained embedding table bound to its vocabulary.
type Embedding struct {
	vocab *skipgram.Vocabulary
	model *skipgram.Model
}

// Vocab returns the vocabulary the embedding was trained with.
func (e *Embedding) Vocab() *skipgram.Vocabulary { return e.vocab }

// Dim returns the dimensionality of the vectors.
func (e *Embedding) Dim() int { return e.model.Dim }

// Vector returns a copy of the trained vector for token. A token missing
// from the vocabulary gets the OOV sentinel's vector.
func (e *Embedding) Vector(token string) []float64 {
	return e.VectorByID(e.vocab.ID(token))
}

// VectorByID returns a copy of the trained vector for a vocabulary ID, or
// nil if the ID is out of range.
func (e *Embedding) VectorByID(id int) []float64 {
	if id < 0 || id >= e.model.VocabSize {
		return nil
	}
	v := make([]float64, e.model.Dim)
	copy(v, e.model.InRow(id))
	return v
}

// Similarity returns the cosine similarity between the vectors of two
// tokens. Unknown tokens resolve to the OOV sentinel's vector.
func (e *Embedding) Similarity(a, b string) float64 {
	return cosine(e.model.InRow(e.vocab.ID(a)), e.model.InRow(e.vocab.ID(b)))
}

// Match pairs a vocabulary token with a similarity score.
type Match struct {
	Token string
	Score float64
}

// MostSimilar returns up to n vocabulary tokens closest to token by cosine
// similarity, best first. The query token and the OOV sentinel are never
// candidates.
func (e *Embedding) MostSimilar(token string, n int) []Match {
	id := e.vocab.ID(token)
	return e.rank(e.model.InRow(id), n, map[int]bool{skipgram.OOVID: true, id: true})
}

// Analogy answers "a is to b as c is to ?" by ranking vocabulary tokens
// against the point b - a + c, best first. The three query tokens and the
// OOV sentinel are excluded from the candidates.
func (e *Embedding) Analogy(a, b, c string, n int) []Match {
	ida, idb, idc := e.vocab.ID(a), e.vocab.ID(b), e.vocab.ID(c)

	target := make([]float64, e.model.Dim)
	copy(target, e.model.InRow(idb))
	floats.Sub(target, e.model.InRow(ida))
	floats.Add(target, e.model.InRow(idc))

	exclude := map[int]bool{skipgram.OOVID: true, ida: true, idb: true, idc: true}
	return e.rank(target, n, exclude)
}

func (e *Embedding) rank(target []float64, n int, exclude map[int]bool) []Match {
	matches := make([]Match, 0, e.model.VocabSize)
	for id := range e.model.VocabSize {
		if exclude[id] {
			continue
		}
		matches = append(matches, Match{
			Token: e.vocab.Token(id),
			Score: cosine(target, e.model.InRow(id)),
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > n {
		matches = matches[:max(n, 0)]
	}
	return matches
}

// cosine is the cosine similarity of two equal-length vectors, 0 if either
// has zero norm.
func cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}
