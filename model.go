package hrrembed

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Space names one of the embedding spaces.
type Space string

const (
	Context Space = "context"
	Order   Space = "order"
	Syntax  Space = "syntax"
	// Base ranks against the vocabulary's base vectors.
	Base Space = "base"
)

// AllSpaces are the trainable spaces in training order.
var AllSpaces = []Space{Context, Order, Syntax}

func ParseSpace(s string) (Space, error) {
	switch sp := Space(strings.ToLower(strings.TrimSpace(s))); sp {
	case Context, Order, Syntax:
		return sp, nil
	}
	return "", fmt.Errorf("%w: %q", ErrSpace, s)
}

// Blank marks the slot to be filled in a phrase query.
const Blank = "__"

// Scored pairs a word with its score.
type Scored struct {
	Word  string
	Score float64
}

// Model holds the normalized embedding spaces of a finished training run.
// It is read-only and safe for concurrent use.
type Model struct {
	Vocab   *Vocabulary
	mats    map[Space]*mat.Dense
	hits    map[Space]Counter
	runtime time.Duration
}

// Spaces returns the trained spaces in training order.
func (m *Model) Spaces() []Space {
	var spaces []Space
	for _, s := range AllSpaces {
		if _, ok := m.mats[s]; ok {
			spaces = append(spaces, s)
		}
	}
	return spaces
}

// Matrix returns the N×D matrix of s. It must not be modified.
func (m *Model) Matrix(s Space) (*mat.Dense, error) {
	if s == Base {
		return m.Vocab.BaseMatrix(), nil
	}
	mx, ok := m.mats[s]
	if !ok {
		return nil, fmt.Errorf("%w: %s not trained", ErrSpace, s)
	}
	return mx, nil
}

// Vector returns a copy of the vector of word in s.
func (m *Model) Vector(s Space, word string) (Vec, error) {
	mx, err := m.Matrix(s)
	if err != nil {
		return nil, err
	}
	i, ok := m.Vocab.Index(word)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWord, word)
	}
	return append(Vec(nil), mx.RawRowView(i)...), nil
}

// Hits reports how many times word was a target while training s.
func (m *Model) Hits(s Space, word string) float64 {
	return m.hits[s].Get(word)
}

// Coverage is the fraction of the vocabulary that received evidence in s.
func (m *Model) Coverage(s Space) float64 {
	ctr, ok := m.hits[s]
	if !ok || m.Vocab.Len() == 0 {
		return 0
	}
	seen := 0
	for _, x := range ctr {
		if x > 0 {
			seen++
		}
	}
	return float64(seen) / float64(m.Vocab.Len())
}

func (m *Model) Runtime() time.Duration {
	return m.runtime
}

// RankWords returns the n best-scoring words, scores[i] belonging to word i.
// Ties keep vocabulary order. n < 0 or n beyond the vocabulary returns all.
func (m *Model) RankWords(scores []float64, n int) []Scored {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	if n < 0 || n > len(idx) {
		n = len(idx)
	}
	top := make([]Scored, n)
	for r, i := range idx[:n] {
		top[r] = Scored{m.Vocab.Word(i), scores[i]}
	}
	return top
}

// query takes the vector of a word in from, unbinds it by unbind when set,
// and ranks the rows of against by dot product with the result.
type query struct {
	from    Space
	unbind  Vec
	against Space
}

func (m *Model) run(q query, word string, n int) ([]Scored, error) {
	probe, err := m.Vector(q.from, word)
	if err != nil {
		return nil, err
	}
	if q.unbind != nil {
		probe = m.Vocab.Deconvolve(q.unbind, probe)
	}
	return m.Rank(q.against, probe, n)
}

// Rank scores every row of s against probe.
func (m *Model) Rank(s Space, probe Vec, n int) ([]Scored, error) {
	target, err := m.Matrix(s)
	if err != nil {
		return nil, err
	}
	if len(probe) != m.Vocab.Dim() {
		return nil, fmt.Errorf("probe has dimension %d, want %d", len(probe), m.Vocab.Dim())
	}
	scores := mat.NewVecDense(m.Vocab.Len(), nil)
	scores.MulVec(target, probe)
	return m.RankWords(scores.RawVector().Data, n), nil
}

// Nearest ranks words by context similarity to word.
func (m *Model) Nearest(word string, n int) ([]Scored, error) {
	return m.run(query{from: Context, against: Context}, word, n)
}

// OrderCompletions ranks the words likely to occur position places after
// word, or before it when position is negative.
func (m *Model) OrderCompletions(word string, position, n int) ([]Scored, error) {
	p, err := m.Vocab.Offset(position)
	if err != nil {
		return nil, err
	}
	return m.run(query{from: Order, unbind: p, against: Base}, word, n)
}

// OrderNeighbors ranks words by order similarity to word.
func (m *Model) OrderNeighbors(word string, n int) ([]Scored, error) {
	return m.run(query{from: Order, against: Order}, word, n)
}

// VerbCompletions ranks the words likely to fill role dep of verb word.
func (m *Model) VerbCompletions(word, dep string, n int) ([]Scored, error) {
	role, ok := m.Vocab.Role(dep)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRole, dep)
	}
	return m.run(query{from: Syntax, unbind: role, against: Base}, word, n)
}

// VerbNeighbors ranks words by syntax similarity to word.
func (m *Model) VerbNeighbors(word string, n int) ([]Scored, error) {
	return m.run(query{from: Syntax, against: Syntax}, word, n)
}

// Resonants ranks the words whose order vectors best fit the blank in phrase.
func (m *Model) Resonants(phrase string, n int) ([]Scored, error) {
	probe, err := m.VectorEncoding(phrase)
	if err != nil {
		return nil, err
	}
	return m.Rank(Order, probe, n)
}

// VectorEncoding encodes a phrase holding exactly one Blank as the
// normalized sum of its other words, each bound to the position vector of
// its offset from the blank. Words beyond the window are ignored.
func (m *Model) VectorEncoding(phrase string) (Vec, error) {
	words := strings.Fields(phrase)
	blank := -1
	for i, w := range words {
		if w != Blank {
			continue
		}
		if blank >= 0 {
			return nil, fmt.Errorf("%w: %q has several", ErrBlank, phrase)
		}
		blank = i
	}
	if blank < 0 {
		return nil, fmt.Errorf("%w: %q has none", ErrBlank, phrase)
	}
	probe := make(Vec, m.Vocab.Dim())
	for i, w := range words {
		if i == blank {
			continue
		}
		w = strings.ToLower(w)
		base := m.Vocab.Base(w)
		if base == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWord, w)
		}
		p, err := m.Vocab.Offset(i - blank)
		if errors.Is(err, ErrPosition) {
			continue
		}
		floats.Add(probe, m.Vocab.Convolve(base, p))
	}
	u, ok := Unit(probe)
	if !ok {
		return nil, fmt.Errorf("%w: phrase %q", ErrDegenerate, phrase)
	}
	return u, nil
}
