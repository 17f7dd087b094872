package hrrembed

import (
	"fmt"
	"sort"

	"github.com/Bithack/go-hnsw"
	"gonum.org/v1/gonum/mat"
)

// Index is an approximate nearest-neighbour graph over one space of a
// trained model. Rows must be unit length, which Train guarantees.
type Index struct {
	Vocab   *Vocabulary
	Space   Space
	rows    *mat.Dense
	cluster *hnsw.Hnsw
	width   int
}

// NewIndex builds an HNSW graph over every row of space s. Rows are stored
// as float32 and zero-padded to a multiple of 8 for the vectorized distance.
func NewIndex(m *Model, s Space) (*Index, error) {
	mx, err := m.Matrix(s)
	if err != nil {
		return nil, err
	}
	n, d := mx.Dims()
	index := &Index{Vocab: m.Vocab, Space: s, rows: mx, width: (d + 7) / 8 * 8}
	M, efConstruction, zero := 32, 256, make(hnsw.Point, index.width)
	index.cluster = hnsw.New(M, efConstruction, zero)
	index.cluster.Grow(n + 1)
	// id 0 is the zero point
	for i := 0; i < n; i++ {
		index.cluster.Add(index.point(mx.RawRowView(i)), uint32(i+1))
	}
	return index, nil
}

func (index *Index) point(v []float64) hnsw.Point {
	p := make(hnsw.Point, index.width)
	for i, x := range v {
		p[i] = float32(x)
	}
	return p
}

// Search returns up to n approximate neighbours of word, itself included.
func (index *Index) Search(word string, n int) ([]Scored, error) {
	i, ok := index.Vocab.Index(word)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWord, word)
	}
	return index.SearchVec(index.rows.RawRowView(i), n)
}

// SearchVec returns up to n approximate neighbours of a unit vector, scored
// by cosine similarity recovered from squared euclidean distance.
func (index *Index) SearchVec(v Vec, n int) ([]Scored, error) {
	if len(v) != index.Vocab.Dim() {
		return nil, fmt.Errorf("probe has dimension %d, want %d", len(v), index.Vocab.Dim())
	}
	if n <= 0 {
		return nil, nil
	}
	ef := 64
	if n+1 > ef {
		ef = n + 1
	}
	items := index.cluster.Search(index.point(v), ef, n+1).Items()
	results := make([]Scored, 0, len(items))
	for _, item := range items {
		if item.ID == 0 {
			continue
		}
		results = append(results, Scored{
			Word:  index.Vocab.Word(int(item.ID) - 1),
			Score: 1 - float64(item.D)/2,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}
