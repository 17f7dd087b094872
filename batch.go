package hrrembed

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Batch is a contiguous run of articles in corpus order.
type Batch []string

// Batches partitions c into contiguous batches of size articles and calls fn
// with each in order. After the last full batch fn always receives one more
// batch holding the remainder, which is empty when size divides the corpus.
func Batches(c Corpus, size int, fn func(i int, b Batch) error) error {
	if size <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", size)
	}
	i := 0
	batch := make(Batch, 0, size)
	for {
		article, err := c.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read corpus: %w", err)
		}
		batch = append(batch, article)
		if len(batch) == size {
			if err = fn(i, batch); err != nil {
				return err
			}
			i++
			batch = make(Batch, 0, size)
		}
	}
	return fn(i, batch)
}

// fanOut runs task for every index in [0, n) on at most workers goroutines
// and returns the results in index order once all of them have finished.
// The first failure, including a panic, cancels the remaining tasks and is
// returned wrapped in ErrWorker.
func fanOut[T any](ctx context.Context, workers, n int, task func(i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: article %d: panic: %v", ErrWorker, i, r)
				}
			}()
			if err = ctx.Err(); err != nil {
				return err
			}
			res, err := task(i)
			if err != nil {
				return fmt.Errorf("%w: article %d: %w", ErrWorker, i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Accumulator holds one zero-initialized N×D matrix per trained space. It is
// written only by the goroutine driving training.
type Accumulator struct {
	vocab *Vocabulary
	mats  map[Space]*mat.Dense
	hits  map[Space]Counter
}

func NewAccumulator(v *Vocabulary, spaces []Space) *Accumulator {
	acc := &Accumulator{
		vocab: v,
		mats:  make(map[Space]*mat.Dense, len(spaces)),
		hits:  make(map[Space]Counter, len(spaces)),
	}
	for _, s := range spaces {
		acc.mats[s] = mat.NewDense(v.Len(), v.Dim(), nil)
		acc.hits[s] = make(Counter, v.Len())
	}
	return acc
}

// Merge adds every vector of p into the row of its word in space s.
func (acc *Accumulator) Merge(s Space, p Partial) error {
	m, ok := acc.mats[s]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSpace, s)
	}
	for w, u := range p.Vecs {
		i, ok := acc.vocab.Index(w)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownWord, w)
		}
		floats.Add(m.RawRowView(i), u)
	}
	acc.hits[s].Merge(p.Hits)
	return nil
}

// Matrix returns the accumulated matrix of s, or nil if s is not tracked.
func (acc *Accumulator) Matrix(s Space) *mat.Dense {
	return acc.mats[s]
}

func (acc *Accumulator) Hits(s Space) Counter {
	return acc.hits[s]
}
