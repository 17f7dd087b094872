package hrrembed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func articles(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("article %d", i)
	}
	return out
}

func TestBatches_Sizes(t *testing.T) {
	cases := []struct {
		articles, size int
		want           []int
	}{
		{7, 3, []int{3, 3, 1}},
		{6, 3, []int{3, 3, 0}},
		{0, 3, []int{0}},
		{2, 5, []int{2}},
	}
	for _, c := range cases {
		var got []int
		var flat []string
		err := Batches(&SliceCorpus{Articles: articles(c.articles)}, c.size, func(i int, b Batch) error {
			if i != len(got) {
				t.Fatalf("batch index %d out of order", i)
			}
			got = append(got, len(b))
			flat = append(flat, b...)
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%d articles by %d: got %v, want %v", c.articles, c.size, got, c.want)
		}
		if c.articles > 0 && !reflect.DeepEqual(flat, articles(c.articles)) {
			t.Errorf("articles out of order: %v", flat)
		}
	}
}

func TestBatches_InvalidSize(t *testing.T) {
	if err := Batches(&SliceCorpus{}, 0, func(int, Batch) error { return nil }); err == nil {
		t.Fatal("expected error")
	}
}

type failingCorpus struct{ err error }

func (c failingCorpus) Next() (string, error) { return "", c.err }
func (c failingCorpus) Reset() error          { return nil }

func TestBatches_CorpusError(t *testing.T) {
	boom := errors.New("boom")
	err := Batches(failingCorpus{boom}, 2, func(int, Batch) error { return nil })
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if err := Batches(failingCorpus{io.EOF}, 2, func(int, Batch) error { return nil }); err != nil {
		t.Fatalf("EOF ends the corpus, got %v", err)
	}
}

func TestBatches_CallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := Batches(&SliceCorpus{Articles: articles(10)}, 2, func(int, Batch) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("got %v after %d calls", err, calls)
	}
}

func TestFanOut_Order(t *testing.T) {
	got, err := fanOut(context.Background(), 4, 50, func(i int) (int, error) {
		// finish in reverse order
		time.Sleep(time.Duration(50-i) * 100 * time.Microsecond)
		return i * i, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, x := range got {
		if x != i*i {
			t.Fatalf("result %d = %d", i, x)
		}
	}
}

func TestFanOut_Limit(t *testing.T) {
	var running, peak int32
	_, err := fanOut(context.Background(), 3, 30, func(i int) (struct{}, error) {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&running, -1)
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if peak > 3 {
		t.Fatalf("%d tasks ran at once", peak)
	}
}

func TestFanOut_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := fanOut(context.Background(), 2, 8, func(i int) (int, error) {
		if i == 5 {
			return 0, boom
		}
		return i, nil
	})
	if !errors.Is(err, ErrWorker) || !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
}

func TestFanOut_Panic(t *testing.T) {
	_, err := fanOut(context.Background(), 2, 4, func(i int) (int, error) {
		if i == 2 {
			panic("kaboom")
		}
		return i, nil
	})
	if !errors.Is(err, ErrWorker) {
		t.Fatalf("got %v", err)
	}
}

func TestAccumulator_Merge(t *testing.T) {
	v := testVocab(t, 8, 1, "alpha", "bravo")
	acc := NewAccumulator(v, []Space{Context})
	p := newPartial()
	p.add("bravo", v.Base("alpha"))
	if err := acc.Merge(Context, p); err != nil {
		t.Fatal(err)
	}
	if err := acc.Merge(Context, p); err != nil {
		t.Fatal(err)
	}
	row := Vec(acc.Matrix(Context).RawRowView(1))
	assertVecNear(t, "bravo", row, sum(v.Base("alpha"), v.Base("alpha")), tol)
	if acc.Hits(Context).Get("bravo") != 2 {
		t.Fatalf("hits %v", acc.Hits(Context))
	}
	if err := acc.Merge(Order, p); !errors.Is(err, ErrSpace) {
		t.Fatalf("untracked space: got %v", err)
	}
	bad := newPartial()
	bad.add("zulu", v.Base("alpha"))
	if err := acc.Merge(Context, bad); !errors.Is(err, ErrUnknownWord) {
		t.Fatalf("unknown word: got %v", err)
	}
}
