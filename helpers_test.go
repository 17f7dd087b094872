package hrrembed

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-9

func testVocab(t testing.TB, dim, win int, words ...string) *Vocabulary {
	t.Helper()
	cfg := DefaultVocabConfig(words)
	cfg.Dim, cfg.Window = dim, win
	v, err := NewVocabulary(cfg)
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	return v
}

// testModel builds a model whose trained spaces are copies of the base
// vectors, so every row is already unit length.
func testModel(v *Vocabulary, spaces ...Space) *Model {
	m := &Model{Vocab: v, mats: map[Space]*mat.Dense{}, hits: map[Space]Counter{}}
	for _, s := range spaces {
		m.mats[s] = mat.DenseCopyOf(v.BaseMatrix())
		m.hits[s] = Counter{}
	}
	return m
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func assertNear(t *testing.T, label string, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Fatalf("%s: got %.12f, want %.12f (±%g)", label, got, want, eps)
	}
}

func assertVecNear(t *testing.T, label string, got, want Vec, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length %d, want %d", label, len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Fatalf("%s: [%d] = %.12f, want %.12f", label, i, got[i], want[i])
		}
	}
}

func sum(vs ...Vec) Vec {
	out := make(Vec, len(vs[0]))
	for _, v := range vs {
		for i, x := range v {
			out[i] += x
		}
	}
	return out
}

func sub(a, b Vec) Vec {
	out := make(Vec, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
