package hrrembed

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/text/runes"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vec represents a lexical embedding.
type Vec []float64

// Sim computes cosine similarity between two Vecs.
func (v Vec) Sim(u Vec) float64 {
	uBlas, vBlas := u.ToBlas(), v.ToBlas()
	return blas64.Dot(uBlas, vBlas) / blas64.Nrm2(uBlas) / blas64.Nrm2(vBlas)
}

func (v Vec) Dot(u Vec) float64 {
	return floats.Dot(v, u)
}

func (v Vec) Norm() float64 {
	return floats.Norm(v, 2)
}

func (v Vec) AtVec(i int) float64 {
	return v[i]
}

func (v Vec) Len() int {
	return len(v)
}

func (v Vec) Dims() (m, n int) {
	m, n = len(v), 1
	return
}

func (v Vec) At(i, j int) float64 {
	if j != 0 {
		panic("j ≠ 0")
	}
	return v[i]
}

func (v Vec) T() mat.Matrix {
	return mat.Transpose{Matrix: v}
}

func (v Vec) ToBlas() blas64.Vector {
	return blas64.Vector{N: len(v), Inc: 1, Data: v}
}

// DefaultRoles are the dependency labels that receive a role vector unless a
// VocabConfig names its own.
var DefaultRoles = []string{
	"nsubj", "nsubjpass", "dobj", "iobj", "pobj", "prep", "advmod", "neg",
	"aux", "auxpass", "attr", "acomp", "xcomp", "ccomp", "prt", "agent", "dative",
}

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// VocabConfig holds the parameters of a Vocabulary.
type VocabConfig struct {
	Dim       int      // vector dimension (default 512)
	Window    int      // order-encoding window on each side of a target (default 5)
	Seed      int64    // seed for base, position and role vectors
	Words     []string // canonical wordlist; index order is preserved
	Stopwords []string // excluded from context sums (default NLTK english)
	Roles     []string // recognized dependency labels (default DefaultRoles)
}

// DefaultVocabConfig returns defaults for the given wordlist.
func DefaultVocabConfig(words []string) VocabConfig {
	return VocabConfig{
		Dim:       512,
		Window:    5,
		Seed:      1,
		Words:     words,
		Stopwords: nltkStops,
		Roles:     DefaultRoles,
	}
}

// Vocabulary is the fixed symbol table of a training run: the wordlist with
// its base vectors, the position and role vectors used for binding, and the
// tables used to clean raw text. It is immutable after construction and safe
// for concurrent use.
type Vocabulary struct {
	words []string
	dict  map[string]int
	base  *mat.Dense
	pos   []Vec
	neg   []Vec
	roles map[string]Vec
	order []string
	stops BOW
	win   int
	dim   int
	cv    *convolver

	// StripNum and StripPun select the runes deleted from raw sentences.
	StripNum runes.Set
	StripPun runes.Set
}

// NewVocabulary builds the vocabulary and draws all of its random vectors.
// The same config always yields the same vectors.
func NewVocabulary(cfg VocabConfig) (*Vocabulary, error) {
	switch {
	case cfg.Dim <= 0:
		return nil, fmt.Errorf("vocabulary dimension must be positive, got %d", cfg.Dim)
	case cfg.Window <= 0:
		return nil, fmt.Errorf("vocabulary window must be positive, got %d", cfg.Window)
	case len(cfg.Words) == 0:
		return nil, fmt.Errorf("vocabulary wordlist is empty")
	}
	v := &Vocabulary{
		words: make([]string, len(cfg.Words)),
		dict:  make(map[string]int, len(cfg.Words)),
		roles: make(map[string]Vec, len(cfg.Roles)),
		stops: Bag(cfg.Stopwords...),
		win:   cfg.Window,
		dim:   cfg.Dim,
		cv:    newConvolver(cfg.Dim),
		StripNum: runes.Predicate(func(r rune) bool {
			return '0' <= r && r <= '9'
		}),
		StripPun: runes.Predicate(func(r rune) bool {
			return strings.ContainsRune(asciiPunct, r)
		}),
	}
	for i, w := range cfg.Words {
		if _, ok := v.dict[w]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWord, w)
		}
		v.dict[w] = i
		v.words[i] = w
	}

	r := rand.New(rand.NewSource(cfg.Seed))
	data := make([]float64, 0, len(v.words)*v.dim)
	for range v.words {
		data = append(data, randomUnit(r, v.dim)...)
	}
	v.base = mat.NewDense(len(v.words), v.dim, data)
	v.pos = make([]Vec, v.win)
	v.neg = make([]Vec, v.win)
	for y := 0; y < v.win; y++ {
		v.pos[y] = randomUnit(r, v.dim)
	}
	for y := 0; y < v.win; y++ {
		v.neg[y] = randomUnit(r, v.dim)
	}
	for _, label := range cfg.Roles {
		if _, ok := v.roles[label]; ok {
			continue
		}
		v.roles[label] = randomUnit(r, v.dim)
		v.order = append(v.order, label)
	}
	return v, nil
}

// randomUnit draws a Gaussian vector and scales it to unit length.
func randomUnit(r *rand.Rand, dim int) Vec {
	for {
		v := make(Vec, dim)
		for i := range v {
			v[i] = r.NormFloat64()
		}
		if u, ok := Unit(v); ok {
			return u
		}
	}
}

func (v *Vocabulary) Len() int {
	return len(v.words)
}

func (v *Vocabulary) Dim() int {
	return v.dim
}

func (v *Vocabulary) Window() int {
	return v.win
}

// Words returns the wordlist in index order.
func (v *Vocabulary) Words() []string {
	return append([]string(nil), v.words...)
}

func (v *Vocabulary) Word(i int) string {
	return v.words[i]
}

func (v *Vocabulary) Index(w string) (int, bool) {
	i, ok := v.dict[w]
	return i, ok
}

func (v *Vocabulary) Has(w string) bool {
	_, ok := v.dict[w]
	return ok
}

func (v *Vocabulary) IsStop(w string) bool {
	return v.stops.Has(w)
}

// Base returns the base vector of w, or nil when w is out of vocabulary.
// The returned slice aliases the vocabulary and must not be modified.
func (v *Vocabulary) Base(w string) Vec {
	i, ok := v.dict[w]
	if !ok {
		return nil
	}
	return Vec(v.base.RawRowView(i))
}

// BaseMatrix returns the N×D matrix of base vectors. It must not be modified.
func (v *Vocabulary) BaseMatrix() *mat.Dense {
	return v.base
}

// Pos returns the position vector for a word y+1 places after the target.
func (v *Vocabulary) Pos(y int) Vec {
	return v.pos[y]
}

// Neg returns the position vector for a word y+1 places before the target.
func (v *Vocabulary) Neg(y int) Vec {
	return v.neg[y]
}

// Offset returns the position vector for a signed, non-zero offset.
func (v *Vocabulary) Offset(position int) (Vec, error) {
	switch {
	case position > 0 && position <= v.win:
		return v.pos[position-1], nil
	case position < 0 && -position <= v.win:
		return v.neg[-position-1], nil
	}
	return nil, fmt.Errorf("%w: %d outside ±[1, %d]", ErrPosition, position, v.win)
}

func (v *Vocabulary) Role(label string) (Vec, bool) {
	r, ok := v.roles[label]
	return r, ok
}

// Roles returns the recognized dependency labels in configuration order.
func (v *Vocabulary) Roles() []string {
	return append([]string(nil), v.order...)
}

// Convolve binds two vectors by circular convolution.
func (v *Vocabulary) Convolve(a, b Vec) Vec {
	return v.cv.Convolve(a, b)
}

// Deconvolve unbinds a from b.
func (v *Vocabulary) Deconvolve(a, b Vec) Vec {
	return v.cv.Deconvolve(a, b)
}
