package hrrembed

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Corpus streams raw articles in a stable order. Next returns io.EOF once
// the stream is exhausted; Reset rewinds it.
type Corpus interface {
	Next() (string, error)
	Reset() error
}

// Sized is implemented by corpora that know their article count up front.
type Sized interface {
	Len() int
}

// SliceCorpus serves articles from memory.
type SliceCorpus struct {
	Articles []string
	i        int
}

func (c *SliceCorpus) Next() (string, error) {
	if c.i >= len(c.Articles) {
		return "", io.EOF
	}
	a := c.Articles[c.i]
	c.i++
	return a, nil
}

func (c *SliceCorpus) Reset() error {
	c.i = 0
	return nil
}

func (c *SliceCorpus) Len() int {
	return len(c.Articles)
}

// DirCorpus reads one article per file matching Pattern (default "*.txt")
// under Dir, in lexical order of file name.
type DirCorpus struct {
	Dir     string
	Pattern string
	files   []string
	i       int
}

func NewDirCorpus(dir, pattern string) (*DirCorpus, error) {
	if pattern == "" {
		pattern = "*.txt"
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus %s: %w", dir, err)
	}
	sort.Strings(files)
	return &DirCorpus{Dir: dir, Pattern: pattern, files: files}, nil
}

func (c *DirCorpus) Next() (string, error) {
	if c.i >= len(c.files) {
		return "", io.EOF
	}
	path := c.files[c.i]
	c.i++
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read article %s: %w", path, err)
	}
	return string(b), nil
}

func (c *DirCorpus) Reset() error {
	c.i = 0
	return nil
}

func (c *DirCorpus) Len() int {
	return len(c.files)
}

// LimitedCorpus ends Corpus once the articles it has served reach MaxBytes.
// The article that crosses the limit is still served.
type LimitedCorpus struct {
	Corpus
	MaxBytes int
	served   int
}

func (c *LimitedCorpus) Next() (string, error) {
	if c.MaxBytes > 0 && c.served >= c.MaxBytes {
		return "", io.EOF
	}
	a, err := c.Corpus.Next()
	if err != nil {
		return "", err
	}
	c.served += len(a)
	return a, nil
}

func (c *LimitedCorpus) Reset() error {
	c.served = 0
	return c.Corpus.Reset()
}

// ParseBytes reads a size such as "512", "64M", "1.5g" or "1M512k" as a
// byte count. Units are binary multiples: k, m and g in either case.
func ParseBytes(src string) (int, error) {
	b, src := 0, strings.TrimSpace(src)
	if src == "" {
		return 0, nil
	}
	istrm := strings.NewReader(src)
	for {
		var (
			s float64
			u rune
		)
		n, err := fmt.Fscanf(istrm, "%f%c", &s, &u)
		switch {
		case n == 0 && err == io.EOF:
			return b, nil
		case n == 0:
			return 0, fmt.Errorf("invalid size %q: %w", src, err)
		case n == 1:
			// a trailing bare number counts bytes
			return b + int(math.Round(s)), nil
		}
		unit := 1
		switch u {
		case 'g', 'G':
			unit <<= 10
			fallthrough
		case 'm', 'M':
			unit <<= 10
			fallthrough
		case 'k', 'K':
			unit <<= 10
		default:
			return 0, fmt.Errorf("unit '%c' not recognized in %q", u, src)
		}
		b += int(math.Round(s * float64(unit)))
	}
}
