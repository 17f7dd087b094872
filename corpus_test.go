package hrrembed

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func drain(t *testing.T, c Corpus) []string {
	t.Helper()
	var out []string
	for {
		a, err := c.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, a)
	}
}

func TestSliceCorpus(t *testing.T) {
	c := &SliceCorpus{Articles: []string{"a", "b"}}
	if got := drain(t, c); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("got %v", got)
	}
	if got := drain(t, c); len(got) != 0 {
		t.Fatal("exhausted corpus must stay at EOF")
	}
	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := drain(t, c); len(got) != 2 || c.Len() != 2 {
		t.Fatalf("after reset: %v", got)
	}
}

func TestDirCorpus(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.txt": "second",
		"a.txt": "first",
		"c.md":  "ignored",
		"d.txt": "third",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	c, err := NewDirCorpus(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Fatalf("len %d", c.Len())
	}
	want := []string{"first", "second", "third"}
	if got := drain(t, c); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
	c.Reset()
	if got := drain(t, c); !reflect.DeepEqual(got, want) {
		t.Fatalf("after reset: %v", got)
	}

	md, err := NewDirCorpus(dir, "*.md")
	if err != nil {
		t.Fatal(err)
	}
	if got := drain(t, md); !reflect.DeepEqual(got, []string{"ignored"}) {
		t.Fatalf("pattern: %v", got)
	}
}

func TestDirCorpus_BadPattern(t *testing.T) {
	if _, err := NewDirCorpus(t.TempDir(), "["); err == nil {
		t.Fatal("malformed pattern must fail")
	}
}

func TestParseBytes(t *testing.T) {
	cases := map[string]int{
		"":       0,
		"512":    512,
		"2k":     2048,
		"64M":    64 << 20,
		"1.5g":   3 << 29,
		"1M512k": 1<<20 + 512<<10,
		" 3K ":   3072,
	}
	for in, want := range cases {
		got, err := ParseBytes(in)
		if err != nil || got != want {
			t.Errorf("ParseBytes(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, bad := range []string{"12q", "lots"} {
		if _, err := ParseBytes(bad); err == nil {
			t.Errorf("ParseBytes(%q) must fail", bad)
		}
	}
}

func TestLimitedCorpus(t *testing.T) {
	c := &LimitedCorpus{
		Corpus:   &SliceCorpus{Articles: []string{"aaaa", "bbbb", "cccc"}},
		MaxBytes: 6,
	}
	want := []string{"aaaa", "bbbb"}
	if got := drain(t, c); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
	c.Reset()
	if got := drain(t, c); !reflect.DeepEqual(got, want) {
		t.Fatalf("after reset: %v", got)
	}
}
