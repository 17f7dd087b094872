package hrrembed

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hrrembed.yaml", `
dim: 128
window: 3
spaces: [context, order]
batch_size: 50
repair_oov: true
corpus:
  dir: articles
  discord:
    channels: ["123", "456"]
    since: 720h
    max: 1000
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dim != 128 || cfg.Window != 3 || cfg.BatchSize != 50 || !cfg.RepairOOV {
		t.Fatalf("got %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Spaces, []string{"context", "order"}) {
		t.Fatalf("spaces %v", cfg.Spaces)
	}
	d := cfg.Corpus.Discord
	if cfg.Corpus.Dir != "articles" || len(d.Channels) != 2 || d.Since != "720h" || d.Max != 1000 {
		t.Fatalf("corpus %+v", cfg.Corpus)
	}
	// untouched keys keep their defaults
	if cfg.Seed != 1 || cfg.Corpus.Pattern != "*.txt" || cfg.LogLevel != "info" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "dim: [")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("malformed yaml must fail")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("HRR_DISCORD_TOKEN", "Bot abc")
	t.Setenv("HRR_LOG_LEVEL", "debug")
	t.Setenv("HRR_WORKERS", "3")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Corpus.Discord.Token != "Bot abc" || cfg.LogLevel != "debug" || cfg.Workers != 3 {
		t.Fatalf("got %+v", cfg)
	}
	t.Setenv("HRR_WORKERS", "many")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("non-numeric HRR_WORKERS must fail")
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	os.Unsetenv("HRR_CORPUS_DIR")
	t.Cleanup(func() { os.Unsetenv("HRR_CORPUS_DIR") })
	dir := t.TempDir()
	env := writeFile(t, dir, ".env", "HRR_CORPUS_DIR=/srv/articles\n")
	cfg, err := LoadConfig("", filepath.Join(dir, "absent.env"), env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Corpus.Dir != "/srv/articles" {
		t.Fatalf("corpus dir %q", cfg.Corpus.Dir)
	}
}

func TestReadWords(t *testing.T) {
	words, err := ReadWords(strings.NewReader("the\n\n# comment\n  dog \nthe\ncat\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(words, []string{"the", "dog", "cat"}) {
		t.Fatalf("got %v", words)
	}
}

func TestConfig_Build(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Dim, cfg.Window = 32, 2
	cfg.Wordlist = writeFile(t, dir, "words.txt", "dog\ncat\nthe\n")
	cfg.Stopwords = writeFile(t, dir, "stops.txt", "cat\n")
	cfg.Spaces = []string{"order"}
	cfg.RepairOOV = true
	cfg.Corpus.Dir = dir

	v, err := cfg.Vocabulary()
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != 3 || v.Dim() != 32 || !v.IsStop("cat") || v.IsStop("the") {
		t.Fatalf("vocabulary len=%d dim=%d", v.Len(), v.Dim())
	}
	tc, err := cfg.TrainConfig(v, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tc.Spaces, []Space{Order}) || tc.Repair == nil {
		t.Fatalf("train config %+v", tc)
	}
	c, err := cfg.OpenCorpus()
	if err != nil {
		t.Fatal(err)
	}
	if dc, ok := c.(*DirCorpus); !ok || dc.Len() != 2 {
		t.Fatalf("corpus %T", c)
	}

	cfg.Spaces = []string{"bogus"}
	if _, err := cfg.TrainConfig(v, nil); err == nil {
		t.Fatal("unknown space must fail")
	}
}

func TestConfig_OpenCorpus(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.OpenCorpus(); err == nil {
		t.Fatal("no source configured must fail")
	}
	cfg.Corpus.Discord = DiscordConfig{Token: "Bot abc", Channels: []string{"1"}, Since: "1h", Max: 5}
	c, err := cfg.OpenCorpus()
	if err != nil {
		t.Fatal(err)
	}
	dc, ok := c.(*DiscordCorpus)
	if !ok || dc.Max != 5 || dc.Since.IsZero() {
		t.Fatalf("corpus %+v", c)
	}
	cfg.Corpus.MaxBytes = "1k"
	if c, err = cfg.OpenCorpus(); err != nil {
		t.Fatal(err)
	}
	if lc, ok := c.(*LimitedCorpus); !ok || lc.MaxBytes != 1024 {
		t.Fatalf("corpus %+v", c)
	}
	cfg.Corpus.MaxBytes = "1x"
	if _, err := cfg.OpenCorpus(); err == nil {
		t.Fatal("malformed max_bytes must fail")
	}
	cfg.Corpus.MaxBytes = ""
	cfg.Corpus.Discord.Since = "yesterday"
	if _, err := cfg.OpenCorpus(); err == nil {
		t.Fatal("malformed since must fail")
	}
	if _, err := (&Config{}).Vocabulary(); err == nil {
		t.Fatal("missing wordlist must fail")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger("warn", &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("output %q", out)
	}
	if _, err := NewLogger("loud", nil); err == nil {
		t.Fatal("unknown level must fail")
	}
}
