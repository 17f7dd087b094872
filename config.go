package hrrembed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the file-level configuration of a training run.
type Config struct {
	Dim         int          `yaml:"dim"`
	Window      int          `yaml:"window"`
	Seed        int64        `yaml:"seed"`
	Wordlist    string       `yaml:"wordlist"`
	Stopwords   string       `yaml:"stopwords"`
	Spaces      []string     `yaml:"spaces"`
	BatchSize   int          `yaml:"batch_size"`
	Workers     int          `yaml:"workers"`
	RepairOOV   bool         `yaml:"repair_oov"`
	RepairDepth int          `yaml:"repair_depth"`
	FoldAccents bool         `yaml:"fold_accents"`
	LogLevel    string       `yaml:"log_level"`
	Corpus      CorpusConfig `yaml:"corpus"`
}

// CorpusConfig selects the article source. Discord is used when it names
// any channels, the directory otherwise.
type CorpusConfig struct {
	Dir      string        `yaml:"dir"`
	Pattern  string        `yaml:"pattern"`
	MaxBytes string        `yaml:"max_bytes"` // e.g. "64M"; empty for no cap
	Discord  DiscordConfig `yaml:"discord"`
}

type DiscordConfig struct {
	Token    string   `yaml:"token"`
	Channels []string `yaml:"channels"`
	Since    string   `yaml:"since"` // maximum message age, e.g. "720h"
	Max      int      `yaml:"max"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Dim:         512,
		Window:      5,
		Seed:        1,
		Spaces:      []string{string(Context), string(Order), string(Syntax)},
		BatchSize:   500,
		RepairDepth: 2,
		LogLevel:    "info",
		Corpus:      CorpusConfig{Pattern: "*.txt"},
	}
}

// LoadConfig reads path, falling back to defaults when it does not exist,
// loads any of envFiles that exist into the environment and then applies
// HRR_* environment overrides.
func LoadConfig(path string, envFiles ...string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}
	for _, env := range envFiles {
		if err := godotenv.Load(env); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", env, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HRR_DISCORD_TOKEN"); v != "" {
		c.Corpus.Discord.Token = v
	}
	if v := os.Getenv("HRR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("HRR_CORPUS_DIR"); v != "" {
		c.Corpus.Dir = v
	}
	if v := os.Getenv("HRR_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HRR_WORKERS %q: %w", v, err)
		}
		c.Workers = n
	}
	return nil
}

// ReadWords reads one word per line, skipping blank lines, #-comments and
// repeats. Words keep their first-seen order.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words, sc.Err()
}

func readWordFile(path string) ([]string, error) {
	istrm, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer istrm.Close()
	return ReadWords(istrm)
}

// Vocabulary builds the vocabulary named by the configuration.
func (c *Config) Vocabulary() (*Vocabulary, error) {
	if c.Wordlist == "" {
		return nil, fmt.Errorf("no wordlist configured")
	}
	words, err := readWordFile(c.Wordlist)
	if err != nil {
		return nil, err
	}
	vc := DefaultVocabConfig(words)
	vc.Dim, vc.Window, vc.Seed = c.Dim, c.Window, c.Seed
	if c.Stopwords != "" {
		if vc.Stopwords, err = readWordFile(c.Stopwords); err != nil {
			return nil, err
		}
	}
	return NewVocabulary(vc)
}

// TrainConfig translates the configuration for Train. v is needed only when
// OOV repair is enabled.
func (c *Config) TrainConfig(v *Vocabulary, logger *logrus.Logger) (TrainConfig, error) {
	tc := TrainConfig{
		BatchSize: c.BatchSize,
		Workers:   c.Workers,
		Fold:      c.FoldAccents,
		Logger:    logger,
	}
	for _, s := range c.Spaces {
		sp, err := ParseSpace(s)
		if err != nil {
			return tc, err
		}
		tc.Spaces = append(tc.Spaces, sp)
	}
	if c.RepairOOV {
		tc.Repair = NewSpellChker(v, c.RepairDepth)
	}
	return tc, nil
}

// OpenCorpus opens the configured article source.
func (c *Config) OpenCorpus() (Corpus, error) {
	corpus, err := c.openSource()
	if err != nil {
		return nil, err
	}
	limit, err := ParseBytes(c.Corpus.MaxBytes)
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		return &LimitedCorpus{Corpus: corpus, MaxBytes: limit}, nil
	}
	return corpus, nil
}

func (c *Config) openSource() (Corpus, error) {
	d := c.Corpus.Discord
	if len(d.Channels) == 0 {
		if c.Corpus.Dir == "" {
			return nil, fmt.Errorf("no corpus configured")
		}
		return NewDirCorpus(c.Corpus.Dir, c.Corpus.Pattern)
	}
	corpus, err := NewDiscordCorpus(d.Token, d.Channels)
	if err != nil {
		return nil, err
	}
	corpus.Max = d.Max
	if d.Since != "" {
		age, err := time.ParseDuration(d.Since)
		if err != nil {
			return nil, fmt.Errorf("invalid discord since %q: %w", d.Since, err)
		}
		corpus.Since = time.Now().Add(-age)
	}
	return corpus, nil
}
