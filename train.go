package hrrembed

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// TrainConfig controls a training run.
type TrainConfig struct {
	Spaces    []Space   // spaces to train (default AllSpaces)
	BatchSize int       // articles per batch (default 500)
	Workers   int       // concurrent workers per batch (default runtime.NumCPU())
	Parser    Parser    // dependency parser for Syntax (default ProseParser)
	Repair    Sanitizer // optional out-of-vocabulary repair, e.g. a SpellChker
	Fold      bool      // strip accents while preprocessing
	Logger    *logrus.Logger
	OnBatch   func(BatchStats) // called after each batch is merged
}

// DefaultTrainConfig returns the defaults applied to zero fields.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Spaces:    AllSpaces,
		BatchSize: 500,
		Workers:   runtime.NumCPU(),
		Parser:    ProseParser{},
		Logger:    logrus.StandardLogger(),
	}
}

func (cfg TrainConfig) withDefaults() (TrainConfig, error) {
	def := DefaultTrainConfig()
	if len(cfg.Spaces) == 0 {
		cfg.Spaces = def.Spaces
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Parser == nil {
		cfg.Parser = def.Parser
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	seen := make(map[Space]bool, len(cfg.Spaces))
	spaces := make([]Space, 0, len(cfg.Spaces))
	for _, s := range cfg.Spaces {
		s, err := ParseSpace(string(s))
		if err != nil {
			return cfg, err
		}
		if !seen[s] {
			seen[s] = true
			spaces = append(spaces, s)
		}
	}
	cfg.Spaces = spaces
	return cfg, nil
}

// BatchStats describes one merged batch.
type BatchStats struct {
	Index     int
	Articles  int
	Sentences int
	Elapsed   time.Duration
}

type encoded struct {
	partials  map[Space]Partial
	sentences int
}

// Train accumulates the configured spaces over every article of c, then
// normalizes them into a Model. v is shared read-only by all workers. Any
// worker failure aborts training without a result. c is reset once all
// batches have been merged.
func Train(ctx context.Context, c Corpus, v *Vocabulary, cfg TrainConfig) (*Model, error) {
	start := time.Now()
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	log := cfg.Logger.WithFields(logrus.Fields{
		"spaces":  cfg.Spaces,
		"workers": cfg.Workers,
	})
	log.WithField("words", v.Len()).Info("training started")
	acc, err := accumulate(ctx, c, v, cfg, log)
	if err != nil {
		return nil, err
	}
	for _, s := range cfg.Spaces {
		if err := Normalize(acc.Matrix(s), v); err != nil {
			return nil, fmt.Errorf("failed to normalize %s: %w", s, err)
		}
	}
	if err := c.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset corpus: %w", err)
	}
	m := &Model{Vocab: v, mats: acc.mats, hits: acc.hits, runtime: time.Since(start)}
	log.WithField("elapsed", m.runtime).Info("training complete")
	return m, nil
}

// accumulate runs every batch through the worker pool and merges the
// results, in article order, into a fresh Accumulator.
func accumulate(ctx context.Context, c Corpus, v *Vocabulary, cfg TrainConfig, log *logrus.Entry) (*Accumulator, error) {
	acc := NewAccumulator(v, cfg.Spaces)
	pre := &Preprocessor{Vocab: v, Repair: cfg.Repair, Fold: cfg.Fold}
	err := Batches(c, cfg.BatchSize, func(i int, b Batch) error {
		if len(b) == 0 {
			log.WithField("batch", i).Debug("skipping empty batch")
			return nil
		}
		t := time.Now()
		results, err := fanOut(ctx, cfg.Workers, len(b), func(j int) (encoded, error) {
			return encodeArticle(v, pre, cfg.Parser, cfg.Spaces, b[j])
		})
		if err != nil {
			return fmt.Errorf("batch %d: %w", i, err)
		}
		stats := BatchStats{Index: i, Articles: len(b)}
		for _, r := range results {
			for _, s := range cfg.Spaces {
				if err := acc.Merge(s, r.partials[s]); err != nil {
					return fmt.Errorf("batch %d: %w", i, err)
				}
			}
			stats.Sentences += r.sentences
		}
		stats.Elapsed = time.Since(t)
		log.WithFields(logrus.Fields{
			"batch":     i,
			"articles":  stats.Articles,
			"sentences": stats.Sentences,
			"elapsed":   stats.Elapsed,
		}).Debug("merged batch")
		if cfg.OnBatch != nil {
			cfg.OnBatch(stats)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// encodeArticle is the work of one worker: it touches no shared state.
func encodeArticle(v *Vocabulary, pre *Preprocessor, p Parser, spaces []Space, article string) (encoded, error) {
	res := encoded{partials: make(map[Space]Partial, len(spaces))}
	var sents []Sentence
	for _, s := range spaces {
		if s == Context || s == Order {
			all, err := pre.Preprocess(article)
			if err != nil {
				return res, err
			}
			sents = usable(all)
			res.sentences = len(sents)
			break
		}
	}
	for _, s := range spaces {
		switch s {
		case Context:
			res.partials[s] = EncodeContext(v, sents)
		case Order:
			res.partials[s] = EncodeOrder(v, sents)
		case Syntax:
			part, err := EncodeSyntax(v, p, article)
			if err != nil {
				return res, err
			}
			res.partials[s] = part
		}
	}
	return res, nil
}

// usable drops sentences too short to relate two words.
func usable(sents []Sentence) []Sentence {
	kept := sents[:0]
	for _, sen := range sents {
		if len(sen) > 1 {
			kept = append(kept, sen)
		}
	}
	return kept
}
