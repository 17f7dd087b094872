package main

import (
	"fmt"
	"os"
	"strings"

	pb "github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kavorite/hrrembed"
)

var (
	trainDim      int
	trainWindow   int
	trainBatch    int
	trainWorkers  int
	trainSpaces   string
	trainCorpus   string
	trainWordlist string
	trainDatamass string
	trainTop      int
	trainNoREPL   bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train embeddings and query them from stdin",
	Long: `Train reads the configured corpus, accumulates the requested embedding
spaces and then reads one query per line from stdin:

  nearest WORD          context neighbours
  order WORD POS        words seen POS places from WORD (negative: before)
  orderN WORD           order neighbours
  verb WORD DEP         fillers of role DEP of verb WORD
  verbN WORD            syntax neighbours
  resonate PHRASE       fill the __ in PHRASE
  ann SPACE WORD        approximate neighbours from an HNSW index`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := globalConfig
		flags := cmd.Flags()
		if flags.Changed("dim") {
			cfg.Dim = trainDim
		}
		if flags.Changed("window") {
			cfg.Window = trainWindow
		}
		if flags.Changed("batch") {
			cfg.BatchSize = trainBatch
		}
		if flags.Changed("workers") {
			cfg.Workers = trainWorkers
		}
		if flags.Changed("spaces") {
			cfg.Spaces = strings.Split(trainSpaces, ",")
		}
		if flags.Changed("corpus") {
			cfg.Corpus.Dir = trainCorpus
		}
		if flags.Changed("wordlist") {
			cfg.Wordlist = trainWordlist
		}
		if flags.Changed("datamass") {
			cfg.Corpus.MaxBytes = trainDatamass
		}

		logger, err := hrrembed.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		vocab, err := cfg.Vocabulary()
		if err != nil {
			return fmt.Errorf("failed to build vocabulary: %w", err)
		}
		corpus, err := cfg.OpenCorpus()
		if err != nil {
			return fmt.Errorf("failed to open corpus: %w", err)
		}
		tc, err := cfg.TrainConfig(vocab, logger)
		if err != nil {
			return err
		}
		if sized, ok := corpus.(hrrembed.Sized); ok {
			bar := pb.NewOptions(sized.Len(),
				pb.OptionSetWriter(os.Stderr),
				pb.OptionSetDescription("training"))
			tc.OnBatch = func(stats hrrembed.BatchStats) {
				bar.Add(stats.Articles)
			}
			defer fmt.Fprintln(os.Stderr)
		}

		model, err := hrrembed.Train(cmd.Context(), corpus, vocab, tc)
		if err != nil {
			return err
		}
		for _, s := range model.Spaces() {
			logger.WithField("space", s).Infof("coverage %.1f%%", 100*model.Coverage(s))
		}
		if trainNoREPL {
			return nil
		}
		return newREPL(model, trainTop).Run(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	f := trainCmd.Flags()
	f.IntVar(&trainDim, "dim", 512, "vector dimension")
	f.IntVar(&trainWindow, "window", 5, "order window on each side of a word")
	f.IntVar(&trainBatch, "batch", 500, "articles per batch")
	f.IntVar(&trainWorkers, "workers", 0, "workers per batch (0: one per CPU)")
	f.StringVar(&trainSpaces, "spaces", "context,order,syntax", "comma-separated spaces to train")
	f.StringVar(&trainCorpus, "corpus", "", "directory of *.txt articles")
	f.StringVar(&trainWordlist, "wordlist", "", "file with one vocabulary word per line")
	f.StringVar(&trainDatamass, "datamass", "", "stop reading the corpus after this much text (e.g. 64M)")
	f.IntVarP(&trainTop, "top", "n", 5, "results per query")
	f.BoolVar(&trainNoREPL, "no-repl", false, "exit after training")
}
