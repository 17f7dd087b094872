package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kavorite/hrrembed"
)

type repl struct {
	model   *hrrembed.Model
	top     int
	indexes map[hrrembed.Space]*hrrembed.Index
}

func newREPL(m *hrrembed.Model, top int) *repl {
	return &repl{model: m, top: top, indexes: make(map[hrrembed.Space]*hrrembed.Index)}
}

// Run answers one query per line until in is exhausted. Bad queries are
// reported and do not end the session.
func (r *repl) Run(in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "> ")
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			results, err := r.eval(line)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			for _, s := range results {
				fmt.Fprintf(out, "%s %.4f\n", s.Word, s.Score)
			}
		}
		fmt.Fprintf(out, "> ")
	}
	return sc.Err()
}

func (r *repl) eval(line string) ([]hrrembed.Scored, error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s takes %d argument(s), got %d", cmd, n, len(args))
		}
		return nil
	}
	m := r.model
	switch cmd {
	case "nearest":
		if err := need(1); err != nil {
			return nil, err
		}
		return m.Nearest(args[0], r.top)
	case "order":
		if err := need(2); err != nil {
			return nil, err
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("bad position %q: %w", args[1], err)
		}
		return m.OrderCompletions(args[0], pos, r.top)
	case "orderN":
		if err := need(1); err != nil {
			return nil, err
		}
		return m.OrderNeighbors(args[0], r.top)
	case "verb":
		if err := need(2); err != nil {
			return nil, err
		}
		return m.VerbCompletions(args[0], args[1], r.top)
	case "verbN":
		if err := need(1); err != nil {
			return nil, err
		}
		return m.VerbNeighbors(args[0], r.top)
	case "resonate":
		return m.Resonants(strings.Join(args, " "), r.top)
	case "ann":
		if err := need(2); err != nil {
			return nil, err
		}
		s, err := hrrembed.ParseSpace(args[0])
		if err != nil {
			return nil, err
		}
		index, ok := r.indexes[s]
		if !ok {
			if index, err = hrrembed.NewIndex(m, s); err != nil {
				return nil, err
			}
			r.indexes[s] = index
		}
		return index.Search(args[1], r.top)
	}
	return nil, fmt.Errorf("unknown query %q", cmd)
}
