package hrrembed

import (
	snowball "github.com/kljensen/snowball/english"
	"github.com/sajari/fuzzy"
)

// SpellChker repairs out-of-vocabulary tokens against the wordlist: first by
// matching Snowball stems, then by fuzzy spelling correction. It satisfies
// Sanitizer and returns "" when no repair is found.
type SpellChker struct {
	*fuzzy.Model
	stems map[string]string
}

// NewSpellChker trains a checker on the vocabulary. depth bounds the edit
// distance of spelling corrections.
func NewSpellChker(v *Vocabulary, depth int) SpellChker {
	if depth < 1 {
		depth = 2
	}
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(depth)
	words := v.Words()
	// twice, so every word clears the count threshold
	model.Train(words)
	model.Train(words)
	stems := make(map[string]string, len(words))
	for _, w := range words {
		st := snowball.Stem(w, false)
		// first word in index order owns the stem
		if _, ok := stems[st]; !ok {
			stems[st] = w
		}
	}
	return SpellChker{Model: model, stems: stems}
}

func (cker SpellChker) Sanitize(t string) string {
	if t == "" {
		return ""
	}
	if w, ok := cker.stems[snowball.Stem(t, false)]; ok {
		return w
	}
	return cker.SpellCheck(t)
}
