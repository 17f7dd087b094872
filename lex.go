package hrrembed

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Sanitizer interface {
	Sanitize(t string) string
}

type SanitizerFunc func(string) string

func (f SanitizerFunc) Sanitize(t string) string {
	return f(t)
}

type SanitizerChain []Sanitizer

func (chain SanitizerChain) Sanitize(t string) string {
	for _, sanitizer := range chain {
		t = sanitizer.Sanitize(t)
	}
	return t
}

var (
	ToLower    = SanitizerFunc(strings.ToLower)
	JoinLines  = SanitizerFunc(func(t string) string { return strings.ReplaceAll(t, "\n", " ") })
	FoldAccent = SanitizerFunc(func(t string) string {
		fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		s, _, err := transform.String(fold, t)
		if err != nil {
			return t
		}
		return s
	})
)

// Remove returns a Sanitizer that deletes every rune in set.
func Remove(set runes.Set) Sanitizer {
	return SanitizerFunc(func(t string) string {
		s, _, err := transform.String(runes.Remove(set), t)
		if err != nil {
			return t
		}
		return s
	})
}

// Sentence is a cleaned sequence of in-vocabulary words.
type Sentence []string

// sentences shorter than this many runes after cleaning are discarded
const minSentenceLen = 6

// Preprocessor turns raw articles into vocabulary-filtered sentences. The
// zero value is not usable; Vocab must be set. It is safe for concurrent use
// as long as Repair is.
type Preprocessor struct {
	Vocab *Vocabulary
	// Repair, if set, maps an out-of-vocabulary token to a replacement that
	// is kept when it is in the vocabulary.
	Repair Sanitizer
	// Fold strips combining accents before tokenization.
	Fold bool
}

func (p *Preprocessor) cleaner() SanitizerChain {
	chain := SanitizerChain{
		JoinLines,
		Remove(p.Vocab.StripNum),
		Remove(p.Vocab.StripPun),
	}
	if p.Fold {
		chain = append(chain, FoldAccent)
	}
	return chain
}

// Preprocess splits article into sentences, strips numerals and punctuation,
// drops short sentences, lowercases, tokenizes and filters tokens to the
// vocabulary. An article with nothing usable yields an empty result.
func (p *Preprocessor) Preprocess(article string) ([]Sentence, error) {
	doc, err := prose.NewDocument(article,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	clean := p.cleaner()
	sents := make([]Sentence, 0, len(doc.Sentences()))
	for _, s := range doc.Sentences() {
		text := clean.Sanitize(s.Text)
		if utf8.RuneCountInString(text) < minSentenceLen {
			continue
		}
		text = ToLower.Sanitize(text)
		tokens, err := tokenize(text)
		if err != nil {
			return nil, err
		}
		sents = append(sents, p.filter(tokens))
	}
	return sents, nil
}

func (p *Preprocessor) filter(tokens []string) Sentence {
	sen := make(Sentence, 0, len(tokens))
	for _, t := range tokens {
		if p.Vocab.Has(t) {
			sen = append(sen, t)
			continue
		}
		if p.Repair == nil {
			continue
		}
		if r := p.Repair.Sanitize(t); r != "" && p.Vocab.Has(r) {
			sen = append(sen, r)
		}
	}
	return sen
}

func tokenize(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(doc.Tokens()))
	for _, tok := range doc.Tokens() {
		tokens = append(tokens, tok.Text)
	}
	return tokens, nil
}
