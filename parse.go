package hrrembed

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// DepToken is one token of a dependency-parsed sentence.
type DepToken struct {
	Text string
	Tag  string // fine-grained (Penn Treebank) tag
	POS  string // coarse part of speech, e.g. VERB
	Head int    // index of the head token, -1 when unattached
	Dep  string // label of the arc to Head
}

type DepSentence []DepToken

// Children returns the indices of the tokens whose head is i, in order.
func (s DepSentence) Children(i int) []int {
	var kids []int
	for j, t := range s {
		if t.Head == i && j != i {
			kids = append(kids, j)
		}
	}
	return kids
}

// Parser produces dependency parses of raw articles.
type Parser interface {
	Parse(article string) ([]DepSentence, error)
}

// ProseParser tags sentences with prose and derives shallow verb arcs from
// the tag sequence: subjects, objects, auxiliaries, negations, adverbs,
// particles and prepositional attachments. It is stateless and safe for
// concurrent use.
type ProseParser struct{}

func (ProseParser) Parse(article string) ([]DepSentence, error) {
	doc, err := prose.NewDocument(article,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	parsed := make([]DepSentence, 0, len(doc.Sentences()))
	for _, s := range doc.Sentences() {
		sd, err := prose.NewDocument(s.Text,
			prose.WithSegmentation(false),
			prose.WithExtraction(false))
		if err != nil {
			return nil, err
		}
		toks := sd.Tokens()
		sen := make(DepSentence, len(toks))
		for i, tok := range toks {
			sen[i] = DepToken{Text: tok.Text, Tag: tok.Tag, POS: coarse(tok.Tag), Head: -1}
		}
		attach(sen)
		parsed = append(parsed, sen)
	}
	return parsed, nil
}

// coarse maps a Penn Treebank tag onto a universal part of speech.
func coarse(tag string) string {
	switch {
	case strings.HasPrefix(tag, "VB"):
		return "VERB"
	case tag == "MD":
		return "AUX"
	case tag == "NNP" || tag == "NNPS":
		return "PROPN"
	case strings.HasPrefix(tag, "NN"):
		return "NOUN"
	case tag == "PRP" || tag == "WP":
		return "PRON"
	case tag == "RP" || tag == "TO":
		return "PART"
	case strings.HasPrefix(tag, "RB"):
		return "ADV"
	case strings.HasPrefix(tag, "JJ"):
		return "ADJ"
	case tag == "IN":
		return "ADP"
	case tag == "DT" || tag == "PDT" || tag == "PRP$" || tag == "WDT":
		return "DET"
	case tag == "CD":
		return "NUM"
	case tag == "CC":
		return "CCONJ"
	}
	return "X"
}

func nominal(pos string) bool {
	return pos == "NOUN" || pos == "PROPN" || pos == "PRON"
}

func negation(t string) bool {
	switch strings.ToLower(t) {
	case "not", "n't", "never", "no":
		return true
	}
	return false
}

func attach(sen DepSentence) {
	link := func(child, head int, dep string) {
		sen[child].Head, sen[child].Dep = head, dep
	}
	root := false
	for i := range sen {
		if sen[i].POS != "VERB" {
			continue
		}
		if !root {
			sen[i].Dep = "ROOT"
			root = true
		}
	left:
		for j := i - 1; j >= 0; j-- {
			t := sen[j]
			if t.POS == "VERB" {
				break
			}
			if t.Head >= 0 {
				continue
			}
			switch {
			case negation(t.Text):
				link(j, i, "neg")
			case t.POS == "AUX":
				link(j, i, "aux")
			case j == i-1 && t.POS == "ADV":
				link(j, i, "advmod")
			case nominal(t.POS):
				link(j, i, "nsubj")
				break left
			}
		}
		obj := false
	right:
		for j := i + 1; j < len(sen); j++ {
			t := sen[j]
			if t.POS == "VERB" {
				break
			}
			if t.Head >= 0 {
				continue
			}
			switch {
			case negation(t.Text):
				link(j, i, "neg")
			case j == i+1 && t.POS == "ADV":
				link(j, i, "advmod")
			case t.Tag == "RP":
				link(j, i, "prt")
			case nominal(t.POS) && !obj:
				link(j, i, "dobj")
				obj = true
			case t.POS == "ADP":
				link(j, i, "prep")
				for k := j + 1; k < len(sen) && sen[k].POS != "VERB"; k++ {
					if nominal(sen[k].POS) {
						link(k, j, "pobj")
						break
					}
				}
				break right
			}
		}
	}
}
