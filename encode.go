package hrrembed

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Partial is the contribution of one worker call: the summed evidence per
// target word and the number of times each word was a target.
type Partial struct {
	Vecs map[string]Vec
	Hits Counter
}

func newPartial() Partial {
	return Partial{
		Vecs: make(map[string]Vec, 64),
		Hits: make(Counter, 64),
	}
}

func (p Partial) add(w string, u Vec) {
	acc, ok := p.Vecs[w]
	if !ok {
		acc = make(Vec, len(u))
		p.Vecs[w] = acc
	}
	floats.Add(acc, u)
	p.Hits.Inc(w, 1)
}

// EncodeContext adds to every word of a sentence the sum of the sentence's
// non-stopword base vectors, less its own base vector.
func EncodeContext(v *Vocabulary, sents []Sentence) Partial {
	enc := newPartial()
	for _, sen := range sents {
		sum := make(Vec, v.Dim())
		for _, w := range sen {
			if !v.IsStop(w) {
				floats.Add(sum, v.Base(w))
			}
		}
		for _, w := range sen {
			u := make(Vec, v.Dim())
			floats.SubTo(u, sum, v.Base(w))
			enc.add(w, u)
		}
	}
	return enc
}

// EncodeOrder adds to every word the base vectors of its neighbours within
// the window, each bound to the position vector of its offset.
func EncodeOrder(v *Vocabulary, sents []Sentence) Partial {
	enc := newPartial()
	win := v.Window()
	for _, sen := range sents {
		for x := range sen {
			osum := make(Vec, v.Dim())
			for y := 0; y < win; y++ {
				if x+y+1 < len(sen) {
					floats.Add(osum, v.Convolve(v.Base(sen[x+y+1]), v.Pos(y)))
				}
				if x-y-1 >= 0 {
					floats.Add(osum, v.Convolve(v.Base(sen[x-y-1]), v.Neg(y)))
				}
			}
			enc.add(sen[x], osum)
		}
	}
	return enc
}

// EncodeSyntax parses article and adds to every in-vocabulary verb the
// bindings of its role-labelled, in-vocabulary children with their roles.
func EncodeSyntax(v *Vocabulary, p Parser, article string) (Partial, error) {
	parsed, err := p.Parse(article)
	if err != nil {
		return Partial{}, err
	}
	enc := newPartial()
	for _, sen := range parsed {
		for i, tok := range sen {
			verb := strings.ToLower(tok.Text)
			if tok.POS != "VERB" || !v.Has(verb) {
				continue
			}
			for _, c := range sen.Children(i) {
				role, ok := v.Role(sen[c].Dep)
				if !ok {
					continue
				}
				filler := v.Base(strings.ToLower(sen[c].Text))
				if filler == nil {
					continue
				}
				enc.add(verb, v.Convolve(role, filler))
			}
		}
	}
	return enc, nil
}
