package hrrembed

type Counter map[string]float64

func (ctr Counter) Get(k string) float64 {
	if x, ok := ctr[k]; ok {
		return x
	}
	return 0
}

func (ctr Counter) Inc(k string, x float64) {
	ctr[k] = ctr.Get(k) + x
}

// Merge adds every count of other into ctr.
func (ctr Counter) Merge(other Counter) {
	for k, x := range other {
		ctr.Inc(k, x)
	}
}

// BOW is a set of words, looked up after optional sanitization.
type BOW struct {
	Dict map[string]struct{}
	Sanitizer
}

func Bag(words ...string) BOW {
	bag := BOW{Dict: make(map[string]struct{}, len(words))}
	for _, t := range words {
		bag.Ins(t)
	}
	return bag
}

func (bag *BOW) sanitize(t string) string {
	if bag.Sanitizer == nil {
		return t
	}
	return bag.Sanitize(t)
}

func (bag *BOW) Ins(t string) {
	if bag.Dict == nil {
		bag.Dict = make(map[string]struct{}, 1024)
	}
	bag.Dict[bag.sanitize(t)] = struct{}{}
}

func (bag *BOW) Has(t string) bool {
	_, ok := bag.Dict[bag.sanitize(t)]
	return ok
}

func (bag *BOW) Del(t string) {
	delete(bag.Dict, bag.sanitize(t))
}
