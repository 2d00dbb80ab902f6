package explorer

import (
	"regexp"
	"sort"
	"strconv"
)

var firstNumber = regexp.MustCompile(`\d+`)

// RoundOrder is a total order over survey round labels.
//
// Labels listed explicitly come first, in the given order. Labels carrying a
// number follow, ordered by their first integer ("NFHS-4" < "NFHS-5" <
// "NFHS-10", "2015-16" < "2019-21"). Labels without digits come last. Every
// remaining tie is broken by the label itself.
type RoundOrder struct {
	explicit map[string]int
}

func NewRoundOrder(explicit []string) RoundOrder {
	o := RoundOrder{explicit: make(map[string]int, len(explicit))}
	for i, label := range explicit {
		if _, ok := o.explicit[label]; !ok {
			o.explicit[label] = i
		}
	}
	return o
}

const (
	classExplicit = iota
	classNumbered
	classOther
)

type roundKey struct {
	class int
	num   int
	label string
}

func (o RoundOrder) key(label string) roundKey {
	if pos, ok := o.explicit[label]; ok {
		return roundKey{class: classExplicit, num: pos, label: label}
	}
	if digits := firstNumber.FindString(label); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			return roundKey{class: classNumbered, num: n, label: label}
		}
	}
	return roundKey{class: classOther, label: label}
}

// Less reports whether round a precedes round b.
func (o RoundOrder) Less(a, b string) bool {
	ka, kb := o.key(a), o.key(b)
	if ka.class != kb.class {
		return ka.class < kb.class
	}
	if ka.num != kb.num {
		return ka.num < kb.num
	}
	return ka.label < kb.label
}

// Sort orders labels in place, oldest round first.
func (o RoundOrder) Sort(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return o.Less(labels[i], labels[j])
	})
}
