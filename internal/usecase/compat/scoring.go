package compat

import (
	"math"

	"github.com/amora-labs/amora/internal/domain/compat"
)

// categoryScore computes the mean agreement over the category's jointly
// answered questions, scaled to [0,100]. ok is false when no question in the
// category was answered by both users.
func categoryScore(c *compat.Category, a, b *compat.ResponseSet) (float64, bool) {
	var sum float64
	n := 0
	qs := c.Questions()
	for i := range qs {
		q := &qs[i]
		va, okA := a.Get(q.ID())
		vb, okB := b.Get(q.ID())
		if !okA || !okB {
			continue
		}
		agr, ok := questionAgreement(q, &va, &vb)
		if !ok {
			continue
		}
		sum += agr
		n++
	}
	if n == 0 {
		return 0, false
	}
	return clamp(sum/float64(n)*100, 0, 100), true
}

// questionAgreement computes the per-question agreement in [0,1] between two
// answers. Answers referencing option ids the catalog no longer carries are
// skipped rather than scored as disagreement.
func questionAgreement(q *compat.Question, va, vb *compat.ResponseValue) (float64, bool) {
	if q.Type() == compat.MultipleChoice {
		as, okA := va.Multiple()
		bs, okB := vb.Multiple()
		if !okA || !okB {
			return 0, false
		}
		return multiAgreement(q, as, bs)
	}

	ida, okA := va.Single()
	idb, okB := vb.Single()
	if !okA || !okB {
		return 0, false
	}
	xa, okA := q.OptionValue(ida)
	xb, okB := q.OptionValue(idb)
	if !okA || !okB {
		return 0, false
	}
	return 1 - math.Abs(xa-xb), true
}

// multiAgreement treats each answer set as a vector over the union of
// selected options: selected options contribute their catalog value,
// unselected ones contribute 0. Agreement is 1 minus the mean absolute
// difference, so identical sets score 1 and disjoint unit-value sets score 0.
func multiAgreement(q *compat.Question, as, bs []string) (float64, bool) {
	va := make(map[string]float64, len(as))
	vb := make(map[string]float64, len(bs))
	for _, id := range as {
		v, ok := q.OptionValue(id)
		if !ok {
			return 0, false
		}
		va[id] = v
	}
	for _, id := range bs {
		v, ok := q.OptionValue(id)
		if !ok {
			return 0, false
		}
		vb[id] = v
	}

	union := make(map[string]struct{}, len(va)+len(vb))
	for id := range va {
		union[id] = struct{}{}
	}
	for id := range vb {
		union[id] = struct{}{}
	}
	if len(union) == 0 {
		return 0, false
	}

	var diff float64
	for id := range union {
		diff += math.Abs(va[id] - vb[id])
	}
	return 1 - diff/float64(len(union)), true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
