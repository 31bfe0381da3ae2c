package domain

// rule pairs a predicate with the outcome produced when it fires.
//
// Rule sets are evaluated top to bottom and the first predicate that matches
// wins, so ordering is part of a rule set's meaning and the last rule of a
// complete set has an always-true predicate. Both the scalar tier ladder and
// the zone classification table run through this one evaluator so the point
// and AOI rule sets cannot diverge in evaluation semantics.
type rule[C, O any] struct {
	when func(C) bool
	then func(C) O
}

// firstMatch returns the outcome of the first rule whose predicate holds.
// A set without a catch-all rule yields the zero outcome for unmatched input.
func firstMatch[C, O any](rules []rule[C, O], c C) O {
	for _, r := range rules {
		if r.when(c) {
			return r.then(c)
		}
	}
	var zero O
	return zero
}
