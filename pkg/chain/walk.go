package chain

import "sort"

// Choice is one possible continuation of a state. Token is the canonical
// token of the successor (EndToken for the terminal marker, in which case
// Value is the zero symbol).
type Choice[S comparable] struct {
	Token string
	Value S
	Count int
}

// Successors returns every observed continuation of the given state in
// sorted token order, together with the sum of their counts. A state that
// was never observed yields a nil slice and a total of 0.
func (c *Chain[S]) Successors(state ...S) ([]Choice[S], int, error) {
	key, err := c.StateKey(state...)
	if err != nil {
		return nil, 0, err
	}
	set := c.model[key]
	if len(set) == 0 {
		return nil, 0, nil
	}

	choices := make([]Choice[S], 0, len(set))
	total := 0
	for tok, rec := range set {
		choices = append(choices, Choice[S]{Token: tok, Value: rec.Value, Count: rec.Count})
		total += rec.Count
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i].Token < choices[j].Token })
	return choices, total, nil
}

// moveKey performs one weighted draw from the follow set of a state key.
// Follow tokens are visited in sorted order so a fixed random source gives a
// deterministic draw. ok is false when the state has no follow set.
func (c *Chain[S]) moveKey(key string) (tok string, rec *Follow[S], ok bool) {
	set := c.model[key]
	if len(set) == 0 {
		return "", nil, false
	}

	tokens := make([]string, 0, len(set))
	total := 0
	for t, r := range set {
		tokens = append(tokens, t)
		total += r.Count
	}
	sort.Strings(tokens)

	// Every stored record has count >= 1, so total > 0.
	draw := c.intN(total)
	for _, t := range tokens {
		draw -= set[t].Count
		if draw < 0 {
			return t, set[t], true
		}
	}
	// Unreachable: draw < total and counts sum to total.
	return "", nil, false
}

// Move performs one weighted-random transition from the given state. A
// single symbol is treated as a one-element state. The probability of
// selecting a given successor is its count divided by the state's total
// count. ok is false when the state has no transitions or the terminal
// marker is drawn; a dead end is an expected outcome, not an error.
func (c *Chain[S]) Move(state ...S) (next S, ok bool, err error) {
	var zero S
	key, err := c.StateKey(state...)
	if err != nil {
		return zero, false, err
	}
	tok, rec, ok := c.moveKey(key)
	if !ok || tok == EndToken {
		return zero, false, nil
	}
	return rec.Value, true, nil
}

// walkOptions configures a single Walk call.
type walkOptions[S comparable] struct {
	start    []S
	hasStart bool
	maxSteps int
}

// WalkOption configures a Walk call.
type WalkOption[S comparable] func(*walkOptions[S])

// WalkFrom starts the walk from the given state instead of the begin state.
// The state should contain exactly the chain's state size symbols.
func WalkFrom[S comparable](state ...S) WalkOption[S] {
	return func(o *walkOptions[S]) {
		o.start = state
		o.hasStart = true
	}
}

// WithMaxSteps bounds the number of transitions a walk may take. The zero
// value leaves the walk unbounded, matching the core semantics: termination
// is then probabilistic and depends on the corpus having no cycle that
// avoids the terminal marker forever.
func WithMaxSteps[S comparable](n int) WalkOption[S] {
	return func(o *walkOptions[S]) { o.maxSteps = n }
}

// Walk generates a run by repeatedly moving from the current state, sliding
// the state window after each transition. It starts from the begin state
// unless WalkFrom is given, stops on the terminal marker or a dead end, and
// never includes either sentinel in the returned sequence.
func (c *Chain[S]) Walk(opts ...WalkOption[S]) ([]S, error) {
	var o walkOptions[S]
	for _, opt := range opts {
		opt(&o)
	}

	var tokens []string
	if o.hasStart {
		var err error
		tokens, err = c.encodeAll(o.start)
		if err != nil {
			return nil, err
		}
	} else {
		tokens = BeginState(c.stateSize)
	}

	var out []S
	for steps := 0; o.maxSteps <= 0 || steps < o.maxSteps; steps++ {
		tok, rec, ok := c.moveKey(JoinKey(tokens))
		if !ok || tok == EndToken {
			break
		}
		out = append(out, rec.Value)
		tokens = append(tokens[1:], tok)
	}
	return out, nil
}
