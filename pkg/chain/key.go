package chain

import "strings"

// keySeparator joins canonical tokens into a state key. Canonical JSON
// encodings only contain spaces inside quoted strings, so splitting a key at
// separator positions can never produce two valid token sequences; the key
// is collision-free for the default encoder.
const keySeparator = " "

// JoinKey turns an ordered sequence of canonical tokens into a state key.
func JoinKey(tokens []string) string {
	return strings.Join(tokens, keySeparator)
}

// BeginState returns the padding state for the start of a run: stateSize
// repetitions of BeginToken. It is both the default starting state for a
// walk and the left padding applied to every run during build.
func BeginState(stateSize int) []string {
	tokens := make([]string, stateSize)
	for i := range tokens {
		tokens[i] = BeginToken
	}
	return tokens
}

// StateKey canonically encodes a lookup state. A single symbol is treated as
// a one-element state. The encoding is deterministic and preserves element
// order; equal states always produce equal keys.
func (c *Chain[S]) StateKey(state ...S) (string, error) {
	tokens, err := c.encodeAll(state)
	if err != nil {
		return "", err
	}
	return JoinKey(tokens), nil
}

func (c *Chain[S]) encodeAll(state []S) ([]string, error) {
	tokens := make([]string, len(state))
	for i, sym := range state {
		tok, err := c.encode(sym)
		if err != nil {
			return nil, err
		}
		tokens[i] = tok
	}
	return tokens, nil
}
