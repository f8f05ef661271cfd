package chain

import (
	"encoding/json"
	"fmt"
)

// Build accumulates a transition table from a corpus of runs. Each run is
// padded with stateSize BeginTokens on the left and a single EndToken on the
// right, then every window of stateSize consecutive tokens contributes one
// observation of the token that follows it. A nil encode falls back to
// JSONEncode.
//
// Build is a pure function: it either returns a complete table or an error
// with no partial result.
func Build[S comparable](corpus [][]S, stateSize int, encode EncodeFunc[S]) (Table[S], error) {
	if encode == nil {
		encode = JSONEncode[S]
	}

	model := make(Table[S])
	for ri, run := range corpus {
		tokens := make([]string, 0, stateSize+len(run)+1)
		tokens = append(tokens, BeginState(stateSize)...)
		for _, sym := range run {
			tok, err := encode(sym)
			if err != nil {
				return nil, fmt.Errorf("encode symbol in run %d: %w", ri, err)
			}
			tokens = append(tokens, tok)
		}
		tokens = append(tokens, EndToken)

		// Window starts run from 0 through len(run) inclusive; the EndToken
		// guarantees a follow token exists at every position.
		for i := 0; i+stateSize < len(tokens); i++ {
			key := JoinKey(tokens[i : i+stateSize])
			follow := tokens[i+stateSize]

			set := model[key]
			if set == nil {
				set = make(FollowSet[S])
				model[key] = set
			}
			rec := set[follow]
			if rec == nil {
				rec = &Follow[S]{}
				if follow != EndToken {
					rec.Value = run[i]
				}
				set[follow] = rec
			}
			rec.Count++
		}
	}
	return model, nil
}

// BuildJSON builds a transition table from a JSON-encoded corpus: an array
// of runs, each run an array of symbols. It fails with ErrInvalidCorpus when
// the top level is not an array and with ErrInvalidRun when an element is
// not an array of symbols. This is the boundary where untyped host input
// enters; the typed Build cannot produce either condition.
func BuildJSON[S comparable](data []byte, stateSize int, encode EncodeFunc[S]) (Table[S], error) {
	var rawRuns []json.RawMessage
	if err := json.Unmarshal(data, &rawRuns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCorpus, err)
	}

	corpus := make([][]S, 0, len(rawRuns))
	for ri, raw := range rawRuns {
		var run []S
		if err := json.Unmarshal(raw, &run); err != nil {
			return nil, fmt.Errorf("%w: run %d: %v", ErrInvalidRun, ri, err)
		}
		corpus = append(corpus, run)
	}
	return Build(corpus, stateSize, encode)
}
