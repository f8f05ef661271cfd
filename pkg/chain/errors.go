package chain

import "errors"

var (
	// ErrInvalidCorpus reports that a corpus is not a sequence of runs.
	ErrInvalidCorpus = errors.New("chain: corpus is not a sequence of runs")
	// ErrInvalidRun reports that an element of a corpus is not itself a
	// sequence of symbols.
	ErrInvalidRun = errors.New("chain: corpus element is not a sequence")
	// ErrMalformedInput reports that a persisted chain could not be parsed
	// or does not match the expected shape.
	ErrMalformedInput = errors.New("chain: malformed serialized chain")
)
