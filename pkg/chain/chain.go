package chain

import (
	"encoding/json"
	"math/rand/v2"
)

const (
	// BeginToken is the reserved token text that pads the start of every run.
	// It is a token, not a symbol value: with the default JSON encoder it can
	// never collide with an encoded host symbol, because it is not valid JSON.
	BeginToken = "@@MARKOV_BEGIN@@"
	// EndToken is the reserved token text that terminates every run.
	EndToken = "@@MARKOV_END@@"
	// DefaultStateSize is the n-gram order used when none is configured.
	DefaultStateSize = 1
)

// EncodeFunc converts a symbol into its canonical token text. The encoding
// must be deterministic and collision-free with respect to structural
// equality. Custom encoders must not produce tokens containing a space, and
// must not produce BeginToken or EndToken; see JSONEncode for the default.
type EncodeFunc[S comparable] func(S) (string, error)

// JSONEncode is the default EncodeFunc. It encodes a symbol with
// encoding/json, which is deterministic for strings, numbers, booleans and
// simple aggregates of those, and can never emit the reserved sentinel
// tokens (they are not valid JSON values).
func JSONEncode[S comparable](v S) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Follow records one observed successor of a state: the symbol itself and
// the number of times it was seen. For the terminal EndToken entry the Value
// is the zero symbol; the FollowSet key identifies the terminal marker.
type Follow[S comparable] struct {
	Value S
	Count int
}

// FollowSet maps a canonical follow token to its observation record.
type FollowSet[S comparable] map[string]*Follow[S]

// Table is the sparse transition table of a chain: a mapping from state key
// to the set of symbols observed to follow that state.
type Table[S comparable] map[string]FollowSet[S]

// Chain is a finite-order Markov chain over symbols of type S. It holds a
// configured state size (the n-gram order) and its transition table. A chain
// is read-only after construction; concurrent Move and Walk calls are safe
// as long as the configured random source is.
type Chain[S comparable] struct {
	stateSize int
	model     Table[S]
	encode    EncodeFunc[S]
	rng       *rand.Rand
}

// Option configures a Chain during construction.
type Option[S comparable] func(*Chain[S])

// WithStateSize sets the n-gram order of the chain. The order must be at
// least 1; the default is DefaultStateSize.
func WithStateSize[S comparable](n int) Option[S] {
	return func(c *Chain[S]) { c.stateSize = n }
}

// WithEncoder replaces the default JSON canonical encoding. The replacement
// carries the obligations documented on EncodeFunc.
func WithEncoder[S comparable](enc EncodeFunc[S]) Option[S] {
	return func(c *Chain[S]) {
		if enc != nil {
			c.encode = enc
		}
	}
}

// WithRandSource sets the random source used for weighted sampling. By
// default the chain draws from the shared global source; injecting a fixed
// source makes Move and Walk fully deterministic.
func WithRandSource[S comparable](src rand.Source) Option[S] {
	return func(c *Chain[S]) {
		if src != nil {
			c.rng = rand.New(src)
		}
	}
}

func newChain[S comparable](opts []Option[S]) *Chain[S] {
	c := &Chain[S]{
		stateSize: DefaultStateSize,
		encode:    JSONEncode[S],
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New builds a chain from a corpus of runs. A nil or empty corpus yields an
// empty chain whose walks terminate immediately.
func New[S comparable](corpus [][]S, opts ...Option[S]) (*Chain[S], error) {
	c := newChain(opts)
	model, err := Build(corpus, c.stateSize, c.encode)
	if err != nil {
		return nil, err
	}
	c.model = model
	return c, nil
}

// NewFromTable constructs a chain directly from a pre-built transition
// table. The chain takes ownership of the table; callers must not mutate it
// afterwards. This is the injection path used by deserialization and by
// hosts that assemble tables themselves.
func NewFromTable[S comparable](stateSize int, model Table[S], opts ...Option[S]) *Chain[S] {
	c := newChain(opts)
	c.stateSize = stateSize
	if model == nil {
		model = make(Table[S])
	}
	c.model = model
	return c
}

// StateSize returns the configured n-gram order.
func (c *Chain[S]) StateSize() int { return c.stateSize }

// Table returns the chain's transition table. The table is owned by the
// chain and must be treated as read-only.
func (c *Chain[S]) Table() Table[S] { return c.model }

func (c *Chain[S]) intN(n int) int {
	if c.rng != nil {
		return c.rng.IntN(n)
	}
	return rand.IntN(n)
}
