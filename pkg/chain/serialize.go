package chain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Document is the flat, order-stable form of a chain used for persistence.
// The mapping types have no native total order, so the model is flattened
// into paired sequences; this makes the round trip through a byte format
// exact. Serialize emits entries in sorted key order, so the output is
// byte-stable for a given model.
type Document struct {
	StateSize int          `json:"stateSize"`
	Model     []StateEntry `json:"model"`
}

// StateEntry is one (stateKey, follows) pair of a Document. On the wire it
// is a two-element array: [stateKey, [[followKey, record], ...]].
type StateEntry struct {
	Key     string
	Follows []FollowEntry
}

// FollowEntry is one (followKey, record) pair of a StateEntry. On the wire
// it is a two-element array: [followKey, {"value": ..., "count": n}].
type FollowEntry struct {
	Key    string
	Record Record
}

// Record is the persisted form of a Follow. The value is kept as raw JSON so
// a Document can be loaded, stored and listed without knowing the symbol
// type; FromDocument decodes it into the host's symbol type.
type Record struct {
	Value json.RawMessage `json:"value"`
	Count int             `json:"count"`
}

// MarshalJSON encodes the entry as a [key, follows] pair.
func (e StateEntry) MarshalJSON() ([]byte, error) {
	follows := e.Follows
	if follows == nil {
		follows = []FollowEntry{}
	}
	return json.Marshal([2]any{e.Key, follows})
}

// UnmarshalJSON decodes a [key, follows] pair.
func (e *StateEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("state entry: expected [key, follows] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Key); err != nil {
		return fmt.Errorf("state entry key: %w", err)
	}
	return json.Unmarshal(pair[1], &e.Follows)
}

// MarshalJSON encodes the entry as a [key, record] pair.
func (e FollowEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Key, e.Record})
}

// UnmarshalJSON decodes a [key, record] pair.
func (e *FollowEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("follow entry: expected [key, record] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Key); err != nil {
		return fmt.Errorf("follow entry key: %w", err)
	}
	return json.Unmarshal(pair[1], &e.Record)
}

// Document flattens the chain into its persistable form, with state keys and
// follow keys in sorted order.
func (c *Chain[S]) Document() (*Document, error) {
	stateKeys := make([]string, 0, len(c.model))
	for key := range c.model {
		stateKeys = append(stateKeys, key)
	}
	sort.Strings(stateKeys)

	endValue, err := json.Marshal(EndToken)
	if err != nil {
		return nil, err
	}

	entries := make([]StateEntry, 0, len(stateKeys))
	for _, key := range stateKeys {
		set := c.model[key]
		followKeys := make([]string, 0, len(set))
		for fk := range set {
			followKeys = append(followKeys, fk)
		}
		sort.Strings(followKeys)

		follows := make([]FollowEntry, 0, len(followKeys))
		for _, fk := range followKeys {
			rec := set[fk]
			value := json.RawMessage(endValue)
			if fk != EndToken {
				value, err = json.Marshal(rec.Value)
				if err != nil {
					return nil, fmt.Errorf("marshal value for follow %q: %w", fk, err)
				}
			}
			follows = append(follows, FollowEntry{
				Key:    fk,
				Record: Record{Value: value, Count: rec.Count},
			})
		}
		entries = append(entries, StateEntry{Key: key, Follows: follows})
	}

	return &Document{StateSize: c.stateSize, Model: entries}, nil
}

// Serialize converts the chain into its persisted text form. The output is
// deterministic: serializing the same model twice yields identical bytes.
func (c *Chain[S]) Serialize() ([]byte, error) {
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// ParseDocument parses a persisted chain into its Document form. It fails
// with ErrMalformedInput when the text is not parseable or the required
// fields are missing.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if doc.StateSize < 1 {
		return nil, fmt.Errorf("%w: missing or invalid stateSize", ErrMalformedInput)
	}
	if doc.Model == nil {
		return nil, fmt.Errorf("%w: missing model", ErrMalformedInput)
	}
	return &doc, nil
}

// FromDocument reconstructs a chain from its flat form. Entries are inserted
// directly; the flat form is trusted to be already aggregated, so duplicate
// keys overwrite rather than merge.
func FromDocument[S comparable](doc *Document, opts ...Option[S]) (*Chain[S], error) {
	model := make(Table[S], len(doc.Model))
	for _, se := range doc.Model {
		set := model[se.Key]
		if set == nil {
			set = make(FollowSet[S], len(se.Follows))
			model[se.Key] = set
		}
		for _, fe := range se.Follows {
			rec := &Follow[S]{Count: fe.Record.Count}
			if fe.Key != EndToken {
				if err := json.Unmarshal(fe.Record.Value, &rec.Value); err != nil {
					return nil, fmt.Errorf("%w: value for follow %q: %v", ErrMalformedInput, fe.Key, err)
				}
			}
			set[fe.Key] = rec
		}
	}
	return NewFromTable(doc.StateSize, model, opts...), nil
}

// Deserialize reconstructs a chain from the text produced by Serialize. It
// fails with ErrMalformedInput and no partial chain when the input cannot be
// parsed or does not match the expected shape.
func Deserialize[S comparable](data []byte, opts ...Option[S]) (*Chain[S], error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return FromDocument[S](doc, opts...)
}
