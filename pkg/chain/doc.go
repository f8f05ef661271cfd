/*
Package chain implements a finite-order Markov chain over arbitrary discrete
symbol sequences. It learns transition frequencies from a corpus of runs,
serializes and deserializes the learned model exactly, and generates new runs
by weighted random sampling until a terminal symbol is reached.

The chain is a pure, synchronous value type: no I/O happens inside the core,
and a chain is safe for concurrent reads once built. Symbols are a generic
type parameter constrained to comparable, paired with a canonical encoding
function (JSON by default) that turns a symbol into its token text.

For durable persistence see the store package; for turning prose into runs of
string symbols see the text package.
*/
package chain
