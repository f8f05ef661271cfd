// Package text turns prose into corpora of string-symbol runs for the chain
// package, and renders generated runs back into prose.
package text

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Tokenizer defines the contract for splitting input text into runs and for
// re-joining generated runs into text. This keeps the chain core independent
// of the tokenization strategy.
type Tokenizer interface {
	// Runs splits a stream into runs of symbols, one run per sentence.
	Runs(r io.Reader) ([][]string, error)
	// Separator returns the string used to join two adjacent symbols when
	// rendering a generated run.
	Separator(prev, next string) string
	// Terminator returns the string appended after the last symbol of a
	// rendered run.
	Terminator(last string) string
}

// maxRunLength prevents a stream with no sentence boundaries from
// accumulating one enormous run.
const maxRunLength = 4096

// DefaultTokenizer is a regexp-based Tokenizer. It splits text into words
// and punctuation, treats sentence-ending punctuation as run boundaries, and
// can be customized with functional options.
type DefaultTokenizer struct {
	separator   string
	terminator  string
	splitRegex  *regexp.Regexp
	eosRegex    *regexp.Regexp
	sepExcRegex *regexp.Regexp
	endExcRegex *regexp.Regexp
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithSeparator Sets the string used for joining symbols during rendering.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *DefaultTokenizer) { t.separator = sep }
}

// WithTerminator Sets the string appended after a rendered run.
// Default: "."
func WithTerminator(term string) Option {
	return func(t *DefaultTokenizer) { t.terminator = term }
}

// WithSplitRegex sets the regex used to split input text into symbols.
// Default: `[\w']+|[.,!?;]`
func WithSplitRegex(split string) Option {
	return func(t *DefaultTokenizer) { t.splitRegex = regexp.MustCompile(split) }
}

// WithEOSRegex sets the regex used to decide whether a symbol ends a run.
// Default: `^[.!?]$`
func WithEOSRegex(eos string) Option {
	return func(t *DefaultTokenizer) { t.eosRegex = regexp.MustCompile(eos) }
}

// WithSeparatorExcRegex sets the regex for symbols that do not get a
// separator placed before them.
func WithSeparatorExcRegex(exc string) Option {
	return func(t *DefaultTokenizer) { t.sepExcRegex = regexp.MustCompile(exc) }
}

// WithTerminatorExcRegex sets the regex for symbols that do not get a
// terminator placed after them.
func WithTerminatorExcRegex(exc string) Option {
	return func(t *DefaultTokenizer) { t.endExcRegex = regexp.MustCompile(exc) }
}

// NewDefaultTokenizer creates a tokenizer with default settings, which can
// be overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		separator:  " ",
		terminator: ".",
		// Sequences of word characters OR single instances of common punctuation.
		splitRegex: regexp.MustCompile(`[\w']+|[.,!?;]`),
		// Sentence-ending punctuation marks a run boundary.
		eosRegex: regexp.MustCompile(`^[.!?]$`),
		// Punctuation that doesn't get a separator put before it.
		sepExcRegex: regexp.MustCompile(`^[.,!?;]`),
		// Symbols that don't get a terminator put after them.
		endExcRegex: regexp.MustCompile(`^[.,!?;]`),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Runs reads the stream line by line and splits it into runs. A symbol
// matching the end-of-sentence regex closes the current run and is not
// included in it; a trailing unterminated run is returned as-is.
func (t *DefaultTokenizer) Runs(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	var runs [][]string
	var current []string

	flush := func() {
		if len(current) > 0 {
			runs = append(runs, current)
			current = nil
		}
	}

	for scanner.Scan() {
		for _, word := range t.splitRegex.FindAllString(scanner.Text(), -1) {
			if t.eosRegex.MatchString(word) || len(current) >= maxRunLength {
				flush()
				continue
			}
			current = append(current, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return runs, nil
}

// Separator Returns the configured separator string, or nothing when the
// next symbol is excluded punctuation.
func (t *DefaultTokenizer) Separator(_, next string) string {
	if t.sepExcRegex.MatchString(next) {
		return ""
	}
	return t.separator
}

// Terminator Returns the configured terminator string, or nothing when the
// last symbol already carries punctuation.
func (t *DefaultTokenizer) Terminator(last string) string {
	if t.endExcRegex.MatchString(last) {
		return ""
	}
	return t.terminator
}

// Render joins a generated run back into text using the tokenizer's
// separator and terminator rules. An empty run renders as an empty string.
func Render(tok Tokenizer, run []string) string {
	if len(run) == 0 {
		return ""
	}
	var b strings.Builder
	last := ""
	for i, word := range run {
		if i > 0 {
			b.WriteString(tok.Separator(last, word))
		}
		b.WriteString(word)
		last = word
	}
	b.WriteString(tok.Terminator(last))
	return b.String()
}
