package text

import (
	"reflect"
	"strings"
	"testing"
)

func TestRuns(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "Two sentences",
			input: "one fish two fish. red fish blue fish.",
			want:  [][]string{{"one", "fish", "two", "fish"}, {"red", "fish", "blue", "fish"}},
		},
		{
			name:  "Unterminated trailing run",
			input: "first one. second without an end",
			want:  [][]string{{"first", "one"}, {"second", "without", "an", "end"}},
		},
		{
			name:  "Multiline input",
			input: "line one\ncontinues here. next\nsentence!",
			want:  [][]string{{"line", "one", "continues", "here"}, {"next", "sentence"}},
		},
		{
			name:  "Interior punctuation kept",
			input: "well, fine.",
			want:  [][]string{{"well", ",", "fine"}},
		},
		{
			name:  "Empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "Only terminators",
			input: "...!?",
			want:  nil,
		},
	}

	tok := NewDefaultTokenizer()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tok.Runs(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Runs() failed: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Runs() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	tok := NewDefaultTokenizer()

	testCases := []struct {
		name string
		run  []string
		want string
	}{
		{name: "Plain words", run: []string{"one", "fish"}, want: "one fish."},
		{name: "Interior comma", run: []string{"well", ",", "fine"}, want: "well, fine."},
		{name: "Trailing punctuation", run: []string{"done", "!"}, want: "done!"},
		{name: "Empty run", run: nil, want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tok, tc.run); got != tc.want {
				t.Errorf("Render(%v) = %q, want %q", tc.run, got, tc.want)
			}
		})
	}
}

func TestTokenizerOptions(t *testing.T) {
	tok := NewDefaultTokenizer(
		WithSeparator("_"),
		WithTerminator("!"),
	)

	if got := Render(tok, []string{"a", "b"}); got != "a_b!" {
		t.Errorf("Render() with custom options = %q, want %q", got, "a_b!")
	}

	lineTok := NewDefaultTokenizer(
		WithSplitRegex(`[^\s]+`),
		WithEOSRegex(`^;$`),
	)
	got, err := lineTok.Runs(strings.NewReader("a b ; c d"))
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Runs() with custom regexes = %v, want %v", got, want)
	}
}
