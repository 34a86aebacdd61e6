package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFoldText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Modern Black Accent Chair", "modern black accent chair"},
		{"  Café   TABLE ", "cafe table"},
		{"Straße", "strasse"},
		{"", ""},
		{"\t\n", ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := foldText(tc.in); got != tc.want {
				t.Errorf("foldText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPreprocessQuery(t *testing.T) {
	p := NewQueryPreprocessor(false)

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain query", "modern black chair", "modern black chair"},
		{"case folded", "Modern BLACK Chair", "modern black chair"},
		{"drops filler", "I want a modern black chair for my office", "modern black chair office"},
		{"punctuation on filler", "Please, a doormat!", "doormat!"},
		{"all filler keeps text", "I want something", "i want something"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"nonsense untouched", "xyzxyz_nonsense_query", "xyzxyz_nonsense_query"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.PreprocessQuery(tc.input); got != tc.want {
				t.Errorf("PreprocessQuery(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestPreprocessQuery_LongInput(t *testing.T) {
	p := NewQueryPreprocessor(false)
	long := strings.Repeat("walnut ", 60)

	got := p.PreprocessQuery(long)
	if n := utf8.RuneCountInString(got); n > maxQueryRunes {
		t.Errorf("len = %d, want <= %d", n, maxQueryRunes)
	}
	if strings.HasSuffix(got, " ") || !strings.HasSuffix(got, "walnut") {
		t.Errorf("expected cut at word boundary, got %q", got)
	}
}
