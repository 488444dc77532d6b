package tokenize

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokens(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "lowercases and dedups",
			body: "Hello hello HELLO world",
			want: []string{"hello", "world"},
		},
		{
			name: "strips punctuation",
			body: "wow. such, (indexing)! right?",
			want: []string{"indexing", "right", "such", "wow"},
		},
		{
			name: "keeps apostrophes and digits",
			body: "don't panic 42 times",
			want: []string{"42", "don't", "panic", "times"},
		},
		{
			name: "empty body",
			body: "",
			want: []string{},
		},
		{
			name: "whitespace only",
			body: " \t\n ",
			want: []string{},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Tokens(c.body)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("Tokens(%q) = %v; want %v", c.body, got, c.want)
			}
		})
	}
}

func TestTokensIdempotent(t *testing.T) {
	body := "The quick brown Fox; the quick brown fox's day!"
	once := Tokens(body)
	twice := Tokens(Join(once))
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-tokenizing joined output changed the set: %v vs %v", once, twice)
	}
}

func TestTokensNoPunctuationLeaks(t *testing.T) {
	got := Tokens("a,b.c;d:e-(f)[g]{h}!?\"i\"")
	for _, tok := range got {
		if strings.ContainsAny(tok, ",.;:-()[]{}!?\"") {
			t.Errorf("token %q contains punctuation", tok)
		}
	}
}
