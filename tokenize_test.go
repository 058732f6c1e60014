package aeolus_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stops2control/aeolus"
)

func TestTokenize(t *testing.T) {
	input := "# Aeolus definition\n\n/manual/new   III\n\t/rank C 0\tflute4.ae0  \n   \n/instr/end"
	lines, err := aeolus.Tokenize(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	want := []aeolus.Line{
		{Number: 1, Tokens: []string{"#", "Aeolus", "definition"}},
		{Number: 3, Tokens: []string{"/manual/new", "III"}},
		{Number: 4, Tokens: []string{"/rank", "C", "0", "flute4.ae0"}},
		{Number: 6, Tokens: []string{"/instr/end"}},
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("got %v, expected %v", lines, want)
	}
}

func TestLineKeyword(t *testing.T) {
	tests := []struct {
		tokens  []string
		keyword string
		args    int
	}{
		{[]string{"/divis/new", "Great"}, "divis/new", 1},
		{[]string{"divis/new", "Great"}, "divis/new", 1},
		{[]string{"/swell"}, "swell", 0},
		{nil, "", 0},
	}
	for _, tt := range tests {
		l := aeolus.Line{Tokens: tt.tokens}
		if got := l.Keyword(); got != tt.keyword {
			t.Errorf("Keyword() of %v = %q, expected %q", tt.tokens, got, tt.keyword)
		}
		if got := len(l.Args()); got != tt.args {
			t.Errorf("len(Args()) of %v = %d, expected %d", tt.tokens, got, tt.args)
		}
	}
}
