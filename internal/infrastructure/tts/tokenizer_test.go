package tts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"sentence punctuation", "Hello, world. How are you?", []string{"Hello", "world", "How are you?"}},
		{"decimals kept", "Pi is 3.14 today.", []string{"Pi is 3.14 today"}},
		{"time colon kept", "Meet at 10:30: bring coffee", []string{"Meet at 10:30", "bring coffee"}},
		{"abbreviations", "Dr. Smith is here.", []string{"Dr Smith is here"}},
		{"newline splits", "first line\nsecond line", []string{"first line", "second line"}},
		{"hyphenated line break joined", "exam-\nple", []string{"example"}},
		{"punctuation only", "... ; !", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in, MaxTokenChars)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_LongTextMinimized(t *testing.T) {
	words := strings.Repeat("lorem ipsum dolor sit amet ", 20)

	got := Tokenize(words, MaxTokenChars)

	assert.Greater(t, len(got), 1)
	for _, tok := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(tok), MaxTokenChars)
	}
	assert.Equal(t, strings.Fields(words), strings.Fields(strings.Join(got, " ")))
}

func TestTokenize_HardCutWithoutSpaces(t *testing.T) {
	in := strings.Repeat("界", 250)

	got := Tokenize(in, MaxTokenChars)

	assert.Len(t, got, 3)
	assert.Equal(t, 100, utf8.RuneCountInString(got[0]))
	assert.Equal(t, 100, utf8.RuneCountInString(got[1]))
	assert.Equal(t, 50, utf8.RuneCountInString(got[2]))
}
