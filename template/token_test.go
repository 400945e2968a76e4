package template

import (
	"slices"
	"testing"
)

func TestLex_Tokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "empty",
			src:  "",
			want: nil,
		},
		{
			name: "all kinds",
			src:  "a{{ x }}b{% t %}{# c #}",
			want: []Token{
				{Kind: TokenText, Content: "a", Pos: Position{0, 1, 1}},
				{Kind: TokenVariable, Content: "x", Pos: Position{1, 1, 2}},
				{Kind: TokenText, Content: "b", Pos: Position{8, 1, 9}},
				{Kind: TokenTag, Content: "t", Pos: Position{9, 1, 10}},
				{Kind: TokenComment, Content: "c", Pos: Position{16, 1, 17}},
			},
		},
		{
			name: "line tracking",
			src:  "a\n{%block x%}",
			want: []Token{
				{Kind: TokenText, Content: "a\n", Pos: Position{0, 1, 1}},
				{Kind: TokenTag, Content: "block x", Pos: Position{2, 2, 1}},
			},
		},
		{
			name: "unterminated is text",
			src:  "a {{ b",
			want: []Token{
				{Kind: TokenText, Content: "a {{ b", Pos: Position{0, 1, 1}},
			},
		},
		{
			name: "unterminated after tag",
			src:  "{% x %} {% y",
			want: []Token{
				{Kind: TokenTag, Content: "x", Pos: Position{0, 1, 1}},
				{Kind: TokenText, Content: " {% y", Pos: Position{7, 1, 8}},
			},
		},
		{
			name: "multibyte columns",
			src:  "é{{ v }}",
			want: []Token{
				{Kind: TokenText, Content: "é", Pos: Position{0, 1, 1}},
				{Kind: TokenVariable, Content: "v", Pos: Position{2, 1, 2}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lex(tt.src)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Lex(%q)\n got  %+v\n want %+v", tt.src, got, tt.want)
			}
		})
	}
}

func TestTokenKind_String(t *testing.T) {
	tests := map[TokenKind]string{
		TokenText:     "Text",
		TokenVariable: "Variable",
		TokenTag:      "Tag",
		TokenComment:  "Comment",
		TokenKind(9):  "TokenKind(9)",
	}

	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("TokenKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
