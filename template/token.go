package template

import (
	"strings"
	"unicode/utf8"
)

//go:generate go tool stringer -type=TokenKind -trimprefix=Token -output tokenkind_string.go

// TokenKind classifies a lexed token.
type TokenKind uint8

const (
	TokenText     TokenKind = iota // literal text
	TokenVariable                  // {{ expr }}
	TokenTag                       // {% tag args %}
	TokenComment                   // {# comment #}
)

// Delimiters of the template language.
const (
	VariableOpen  = "{{"
	VariableClose = "}}"
	TagOpen       = "{%"
	TagClose      = "%}"
	CommentOpen   = "{#"
	CommentClose  = "#}"
)

// Token is one lexical unit of template source. Content holds the trimmed
// text between delimiters, or the raw text of a [TokenText] token.
type Token struct {
	Content string
	Pos     Position
	Kind    TokenKind
}

// Lex splits src into tokens. It never fails: an opening delimiter without
// its matching close is treated as literal text.
func Lex(src string) []Token {
	l := &lexer{input: src, line: 1, col: 1}

	return l.run()
}

// lexer holds the lexer state.
type lexer struct {
	input  string
	tokens []Token
	pos    int
	line   int
	col    int
}

func (l *lexer) run() []Token {
	textStart, textPos := l.pos, l.position()

	flush := func() {
		if l.pos > textStart {
			l.tokens = append(l.tokens, Token{
				Kind:    TokenText,
				Content: l.input[textStart:l.pos],
				Pos:     textPos,
			})
		}
	}

	for !l.eof() {
		kind, closer, ok := l.opener()
		if !ok {
			l.advance()

			continue
		}

		end := strings.Index(l.input[l.pos+2:], closer)
		if end < 0 {
			// No closing delimiter anywhere: the remainder is text.
			l.skip(len(l.input) - l.pos)

			break
		}

		flush()

		pos := l.position()
		inner := l.input[l.pos+2 : l.pos+2+end]
		l.skip(2 + end + len(closer))

		l.tokens = append(l.tokens, Token{
			Kind:    kind,
			Content: strings.TrimSpace(inner),
			Pos:     pos,
		})

		textStart, textPos = l.pos, l.position()
	}

	flush()

	return l.tokens
}

// opener reports whether an opening delimiter starts at the current offset.
func (l *lexer) opener() (TokenKind, string, bool) {
	switch l.peekN(2) {
	case VariableOpen:
		return TokenVariable, VariableClose, true
	case TagOpen:
		return TokenTag, TagClose, true
	case CommentOpen:
		return TokenComment, CommentClose, true
	default:
		return TokenText, "", false
	}
}

func (l *lexer) peekN(n int) string {
	if l.pos+n > len(l.input) {
		return l.input[l.pos:]
	}

	return l.input[l.pos : l.pos+n]
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// skip advances over n bytes.
func (l *lexer) skip(n int) {
	for end := l.pos + n; l.pos < end && !l.eof(); {
		l.advance()
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}
