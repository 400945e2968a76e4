package template

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/DmitryKokorin/grantlee/log"
)

// maxSuggestions bounds the "did you mean" candidates on unknown tags.
const maxSuggestions = 3

// BlockRegistry is the set of block names declared during one parse pass.
// The zero value is empty and ready to use.
type BlockRegistry struct {
	index map[string]struct{}
	names []string
}

// Has reports whether name has been declared.
func (r *BlockRegistry) Has(name string) bool {
	_, ok := r.index[name]

	return ok
}

// Add declares name. It reports false if name was already declared.
func (r *BlockRegistry) Add(name string) bool {
	if r.Has(name) {
		return false
	}

	if r.index == nil {
		r.index = make(map[string]struct{})
	}

	r.index[name] = struct{}{}
	r.names = append(r.names, name)

	return true
}

// Names returns the declared names in declaration order.
func (r *BlockRegistry) Names() []string { return slices.Clone(r.names) }

// Len returns the number of declared names.
func (r *BlockRegistry) Len() int { return len(r.names) }

// PassState is the state tag factories share across one parse pass.
type PassState struct {
	Blocks BlockRegistry
}

// Parser is a recursive-descent parser over the token stream of one
// template. A Parser performs exactly one parse pass and must not be shared
// between goroutines.
type Parser struct {
	ctx     context.Context
	lib     *Library
	logger  log.Logger
	name    string
	matched string
	tokens  []Token
	pass    PassState
	pos     int
	current Position
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserLogger sets the logger used while parsing.
func WithParserLogger(logger log.Logger) ParserOption {
	return func(p *Parser) { p.logger = logger }
}

// WithParserContext sets the context passed to the logger.
func WithParserContext(ctx context.Context) ParserOption {
	return func(p *Parser) {
		if ctx != nil {
			p.ctx = ctx
		}
	}
}

// NewParser returns a Parser over src using the tags registered in lib.
// The name identifies the template in errors and logs.
func NewParser(name, src string, lib *Library, opts ...ParserOption) *Parser {
	if lib == nil {
		lib = NewLibrary()
	}

	p := &Parser{
		ctx:    context.Background(),
		lib:    lib,
		logger: log.Default(),
		name:   name,
		tokens: Lex(src),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the template name.
func (p *Parser) Name() string { return p.name }

// Logger returns the parse logger.
func (p *Parser) Logger() log.Logger { return p.logger }

// Context returns the context of the parse pass.
func (p *Parser) Context() context.Context { return p.ctx }

// Pass returns the per-pass state shared by tag factories.
func (p *Parser) Pass() *PassState { return &p.pass }

// Position returns the position of the tag being parsed.
func (p *Parser) Position() Position { return p.current }

// Matched returns the end marker that closed the most recent
// [Parser.ParseUntil] call, or "" if that call ran to the end of input.
func (p *Parser) Matched() string { return p.matched }

// ParseUntil parses tokens into nodes until a tag whose content matches one
// of ends. The matching tag is consumed and not included in the result.
// Tag content is compared with runs of whitespace collapsed to one space.
//
// With no ends, ParseUntil parses to the end of input. Otherwise reaching
// the end of input is an [ErrUnclosedTag] error.
func (p *Parser) ParseUntil(ends ...string) (NodeList, error) {
	list := make(NodeList, 0)

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		p.logger.TraceContext(p.ctx, "token",
			slog.String("kind", tok.Kind.String()),
			slog.String("pos", tok.Pos.String()))

		switch tok.Kind {
		case TokenText:
			list = append(list, TextNode(tok.Content))

		case TokenComment:

		case TokenVariable:
			node, err := NewVariableNode(tok.Content, tok.Pos)
			if err != nil {
				return nil, err
			}

			list = append(list, node)

		case TokenTag:
			content := normalize(tok.Content)
			if slices.Contains(ends, content) {
				p.matched = content

				return list, nil
			}

			node, err := p.parseTag(content, tok.Pos)
			if err != nil {
				return nil, err
			}

			list = append(list, node)
		}
	}

	p.matched = ""

	if len(ends) > 0 {
		return nil, ErrUnclosedTag.With(slog.Any("expected", ends))
	}

	return list, nil
}

// parseTag dispatches a tag to its factory. Errors without a position are
// located at the tag.
func (p *Parser) parseTag(content string, pos Position) (Node, error) {
	keyword, _, _ := strings.Cut(content, " ")

	factory, ok := p.lib.Lookup(keyword)
	if !ok {
		if strings.HasPrefix(keyword, "end") {
			return nil, ErrUnexpected.
				With(slog.String("tag", keyword)).
				WithPosition(pos)
		}

		return nil, p.unknownTag(keyword).WithPosition(pos)
	}

	outer := p.current
	p.current = pos

	defer func() { p.current = outer }()

	node, err := factory.Parse(content, p)
	if err != nil {
		return nil, locate(err, pos)
	}

	return node, nil
}

func (p *Parser) unknownTag(keyword string) *Error {
	err := ErrUnknownTag.With(slog.String("tag", keyword))

	matches := fuzzy.Find(keyword, p.lib.Names())
	if len(matches) == 0 {
		return err
	}

	suggest := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggest) == maxSuggestions {
			break
		}

		suggest = append(suggest, m.Str)
	}

	return err.With(slog.Any("suggest", suggest))
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
