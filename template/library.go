package template

import (
	"log/slog"
	"slices"
	"sync"
)

// TagFactory turns the content of a tag token into a [Node].
//
// Content is the full trimmed text between the tag delimiters, keyword
// included. The factory may consume further tokens through p, for example
// with [Parser.ParseUntil] to read a body.
type TagFactory interface {
	Parse(content string, p *Parser) (Node, error)
}

// TagFunc adapts a function to a [TagFactory].
type TagFunc func(content string, p *Parser) (Node, error)

// Parse calls f(content, p).
func (f TagFunc) Parse(content string, p *Parser) (Node, error) {
	return f(content, p)
}

// Library maps tag keywords to factories. It is safe for concurrent use;
// registration normally happens once before any parsing.
type Library struct {
	tags map[string]TagFactory
	mu   sync.RWMutex
}

// NewLibrary returns an empty Library.
func NewLibrary() *Library {
	return &Library{tags: make(map[string]TagFactory)}
}

// Register binds keyword to f.
func (l *Library) Register(keyword string, f TagFactory) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.tags[keyword]; ok {
		return ErrDuplicateTag.With(slog.String("tag", keyword))
	}

	l.tags[keyword] = f

	return nil
}

// Lookup returns the factory bound to keyword.
func (l *Library) Lookup(keyword string) (TagFactory, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	f, ok := l.tags[keyword]

	return f, ok
}

// Names returns the registered keywords in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.tags))
	for name := range l.tags {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
