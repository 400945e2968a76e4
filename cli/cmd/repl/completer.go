package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/DmitryKokorin/grantlee/loadertags"
)

// commands are the REPL's control commands, typed with a leading colon.
var commands = []string{"blocks", "clear", "data", "help", "quit", "set"}

// handleAttrs are the attributes of the block handle.
var handleAttrs = []string{"name", "super"}

// isWordBoundary reports whether r separates completion words. Template
// delimiters and expression operators are boundaries; hyphens and
// underscores are not.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'{', '}', '%', '#',
		'(', ')', '[', ']',
		'+', '*', '/',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';',
		'"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets in input.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// memberPath returns the dotted identifiers leading up to wordStart, for
// example ["user", "address"] for "{{ user.address.ci". It is empty when
// the word is not preceded by a dot.
func memberPath(input string, wordStart int) []string {
	var path []string

	pos := wordStart
	for pos > 0 && input[pos-1] == '.' {
		word, start, _ := wordBounds(input, pos-1)
		if word == "" {
			return nil
		}

		path = append(path, word)
		pos = start
	}

	slices.Reverse(path)

	return path
}

// completions holds the completion sources of a REPL session.
type completions struct {
	data   map[string]any
	tags   []string
	blocks []string
}

// candidates returns the names that may complete a word preceded by path.
func (c completions) candidates(path []string) []string {
	if len(path) == 0 {
		names := slices.Sorted(maps.Keys(c.data))
		names = append(names, loadertags.HandleName)
		names = append(names, c.tags...)
		names = append(names, c.blocks...)
		slices.Sort(names)

		return slices.Compact(names)
	}

	if len(path) == 1 && path[0] == loadertags.HandleName {
		if _, shadowed := c.data[loadertags.HandleName]; !shadowed {
			return handleAttrs
		}
	}

	var cur any = c.data
	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}

		cur = m[seg]
	}

	if m, ok := cur.(map[string]any); ok {
		return slices.Sorted(maps.Keys(m))
	}

	return nil
}

// computeMatches calculates the fuzzy matches for the word at the cursor.
// Input starting with a colon completes commands. An empty word after a dot
// lists every member.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())

	var candidates []string

	switch {
	case strings.HasPrefix(input, ":"):
		if start != 1 {
			return nil, start, end
		}

		candidates = commands

	default:
		path := memberPath(input, start)
		candidates = m.complete.candidates(path)

		if word == "" {
			if len(path) == 0 {
				return nil, start, end
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, start, end
		}
	}

	if word == "" || len(candidates) == 0 {
		return nil, start, end
	}

	return fuzzy.Find(word, candidates), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit width. The selected candidate is highlighted while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters bold.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
