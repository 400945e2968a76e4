// Package template implements the core of a Django-style template
// language: a lexer, a recursive-descent [Parser] driven by a [Library] of
// tag factories, [Node] and [NodeList] rendering, and the render-time
// [Context] scope stack.
//
// # Syntax
//
//	{{ expr }}       variable, evaluated with expr-lang
//	{% tag args %}   tag, dispatched to the factory registered for "tag"
//	{# comment #}    comment, discarded
//
// Variable expressions are compiled when the template is parsed. Member
// access is resolved on demand at render time: missing keys yield nil, and
// attributes of a [Handle] (such as block.super) are computed only when
// reached.
//
// # Parse Passes
//
// Each [Parser] is one parse pass over one template. Tag factories share
// typed per-pass state through [Parser.Pass]; block names, for example, are
// recorded in [PassState.Blocks] to reject duplicates within a template.
//
// # Errors
//
// Errors are [*Error] values derived from sentinels such as
// [ErrTagSyntax] and match them with [errors.Is]. Parse errors carry the
// source position of the offending tag.
package template
