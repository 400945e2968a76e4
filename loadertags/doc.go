// Package loadertags implements block-level template inheritance: the
// "block" tag and the [BlockNode] override chain.
//
// A block names an overridable section of a template:
//
//	{% block title %}Default title{% endblock %}
//
// The closing tag may repeat the name ("{% endblock title %}"). A name may
// be declared only once per template.
//
// An inheritance resolver matches same-named blocks across a chain of
// templates and grafts the less derived definitions onto the most derived
// one with [BlockNode.AddParent]. While a block renders, its body sees a
// "block" binding with two attributes:
//
//	{{ block.name }}    the block name
//	{{ block.super }}   the next ancestor definition, rendered on demand
//
// Calling super on a block without an ancestor is an error
// ([ErrSuperWithoutAncestor]), never a silent empty string.
package loadertags
