// Package ast provides typed, role-named accessors over a red.Node tree
// (spec §4.1 "Typed view"). Each type here corresponds to one StructRule
// or EnumRule in internal/syntax/gen: a struct-node wraps a *red.Node and
// exposes one method per field (Nth-child-of-kind for a single
// occurrence, a slice for a repeated field, a (T, bool) pair for an
// optional field); an enum-node is a tagged union exposing which
// alternative is present.
//
// A real generator would emit one file per rule from gen.Structs and
// gen.Enums, the way original_source's build.rs emits syntax/generated.rs
// from narwhal.ungram; these accessors are the hand-written Go
// equivalent of that generated output, named identically to the rules
// they implement.
package ast

import (
	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
	"github.com/narwhal-lang/narwhalc/internal/syntax/red"
)

// Node is implemented by every struct-node wrapper; it recovers the
// underlying red.Node, e.g. for diagnostics that need a Span.
type Node interface {
	Syntax() *red.Node
}

// nthToken returns the idx'th (0-based) direct child token of kind k.
func nthToken(n *red.Node, k kind.Kind, idx int) (*red.Token, bool) {
	count := 0
	for _, el := range n.Children() {
		if el.Token != nil && el.Token.Kind() == k {
			if count == idx {
				return el.Token, true
			}
			count++
		}
	}
	return nil, false
}

// nthNode returns the idx'th (0-based) direct child node whose kind
// satisfies accept.
func nthNode(n *red.Node, accept func(kind.Kind) bool, idx int) (*red.Node, bool) {
	count := 0
	for _, el := range n.Children() {
		if el.Node != nil && accept(el.Node.Kind()) {
			if count == idx {
				return el.Node, true
			}
			count++
		}
	}
	return nil, false
}

// allNodes returns every direct child node whose kind satisfies accept,
// in source order — the shape a Repeated field's accessor returns.
func allNodes(n *red.Node, accept func(kind.Kind) bool) []*red.Node {
	var out []*red.Node
	for _, el := range n.Children() {
		if el.Node != nil && accept(el.Node.Kind()) {
			out = append(out, el.Node)
		}
	}
	return out
}

func kindIs(k kind.Kind) func(kind.Kind) bool {
	return func(got kind.Kind) bool { return got == k }
}

func kindIsAny(ks ...kind.Kind) func(kind.Kind) bool {
	return func(got kind.Kind) bool {
		for _, k := range ks {
			if got == k {
				return true
			}
		}
		return false
	}
}
