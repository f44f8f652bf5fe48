package green

import (
	"strings"

	"github.com/narwhal-lang/narwhalc/internal/syntax/kind"
)

// Cache deduplicates structurally-identical nodes as they are built, so a
// parenthesized re-parse of the same subtree (or two unrelated nodes that
// happen to look alike, e.g. two uses of the literal `0`) share one
// *Node. The cache is a parser-session-scoped resource: parser.Parse
// builds one Cache per call, so sharing never crosses sources.
//
// This mirrors cstree's node cache (see original_source's use of the
// cstree crate) rather than any Go library, since sharing keys on the
// exact (kind, children) shape of a tree built incrementally by a
// builder is a narrow, domain-specific structure.
type Cache struct {
	nodes map[string][]*Node
}

// NewCache returns a ready-to-use Cache.
func NewCache() *Cache {
	return &Cache{nodes: make(map[string][]*Node)}
}

// Node returns a *Node for (k, children), reusing a previously built node
// with the identical kind and children where possible.
func (c *Cache) Node(k kind.Kind, children []Child) *Node {
	key := cacheKey(k, children)
	for _, cand := range c.nodes[key] {
		if nodeEqual(cand, k, children) {
			return cand
		}
	}
	n := newNode(k, children)
	c.nodes[key] = append(c.nodes[key], n)
	return n
}

// Token constructs a token; tokens bypass the cache (see Token's doc).
func (c *Cache) Token(k kind.Kind, text string) *Token {
	return NewToken(k, text)
}

func cacheKey(k kind.Kind, children []Child) string {
	var sb strings.Builder
	sb.WriteString(k.String())
	sb.WriteByte('|')
	for _, c := range children {
		sb.WriteString(c.Kind().String())
		if c.Token != nil {
			sb.WriteByte(':')
			sb.WriteString(c.Token.Text())
		}
		sb.WriteByte(',')
	}
	return sb.String()
}

func nodeEqual(n *Node, k kind.Kind, children []Child) bool {
	if n.kind != k || len(n.children) != len(children) {
		return false
	}
	for i, c := range children {
		nc := n.children[i]
		if nc.Kind() != c.Kind() {
			return false
		}
		switch {
		case nc.Node != nil && c.Node != nil:
			if nc.Node != c.Node {
				return false
			}
		case nc.Token != nil && c.Token != nil:
			if nc.Token.Text() != c.Token.Text() {
				return false
			}
		default:
			return false
		}
	}
	return true
}
