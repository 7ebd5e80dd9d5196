package collision

import (
	"fmt"

	"spacebattle/internal/trie"
)

// TableProvider supplies the exact-match table for a node type
type TableProvider interface {
	NodeTable(nodeType string) (trie.Node, bool)
}

// Tables is an in-memory TableProvider
type Tables map[string]trie.Node

func (t Tables) NodeTable(nodeType string) (trie.Node, bool) {
	n, ok := t[nodeType]
	return n, ok
}

// Verifier decides whether a pair's delta is a registered collision
type Verifier struct {
	calc   *Calculator
	tables TableProvider
}

func NewVerifier(calc *Calculator, tables TableProvider) *Verifier {
	return &Verifier{calc: calc, tables: tables}
}

// IsColliding reports whether the delta between a and b is registered in
// the table for their node type. A missing or partial path is simply
// false; a node type without a table is ErrUnknownNodeType.
func (v *Verifier) IsColliding(a, b Body) (bool, error) {
	_, hit, err := v.Check(a, b)
	return hit, err
}

// Check is IsColliding that also returns the computed delta
func (v *Verifier) Check(a, b Body) (Delta, bool, error) {
	d, err := v.calc.ComputeDelta(a, b)
	if err != nil {
		return Delta{}, false, err
	}
	root, ok := v.tables.NodeTable(d.NodeType)
	if !ok {
		return d, false, fmt.Errorf("%w: %q", ErrUnknownNodeType, d.NodeType)
	}
	return d, trie.Walk(root, d.Vector.Coords()), nil
}
