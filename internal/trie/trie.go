// Package trie holds the exact-match tables consulted by the narrow phase.
//
// A table is a nested map keyed by successive integer components of a delta
// vector. A delta is registered when the whole root-to-leaf path exists;
// what sits at the end of the path does not matter.
package trie

// Node is either a Branch (descendable) or a Leaf (terminal).
type Node interface {
	node()
}

// Branch maps one delta component to the next level.
type Branch map[int]Node

// Leaf terminates a path. Descending into it fails.
type Leaf struct{}

func (Branch) node() {}
func (Leaf) node()   {}

// Contains reports whether key is a registered path of b
func (b Branch) Contains(key []int) bool {
	return Walk(b, key)
}

// Walk descends from root component by component and reports whether every
// descent succeeded. A missing key or a Leaf before the last component
// means the path is absent.
func Walk(root Node, key []int) bool {
	cur := root
	for _, k := range key {
		br, ok := cur.(Branch)
		if !ok {
			return false
		}
		if cur, ok = br[k]; !ok {
			return false
		}
	}
	return true
}

// Insert registers path, creating intermediate branches. The last
// component maps to an empty Branch, mirroring tables written as
// {7:{8:{9:{}}}}. A Leaf met along the way is replaced by a Branch.
func (b Branch) Insert(path []int) {
	cur := b
	for _, k := range path {
		next, ok := cur[k].(Branch)
		if !ok {
			next = Branch{}
			cur[k] = next
		}
		cur = next
	}
}

// Build creates a table holding every path
func Build(paths ...[]int) Branch {
	root := Branch{}
	for _, p := range paths {
		root.Insert(p)
	}
	return root
}

// Paths lists every root-to-terminal path. A terminal is a Leaf or an
// empty Branch. Order is unspecified.
func (b Branch) Paths() [][]int {
	var out [][]int
	var walk func(n Node, prefix []int)
	walk = func(n Node, prefix []int) {
		br, ok := n.(Branch)
		if !ok || len(br) == 0 {
			if len(prefix) > 0 {
				out = append(out, append([]int(nil), prefix...))
			}
			return
		}
		for k, child := range br {
			walk(child, append(prefix, k))
		}
	}
	walk(b, nil)
	return out
}
