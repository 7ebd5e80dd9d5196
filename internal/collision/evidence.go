package collision

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ShapeID maps a hull name to a stable integer. Case is ignored and the
// empty name maps to 0.
func ShapeID(name string) int32 {
	if name == "" {
		return 0
	}
	return int32(uint32(xxhash.Sum64String(strings.ToLower(name))))
}

// BuildEvidence flattens a pair into one row: position a, position b,
// velocity a, velocity b, then the two shape ids.
func BuildEvidence(a, b Body, shapeA, shapeB string) []int {
	out := make([]int, 0, 2*a.Position().Len()+2*b.Position().Len()+2)
	out = append(out, a.Position().Coords()...)
	out = append(out, b.Position().Coords()...)
	out = append(out, a.Velocity().Coords()...)
	out = append(out, b.Velocity().Coords()...)
	return append(out, int(ShapeID(shapeA)), int(ShapeID(shapeB)))
}
