package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var (
	ErrEmpty         = errors.New("vector: no components")
	ErrArityMismatch = errors.New("vector: arity mismatch")
)

// Vector is an immutable fixed-length integer tuple.
// The zero value is an empty vector; use New to build one.
type Vector struct {
	c []int
}

// New copies coords into a new vector. At least one component is required.
func New(coords ...int) (Vector, error) {
	if len(coords) == 0 {
		return Vector{}, ErrEmpty
	}
	c := make([]int, len(coords))
	copy(c, coords)
	return Vector{c: c}, nil
}

// MustNew is New for literals known to be valid.
func MustNew(coords ...int) Vector {
	v, err := New(coords...)
	if err != nil {
		panic(err)
	}
	return v
}

// Len returns the arity
func (v Vector) Len() int { return len(v.c) }

// At returns component i. It panics when i is out of range, like a slice index.
func (v Vector) At(i int) int { return v.c[i] }

// Coords returns a copy of the components
func (v Vector) Coords() []int {
	out := make([]int, len(v.c))
	copy(out, v.c)
	return out
}

// Add returns v+o component-wise
func (v Vector) Add(o Vector) (Vector, error) {
	return v.zip(o, func(a, b int) int { return a + b })
}

// Sub returns v-o component-wise
func (v Vector) Sub(o Vector) (Vector, error) {
	return v.zip(o, func(a, b int) int { return a - b })
}

func (v Vector) zip(o Vector, f func(a, b int) int) (Vector, error) {
	if len(v.c) != len(o.c) {
		return Vector{}, fmt.Errorf("%w: %d vs %d", ErrArityMismatch, len(v.c), len(o.c))
	}
	out := make([]int, len(v.c))
	for i := range v.c {
		out[i] = f(v.c[i], o.c[i])
	}
	return Vector{c: out}, nil
}

// Neg returns the component-wise negation
func (v Vector) Neg() Vector {
	out := make([]int, len(v.c))
	for i, x := range v.c {
		out[i] = -x
	}
	return Vector{c: out}
}

// Concat appends the components of the given vectors after v's.
func (v Vector) Concat(others ...Vector) Vector {
	n := len(v.c)
	for _, o := range others {
		n += len(o.c)
	}
	out := make([]int, 0, n)
	out = append(out, v.c...)
	for _, o := range others {
		out = append(out, o.c...)
	}
	return Vector{c: out}
}

// Equal reports component-wise equality. Vectors of different arity are never equal.
func (v Vector) Equal(o Vector) bool {
	if len(v.c) != len(o.c) {
		return false
	}
	for i := range v.c {
		if v.c[i] != o.c[i] {
			return false
		}
	}
	return true
}

// Hash is consistent with Equal: equal vectors hash equally.
func (v Vector) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(v.c)))
	d.Write(buf[:])
	for _, x := range v.c {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(x)))
		d.Write(buf[:])
	}
	return d.Sum64()
}

func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, x := range v.c {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(x))
	}
	sb.WriteByte(')')
	return sb.String()
}
