package collision

import (
	"errors"
	"fmt"

	"spacebattle/internal/vector"
)

//go:generate go tool mockgen -destination=./mocks/collision_mock.go -package=mocks . TypeResolver,TableProvider,ImpactHandler

var (
	ErrArityMismatch   = errors.New("collision: arity mismatch")
	ErrUnknownTypePair = errors.New("collision: type pair has no priority")
	ErrInvalidPriority = errors.New("collision: priority names neither type")
	ErrUnknownNodeType = errors.New("collision: no table for node type")
)

// Body is anything with an integer position and velocity
type Body interface {
	Position() vector.Vector
	Velocity() vector.Vector
}

// TypeResolver maps a body to its type tag
type TypeResolver interface {
	ResolveType(b Body) string
}

// TypeResolverFunc adapts a function to TypeResolver
type TypeResolverFunc func(b Body) string

func (f TypeResolverFunc) ResolveType(b Body) string { return f(b) }

// TypePair is an ordered pair of type tags
type TypePair struct {
	A, B string
}

// PriorityTable says which type of a pair is primary.
// A pair may be registered in either order.
type PriorityTable map[TypePair]string

// Delta is the canonical offset between two bodies
type Delta struct {
	// Vector is primary.pos - secondary.pos followed by primary.vel - secondary.vel
	Vector    vector.Vector
	NodeType  string
	Primary   Body
	Secondary Body
}

// Calculator orders a pair by type priority and computes their delta
type Calculator struct {
	resolver   TypeResolver
	priorities PriorityTable
	strict     bool
}

type CalculatorOption func(*Calculator)

// WithStrictPriorities makes pairs missing from the priority table an error
// instead of defaulting to the first argument's type.
func WithStrictPriorities() CalculatorOption {
	return func(c *Calculator) { c.strict = true }
}

func NewCalculator(resolver TypeResolver, priorities PriorityTable, opts ...CalculatorOption) *Calculator {
	c := &Calculator{resolver: resolver, priorities: priorities}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PrimaryType resolves which of typeA, typeB is primary
func (c *Calculator) PrimaryType(typeA, typeB string) (string, error) {
	if p, ok := c.priorities[TypePair{typeA, typeB}]; ok {
		return p, c.checkPriority(p, typeA, typeB)
	}
	if p, ok := c.priorities[TypePair{typeB, typeA}]; ok {
		return p, c.checkPriority(p, typeA, typeB)
	}
	if c.strict {
		return "", fmt.Errorf("%w: (%s, %s)", ErrUnknownTypePair, typeA, typeB)
	}
	return typeA, nil
}

func (c *Calculator) checkPriority(p, typeA, typeB string) error {
	if p != typeA && p != typeB {
		return fmt.Errorf("%w: %q for (%s, %s)", ErrInvalidPriority, p, typeA, typeB)
	}
	return nil
}

// ComputeDelta orders a and b into primary and secondary and returns their
// delta and node type. Swapping a and b keeps the node type. The delta is
// unchanged for a registered pair and negated when both share a type.
func (c *Calculator) ComputeDelta(a, b Body) (Delta, error) {
	typeA := c.resolver.ResolveType(a)
	typeB := c.resolver.ResolveType(b)

	primaryType, err := c.PrimaryType(typeA, typeB)
	if err != nil {
		return Delta{}, err
	}

	primary, secondary := a, b
	secondaryType := typeB
	if primaryType != typeA {
		primary, secondary = b, a
		secondaryType = typeA
	}

	pos, err := primary.Position().Sub(secondary.Position())
	if err != nil {
		return Delta{}, fmt.Errorf("%w: position: %w", ErrArityMismatch, err)
	}
	vel, err := primary.Velocity().Sub(secondary.Velocity())
	if err != nil {
		return Delta{}, fmt.Errorf("%w: velocity: %w", ErrArityMismatch, err)
	}

	return Delta{
		Vector:    pos.Concat(vel),
		NodeType:  primaryType + secondaryType,
		Primary:   primary,
		Secondary: secondary,
	}, nil
}
