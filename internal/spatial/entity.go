package spatial

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"spacebattle/internal/vector"
)

var ErrBadEntity = errors.New("spatial: invalid entity")

// Entity is a moving body indexed by a Grid. Entities are unique by identity.
//
// Position is only writable through Grid.Relocate so the grid and the
// entity's position cannot disagree.
type Entity struct {
	id       uuid.UUID
	kind     string
	shape    string
	position vector.Vector
	velocity vector.Vector
}

// NewEntity creates an entity with a fresh random ID.
// Position and velocity must have the same arity, at least 2.
func NewEntity(kind string, position, velocity vector.Vector) (*Entity, error) {
	if position.Len() < 2 {
		return nil, fmt.Errorf("%w: position %v needs at least 2 components", ErrBadEntity, position)
	}
	if position.Len() != velocity.Len() {
		return nil, fmt.Errorf("%w: position arity %d, velocity arity %d",
			ErrBadEntity, position.Len(), velocity.Len())
	}
	return &Entity{
		id:       uuid.New(),
		kind:     kind,
		position: position,
		velocity: velocity,
	}, nil
}

func (e *Entity) ID() uuid.UUID            { return e.id }
func (e *Entity) Kind() string             { return e.kind }
func (e *Entity) Position() vector.Vector { return e.position }
func (e *Entity) Velocity() vector.Vector { return e.velocity }

// Shape is the free-form hull name used when building collision evidence
func (e *Entity) Shape() string { return e.shape }

// SetShape sets the hull name
func (e *Entity) SetShape(shape string) { e.shape = shape }

// SetVelocity replaces the velocity. Callers change it between steps only.
func (e *Entity) SetVelocity(v vector.Vector) error {
	if v.Len() != e.velocity.Len() {
		return fmt.Errorf("%w: velocity arity %d, want %d", vector.ErrArityMismatch, v.Len(), e.velocity.Len())
	}
	e.velocity = v
	return nil
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s[%s]@%v", e.kind, e.id, e.position)
}
