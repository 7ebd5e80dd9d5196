package spatial

import (
	"errors"
	"fmt"

	"spacebattle/internal/vector"
)

var ErrTileSize = errors.New("spatial: tile size must be positive")

// Tile is a grid coordinate
type Tile struct {
	X, Y int
}

func (t Tile) String() string { return fmt.Sprintf("(%d,%d)", t.X, t.Y) }

// Grid buckets entities into square tiles for broad-phase queries.
// It does not own entities, only indexes them. Not safe for concurrent use.
type Grid struct {
	tileSize int
	tiles    map[Tile]map[*Entity]struct{}
}

// NewGrid creates an empty grid with the given tile edge length
func NewGrid(tileSize int) (*Grid, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrTileSize, tileSize)
	}
	return &Grid{
		tileSize: tileSize,
		tiles:    make(map[Tile]map[*Entity]struct{}),
	}, nil
}

// TileSize returns the tile edge length
func (g *Grid) TileSize() int { return g.tileSize }

// TileOf maps a position to its tile using floor division, so -1 with
// tile size 10 lands in tile -1 rather than 0.
func (g *Grid) TileOf(position vector.Vector) Tile {
	return Tile{
		X: floorDiv(position.At(0), g.tileSize),
		Y: floorDiv(position.At(1), g.tileSize),
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Insert adds e to the tile of its current position.
// Returns false if e was already there; the set absorbs the duplicate.
func (g *Grid) Insert(e *Entity) bool {
	tile := g.TileOf(e.position)
	set, ok := g.tiles[tile]
	if !ok {
		set = make(map[*Entity]struct{})
		g.tiles[tile] = set
	}
	if _, dup := set[e]; dup {
		return false
	}
	set[e] = struct{}{}
	return true
}

// Remove takes e out of the tile of its current position, pruning the tile
// when it empties. Removing an absent entity is a no-op and returns false.
func (g *Grid) Remove(e *Entity) bool {
	return g.removeFrom(g.TileOf(e.position), e)
}

func (g *Grid) removeFrom(tile Tile, e *Entity) bool {
	set, ok := g.tiles[tile]
	if !ok {
		return false
	}
	if _, ok := set[e]; !ok {
		return false
	}
	delete(set, e)
	if len(set) == 0 {
		delete(g.tiles, tile)
	}
	return true
}

// Relocate moves e to newPosition, updating its tile membership when the
// tile changes. Both tiles are computed before anything is mutated.
// An entity that was not indexed ends up indexed at newPosition when its
// tile changes.
func (g *Grid) Relocate(e *Entity, newPosition vector.Vector) {
	current := g.TileOf(e.position)
	target := g.TileOf(newPosition)

	if current == target {
		e.position = newPosition
		return
	}

	g.removeFrom(current, e)
	e.position = newPosition
	g.Insert(e)
}

// NeighborsOf returns every entity in the 3x3 block of tiles centered on
// e's tile, excluding e. Order is unspecified.
func (g *Grid) NeighborsOf(e *Entity) []*Entity {
	center := g.TileOf(e.position)
	var result []*Entity
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			set, ok := g.tiles[Tile{X: center.X + dx, Y: center.Y + dy}]
			if !ok {
				continue
			}
			for other := range set {
				if other != e {
					result = append(result, other)
				}
			}
		}
	}
	return result
}

// EntitiesInTile returns the occupants of tile, or an empty slice
func (g *Grid) EntitiesInTile(tile Tile) []*Entity {
	set := g.tiles[tile]
	result := make([]*Entity, 0, len(set))
	for e := range set {
		result = append(result, e)
	}
	return result
}

// ActiveTiles returns all tiles holding at least one entity
func (g *Grid) ActiveTiles() []Tile {
	result := make([]Tile, 0, len(g.tiles))
	for t := range g.tiles {
		result = append(result, t)
	}
	return result
}

// Contains reports whether e is indexed under the tile of its position
func (g *Grid) Contains(e *Entity) bool {
	_, ok := g.tiles[g.TileOf(e.position)][e]
	return ok
}

// Len returns the number of indexed entities
func (g *Grid) Len() int {
	n := 0
	for _, set := range g.tiles {
		n += len(set)
	}
	return n
}
