package spatial

import (
	"errors"
	"testing"

	"spacebattle/internal/vector"
)

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(10)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func newTestEntity(t testing.TB, x, y int) *Entity {
	t.Helper()
	e, err := NewEntity("ship", vector.MustNew(x, y), vector.MustNew(0, 0))
	if err != nil {
		t.Fatalf("NewEntity: %v", err)
	}
	return e
}

func contains(list []*Entity, e *Entity) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}

func TestNewGridRejectsBadTileSize(t *testing.T) {
	for _, size := range []int{0, -10} {
		if _, err := NewGrid(size); err == nil {
			t.Errorf("expected error for tile size %d", size)
		}
	}
}

func TestTileOfFloorsNegatives(t *testing.T) {
	g := newTestGrid(t)
	tests := []struct {
		x, y int
		want Tile
	}{
		{0, 0, Tile{0, 0}},
		{9, 9, Tile{0, 0}},
		{10, 10, Tile{1, 1}},
		{20, 30, Tile{2, 3}},
		{-1, -1, Tile{-1, -1}},
		{-10, -10, Tile{-1, -1}},
		{-11, 5, Tile{-2, 0}},
	}
	for _, tt := range tests {
		if got := g.TileOf(vector.MustNew(tt.x, tt.y)); got != tt.want {
			t.Errorf("TileOf(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestGridInsertSingle(t *testing.T) {
	g := newTestGrid(t)
	e := newTestEntity(t, 20, 30)

	if !g.Insert(e) {
		t.Fatal("first insert should report true")
	}
	tiles := g.ActiveTiles()
	if len(tiles) != 1 || tiles[0] != (Tile{2, 3}) {
		t.Errorf("ActiveTiles = %v, want [(2,3)]", tiles)
	}
	if !contains(g.EntitiesInTile(Tile{2, 3}), e) {
		t.Error("expected entity in tile (2,3)")
	}
}

func TestGridDoubleInsertIsAbsorbed(t *testing.T) {
	g := newTestGrid(t)
	e := newTestEntity(t, 20, 30)

	g.Insert(e)
	if g.Insert(e) {
		t.Error("second insert should report false")
	}
	if n := len(g.EntitiesInTile(Tile{2, 3})); n != 1 {
		t.Errorf("expected 1 occupant after double insert, got %d", n)
	}
}

func TestGridRemovePrunesTile(t *testing.T) {
	g := newTestGrid(t)
	e := newTestEntity(t, 20, 30)
	g.Insert(e)

	if !g.Remove(e) {
		t.Fatal("remove should report true")
	}
	if len(g.ActiveTiles()) != 0 {
		t.Errorf("expected no active tiles, got %v", g.ActiveTiles())
	}
	if contains(g.EntitiesInTile(Tile{2, 3}), e) {
		t.Error("entity still in tile after remove")
	}
}

func TestGridRemoveAbsentIsNoop(t *testing.T) {
	g := newTestGrid(t)
	kept := newTestEntity(t, 20, 30)
	g.Insert(kept)

	stranger := newTestEntity(t, 21, 31)
	if g.Remove(stranger) {
		t.Error("removing an absent entity should report false")
	}
	if g.Len() != 1 || !g.Contains(kept) {
		t.Error("grid changed after removing an absent entity")
	}
}

func TestGridNeighborsSameTile(t *testing.T) {
	g := newTestGrid(t)
	a := newTestEntity(t, 20, 30)
	b := newTestEntity(t, 21, 31)
	g.Insert(a)
	g.Insert(b)

	n := g.NeighborsOf(a)
	if len(n) != 1 || n[0] != b {
		t.Errorf("NeighborsOf(a) = %v, want [b]", n)
	}
}

func TestGridNeighborsAdjacentTiles(t *testing.T) {
	g := newTestGrid(t)
	a := newTestEntity(t, 20, 30)
	b := newTestEntity(t, 30, 30)
	g.Insert(a)
	g.Insert(b)

	if !contains(g.NeighborsOf(a), b) {
		t.Error("b should be a neighbor of a")
	}
	if !contains(g.NeighborsOf(b), a) {
		t.Error("a should be a neighbor of b")
	}
}

func TestGridNeighborsExcludeFarTiles(t *testing.T) {
	g := newTestGrid(t)
	a := newTestEntity(t, 20, 30)
	far := newTestEntity(t, 40, 30) // tile (4,3), two tiles away
	diag := newTestEntity(t, 10, 20) // tile (1,2), diagonal neighbor
	g.Insert(a)
	g.Insert(far)
	g.Insert(diag)

	n := g.NeighborsOf(a)
	if contains(n, far) {
		t.Error("entity two tiles away should not be a neighbor")
	}
	if !contains(n, diag) {
		t.Error("diagonal tile should be in the 3x3 block")
	}
	if contains(n, a) {
		t.Error("NeighborsOf must exclude the query entity")
	}
}

func TestGridRelocateSameTile(t *testing.T) {
	g := newTestGrid(t)
	e := newTestEntity(t, 20, 30)
	g.Insert(e)

	g.Relocate(e, vector.MustNew(21, 31))

	if !e.Position().Equal(vector.MustNew(21, 31)) {
		t.Errorf("position = %v, want (21, 31)", e.Position())
	}
	if g.Len() != 1 || len(g.ActiveTiles()) != 1 {
		t.Errorf("membership changed: len=%d tiles=%v", g.Len(), g.ActiveTiles())
	}
	if !contains(g.EntitiesInTile(Tile{2, 3}), e) {
		t.Error("entity should stay in tile (2,3)")
	}
}

func TestGridRelocateAcrossTiles(t *testing.T) {
	g := newTestGrid(t)
	e := newTestEntity(t, 20, 30)
	g.Insert(e)

	g.Relocate(e, vector.MustNew(40, 50))

	if contains(g.EntitiesInTile(Tile{2, 3}), e) {
		t.Error("entity should have left tile (2,3)")
	}
	if !contains(g.EntitiesInTile(Tile{4, 5}), e) {
		t.Error("entity should be in tile (4,5)")
	}
	for _, tile := range g.ActiveTiles() {
		if tile == (Tile{2, 3}) {
			t.Error("tile (2,3) should have been pruned")
		}
	}
}

func TestGridRelocateKeepsOtherOccupants(t *testing.T) {
	g := newTestGrid(t)
	mover := newTestEntity(t, 20, 30)
	stay := newTestEntity(t, 25, 35)
	g.Insert(mover)
	g.Insert(stay)

	g.Relocate(mover, vector.MustNew(-5, -5))

	if !contains(g.EntitiesInTile(Tile{2, 3}), stay) {
		t.Error("other occupant lost from tile (2,3)")
	}
	if !contains(g.EntitiesInTile(Tile{-1, -1}), mover) {
		t.Error("mover should be in tile (-1,-1)")
	}
	if len(g.ActiveTiles()) != 2 {
		t.Errorf("expected 2 active tiles, got %v", g.ActiveTiles())
	}
}

func TestGridEntitiesInEmptyTile(t *testing.T) {
	g := newTestGrid(t)
	got := g.EntitiesInTile(Tile{100, 100})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestNewEntityValidates(t *testing.T) {
	if _, err := NewEntity("ship", vector.MustNew(1), vector.MustNew(0)); !errors.Is(err, ErrBadEntity) {
		t.Errorf("one-component position: err = %v, want ErrBadEntity", err)
	}
	if _, err := NewEntity("ship", vector.MustNew(1, 2), vector.MustNew(0, 0, 0)); !errors.Is(err, ErrBadEntity) {
		t.Errorf("arity mismatch: err = %v, want ErrBadEntity", err)
	}
}

func TestEntitySetVelocity(t *testing.T) {
	e := newTestEntity(t, 0, 0)
	if err := e.SetVelocity(vector.MustNew(3, -4)); err != nil {
		t.Fatalf("SetVelocity: %v", err)
	}
	if !e.Velocity().Equal(vector.MustNew(3, -4)) {
		t.Errorf("Velocity = %v", e.Velocity())
	}
	if err := e.SetVelocity(vector.MustNew(1)); !errors.Is(err, vector.ErrArityMismatch) {
		t.Errorf("err = %v, want ErrArityMismatch", err)
	}
}
