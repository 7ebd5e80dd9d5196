package trie

import (
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"pgregory.net/rapid"
)

func TestContains(t *testing.T) {
	table := Branch{7: Branch{8: Branch{9: Branch{}}}}

	tests := []struct {
		name string
		key  []int
		want bool
	}{
		{"full path", []int{7, 8, 9}, true},
		{"wrong last component", []int{7, 8, 1}, false},
		{"wrong first component", []int{1, 8, 9}, false},
		{"prefix", []int{7, 8}, true},
		{"longer than table", []int{7, 8, 9, 0}, false},
		{"empty key", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Contains(tt.key); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestContainsStopsAtLeaf(t *testing.T) {
	table := Branch{1: Leaf{}, 2: Branch{3: Leaf{}}}

	if !table.Contains([]int{1}) {
		t.Error("leaf at end of path should count as present")
	}
	if table.Contains([]int{1, 0}) {
		t.Error("descending into a leaf should fail")
	}
	if !table.Contains([]int{2, 3}) {
		t.Error("expected [2 3] present")
	}
}

func TestContainsNilChild(t *testing.T) {
	table := Branch{4: nil}
	if !table.Contains([]int{4}) {
		t.Error("a nil terminal value still exists")
	}
	if table.Contains([]int{4, 4}) {
		t.Error("cannot descend into nil")
	}
}

func TestBuildAndPaths(t *testing.T) {
	table := Build([]int{1, 2}, []int{1, 3}, []int{-4, 0})

	if len(table) != 2 {
		t.Errorf("expected 2 roots, got %d", len(table))
	}
	if got := len(table.Paths()); got != 3 {
		t.Errorf("expected 3 paths, got %d", got)
	}
}

func TestInsertReplacesLeaf(t *testing.T) {
	table := Branch{1: Leaf{}}
	table.Insert([]int{1, 2})
	if !table.Contains([]int{1, 2}) {
		t.Error("Insert should turn the leaf into a branch")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	table := Branch{
		7:  Branch{8: Branch{9: Branch{}}},
		-3: Branch{0: Leaf{}},
	}

	data, err := Marshal(table)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	for _, key := range [][]int{{7, 8, 9}, {-3, 0}} {
		if !got.Contains(key) {
			t.Errorf("decoded table lost %v", key)
		}
	}
	if got.Contains([]int{-3, 0, 1}) {
		t.Error("leaf should decode as a leaf")
	}
}

func TestDecodeScalarsAsLeaves(t *testing.T) {
	raw, err := msgpack.Marshal(map[int]any{
		7: map[int]any{8: "hit"},
		5: 42,
	})
	if err != nil {
		t.Fatal(err)
	}
	table, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !table.Contains([]int{7, 8}) {
		t.Error("expected [7 8] present")
	}
	if table.Contains([]int{7, 8, 0}) {
		t.Error("scalar terminal should not be descendable")
	}
	if !table.Contains([]int{5}) || table.Contains([]int{5, 1}) {
		t.Error("scalar at 5 should be a leaf")
	}
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ShipAsteroid.msgpack")
	if err := SaveFile(path, Build([]int{1, 2, 3, 4})); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !table.Contains([]int{1, 2, 3, 4}) {
		t.Error("loaded table missing path")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPropContainsIffInserted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(1, 6).Draw(t, "depth")
		comp := rapid.IntRange(-3, 3)
		paths := rapid.SliceOfN(rapid.SliceOfN(comp, depth, depth), 0, 10).Draw(t, "paths")
		table := Build(paths...)

		probe := rapid.SliceOfN(comp, depth, depth).Draw(t, "probe")
		registered := false
		for _, p := range paths {
			if equal(p, probe) {
				registered = true
				break
			}
		}
		if table.Contains(probe) != registered {
			t.Fatalf("Contains(%v) = %v, registered = %v", probe, !registered, registered)
		}
	})
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
