package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacebattle/internal/collision"
	"spacebattle/internal/config"
	"spacebattle/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadScenario(t *testing.T) (*config.Config, string) {
	t.Helper()
	cfg, err := config.Load(filepath.Join("testdata", "battle.toml"))
	require.NoError(t, err)
	dir := t.TempDir()
	cfg.Store.Path = filepath.Join(dir, "collisions.db")
	cfg.Store.EvidenceDir = filepath.Join(dir, "evidence")
	return cfg, dir
}

func TestRunScenario(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			cfg, _ := loadScenario(t)

			sum, err := run(context.Background(), cfg, workers, quietLogger())
			require.NoError(t, err)

			assert.Equal(t, uint64(20), sum.Ticks)
			assert.Equal(t, 3, sum.Collisions)
			assert.Equal(t, int64(3), sum.Recorded)
			assert.Zero(t, sum.Dropped)
			assert.Equal(t, map[string]int{"AsteroidShip": 2, "ShipShip": 1}, sum.ByNodeType)

			files, err := os.ReadDir(cfg.Store.EvidenceDir)
			require.NoError(t, err)
			require.Len(t, files, 2)

			var lines []string
			for _, f := range files {
				data, err := os.ReadFile(filepath.Join(cfg.Store.EvidenceDir, f.Name()))
				require.NoError(t, err)
				lines = append(lines, strings.Split(strings.TrimSpace(string(data)), "\n")...)
			}
			want := fmt.Sprintf("40,10,38,10,0,0,1,0,%d,%d",
				collision.ShapeID("circle"), collision.ShapeID("triangle"))
			assert.Contains(t, lines, want, "asteroid row two tiles ahead of the ship")
			assert.Len(t, lines, 3)
		})
	}
}

func TestRunPersistsRows(t *testing.T) {
	cfg, _ := loadScenario(t)
	_, err := run(context.Background(), cfg, 1, quietLogger())
	require.NoError(t, err)

	db, err := store.Open(cfg.Store.Path)
	require.NoError(t, err)
	defer db.Close()

	counts, err := db.CountByNodeType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts["AsteroidShip"])
}

func TestRunWithoutSinks(t *testing.T) {
	cfg, _ := loadScenario(t)
	cfg.Store.Path = ""
	cfg.Store.EvidenceDir = ""

	sum, err := run(context.Background(), cfg, 0, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Collisions)
	assert.Nil(t, sum.ByNodeType)
}

func TestRunInterrupted(t *testing.T) {
	cfg, _ := loadScenario(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := run(ctx, cfg, 1, quietLogger())
	require.NoError(t, err)
	assert.Zero(t, sum.Ticks)
	assert.Zero(t, sum.Collisions)
}

func TestRunStrictPrioritiesFails(t *testing.T) {
	cfg, err := config.Parse(`
strict_priorities = true
ticks = 1

[[table]]
node_type = "MineShip"

[[entity]]
kind = "Ship"
position = [0, 0]
velocity = [0, 0]

[[entity]]
kind = "Mine"
position = [1, 1]
velocity = [0, 0]
`)
	require.NoError(t, err)

	_, err = run(context.Background(), cfg, 1, quietLogger())
	assert.ErrorIs(t, err, collision.ErrUnknownTypePair)
}
