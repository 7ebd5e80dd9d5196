package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding the collision log
type DB struct {
	conn *sql.DB
}

// CollisionRow is one confirmed collision
type CollisionRow struct {
	ID        int64
	Tick      uint64
	FirstID   string // primary entity
	SecondID  string // secondary entity
	NodeType  string
	Delta     []int
	CreatedAt time.Time
}

// Open opens (or creates) the SQLite database
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" databases on a single connection
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL DEFAULT 0,
		first_id TEXT NOT NULL,
		second_id TEXT NOT NULL,
		node_type TEXT NOT NULL,
		delta BLOB NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_collisions_pair ON collisions(first_id, second_id);
	CREATE INDEX IF NOT EXISTS idx_collisions_node_type ON collisions(node_type);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		slog.Error("store: migration failed", "err", err)
		return err
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertCollision(ctx context.Context, ex execer, row CollisionRow) (int64, error) {
	delta, err := msgpack.Marshal(row.Delta)
	if err != nil {
		return 0, fmt.Errorf("encode delta: %w", err)
	}
	created := row.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := ex.ExecContext(ctx,
		`INSERT INTO collisions (tick, first_id, second_id, node_type, delta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		int64(row.Tick), row.FirstID, row.SecondID, row.NodeType, delta, created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordCollision stores one collision and returns its row ID
func (db *DB) RecordCollision(ctx context.Context, row CollisionRow) (int64, error) {
	return insertCollision(ctx, db.conn, row)
}

// CollisionsBetween returns the collisions of a pair in either order, oldest first
func (db *DB) CollisionsBetween(ctx context.Context, a, b string) ([]CollisionRow, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, tick, first_id, second_id, node_type, delta, created_at
		FROM collisions
		WHERE (first_id = ? AND second_id = ?) OR (first_id = ? AND second_id = ?)
		ORDER BY id`,
		a, b, b, a,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CollisionRow
	for rows.Next() {
		var (
			r       CollisionRow
			tick    int64
			delta   []byte
			created string
		)
		if err := rows.Scan(&r.ID, &tick, &r.FirstID, &r.SecondID, &r.NodeType, &delta, &created); err != nil {
			return nil, err
		}
		if err := msgpack.Unmarshal(delta, &r.Delta); err != nil {
			return nil, fmt.Errorf("decode delta of collision %d: %w", r.ID, err)
		}
		r.Tick = uint64(tick)
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// CountByNodeType returns how many collisions each node type has logged
func (db *DB) CountByNodeType(ctx context.Context) (map[string]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT node_type, COUNT(*) FROM collisions GROUP BY node_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var nodeType string
		var count int
		if err := rows.Scan(&nodeType, &count); err != nil {
			return nil, err
		}
		result[nodeType] = count
	}
	return result, rows.Err()
}
