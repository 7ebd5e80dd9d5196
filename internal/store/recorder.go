package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultFlushInterval = 5 * time.Second
	DefaultBatchSize     = 50
)

// Recorder persists collisions from a background goroutine in batches so
// the simulation step never waits on disk.
type Recorder struct {
	db         *DB
	events     chan CollisionRow
	stop       chan struct{}
	wg         sync.WaitGroup
	flushEvery time.Duration
	batchSize  int

	dropped atomic.Int64
	written atomic.Int64
}

// NewRecorder creates and starts the background writer.
// Non-positive arguments fall back to the defaults.
func NewRecorder(db *DB, flushEvery time.Duration, batchSize int) *Recorder {
	if flushEvery <= 0 {
		flushEvery = DefaultFlushInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	r := &Recorder{
		db:         db,
		events:     make(chan CollisionRow, 1024),
		stop:       make(chan struct{}),
		flushEvery: flushEvery,
		batchSize:  batchSize,
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Track enqueues a collision. It never blocks; when the queue is full the
// row is dropped and false is returned.
func (r *Recorder) Track(row CollisionRow) bool {
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	select {
	case r.events <- row:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

// Dropped returns how many rows were discarded because the queue was full
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// Written returns how many rows reached the database
func (r *Recorder) Written() int64 { return r.written.Load() }

// Stop flushes everything queued and waits for the writer to exit.
// Track must not be called after Stop.
func (r *Recorder) Stop() {
	close(r.stop)
	r.wg.Wait()
}

func (r *Recorder) writer() {
	defer r.wg.Done()

	batch := make([]CollisionRow, 0, r.batchSize)
	ticker := time.NewTicker(r.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case row := <-r.events:
			batch = append(batch, row)
			if len(batch) >= r.batchSize {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-r.stop:
			close(r.events)
			for row := range r.events {
				batch = append(batch, row)
			}
			if len(batch) > 0 {
				r.flush(batch)
			}
			return
		}
	}
}

func (r *Recorder) flush(rows []CollisionRow) {
	if r.db == nil || len(rows) == 0 {
		return
	}
	ctx := context.Background()
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("recorder: begin tx", "err", err)
		return
	}
	defer tx.Rollback()

	n := 0
	for _, row := range rows {
		if _, err := insertCollision(ctx, tx, row); err != nil {
			slog.Error("recorder: insert", "err", err, "node_type", row.NodeType)
			continue
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		slog.Error("recorder: commit", "err", err)
		return
	}
	r.written.Add(int64(n))
	slog.Debug("recorder: flushed", "rows", n)
}
