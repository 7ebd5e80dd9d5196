package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"spacebattle/internal/collision"
	"spacebattle/internal/spatial"
	"spacebattle/internal/store"
)

type ticker interface {
	Tick() uint64
}

// impactSink fans every confirmed collision out to the recorder and the
// evidence directory. Either may be absent.
type impactSink struct {
	rec         *store.Recorder
	evidenceDir string
	log         *slog.Logger
	clock       ticker

	mu       sync.Mutex
	evidence map[string][][]int // file name -> rows written so far
}

func newImpactSink(rec *store.Recorder, evidenceDir string, logger *slog.Logger) *impactSink {
	return &impactSink{
		rec:         rec,
		evidenceDir: evidenceDir,
		log:         logger,
		evidence:    make(map[string][][]int),
	}
}

func (s *impactSink) HandleImpact(ctx context.Context, imp collision.Impact) error {
	first, ok := imp.Primary.(*spatial.Entity)
	if !ok {
		return fmt.Errorf("impact: unexpected body %T", imp.Primary)
	}
	second, ok := imp.Secondary.(*spatial.Entity)
	if !ok {
		return fmt.Errorf("impact: unexpected body %T", imp.Secondary)
	}

	var tick uint64
	if s.clock != nil {
		tick = s.clock.Tick()
	}
	s.log.DebugContext(ctx, "collision",
		"tick", tick,
		"node_type", imp.NodeType,
		"first", first.ID(),
		"second", second.ID(),
		"delta", imp.Vector,
	)

	if s.rec != nil {
		row := store.CollisionRow{
			Tick:     tick,
			FirstID:  first.ID().String(),
			SecondID: second.ID().String(),
			NodeType: imp.NodeType,
			Delta:    imp.Vector.Coords(),
		}
		if !s.rec.Track(row) {
			s.log.WarnContext(ctx, "collision dropped, recorder queue full", "tick", tick)
		}
	}

	if s.evidenceDir == "" {
		return nil
	}
	name := store.EvidenceFileName(first.ID().String(), second.ID().String())
	row := collision.BuildEvidence(first, second, first.Shape(), second.Shape())

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := append(s.evidence[name], row)
	if err := store.WriteEvidence(s.evidenceDir, name, rows); err != nil {
		return err
	}
	s.evidence[name] = rows
	return nil
}
