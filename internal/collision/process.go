package collision

import (
	"context"
	"fmt"
)

// Impact describes a confirmed collision
type Impact struct {
	Delta
}

// ImpactHandler reacts to a confirmed collision
type ImpactHandler interface {
	HandleImpact(ctx context.Context, imp Impact) error
}

// ImpactHandlerFunc adapts a function to ImpactHandler
type ImpactHandlerFunc func(ctx context.Context, imp Impact) error

func (f ImpactHandlerFunc) HandleImpact(ctx context.Context, imp Impact) error { return f(ctx, imp) }

// Processor runs the narrow phase for one pair and fires the handler on a hit
type Processor struct {
	verifier *Verifier
	handler  ImpactHandler
}

func NewProcessor(verifier *Verifier, handler ImpactHandler) *Processor {
	return &Processor{verifier: verifier, handler: handler}
}

// Process returns whether a and b collided. Verification and handler
// errors are returned as-is; nothing is retried.
func (p *Processor) Process(ctx context.Context, a, b Body) (bool, error) {
	_, hit, err := p.Run(ctx, a, b)
	return hit, err
}

// Run is Process that also returns the impact passed to the handler
func (p *Processor) Run(ctx context.Context, a, b Body) (Impact, bool, error) {
	d, hit, err := p.verifier.Check(a, b)
	if err != nil || !hit {
		return Impact{}, false, err
	}
	imp := Impact{Delta: d}
	if err := p.handler.HandleImpact(ctx, imp); err != nil {
		return imp, true, fmt.Errorf("handle %s impact: %w", d.NodeType, err)
	}
	return imp, true, nil
}
