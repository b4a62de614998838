package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sudslabs/suds/internal/corpus"
	"github.com/sudslabs/suds/internal/vocab"
)

// RankMethods scores the corpus methods for a surface × dirt
// combination without planning a workflow.
func (e *Engine) RankMethods(ctx context.Context, surface, dirt string) ([]MethodCandidate, error) {
	s, ok := vocab.NormalizeSurface(surface)
	if !ok {
		return nil, validationError(
			fmt.Sprintf("Unknown surface_type %q", surface),
			&ErrorDetail{Field: "surface_type", Issue: "unknown value", Value: surface},
		)
	}
	d, ok := vocab.NormalizeDirt(dirt)
	if !ok {
		return nil, validationError(
			fmt.Sprintf("Unknown dirt_type %q", dirt),
			&ErrorDetail{Field: "dirt_type", Issue: "unknown value", Value: dirt},
		)
	}

	summaries, err := e.methodSummaries(ctx, s, d)
	if err != nil {
		return nil, unavailableError(err)
	}
	sc := &scenario{Surface: s, Dirt: d}
	return candidatesFromScored(scoreMethods(summaries, sc, false)), nil
}

// Similar lists scenarios near the given combination, best first.
func (e *Engine) Similar(ctx context.Context, surface, dirt string, limit int) ([]corpus.SimilarScenario, error) {
	s, ok := vocab.NormalizeSurface(surface)
	if !ok {
		return nil, validationError(
			fmt.Sprintf("Unknown surface_type %q", surface),
			&ErrorDetail{Field: "surface_type", Issue: "unknown value", Value: surface},
		)
	}
	d, ok := vocab.NormalizeDirt(dirt)
	if !ok {
		return nil, validationError(
			fmt.Sprintf("Unknown dirt_type %q", dirt),
			&ErrorDetail{Field: "dirt_type", Issue: "unknown value", Value: dirt},
		)
	}

	out, err := e.similarScenarios(ctx, s, d, limit)
	if err != nil {
		return nil, unavailableError(err)
	}
	return out, nil
}

// CorpusStats reports corpus totals. Also serves as the health probe.
func (e *Engine) CorpusStats(ctx context.Context) (*corpus.Stats, error) {
	cctx, cancel := context.WithTimeout(ctx, e.opts.CorpusTimeout)
	defer cancel()
	stats, err := e.store.Stats(cctx)
	if err != nil {
		return nil, unavailableError(err)
	}
	return stats, nil
}

// Document returns one corpus document with its steps and tools.
func (e *Engine) Document(ctx context.Context, id string) (*corpus.Document, error) {
	doc, err := e.documentContext(ctx, id)
	if err != nil {
		if errors.Is(err, corpus.ErrNotFound) {
			return nil, noMatchError(fmt.Sprintf("Document not found: %s", id), nil)
		}
		return nil, unavailableError(err)
	}
	return doc, nil
}

// Uptime reports how long this engine's collector has been running.
func (e *Engine) Uptime() time.Duration {
	return time.Duration(e.metrics.Snapshot().UptimeSeconds * float64(time.Second))
}
