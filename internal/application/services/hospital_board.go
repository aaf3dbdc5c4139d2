package services

import (
	"context"
	"sync"

	"github.com/zatekoja/careassist/backend/internal/domain/entities"
	"github.com/zatekoja/careassist/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/careassist/backend/pkg/errors"
)

// HospitalBoard owns the ranked candidates of one map view and drives each
// candidate's route state independently. All updates replace a candidate by
// id, so concurrent resolutions finishing out of order cannot touch siblings.
type HospitalBoard struct {
	origin   entities.Coordinate
	resolver *RouteResolver

	mu       sync.Mutex
	order    []string
	byID     map[string]entities.HospitalCandidate
	onChange func(entities.HospitalCandidate)

	inflight sync.WaitGroup
}

// NewHospitalBoard creates a board for candidates, which must already be ranked.
func NewHospitalBoard(origin entities.Coordinate, candidates []entities.HospitalCandidate, resolver *RouteResolver) *HospitalBoard {
	b := &HospitalBoard{
		origin:   origin,
		resolver: resolver,
		order:    make([]string, 0, len(candidates)),
		byID:     make(map[string]entities.HospitalCandidate, len(candidates)),
	}
	for _, c := range candidates {
		if _, dup := b.byID[c.ID]; dup {
			continue
		}
		b.order = append(b.order, c.ID)
		b.byID[c.ID] = c
	}
	return b
}

// OnChange registers a callback invoked after every route state transition.
// It runs outside the board lock.
func (b *HospitalBoard) OnChange(fn func(entities.HospitalCandidate)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Origin returns the anchor coordinate routes are resolved from
func (b *HospitalBoard) Origin() entities.Coordinate {
	return b.origin
}

// Candidates returns a snapshot in ranked order
func (b *HospitalBoard) Candidates() []entities.HospitalCandidate {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entities.HospitalCandidate, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.byID[id])
	}
	return out
}

// Candidate returns one candidate by id
func (b *HospitalBoard) Candidate(id string) (entities.HospitalCandidate, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.byID[id]
	return c, ok
}

// RequestDirections starts route resolution for the candidate with id.
// It returns false without any network call when the candidate is already
// Resolving or Resolved.
func (b *HospitalBoard) RequestDirections(ctx context.Context, id string) (bool, error) {
	b.mu.Lock()
	c, ok := b.byID[id]
	if !ok {
		b.mu.Unlock()
		return false, apperrors.NewNotFoundError("hospital " + id + " not found")
	}
	if c.Route.Status == entities.RouteResolving || c.Route.Status == entities.RouteResolved {
		b.mu.Unlock()
		return false, nil
	}
	updated := b.replaceLocked(id, entities.Resolving())
	notify := b.onChange
	b.inflight.Add(1)
	b.mu.Unlock()

	if notify != nil {
		notify(updated)
	}

	go b.resolve(ctx, id, c.Coords)
	return true, nil
}

// Wait blocks until every in-flight resolution has finished
func (b *HospitalBoard) Wait() {
	b.inflight.Wait()
}

// DirectionsURL returns a turn-by-turn directions link for the candidate.
func (b *HospitalBoard) DirectionsURL(id string) (string, bool) {
	c, ok := b.Candidate(id)
	if !ok {
		return "", false
	}
	return entities.DirectionsURL(b.origin, c.Coords), true
}

func (b *HospitalBoard) resolve(ctx context.Context, id string, destination entities.Coordinate) {
	defer b.inflight.Done()

	state := entities.Failed()
	summary, err := b.resolver.ResolveRoute(ctx, b.origin, destination)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("hospital", id).Msg("Directions API error")
	} else {
		state = entities.Resolved(*summary)
	}

	b.mu.Lock()
	updated := b.replaceLocked(id, state)
	notify := b.onChange
	b.mu.Unlock()

	if notify != nil {
		notify(updated)
	}
}

// replaceLocked swaps in a copy of the candidate carrying the new route state.
func (b *HospitalBoard) replaceLocked(id string, state entities.RouteState) entities.HospitalCandidate {
	c := b.byID[id]
	c.Route = state
	b.byID[id] = c
	return c
}
