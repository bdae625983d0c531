package assignment

import (
	"dispatch/internal/core/domain/model/kernel"
)

// Snapshot is an immutable view of the full rule set plus the default
// endpoint, taken in one consistent read. Resolution works exclusively
// against snapshots, which makes it a pure function of (order, snapshot)
// and shields it from concurrent configuration edits.
type Snapshot struct {
	byKey           map[snapshotKey][]kernel.UUID
	defaultEndpoint *kernel.UUID
}

type snapshotKey struct {
	scope    Scope
	targetID string
}

// NewSnapshot builds a snapshot from the given rules and optional default
// endpoint. Duplicate (scope, target, endpoint) entries collapse to one;
// fan-out order follows first appearance in the input so resolution stays
// deterministic for a given store state.
func NewSnapshot(rules []*Rule, defaultEndpoint *kernel.UUID) (*Snapshot, error) {
	s := &Snapshot{
		byKey: make(map[snapshotKey][]kernel.UUID, len(rules)),
	}

	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}

		if _, dup := seen[r.Key()]; dup {
			continue
		}
		seen[r.Key()] = struct{}{}

		key := snapshotKey{scope: r.Scope(), targetID: r.TargetID()}
		s.byKey[key] = append(s.byKey[key], r.EndpointID())
	}

	if defaultEndpoint != nil {
		if err := defaultEndpoint.Validate(); err != nil {
			return nil, err
		}
		id := *defaultEndpoint
		s.defaultEndpoint = &id
	}

	return s, nil
}

// EmptySnapshot returns a snapshot with no rules and no default endpoint.
func EmptySnapshot() *Snapshot {
	s, _ := NewSnapshot(nil, nil)
	return s
}

// EndpointsFor returns the endpoints assigned to the given routing key, in
// deterministic fan-out order, or an empty slice when no rule matches.
func (s *Snapshot) EndpointsFor(scope Scope, targetID string) []kernel.UUID {
	ids := s.byKey[snapshotKey{scope: scope, targetID: targetID}]
	out := make([]kernel.UUID, len(ids))
	copy(out, ids)
	return out
}

// Default returns the fallback endpoint, or nil when none is configured.
func (s *Snapshot) Default() *kernel.UUID {
	if s.defaultEndpoint == nil {
		return nil
	}
	id := *s.defaultEndpoint
	return &id
}

// RuleCount returns the number of distinct assignments in the snapshot.
func (s *Snapshot) RuleCount() int {
	n := 0
	for _, ids := range s.byKey {
		n += len(ids)
	}
	return n
}
