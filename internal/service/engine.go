// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-pref-sync/internal/adapter"
	"github.com/MKhiriev/go-pref-sync/internal/logger"
	"github.com/MKhiriev/go-pref-sync/internal/store"
	"github.com/MKhiriev/go-pref-sync/models"
)

// kindState is the per-kind slice of engine state. Entries are created once
// in the constructor and mutated in place, so the pointers handed to
// asynchronous steps stay valid across session transitions; the generation
// counter decides whether those steps are still allowed to act.
type kindState struct {
	// gen is bumped on every session transition and on every manual resync.
	// Every asynchronous step captures the generation it started under and
	// becomes a no-op once the values differ.
	gen uint64

	state   models.SyncState
	source  models.AdoptionSource
	record  models.Record
	adopted bool
	err     error

	// queue holds updates issued while no record was adopted yet
	// (loading, arbitration, error). Replayed in order after adoption.
	queue []models.PartialRecord

	// sub is the single live watch subscription for this kind, if any.
	sub adapter.Subscription
}

type reconciliationEngine struct {
	local   store.RecordStore
	remote  adapter.RemoteStore
	arbiter ConflictArbiter
	logger  *logger.Logger

	mu      sync.Mutex
	session models.Session
	states  map[models.Kind]*kindState
	closed  bool
}

// NewReconciliationEngine constructs the engine for both document kinds.
// A nil arbiter installs [PreferRemoteArbiter] so reconciliation can never
// hang waiting for a UI that was not wired up.
func NewReconciliationEngine(local store.RecordStore, remote adapter.RemoteStore, arbiter ConflictArbiter, log *logger.Logger) ReconciliationEngine {
	if arbiter == nil {
		arbiter = NewPreferRemoteArbiter()
	}

	return &reconciliationEngine{
		local:   local,
		remote:  remote,
		arbiter: arbiter,
		logger:  log,
		session: models.Session{Anonymous: true},
		states: map[models.Kind]*kindState{
			models.KindPreferences: {state: models.StateUninitialized},
			models.KindCredentials: {state: models.StateUninitialized},
		},
	}
}

// Run implements [ReconciliationEngine].
func (e *reconciliationEngine) Run(ctx context.Context, sessions <-chan models.Session) {
	for {
		select {
		case <-ctx.Done():
			e.Close()
			return
		case session, ok := <-sessions:
			if !ok {
				return
			}
			e.HandleAuthChange(session)
		}
	}
}

// HandleAuthChange implements [ReconciliationEngine].
func (e *reconciliationEngine) HandleAuthChange(session models.Session) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	e.logger.Info().
		Str("identity", session.Identity).
		Bool("anonymous", session.Anonymous).
		Msg("session transition")

	e.session = session
	e.remote.SetToken(session.Token)

	for kind, st := range e.states {
		st.gen++
		st.err = nil
		if st.sub != nil {
			st.sub.Close()
			st.sub = nil
		}

		if !session.Named() {
			e.adoptLocalLocked(kind, st)
			continue
		}

		st.state = models.StateLoading
		go e.reconcile(kind, st.gen)
	}
}

// adoptLocalLocked switches one kind to the local-authoritative regime.
// Updates queued during a now-abandoned reconciliation are flushed into the
// local store first so typed input survives the sign-out.
func (e *reconciliationEngine) adoptLocalLocked(kind models.Kind, st *kindState) {
	for _, partial := range st.queue {
		if err := e.local.Write(kind, partial); err != nil {
			e.logger.Err(err).Str("kind", string(kind)).Msg("failed to flush queued update to local store")
		}
	}
	st.queue = nil

	record, ok := e.local.Read(kind)
	if !ok {
		record = models.Record{}
	}
	st.record = record
	st.adopted = true
	st.source = models.AdoptedLocal
	st.state = models.StateAdopted
}

// reconcile runs the four-way decision for one kind under the captured
// generation. It is the only writer of the named-regime adoption path.
//
// The local read and the remote fetch form a join: both results are needed
// before the decision table is evaluated.
func (e *reconciliationEngine) reconcile(kind models.Kind, gen uint64) {
	ctx := context.Background()
	log := e.logger.GetChildLogger()

	local, hasLocal := e.local.Read(kind)
	remote, hasRemote, err := e.remote.Get(ctx, kind)

	e.mu.Lock()
	st := e.states[kind]
	if st.gen != gen {
		e.mu.Unlock()
		return
	}
	if err != nil {
		e.failLocked(kind, st, err)
		e.mu.Unlock()
		return
	}

	var adopted models.Record
	var source models.AdoptionSource

	switch {
	case !hasLocal && !hasRemote:
		adopted, source = models.Record{}, models.AdoptedDefault

	case !hasLocal && hasRemote:
		adopted, source = remote, models.AdoptedRemote

	case hasLocal && !hasRemote:
		// initial migration: the device-local record becomes the document
		e.mu.Unlock()
		merged, mergeErr := e.remote.SetMerge(ctx, kind, models.PartialRecord(local))
		e.mu.Lock()
		if st.gen != gen {
			e.mu.Unlock()
			return
		}
		if mergeErr != nil {
			e.failLocked(kind, st, mergeErr)
			e.mu.Unlock()
			return
		}
		adopted, source = merged, models.AdoptedLocalMigrated

	case local.Equal(remote):
		adopted, source = remote, models.AdoptedEqual

	default:
		st.state = models.StateReconciling
		conflict := models.NewConflictCase(kind, local, remote)
		e.mu.Unlock()

		resolution, resolveErr := e.arbiter.Resolve(ctx, conflict)
		if resolveErr != nil || (resolution == models.ResolutionMerge && !conflict.OffersMerge()) {
			log.Warn().Err(resolveErr).
				Str("kind", string(kind)).
				Str("resolution", string(resolution)).
				Msg("arbiter unusable, preferring remote")
			resolution = models.ResolutionUseRemote
		}
		_ = conflict.SetResolution(resolution)

		e.mu.Lock()
		if st.gen != gen {
			// a session transition cancelled this arbitration; the late
			// resolution is discarded
			e.mu.Unlock()
			return
		}

		switch resolution {
		case models.ResolutionUseLocal:
			e.mu.Unlock()
			merged, mergeErr := e.remote.SetMerge(ctx, kind, models.PartialRecord(local))
			e.mu.Lock()
			if st.gen != gen {
				e.mu.Unlock()
				return
			}
			if mergeErr != nil {
				e.failLocked(kind, st, mergeErr)
				e.mu.Unlock()
				return
			}
			adopted = merged

		case models.ResolutionMerge:
			union := models.MergeCredentialRecords(local, remote)
			e.mu.Unlock()
			merged, mergeErr := e.remote.SetMerge(ctx, kind, models.PartialRecord(union))
			e.mu.Lock()
			if st.gen != gen {
				e.mu.Unlock()
				return
			}
			if mergeErr != nil {
				e.failLocked(kind, st, mergeErr)
				e.mu.Unlock()
				return
			}
			adopted = merged

		default:
			adopted = remote
		}
		source = models.AdoptedArbiter
	}

	// the remote tier is authoritative from here on; the local copy is
	// either migrated or superseded
	if hasLocal {
		if clearErr := e.local.Clear(kind); clearErr != nil {
			log.Err(clearErr).Str("kind", string(kind)).Msg("failed to clear local store after adoption")
		}
	}

	st.record = adopted.Clone()
	st.adopted = true
	st.source = source
	st.state = models.StateAdopted

	queue := st.queue
	st.queue = nil
	e.mu.Unlock()

	log.Info().
		Str("kind", string(kind)).
		Str("source", string(source)).
		Int("queued_updates", len(queue)).
		Msg("record adopted")

	if len(queue) > 0 && !e.replayQueue(ctx, kind, gen, queue) {
		return
	}

	e.establishSubscription(kind, gen)
}

// replayQueue applies updates issued mid-reconciliation as one combined
// partial. Returns false when the reconciliation attempt is over (stale
// generation or remote failure).
func (e *reconciliationEngine) replayQueue(ctx context.Context, kind models.Kind, gen uint64, queue []models.PartialRecord) bool {
	combined := models.PartialRecord{}
	for _, partial := range queue {
		for k, v := range partial {
			combined[k] = v
		}
	}

	merged, err := e.remote.SetMerge(ctx, kind, combined)

	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.states[kind]
	if st.gen != gen {
		return false
	}
	if err != nil {
		// put the updates back so the next attempt replays them
		st.queue = append(queue, st.queue...)
		e.failLocked(kind, st, err)
		return false
	}

	st.record = merged.Clone()
	return true
}

// establishSubscription opens the watch channel for an adopted kind. Pushes
// carry the full server-confirmed document and overwrite the in-memory
// record unconditionally.
func (e *reconciliationEngine) establishSubscription(kind models.Kind, gen uint64) {
	onRecord := func(record models.Record) {
		e.mu.Lock()
		defer e.mu.Unlock()
		st := e.states[kind]
		if st.gen != gen {
			return
		}
		st.record = record.Clone()
	}

	onError := func(err error) {
		e.mu.Lock()
		defer e.mu.Unlock()
		st := e.states[kind]
		if st.gen != gen {
			return
		}
		e.failLocked(kind, st, err)
	}

	sub, err := e.remote.Subscribe(context.Background(), kind, onRecord, onError)

	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.states[kind]
	if st.gen != gen {
		if sub != nil {
			sub.Close()
		}
		return
	}
	if err != nil {
		e.failLocked(kind, st, err)
		return
	}

	st.sub = sub
	st.state = models.StateSubscribed
}

// failLocked moves one kind into the error state. The last adopted record
// stays readable; queued updates stay queued for the next attempt.
func (e *reconciliationEngine) failLocked(kind models.Kind, st *kindState, err error) {
	e.logger.Err(err).Str("kind", string(kind)).Msg("sync failed")
	if st.sub != nil {
		st.sub.Close()
		st.sub = nil
	}
	st.state = models.StateError
	st.err = err
}

// Update implements [ReconciliationEngine].
func (e *reconciliationEngine) Update(kind models.Kind, partial models.PartialRecord) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	if len(partial) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	st := e.states[kind]

	if !e.session.Named() {
		if err := e.local.Write(kind, partial); err != nil {
			return err
		}
		st.record = st.record.Merge(partial)
		st.adopted = true
		if st.state == models.StateUninitialized {
			st.state = models.StateAdopted
			st.source = models.AdoptedLocal
		}
		return nil
	}

	switch st.state {
	case models.StateAdopted, models.StateSubscribed:
		// optimistic: the merge result (or the subscription echo) reconfirms
		st.record = st.record.Merge(partial)
		go e.pushUpdate(kind, st.gen, clonePartial(partial))
	default:
		// loading, reconciling, error: hold the edit until a record is adopted
		st.queue = append(st.queue, clonePartial(partial))
	}
	return nil
}

func (e *reconciliationEngine) pushUpdate(kind models.Kind, gen uint64, partial models.PartialRecord) {
	merged, err := e.remote.SetMerge(context.Background(), kind, partial)

	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.states[kind]
	if st.gen != gen {
		return
	}
	if err != nil {
		// re-queue so the edit is replayed once the remote tier recovers
		st.queue = append(st.queue, partial)
		e.failLocked(kind, st, err)
		return
	}

	st.record = merged.Clone()
}

// Record implements [ReconciliationEngine].
func (e *reconciliationEngine) Record(kind models.Kind) (models.Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[kind]
	if !ok || !st.adopted {
		return nil, false
	}
	return st.record.Clone(), true
}

// State implements [ReconciliationEngine].
func (e *reconciliationEngine) State(kind models.Kind) models.SyncState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[kind]
	if !ok {
		return models.StateUninitialized
	}
	return st.state
}

// Err implements [ReconciliationEngine].
func (e *reconciliationEngine) Err(kind models.Kind) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[kind]
	if !ok {
		return nil
	}
	return st.err
}

// Resync implements [ReconciliationEngine].
func (e *reconciliationEngine) Resync(kind models.Kind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	st, ok := e.states[kind]
	if !ok || st.state != models.StateError || !e.session.Named() {
		return
	}

	st.gen++
	st.err = nil
	st.state = models.StateLoading
	go e.reconcile(kind, st.gen)
}

// Close implements [ReconciliationEngine].
func (e *reconciliationEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true

	for _, st := range e.states {
		st.gen++
		if st.sub != nil {
			st.sub.Close()
			st.sub = nil
		}
	}
}

func clonePartial(p models.PartialRecord) models.PartialRecord {
	return models.PartialRecord(models.Record(p).Clone())
}
