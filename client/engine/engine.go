// Package engine implements the vote reconciliation engine shared by every
// page that displays votable content: optimistic apply, server
// reconciliation, rollback on failure, and the conditional echo-score
// refresh. Pages own the Votable entities; the engine is the only code path
// allowed to adjust their vote counters.
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Gateway is the backend surface the engine reconciles through.
type Gateway interface {
	CreateVote(ctx context.Context, kind TargetKind, targetID uuid.UUID, voteType bool) (*VoteRecord, error)
	DeleteVote(ctx context.Context, voteID uuid.UUID) error
	ListMyVotes(ctx context.Context) ([]VoteRecord, error)
}

var (
	ErrNotAuthenticated = errors.New("voting requires a logged-in user")
	ErrMuffled          = errors.New("muffled accounts cannot vote")
	ErrClosed           = errors.New("vote engine is closed")
	ErrNilTarget        = errors.New("vote target is required")
)

// Config configures an Engine.
type Config struct {
	Gateway      Gateway
	Store        *VoteStore // optional; a fresh store is created when nil
	ActingUserID uuid.UUID
	Muffled      bool

	// OnError surfaces one user-visible message per failed vote. Invoked
	// from a reconciliation goroutine.
	OnError func(message string)
	// OnScoreAffecting fires after a successful reconciliation of a vote on
	// another user's content, so the page can refresh the acting user's
	// echo score. Never invoked for self-votes.
	OnScoreAffecting func(ownerID uuid.UUID)

	Logger zerolog.Logger
}

// Engine applies votes optimistically and reconciles them against the
// backend. Votes on one target are serialized; distinct targets reconcile
// concurrently.
type Engine struct {
	gateway Gateway
	store   *VoteStore
	userID  uuid.UUID
	muffled bool
	onError func(string)
	onScore func(uuid.UUID)
	logger  zerolog.Logger

	mu sync.Mutex
	// queues holds pending operations per target. A present key means a
	// runner goroutine owns that target's queue.
	queues map[uuid.UUID][]*operation
	closed bool
	wg     sync.WaitGroup
}

type operation struct {
	target *Votable
	change Change
	snap   snapshot
}

// New creates an Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("gateway is required")
	}
	store := cfg.Store
	if store == nil {
		store = NewVoteStore()
	}
	return &Engine{
		gateway: cfg.Gateway,
		store:   store,
		userID:  cfg.ActingUserID,
		muffled: cfg.Muffled,
		onError: cfg.OnError,
		onScore: cfg.OnScoreAffecting,
		logger:  cfg.Logger.With().Str("component", "vote_engine").Logger(),
		queues:  make(map[uuid.UUID][]*operation),
	}, nil
}

// Store exposes the vote store for read-side page code.
func (e *Engine) Store() *VoteStore {
	return e.store
}

// Refresh loads the acting user's votes from the server, replacing the
// store wholesale. Pages call this once on mount.
func (e *Engine) Refresh(ctx context.Context) error {
	recs, err := e.gateway.ListMyVotes(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.store.ReplaceAll(recs)
	return nil
}

// SubmitVote applies the requested vote to the target synchronously and
// schedules its reconciliation. It returns once the optimistic update is
// visible, not once reconciliation completes. Precondition failures
// (unauthenticated, muffled) short-circuit before any mutation.
func (e *Engine) SubmitVote(target *Votable, requested Direction) error {
	if target == nil {
		return ErrNilTarget
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.userID == uuid.Nil {
		e.mu.Unlock()
		return ErrNotAuthenticated
	}
	if e.muffled {
		e.mu.Unlock()
		return ErrMuffled
	}

	current := e.store.StateFor(target.ID)
	ch := Transition(current, requested)
	snap := captureSnapshot(e.store, target)
	applyOptimistic(e.store, e.userID, target, ch)

	op := &operation{target: target, change: ch, snap: snap}
	queue, active := e.queues[target.ID]
	e.queues[target.ID] = append(queue, op)
	if !active {
		e.wg.Add(1)
		go e.runQueue(target.ID)
	}
	e.mu.Unlock()
	return nil
}

// Close marks the engine dead. Reconciliations still in flight are allowed
// to finish against the network but no longer mutate local state.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// Wait blocks until every scheduled reconciliation has drained.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) runQueue(targetID uuid.UUID) {
	defer e.wg.Done()
	for {
		e.mu.Lock()
		queue := e.queues[targetID]
		if len(queue) == 0 || e.closed {
			delete(e.queues, targetID)
			e.mu.Unlock()
			return
		}
		op := queue[0]
		e.queues[targetID] = queue[1:]
		e.mu.Unlock()

		e.reconcile(op, targetID)
	}
}

// reconcile persists one transition, then replaces the store with server
// truth. This is the engine's only suspension point.
func (e *Engine) reconcile(op *operation, targetID uuid.UUID) {
	ctx := context.Background()

	var err error
	if op.change.Next == StateNone {
		if rec, ok := e.persistedRecord(op, targetID); ok {
			err = e.gateway.DeleteVote(ctx, rec.ID)
		}
		// No persisted record means the user is undoing a vote whose create
		// was itself still in flight; skipping the delete is the correct
		// outcome of that race, not an error.
	} else {
		_, err = e.gateway.CreateVote(ctx, op.target.Kind, targetID, op.change.Next == StateUp)
	}
	if err != nil {
		e.fail(op, targetID, err)
		return
	}

	recs, err := e.gateway.ListMyVotes(ctx)
	if err != nil {
		e.fail(op, targetID, err)
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.store.ReplaceAll(recs)
	e.mu.Unlock()

	if op.target.OwnerID != e.userID && e.onScore != nil {
		e.onScore(op.target.OwnerID)
	}
}

// persistedRecord locates the server-issued record to delete: first the
// pre-optimistic snapshot, then the store, which a prior serialized
// reconciliation on the same target may have refreshed.
func (e *Engine) persistedRecord(op *operation, targetID uuid.UUID) (VoteRecord, bool) {
	if op.snap.hadRecord && !op.snap.record.Pending {
		return op.snap.record, true
	}
	if rec, ok := e.store.Get(targetID); ok && !rec.Pending {
		return rec, true
	}
	return VoteRecord{}, false
}

// fail rolls the target back to its pre-optimistic snapshot, drops any
// votes queued behind the failed one (they were built on the reverted
// state), reports a single error, and refreshes the store best-effort.
func (e *Engine) fail(op *operation, targetID uuid.UUID, cause error) {
	e.logger.Warn().Err(cause).
		Str("target_id", targetID.String()).
		Str("kind", string(op.target.Kind)).
		Msg("vote reconciliation failed")

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	restoreSnapshot(e.store, op.target, op.snap)
	e.queues[targetID] = e.queues[targetID][:0]
	e.mu.Unlock()

	if e.onError != nil {
		e.onError("failed to vote, please try again")
	}

	if recs, err := e.gateway.ListMyVotes(context.Background()); err == nil {
		e.mu.Lock()
		if !e.closed {
			e.store.ReplaceAll(recs)
		}
		e.mu.Unlock()
	}
}
