package engine

import "github.com/google/uuid"

// snapshot captures a target's pre-mutation state so a rollback can restore
// it exactly rather than recompute it.
type snapshot struct {
	upvotes   int
	downvotes int
	record    VoteRecord
	hadRecord bool
}

func captureSnapshot(store *VoteStore, target *Votable) snapshot {
	rec, ok := store.Get(target.ID)
	return snapshot{
		upvotes:   target.Upvotes,
		downvotes: target.Downvotes,
		record:    rec,
		hadRecord: ok,
	}
}

// applyOptimistic mutates the target counts and the store according to a
// transition, before any network call. Counts are floored at zero; with a
// consistent input state the floor never engages.
func applyOptimistic(store *VoteStore, userID uuid.UUID, target *Votable, ch Change) {
	target.Upvotes = clampNonNegative(target.Upvotes + ch.DeltaUp)
	target.Downvotes = clampNonNegative(target.Downvotes + ch.DeltaDown)

	if ch.Next == StateNone {
		store.Remove(target.ID)
		return
	}
	store.Put(VoteRecord{
		ID:       uuid.New(),
		UserID:   userID,
		Kind:     target.Kind,
		TargetID: target.ID,
		VoteType: ch.Next == StateUp,
		Pending:  true,
	})
}

// restoreSnapshot is the exact inverse of applyOptimistic.
func restoreSnapshot(store *VoteStore, target *Votable, snap snapshot) {
	target.Upvotes = snap.upvotes
	target.Downvotes = snap.downvotes
	if snap.hadRecord {
		store.Put(snap.record)
	} else {
		store.Remove(target.ID)
	}
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
