package engine

import (
	"sync"

	"github.com/google/uuid"
)

// TargetKind names the two kinds of votable content.
type TargetKind string

const (
	KindReview TargetKind = "review"
	KindReply  TargetKind = "reply"
)

// Votable is the view of a review or reply the engine mutates: its id, its
// author, and the denormalized vote counters owned by the displaying page.
type Votable struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Kind      TargetKind
	Upvotes   int
	Downvotes int
}

// VoteRecord is the acting user's vote on one target. Pending records carry
// a temporary id assigned optimistically; only reconciliation replaces them
// with server-issued records.
type VoteRecord struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Kind     TargetKind
	TargetID uuid.UUID
	VoteType bool // true = up, false = down
	Pending  bool
}

// State derives the vote state the record represents.
func (r VoteRecord) State() VoteState {
	if r.VoteType {
		return StateUp
	}
	return StateDown
}

// VoteStore holds the authoritative-so-far set of the acting user's votes,
// one record per target. It is the single shared vote resource on a page;
// only the engine writes to it.
type VoteStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]VoteRecord
}

func NewVoteStore() *VoteStore {
	return &VoteStore{records: make(map[uuid.UUID]VoteRecord)}
}

// Get returns the record for a target, if any.
func (s *VoteStore) Get(targetID uuid.UUID) (VoteRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[targetID]
	return rec, ok
}

// StateFor derives the vote state for a target.
func (s *VoteStore) StateFor(targetID uuid.UUID) VoteState {
	rec, ok := s.Get(targetID)
	if !ok {
		return StateNone
	}
	return rec.State()
}

// Put inserts or replaces the record for its target.
func (s *VoteStore) Put(rec VoteRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.TargetID] = rec
}

// Remove drops the record for a target.
func (s *VoteStore) Remove(targetID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, targetID)
}

// ReplaceAll discards every record and installs the given set wholesale.
// Reconciliation calls this with the server's vote list after every
// mutating call, so the store never keeps an optimistic guess as truth.
func (s *VoteStore) ReplaceAll(recs []VoteRecord) {
	next := make(map[uuid.UUID]VoteRecord, len(recs))
	for _, rec := range recs {
		next[rec.TargetID] = rec
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = next
}

// Len reports the number of held records.
func (s *VoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
