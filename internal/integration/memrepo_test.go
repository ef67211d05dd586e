package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainReply "github.com/campus-echo/campus-echo/internal/domain/reply"
	domainReview "github.com/campus-echo/campus-echo/internal/domain/review"
	domainSession "github.com/campus-echo/campus-echo/internal/domain/session"
	domainUser "github.com/campus-echo/campus-echo/internal/domain/user"
	domainVote "github.com/campus-echo/campus-echo/internal/domain/vote"
)

// In-memory repositories backing the API under test. They mirror the
// postgres implementations' contracts, including nil-on-missing reads.

type memUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*domainUser.User
	reviews *memReviewRepo
	replies *memReplyRepo
}

func newMemUserRepo(reviews *memReviewRepo, replies *memReplyRepo) *memUserRepo {
	return &memUserRepo{
		users:   map[uuid.UUID]*domainUser.User{},
		reviews: reviews,
		replies: replies,
	}
}

func (r *memUserRepo) Create(_ context.Context, u *domainUser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.UserID] = &cp
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *domainUser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.UserID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(_ context.Context, limit, offset int) ([]*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainUser.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *memUserRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func (r *memUserRepo) RecomputeEchoes(_ context.Context, userID uuid.UUID) (int, error) {
	sum := 0
	r.reviews.mu.Lock()
	for _, rv := range r.reviews.reviews {
		if rv.UserID == userID {
			sum += rv.Upvotes - rv.Downvotes
		}
	}
	r.reviews.mu.Unlock()
	r.replies.mu.Lock()
	for _, rp := range r.replies.replies {
		if rp.UserID == userID {
			sum += rp.Upvotes - rp.Downvotes
		}
	}
	r.replies.mu.Unlock()
	if sum < 0 {
		sum = 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.Echoes = sum
	}
	return sum, nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domainSession.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*domainSession.Session{}}
}

func (r *memSessionRepo) Create(_ context.Context, s *domainSession.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.TokenHash] = &cp
	return nil
}

func (r *memSessionRepo) GetByTokenHash(_ context.Context, tokenHash string) (*domainSession.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[tokenHash]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) DeleteByID(_ context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, s := range r.sessions {
		if s.SessionID == sessionID {
			delete(r.sessions, hash)
		}
	}
	return nil
}

func (r *memSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenHash)
	return nil
}

func (r *memSessionRepo) UpdateLastSeen(_ context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for _, s := range r.sessions {
		if s.SessionID == sessionID {
			s.LastSeenAt = &now
		}
	}
	return nil
}

func (r *memSessionRepo) DeleteExpired(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	n := 0
	for hash, s := range r.sessions {
		if s.IsExpired(now) {
			delete(r.sessions, hash)
			n++
		}
	}
	return n, nil
}

type memReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*domainReview.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: map[uuid.UUID]*domainReview.Review{}}
}

func (r *memReviewRepo) Create(_ context.Context, rv *domainReview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rv
	r.reviews[rv.ReviewID] = &cp
	return nil
}

func (r *memReviewRepo) Update(_ context.Context, rv *domainReview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rv
	r.reviews[rv.ReviewID] = &cp
	return nil
}

func (r *memReviewRepo) GetByID(_ context.Context, reviewID uuid.UUID) (*domainReview.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[reviewID]
	if !ok {
		return nil, nil
	}
	cp := *rv
	return &cp, nil
}

func (r *memReviewRepo) List(_ context.Context, filter domainReview.Filter, limit, offset int) ([]*domainReview.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainReview.Review
	for _, rv := range r.reviews {
		if filter.UserID != nil && rv.UserID != *filter.UserID {
			continue
		}
		if filter.CourseID != nil && (rv.CourseID == nil || *rv.CourseID != *filter.CourseID) {
			continue
		}
		if filter.ProfessorID != nil && (rv.ProfessorID == nil || *rv.ProfessorID != *filter.ProfessorID) {
			continue
		}
		cp := *rv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *memReviewRepo) Delete(_ context.Context, reviewID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reviews, reviewID)
	return nil
}

func (r *memReviewRepo) SetVoteStats(_ context.Context, reviewID uuid.UUID, upvotes, downvotes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rv, ok := r.reviews[reviewID]; ok {
		rv.Upvotes = upvotes
		rv.Downvotes = downvotes
	}
	return nil
}

type memReplyRepo struct {
	mu      sync.Mutex
	replies map[uuid.UUID]*domainReply.Reply
}

func newMemReplyRepo() *memReplyRepo {
	return &memReplyRepo{replies: map[uuid.UUID]*domainReply.Reply{}}
}

func (r *memReplyRepo) Create(_ context.Context, rp *domainReply.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rp
	r.replies[rp.ReplyID] = &cp
	return nil
}

func (r *memReplyRepo) Update(_ context.Context, rp *domainReply.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rp
	r.replies[rp.ReplyID] = &cp
	return nil
}

func (r *memReplyRepo) GetByID(_ context.Context, replyID uuid.UUID) (*domainReply.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rp, ok := r.replies[replyID]
	if !ok {
		return nil, nil
	}
	cp := *rp
	return &cp, nil
}

func (r *memReplyRepo) List(_ context.Context, filter domainReply.Filter, limit, offset int) ([]*domainReply.Reply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainReply.Reply
	for _, rp := range r.replies {
		if filter.UserID != nil && rp.UserID != *filter.UserID {
			continue
		}
		if filter.ReviewID != nil && rp.ReviewID != *filter.ReviewID {
			continue
		}
		cp := *rp
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *memReplyRepo) Delete(_ context.Context, replyID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.replies, replyID)
	return nil
}

func (r *memReplyRepo) SetVoteStats(_ context.Context, replyID uuid.UUID, upvotes, downvotes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rp, ok := r.replies[replyID]; ok {
		rp.Upvotes = upvotes
		rp.Downvotes = downvotes
	}
	return nil
}

type memVoteRepo struct {
	mu    sync.Mutex
	votes map[uuid.UUID]*domainVote.Vote
	seq   int64
}

func newMemVoteRepo() *memVoteRepo {
	return &memVoteRepo{votes: map[uuid.UUID]*domainVote.Vote{}}
}

func (r *memVoteRepo) Create(_ context.Context, v *domainVote.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cp := *v
	cp.ID = r.seq
	r.votes[v.VoteID] = &cp
	return nil
}

func (r *memVoteRepo) UpdateType(_ context.Context, voteID uuid.UUID, voteType bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.votes[voteID]; ok {
		v.VoteType = voteType
		v.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *memVoteRepo) GetByID(_ context.Context, voteID uuid.UUID) (*domainVote.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.votes[voteID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *memVoteRepo) GetByUserAndTarget(_ context.Context, userID uuid.UUID, kind domainVote.TargetKind, targetID uuid.UUID) (*domainVote.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.votes {
		if v.UserID == userID && v.Kind() == kind && v.TargetID() == targetID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memVoteRepo) List(_ context.Context, filter domainVote.Filter, limit, offset int) ([]*domainVote.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domainVote.Vote
	for _, v := range r.votes {
		if filter.UserID != nil && v.UserID != *filter.UserID {
			continue
		}
		if filter.ReviewID != nil && (v.ReviewID == nil || *v.ReviewID != *filter.ReviewID) {
			continue
		}
		if filter.ReplyID != nil && (v.ReplyID == nil || *v.ReplyID != *filter.ReplyID) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *memVoteRepo) Delete(_ context.Context, voteID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.votes, voteID)
	return nil
}

func (r *memVoteRepo) CountForTarget(_ context.Context, kind domainVote.TargetKind, targetID uuid.UUID) (domainVote.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats domainVote.Stats
	for _, v := range r.votes {
		if v.Kind() != kind || v.TargetID() != targetID {
			continue
		}
		if v.VoteType {
			stats.Upvotes++
		} else {
			stats.Downvotes++
		}
	}
	return stats, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
