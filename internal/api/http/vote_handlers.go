package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	appVote "github.com/campus-echo/campus-echo/internal/application/vote"
	domainVote "github.com/campus-echo/campus-echo/internal/domain/vote"
)

type voteCreateRequest struct {
	ReviewID *uuid.UUID `json:"review_id,omitempty"`
	ReplyID  *uuid.UUID `json:"reply_id,omitempty"`
	VoteType bool       `json:"vote_type"`
}

func (s *Server) createVote(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req voteCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	v, created, err := s.voteSvc.Cast(r.Context(), auth.User, appVote.CastInput{
		ReviewID: req.ReviewID,
		ReplyID:  req.ReplyID,
		VoteType: req.VoteType,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, v)
}

// listMyVotes returns the caller's votes as a bare array; clients replace
// their local vote state wholesale with this response.
func (s *Server) listMyVotes(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	reviewID, err := parseUUIDQuery(r, "review_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid review_id")
		return
	}
	replyID, err := parseUUIDQuery(r, "reply_id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid reply_id")
		return
	}
	limit, offset := parseLimitOffset(r, 100, 500)
	votes, err := s.voteSvc.ListMine(r.Context(), auth.User.UserID, reviewID, replyID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if votes == nil {
		votes = []*domainVote.Vote{}
	}
	respondJSON(w, http.StatusOK, votes)
}

func (s *Server) listVotes(w http.ResponseWriter, r *http.Request) {
	var filter domainVote.Filter
	var err error
	if filter.UserID, err = parseUUIDQuery(r, "user_id"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid user_id")
		return
	}
	if filter.ReviewID, err = parseUUIDQuery(r, "review_id"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid review_id")
		return
	}
	if filter.ReplyID, err = parseUUIDQuery(r, "reply_id"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid reply_id")
		return
	}
	limit, offset := parseLimitOffset(r, 100, 500)
	votes, err := s.voteSvc.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if votes == nil {
		votes = []*domainVote.Vote{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"votes": votes})
}

func (s *Server) deleteVote(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "voteId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid voteId")
		return
	}
	if err := s.voteSvc.Remove(r.Context(), auth.User, id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
