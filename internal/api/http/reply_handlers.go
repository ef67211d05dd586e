package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	domainReply "github.com/campus-echo/campus-echo/internal/domain/reply"
)

type replyCreateRequest struct {
	ReviewID uuid.UUID `json:"review_id"`
	Content  string    `json:"content"`
}

func (s *Server) createReply(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req replyCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.ReviewID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "review_id is required")
		return
	}
	rp, err := s.replySvc.Create(r.Context(), auth.User, req.ReviewID, req.Content)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rp)
}

func (s *Server) listReplies(w http.ResponseWriter, r *http.Request) {
	var filter domainReply.Filter
	var err error
	if filter.UserID, err = parseUUIDQuery(r, "user_id"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid user_id")
		return
	}
	if filter.ReviewID, err = parseUUIDQuery(r, "review_id"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid review_id")
		return
	}
	limit, offset := parseLimitOffset(r, 50, 200)
	replies, err := s.replySvc.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if replies == nil {
		replies = []*domainReply.Reply{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"replies": replies})
}

func (s *Server) getReply(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "replyId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid replyId")
		return
	}
	rp, err := s.replySvc.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rp)
}

func (s *Server) deleteReply(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "replyId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid replyId")
		return
	}
	if err := s.replySvc.Delete(r.Context(), auth.User, id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
