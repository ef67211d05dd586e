package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	appReview "github.com/campus-echo/campus-echo/internal/application/review"
	domainReview "github.com/campus-echo/campus-echo/internal/domain/review"
)

type reviewCreateRequest struct {
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	ProfessorID *uuid.UUID `json:"professor_id,omitempty"`
	Rating      int        `json:"rating"`
	Content     *string    `json:"content,omitempty"`
	Semester    *string    `json:"semester,omitempty"`
	Year        *int       `json:"year,omitempty"`
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req reviewCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	rv, err := s.reviewSvc.Create(r.Context(), auth.User, appReview.CreateInput{
		CourseID:    req.CourseID,
		ProfessorID: req.ProfessorID,
		Rating:      req.Rating,
		Content:     req.Content,
		Semester:    req.Semester,
		Year:        req.Year,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rv)
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request) {
	var filter domainReview.Filter
	var err error
	if filter.UserID, err = parseUUIDQuery(r, "user_id"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid user_id")
		return
	}
	if filter.CourseID, err = parseUUIDQuery(r, "course_id"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid course_id")
		return
	}
	if filter.ProfessorID, err = parseUUIDQuery(r, "professor_id"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid professor_id")
		return
	}
	limit, offset := parseLimitOffset(r, 50, 200)
	reviews, err := s.reviewSvc.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if reviews == nil {
		reviews = []*domainReview.Review{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}

func (s *Server) getReview(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "reviewId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid reviewId")
		return
	}
	rv, err := s.reviewSvc.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rv)
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "reviewId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid reviewId")
		return
	}
	if err := s.reviewSvc.Delete(r.Context(), auth.User, id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
