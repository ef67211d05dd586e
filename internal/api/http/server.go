package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	appAuth "github.com/campus-echo/campus-echo/internal/application/auth"
	appReply "github.com/campus-echo/campus-echo/internal/application/reply"
	appReview "github.com/campus-echo/campus-echo/internal/application/review"
	appUser "github.com/campus-echo/campus-echo/internal/application/user"
	appVote "github.com/campus-echo/campus-echo/internal/application/vote"
	domainReply "github.com/campus-echo/campus-echo/internal/domain/reply"
	domainReview "github.com/campus-echo/campus-echo/internal/domain/review"
	domainVote "github.com/campus-echo/campus-echo/internal/domain/vote"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authSvc             *appAuth.Service
	userSvc             *appUser.Service
	reviewSvc           *appReview.Service
	replySvc            *appReply.Service
	voteSvc             *appVote.Service
	sessionCookieName   string
	sessionCookieSecure bool
}

func NewServer(
	authSvc *appAuth.Service,
	userSvc *appUser.Service,
	reviewSvc *appReview.Service,
	replySvc *appReply.Service,
	voteSvc *appVote.Service,
	sessionCookieName string,
	sessionCookieSecure bool,
) *Server {
	return &Server{
		authSvc:             authSvc,
		userSvc:             userSvc,
		reviewSvc:           reviewSvc,
		replySvc:            replySvc,
		voteSvc:             voteSvc,
		sessionCookieName:   sessionCookieName,
		sessionCookieSecure: sessionCookieSecure,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/logout", s.logout)
				r.Get("/me", s.me)
			})
		})

		r.Get("/users/{userId}", s.getUser)

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", s.listReviews)
			r.Get("/{reviewId}", s.getReview)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.createReview)
				r.Delete("/{reviewId}", s.deleteReview)
			})
		})

		r.Route("/replies", func(r chi.Router) {
			r.Get("/", s.listReplies)
			r.Get("/{replyId}", s.getReply)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.createReply)
				r.Delete("/{replyId}", s.deleteReply)
			})
		})

		r.Route("/votes", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.createVote)
			r.Get("/", s.listVotes)
			r.Get("/me", s.listMyVotes)
			r.Delete("/{voteId}", s.deleteVote)
		})
	})

	return r
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondDomainError maps domain sentinels onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainVote.ErrNotFound),
		errors.Is(err, domainVote.ErrTargetNotFound),
		errors.Is(err, domainReview.ErrNotFound),
		errors.Is(err, domainReply.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domainVote.ErrMuffled),
		errors.Is(err, domainVote.ErrNotVoteOwner),
		errors.Is(err, domainReview.ErrNotOwner),
		errors.Is(err, domainReply.ErrNotOwner):
		respondError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domainVote.ErrNoTarget),
		errors.Is(err, domainVote.ErrOwnContent),
		errors.Is(err, domainReview.ErrRatingOutOfRange),
		errors.Is(err, domainReview.ErrNoSubject),
		errors.Is(err, domainReply.ErrEmptyContent):
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func parseUUIDQuery(r *http.Request, key string) (*uuid.UUID, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
