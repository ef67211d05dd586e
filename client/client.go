// Package client is the HTTP client for the Campus Echo API. It carries the
// session cookie across calls and exposes the wire types pages and the vote
// engine consume.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the Campus Echo API over a cookie-based session.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client. A cookie jar is
// attached when the given client has none.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpc == nil {
		c.httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if c.httpc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.httpc.Jar = jar
	}
	return c, nil
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// User mirrors the API user payload.
type User struct {
	ID               uuid.UUID  `json:"id"`
	Username         string     `json:"username"`
	Bio              *string    `json:"bio,omitempty"`
	StudentSinceYear *int       `json:"student_since_year,omitempty"`
	IsMuffled        bool       `json:"is_muffled"`
	Echoes           int        `json:"echoes"`
	IsAdmin          bool       `json:"is_admin"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Review mirrors the API review payload.
type Review struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	ProfessorID *uuid.UUID `json:"professor_id,omitempty"`
	Rating      int        `json:"rating"`
	Content     *string    `json:"content,omitempty"`
	Semester    *string    `json:"semester,omitempty"`
	Year        *int       `json:"year,omitempty"`
	Upvotes     int        `json:"upvotes"`
	Downvotes   int        `json:"downvotes"`
	IsEdited    bool       `json:"is_edited"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Reply mirrors the API reply payload.
type Reply struct {
	ID        uuid.UUID `json:"id"`
	ReviewID  uuid.UUID `json:"review_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	IsEdited  bool      `json:"is_edited"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Vote mirrors the API vote payload.
type Vote struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	ReviewID  *uuid.UUID `json:"review_id,omitempty"`
	ReplyID   *uuid.UUID `json:"reply_id,omitempty"`
	VoteType  bool       `json:"vote_type"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User User `json:"user"`
}

// Register creates an account. New accounts start muffled.
func (c *Client) Register(ctx context.Context, username, password string) (*User, error) {
	var out User
	err := c.do(ctx, http.MethodPost, "/v1/auth/register", registerRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", registerRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)
}

// Me fetches the current user, including the up-to-date echo score.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/v1/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateReviewInput carries the fields of a new review.
type CreateReviewInput struct {
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	ProfessorID *uuid.UUID `json:"professor_id,omitempty"`
	Rating      int        `json:"rating"`
	Content     *string    `json:"content,omitempty"`
	Semester    *string    `json:"semester,omitempty"`
	Year        *int       `json:"year,omitempty"`
}

// CreateReview posts a review.
func (c *Client) CreateReview(ctx context.Context, in CreateReviewInput) (*Review, error) {
	var out Review
	if err := c.do(ctx, http.MethodPost, "/v1/reviews", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReview fetches one review with its current vote stats.
func (c *Client) GetReview(ctx context.Context, reviewID uuid.UUID) (*Review, error) {
	var out Review
	if err := c.do(ctx, http.MethodGet, "/v1/reviews/"+reviewID.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateReply posts a reply under a review.
func (c *Client) CreateReply(ctx context.Context, reviewID uuid.UUID, content string) (*Reply, error) {
	body := map[string]interface{}{"review_id": reviewID, "content": content}
	var out Reply
	if err := c.do(ctx, http.MethodPost, "/v1/replies", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReply fetches one reply with its current vote stats.
func (c *Client) GetReply(ctx context.Context, replyID uuid.UUID) (*Reply, error) {
	var out Reply
	if err := c.do(ctx, http.MethodGet, "/v1/replies/"+replyID.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createVoteRequest struct {
	ReviewID *uuid.UUID `json:"review_id,omitempty"`
	ReplyID  *uuid.UUID `json:"reply_id,omitempty"`
	VoteType bool       `json:"vote_type"`
}

// CreateVote casts or switches a vote. Exactly one of reviewID/replyID must
// be set; the server upserts against its one-vote-per-target constraint.
func (c *Client) CreateVote(ctx context.Context, reviewID, replyID *uuid.UUID, voteType bool) (*Vote, error) {
	var out Vote
	req := createVoteRequest{ReviewID: reviewID, ReplyID: replyID, VoteType: voteType}
	if err := c.do(ctx, http.MethodPost, "/v1/votes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVote removes a vote by its server-issued id.
func (c *Client) DeleteVote(ctx context.Context, voteID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/v1/votes/"+voteID.String(), nil, nil)
}

// ListMyVotes fetches the current user's votes, optionally filtered to one
// target.
func (c *Client) ListMyVotes(ctx context.Context, reviewID, replyID *uuid.UUID) ([]Vote, error) {
	q := url.Values{}
	if reviewID != nil {
		q.Set("review_id", reviewID.String())
	}
	if replyID != nil {
		q.Set("reply_id", replyID.String())
	}
	path := "/v1/votes/me"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []Vote
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VoteListFilter narrows a ListVotes call. Nil fields are omitted.
type VoteListFilter struct {
	UserID   *uuid.UUID
	ReviewID *uuid.UUID
	ReplyID  *uuid.UUID
}

// ListVotes fetches votes across all users, filtered by voter and target.
func (c *Client) ListVotes(ctx context.Context, f VoteListFilter) ([]Vote, error) {
	q := url.Values{}
	if f.UserID != nil {
		q.Set("user_id", f.UserID.String())
	}
	if f.ReviewID != nil {
		q.Set("review_id", f.ReviewID.String())
	}
	if f.ReplyID != nil {
		q.Set("reply_id", f.ReplyID.String())
	}
	path := "/v1/votes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out struct {
		Votes []Vote `json:"votes"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Votes, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Code = envelope.Error
			apiErr.Message = envelope.Message
		}
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
