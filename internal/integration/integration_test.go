package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-echo/campus-echo/client"
	"github.com/campus-echo/campus-echo/client/engine"
	httpapi "github.com/campus-echo/campus-echo/internal/api/http"
	appAuth "github.com/campus-echo/campus-echo/internal/application/auth"
	appReply "github.com/campus-echo/campus-echo/internal/application/reply"
	appReview "github.com/campus-echo/campus-echo/internal/application/review"
	appUser "github.com/campus-echo/campus-echo/internal/application/user"
	appVote "github.com/campus-echo/campus-echo/internal/application/vote"
)

const (
	cookieName   = "campus_echo_session"
	testPassword = "S3curePassw0rd"
)

type testEnv struct {
	server   *httptest.Server
	userRepo *memUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.Nop()

	reviewRepo := newMemReviewRepo()
	replyRepo := newMemReplyRepo()
	userRepo := newMemUserRepo(reviewRepo, replyRepo)
	sessionRepo := newMemSessionRepo()
	voteRepo := newMemVoteRepo()

	authSvc := appAuth.NewService(userRepo, sessionRepo, time.Hour, logger)
	userSvc := appUser.NewService(userRepo, logger)
	reviewSvc := appReview.NewService(reviewRepo, logger)
	replySvc := appReply.NewService(replyRepo, reviewRepo, logger)
	voteSvc := appVote.NewService(voteRepo, reviewRepo, replyRepo, userRepo, logger)

	api := httpapi.NewServer(authSvc, userSvc, reviewSvc, replySvc, voteSvc, cookieName, false)
	server := httptest.NewServer(api.Router())
	t.Cleanup(server.Close)

	return &testEnv{server: server, userRepo: userRepo}
}

// signup registers, optionally lifts the muffle, and logs in.
func (env *testEnv) signup(t *testing.T, username string, muffled bool) *client.Client {
	t.Helper()
	ctx := context.Background()

	c, err := client.New(env.server.URL)
	require.NoError(t, err)

	u, err := c.Register(ctx, username, testPassword)
	require.NoError(t, err)
	require.True(t, u.IsMuffled)

	if !muffled {
		stored, err := env.userRepo.GetByUsername(ctx, username)
		require.NoError(t, err)
		stored.IsMuffled = false
		require.NoError(t, env.userRepo.Update(ctx, stored))
	}

	_, err = c.Login(ctx, username, testPassword)
	require.NoError(t, err)
	return c
}

func TestVoteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.signup(t, "author", false)
	voter := env.signup(t, "voter", false)

	content := "great lectures"
	rv, err := author.CreateReview(ctx, client.CreateReviewInput{
		CourseID: ptr(uuid.New()),
		Rating:   5,
		Content:  &content,
	})
	require.NoError(t, err)

	// upvote
	v, err := voter.CreateVote(ctx, &rv.ID, nil, true)
	require.NoError(t, err)
	assert.True(t, v.VoteType)

	got, err := voter.GetReview(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, 0, got.Downvotes)

	me, err := author.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, me.Echoes)

	// switch to downvote: same row flips, counts move together
	v2, err := voter.CreateVote(ctx, &rv.ID, nil, false)
	require.NoError(t, err)
	assert.Equal(t, v.ID, v2.ID)

	got, err = voter.GetReview(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)
	assert.Equal(t, 1, got.Downvotes)

	// echo score floors at zero
	me, err = author.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, me.Echoes)

	// undo
	require.NoError(t, voter.DeleteVote(ctx, v2.ID))
	got, err = voter.GetReview(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)
	assert.Equal(t, 0, got.Downvotes)

	votes, err := voter.ListMyVotes(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestRepeatVoteReturnsExistingRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.signup(t, "author", false)
	voter := env.signup(t, "voter", false)

	rv, err := author.CreateReview(ctx, client.CreateReviewInput{ProfessorID: ptr(uuid.New()), Rating: 3})
	require.NoError(t, err)

	v1, err := voter.CreateVote(ctx, &rv.ID, nil, true)
	require.NoError(t, err)
	v2, err := voter.CreateVote(ctx, &rv.ID, nil, true)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, v2.ID)

	got, err := voter.GetReview(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
}

func TestVoteRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.signup(t, "author", false)
	muffled := env.signup(t, "muffled", true)

	rv, err := author.CreateReview(ctx, client.CreateReviewInput{CourseID: ptr(uuid.New()), Rating: 4})
	require.NoError(t, err)

	// self-vote
	_, err = author.CreateVote(ctx, &rv.ID, nil, true)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)

	// muffled account
	_, err = muffled.CreateVote(ctx, &rv.ID, nil, true)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)

	// missing target
	missing := uuid.New()
	voter := env.signup(t, "voter", false)
	_, err = voter.CreateVote(ctx, &missing, nil, true)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)

	// both targets set
	reply := uuid.New()
	_, err = voter.CreateVote(ctx, &rv.ID, &reply, true)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestReplyVotesFeedAuthorEchoes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.signup(t, "author", false)
	replier := env.signup(t, "replier", false)
	voter := env.signup(t, "voter", false)

	rv, err := author.CreateReview(ctx, client.CreateReviewInput{CourseID: ptr(uuid.New()), Rating: 2})
	require.NoError(t, err)
	rp, err := replier.CreateReply(ctx, rv.ID, "disagree, the labs were fine")
	require.NoError(t, err)

	_, err = voter.CreateVote(ctx, nil, &rp.ID, true)
	require.NoError(t, err)

	got, err := voter.GetReply(ctx, rp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)

	me, err := replier.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, me.Echoes)

	// the review author's score is untouched
	me, err = author.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, me.Echoes)
}

func TestEngineEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.signup(t, "author", false)
	voter := env.signup(t, "voter", false)

	rv, err := author.CreateReview(ctx, client.CreateReviewInput{CourseID: ptr(uuid.New()), Rating: 5})
	require.NoError(t, err)

	voterUser, err := voter.Me(ctx)
	require.NoError(t, err)

	eng, err := engine.New(engine.Config{
		Gateway:      voter.VoteGateway(),
		ActingUserID: voterUser.ID,
	})
	require.NoError(t, err)
	defer eng.Close()

	target := &engine.Votable{
		ID:      rv.ID,
		OwnerID: rv.UserID,
		Kind:    engine.KindReview,
	}

	// up, then switch down, then undo: the server ends with no vote
	require.NoError(t, eng.SubmitVote(target, engine.DirectionUp))
	require.NoError(t, eng.SubmitVote(target, engine.DirectionDown))
	require.NoError(t, eng.SubmitVote(target, engine.DirectionDown))
	eng.Wait()

	assert.Equal(t, engine.StateNone, eng.Store().StateFor(rv.ID))

	votes, err := voter.ListMyVotes(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, votes)

	got, err := voter.GetReview(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)
	assert.Equal(t, 0, got.Downvotes)

	// one more up lands and sticks
	require.NoError(t, eng.SubmitVote(target, engine.DirectionUp))
	eng.Wait()

	assert.Equal(t, engine.StateUp, eng.Store().StateFor(rv.ID))
	got, err = voter.GetReview(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
}

func TestListVotesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.signup(t, "author", false)
	alice := env.signup(t, "alice", false)
	bob := env.signup(t, "bob", false)

	rv1, err := author.CreateReview(ctx, client.CreateReviewInput{CourseID: ptr(uuid.New()), Rating: 5})
	require.NoError(t, err)
	rv2, err := author.CreateReview(ctx, client.CreateReviewInput{CourseID: ptr(uuid.New()), Rating: 2})
	require.NoError(t, err)

	// alice votes both reviews, bob only the first
	_, err = alice.CreateVote(ctx, &rv1.ID, nil, true)
	require.NoError(t, err)
	_, err = alice.CreateVote(ctx, &rv2.ID, nil, false)
	require.NoError(t, err)
	_, err = bob.CreateVote(ctx, &rv1.ID, nil, true)
	require.NoError(t, err)

	aliceUser, err := alice.Me(ctx)
	require.NoError(t, err)
	bobUser, err := bob.Me(ctx)
	require.NoError(t, err)

	all, err := author.ListVotes(ctx, client.VoteListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// narrow by voter
	mine, err := author.ListVotes(ctx, client.VoteListFilter{UserID: &aliceUser.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, v := range mine {
		assert.Equal(t, aliceUser.ID, v.UserID)
	}

	// narrow by target
	onFirst, err := author.ListVotes(ctx, client.VoteListFilter{ReviewID: &rv1.ID})
	require.NoError(t, err)
	require.Len(t, onFirst, 2)
	for _, v := range onFirst {
		assert.Equal(t, rv1.ID, *v.ReviewID)
	}

	// voter and target together
	both, err := author.ListVotes(ctx, client.VoteListFilter{UserID: &bobUser.ID, ReviewID: &rv2.ID})
	require.NoError(t, err)
	assert.Empty(t, both)
}

func TestAdminCanRemoveAnyVote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.signup(t, "author", false)
	voter := env.signup(t, "voter", false)
	admin := env.signup(t, "admin", false)

	stored, err := env.userRepo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	stored.IsAdmin = true
	require.NoError(t, env.userRepo.Update(ctx, stored))

	rv, err := author.CreateReview(ctx, client.CreateReviewInput{CourseID: ptr(uuid.New()), Rating: 1})
	require.NoError(t, err)
	v, err := voter.CreateVote(ctx, &rv.ID, nil, false)
	require.NoError(t, err)

	// a stranger cannot
	var apiErr *client.APIError
	stranger := env.signup(t, "stranger", false)
	err = stranger.DeleteVote(ctx, v.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)

	// an admin can
	require.NoError(t, admin.DeleteVote(ctx, v.ID))
	got, err := voter.GetReview(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Downvotes)
}

func TestBannedUserCannotLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.signup(t, "banned", false)
	stored, err := env.userRepo.GetByUsername(ctx, "banned")
	require.NoError(t, err)
	reason := "spam"
	stored.IsBanned = true
	stored.BanReason = &reason
	require.NoError(t, env.userRepo.Update(ctx, stored))

	c, err := client.New(env.server.URL)
	require.NoError(t, err)
	_, err = c.Login(ctx, "banned", testPassword)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestExpiredBanClearsOnLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.signup(t, "parolee", false)
	stored, err := env.userRepo.GetByUsername(ctx, "parolee")
	require.NoError(t, err)
	until := time.Now().UTC().Add(-time.Hour)
	stored.IsBanned = true
	stored.BannedUntil = &until
	require.NoError(t, env.userRepo.Update(ctx, stored))

	c, err := client.New(env.server.URL)
	require.NoError(t, err)
	_, err = c.Login(ctx, "parolee", testPassword)
	require.NoError(t, err)

	stored, err = env.userRepo.GetByUsername(ctx, "parolee")
	require.NoError(t, err)
	assert.False(t, stored.IsBanned)
	assert.Nil(t, stored.BannedUntil)
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }
