package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/campus-echo/campus-echo/client/engine"
)

// apiGateway adapts the HTTP client to the vote engine's Gateway.
type apiGateway struct {
	c *Client
}

// VoteGateway returns the engine.Gateway backed by this client's session.
func (c *Client) VoteGateway() engine.Gateway {
	return &apiGateway{c: c}
}

func (g *apiGateway) CreateVote(ctx context.Context, kind engine.TargetKind, targetID uuid.UUID, voteType bool) (*engine.VoteRecord, error) {
	var reviewID, replyID *uuid.UUID
	if kind == engine.KindReview {
		reviewID = &targetID
	} else {
		replyID = &targetID
	}
	v, err := g.c.CreateVote(ctx, reviewID, replyID, voteType)
	if err != nil {
		return nil, err
	}
	rec := toVoteRecord(*v)
	return &rec, nil
}

func (g *apiGateway) DeleteVote(ctx context.Context, voteID uuid.UUID) error {
	return g.c.DeleteVote(ctx, voteID)
}

func (g *apiGateway) ListMyVotes(ctx context.Context) ([]engine.VoteRecord, error) {
	votes, err := g.c.ListMyVotes(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	recs := make([]engine.VoteRecord, 0, len(votes))
	for _, v := range votes {
		recs = append(recs, toVoteRecord(v))
	}
	return recs, nil
}

func toVoteRecord(v Vote) engine.VoteRecord {
	rec := engine.VoteRecord{
		ID:       v.ID,
		UserID:   v.UserID,
		VoteType: v.VoteType,
	}
	switch {
	case v.ReviewID != nil:
		rec.Kind = engine.KindReview
		rec.TargetID = *v.ReviewID
	case v.ReplyID != nil:
		rec.Kind = engine.KindReply
		rec.TargetID = *v.ReplyID
	}
	return rec
}
