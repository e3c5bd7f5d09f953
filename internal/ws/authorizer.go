package ws

import (
	"context"
	"errors"

	"skillera/internal/domain/match"
	"skillera/internal/repository"

	"github.com/google/uuid"
)

type matchFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (match.Match, error)
}

// MatchAuthorizer lets a user into match:<id> only when they take part in
// that match.
type MatchAuthorizer struct {
	matches matchFinder
}

func NewMatchAuthorizer(matches repository.MatchRepository) *MatchAuthorizer {
	return &MatchAuthorizer{matches: matches}
}

func (a *MatchAuthorizer) CanJoinMatch(ctx context.Context, userID, matchID uuid.UUID) (bool, error) {
	m, err := a.matches.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.HasParticipant(userID), nil
}
