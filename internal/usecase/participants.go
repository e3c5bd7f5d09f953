package usecase

import (
	"context"
	"errors"

	"skillera/internal/domain/match"
	"skillera/internal/repository"

	"github.com/google/uuid"
)

// participantMatch loads the match and checks actorID belongs to it.
func participantMatch(ctx context.Context, matches repository.MatchRepository, actorID, matchID uuid.UUID) (match.Match, error) {
	m, err := matches.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, ErrInternal
	}
	if !m.HasParticipant(actorID) {
		return match.Match{}, ErrForbidden
	}
	return m, nil
}
