package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type DeckCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// DeckCacheKey identifies one viewer's deck for one filter combination.
func DeckCacheKey(viewerID uuid.UUID, onlineOnly bool, category string) string {
	category = strings.ToLower(strings.Join(strings.Fields(category), " "))
	if category == "" {
		category = "-"
	}
	return "deck:" + viewerID.String() + ":" + strconv.FormatBool(onlineOnly) + ":" + category
}

func deckCachePattern(viewerID uuid.UUID) string {
	return "deck:" + viewerID.String() + ":*"
}

// invalidateDecks drops every cached deck of the given viewers. Errors are
// ignored; a stale deck still expires after its TTL.
func invalidateDecks(ctx context.Context, c DeckCache, viewerIDs ...uuid.UUID) {
	if c == nil {
		return
	}
	for _, id := range viewerIDs {
		if id == uuid.Nil {
			continue
		}
		_ = c.DeleteByPattern(ctx, deckCachePattern(id))
	}
}
