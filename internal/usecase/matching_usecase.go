package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"skillera/internal/domain/match"
	"skillera/internal/domain/matching"
	"skillera/internal/domain/session"
	"skillera/internal/domain/skill"
	"skillera/internal/domain/user"
	"skillera/internal/repository"

	"github.com/google/uuid"
)

type DeckItem struct {
	User          user.Summary
	PreferredMode user.PreferredMode
	TimeZone      *string
	Skills        []skill.UserSkill
	Overlap       matching.Overlap
}

// MatchView is a match seen from one participant. Compatibility is
// recomputed from the current profiles; Match.Summary keeps the snapshot
// taken at creation, from the creator's point of view.
type MatchView struct {
	Match         match.Match
	Buddy         user.Summary
	Compatibility matching.Overlap
	LatestSession *session.Session
}

type MatchDetail struct {
	MatchView
	BuddySkills []skill.UserSkill
	Sessions    []session.Session
}

type CreateMatchResult struct {
	Match   match.Match
	Created bool
}

type MatchingUsecase interface {
	Deck(ctx context.Context, viewerID uuid.UUID, f matching.DeckFilter) ([]DeckItem, error)
	CreateMatch(ctx context.Context, viewerID, otherID uuid.UUID) (CreateMatchResult, error)
	ListMatches(ctx context.Context, viewerID uuid.UUID) ([]MatchView, error)
	GetMatch(ctx context.Context, viewerID, matchID uuid.UUID) (MatchDetail, error)
}

type Matching struct {
	users      user.Repository
	userQuery  repository.UserQueryRepository
	userSkills repository.UserSkillRepository
	matches    repository.MatchRepository
	sessions   repository.SessionRepository

	cache    DeckCache
	cacheTTL time.Duration
	events   EventPublisher
	logger   *log.Logger
}

type MatchingDeps struct {
	Users      user.Repository
	UserQuery  repository.UserQueryRepository
	UserSkills repository.UserSkillRepository
	Matches    repository.MatchRepository
	Sessions   repository.SessionRepository
	Cache      DeckCache
	CacheTTL   time.Duration
	Events     EventPublisher
	Logger     *log.Logger
}

func NewMatchingUsecase(d MatchingDeps) *Matching {
	return &Matching{
		users:      d.Users,
		userQuery:  d.UserQuery,
		userSkills: d.UserSkills,
		matches:    d.Matches,
		sessions:   d.Sessions,
		cache:      d.Cache,
		cacheTTL:   d.CacheTTL,
		events:     publisherOrNoop(d.Events),
		logger:     d.Logger,
	}
}

func (u *Matching) Deck(ctx context.Context, viewerID uuid.UUID, f matching.DeckFilter) ([]DeckItem, error) {
	if viewerID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if _, err := u.users.GetUserByID(ctx, viewerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}

	key := DeckCacheKey(viewerID, f.OnlineOnly, f.Category)
	if u.cache != nil {
		var cached []DeckItem
		if ok, err := u.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	viewerSkills, err := u.userSkills.FindByUserID(ctx, viewerID)
	if err != nil {
		return nil, ErrInternal
	}
	viewer := matching.ProfileFromUserSkills(viewerSkills)

	teachIDs, learnIDs := splitSkillIDs(viewerSkills)
	candidates, err := u.userQuery.FindDeckCandidates(ctx, viewerID, teachIDs, learnIDs)
	if err != nil {
		return nil, ErrInternal
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	byID := make(map[uuid.UUID]repository.DeckCandidate, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Summary.ID)
		byID[c.Summary.ID] = c
	}
	skillsByUser, err := u.userSkills.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, ErrInternal
	}

	partners, err := u.matches.ListPartnerIDs(ctx, viewerID)
	if err != nil {
		return nil, ErrInternal
	}
	matched := make(map[uuid.UUID]struct{}, len(partners))
	for _, id := range partners {
		matched[id] = struct{}{}
	}

	pool := make([]matching.Candidate, 0, len(candidates))
	for _, c := range candidates {
		pool = append(pool, matching.Candidate{
			UserID:        c.Summary.ID,
			PreferredMode: c.PreferredMode,
			Skills:        matching.ProfileFromUserSkills(skillsByUser[c.Summary.ID]),
		})
	}

	entries := matching.BuildDeck(viewerID, viewer, pool, matched, f)
	out := make([]DeckItem, 0, len(entries))
	for _, e := range entries {
		c := byID[e.Candidate.UserID]
		skills := skillsByUser[c.Summary.ID]
		if skills == nil {
			skills = []skill.UserSkill{}
		}
		out = append(out, DeckItem{
			User:          c.Summary,
			PreferredMode: c.PreferredMode,
			TimeZone:      c.TimeZone,
			Skills:        skills,
			Overlap:       e.Overlap,
		})
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, out, u.cacheTTL); err != nil && u.logger != nil {
			u.logger.Printf("Deck cache set failed | viewer_id=%s err=%v", viewerID, err)
		}
	}
	return out, nil
}

func (u *Matching) CreateMatch(ctx context.Context, viewerID, otherID uuid.UUID) (CreateMatchResult, error) {
	if viewerID == uuid.Nil {
		return CreateMatchResult{}, ErrUnauthorized
	}
	if otherID == uuid.Nil {
		return CreateMatchResult{}, ErrInvalidInput
	}
	if otherID == viewerID {
		return CreateMatchResult{}, ErrSelfMatch
	}

	viewerUser, err := u.users.GetUserByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return CreateMatchResult{}, ErrUserNotFound
		}
		return CreateMatchResult{}, ErrInternal
	}
	if _, err := u.users.GetUserByID(ctx, otherID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return CreateMatchResult{}, ErrUserNotFound
		}
		return CreateMatchResult{}, ErrInternal
	}

	existing, err := u.matches.FindByPair(ctx, viewerID, otherID)
	if err == nil {
		return CreateMatchResult{Match: existing, Created: false}, nil
	}
	if !errors.Is(err, repository.ErrMatchNotFound) {
		return CreateMatchResult{}, ErrInternal
	}

	profiles, err := u.userSkills.FindByUserIDs(ctx, []uuid.UUID{viewerID, otherID})
	if err != nil {
		return CreateMatchResult{}, ErrInternal
	}
	overlap := matching.ComputeOverlap(
		matching.ProfileFromUserSkills(profiles[viewerID]),
		matching.ProfileFromUserSkills(profiles[otherID]),
	)

	m, created, err := u.matches.CreateIfAbsent(ctx, match.Match{
		ID:      uuid.New(),
		UserAID: viewerID,
		UserBID: otherID,
		Status:  match.StatusActive,
		Summary: overlap.Summary(),
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return CreateMatchResult{}, ErrUserNotFound
		}
		return CreateMatchResult{}, ErrInternal
	}

	if created {
		invalidateDecks(ctx, u.cache, viewerID, otherID)
		u.events.PublishToUser(otherID, EventMatchCreated, MatchCreatedEvent{
			MatchID:   m.ID,
			UserID:    viewerID,
			UserName:  viewerUser.Name,
			MatchedAt: m.MatchedAt,
		})
	}
	return CreateMatchResult{Match: m, Created: created}, nil
}

func (u *Matching) ListMatches(ctx context.Context, viewerID uuid.UUID) ([]MatchView, error) {
	if viewerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	items, err := u.matches.ListByUser(ctx, viewerID, match.StatusActive)
	if err != nil {
		return nil, ErrInternal
	}
	if len(items) == 0 {
		return []MatchView{}, nil
	}

	partnerIDs := make([]uuid.UUID, 0, len(items))
	matchIDs := make([]uuid.UUID, 0, len(items))
	for _, m := range items {
		partnerIDs = append(partnerIDs, m.Other(viewerID))
		matchIDs = append(matchIDs, m.ID)
	}

	summaries, err := u.userQuery.GetSummaries(ctx, partnerIDs)
	if err != nil {
		return nil, ErrInternal
	}
	profiles, err := u.userSkills.FindByUserIDs(ctx, append(partnerIDs, viewerID))
	if err != nil {
		return nil, ErrInternal
	}
	latest, err := u.sessions.LatestByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, ErrInternal
	}

	viewer := matching.ProfileFromUserSkills(profiles[viewerID])
	out := make([]MatchView, 0, len(items))
	for _, m := range items {
		other := m.Other(viewerID)
		v := MatchView{
			Match:         m,
			Buddy:         summaries[other],
			Compatibility: matching.ComputeOverlap(viewer, matching.ProfileFromUserSkills(profiles[other])),
		}
		if s, ok := latest[m.ID]; ok {
			v.LatestSession = &s
		}
		out = append(out, v)
	}
	return out, nil
}

func (u *Matching) GetMatch(ctx context.Context, viewerID, matchID uuid.UUID) (MatchDetail, error) {
	if viewerID == uuid.Nil {
		return MatchDetail{}, ErrUnauthorized
	}

	m, err := u.matches.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return MatchDetail{}, ErrMatchNotFound
		}
		return MatchDetail{}, ErrInternal
	}
	if !m.HasParticipant(viewerID) {
		return MatchDetail{}, ErrForbidden
	}

	other := m.Other(viewerID)
	summaries, err := u.userQuery.GetSummaries(ctx, []uuid.UUID{other})
	if err != nil {
		return MatchDetail{}, ErrInternal
	}
	profiles, err := u.userSkills.FindByUserIDs(ctx, []uuid.UUID{viewerID, other})
	if err != nil {
		return MatchDetail{}, ErrInternal
	}
	sessions, err := u.sessions.ListByMatch(ctx, m.ID)
	if err != nil {
		return MatchDetail{}, ErrInternal
	}

	buddySkills := profiles[other]
	if buddySkills == nil {
		buddySkills = []skill.UserSkill{}
	}
	compat := matching.ComputeOverlap(
		matching.ProfileFromUserSkills(profiles[viewerID]),
		matching.ProfileFromUserSkills(buddySkills),
	)
	d := MatchDetail{
		MatchView:   MatchView{Match: m, Buddy: summaries[other], Compatibility: compat},
		BuddySkills: buddySkills,
		Sessions:    sessions,
	}
	if len(sessions) > 0 {
		latest := sessions[0]
		d.LatestSession = &latest
	}
	return d, nil
}

func splitSkillIDs(items []skill.UserSkill) (teach, learn []uuid.UUID) {
	teach = make([]uuid.UUID, 0, len(items))
	learn = make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		switch it.Role {
		case skill.RoleTeach:
			teach = append(teach, it.Skill.ID)
		case skill.RoleLearn:
			learn = append(learn, it.Skill.ID)
		}
	}
	return teach, learn
}
