package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"skillera/internal/domain/feedback"
	"skillera/internal/domain/match"
	"skillera/internal/domain/message"
	"skillera/internal/domain/session"
	"skillera/internal/domain/skill"
	"skillera/internal/domain/user"
	"skillera/internal/repository"

	"github.com/google/uuid"
)

// memDB backs every fake repository so cross-table reads stay consistent.
type memDB struct {
	mu sync.Mutex

	clock time.Time

	users      map[uuid.UUID]user.User
	userOrder  []uuid.UUID
	skills     map[uuid.UUID]skill.Skill
	userSkills map[uuid.UUID][]skill.UserSkill
	matches    []match.Match
	sessions   map[uuid.UUID]session.Session
	messages   []message.Message
	feedback   []feedback.Feedback
}

func newMemDB() *memDB {
	return &memDB{
		clock:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		users:      map[uuid.UUID]user.User{},
		skills:     map[uuid.UUID]skill.Skill{},
		userSkills: map[uuid.UUID][]skill.UserSkill{},
		sessions:   map[uuid.UUID]session.Session{},
	}
}

// tick returns a strictly increasing timestamp. Callers hold mu.
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) addUser(name string, mode user.PreferredMode) user.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := user.User{
		ID:            uuid.New(),
		Email:         strings.ToLower(name) + "@example.com",
		Name:          name,
		PreferredMode: mode,
		CreatedAt:     db.tick(),
	}
	db.users[u.ID] = u
	db.userOrder = append(db.userOrder, u.ID)
	return u
}

func (db *memDB) addSkill(name, category string) skill.Skill {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := skill.Skill{ID: uuid.New(), Name: name, Category: category, CreatedAt: db.tick()}
	db.skills[s.ID] = s
	return s
}

func (db *memDB) setProfile(userID uuid.UUID, entries ...skill.UserSkill) {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]skill.UserSkill, 0, len(entries))
	for _, e := range entries {
		e.ID = uuid.New()
		e.UserID = userID
		out = append(out, e)
	}
	db.userSkills[userID] = out
}

func teaches(s skill.Skill, l skill.Level) skill.UserSkill {
	return skill.UserSkill{Skill: s, Role: skill.RoleTeach, Level: l}
}

func learns(s skill.Skill, l skill.Level) skill.UserSkill {
	return skill.UserSkill{Skill: s, Role: skill.RoleLearn, Level: l}
}

func (db *memDB) summary(id uuid.UUID) user.Summary {
	return db.users[id].Summary()
}

// users

type memUsers struct{ db *memDB }

func (r memUsers) CreateUser(_ context.Context, u user.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.Email == u.Email {
			return errDuplicate
		}
	}
	u.CreatedAt = r.db.tick()
	u.UpdatedAt = u.CreatedAt
	r.db.users[u.ID] = u
	r.db.userOrder = append(r.db.userOrder, u.ID)
	return nil
}

func (r memUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r memUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (r memUsers) UpdateUser(_ context.Context, u user.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	u.UpdatedAt = r.db.tick()
	r.db.users[u.ID] = u
	return nil
}

var errDuplicate = errors.New("duplicate email")

// skills

type memSkills struct{ db *memDB }

func (r memSkills) GetAllSkills(_ context.Context, category string) ([]skill.Skill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]skill.Skill, 0, len(r.db.skills))
	for _, s := range r.db.skills {
		if category == "" || strings.EqualFold(s.Category, category) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b skill.Skill) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r memSkills) FindByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.skills[id]
	if !ok {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

func (r memSkills) UpsertSkill(_ context.Context, name, category string) (skill.Skill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.upsertSkillLocked(name, category), nil
}

func (db *memDB) upsertSkillLocked(name, category string) skill.Skill {
	for _, s := range db.skills {
		if s.Name == name {
			return s
		}
	}
	if category == "" {
		category = skill.DefaultCategory
	}
	s := skill.Skill{ID: uuid.New(), Name: name, Category: category, CreatedAt: db.tick()}
	db.skills[s.ID] = s
	return s
}

// user skills

type memUserSkills struct{ db *memDB }

func (r memUserSkills) FindByUserID(_ context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]skill.UserSkill{}, r.db.userSkills[userID]...), nil
}

func (r memUserSkills) FindByUserIDs(_ context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]skill.UserSkill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[uuid.UUID][]skill.UserSkill, len(userIDs))
	for _, id := range userIDs {
		if items, ok := r.db.userSkills[id]; ok {
			out[id] = append([]skill.UserSkill{}, items...)
		}
	}
	return out, nil
}

func (r memUserSkills) ReplaceForUser(_ context.Context, userID uuid.UUID, items []repository.ReplaceItem) ([]skill.UserSkill, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]skill.UserSkill, 0, len(items))
	for _, it := range items {
		var s skill.Skill
		if it.SkillID == uuid.Nil {
			s = r.db.upsertSkillLocked(it.SkillName, it.Category)
		} else {
			var ok bool
			if s, ok = r.db.skills[it.SkillID]; !ok {
				return nil, repository.ErrSkillNotFound
			}
		}
		out = append(out, skill.UserSkill{ID: uuid.New(), UserID: userID, Skill: s, Role: it.Role, Level: it.Level})
	}
	r.db.userSkills[userID] = out
	return append([]skill.UserSkill{}, out...), nil
}

// user queries

type memUserQuery struct{ db *memDB }

func (r memUserQuery) FindDeckCandidates(_ context.Context, viewerID uuid.UUID, teachIDs, learnIDs []uuid.UUID) ([]repository.DeckCandidate, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]repository.DeckCandidate, 0)
	for _, id := range r.db.userOrder {
		if id == viewerID || r.db.matchedLocked(viewerID, id) {
			continue
		}
		hit := false
		for _, us := range r.db.userSkills[id] {
			if us.Role == skill.RoleLearn && slices.Contains(teachIDs, us.Skill.ID) ||
				us.Role == skill.RoleTeach && slices.Contains(learnIDs, us.Skill.ID) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		u := r.db.users[id]
		out = append(out, repository.DeckCandidate{Summary: u.Summary(), PreferredMode: u.PreferredMode, TimeZone: u.TimeZone})
	}
	return out, nil
}

func (r memUserQuery) GetSummaries(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.Summary, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[uuid.UUID]user.Summary, len(ids))
	for _, id := range ids {
		if u, ok := r.db.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (db *memDB) matchedLocked(a, b uuid.UUID) bool {
	key := match.PairKey(a, b)
	for _, m := range db.matches {
		if match.PairKey(m.UserAID, m.UserBID) == key {
			return true
		}
	}
	return false
}

// matches

type memMatches struct{ db *memDB }

func (r memMatches) FindByID(_ context.Context, id uuid.UUID) (match.Match, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range r.db.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return match.Match{}, repository.ErrMatchNotFound
}

func (r memMatches) FindByPair(_ context.Context, a, b uuid.UUID) (match.Match, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.findByPairLocked(a, b)
}

func (r memMatches) findByPairLocked(a, b uuid.UUID) (match.Match, error) {
	key := match.PairKey(a, b)
	for _, m := range r.db.matches {
		if match.PairKey(m.UserAID, m.UserBID) == key {
			return m, nil
		}
	}
	return match.Match{}, repository.ErrMatchNotFound
}

func (r memMatches) CreateIfAbsent(_ context.Context, m match.Match) (match.Match, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if existing, err := r.findByPairLocked(m.UserAID, m.UserBID); err == nil {
		return existing, false, nil
	}
	m.MatchedAt = r.db.tick()
	r.db.matches = append(r.db.matches, m)
	return m, true, nil
}

func (r memMatches) ListByUser(_ context.Context, userID uuid.UUID, status match.Status) ([]match.Match, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]match.Match, 0)
	for i := len(r.db.matches) - 1; i >= 0; i-- {
		m := r.db.matches[i]
		if m.HasParticipant(userID) && (status == "" || m.Status == status) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memMatches) ListPartnerIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]uuid.UUID, 0)
	for _, m := range r.db.matches {
		if m.HasParticipant(userID) {
			out = append(out, m.Other(userID))
		}
	}
	return out, nil
}

func (r memMatches) count() int {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.matches)
}

// sessions

type memSessions struct{ db *memDB }

func (r memSessions) Create(_ context.Context, s session.Session) (session.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s.CreatedAt = r.db.tick()
	s.UpdatedAt = s.CreatedAt
	if s.FocusSkillID != nil {
		s.FocusSkillName = r.db.skills[*s.FocusSkillID].Name
	}
	r.db.sessions[s.ID] = s
	return s, nil
}

func (r memSessions) FindByID(_ context.Context, id uuid.UUID) (session.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[id]
	if !ok {
		return session.Session{}, repository.ErrSessionNotFound
	}
	return s, nil
}

func (r memSessions) Update(_ context.Context, s session.Session) (session.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sessions[s.ID]; !ok {
		return session.Session{}, repository.ErrSessionNotFound
	}
	s.UpdatedAt = r.db.tick()
	r.db.sessions[s.ID] = s
	return s, nil
}

func (r memSessions) ListByUser(_ context.Context, userID uuid.UUID, status session.Status) ([]session.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]session.Session, 0)
	for _, s := range r.db.sessions {
		if status != "" && s.Status != status {
			continue
		}
		for _, m := range r.db.matches {
			if m.ID == s.MatchID && m.HasParticipant(userID) {
				out = append(out, s)
			}
		}
	}
	slices.SortFunc(out, func(a, b session.Session) int { return a.CreatedAt.Compare(b.CreatedAt) })
	if status == session.StatusCompleted {
		slices.Reverse(out)
	}
	return out, nil
}

func (r memSessions) ListByMatch(_ context.Context, matchID uuid.UUID) ([]session.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]session.Session, 0)
	for _, s := range r.db.sessions {
		if s.MatchID == matchID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b session.Session) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r memSessions) LatestByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]session.Session, error) {
	out := make(map[uuid.UUID]session.Session)
	for _, id := range matchIDs {
		items, _ := r.ListByMatch(ctx, id)
		if len(items) > 0 {
			out[id] = items[0]
		}
	}
	return out, nil
}

func (r memSessions) UpcomingByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]session.Session, error) {
	out := make(map[uuid.UUID]session.Session)
	for _, id := range matchIDs {
		items, _ := r.ListByMatch(ctx, id)
		for i := len(items) - 1; i >= 0; i-- {
			if items[i].Status == session.StatusProposed || items[i].Status == session.StatusAccepted {
				out[id] = items[i]
				break
			}
		}
	}
	return out, nil
}

func (r memSessions) CountCompletedByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	items, _ := r.ListByUser(ctx, userID, session.StatusCompleted)
	return len(items), nil
}

// messages

type memMessages struct{ db *memDB }

func (r memMessages) Create(_ context.Context, m message.Message) (message.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m.CreatedAt = r.db.tick()
	sender := r.db.users[m.SenderID]
	m.SenderName = sender.Name
	m.SenderAvatar = sender.AvatarURL
	r.db.messages = append(r.db.messages, m)
	return m, nil
}

func (r memMessages) ListByMatch(_ context.Context, matchID uuid.UUID) ([]message.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]message.Message, 0)
	for _, m := range r.db.messages {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memMessages) LastByMatchIDs(_ context.Context, matchIDs []uuid.UUID) (map[uuid.UUID]message.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make(map[uuid.UUID]message.Message)
	for _, m := range r.db.messages {
		if slices.Contains(matchIDs, m.MatchID) {
			out[m.MatchID] = m
		}
	}
	return out, nil
}

// feedback

type memFeedback struct{ db *memDB }

func (r memFeedback) Upsert(_ context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, existing := range r.db.feedback {
		if existing.SessionID == f.SessionID && existing.FromUserID == f.FromUserID && existing.ToUserID == f.ToUserID {
			f.ID = existing.ID
			f.CreatedAt = existing.CreatedAt
			f.UpdatedAt = r.db.tick()
			r.db.feedback[i] = f
			return f, nil
		}
	}
	f.CreatedAt = r.db.tick()
	f.UpdatedAt = f.CreatedAt
	r.db.feedback = append(r.db.feedback, f)
	return f, nil
}

func (r memFeedback) ListBySession(_ context.Context, sessionID uuid.UUID) ([]feedback.Feedback, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]feedback.Feedback, 0)
	for _, f := range r.db.feedback {
		if f.SessionID == sessionID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r memFeedback) ListReceived(_ context.Context, userID uuid.UUID) ([]feedback.Received, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]feedback.Received, 0)
	for _, f := range r.db.feedback {
		if f.ToUserID != userID {
			continue
		}
		s := r.db.sessions[f.SessionID]
		for _, m := range r.db.matches {
			if m.ID == s.MatchID {
				out = append(out, feedback.Received{Rating: f.Rating, FocusRole: s.FocusRole, UserAID: m.UserAID, UserBID: m.UserBID})
			}
		}
	}
	return out, nil
}

// cache

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	c.sets++
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// events

type published struct {
	room    string
	event   string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishToUser(userID uuid.UUID, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{room: "user:" + userID.String(), event: event, payload: payload})
}

func (p *recordingPublisher) PublishToMatch(matchID uuid.UUID, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{room: "match:" + matchID.String(), event: event, payload: payload})
}

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published{}, p.events...)
}
