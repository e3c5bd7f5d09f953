// Package matching computes teach/learn compatibility between two skill
// profiles. Everything here is pure: callers load profiles and existing
// matches and pass them in.
package matching

import (
	"math"
	"strings"

	"skillera/internal/domain/match"
	"skillera/internal/domain/skill"
	"skillera/internal/domain/user"

	"github.com/google/uuid"
)

// MaxPossibleMatches is the match count at which CompatibilityScore
// saturates.
const MaxPossibleMatches = 10

type ProfileEntry struct {
	Skill skill.Skill
	Role  skill.Role
	Level skill.Level
}

// SkillLevel is one overlapping skill with the teaching side's level.
type SkillLevel struct {
	Skill skill.Skill
	Level skill.Level
}

type Overlap struct {
	ICanTeachThem  []SkillLevel
	TheyCanTeachMe []SkillLevel
	MatchCount     int
}

func (o Overlap) Score() int {
	return CompatibilityScore(o.MatchCount)
}

// Summary drops everything but skill names, which is what a match stores.
func (o Overlap) Summary() match.Summary {
	return match.Summary{
		ICanTeachThem:  skillNames(o.ICanTeachThem),
		TheyCanTeachMe: skillNames(o.TheyCanTeachMe),
	}
}

type Candidate struct {
	UserID        uuid.UUID
	PreferredMode user.PreferredMode
	Skills        []ProfileEntry
}

type DeckFilter struct {
	OnlineOnly bool
	// Category restricts which overlapping skills qualify a candidate. It
	// does not hide the candidate's other skills.
	Category string
}

type DeckEntry struct {
	Candidate Candidate
	Overlap   Overlap
}

type entryKey struct {
	skillID uuid.UUID
	role    skill.Role
}

// profile is a skill list keyed by (skill, role). When the same key appears
// more than once the last entry wins but keeps the position of the first.
type profile struct {
	order   []entryKey
	entries map[entryKey]ProfileEntry
}

func indexProfile(list []ProfileEntry) profile {
	p := profile{
		order:   make([]entryKey, 0, len(list)),
		entries: make(map[entryKey]ProfileEntry, len(list)),
	}
	for _, e := range list {
		if e.Skill.ID == uuid.Nil || !e.Role.Valid() {
			continue
		}
		k := entryKey{skillID: e.Skill.ID, role: e.Role}
		if _, seen := p.entries[k]; !seen {
			p.order = append(p.order, k)
		}
		p.entries[k] = e
	}
	return p
}

func (p profile) has(skillID uuid.UUID, role skill.Role) bool {
	_, ok := p.entries[entryKey{skillID: skillID, role: role}]
	return ok
}

// ComputeOverlap returns the skills viewer can teach other and the skills
// other can teach viewer. Lists follow the teaching side's profile order.
func ComputeOverlap(viewer, other []ProfileEntry) Overlap {
	vp := indexProfile(viewer)
	op := indexProfile(other)

	mine := teachable(vp, op)
	theirs := teachable(op, vp)
	return Overlap{
		ICanTeachThem:  mine,
		TheyCanTeachMe: theirs,
		MatchCount:     len(mine) + len(theirs),
	}
}

func teachable(teacher, learner profile) []SkillLevel {
	out := make([]SkillLevel, 0)
	for _, k := range teacher.order {
		if k.role != skill.RoleTeach {
			continue
		}
		if !learner.has(k.skillID, skill.RoleLearn) {
			continue
		}
		e := teacher.entries[k]
		out = append(out, SkillLevel{Skill: e.Skill, Level: e.Level})
	}
	return out
}

// CompatibilityScore maps a match count to 0..100, linear up to
// MaxPossibleMatches. It is a display heuristic, not a ranking.
func CompatibilityScore(matchCount int) int {
	if matchCount <= 0 {
		return 0
	}
	s := int(math.Round(float64(matchCount) / MaxPossibleMatches * 100))
	if s > 100 {
		return 100
	}
	return s
}

// CandidateIsEligible decides whether candidate belongs in viewer's deck.
// matched holds every user the viewer already has a match with, whichever
// side of the match they are stored on.
func CandidateIsEligible(viewerID uuid.UUID, viewer []ProfileEntry, c Candidate, matched map[uuid.UUID]struct{}, f DeckFilter) bool {
	return candidateIsEligible(viewerID, indexProfile(viewer), c, matched, f)
}

func candidateIsEligible(viewerID uuid.UUID, vp profile, c Candidate, matched map[uuid.UUID]struct{}, f DeckFilter) bool {
	if c.UserID == uuid.Nil || c.UserID == viewerID {
		return false
	}
	if _, ok := matched[c.UserID]; ok {
		return false
	}
	if f.OnlineOnly && !c.PreferredMode.AcceptsOnline() {
		return false
	}

	category := strings.TrimSpace(f.Category)
	cp := indexProfile(c.Skills)
	for _, k := range cp.order {
		if category != "" && !strings.EqualFold(cp.entries[k].Skill.Category, category) {
			continue
		}
		switch k.role {
		case skill.RoleLearn:
			if vp.has(k.skillID, skill.RoleTeach) {
				return true
			}
		case skill.RoleTeach:
			if vp.has(k.skillID, skill.RoleLearn) {
				return true
			}
		}
	}
	return false
}

// BuildDeck filters candidates and attaches the overlap for each one. The
// input order is preserved.
func BuildDeck(viewerID uuid.UUID, viewer []ProfileEntry, candidates []Candidate, matched map[uuid.UUID]struct{}, f DeckFilter) []DeckEntry {
	vp := indexProfile(viewer)
	out := make([]DeckEntry, 0, len(candidates))
	for _, c := range candidates {
		if !candidateIsEligible(viewerID, vp, c, matched, f) {
			continue
		}
		out = append(out, DeckEntry{Candidate: c, Overlap: ComputeOverlap(viewer, c.Skills)})
	}
	return out
}

func skillNames(items []SkillLevel) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Skill.Name)
	}
	return out
}

// ProfileFromUserSkills adapts stored profile rows to engine input.
func ProfileFromUserSkills(items []skill.UserSkill) []ProfileEntry {
	out := make([]ProfileEntry, 0, len(items))
	for _, it := range items {
		out = append(out, ProfileEntry{Skill: it.Skill, Role: it.Role, Level: it.Level})
	}
	return out
}
