package feedback

import (
	"math"
	"time"

	"skillera/internal/domain/session"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Feedback struct {
	ID                 uuid.UUID
	SessionID          uuid.UUID
	FromUserID         uuid.UUID
	ToUserID           uuid.UUID
	Rating             int
	Comment            *string
	ConfidenceImproved bool
	WouldRecommend     bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Received is a feedback row addressed to a user together with the context
// needed to tell whether that user taught or learned in the session.
type Received struct {
	Rating    int
	FocusRole session.FocusRole
	UserAID   uuid.UUID
	UserBID   uuid.UUID
}

// RoleAverages splits the ratings received by userID into the sessions they
// taught and the ones they learned in, and averages each group rounded to one
// decimal place. Rows with an unknown focus role count for neither group.
func RoleAverages(userID uuid.UUID, rows []Received) (asTeacher, asLearner float64) {
	var tSum, lSum, tN, lN int
	for _, r := range rows {
		if !r.FocusRole.Valid() {
			continue
		}
		teacher := r.FocusRole.Teacher(r.UserAID, r.UserBID)
		switch {
		case teacher == userID:
			tSum += r.Rating
			tN++
		case r.UserAID == userID || r.UserBID == userID:
			lSum += r.Rating
			lN++
		}
	}
	return roundedAverage(tSum, tN), roundedAverage(lSum, lN)
}

func roundedAverage(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}
