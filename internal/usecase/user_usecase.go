package usecase

import (
	"context"

	"skillera/internal/domain/feedback"
	"skillera/internal/domain/user"
	"skillera/internal/repository"
	ucuser "skillera/internal/usecase/user"

	"github.com/google/uuid"
)

type ProfileView struct {
	user.Profile
	Stats user.Stats
}

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileView, error)
	UpdateProfile(ctx context.Context, actorID, targetID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error)
}

type User struct {
	svc        *ucuser.Service
	userSkills repository.UserSkillRepository
	sessions   repository.SessionRepository
	feedback   repository.FeedbackRepository
}

func NewUserUsecase(
	users user.Repository,
	userSkills repository.UserSkillRepository,
	sessions repository.SessionRepository,
	feedbacks repository.FeedbackRepository,
) *User {
	return &User{svc: ucuser.NewService(users), userSkills: userSkills, sessions: sessions, feedback: feedbacks}
}

func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileView, error) {
	usr, err := u.svc.Get(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}

	skills, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return ProfileView{}, ErrInternal
	}

	stats, err := u.stats(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}

	return ProfileView{Profile: user.Profile{User: usr, Skills: skills}, Stats: stats}, nil
}

func (u *User) UpdateProfile(ctx context.Context, actorID, targetID uuid.UUID, in ucuser.UpdateProfileInput) (user.User, error) {
	return u.svc.UpdateProfile(ctx, actorID, targetID, in)
}

func (u *User) stats(ctx context.Context, userID uuid.UUID) (user.Stats, error) {
	completed, err := u.sessions.CountCompletedByUser(ctx, userID)
	if err != nil {
		return user.Stats{}, ErrInternal
	}
	received, err := u.feedback.ListReceived(ctx, userID)
	if err != nil {
		return user.Stats{}, ErrInternal
	}
	asTeacher, asLearner := feedback.RoleAverages(userID, received)
	return user.Stats{
		CompletedSessions:  completed,
		AvgRatingAsTeacher: asTeacher,
		AvgRatingAsLearner: asLearner,
	}, nil
}
