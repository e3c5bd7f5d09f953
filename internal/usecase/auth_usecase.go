package usecase

import (
	"context"
	"errors"

	"skillera/internal/domain/skill"
	"skillera/internal/domain/user"
	"skillera/internal/pkg/jwt"
	"skillera/internal/repository"
	ucauth "skillera/internal/usecase/auth"

	"github.com/google/uuid"
)

type AuthResult struct {
	User   user.User
	Skills []skill.UserSkill
	Tokens jwt.TokenPair
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (AuthResult, error)
	Login(ctx context.Context, in ucauth.LoginInput) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error)
	Me(ctx context.Context, userID uuid.UUID) (user.Profile, error)
}

type Auth struct {
	authSvc    *ucauth.Service
	users      user.Repository
	userSkills repository.UserSkillRepository
	jwt        jwt.Service
}

func NewAuthUsecase(users user.Repository, userSkills repository.UserSkillRepository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), users: users, userSkills: userSkills, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (AuthResult, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}

	pair, err := u.jwt.IssuePair(usr.ID, usr.Email)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	return AuthResult{User: usr, Skills: []skill.UserSkill{}, Tokens: pair}, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (AuthResult, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}

	skills, err := u.userSkills.FindByUserID(ctx, usr.ID)
	if err != nil {
		return AuthResult{}, ErrInternal
	}

	pair, err := u.jwt.IssuePair(usr.ID, usr.Email)
	if err != nil {
		return AuthResult{}, ErrInternal
	}
	return AuthResult{User: usr, Skills: skills, Tokens: pair}, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error) {
	if refreshToken == "" {
		return jwt.TokenPair{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.TokenPair{}, ErrRefreshTokenExpired
		}
		return jwt.TokenPair{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return jwt.TokenPair{}, ErrInvalidRefreshToken
		}
		return jwt.TokenPair{}, ErrInternal
	}

	pair, err := u.jwt.IssuePair(usr.ID, usr.Email)
	if err != nil {
		return jwt.TokenPair{}, ErrInternal
	}
	return pair, nil
}

func (u *Auth) Me(ctx context.Context, userID uuid.UUID) (user.Profile, error) {
	if userID == uuid.Nil {
		return user.Profile{}, ErrUnauthorized
	}
	usr, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Profile{}, ErrUserNotFound
		}
		return user.Profile{}, ErrInternal
	}
	skills, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return user.Profile{}, ErrInternal
	}
	return user.Profile{User: ucauth.Sanitize(usr), Skills: skills}, nil
}
