package user

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"skillera/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("user not found")
	ErrInternal     = errors.New("internal error")
)

// UpdateProfileInput is a partial update: nil fields are left alone, an
// empty string clears an optional text field.
type UpdateProfileInput struct {
	Name          *string
	Age           *int
	Bio           *string
	AvatarURL     *string
	Location      *string
	TimeZone      *string
	PreferredMode *string
	Availability  json.RawMessage
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(usr), nil
}

// UpdateProfile applies in to targetID. Only the owner may edit a profile.
func (s *Service) UpdateProfile(ctx context.Context, actorID, targetID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	if actorID == uuid.Nil || actorID != targetID {
		return user.User{}, ErrForbidden
	}

	usr, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return user.User{}, ErrInvalidInput
		}
		usr.Name = name
	}
	if in.Age != nil {
		if *in.Age < 0 || *in.Age > 150 {
			return user.User{}, ErrInvalidInput
		}
		age := *in.Age
		usr.Age = &age
	}
	if in.PreferredMode != nil {
		mode := user.PreferredMode(strings.ToUpper(strings.TrimSpace(*in.PreferredMode)))
		if !mode.Valid() {
			return user.User{}, ErrInvalidInput
		}
		usr.PreferredMode = mode
	}
	if len(in.Availability) > 0 {
		if !json.Valid(in.Availability) {
			return user.User{}, ErrInvalidInput
		}
		if string(in.Availability) == "null" {
			usr.Availability = nil
		} else {
			usr.Availability = in.Availability
		}
	}
	applyText(&usr.Bio, in.Bio)
	applyText(&usr.AvatarURL, in.AvatarURL)
	applyText(&usr.Location, in.Location)
	applyText(&usr.TimeZone, in.TimeZone)

	if err := s.users.UpdateUser(ctx, usr); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, ErrInternal
	}

	updated, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(updated), nil
}

func applyText(dst **string, in *string) {
	if in == nil {
		return
	}
	v := strings.TrimSpace(*in)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
