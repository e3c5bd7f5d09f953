package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillera/internal/domain/skill"
	"skillera/internal/pkg/jwt"
	ucauth "skillera/internal/usecase/auth"
)

func newAuthUsecase(db *memDB) (*Auth, *jwt.HMACService) {
	svc := jwt.NewHMACService("skillera-test", "access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	return NewAuthUsecase(memUsers{db}, memUserSkills{db}, svc), svc
}

func TestAuth_RegisterLoginRefresh(t *testing.T) {
	db := newMemDB()
	uc, svc := newAuthUsecase(db)
	ctx := context.Background()

	reg, err := uc.Register(ctx, ucauth.RegisterInput{Name: " Dana ", Email: " Dana@Example.com ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.User.Email != "dana@example.com" || reg.User.Name != "Dana" {
		t.Fatalf("unexpected user: %+v", reg.User)
	}
	if reg.User.PasswordHash != "" {
		t.Fatal("password hash leaked")
	}
	if reg.Tokens.AccessToken == "" || reg.Tokens.RefreshToken == "" {
		t.Fatalf("missing tokens: %+v", reg.Tokens)
	}

	claims, err := svc.ValidateAccessToken(reg.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != reg.User.ID {
		t.Fatalf("subject=%s want %s", claims.UserID, reg.User.ID)
	}

	guitar := db.addSkill("Guitar", "Arts")
	db.setProfile(reg.User.ID, teaches(guitar, skill.LevelAdvanced))

	login, err := uc.Login(ctx, ucauth.LoginInput{Email: "DANA@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != reg.User.ID || len(login.Skills) != 1 {
		t.Fatalf("unexpected login result: %+v", login)
	}

	pair, err := uc.Refresh(ctx, login.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if pair.AccessToken == "" {
		t.Fatal("refresh returned no access token")
	}

	if _, err := uc.Refresh(ctx, login.Tokens.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("refresh with access token err=%v", err)
	}

	me, err := uc.Me(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.User.PasswordHash != "" || len(me.Skills) != 1 {
		t.Fatalf("unexpected profile: %+v", me)
	}
}

func TestAuth_RegisterErrors(t *testing.T) {
	db := newMemDB()
	uc, _ := newAuthUsecase(db)
	ctx := context.Background()

	if _, err := uc.Register(ctx, ucauth.RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "longenough"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name    string
		in      ucauth.RegisterInput
		wantErr error
	}{
		{name: "duplicate email", in: ucauth.RegisterInput{Name: "Eve 2", Email: "EVE@example.com", Password: "longenough"}, wantErr: ucauth.ErrEmailAlreadyRegistered},
		{name: "short password", in: ucauth.RegisterInput{Name: "Fay", Email: "fay@example.com", Password: "short"}, wantErr: ucauth.ErrInvalidInput},
		{name: "missing name", in: ucauth.RegisterInput{Email: "gus@example.com", Password: "longenough"}, wantErr: ucauth.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	db := newMemDB()
	uc, _ := newAuthUsecase(db)
	ctx := context.Background()

	if _, err := uc.Register(ctx, ucauth.RegisterInput{Name: "Hal", Email: "hal@example.com", Password: "open-the-pod"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := uc.Login(ctx, ucauth.LoginInput{Email: "hal@example.com", Password: "wrong-password"}); !errors.Is(err, ucauth.ErrInvalidCredentials) {
		t.Fatalf("wrong password err=%v", err)
	}
	if _, err := uc.Login(ctx, ucauth.LoginInput{Email: "nobody@example.com", Password: "open-the-pod"}); !errors.Is(err, ucauth.ErrInvalidCredentials) {
		t.Fatalf("unknown email err=%v", err)
	}
}
