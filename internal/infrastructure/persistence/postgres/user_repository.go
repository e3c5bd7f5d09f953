package postgres

import (
	"context"
	"errors"

	"skillera/internal/database"
	"skillera/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, age, bio, avatar_url, location, time_zone,
	preferred_mode, availability, created_at, updated_at`

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) error {
	mode := u.PreferredMode
	if mode == "" {
		mode = user.ModeEither
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, age, bio, avatar_url, location, time_zone, preferred_mode, availability)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Age, u.Bio, u.AvatarURL, u.Location, u.TimeZone,
		string(mode), nullableJSON(u.Availability),
	)
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, u user.User) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE users
		 SET email = $2, password_hash = $3, name = $4, age = $5, bio = $6, avatar_url = $7,
		     location = $8, time_zone = $9, preferred_mode = $10, availability = $11, updated_at = now()
		 WHERE id = $1`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Age, u.Bio, u.AvatarURL, u.Location, u.TimeZone,
		string(u.PreferredMode), nullableJSON(u.Availability),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u     user.User
		avail []byte
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Age, &u.Bio, &u.AvatarURL, &u.Location, &u.TimeZone,
		&u.PreferredMode, &avail, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	if len(avail) > 0 {
		u.Availability = avail
	}
	return u, nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
