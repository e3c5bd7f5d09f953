package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"skillera/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is shared by every demo account.
const DemoPassword = "demo"

type demoSkill struct {
	Name  string
	Role  string
	Level string
}

type demoUser struct {
	Name          string
	Email         string
	Age           int
	Location      string
	TimeZone      string
	Bio           string
	AvatarURL     string
	PreferredMode string
	Availability  map[string][]string
	Skills        []demoSkill
}

var demoUsers = []demoUser{
	{
		Name: "Emma", Email: "emma@skillera.com", Age: 28,
		Location: "Dublin, Ireland", TimeZone: "Europe/Dublin",
		Bio:           "Passionate designer who loves teaching design principles. Always excited to learn new coding skills!",
		AvatarURL:     "https://i.pravatar.cc/150?img=47",
		PreferredMode: "EITHER",
		Availability:  map[string][]string{"weekdays": {"evenings"}, "weekends": {"mornings", "afternoons"}},
		Skills: []demoSkill{
			{"UI/UX Design", "TEACH", "Advanced"},
			{"Watercolor Painting", "TEACH", "Intermediate"},
			{"JavaScript", "LEARN", "Beginner"},
			{"Public Speaking", "LEARN", "Beginner"},
		},
	},
	{
		Name: "Liam", Email: "liam@skillera.com", Age: 32,
		Location: "London, UK", TimeZone: "Europe/London",
		Bio:           "Full-stack developer exploring creative hobbies. Happy to teach React and JavaScript!",
		AvatarURL:     "https://i.pravatar.cc/150?img=33",
		PreferredMode: "ONLINE",
		Availability:  map[string][]string{"weekdays": {"evenings"}, "weekends": {"afternoons"}},
		Skills: []demoSkill{
			{"JavaScript", "TEACH", "Advanced"},
			{"React", "TEACH", "Advanced"},
			{"Guitar", "LEARN", "Beginner"},
			{"Cooking", "LEARN", "Intermediate"},
		},
	},
	{
		Name: "Sarah", Email: "sarah@skillera.com", Age: 35,
		Location: "New York, USA", TimeZone: "America/New_York",
		Bio:           "Yoga instructor and mindfulness coach. Looking to expand my creative skills!",
		AvatarURL:     "https://i.pravatar.cc/150?img=45",
		PreferredMode: "EITHER",
		Availability:  map[string][]string{"weekdays": {"mornings", "evenings"}, "weekends": {"mornings"}},
		Skills: []demoSkill{
			{"Yoga", "TEACH", "Expert"},
			{"Mindfulness Coaching", "TEACH", "Advanced"},
			{"Video Editing", "LEARN", "Beginner"},
			{"Graphic Design", "LEARN", "Beginner"},
		},
	},
	{
		Name: "Jake", Email: "jake@skillera.com", Age: 26,
		Location: "Toronto, Canada", TimeZone: "America/Toronto",
		Bio:           "Musician and producer. Eager to dive into data science and Python programming.",
		AvatarURL:     "https://i.pravatar.cc/150?img=12",
		PreferredMode: "EITHER",
		Availability:  map[string][]string{"weekdays": {"evenings"}, "weekends": {"mornings", "afternoons", "evenings"}},
		Skills: []demoSkill{
			{"Guitar", "TEACH", "Advanced"},
			{"Music Production", "TEACH", "Intermediate"},
			{"Python", "LEARN", "Beginner"},
			{"Data Analysis", "LEARN", "Beginner"},
		},
	},
	{
		Name: "Maya", Email: "maya@skillera.com", Age: 25,
		Location: "San Francisco, USA", TimeZone: "America/Los_Angeles",
		Bio:           "Photographer and creative professional. Love learning new tech skills!",
		AvatarURL:     "https://i.pravatar.cc/150?img=68",
		PreferredMode: "EITHER",
		Availability:  map[string][]string{"weekdays": {"evenings"}, "weekends": {"mornings", "afternoons"}},
		Skills: []demoSkill{
			{"Photography", "TEACH", "Expert"},
			{"Web Development", "LEARN", "Beginner"},
			{"UI/UX Design", "LEARN", "Beginner"},
		},
	},
	{
		Name: "Alex", Email: "alex@skillera.com", Age: 29,
		Location: "Berlin, Germany", TimeZone: "Europe/Berlin",
		Bio:           "Data scientist passionate about teaching. Learning Spanish in my free time.",
		AvatarURL:     "https://i.pravatar.cc/150?img=50",
		PreferredMode: "ONLINE",
		Availability:  map[string][]string{"weekdays": {"evenings"}, "weekends": {"mornings"}},
		Skills: []demoSkill{
			{"Python", "TEACH", "Expert"},
			{"Data Analysis", "TEACH", "Advanced"},
			{"Spanish", "LEARN", "Beginner"},
			{"Guitar", "LEARN", "Beginner"},
		},
	},
}

// DemoUsersSeeder creates the demo accounts and their skill profiles. Users
// that already exist keep their profile; missing skill rows are added. It
// expects SkillsSeeder to have run.
type DemoUsersSeeder struct {
	Password string
}

func (DemoUsersSeeder) Name() string { return "demo_users" }

func (s DemoUsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "name", "availability"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "user_skills", "id", "user_id", "skill_id", "role", "level"); err != nil {
		return err
	}

	password := s.Password
	if password == "" {
		password = DemoPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, u := range demoUsers {
			availability, err := json.Marshal(u.Availability)
			if err != nil {
				return err
			}

			var userID uuid.UUID
			err = tx.QueryRow(ctx,
				`INSERT INTO users (id, email, password_hash, name, age, bio, avatar_url, location, time_zone, preferred_mode, availability)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
				 RETURNING id`,
				uuid.New(), u.Email, string(hash), u.Name, u.Age, u.Bio, u.AvatarURL, u.Location, u.TimeZone, u.PreferredMode, string(availability),
			).Scan(&userID)
			if err != nil {
				return fmt.Errorf("upsert user %s: %w", u.Email, err)
			}

			for _, sk := range u.Skills {
				if _, err := tx.Exec(ctx,
					`INSERT INTO user_skills (id, user_id, skill_id, role, level)
					 SELECT $1::uuid, $2::uuid, s.id, $4::text, $5::text FROM skills s WHERE s.name = $3::text
					 ON CONFLICT (user_id, skill_id, role) DO NOTHING`,
					uuid.New(), userID, sk.Name, sk.Role, sk.Level,
				); err != nil {
					return fmt.Errorf("insert skill %s for %s: %w", sk.Name, u.Email, err)
				}
			}
		}
		return nil
	})
}
