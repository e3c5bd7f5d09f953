package seeder

import (
	"context"
	"fmt"

	"skillera/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

var defaultSkills = []struct {
	Name     string
	Category string
}{
	{Name: "UI/UX Design", Category: "Tech"},
	{Name: "Watercolor Painting", Category: "Arts"},
	{Name: "JavaScript", Category: "Tech"},
	{Name: "React", Category: "Tech"},
	{Name: "Guitar", Category: "Arts"},
	{Name: "Cooking", Category: "Lifestyle"},
	{Name: "Yoga", Category: "Fitness"},
	{Name: "Mindfulness Coaching", Category: "Wellness"},
	{Name: "Video Editing", Category: "Tech"},
	{Name: "Graphic Design", Category: "Arts"},
	{Name: "Music Production", Category: "Arts"},
	{Name: "Python", Category: "Tech"},
	{Name: "Data Analysis", Category: "Tech"},
	{Name: "Public Speaking", Category: "Professional"},
	{Name: "Photography", Category: "Arts"},
	{Name: "Spanish", Category: "Language"},
	{Name: "French", Category: "Language"},
	{Name: "Piano", Category: "Arts"},
	{Name: "Web Development", Category: "Tech"},
	{Name: "Writing", Category: "Professional"},
}

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range defaultSkills {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name) DO NOTHING`,
				it.Name,
				it.Category,
			); err != nil {
				return fmt.Errorf("insert skill %s: %w", it.Name, err)
			}
		}
		return nil
	})
}
