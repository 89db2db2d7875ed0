package seeder

import (
	"context"
	"fmt"

	"skillswap/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

// Run fills the catalog with a starter set so the landing page has
// something to show before any member lists a skill.
func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name     string
		Category string
	}{
		{Name: "Guitar", Category: "Music"},
		{Name: "Piano", Category: "Music"},
		{Name: "Photography", Category: "Creative"},
		{Name: "Cooking", Category: "Lifestyle"},
		{Name: "Spanish", Category: "Language"},
		{Name: "French", Category: "Language"},
		{Name: "Yoga", Category: "Fitness"},
		{Name: "Programming", Category: "Technology"},
		{Name: "Public Speaking", Category: "Professional"},
		{Name: "Gardening", Category: "Lifestyle"},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (LOWER(name)) DO NOTHING`,
			it.Name,
			it.Category,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
