package seeder

import (
	"context"
	"fmt"
	"log"

	"skillswap/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

func Defaults() []Seeder {
	return []Seeder{
		SkillsSeeder{},
	}
}

func RunAll(ctx context.Context, db database.DB, logger *log.Logger, seeders ...Seeder) error {
	if len(seeders) == 0 {
		seeders = Defaults()
	}

	for _, s := range seeders {
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seeder %s: %w", s.Name(), err)
		}
		if logger != nil {
			logger.Printf("Seeder done | name=%s", s.Name())
		}
	}
	return nil
}
