package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSkillNotFound = errors.New("skill not found")

type SkillRepository interface {
	List(ctx context.Context) ([]skill.Skill, error)
	GetByName(ctx context.Context, name string) (skill.Skill, error)
	GetOrCreate(ctx context.Context, name, category string) (skill.Skill, error)
	CountOffered(ctx context.Context) (int64, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) List(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, category, description, created_at FROM skills ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) GetByName(ctx context.Context, name string) (skill.Skill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, category, description, created_at FROM skills WHERE LOWER(name) = LOWER($1)`,
		strings.TrimSpace(name),
	)

	var s skill.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

// GetOrCreate resolves a skill by name, creating it on first use. The
// insert targets the LOWER(name) unique index, so two concurrent calls
// for a new name converge on a single row; the loser falls through to
// the fetch.
func (r *PostgresSkillRepository) GetOrCreate(ctx context.Context, name, category string) (skill.Skill, error) {
	name = strings.TrimSpace(name)
	if category == "" {
		category = skill.DefaultCategory
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, name, category)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (LOWER(name)) DO NOTHING`,
		uuid.New(), name, category,
	)
	if err != nil {
		return skill.Skill{}, err
	}

	return r.GetByName(ctx, name)
}

// CountOffered counts distinct skills with at least one OFFERED link.
func (r *PostgresSkillRepository) CountOffered(ctx context.Context) (int64, error) {
	var n int64
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT skill_id) FROM user_skills WHERE link_type = $1`,
		skill.LinkOffered,
	)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
