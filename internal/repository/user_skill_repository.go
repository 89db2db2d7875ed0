package repository

import (
	"context"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
)

type UserSkillRepository interface {
	FindByUserAndType(ctx context.Context, userID uuid.UUID, linkType skill.LinkType) ([]skill.UserSkill, error)
	// ReplaceForUser swaps the user's full skill-link set in one
	// transaction: replace-on-update, not incremental dedup.
	ReplaceForUser(ctx context.Context, userID uuid.UUID, offered, wanted []uuid.UUID) error
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

func (r *PostgresUserSkillRepository) FindByUserAndType(ctx context.Context, userID uuid.UUID, linkType skill.LinkType) ([]skill.UserSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT us.id, us.user_id, us.skill_id, s.name, us.link_type, us.created_at
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1 AND us.link_type = $2
		 ORDER BY s.name ASC`,
		userID, linkType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.UserSkill, 0)
	for rows.Next() {
		var us skill.UserSkill
		if err := rows.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Type, &us.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, offered, wanted []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID); err != nil {
		return err
	}

	insert := func(skillIDs []uuid.UUID, linkType skill.LinkType) error {
		for _, skillID := range skillIDs {
			_, err := tx.Exec(ctx,
				`INSERT INTO user_skills (id, user_id, skill_id, link_type)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (user_id, skill_id, link_type) DO NOTHING`,
				uuid.New(), userID, skillID, linkType,
			)
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := insert(offered, skill.LinkOffered); err != nil {
		return err
	}
	if err := insert(wanted, skill.LinkWanted); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
