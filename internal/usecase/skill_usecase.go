package usecase

import (
	"context"
	"strings"

	"skillswap/internal/domain/skill"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

type SkillItem struct {
	ID       uuid.UUID
	Name     string
	Category string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]SkillItem, error)
	GetOrCreate(ctx context.Context, name string) (SkillItem, error)
}

type Skill struct {
	repo repository.SkillRepository
}

func NewSkillUsecase(repo repository.SkillRepository) *Skill {
	return &Skill{repo: repo}
}

func (u *Skill) ListSkills(ctx context.Context) ([]SkillItem, error) {
	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name, Category: it.Category})
	}
	return out, nil
}

func (u *Skill) GetOrCreate(ctx context.Context, name string) (SkillItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SkillItem{}, ErrInvalidInput
	}

	s, err := u.repo.GetOrCreate(ctx, name, skill.DefaultCategory)
	if err != nil {
		return SkillItem{}, ErrInternal
	}
	return SkillItem{ID: s.ID, Name: s.Name, Category: s.Category}, nil
}
