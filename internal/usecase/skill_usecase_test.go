package usecase

import (
	"context"
	"errors"
	"testing"

	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
)

func TestSkillUsecase_ListSkills(t *testing.T) {
	repo := &mockSkillRepo{items: []skill.Skill{
		{ID: uuid.New(), Name: "Cooking", Category: "Lifestyle"},
		{ID: uuid.New(), Name: "Guitar", Category: "Music"},
	}}
	uc := NewSkillUsecase(repo)

	items, err := uc.ListSkills(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(items))
	}
	if items[0].Name != "Cooking" || items[1].Name != "Guitar" {
		t.Fatalf("unexpected order: %v", items)
	}
}

func TestSkillUsecase_ListSkills_StorageError(t *testing.T) {
	uc := NewSkillUsecase(&mockSkillRepo{listErr: errors.New("db down")})
	if _, err := uc.ListSkills(context.Background()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestSkillUsecase_GetOrCreate_BlankName(t *testing.T) {
	uc := NewSkillUsecase(&mockSkillRepo{})
	if _, err := uc.GetOrCreate(context.Background(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSkillUsecase_GetOrCreate_TrimsAndDefaultsCategory(t *testing.T) {
	repo := &mockSkillRepo{}
	uc := NewSkillUsecase(repo)

	item, err := uc.GetOrCreate(context.Background(), "  Woodworking  ")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if item.Name != "Woodworking" {
		t.Fatalf("expected trimmed name, got %q", item.Name)
	}
	if item.Category != skill.DefaultCategory {
		t.Fatalf("expected default category, got %q", item.Category)
	}
}
