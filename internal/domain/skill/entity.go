package skill

import (
	"time"

	"github.com/google/uuid"
)

const DefaultCategory = "General"

// LinkType is the direction of a user-skill link: a skill the user can
// teach (OFFERED) or one they want to learn (WANTED).
type LinkType string

const (
	LinkOffered LinkType = "OFFERED"
	LinkWanted  LinkType = "WANTED"
)

type Skill struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description string
	CreatedAt   time.Time
}

type UserSkill struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SkillID   uuid.UUID
	SkillName string
	Type      LinkType
	CreatedAt time.Time
}
