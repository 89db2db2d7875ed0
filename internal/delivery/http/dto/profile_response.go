package dto

import (
	"skillswap/internal/usecase"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	ProfilePhoto   string    `json:"profile_photo,omitempty"`
	Location       string    `json:"location,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	AverageRating  float64   `json:"average_rating"`
	TotalReviews   int       `json:"total_reviews"`
	CompletedSwaps int       `json:"completed_swaps"`
	Availability   string    `json:"availability"`
	SkillsOffered  []string  `json:"skills_offered"`
	SkillsWanted   []string  `json:"skills_wanted"`
}

func NewProfileResponse(p usecase.ProfileSummary) ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		ProfilePhoto:   p.ProfilePhoto,
		Location:       p.Location,
		Bio:            p.Bio,
		AverageRating:  p.AverageRating,
		TotalReviews:   p.TotalReviews,
		CompletedSwaps: p.CompletedSwaps,
		Availability:   string(p.Availability),
		SkillsOffered:  p.SkillsOffered,
		SkillsWanted:   p.SkillsWanted,
	}
}

type ProfilePageResponse struct {
	Items         []ProfileResponse `json:"items"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
	HasNext       bool              `json:"has_next"`
	HasPrevious   bool              `json:"has_previous"`
}

func NewProfilePageResponse(p usecase.ProfilePage) ProfilePageResponse {
	items := make([]ProfileResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, NewProfileResponse(it))
	}
	return ProfilePageResponse{
		Items:         items,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		HasNext:       p.HasNext,
		HasPrevious:   p.HasPrevious,
	}
}

type PlatformStatsResponse struct {
	ActiveMembers           int64 `json:"active_members"`
	SuccessfulMatches       int64 `json:"successful_matches"`
	TotalSkillsOffered      int64 `json:"total_skills_offered"`
	TotalConnectionRequests int64 `json:"total_connection_requests"`
}

func NewPlatformStatsResponse(s usecase.PlatformStats) PlatformStatsResponse {
	return PlatformStatsResponse{
		ActiveMembers:           s.ActiveMembers,
		SuccessfulMatches:       s.SuccessfulMatches,
		TotalSkillsOffered:      s.TotalSkillsOffered,
		TotalConnectionRequests: s.TotalConnectionRequests,
	}
}
