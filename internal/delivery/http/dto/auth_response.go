package dto

import (
	"time"

	"skillswap/internal/domain/user"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Bio             string    `json:"bio"`
	Location        string    `json:"location"`
	ProfilePhoto    string    `json:"profile_photo"`
	IsProfilePublic bool      `json:"is_profile_public"`
	EmailVerified   bool      `json:"email_verified"`
	Availability    string    `json:"availability"`
	CreatedAt       time.Time `json:"created_at"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Bio:             u.Bio,
		Location:        u.Location,
		ProfilePhoto:    u.ProfilePhoto,
		IsProfilePublic: u.IsProfilePublic,
		EmailVerified:   u.EmailVerified,
		Availability:    string(u.Availability),
		CreatedAt:       u.CreatedAt,
	}
}

func NewAuthResponse(u user.User, accessToken, refreshToken string) AuthResponse {
	return AuthResponse{
		User:         NewUserResponse(u),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
}
