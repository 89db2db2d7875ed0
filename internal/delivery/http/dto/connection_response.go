package dto

import (
	"time"

	"skillswap/internal/usecase"

	"github.com/google/uuid"
)

type ConnectionRequestResponse struct {
	ID          uuid.UUID       `json:"id"`
	Message     string          `json:"message,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	RespondedAt *time.Time      `json:"responded_at,omitempty"`
	Sender      ProfileResponse `json:"sender"`
	Receiver    ProfileResponse `json:"receiver"`
}

func NewConnectionRequestResponse(it usecase.ConnectionItem) ConnectionRequestResponse {
	return ConnectionRequestResponse{
		ID:          it.ID,
		Message:     it.Message,
		Status:      string(it.Status),
		CreatedAt:   it.CreatedAt,
		RespondedAt: it.RespondedAt,
		Sender:      NewProfileResponse(it.Sender),
		Receiver:    NewProfileResponse(it.Receiver),
	}
}

func NewConnectionRequestListResponse(items []usecase.ConnectionItem) []ConnectionRequestResponse {
	out := make([]ConnectionRequestResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewConnectionRequestResponse(it))
	}
	return out
}
