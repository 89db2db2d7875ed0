package handler

import (
	"errors"

	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/domain/user"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

type updateProfileRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Bio             *string `json:"bio"`
	Location        *string `json:"location"`
	IsProfilePublic *bool   `json:"is_profile_public"`
	Availability    *string `json:"availability"`
}

type updateSkillsRequest struct {
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// RegisterPublicRoutes mounts discovery endpoints that need no auth.
func (h *ProfileHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/profiles")
	grp.Get("/", h.Search)
	grp.Get("/stats", h.Stats)
	grp.Get("/:id", h.GetPublic)
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/users/me")
	grp.Get("/profile", h.GetMe)
	grp.Put("/profile", h.UpdateMe)
	grp.Put("/skills", h.UpdateSkills)
}

func (h *ProfileHandler) Search(c fiber.Ctx) error {
	params := usecase.SearchParams{
		Search: c.Query("search"),
		Page:   fiber.Query(c, "page", 0),
		Size:   fiber.Query(c, "size", 20),
	}

	// An unrecognized availability value means "no filter", not an error.
	if av, ok := user.ParseAvailability(c.Query("availability")); ok {
		params.Availability = &av
	}

	page, err := h.uc.Search(c.Context(), params)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfilePageResponse(page))
}

func (h *ProfileHandler) Stats(c fiber.Ctx) error {
	stats := h.uc.GetPlatformStats(c.Context())
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPlatformStatsResponse(stats))
}

func (h *ProfileHandler) GetPublic(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid user id", nil, err)
	}

	profile, err := h.uc.GetPublicProfile(c.Context(), id)
	if err != nil {
		return mapProfileError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(profile))
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	profile, err := h.uc.GetMyProfile(c.Context(), userID)
	if err != nil {
		return mapProfileError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(profile))
}

func (h *ProfileHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := usecase.UpdateProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Bio:             req.Bio,
		Location:        req.Location,
		IsProfilePublic: req.IsProfilePublic,
	}
	if req.Availability != nil {
		if av, ok := user.ParseAvailability(*req.Availability); ok {
			in.Availability = &av
		}
	}

	profile, err := h.uc.UpdateProfile(c.Context(), userID, in)
	if err != nil {
		return mapProfileError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated successfully", dto.NewProfileResponse(profile))
}

func (h *ProfileHandler) UpdateSkills(c fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateSkillsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	profile, err := h.uc.UpdateSkills(c.Context(), userID, usecase.UpdateSkillsInput{
		Offered: req.SkillsOffered,
		Wanted:  req.SkillsWanted,
	})
	if err != nil {
		return mapProfileError(err)
	}
	return response.Success(c, fiber.StatusOK, "Skills updated successfully", dto.NewProfileResponse(profile))
}

func mapProfileError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
