package handler

import (
	"context"
	"errors"

	"skillswap/internal/delivery/http/dto"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/pkg/response"
	"skillswap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ConnectionHandler struct {
	uc usecase.ConnectionUsecase
}

type sendRequestBody struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
	Message    string    `json:"message"`
}

func NewConnectionHandler(uc usecase.ConnectionUsecase) *ConnectionHandler {
	return &ConnectionHandler{uc: uc}
}

func (h *ConnectionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/connections")
	grp.Post("/", h.Send)
	grp.Get("/received", h.ListReceived)
	grp.Get("/sent", h.ListSent)
	grp.Post("/:id/accept", h.Accept)
	grp.Post("/:id/decline", h.Decline)
	grp.Post("/:id/cancel", h.Cancel)
}

func (h *ConnectionHandler) Send(c fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req sendRequestBody
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.ReceiverID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Receiver is required", nil, nil)
	}

	item, err := h.uc.SendRequest(c.Context(), userID, req.ReceiverID, req.Message)
	if err != nil {
		return mapConnectionError(err)
	}

	msg := "Connection request sent successfully to " + item.Receiver.FullName()
	return response.Success(c, fiber.StatusOK, msg, dto.NewConnectionRequestResponse(item))
}

func (h *ConnectionHandler) ListReceived(c fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListReceived(c.Context(), userID)
	if err != nil {
		return mapConnectionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConnectionRequestListResponse(items))
}

func (h *ConnectionHandler) ListSent(c fiber.Ctx) error {
	userID, ok := callerID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListSent(c.Context(), userID)
	if err != nil {
		return mapConnectionError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConnectionRequestListResponse(items))
}

func (h *ConnectionHandler) Accept(c fiber.Ctx) error {
	return h.transition(c, h.uc.Accept, "Connection request accepted successfully")
}

func (h *ConnectionHandler) Decline(c fiber.Ctx) error {
	return h.transition(c, h.uc.Decline, "Connection request declined successfully")
}

func (h *ConnectionHandler) Cancel(c fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel, "Connection request cancelled successfully")
}

func (h *ConnectionHandler) transition(
	c fiber.Ctx,
	op func(ctx context.Context, userID, requestID uuid.UUID) (usecase.ConnectionItem, error),
	successMsg string,
) error {
	userID, ok := callerID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request id", nil, err)
	}

	item, err := op(c.Context(), userID, requestID)
	if err != nil {
		return mapConnectionError(err)
	}
	return response.Success(c, fiber.StatusOK, successMsg, dto.NewConnectionRequestResponse(item))
}

func mapConnectionError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Connection request not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "You are not authorized to act on this request", nil, err)
	case errors.Is(err, usecase.ErrInvalidOperation):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "This request has already been processed", nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Connection request already exists or you are already connected", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func callerID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
