package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/internal/dto"
	"github.com/quickstay/backend-hotel/internal/service"
	"github.com/quickstay/backend-hotel/pkg/logger"
	"github.com/quickstay/backend-hotel/pkg/response"
)

// RoomHandler handles room API requests
type RoomHandler struct {
	service service.RoomService
	logger  *zap.Logger
}

// NewRoomHandler creates a room handler
func NewRoomHandler(svc service.RoomService) *RoomHandler {
	return &RoomHandler{
		service: svc,
		logger:  logger.Get(),
	}
}

// CreateRoom handles POST /api/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "roomType and pricePerNight are required")
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), req.Hotel, req.RoomType, req.PricePerNight, req.Amenities, req.Images)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Created(c, response.Envelope{"room": room})
}

// GetAllRooms handles GET /api/rooms
func (h *RoomHandler) GetAllRooms(c *gin.Context) {
	rooms, err := h.service.GetAllRooms(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// GetRoom handles GET /api/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.service.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{"room": room})
}

// ToggleAvailability handles POST /api/rooms/toggle-availability
func (h *RoomHandler) ToggleAvailability(c *gin.Context) {
	var req dto.ToggleAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "roomId is required")
		return
	}

	room, err := h.service.ToggleAvailability(c.Request.Context(), req.RoomID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{
		"message": "Room availability updated",
		"room":    room,
	})
}

// DeleteRoom handles DELETE /api/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	if err := h.service.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, response.Envelope{"message": "Room deleted"})
}

func (h *RoomHandler) respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsConflictError(err):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		response.InternalError(c, err)
	}
}
