package dto

import "github.com/quickstay/backend-hotel/internal/domain"

// CreateRoomRequest creates a new room listing
type CreateRoomRequest struct {
	Hotel         string   `json:"hotel"`
	RoomType      string   `json:"roomType" binding:"required"`
	PricePerNight float64  `json:"pricePerNight" binding:"required"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
}

// ToggleAvailabilityRequest flips a room's listing flag
type ToggleAvailabilityRequest struct {
	RoomID string `json:"roomId" binding:"required"`
}

// RoomResponse wraps a single room
type RoomResponse struct {
	Room *domain.Room `json:"room"`
}

// RoomListResponse wraps a list of rooms
type RoomListResponse struct {
	Rooms []*domain.Room `json:"rooms"`
	Count int            `json:"count"`
}
