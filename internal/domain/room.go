package domain

import (
	"time"

	"github.com/google/uuid"
)

// Room represents a bookable hotel room
type Room struct {
	ID            string    `bson:"_id" json:"id"`
	HotelID       string    `bson:"hotel,omitempty" json:"hotel,omitempty"`
	RoomType      string    `bson:"roomType" json:"roomType"`
	PricePerNight float64   `bson:"pricePerNight" json:"pricePerNight"`
	Amenities     []string  `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Images        []string  `bson:"images,omitempty" json:"images,omitempty"`
	IsAvailable   bool      `bson:"isAvailable" json:"isAvailable"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewRoom creates an available room with the given attributes
func NewRoom(hotelID, roomType string, pricePerNight float64, amenities, images []string) (*Room, error) {
	if pricePerNight <= 0 {
		return nil, ErrInvalidRoomPrice
	}

	now := time.Now().UTC()
	return &Room{
		ID:            uuid.New().String(),
		HotelID:       hotelID,
		RoomType:      roomType,
		PricePerNight: pricePerNight,
		Amenities:     amenities,
		Images:        images,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ToggleAvailability flips the listing flag. This gates new bookings only
// and never touches existing ones.
func (r *Room) ToggleAvailability() {
	r.IsAvailable = !r.IsAvailable
	r.UpdatedAt = time.Now().UTC()
}
