package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/internal/repository"
	"github.com/quickstay/backend-hotel/pkg/telemetry"
)

// RoomService defines room business operations
type RoomService interface {
	CreateRoom(ctx context.Context, hotelID, roomType string, pricePerNight float64, amenities, images []string) (*domain.Room, error)
	GetRoom(ctx context.Context, id string) (*domain.Room, error)
	GetAllRooms(ctx context.Context) ([]*domain.Room, error)
	ToggleAvailability(ctx context.Context, id string) (*domain.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

type roomService struct {
	rooms repository.RoomRepository
}

// NewRoomService creates a room service
func NewRoomService(rooms repository.RoomRepository) RoomService {
	return &roomService{rooms: rooms}
}

func (s *roomService) CreateRoom(ctx context.Context, hotelID, roomType string, pricePerNight float64, amenities, images []string) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.create")
	defer span.End()

	room, err := domain.NewRoom(hotelID, roomType, pricePerNight, amenities, images)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.get")
	defer span.End()

	return s.rooms.GetByID(ctx, id)
}

func (s *roomService) GetAllRooms(ctx context.Context) ([]*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.list_all")
	defer span.End()

	return s.rooms.ListAll(ctx)
}

func (s *roomService) ToggleAvailability(ctx context.Context, id string) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.room.toggle_availability")
	defer span.End()
	span.SetAttributes(attribute.String("room.id", id))

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	room.ToggleAvailability()
	if err := s.rooms.SetAvailability(ctx, id, room.IsAvailable); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.room.delete")
	defer span.End()

	return s.rooms.Delete(ctx, id)
}
