package repository

import (
	"context"

	"github.com/quickstay/backend-hotel/internal/domain"
)

// RoomRepository defines room persistence operations
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListAll(ctx context.Context) ([]*domain.Room, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}
