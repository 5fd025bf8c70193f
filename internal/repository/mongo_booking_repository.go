package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/pkg/telemetry"
)

const bookingCollection = "bookings"

type mongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a MongoDB-backed booking repository
func NewMongoBookingRepository(db *mongo.Database) BookingRepository {
	return &mongoBookingRepository{
		collection: db.Collection(bookingCollection),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", booking.ID),
		attribute.String("booking.room_id", booking.RoomID),
	)

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateReference
		}
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.get_by_id")
	defer span.End()

	var booking domain.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.get_by_reference")
	defer span.End()

	var booking domain.Booking
	err := r.collection.FindOne(ctx, bson.M{"paymentReference": reference}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("failed to find booking by reference: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.list_all")
	defer span.End()

	return r.list(ctx, bson.M{})
}

func (r *mongoBookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.list_by_user")
	defer span.End()
	span.SetAttributes(attribute.String("booking.user_id", userID))

	return r.list(ctx, bson.M{"user": userID})
}

func (r *mongoBookingRepository) list(ctx context.Context, filter bson.M) ([]*domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*domain.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.count_overlapping")
	defer span.End()
	span.SetAttributes(attribute.String("booking.room_id", roomID))

	// Half-open overlap: existing.checkIn < checkOut AND existing.checkOut > checkIn
	filter := bson.M{
		"room":         roomID,
		"status":       bson.M{"$ne": domain.BookingStatusCancelled},
		"checkInDate":  bson.M{"$lt": checkOut},
		"checkOutDate": bson.M{"$gt": checkIn},
	}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) SetPaymentInit(ctx context.Context, id, reference string, status domain.PaymentInitStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.set_payment_init")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", id),
		attribute.String("payment.init_status", string(status)),
	)

	update := bson.M{"$set": bson.M{
		"paymentInitStatus": status,
		"updatedAt":         time.Now().UTC(),
	}}
	if reference != "" {
		update["$set"].(bson.M)["paymentReference"] = reference
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateReference
		}
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to set payment init: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *mongoBookingRepository) MarkProvisionallyPaid(ctx context.Context, reference string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.mark_provisionally_paid")
	defer span.End()

	filter := bson.M{
		"paymentReference": reference,
		"paymentStatus": bson.M{"$nin": bson.A{
			domain.PaymentStatusSuccess,
			domain.PaymentStatusFailed,
		}},
	}
	update := bson.M{"$set": bson.M{
		"paymentStatus": domain.PaymentStatusProvisionallyPaid,
		"isPaid":        true,
		"paymentMethod": domain.PaymentMethodPaystack,
		"updatedAt":     time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *mongoBookingRepository) ConfirmPayment(ctx context.Context, reference string, amount float64, currency string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.confirm_payment")
	defer span.End()

	filter := bson.M{
		"paymentReference": reference,
		"paymentStatus":    bson.M{"$ne": domain.PaymentStatusFailed},
	}
	set := bson.M{
		"paymentStatus": domain.PaymentStatusSuccess,
		"isPaid":        true,
		"paymentAmount": amount,
		"updatedAt":     time.Now().UTC(),
	}
	if currency != "" {
		set["paymentCurrency"] = currency
	}
	return r.findOneAndUpdate(ctx, filter, bson.M{"$set": set})
}

func (r *mongoBookingRepository) FailPayment(ctx context.Context, reference string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.fail_payment")
	defer span.End()

	filter := bson.M{
		"paymentReference": reference,
		"paymentStatus":    bson.M{"$ne": domain.PaymentStatusSuccess},
	}
	update := bson.M{"$set": bson.M{
		"paymentStatus": domain.PaymentStatusFailed,
		"isPaid":        false,
		"paymentMethod": domain.PaymentMethodPaystack,
		"updatedAt":     time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *mongoBookingRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking domain.Booking
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", id),
		attribute.String("booking.status", string(status)),
	)

	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repository.booking.delete")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", id))

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}
