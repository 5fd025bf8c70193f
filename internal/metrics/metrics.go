// Package metrics defines the application's metric instruments.
package metrics

import (
	"go.uber.org/zap"

	"github.com/quickstay/backend-hotel/pkg/logger"
	"github.com/quickstay/backend-hotel/pkg/telemetry"
)

// BookingMetrics holds booking and payment counters. Instruments that
// fail to register are nil and count as no-ops.
type BookingMetrics struct {
	BookingsCreated     *telemetry.Counter
	BookingConflicts    *telemetry.Counter
	PaymentsSucceeded   *telemetry.Counter
	PaymentsFailed      *telemetry.Counter
	PaymentInitFailures *telemetry.Counter
	WebhooksReceived    *telemetry.Counter
	WebhooksRejected    *telemetry.Counter
	WebhooksDuplicate   *telemetry.Counter
}

// NewBookingMetrics registers the booking metric instruments
func NewBookingMetrics() *BookingMetrics {
	return &BookingMetrics{
		BookingsCreated: newCounter(telemetry.MetricOpts{
			Name:        "bookings_created_total",
			Description: "Number of bookings created",
			Unit:        "{booking}",
		}),
		BookingConflicts: newCounter(telemetry.MetricOpts{
			Name:        "booking_conflicts_total",
			Description: "Number of booking attempts rejected for date conflicts",
			Unit:        "{booking}",
		}),
		PaymentsSucceeded: newCounter(telemetry.MetricOpts{
			Name:        "payments_succeeded_total",
			Description: "Number of payments verified as successful",
			Unit:        "{payment}",
		}),
		PaymentsFailed: newCounter(telemetry.MetricOpts{
			Name:        "payments_failed_total",
			Description: "Number of payments marked failed",
			Unit:        "{payment}",
		}),
		PaymentInitFailures: newCounter(telemetry.MetricOpts{
			Name:        "payment_init_failures_total",
			Description: "Number of failed payment initializations",
			Unit:        "{payment}",
		}),
		WebhooksReceived: newCounter(telemetry.MetricOpts{
			Name:        "webhooks_received_total",
			Description: "Number of webhook deliveries accepted",
			Unit:        "{event}",
		}),
		WebhooksRejected: newCounter(telemetry.MetricOpts{
			Name:        "webhooks_rejected_total",
			Description: "Number of webhook deliveries rejected for bad signatures",
			Unit:        "{event}",
		}),
		WebhooksDuplicate: newCounter(telemetry.MetricOpts{
			Name:        "webhooks_duplicate_total",
			Description: "Number of webhook deliveries skipped as duplicates",
			Unit:        "{event}",
		}),
	}
}

func newCounter(opts telemetry.MetricOpts) *telemetry.Counter {
	c, err := telemetry.NewCounter(opts)
	if err != nil {
		logger.Get().Warn("failed to register metric", zap.String("metric", opts.Name), zap.Error(err))
		return nil
	}
	return c
}
