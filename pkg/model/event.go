package model

import "time"

// Booking event types published on the booking events topic.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is the payload published by the bookings service whenever a
// booking is created or moves to a new status. Messages are keyed by
// BookingID so all events for one booking land on the same partition.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	ServiceID  string    `json:"service_id"`
	CustomerID string    `json:"customer_id"`
	PartnerID  string    `json:"partner_id,omitempty"`
	Status     string    `json:"status"`
	OldStatus  string    `json:"old_status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
