package model

import (
	"time"
)

// Booking statuses. Transitions between them are governed by
// internal/bookings/transition.
const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID     string    `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	CustomerID    string    `json:"customer_id" bson:"customer_id" validate:"required"`
	PartnerID     string    `json:"partner_id,omitempty" bson:"partner_id,omitempty"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=pending accepted in_progress completed cancelled"`
	ScheduledAt   time.Time `json:"scheduled_at" bson:"scheduled_at" validate:"required"`
	Price         float64   `json:"price" bson:"price" validate:"gte=0"`
	PaymentStatus string    `json:"payment_status" bson:"payment_status" validate:"omitempty,oneof=unpaid paid refunded"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// BookingStatusUpdate is the payload for a status-change request. PartnerID is
// only honored on the transition into accepted, when the assignment happens.
type BookingStatusUpdate struct {
	Status    string `json:"status" validate:"required,oneof=pending accepted in_progress completed cancelled"`
	PartnerID string `json:"partner_id,omitempty" validate:"omitempty"`
}

// TransitionCheck is the request body for the dry-run transition validation
// endpoint.
type TransitionCheck struct {
	From string `json:"from" validate:"required,oneof=pending accepted in_progress completed cancelled"`
	To   string `json:"to" validate:"required,oneof=pending accepted in_progress completed cancelled"`
}

// TransitionDecision is the outcome of a dry-run transition validation.
type TransitionDecision struct {
	Allowed bool     `json:"allowed"`
	Reason  string   `json:"reason,omitempty"`
	Next    []string `json:"next_statuses"`
}
