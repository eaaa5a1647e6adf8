package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "fixhub/internal/bookings/errors"
	"fixhub/internal/bookings/events"
	"fixhub/internal/bookings/repository"
	"fixhub/internal/bookings/transition"
	"fixhub/internal/bookings/validator"
	"fixhub/pkg/config"
	apperrors "fixhub/pkg/errors"
	"fixhub/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ChangeStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error)
	ValidateTransition(ctx context.Context, check *model.TransitionCheck) (*model.TransitionDecision, error)
	StatusOptions(ctx context.Context, status string) ([]string, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyDuplication(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"service_id", booking.ServiceID,
		"customer_id", booking.CustomerID,
		"scheduled_at", booking.ScheduledAt,
	)

	s.publishEvent(ctx, model.BookingEvent{
		Type:       model.EventBookingCreated,
		BookingID:  booking.ID,
		ServiceID:  booking.ServiceID,
		CustomerID: booking.CustomerID,
		Status:     booking.Status,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// ChangeStatus moves a booking through the lifecycle state machine. The
// write is conditional on the status we validated against, so a concurrent
// transition surfaces as a conflict instead of silently winning.
func (s *bookingService) ChangeStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		s.cfg.Log.Warn("Status update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Idempotent no-op: same status is always accepted without a write.
	if booking.Status == update.Status {
		return booking, nil
	}

	if !transition.IsValid(booking.Status, update.Status) {
		reason := transition.DescribeRejection(booking.Status, update.Status)
		s.cfg.Log.Warn("Rejected status transition",
			"id", id,
			"from", booking.Status,
			"to", update.Status,
			"reason", reason,
		)
		return nil, apperrors.Validation(reason, map[string]any{
			"allowed_next_statuses": transition.ValidNextStatuses(booking.Status),
		})
	}

	// Partner assignment only happens on the edge into accepted.
	partnerID := ""
	if update.Status == model.StatusAccepted && update.PartnerID != "" {
		partnerID = update.PartnerID
	}

	oldStatus := booking.Status
	if err := s.repo.UpdateStatus(ctx, id, oldStatus, update.Status, partnerID); err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Booking", id)
		case errors.Is(err, bookingserrors.ErrStatusConflict):
			return nil, apperrors.Conflict(fmt.Sprintf(
				"Booking %s was updated by another request. Please re-read and retry.", id,
			))
		default:
			return nil, apperrors.Internal("Failed to update booking status", err)
		}
	}

	booking.Status = update.Status
	if partnerID != "" {
		booking.PartnerID = partnerID
	}

	s.cfg.Log.Info("Booking status changed",
		"id", id,
		"from", oldStatus,
		"to", update.Status,
		"partner_id", booking.PartnerID,
	)

	s.publishEvent(ctx, model.BookingEvent{
		Type:       model.EventBookingStatusChanged,
		BookingID:  booking.ID,
		ServiceID:  booking.ServiceID,
		CustomerID: booking.CustomerID,
		PartnerID:  booking.PartnerID,
		Status:     booking.Status,
		OldStatus:  oldStatus,
		OccurredAt: time.Now().UTC(),
	})

	return booking, nil
}

func (s *bookingService) ValidateTransition(ctx context.Context, check *model.TransitionCheck) (*model.TransitionDecision, error) {
	if err := s.validator.ValidateTransitionCheck(check); err != nil {
		return nil, apperrors.Validation("Invalid transition check", map[string]any{"error": err.Error()})
	}

	decision := transition.Decide(check.From, check.To)
	return &decision, nil
}

func (s *bookingService) StatusOptions(ctx context.Context, status string) ([]string, error) {
	switch status {
	case model.StatusPending, model.StatusAccepted, model.StatusInProgress,
		model.StatusCompleted, model.StatusCancelled:
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status: %s", status))
	}

	return transition.StatusOptions(status), nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = model.PaymentUnpaid
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyDuplication(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindActiveByCustomerAndService(ctx, booking.CustomerID, booking.ServiceID, booking.ScheduledAt)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		return apperrors.Conflict(fmt.Sprintf(
			"An active booking for this service already exists at %s",
			booking.ScheduledAt.Format(time.RFC3339),
		))
	}
	return nil
}

// publishEvent is best-effort: a broker outage must not fail a write that
// already committed.
func (s *bookingService) publishEvent(ctx context.Context, event model.BookingEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"type", event.Type,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}
