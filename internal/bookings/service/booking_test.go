package service

import (
	"context"
	"strings"
	"testing"
	"time"

	bookingserrors "fixhub/internal/bookings/errors"
	"fixhub/internal/bookings/validator"
	"fixhub/pkg/config"
	mongotx "fixhub/pkg/db/mongo"
	apperrors "fixhub/pkg/errors"
	"fixhub/pkg/logger"
	"fixhub/pkg/model"
)

// ────────────────────────────────────────────────
// Mock repository for testing
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc       func(ctx context.Context, booking *model.Booking) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Booking, error)
	findActiveFunc   func(ctx context.Context, customerID, serviceID string, scheduledAt time.Time) ([]*model.Booking, error)
	updateStatusFunc func(ctx context.Context, id, expectedStatus, newStatus, partnerID string) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "68a1f2e4b5c6d7e8f9a0b1c2"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) FindActiveByCustomerAndService(ctx context.Context, customerID, serviceID string, scheduledAt time.Time) ([]*model.Booking, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, customerID, serviceID, scheduledAt)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id, expectedStatus, newStatus, partnerID string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, expectedStatus, newStatus, partnerID)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

// ────────────────────────────────────────────────
// Mock event publisher
// ────────────────────────────────────────────────

type mockPublisher struct {
	publishFunc func(ctx context.Context, event model.BookingEvent) error
	published   []model.BookingEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	m.published = append(m.published, event)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, event)
	}
	return nil
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func newTestConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.FormatJSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockBookingRepository, pub *mockPublisher) BookingService {
	cfg := newTestConfig()
	return NewBookingService(repo, validator.NewBookingValidator(cfg.Log), pub, cfg)
}

func pendingBooking(id string) *model.Booking {
	return &model.Booking{
		ID:          id,
		ServiceID:   "68a1f2e4b5c6d7e8f9a0b1c3",
		CustomerID:  "customer-1",
		Status:      model.StatusPending,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Price:       120,
	}
}

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_AppliesDefaultsAndPublishes(t *testing.T) {
	repo := &mockBookingRepository{}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	booking := &model.Booking{
		ServiceID:   "68a1f2e4b5c6d7e8f9a0b1c3",
		CustomerID:  "customer-1",
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Price:       80,
	}

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}

	if booking.Status != model.StatusPending {
		t.Errorf("booking.Status = %q, want %q", booking.Status, model.StatusPending)
	}
	if booking.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("booking.PaymentStatus = %q, want %q", booking.PaymentStatus, model.PaymentUnpaid)
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
	if pub.published[0].Type != model.EventBookingCreated {
		t.Errorf("event type = %q, want %q", pub.published[0].Type, model.EventBookingCreated)
	}
}

func TestCreate_RejectsDuplicateActiveBooking(t *testing.T) {
	repo := &mockBookingRepository{
		findActiveFunc: func(ctx context.Context, customerID, serviceID string, scheduledAt time.Time) ([]*model.Booking, error) {
			return []*model.Booking{pendingBooking("existing")}, nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	booking := &model.Booking{
		ServiceID:   "68a1f2e4b5c6d7e8f9a0b1c3",
		CustomerID:  "customer-1",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	}

	err := svc.Create(context.Background(), booking)
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("Create() error = %v, want conflict", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d events on failed create, want 0", len(pub.published))
	}
}

func TestCreate_RejectsPastScheduledTime(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockPublisher{})

	booking := &model.Booking{
		ServiceID:   "68a1f2e4b5c6d7e8f9a0b1c3",
		CustomerID:  "customer-1",
		ScheduledAt: time.Now().Add(-1 * time.Hour),
	}

	err := svc.Create(context.Background(), booking)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("Create() error = %v, want validation error", err)
	}
}

// ────────────────────────────────────────────────
// Tests for ChangeStatus()
// ────────────────────────────────────────────────

func TestChangeStatus_ValidTransition(t *testing.T) {
	var gotExpected, gotNew, gotPartner string
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(id), nil
		},
		updateStatusFunc: func(ctx context.Context, id, expectedStatus, newStatus, partnerID string) error {
			gotExpected, gotNew, gotPartner = expectedStatus, newStatus, partnerID
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	updated, err := svc.ChangeStatus(context.Background(), "68a1f2e4b5c6d7e8f9a0b1c2", &model.BookingStatusUpdate{
		Status:    model.StatusAccepted,
		PartnerID: "partner-7",
	})
	if err != nil {
		t.Fatalf("ChangeStatus() error = %v, want nil", err)
	}

	if gotExpected != model.StatusPending || gotNew != model.StatusAccepted {
		t.Errorf("conditional write keyed on (%q → %q), want (pending → accepted)", gotExpected, gotNew)
	}
	if gotPartner != "partner-7" {
		t.Errorf("partner ID on write = %q, want partner-7", gotPartner)
	}
	if updated.Status != model.StatusAccepted {
		t.Errorf("updated.Status = %q, want accepted", updated.Status)
	}

	if len(pub.published) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.published))
	}
	event := pub.published[0]
	if event.Type != model.EventBookingStatusChanged {
		t.Errorf("event type = %q, want %q", event.Type, model.EventBookingStatusChanged)
	}
	if event.OldStatus != model.StatusPending || event.Status != model.StatusAccepted {
		t.Errorf("event statuses = (%q → %q), want (pending → accepted)", event.OldStatus, event.Status)
	}
}

func TestChangeStatus_InvalidTransitionListsAllowed(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(id), nil
		},
		updateStatusFunc: func(ctx context.Context, id, expectedStatus, newStatus, partnerID string) error {
			t.Fatal("UpdateStatus must not be called for a rejected transition")
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	_, err := svc.ChangeStatus(context.Background(), "68a1f2e4b5c6d7e8f9a0b1c2", &model.BookingStatusUpdate{
		Status: model.StatusInProgress,
	})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("ChangeStatus() error = %v, want validation error", err)
	}

	appErr := apperrors.AsAppError(err)
	if !strings.Contains(appErr.Message, model.StatusAccepted) || !strings.Contains(appErr.Message, model.StatusCancelled) {
		t.Errorf("rejection message = %q, want allowed statuses listed", appErr.Message)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d events on rejection, want 0", len(pub.published))
	}
}

func TestChangeStatus_TerminalStateLocked(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			b := pendingBooking(id)
			b.Status = model.StatusCompleted
			return b, nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	_, err := svc.ChangeStatus(context.Background(), "68a1f2e4b5c6d7e8f9a0b1c2", &model.BookingStatusUpdate{
		Status: model.StatusPending,
	})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("ChangeStatus() error = %v, want validation error", err)
	}
	if !strings.Contains(apperrors.AsAppError(err).Message, "booking is completed") {
		t.Errorf("rejection message = %q, want locked-state message", apperrors.AsAppError(err).Message)
	}
}

func TestChangeStatus_SameStatusIsNoOp(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(id), nil
		},
		updateStatusFunc: func(ctx context.Context, id, expectedStatus, newStatus, partnerID string) error {
			t.Fatal("UpdateStatus must not be called for a same-status request")
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	booking, err := svc.ChangeStatus(context.Background(), "68a1f2e4b5c6d7e8f9a0b1c2", &model.BookingStatusUpdate{
		Status: model.StatusPending,
	})
	if err != nil {
		t.Fatalf("ChangeStatus() error = %v, want nil for idempotent no-op", err)
	}
	if booking.Status != model.StatusPending {
		t.Errorf("booking.Status = %q, want pending", booking.Status)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d events on no-op, want 0", len(pub.published))
	}
}

func TestChangeStatus_ConcurrentUpdateConflict(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(id), nil
		},
		updateStatusFunc: func(ctx context.Context, id, expectedStatus, newStatus, partnerID string) error {
			return bookingserrors.ErrStatusConflict
		},
	}
	pub := &mockPublisher{}
	svc := newTestService(repo, pub)

	_, err := svc.ChangeStatus(context.Background(), "68a1f2e4b5c6d7e8f9a0b1c2", &model.BookingStatusUpdate{
		Status: model.StatusAccepted,
	})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("ChangeStatus() error = %v, want conflict", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("published %d events on conflict, want 0", len(pub.published))
	}
}

func TestChangeStatus_PartnerIgnoredOutsideAccept(t *testing.T) {
	var gotPartner string
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			b := pendingBooking(id)
			b.Status = model.StatusAccepted
			b.PartnerID = "partner-7"
			return b, nil
		},
		updateStatusFunc: func(ctx context.Context, id, expectedStatus, newStatus, partnerID string) error {
			gotPartner = partnerID
			return nil
		},
	}
	svc := newTestService(repo, &mockPublisher{})

	_, err := svc.ChangeStatus(context.Background(), "68a1f2e4b5c6d7e8f9a0b1c2", &model.BookingStatusUpdate{
		Status:    model.StatusInProgress,
		PartnerID: "partner-99",
	})
	if err != nil {
		t.Fatalf("ChangeStatus() error = %v, want nil", err)
	}
	if gotPartner != "" {
		t.Errorf("partner ID on write = %q, want empty outside the accept edge", gotPartner)
	}
}

// ────────────────────────────────────────────────
// Tests for ValidateTransition() and StatusOptions()
// ────────────────────────────────────────────────

func TestValidateTransition(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockPublisher{})

	decision, err := svc.ValidateTransition(context.Background(), &model.TransitionCheck{
		From: model.StatusPending,
		To:   model.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("ValidateTransition() error = %v, want nil", err)
	}
	if decision.Allowed {
		t.Error("decision.Allowed = true, want false for pending → in_progress")
	}
	if decision.Reason == "" {
		t.Error("decision.Reason is empty, want rejection message")
	}

	decision, err = svc.ValidateTransition(context.Background(), &model.TransitionCheck{
		From: model.StatusPending,
		To:   model.StatusAccepted,
	})
	if err != nil {
		t.Fatalf("ValidateTransition() error = %v, want nil", err)
	}
	if !decision.Allowed {
		t.Error("decision.Allowed = false, want true for pending → accepted")
	}
}

func TestValidateTransition_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockPublisher{})

	_, err := svc.ValidateTransition(context.Background(), &model.TransitionCheck{
		From: "archived",
		To:   model.StatusAccepted,
	})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("ValidateTransition() error = %v, want validation error", err)
	}
}

func TestStatusOptions(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockPublisher{})

	options, err := svc.StatusOptions(context.Background(), model.StatusPending)
	if err != nil {
		t.Fatalf("StatusOptions() error = %v, want nil", err)
	}
	want := []string{model.StatusPending, model.StatusAccepted, model.StatusCancelled}
	if len(options) != len(want) {
		t.Fatalf("StatusOptions(pending) = %v, want %v", options, want)
	}
	for i := range want {
		if options[i] != want[i] {
			t.Errorf("StatusOptions(pending)[%d] = %q, want %q", i, options[i], want[i])
		}
	}

	if _, err := svc.StatusOptions(context.Background(), "archived"); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("StatusOptions(archived) error = %v, want invalid input", err)
	}
}
