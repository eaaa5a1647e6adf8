package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"fixhub/pkg/config"
	apperrors "fixhub/pkg/errors"
	"fixhub/pkg/kafka"
	"fixhub/pkg/logger"
	"fixhub/pkg/model"
)

type mockDispatcher struct {
	dispatchFunc func(ctx context.Context, n *model.Notification) (*model.DispatchResult, error)

	mu         sync.Mutex
	dispatched []model.Notification
}

func (m *mockDispatcher) Dispatch(ctx context.Context, n *model.Notification) (*model.DispatchResult, error) {
	m.mu.Lock()
	m.dispatched = append(m.dispatched, *n)
	m.mu.Unlock()

	if m.dispatchFunc != nil {
		return m.dispatchFunc(ctx, n)
	}
	return &model.DispatchResult{Delivered: 1}, nil
}

// dispatchedUsers returns the notified user IDs as a set; partner fan-out is
// concurrent, so arrival order is not meaningful.
func (m *mockDispatcher) dispatchedUsers() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make(map[string]bool, len(m.dispatched))
	for _, n := range m.dispatched {
		users[n.UserID] = true
	}
	return users
}

func (m *mockDispatcher) RegisterToken(ctx context.Context, userID string, registration *model.TokenRegistration) error {
	return nil
}

type mockFinder struct {
	findFunc func(ctx context.Context, serviceID string) ([]*model.MatchedPartner, error)
}

func (m *mockFinder) PartnersForService(ctx context.Context, serviceID string) ([]*model.MatchedPartner, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, serviceID)
	}
	return []*model.MatchedPartner{}, nil
}

func newTestWorker(d *mockDispatcher, f *mockFinder) *BookingEventWorker {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.FormatJSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingEventWorker(d, f, &config.Config{Log: log, MatchWorkers: 2})
}

func eventMessage(t *testing.T, event model.BookingEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return kafka.Message{Key: event.BookingID, Value: value}
}

func TestHandle_CreatedNotifiesEachMatchedPartner(t *testing.T) {
	dispatcher := &mockDispatcher{}
	finder := &mockFinder{
		findFunc: func(ctx context.Context, serviceID string) ([]*model.MatchedPartner, error) {
			return []*model.MatchedPartner{
				{Partner: model.Partner{ID: "p1"}},
				{Partner: model.Partner{ID: "p2"}},
			}, nil
		},
	}
	worker := newTestWorker(dispatcher, finder)

	msg := eventMessage(t, model.BookingEvent{
		Type:       model.EventBookingCreated,
		BookingID:  "b1",
		ServiceID:  "svc-1",
		CustomerID: "c1",
		Status:     model.StatusPending,
	})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	users := dispatcher.dispatchedUsers()
	if len(users) != 2 {
		t.Fatalf("notified %d partners, want 2", len(users))
	}
	if !users["p1"] || !users["p2"] {
		t.Errorf("notified users = %v, want p1 and p2", users)
	}
}

func TestHandle_CreatedFanOutIsBounded(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	dispatcher := &mockDispatcher{
		dispatchFunc: func(ctx context.Context, n *model.Notification) (*model.DispatchResult, error) {
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return &model.DispatchResult{Delivered: 1}, nil
		},
	}
	finder := &mockFinder{
		findFunc: func(ctx context.Context, serviceID string) ([]*model.MatchedPartner, error) {
			partners := make([]*model.MatchedPartner, 6)
			for i := range partners {
				partners[i] = &model.MatchedPartner{Partner: model.Partner{ID: fmt.Sprintf("p%d", i+1)}}
			}
			return partners, nil
		},
	}
	worker := newTestWorker(dispatcher, finder)

	msg := eventMessage(t, model.BookingEvent{
		Type:      model.EventBookingCreated,
		BookingID: "b1",
		ServiceID: "svc-1",
	})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	if got := len(dispatcher.dispatchedUsers()); got != 6 {
		t.Errorf("notified %d partners, want all 6", got)
	}
	if maxInFlight > 2 {
		t.Errorf("observed %d concurrent dispatches, want at most the worker cap of 2", maxInFlight)
	}
}

func TestHandle_CreatedPartnerFailureDoesNotBlockOthers(t *testing.T) {
	dispatcher := &mockDispatcher{
		dispatchFunc: func(ctx context.Context, n *model.Notification) (*model.DispatchResult, error) {
			if n.UserID == "p1" {
				return nil, apperrors.NotFoundWithID("User", n.UserID)
			}
			return &model.DispatchResult{Delivered: 1}, nil
		},
	}
	finder := &mockFinder{
		findFunc: func(ctx context.Context, serviceID string) ([]*model.MatchedPartner, error) {
			return []*model.MatchedPartner{
				{Partner: model.Partner{ID: "p1"}},
				{Partner: model.Partner{ID: "p2"}},
			}, nil
		},
	}
	worker := newTestWorker(dispatcher, finder)

	msg := eventMessage(t, model.BookingEvent{
		Type:      model.EventBookingCreated,
		BookingID: "b1",
		ServiceID: "svc-1",
	})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v, want nil despite one partner failing", err)
	}
	if len(dispatcher.dispatched) != 2 {
		t.Errorf("dispatched %d notifications, want 2", len(dispatcher.dispatched))
	}
}

func TestHandle_CreatedMatchingFailureIsTransient(t *testing.T) {
	finder := &mockFinder{
		findFunc: func(ctx context.Context, serviceID string) ([]*model.MatchedPartner, error) {
			return nil, errors.New("connection refused")
		},
	}
	worker := newTestWorker(&mockDispatcher{}, finder)

	msg := eventMessage(t, model.BookingEvent{
		Type:      model.EventBookingCreated,
		BookingID: "b1",
		ServiceID: "svc-1",
	})

	err := worker.Handle(context.Background(), msg)
	if kafka.ClassifyError(err) != kafka.ErrorTypeTransient {
		t.Fatalf("Handle() error = %v, want transient classification", err)
	}
}

func TestHandle_StatusChangedNotifiesCustomer(t *testing.T) {
	dispatcher := &mockDispatcher{}
	worker := newTestWorker(dispatcher, &mockFinder{})

	msg := eventMessage(t, model.BookingEvent{
		Type:       model.EventBookingStatusChanged,
		BookingID:  "b1",
		CustomerID: "c1",
		Status:     model.StatusAccepted,
		OldStatus:  model.StatusPending,
	})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}

	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("dispatched %d notifications, want 1", len(dispatcher.dispatched))
	}
	if dispatcher.dispatched[0].UserID != "c1" {
		t.Errorf("notified user = %q, want the customer c1", dispatcher.dispatched[0].UserID)
	}
}

func TestHandle_StatusChangedGatewayDownIsTransient(t *testing.T) {
	dispatcher := &mockDispatcher{
		dispatchFunc: func(ctx context.Context, n *model.Notification) (*model.DispatchResult, error) {
			return nil, apperrors.Unavailable("push gateway", errors.New("connection refused"))
		},
	}
	worker := newTestWorker(dispatcher, &mockFinder{})

	msg := eventMessage(t, model.BookingEvent{
		Type:       model.EventBookingStatusChanged,
		BookingID:  "b1",
		CustomerID: "c1",
		Status:     model.StatusAccepted,
	})

	err := worker.Handle(context.Background(), msg)
	if kafka.ClassifyError(err) != kafka.ErrorTypeTransient {
		t.Fatalf("Handle() error = %v, want transient classification", err)
	}
}

func TestHandle_StatusChangedUnknownUserIsDropped(t *testing.T) {
	dispatcher := &mockDispatcher{
		dispatchFunc: func(ctx context.Context, n *model.Notification) (*model.DispatchResult, error) {
			return nil, apperrors.NotFoundWithID("User", n.UserID)
		},
	}
	worker := newTestWorker(dispatcher, &mockFinder{})

	msg := eventMessage(t, model.BookingEvent{
		Type:       model.EventBookingStatusChanged,
		BookingID:  "b1",
		CustomerID: "ghost",
		Status:     model.StatusAccepted,
	})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v, want nil: an unknown user will not heal on retry", err)
	}
}

func TestHandle_MalformedPayloadIsPermanent(t *testing.T) {
	worker := newTestWorker(&mockDispatcher{}, &mockFinder{})

	err := worker.Handle(context.Background(), kafka.Message{Key: "b1", Value: []byte("{not json")})
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Fatalf("Handle() error = %v, want permanent classification", err)
	}
}

func TestHandle_UnknownEventTypeIgnored(t *testing.T) {
	dispatcher := &mockDispatcher{}
	worker := newTestWorker(dispatcher, &mockFinder{})

	msg := eventMessage(t, model.BookingEvent{Type: "booking.archived", BookingID: "b1"})

	if err := worker.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v, want nil", err)
	}
	if len(dispatcher.dispatched) != 0 {
		t.Errorf("dispatched %d notifications for unknown event, want 0", len(dispatcher.dispatched))
	}
}
