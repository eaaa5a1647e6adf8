package worker

import (
	"context"
	"fmt"
	"sync"

	"fixhub/internal/notifications/service"
	"fixhub/pkg/client"
	"fixhub/pkg/config"
	apperrors "fixhub/pkg/errors"
	"fixhub/pkg/kafka"
	"fixhub/pkg/model"
)

// PartnerFinder resolves the partners to notify for a newly created
// booking. Backed by the matching service over HTTP.
type PartnerFinder interface {
	PartnersForService(ctx context.Context, serviceID string) ([]*model.MatchedPartner, error)
}

type matchingClientFinder struct {
	client *client.MatchingClient
}

func NewMatchingClientFinder(baseURL string) PartnerFinder {
	return &matchingClientFinder{client: client.NewMatchingClient(baseURL)}
}

func (f *matchingClientFinder) PartnersForService(ctx context.Context, serviceID string) ([]*model.MatchedPartner, error) {
	resp, err := f.client.PartnersForService(ctx, serviceID, model.MatchFilters{}, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("matching service returned status %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}
	return f.client.DecodePartners(resp)
}

// BookingEventWorker turns booking lifecycle events into notifications:
// created bookings alert matching partners, status changes alert the
// customer.
type BookingEventWorker struct {
	dispatcher service.DispatchService
	finder     PartnerFinder
	cfg        *config.Config
}

func NewBookingEventWorker(dispatcher service.DispatchService, finder PartnerFinder, cfg *config.Config) *BookingEventWorker {
	return &BookingEventWorker{
		dispatcher: dispatcher,
		finder:     finder,
		cfg:        cfg,
	}
}

// Handle is the Kafka message handler. Transient dependency failures are
// returned as retryable so the consumer's backoff applies; malformed
// payloads are permanent and go straight to the DLQ.
func (w *BookingEventWorker) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking event", err)
	}

	switch event.Type {
	case model.EventBookingCreated:
		return w.handleCreated(ctx, event)
	case model.EventBookingStatusChanged:
		return w.handleStatusChanged(ctx, event)
	default:
		w.cfg.Log.Warn("Ignoring unknown booking event type",
			"type", event.Type,
			"booking_id", event.BookingID,
		)
		return nil
	}
}

func (w *BookingEventWorker) handleCreated(ctx context.Context, event model.BookingEvent) error {
	partners, err := w.finder.PartnersForService(ctx, event.ServiceID)
	if err != nil {
		return kafka.NewTransientError("failed to match partners for booking", err)
	}

	if len(partners) == 0 {
		w.cfg.Log.Info("No eligible partners for new booking",
			"booking_id", event.BookingID,
			"service_id", event.ServiceID,
		)
		return nil
	}

	// Bounded fan-out: one dispatch per matched partner, joined before the
	// message is committed.
	reached := make([]bool, len(partners))

	workers := w.cfg.MatchWorkers
	if workers > len(partners) {
		workers = len(partners)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				partner := partners[j]
				notification := service.NotifyPartnerOfBooking(partner.ID, event)
				result, err := w.dispatcher.Dispatch(ctx, &notification)
				if err != nil {
					// Per-partner failures must not block the remaining fan-out.
					w.cfg.Log.Warn("Failed to notify partner",
						"booking_id", event.BookingID,
						"partner_id", partner.ID,
						"error", err,
					)
					continue
				}
				reached[j] = result.Delivered > 0
			}
		}()
	}

	for i := range partners {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	notified := 0
	for _, ok := range reached {
		if ok {
			notified++
		}
	}

	w.cfg.Log.Info("Partner notifications dispatched",
		"booking_id", event.BookingID,
		"partners", len(partners),
		"reached", notified,
	)
	return nil
}

func (w *BookingEventWorker) handleStatusChanged(ctx context.Context, event model.BookingEvent) error {
	notification := service.NotifyBookingStatus(event)

	_, err := w.dispatcher.Dispatch(ctx, &notification)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeUnavailable) {
			return kafka.NewTransientError("failed to notify customer", err)
		}
		// Unknown user or invalid payload will not heal on retry.
		w.cfg.Log.Warn("Dropping undeliverable status notification",
			"booking_id", event.BookingID,
			"customer_id", event.CustomerID,
			"error", err,
		)
		return nil
	}

	return nil
}
