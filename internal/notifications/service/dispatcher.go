package service

import (
	"context"
	"errors"
	"fmt"

	notificationserrors "fixhub/internal/notifications/errors"
	"fixhub/internal/notifications/gateway"
	"fixhub/internal/notifications/repository"
	"fixhub/pkg/config"
	apperrors "fixhub/pkg/errors"
	"fixhub/pkg/model"
	"fixhub/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type DispatchService interface {
	Dispatch(ctx context.Context, notification *model.Notification) (*model.DispatchResult, error)
	RegisterToken(ctx context.Context, userID string, registration *model.TokenRegistration) error
}

type dispatchService struct {
	tokens   repository.TokenRepository
	gateway  gateway.PushGateway
	validate *validator.Validate
	cfg      *config.Config
}

func NewDispatchService(
	tokens repository.TokenRepository,
	pushGateway gateway.PushGateway,
	cfg *config.Config,
) DispatchService {
	return &dispatchService{
		tokens:   tokens,
		gateway:  pushGateway,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Dispatch fans one message out to every device a user owns. Partial
// delivery failure is a normal outcome carried in the counts; only total
// gateway unavailability is an error. Tokens the gateway rejects are
// pruned from the user's set afterwards.
func (s *dispatchService) Dispatch(ctx context.Context, notification *model.Notification) (*model.DispatchResult, error) {
	s.sanitize(notification)
	if err := s.validate.Struct(notification); err != nil {
		return nil, apperrors.Validation("Invalid notification", map[string]any{"error": err.Error()})
	}

	tokens, err := s.tokens.GetDeviceTokens(ctx, notification.UserID)
	if err != nil {
		if errors.Is(err, notificationserrors.ErrUserNotFound) {
			return nil, apperrors.NotFoundWithID("User", notification.UserID)
		}
		return nil, apperrors.Unavailable("user record store", err)
	}

	tokens = sanitizer.DedupeTokens(tokens)
	if len(tokens) == 0 {
		// A user with no registered device is a normal state.
		s.cfg.Log.Info("No device tokens registered, nothing to send",
			"user_id", notification.UserID,
		)
		return &model.DispatchResult{Delivered: 0, Failed: 0}, nil
	}

	responses, err := s.gateway.SendMulticast(ctx, tokens, notification.Title, notification.Body, notification.Link)
	if err != nil {
		// Total gateway failure: no cleanup, no partial state mutation.
		s.cfg.Log.Error("Push gateway unavailable",
			"user_id", notification.UserID,
			"tokens", len(tokens),
			"error", err,
		)
		return nil, apperrors.Unavailable("push gateway", err)
	}

	result := &model.DispatchResult{}
	var failedTokens []string
	for i, resp := range responses {
		if resp.Success {
			result.Delivered++
			continue
		}
		result.Failed++
		failedTokens = append(failedTokens, tokens[i])
	}

	if len(failedTokens) > 0 {
		s.cleanupTokens(ctx, notification.UserID, tokens, failedTokens)
	}

	s.cfg.Log.Info("Notification dispatched",
		"user_id", notification.UserID,
		"delivered", result.Delivered,
		"failed", result.Failed,
	)
	return result, nil
}

// cleanupTokens removes exactly the tokens proven failed in this dispatch.
// The replacement is conditional on the set the failure verdict was issued
// against; on conflict the latest set is re-read and the removal recomputed,
// so tokens registered concurrently survive. Cleanup is best-effort: the
// message was already delivered, so exhausted retries are logged, not
// surfaced.
func (s *dispatchService) cleanupTokens(ctx context.Context, userID string, priorTokens, failedTokens []string) {
	failed := make(map[string]bool, len(failedTokens))
	for _, t := range failedTokens {
		failed[t] = true
	}

	prior := priorTokens
	for attempt := 0; ; attempt++ {
		newSet := make([]string, 0, len(prior))
		for _, t := range prior {
			if !failed[t] {
				newSet = append(newSet, t)
			}
		}

		err := s.tokens.ReplaceDeviceTokens(ctx, userID, prior, newSet)
		if err == nil {
			s.cfg.Log.Info("Pruned invalid device tokens",
				"user_id", userID,
				"removed", len(prior)-len(newSet),
				"remaining", len(newSet),
			)
			return
		}

		if !errors.Is(err, notificationserrors.ErrTokenConflict) || attempt >= s.cfg.TokenCleanupRetries {
			s.cfg.Log.Warn("Device token cleanup abandoned",
				"user_id", userID,
				"attempts", attempt+1,
				"error", err,
			)
			return
		}

		latest, readErr := s.tokens.GetDeviceTokens(ctx, userID)
		if readErr != nil {
			s.cfg.Log.Warn("Device token cleanup abandoned, re-read failed",
				"user_id", userID,
				"error", readErr,
			)
			return
		}
		prior = latest
	}
}

func (s *dispatchService) RegisterToken(ctx context.Context, userID string, registration *model.TokenRegistration) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}
	if err := s.validate.Struct(registration); err != nil {
		return apperrors.Validation("Invalid token registration", map[string]any{"error": err.Error()})
	}

	if err := s.tokens.AddDeviceToken(ctx, userID, registration.Token); err != nil {
		if errors.Is(err, notificationserrors.ErrUserNotFound) {
			return apperrors.NotFoundWithID("User", userID)
		}
		return apperrors.Unavailable("user record store", err)
	}

	s.cfg.Log.Info("Device token registered", "user_id", userID)
	return nil
}

func (s *dispatchService) sanitize(n *model.Notification) {
	n.UserID = sanitizer.TrimAndNormalize(n.UserID)
	n.Title = sanitizer.NormalizeTitle(n.Title)
	n.Body = sanitizer.NormalizeBody(n.Body)
	n.Link = sanitizer.NormalizeLink(n.Link)
}

// NotifyBookingStatus builds the customer-facing message for a status
// change. Kept here so the worker and any future callers word it the same.
func NotifyBookingStatus(event model.BookingEvent) model.Notification {
	return model.Notification{
		UserID: event.CustomerID,
		Title:  "Booking update",
		Body:   fmt.Sprintf("Your booking is now %s", event.Status),
		Link:   "/bookings/" + event.BookingID,
	}
}

// NotifyPartnerOfBooking builds the partner-facing message for a newly
// created booking awaiting acceptance.
func NotifyPartnerOfBooking(partnerID string, event model.BookingEvent) model.Notification {
	return model.Notification{
		UserID: partnerID,
		Title:  "New booking request",
		Body:   "A new booking matching your skills is waiting for acceptance",
		Link:   "/bookings/" + event.BookingID,
	}
}
