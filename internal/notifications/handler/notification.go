package handler

import (
	"encoding/json"
	"net/http"

	"fixhub/internal/notifications/service"
	httputil "fixhub/pkg/http"
	"fixhub/pkg/logger"
	"fixhub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service service.DispatchService
	log     *logger.Logger
}

func NewNotificationHandler(service service.DispatchService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

func (h *NotificationHandler) Dispatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var notification model.Notification
	if err := json.NewDecoder(r.Body).Decode(&notification); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Dispatch", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.Dispatch(r.Context(), &notification)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Dispatch", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Dispatch", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NotificationHandler) RegisterToken(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("id")

	var registration model.TokenRegistration
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "RegisterToken", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.RegisterToken(r.Context(), userID, &registration); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RegisterToken", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/notifications/dispatch", h.Dispatch)
	router.POST("/api/v1/users/:id/tokens", h.RegisterToken)
}
