package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"fixhub/internal/matching/service"
	apperrors "fixhub/pkg/errors"
	httputil "fixhub/pkg/http"
	"fixhub/pkg/logger"
	"fixhub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type MatchingHandler struct {
	service service.MatchingService
	log     *logger.Logger
}

func NewMatchingHandler(service service.MatchingService, log *logger.Logger) *MatchingHandler {
	return &MatchingHandler{
		service: service,
		log:     log,
	}
}

func (h *MatchingHandler) PartnersForService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serviceID := ps.ByName("id")
	query := r.URL.Query()

	filters := model.MatchFilters{
		OnlyOnline: query.Get("only_online") == "true",
	}

	if ratingStr := query.Get("min_rating"); ratingStr != "" {
		rating, err := strconv.ParseFloat(ratingStr, 64)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput(fmt.Sprintf("invalid min_rating parameter: %s", ratingStr))); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "PartnersForService", "operation", "WriteError", "error", writeErr)
			}
			return
		}
		filters.MinRating = &rating
	}

	partners, err := h.service.PartnersForService(r.Context(), serviceID, filters, query.Get("sort_by"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PartnersForService", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, partners); err != nil {
		h.log.Error("failed to write success response", "handler", "PartnersForService", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MatchingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/services/:id/partners", h.PartnersForService)
}
