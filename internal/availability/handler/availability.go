package handler

import (
	"encoding/json"
	"net/http"

	"reservo/internal/availability/service"
	httputil "reservo/pkg/http"
	"reservo/pkg/logger"
	"reservo/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

type replaceRequest struct {
	Rules []*model.AvailabilityRule `json:"rules"`
}

func (h *AvailabilityHandler) Replace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	workspaceID := ps.ByName("id")

	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Replace", "error", writeErr)
		}
		return
	}

	rules, err := h.service.Replace(r.Context(), workspaceID, req.Rules)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Replace", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rules); err != nil {
		h.log.Error("failed to write success response", "handler", "Replace", "error", err)
	}
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	workspaceID := ps.ByName("id")

	rules, err := h.service.GetActive(r.Context(), workspaceID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rules); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/workspaces/:id/availability", h.Replace)
	router.GET("/api/v1/workspaces/:id/availability", h.Get)
}
