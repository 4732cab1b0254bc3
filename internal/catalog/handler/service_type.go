package handler

import (
	"encoding/json"
	"net/http"

	"reservo/internal/catalog/service"
	httputil "reservo/pkg/http"
	"reservo/pkg/logger"
	"reservo/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ServiceTypeHandler struct {
	service service.ServiceTypeService
	log     *logger.Logger
}

func NewServiceTypeHandler(service service.ServiceTypeService, log *logger.Logger) *ServiceTypeHandler {
	return &ServiceTypeHandler{
		service: service,
		log:     log,
	}
}

func (h *ServiceTypeHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	workspaceID := ps.ByName("id")

	var serviceType model.ServiceType
	if err := json.NewDecoder(r.Body).Decode(&serviceType); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), workspaceID, &serviceType); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, serviceType); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ServiceTypeHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	workspaceID := ps.ByName("id")

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	serviceTypes, total, err := h.service.List(r.Context(), workspaceID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, serviceTypes, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *ServiceTypeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	serviceType, err := h.service.GetByID(r.Context(), ps.ByName("id"), ps.ByName("stID"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, serviceType); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ServiceTypeHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ServiceTypeUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	serviceType, err := h.service.Update(r.Context(), ps.ByName("id"), ps.ByName("stID"), &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, serviceType); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *ServiceTypeHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Deactivate(r.Context(), ps.ByName("id"), ps.ByName("stID")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ServiceTypeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/workspaces/:id/service-types", h.Create)
	router.GET("/api/v1/workspaces/:id/service-types", h.List)
	router.GET("/api/v1/workspaces/:id/service-types/:stID", h.GetByID)
	router.PATCH("/api/v1/workspaces/:id/service-types/:stID", h.Update)
	router.DELETE("/api/v1/workspaces/:id/service-types/:stID", h.Delete)
}
