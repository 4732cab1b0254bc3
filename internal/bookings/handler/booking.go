package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"reservo/internal/bookings/repository"
	"reservo/internal/bookings/service"
	apperrors "reservo/pkg/errors"
	httputil "reservo/pkg/http"
	"reservo/pkg/kafka"
	"reservo/pkg/logger"
	"reservo/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	events  kafka.EventPublisher
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, events kafka.EventPublisher, log *logger.Logger) *BookingHandler {
	if events == nil {
		events = kafka.NoopPublisher{}
	}
	return &BookingHandler{
		service: service,
		events:  events,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	h.events.PublishBookingEvent(r.Context(), kafka.EventBookingCreated, bookingEvent(&booking))

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	workspaceID := query.Get("workspace_id")
	if workspaceID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("workspace_id query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	filter := repository.ListFilter{
		Status:    query.Get("status"),
		ContactID: query.Get("contact_id"),
	}
	if filter.From, err = parseOptionalTime(query.Get("from")); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid from parameter, must be RFC3339")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}
	if filter.To, err = parseOptionalTime(query.Get("to")); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid to parameter, must be RFC3339")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.List(r.Context(), workspaceID, filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if updates.ScheduledAt != nil {
		h.events.PublishBookingEvent(r.Context(), kafka.EventBookingRescheduled, bookingEvent(booking))
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var update model.BookingStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "error", writeErr)
		}
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), id, update.Status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "error", writeErr)
		}
		return
	}

	eventType := kafka.EventBookingStatusSet
	if update.Status == model.StatusCancelled {
		eventType = kafka.EventBookingCancelled
	}
	h.events.PublishBookingEvent(r.Context(), eventType, bookingEvent(booking))

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	h.events.PublishBookingEvent(r.Context(), kafka.EventBookingCancelled, bookingEvent(booking))

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	workspaceID := query.Get("workspace_id")
	serviceTypeID := query.Get("service_type_id")
	dateStr := query.Get("date")

	if workspaceID == "" || serviceTypeID == "" || dateStr == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(
			"workspace_id, date and service_type_id query parameters are required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Slots", "error", writeErr)
		}
		return
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(
			fmt.Sprintf("invalid date %q, must be YYYY-MM-DD", dateStr))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Slots", "error", writeErr)
		}
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), workspaceID, date, serviceTypeID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Slots", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "Slots", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/slots", h.Slots)
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.PUT("/api/v1/bookings/id/:id/status", h.UpdateStatus)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
}

func bookingEvent(b *model.Booking) kafka.BookingEvent {
	return kafka.BookingEvent{
		BookingID:       b.ID,
		WorkspaceID:     b.WorkspaceID,
		ContactID:       b.ContactID,
		ServiceTypeID:   b.ServiceTypeID,
		ScheduledAt:     b.ScheduledAt,
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status,
	}
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
