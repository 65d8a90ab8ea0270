// Package handler implements the HTTP handlers of the API.  Handlers stay
// thin: parse the request, call the service or repository layer, translate
// errors into status codes.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarops/missionline/internal/config"
	"github.com/sarops/missionline/internal/model"
	"github.com/sarops/missionline/internal/repository"
	"github.com/sarops/missionline/internal/service"
)

// EventHandler serves the event list/detail reads and delegates every
// mutation (save, close, reopen, merge) to the EventService.
type EventHandler struct {
	Events  *repository.EventRepo
	Service *service.EventService
	Org     config.Org

	loc *time.Location
}

// NewEventHandler constructs an EventHandler.  All dependencies must be
// non-nil.
func NewEventHandler(events *repository.EventRepo, svc *service.EventService, org config.Org) *EventHandler {
	if events == nil || svc == nil {
		panic("nil dependency passed to NewEventHandler")
	}
	return &EventHandler{Events: events, Service: svc, Org: org, loc: org.Location()}
}

// List handles GET /api/events: active events (open, or closed within the
// organization's active window), newest opened first.
func (h *EventHandler) List(c echo.Context) error {
	cutoff := h.Org.ActiveCutoff(time.Now())
	events, err := h.Events.ListActive(c.Request().Context(), cutoff)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	entries := make([]model.EventEntry, 0, len(events))
	for i := range events {
		entries = append(entries, events[i].Entry(h.loc))
	}
	return c.JSON(http.StatusOK, entries)
}

// Get handles GET /api/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	evt, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, evt.Entry(h.loc))
}

// Create handles POST /api/events.
func (h *EventHandler) Create(c echo.Context) error { return h.save(c, true) }

// Update handles PUT /api/events.
func (h *EventHandler) Update(c echo.Context) error { return h.save(c, false) }

func (h *EventHandler) save(c echo.Context, isNew bool) error {
	var entry model.EventEntry
	if err := c.Bind(&entry); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	saved, err := h.Service.Save(c.Request().Context(), entry, isNew)
	if err != nil {
		return writeError(c, err)
	}
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	return c.JSON(status, saved)
}

// Close handles POST /api/events/:id/close.
func (h *EventHandler) Close(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	entry, err := h.Service.Close(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Reopen handles POST /api/events/:id/reopen.
func (h *EventHandler) Reopen(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	entry, err := h.Service.Reopen(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Merge handles POST /api/events/:fromId/merge/:intoId.
func (h *EventHandler) Merge(c echo.Context) error {
	fromID, err := pathID(c, "fromId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid source event id"})
	}
	intoID, err := pathID(c, "intoId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid destination event id"})
	}
	if fromID == intoID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot merge an event into itself"})
	}
	entry, err := h.Service.Merge(c.Request().Context(), fromID, intoID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// writeError maps service and repository errors onto HTTP responses:
// validation and precondition failures become 400 with the collected error
// list, unresolved identifiers 404, anything else a generic 500.
func writeError(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": verr.Errors})
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrSignInNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
