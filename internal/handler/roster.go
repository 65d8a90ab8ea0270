package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarops/missionline/internal/config"
	"github.com/sarops/missionline/internal/model"
	"github.com/sarops/missionline/internal/repository"
	"github.com/sarops/missionline/internal/service"
)

// RosterHandler serves the sign-in list and delegates check-in, check-out
// and reassignment to the RosterService.
type RosterHandler struct {
	SignIns *repository.SignInRepo
	Service *service.RosterService
	Org     config.Org

	loc *time.Location
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(signIns *repository.SignInRepo, svc *service.RosterService, org config.Org) *RosterHandler {
	if signIns == nil || svc == nil {
		panic("nil dependency passed to NewRosterHandler")
	}
	return &RosterHandler{SignIns: signIns, Service: svc, Org: org, loc: org.Location()}
}

// signInEntry is the wire form of a sign-in, with timestamps in the
// organization's local time.
type signInEntry struct {
	ID       int64      `json:"id"`
	EventID  int64      `json:"eventId"`
	MemberID int64      `json:"memberId"`
	Name     string     `json:"name"`
	TimeIn   time.Time  `json:"timeIn"`
	TimeOut  *time.Time `json:"timeOut"`
	Miles    *int       `json:"miles"`
}

func (h *RosterHandler) entry(s model.SignIn) signInEntry {
	e := signInEntry{
		ID:       s.ID,
		EventID:  s.EventID,
		MemberID: s.MemberID,
		Name:     s.Name,
		TimeIn:   s.TimeIn.In(h.loc),
		Miles:    s.Miles,
	}
	if s.TimeOut != nil {
		t := s.TimeOut.In(h.loc)
		e.TimeOut = &t
	}
	return e
}

func (e signInEntry) model() model.SignIn {
	return model.SignIn{
		ID:       e.ID,
		EventID:  e.EventID,
		MemberID: e.MemberID,
		Name:     e.Name,
		TimeIn:   e.TimeIn,
		TimeOut:  e.TimeOut,
		Miles:    e.Miles,
	}
}

// List handles GET /api/roster: the sign-ins of all active events, newest
// check-in first.
func (h *RosterHandler) List(c echo.Context) error {
	cutoff := h.Org.ActiveCutoff(time.Now())
	signIns, err := h.SignIns.ListActive(c.Request().Context(), cutoff)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	entries := make([]signInEntry, 0, len(signIns))
	for _, s := range signIns {
		entries = append(entries, h.entry(s))
	}
	return c.JSON(http.StatusOK, entries)
}

// Create handles POST /api/roster (check-in).
func (h *RosterHandler) Create(c echo.Context) error { return h.save(c, true) }

// Update handles PUT /api/roster (check-out or correction).
func (h *RosterHandler) Update(c echo.Context) error { return h.save(c, false) }

func (h *RosterHandler) save(c echo.Context, isNew bool) error {
	var payload signInEntry
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	saved, err := h.Service.Save(c.Request().Context(), payload.model(), isNew)
	if err != nil {
		return writeError(c, err)
	}
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	return c.JSON(status, h.entry(*saved))
}

// Reassign handles POST /api/roster/:id/reassign/:eventId.
func (h *RosterHandler) Reassign(c echo.Context) error {
	signInID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sign-in id"})
	}
	toEventID, err := pathID(c, "eventId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	moved, err := h.Service.Reassign(c.Request().Context(), signInID, toEventID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.entry(*moved))
}
