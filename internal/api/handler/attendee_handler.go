package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventhub/event-management/internal/core/ports"
)

// AttendeeHandler exposes event registration endpoints.
type AttendeeHandler struct {
	service ports.AttendeeService
}

func NewAttendeeHandler(service ports.AttendeeService) *AttendeeHandler {
	return &AttendeeHandler{service: service}
}

// Register handles POST /api/attendees/register/:eventId.
//
// @Summary      Register the caller for an event
// @Tags         attendees
// @Produce      json
// @Security     BearerAuth
// @Param        eventId  path      int  true  "Event ID"
// @Success      201      {object}  attendeeResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Router       /api/attendees/register/{eventId} [post]
func (h *AttendeeHandler) Register(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "eventId")
	if err != nil {
		return err
	}
	attendee, err := h.service.Register(c.Request().Context(), caller, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toAttendeeResponse(attendee))
}

// Cancel handles DELETE /api/attendees/cancel/:attendeeId.
//
// @Summary      Cancel a registration
// @Tags         attendees
// @Security     BearerAuth
// @Param        attendeeId  path  int  true  "Attendee ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/attendees/cancel/{attendeeId} [delete]
func (h *AttendeeHandler) Cancel(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	attendeeID, err := pathID(c, "attendeeId")
	if err != nil {
		return err
	}
	if err := h.service.Cancel(c.Request().Context(), caller, attendeeID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByEvent handles GET /api/attendees/event/:eventId.
//
// @Summary      List the attendees of an event
// @Tags         attendees
// @Produce      json
// @Security     BearerAuth
// @Param        eventId  path      int  true  "Event ID"
// @Success      200      {array}   attendeeResponse
// @Router       /api/attendees/event/{eventId} [get]
func (h *AttendeeHandler) ListByEvent(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "eventId")
	if err != nil {
		return err
	}
	attendees, err := h.service.ListByEvent(c.Request().Context(), caller, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttendeeResponses(attendees))
}
