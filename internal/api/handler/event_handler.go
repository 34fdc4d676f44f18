package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventhub/event-management/internal/core/ports"
)

// EventHandler exposes event CRUD and listings.
type EventHandler struct {
	service ports.EventService
}

// NewEventHandler creates an EventHandler backed by the given service.
func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// List handles GET /api/events.
//
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   eventResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/events [get]
func (h *EventHandler) List(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	events, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Get handles GET /api/events/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Event ID"
// @Success      200  {object}  eventResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	event, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(event))
}

// ListByCreator handles GET /api/events/creator/:creatorId.
//
// @Summary      List events created by a user
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        creatorId  path      int  true  "Creator user ID"
// @Success      200        {array}   eventResponse
// @Failure      401        {object}  errorResponse
// @Router       /api/events/creator/{creatorId} [get]
func (h *EventHandler) ListByCreator(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	creatorID, err := pathID(c, "creatorId")
	if err != nil {
		return err
	}
	events, err := h.service.ListByCreator(c.Request().Context(), caller, creatorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// ListRegistered handles GET /api/events/my-registered.
//
// @Summary      List events the caller is registered for
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   eventResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/events/my-registered [get]
func (h *EventHandler) ListRegistered(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	events, err := h.service.ListRegistered(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Create handles POST /api/events. The caller becomes the creator.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      eventRequest  true  "Event"
// @Success      201   {object}  eventResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req eventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	event, err := h.service.Create(c.Request().Context(), caller, toEventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEventResponse(event))
}

// Update handles PUT /api/events/:id. Only the creator or an admin may update.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Event ID"
// @Param        body  body      eventRequest  true  "Event"
// @Success      200   {object}  eventResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req eventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	event, err := h.service.Update(c.Request().Context(), caller, id, toEventInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(event))
}

// Delete handles DELETE /api/events/:id. Admin only.
//
// @Summary      Delete an event
// @Tags         events
// @Security     BearerAuth
// @Param        id  path  int  true  "Event ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	caller, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toEventInput(req eventRequest) ports.EventInput {
	return ports.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		EventDate:   req.EventDate,
		Capacity:    req.Capacity,
	}
}
