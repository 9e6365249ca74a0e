package handler

import (
	"net/http"
	"strconv"
	"time"

	"homefix/internal/model"
	"homefix/internal/ticket"
	"homefix/pkg/database"
	"homefix/pkg/logger"
	"homefix/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func ticketID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, ticket.ErrTicketNotFound
	}
	return uint(id), nil
}

// CreateTicket reports a new issue in the acting tenant's unit.
func CreateTicket(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTicketOperation("create")

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		IssueCategory string `json:"issue_category"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	t, err := ticket.NewService(database.GetDB()).Create(a, ticket.CreateInput{
		Title:         req.Title,
		Description:   req.Description,
		IssueCategory: model.IssueCategory(req.IssueCategory),
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Ticket created",
		zap.Uint("ticket_id", t.ID),
		zap.Uint("unit_id", t.UnitID),
		zap.String("issue_category", string(t.IssueCategory)))
	return c.JSON(http.StatusCreated, t)
}

// ListTickets returns the role-appropriate ticket list: a tenant's own
// tickets (active by default, resolved with ?scope=resolved), the
// representative's building tickets, or the contractor's assignments.
func ListTickets(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	svc := ticket.NewService(database.GetDB())
	defer prometheus.TrackDBOperation("query")(time.Now())

	var items []ticket.ListItem
	switch a.Role {
	case model.RoleTenant:
		if c.QueryParam("scope") == "resolved" {
			items, err = svc.ResolvedForTenant(a)
		} else {
			items, err = svc.ActiveForTenant(a)
		}
	case model.RoleRepresentative:
		if a.BuildingID == 0 {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Nije pronađena zgrada."})
		}
		items, err = svc.ForBuilding(a.BuildingID)
	case model.RoleContractor:
		items, err = svc.ForContractor(a)
	case model.RoleAdmin:
		if raw := c.QueryParam("building_id"); raw != "" {
			id, perr := strconv.ParseUint(raw, 10, 32)
			if perr != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid building_id"})
			}
			items, err = svc.ForBuilding(uint(id))
		} else {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "building_id is required"})
		}
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetTicket returns a single ticket, gated by the view rule.
func GetTicket(c echo.Context) error {
	prometheus.RecordTicketOperation("view")

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := ticketID(c)
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	t, err := ticket.NewService(database.GetDB()).Get(a, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteTicket removes a ticket, gated by the delete rule.
func DeleteTicket(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTicketOperation("delete")

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := ticketID(c)
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := ticket.NewService(database.GetDB()).Delete(a, id); err != nil {
		return respondError(c, err)
	}

	log.Info("Ticket deleted", zap.Uint("ticket_id", id), zap.Uint("by", a.UserID))
	return c.NoContent(http.StatusNoContent)
}

// AssignContractor sets the ticket's contractor after the role/building
// and specialization compatibility checks.
func AssignContractor(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTicketOperation("assign")

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := ticketID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		AssignedTo uint `json:"assigned_to"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.AssignedTo == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Nedostaje 'assigned_to'."})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	t, err := ticket.NewService(database.GetDB()).Assign(a, id, req.AssignedTo)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Ticket assigned",
		zap.Uint("ticket_id", t.ID),
		zap.Uint("contractor", req.AssignedTo))
	return c.JSON(http.StatusOK, echo.Map{"message": "Ticket successfully assigned.", "ticket": t})
}

// UpdateTicketStatus applies a lifecycle transition.
func UpdateTicketStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTicketOperation("status")

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := ticketID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	t, err := ticket.NewService(database.GetDB()).UpdateStatus(a, id, model.TicketStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Ticket status updated",
		zap.Uint("ticket_id", t.ID),
		zap.String("status", string(t.Status)))
	return c.JSON(http.StatusOK, t)
}

// UpdateTicketComment sets the assigned contractor's note.
func UpdateTicketComment(c echo.Context) error {
	prometheus.RecordTicketOperation("comment")

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := ticketID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	t, err := ticket.NewService(database.GetDB()).UpdateComment(a, id, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// AddTicketPhoto appends an attachment URL issued by the blob store.
func AddTicketPhoto(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := ticketID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		PhotoURL string `json:"photo_url"`
	}
	if err := c.Bind(&req); err != nil || req.PhotoURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "photo_url is required"})
	}

	p, err := ticket.NewService(database.GetDB()).AddPhoto(a, id, req.PhotoURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// ListTicketPhotos lists a ticket's attachments.
func ListTicketPhotos(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := ticketID(c)
	if err != nil {
		return respondError(c, err)
	}

	photos, err := ticket.NewService(database.GetDB()).Photos(a, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, photos)
}

// CreateRating records the tenant's review of resolved work.
func CreateRating(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTicketOperation("rating")

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := ticketID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	r, err := ticket.NewService(database.GetDB()).CreateRating(a, id, req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Rating created",
		zap.Uint("ticket_id", id),
		zap.Int("rating", r.Rating))
	return c.JSON(http.StatusCreated, r)
}
