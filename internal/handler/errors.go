package handler

import (
	"errors"
	"net/http"

	"homefix/internal/actor"
	"homefix/internal/authz"
	"homefix/internal/membership"
	"homefix/internal/ticket"
	"homefix/pkg/database"
	"homefix/prometheus"

	"github.com/labstack/echo/v4"
)

// currentActor resolves the authenticated user's domain identity from
// current storage state. Authorization never trusts anything older than
// this request.
func currentActor(c echo.Context) (*actor.Actor, error) {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Niste prijavljeni.")
	}
	return actor.Resolve(database.GetDB(), userID)
}

// respondError maps a domain error onto an HTTP status and surfaces the
// message verbatim so the actor knows what to correct.
func respondError(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return c.JSON(httpErr.Code, echo.Map{"error": httpErr.Message})
	}

	var denyErr *authz.DenyError
	if errors.As(err, &denyErr) {
		prometheus.RecordAuthzDenial(string(denyErr.Op))
		status := http.StatusForbidden
		if errors.Is(denyErr, authz.ErrAlreadyRated) {
			status = http.StatusConflict
		}
		return c.JSON(status, echo.Map{"error": denyErr.Error()})
	}

	var incompatible *ticket.IncompatibleSpecializationError
	if errors.As(err, &incompatible) {
		return c.JSON(http.StatusConflict, echo.Map{"error": incompatible.Error()})
	}

	switch {
	case errors.Is(err, actor.ErrProfileNotFound),
		errors.Is(err, ticket.ErrTicketNotFound),
		errors.Is(err, ticket.ErrContractorNotFound),
		errors.Is(err, ticket.ErrBuildingNotFound),
		errors.Is(err, membership.ErrNoMembership):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, ticket.ErrMissingFields),
		errors.Is(err, ticket.ErrInvalidStatus),
		errors.Is(err, ticket.ErrInvalidRatingRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, authz.ErrAlreadyRated):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, ticket.ErrStatusConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
