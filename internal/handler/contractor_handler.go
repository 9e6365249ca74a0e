package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"homefix/internal/membership"
	"homefix/internal/model"
	"homefix/internal/ticket"
	"homefix/pkg/database"
	"homefix/prometheus"

	"github.com/labstack/echo/v4"
)

// ListContractors returns contractors, optionally narrowed to those
// compatible with an issue category so the representative only sees
// assignable candidates.
func ListContractors(c echo.Context) error {
	if _, err := currentActor(c); err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var contractors []model.Contractor
	if err := database.GetDB().Order("company_name asc").Find(&contractors).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list contractors"})
	}

	if raw := c.QueryParam("issue_category"); raw != "" {
		category := model.IssueCategory(raw)
		if !category.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid issue_category"})
		}
		compatible := contractors[:0]
		for _, contractor := range contractors {
			if ticket.IsCompatible(category, contractor.Specialization) {
				compatible = append(compatible, contractor)
			}
		}
		contractors = compatible
	}

	return c.JSON(http.StatusOK, contractors)
}

// CheckMembership reports whether a contractor's membership is active.
func CheckMembership(c echo.Context) error {
	if _, err := currentActor(c); err != nil {
		return respondError(c, err)
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	paid, err := membership.NewService(database.GetDB()).IsPaid(uint(userID))
	if err != nil {
		if errors.Is(err, membership.ErrNoMembership) {
			return c.JSON(http.StatusOK, echo.Map{"paid": false, "error": err.Error()})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"paid": paid})
}
