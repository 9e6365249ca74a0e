package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"homefix/internal/model"
	"homefix/internal/report"
	"homefix/pkg/database"
	"homefix/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MonthlyReport serves the representative's building report for a given
// year and month as a spreadsheet download.
func MonthlyReport(c echo.Context) error {
	log := logger.FromContext(c)

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	if a.Role != model.RoleRepresentative || a.BuildingID == 0 {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Nemate ovlasti za izvještaje."})
	}

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year < 2000 || year > 2100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
	}
	monthNum, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month"})
	}

	monthly, err := report.BuildMonthly(database.GetDB(), a.BuildingID, year, time.Month(monthNum))
	if err != nil {
		return respondError(c, err)
	}

	data, err := monthly.WriteXLSX()
	if err != nil {
		log.Error("Failed to render monthly report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render report"})
	}

	log.Info("Monthly report generated",
		zap.Uint("building_id", a.BuildingID),
		zap.Int("year", year),
		zap.Int("month", monthNum),
		zap.Int("rows", monthly.Total))

	filename := fmt.Sprintf("izvjestaj-%d-%02d.xlsx", year, monthNum)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
