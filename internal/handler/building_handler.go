package handler

import (
	"net/http"
	"strconv"
	"time"

	"homefix/internal/authz"
	"homefix/internal/model"
	"homefix/pkg/database"
	"homefix/pkg/logger"
	"homefix/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateBuilding creates a building and links the acting representative
// to it in one transaction. This is the one operation a representative
// performs before any linkage exists.
func CreateBuilding(c echo.Context) error {
	log := logger.FromContext(c)

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := authz.Authorize(a, authz.OpCreateBuilding, authz.Target{}); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Address    string `json:"address"`
		PostalCode string `json:"postal_code"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Address == "" || req.PostalCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Address and postal code are required"})
	}

	var building model.Building
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		building = model.Building{Address: req.Address, PostalCode: req.PostalCode}
		if err := tx.Create(&building).Error; err != nil {
			return err
		}
		rep := model.Representative{UserID: a.UserID, BuildingID: building.ID}
		return tx.Create(&rep).Error
	})
	if err != nil {
		log.Error("Failed to create building", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create building"})
	}

	log.Info("Building created",
		zap.Uint("building_id", building.ID),
		zap.Uint("representative", a.UserID))
	return c.JSON(http.StatusCreated, building)
}

// CreateUnit adds a unit to the representative's building.
func CreateUnit(c echo.Context) error {
	log := logger.FromContext(c)

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	if a.Role != model.RoleRepresentative && !a.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Only representatives can manage units"})
	}

	var req struct {
		BuildingID uint   `json:"building_id"`
		Label      string `json:"label"`
		Floor      int    `json:"floor"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	buildingID := req.BuildingID
	if buildingID == 0 {
		buildingID = a.BuildingID
	}
	if buildingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "building_id is required"})
	}
	// A representative's authority is scoped strictly to their building.
	if !a.IsAdmin() && buildingID != a.BuildingID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Predstavnik nije dodijeljen ovoj zgradi."})
	}

	unit := model.BuildingUnit{BuildingID: buildingID, Label: req.Label, Floor: req.Floor}
	if err := database.GetDB().Create(&unit).Error; err != nil {
		log.Error("Failed to create unit", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create unit"})
	}
	return c.JSON(http.StatusCreated, unit)
}

// ListUnits returns the units of the representative's building.
func ListUnits(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	buildingID := a.BuildingID
	if a.IsAdmin() {
		if raw := c.QueryParam("building_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid building_id"})
			}
			buildingID = uint(id)
		}
	}
	if buildingID == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Nije pronađena zgrada."})
	}

	var units []model.BuildingUnit
	if err := database.GetDB().Where("building_id = ?", buildingID).Order("floor asc, label asc").Find(&units).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list units"})
	}
	return c.JSON(http.StatusOK, units)
}
