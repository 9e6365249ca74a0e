package handler

import (
	"errors"
	"net/http"

	"homefix/internal/authz"
	"homefix/internal/model"
	"homefix/pkg/database"
	"homefix/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InviteTenant records a pending tenant invite for a unit in the
// representative's building. Delivery of the invite email is an
// external side channel; this persists the invitation and returns its
// token.
func InviteTenant(c echo.Context) error {
	log := logger.FromContext(c)

	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := authz.Authorize(a, authz.OpInviteTenant, authz.Target{}); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Email  string `json:"email"`
		UnitID uint   `json:"unit_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email je obavezan."})
	}

	// The invited unit must belong to the representative's building.
	var unit model.BuildingUnit
	if err := database.GetDB().Where("id = ?", req.UnitID).First(&unit).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Stan nije pronađen."})
	}
	if !a.IsAdmin() && unit.BuildingID != a.BuildingID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Predstavnik nije dodijeljen ovoj zgradi."})
	}

	inv := model.Invitation{
		FromID:  a.UserID,
		ToEmail: req.Email,
		UnitID:  req.UnitID,
		Token:   uuid.New().String(),
	}
	if err := database.GetDB().Create(&inv).Error; err != nil {
		log.Error("Failed to create invitation", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create invitation"})
	}

	log.Info("Tenant invited",
		zap.String("email", req.Email),
		zap.Uint("unit_id", req.UnitID))
	return c.JSON(http.StatusCreated, inv)
}

// CancelInvitation deletes a pending invitation the actor sent.
func CancelInvitation(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	var inv model.Invitation
	if err := database.GetDB().Where("id = ?", c.Param("id")).First(&inv).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Pozivnica nije pronađena."})
	}
	if !a.IsAdmin() && inv.FromID != a.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Nemate ovlasti za otkazivanje ove pozivnice."})
	}

	if err := database.GetDB().Delete(&inv).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel invitation"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AcceptInvitation completes invited tenant signup: the authenticated
// user presents the invitation token, gets linked to the invited unit,
// and the invitation is deleted.
func AcceptInvitation(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Niste prijavljeni."})
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}

	var inv model.Invitation
	if err := database.GetDB().Where("token = ?", req.Token).First(&inv).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Nemate valjanu pozivnicu za stanara."})
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var profile model.Profile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			var user model.User
			if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
				return err
			}
			profile = model.Profile{
				UserID:    userID,
				Role:      model.RoleTenant,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Email:     user.Email,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		tenant := model.Tenant{UserID: userID, UnitID: inv.UnitID}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	})
	if err != nil {
		log.Error("Failed to complete invited signup", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to complete signup"})
	}

	log.Info("Invited tenant signed up",
		zap.Uint("user_id", userID),
		zap.Uint("unit_id", inv.UnitID))
	return c.JSON(http.StatusOK, echo.Map{"message": "signup completed", "unit_id": inv.UnitID})
}
