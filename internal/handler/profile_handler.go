package handler

import (
	"net/http"
	"time"

	"homefix/internal/model"
	"homefix/pkg/database"
	"homefix/pkg/logger"
	"homefix/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// roleMap translates the onboarding role choice into the stored enum.
var roleMap = map[string]model.Role{
	"predstavnik": model.RoleRepresentative,
	"majstor":     model.RoleContractor,
	"stanar":      model.RoleTenant,
}

// CreateProfile completes onboarding by choosing a role. Exactly one
// profile per user; the admin role is never self-assignable.
func CreateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Niste prijavljeni."})
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Role is required"})
	}

	role, ok := roleMap[req.Role]
	if !ok {
		// Accept the stored enum values too, except ADMIN.
		candidate := model.Role(req.Role)
		if !candidate.Valid() || candidate == model.RoleAdmin {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid role"})
		}
		role = candidate
	}

	var user model.User
	if err := database.GetDB().Where("id = ?", userID).First(&user).Error; err != nil {
		log.Error("User not found for profile creation", zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	var existing model.Profile
	if err := database.GetDB().Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "profile already exists"})
	}

	profile := model.Profile{
		UserID:    userID,
		Role:      role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := database.GetDB().Create(&profile).Error; err != nil {
		log.Error("Failed to create profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create profile"})
	}

	log.Info("Profile created",
		zap.Uint("user_id", userID),
		zap.String("role", string(role)))
	return c.JSON(http.StatusCreated, profile)
}

// GetMyProfile returns the authenticated user's profile.
func GetMyProfile(c echo.Context) error {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Niste prijavljeni."})
	}

	var profile model.Profile
	if err := database.GetDB().Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Profil nije pronađen."})
	}
	return c.JSON(http.StatusOK, profile)
}
