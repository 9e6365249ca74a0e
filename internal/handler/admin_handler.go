package handler

import (
	"net/http"
	"strconv"
	"time"

	"homefix/internal/model"
	"homefix/pkg/database"
	"homefix/pkg/logger"
	"homefix/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// requireAdmin resolves the actor and rejects everyone but admins.
func requireAdmin(c echo.Context) error {
	a, err := currentActor(c)
	if err != nil {
		return err
	}
	if !a.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}
	return nil
}

// ListUsers returns every profile, newest first, with the block flag
// from the credential row.
func ListUsers(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var profiles []model.Profile
	if err := database.GetDB().Order("created_at desc").Find(&profiles).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list users"})
	}

	userIDs := make([]uint, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
	}
	blocked := make(map[uint]bool, len(userIDs))
	if len(userIDs) > 0 {
		var users []model.User
		if err := database.GetDB().Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list users"})
		}
		for _, u := range users {
			blocked[u.ID] = u.Blocked
		}
	}

	type userRow struct {
		model.Profile
		IsBlocked bool `json:"is_blocked"`
	}
	rows := make([]userRow, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, userRow{Profile: p, IsBlocked: blocked[p.UserID]})
	}
	return c.JSON(http.StatusOK, rows)
}

// UpdateUserRole changes a profile's role. Role assignment after
// onboarding is admin-only.
func UpdateUserRole(c echo.Context) error {
	log := logger.FromContext(c)
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	role := model.Role(req.Role)
	if !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid role"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var profile model.Profile
	if err := database.GetDB().Where("user_id = ?", uint(userID)).First(&profile).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Profil nije pronađen."})
	}
	if err := database.GetDB().Model(&profile).Update("role", role).Error; err != nil {
		log.Error("Failed to update role", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update role"})
	}

	log.Info("User role updated",
		zap.Uint64("user_id", userID),
		zap.String("role", string(role)))
	profile.Role = role
	return c.JSON(http.StatusOK, profile)
}

// ToggleUserBlock blocks or unblocks a user's credential row.
func ToggleUserBlock(c echo.Context) error {
	log := logger.FromContext(c)
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
	}

	var req struct {
		Blocked bool `json:"blocked"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	res := database.GetDB().Model(&model.User{}).Where("id = ?", uint(userID)).Update("blocked", req.Blocked)
	if res.Error != nil {
		log.Error("Failed to toggle block", zap.Error(res.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update user"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	log.Info("User block toggled",
		zap.Uint64("user_id", userID),
		zap.Bool("blocked", req.Blocked))
	return c.JSON(http.StatusOK, echo.Map{"user_id": userID, "blocked": req.Blocked})
}

// GetMembershipPrice reads the active membership price from the billing
// processor.
func GetMembershipPrice(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	price, err := paymentClient.GetMembershipPrice()
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, price)
}

// UpdateMembershipPrice rotates the membership price at the billing
// processor.
func UpdateMembershipPrice(c echo.Context) error {
	log := logger.FromContext(c)
	if err := requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}

	price, err := paymentClient.UpdateMembershipPrice(req.Amount)
	if err != nil {
		log.Error("Failed to update membership price", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}

	log.Info("Membership price updated", zap.Float64("amount", req.Amount))
	return c.JSON(http.StatusOK, price)
}
