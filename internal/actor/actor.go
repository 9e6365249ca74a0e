package actor

import (
	"errors"

	"homefix/internal/model"

	"gorm.io/gorm"
)

// ErrProfileNotFound signals that no profile row exists for the user.
// Callers use it to redirect into onboarding.
var ErrProfileNotFound = errors.New("Profil nije pronađen.")

// Actor is the resolved identity every authorization decision runs
// against: the profile role plus its role-specific linkage. It is
// resolved once per request, from current storage state, and passed
// explicitly instead of re-querying role tables inside each handler.
type Actor struct {
	UserID uint
	Role   model.Role

	// UnitID is set for tenants.
	UnitID uint
	// BuildingID is set for representatives. Zero during representative
	// onboarding, before the building exists.
	BuildingID uint
	// Specialization is set for contractors.
	Specialization model.Specialization
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// Resolve loads the actor for a user id: the profile role and, depending
// on the role, the tenant unit, representative building or contractor
// specialization.
func Resolve(db *gorm.DB, userID uint) (*Actor, error) {
	var profile model.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	a := &Actor{UserID: userID, Role: profile.Role}

	switch profile.Role {
	case model.RoleTenant:
		var tenant model.Tenant
		if err := db.Where("user_id = ?", userID).First(&tenant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Profile exists but the unit link does not: the tenant
				// has not completed invited signup yet.
				return a, nil
			}
			return nil, err
		}
		a.UnitID = tenant.UnitID
	case model.RoleRepresentative:
		var rep model.Representative
		if err := db.Where("user_id = ?", userID).First(&rep).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Onboarding: the representative may act (create a
				// building) before the linkage exists.
				return a, nil
			}
			return nil, err
		}
		a.BuildingID = rep.BuildingID
	case model.RoleContractor:
		var contractor model.Contractor
		if err := db.Where("user_id = ?", userID).First(&contractor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return a, nil
			}
			return nil, err
		}
		a.Specialization = contractor.Specialization
	}

	return a, nil
}
