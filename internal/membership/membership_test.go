package membership

import (
	"testing"
	"time"

	"homefix/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Contractor{}, &model.Membership{}))
	return db
}

func serviceAt(db *gorm.DB, at time.Time) *Service {
	svc := NewService(db)
	svc.now = func() time.Time { return at }
	return svc
}

func TestIsPaid(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&model.Membership{
		UserID:    200,
		Price:     12000,
		Currency:  "eur",
		ExpiresAt: now,
		LastPaid:  now.Add(-Period),
	}).Error)

	t.Run("no membership row", func(t *testing.T) {
		_, err := serviceAt(db, now).IsPaid(999)
		assert.ErrorIs(t, err, ErrNoMembership)
	})

	t.Run("before expiry", func(t *testing.T) {
		paid, err := serviceAt(db, now.Add(-time.Second)).IsPaid(200)
		require.NoError(t, err)
		assert.True(t, paid)
	})

	t.Run("exactly at expiry is unpaid", func(t *testing.T) {
		paid, err := serviceAt(db, now).IsPaid(200)
		require.NoError(t, err)
		assert.False(t, paid)
	})

	t.Run("after expiry", func(t *testing.T) {
		paid, err := serviceAt(db, now.Add(time.Second)).IsPaid(200)
		require.NoError(t, err)
		assert.False(t, paid)
	})
}

func TestApplyPaymentEvent_FirstPayment(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc := serviceAt(db, now)

	ev := PaymentEvent{
		UserID:   200,
		Amount:   12000,
		Currency: "eur",
		Contractor: ContractorData{
			CompanyName:    "Vodoinstalacije Kovač",
			Phone:          "+385 98 111 2222",
			Specialization: model.SpecializationPlumber,
		},
	}
	require.NoError(t, svc.ApplyPaymentEvent(ev))

	var contractor model.Contractor
	require.NoError(t, db.Where("user_id = ?", 200).First(&contractor).Error)
	assert.Equal(t, "Vodoinstalacije Kovač", contractor.CompanyName)
	assert.Equal(t, model.SpecializationPlumber, contractor.Specialization)

	var m model.Membership
	require.NoError(t, db.Where("user_id = ?", 200).First(&m).Error)
	assert.Equal(t, int64(12000), m.Price)
	assert.True(t, m.ExpiresAt.Equal(now.Add(Period)))
	assert.True(t, m.LastPaid.Equal(now))

	paid, err := svc.IsPaid(200)
	require.NoError(t, err)
	assert.True(t, paid)
}

func TestApplyPaymentEvent_RenewalExtendsFromExpiry(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	ev := PaymentEvent{
		UserID:     200,
		Amount:     12000,
		Currency:   "eur",
		Contractor: ContractorData{CompanyName: "Obrt Kovač", Specialization: model.SpecializationGeneral},
	}
	require.NoError(t, serviceAt(db, now).ApplyPaymentEvent(ev))

	// Renewing 100 days in, while still active, extends from the current
	// expiry rather than from the renewal moment.
	renewal := now.Add(100 * 24 * time.Hour)
	require.NoError(t, serviceAt(db, renewal).ApplyPaymentEvent(ev))

	var m model.Membership
	require.NoError(t, db.Where("user_id = ?", 200).First(&m).Error)
	assert.True(t, m.ExpiresAt.Equal(now.Add(Period).Add(Period)))
	assert.True(t, m.LastPaid.Equal(renewal))
}

func TestApplyPaymentEvent_LapsedRenewalExtendsFromNow(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	ev := PaymentEvent{
		UserID:     200,
		Amount:     15000,
		Currency:   "eur",
		Contractor: ContractorData{CompanyName: "Obrt Kovač", Specialization: model.SpecializationGeneral},
	}
	require.NoError(t, serviceAt(db, now).ApplyPaymentEvent(ev))

	// The membership lapsed; the renewal runs two years later.
	renewal := now.Add(2 * Period)
	require.NoError(t, serviceAt(db, renewal).ApplyPaymentEvent(ev))

	var m model.Membership
	require.NoError(t, db.Where("user_id = ?", 200).First(&m).Error)
	assert.True(t, m.ExpiresAt.Equal(renewal.Add(Period)))
}

func TestApplyPaymentEvent_DuplicateDelivery(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc := serviceAt(db, now)

	ev := PaymentEvent{
		UserID:     200,
		Amount:     12000,
		Currency:   "eur",
		Contractor: ContractorData{CompanyName: "Obrt Kovač", Specialization: model.SpecializationCarpenter},
	}
	require.NoError(t, svc.ApplyPaymentEvent(ev))
	require.NoError(t, svc.ApplyPaymentEvent(ev))

	// A redelivered event never duplicates rows; at the same instant it
	// extends the same membership, which is acceptable for a retry.
	var contractors, memberships int64
	require.NoError(t, db.Model(&model.Contractor{}).Where("user_id = ?", 200).Count(&contractors).Error)
	require.NoError(t, db.Model(&model.Membership{}).Where("user_id = ?", 200).Count(&memberships).Error)
	assert.Equal(t, int64(1), contractors)
	assert.Equal(t, int64(1), memberships)
}
