// Package membership computes contractor paid status and consumes
// billing events from the external payment processor.
package membership

import (
	"errors"
	"time"

	"homefix/internal/model"

	"gorm.io/gorm"
)

// ErrNoMembership is returned when a contractor has no membership row.
var ErrNoMembership = errors.New("Članarina nije pronađena.")

// Period is how long one successful payment keeps a membership active.
const Period = 365 * 24 * time.Hour

// Service evaluates paid status and applies payment events.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService returns a membership service over the given database.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// IsPaid reports whether the contractor's membership is active. Paid is
// expires_at strictly greater than now, computed at evaluation time; an
// expiry exactly equal to now is not paid.
func (s *Service) IsPaid(userID uint) (bool, error) {
	var m model.Membership
	if err := s.db.Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNoMembership
		}
		return false, err
	}
	return m.ExpiresAt.After(s.now()), nil
}

// ContractorData is the contractor payload carried in a checkout event.
type ContractorData struct {
	CompanyName    string               `json:"name"`
	Phone          string               `json:"phone"`
	Specialization model.Specialization `json:"specialization"`
}

// PaymentEvent is a successful subscription purchase delivered by the
// billing webhook.
type PaymentEvent struct {
	UserID     uint
	Amount     int64
	Currency   string
	Contractor ContractorData
}

// ApplyPaymentEvent creates or refreshes the contractor and membership
// rows for a completed checkout. Both writes are upserts keyed by
// user_id, so a duplicate webhook delivery for the same event never
// creates duplicate rows.
func (s *Service) ApplyPaymentEvent(ev PaymentEvent) error {
	now := s.now()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var contractor model.Contractor
		err := tx.Where("user_id = ?", ev.UserID).First(&contractor).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			contractor = model.Contractor{
				UserID:         ev.UserID,
				CompanyName:    ev.Contractor.CompanyName,
				Phone:          ev.Contractor.Phone,
				Specialization: ev.Contractor.Specialization,
			}
			if err := tx.Create(&contractor).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		var m model.Membership
		err = tx.Where("user_id = ?", ev.UserID).First(&m).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			m = model.Membership{
				UserID:    ev.UserID,
				Price:     ev.Amount,
				Currency:  ev.Currency,
				ExpiresAt: now.Add(Period),
				LastPaid:  now,
			}
			return tx.Create(&m).Error
		case err != nil:
			return err
		}

		// A renewal extends from the current expiry when it is still in
		// the future, otherwise from now.
		from := now
		if m.ExpiresAt.After(now) {
			from = m.ExpiresAt
		}
		return tx.Model(&m).Updates(map[string]interface{}{
			"price":      ev.Amount,
			"currency":   ev.Currency,
			"expires_at": from.Add(Period),
			"last_paid":  now,
		}).Error
	})
}
