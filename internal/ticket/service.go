package ticket

import (
	"errors"
	"strings"
	"time"

	"homefix/internal/actor"
	"homefix/internal/authz"
	"homefix/internal/model"

	"gorm.io/gorm"
)

// Service owns the ticket lifecycle: creation, reads, deletion,
// contractor assignment, status transitions, contractor comments,
// photos and ratings. Every operation re-reads the current ticket and
// its derived building before authorizing, so decisions never run
// against a stale snapshot.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService returns a ticket service over the given database.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// CreateInput is the payload for reporting a new issue.
type CreateInput struct {
	Title         string
	Description   string
	IssueCategory model.IssueCategory
}

// BuildingOf derives the building id for a unit. The building is never
// stored on the ticket itself, so this is the only derivation path.
func (s *Service) BuildingOf(unitID uint) (uint, error) {
	var unit model.BuildingUnit
	if err := s.db.Select("building_id").Where("id = ?", unitID).First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrBuildingNotFound
		}
		return 0, err
	}
	return unit.BuildingID, nil
}

// loadTarget fetches the current ticket state and its derived building
// for an authorization decision.
func (s *Service) loadTarget(ticketID uint) (*model.Ticket, authz.Target, error) {
	var t model.Ticket
	if err := s.db.Where("id = ?", ticketID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authz.Target{}, ErrTicketNotFound
		}
		return nil, authz.Target{}, err
	}

	buildingID, err := s.BuildingOf(t.UnitID)
	if err != nil {
		return nil, authz.Target{}, err
	}

	return &t, authz.Target{Ticket: &t, BuildingID: buildingID}, nil
}

// Create reports a new issue in the acting tenant's unit. The ticket is
// born OPEN.
func (s *Service) Create(a *actor.Actor, in CreateInput) (*model.Ticket, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || in.IssueCategory == "" {
		return nil, ErrMissingFields
	}
	if !in.IssueCategory.Valid() {
		return nil, ErrMissingFields
	}

	if err := authz.Authorize(a, authz.OpCreateTicket, authz.Target{}); err != nil {
		return nil, err
	}

	t := model.Ticket{
		UnitID:        a.UnitID,
		Title:         in.Title,
		Description:   in.Description,
		IssueCategory: in.IssueCategory,
		Status:        model.StatusOpen,
		CreatedBy:     a.UserID,
	}
	if err := s.db.Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Get returns the ticket if the actor may view it: its creator, the
// assigned contractor, the building's representative or an admin.
func (s *Service) Get(a *actor.Actor, ticketID uint) (*model.Ticket, error) {
	t, target, err := s.loadTarget(ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(a, authz.OpViewTicket, target); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a ticket and its attachments. Allowed for the creator,
// the building's representative or an admin.
func (s *Service) Delete(a *actor.Actor, ticketID uint) error {
	_, target, err := s.loadTarget(ticketID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(a, authz.OpDeleteTicket, target); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", ticketID).Delete(&model.Photo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ticket_id = ?", ticketID).Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", ticketID).Delete(&model.Ticket{}).Error
	})
}

// Assign sets the ticket's contractor. The role/building authorization
// runs first; the specialization compatibility check is a separate
// failure mode evaluated only after the role check passes. Re-assigning
// the contractor already on the ticket succeeds without a write.
func (s *Service) Assign(a *actor.Actor, ticketID, contractorUserID uint) (*model.Ticket, error) {
	t, target, err := s.loadTarget(ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(a, authz.OpAssignContractor, target); err != nil {
		return nil, err
	}

	var contractor model.Contractor
	if err := s.db.Where("user_id = ?", contractorUserID).First(&contractor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractorNotFound
		}
		return nil, err
	}

	if !IsCompatible(t.IssueCategory, contractor.Specialization) {
		return nil, &IncompatibleSpecializationError{
			IssueCategory:  t.IssueCategory,
			Specialization: contractor.Specialization,
		}
	}

	if t.AssignedTo != nil && *t.AssignedTo == contractorUserID {
		return t, nil
	}

	if err := s.db.Model(&model.Ticket{}).Where("id = ?", ticketID).
		Update("assigned_to", contractorUserID).Error; err != nil {
		return nil, err
	}
	t.AssignedTo = &contractorUserID
	return t, nil
}

// UpdateStatus applies a lifecycle transition. The three states carry no
// enforced order; moving into RESOLVED stamps resolved_at, moving back
// out clears it. The write is conditional on the status we read, so a
// concurrent transition surfaces as ErrStatusConflict instead of a
// silent double-write.
func (s *Service) UpdateStatus(a *actor.Actor, ticketID uint, newStatus model.TicketStatus) (*model.Ticket, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	t, target, err := s.loadTarget(ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(a, authz.OpUpdateStatus, target); err != nil {
		return nil, err
	}

	// Idempotent: same status is a no-op success.
	if t.Status == newStatus {
		return t, nil
	}

	updates := map[string]interface{}{"status": newStatus}
	if newStatus == model.StatusResolved && t.ResolvedAt == nil {
		updates["resolved_at"] = s.now()
	}
	if newStatus != model.StatusResolved && t.ResolvedAt != nil {
		updates["resolved_at"] = nil
	}

	res := s.db.Model(&model.Ticket{}).
		Where("id = ? AND status = ?", ticketID, t.Status).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStatusConflict
	}

	var updated model.Ticket
	if err := s.db.Where("id = ?", ticketID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateComment sets the contractor's free-text note on the ticket.
func (s *Service) UpdateComment(a *actor.Actor, ticketID uint, comment string) (*model.Ticket, error) {
	t, target, err := s.loadTarget(ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(a, authz.OpUpdateComment, target); err != nil {
		return nil, err
	}

	if err := s.db.Model(&model.Ticket{}).Where("id = ?", ticketID).
		Update("comment", comment).Error; err != nil {
		return nil, err
	}
	t.Comment = &comment
	return t, nil
}

// CreateRating records the tenant's review of resolved work. At most one
// rating exists per ticket; the unique index backs the check-then-insert
// so a race resolves to ErrAlreadyRated for the loser.
func (s *Service) CreateRating(a *actor.Actor, ticketID uint, value int, comment string) (*model.Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRatingRange
	}

	_, target, err := s.loadTarget(ticketID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&model.Rating{}).Where("ticket_id = ?", ticketID).Count(&count).Error; err != nil {
		return nil, err
	}
	target.HasRating = count > 0

	if err := authz.Authorize(a, authz.OpCreateRating, target); err != nil {
		return nil, err
	}

	r := model.Rating{TicketID: ticketID, Rating: value}
	if comment != "" {
		r.Comment = &comment
	}
	if err := s.db.Create(&r).Error; err != nil {
		// The unique index on ticket_id catches the duplicate the count
		// above raced past.
		return nil, authz.ErrAlreadyRated
	}
	return &r, nil
}

// AddPhoto appends an attachment URL to a ticket the actor may view.
func (s *Service) AddPhoto(a *actor.Actor, ticketID uint, photoURL string) (*model.Photo, error) {
	_, target, err := s.loadTarget(ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(a, authz.OpViewTicket, target); err != nil {
		return nil, err
	}

	p := model.Photo{TicketID: ticketID, PhotoURL: photoURL}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Photos lists a ticket's attachments, oldest first.
func (s *Service) Photos(a *actor.Actor, ticketID uint) ([]model.Photo, error) {
	_, target, err := s.loadTarget(ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(a, authz.OpViewTicket, target); err != nil {
		return nil, err
	}

	var photos []model.Photo
	if err := s.db.Where("ticket_id = ?", ticketID).Order("created_at asc").Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}
