package ticket

import (
	"homefix/internal/actor"
	"homefix/internal/model"
)

// UnitSummary is the unit context attached to list rows.
type UnitSummary struct {
	UnitID     uint   `json:"unit_id"`
	Label      string `json:"label"`
	Floor      int    `json:"floor"`
	BuildingID uint   `json:"building_id"`
}

// BuildingSummary is the building context attached to list rows.
type BuildingSummary struct {
	BuildingID uint   `json:"building_id"`
	Address    string `json:"address"`
}

// ListItem is a ticket joined with its unit and building context, plus
// the rating where one exists.
type ListItem struct {
	model.Ticket
	BuildingUnit *UnitSummary     `json:"building_unit"`
	Building     *BuildingSummary `json:"building"`
	Rating       *model.Rating    `json:"rating,omitempty"`
}

// ActiveForTenant returns the actor's OPEN and IN_PROGRESS tickets,
// newest first.
func (s *Service) ActiveForTenant(a *actor.Actor) ([]ListItem, error) {
	var tickets []model.Ticket
	err := s.db.
		Where("created_by = ?", a.UserID).
		Where("status IN ?", []model.TicketStatus{model.StatusOpen, model.StatusInProgress}).
		Order("created_at desc").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return s.withContext(tickets, false)
}

// ResolvedForTenant returns the actor's RESOLVED tickets with their
// ratings, most recently resolved first.
func (s *Service) ResolvedForTenant(a *actor.Actor) ([]ListItem, error) {
	var tickets []model.Ticket
	err := s.db.
		Where("created_by = ?", a.UserID).
		Where("status = ?", model.StatusResolved).
		Order("resolved_at desc").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return s.withContext(tickets, true)
}

// ForBuilding returns every ticket of the representative's building,
// newest first.
func (s *Service) ForBuilding(buildingID uint) ([]ListItem, error) {
	var unitIDs []uint
	if err := s.db.Model(&model.BuildingUnit{}).
		Where("building_id = ?", buildingID).
		Pluck("id", &unitIDs).Error; err != nil {
		return nil, err
	}
	if len(unitIDs) == 0 {
		return []ListItem{}, nil
	}

	var tickets []model.Ticket
	if err := s.db.
		Where("unit_id IN ?", unitIDs).
		Order("created_at desc").
		Find(&tickets).Error; err != nil {
		return nil, err
	}
	return s.withContext(tickets, true)
}

// ForContractor returns the tickets assigned to the actor, newest first.
func (s *Service) ForContractor(a *actor.Actor) ([]ListItem, error) {
	var tickets []model.Ticket
	err := s.db.
		Where("assigned_to = ?", a.UserID).
		Order("created_at desc").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return s.withContext(tickets, true)
}

// withContext joins tickets with their units, buildings and optionally
// ratings using in-list lookups, mirroring how the list views read.
func (s *Service) withContext(tickets []model.Ticket, includeRatings bool) ([]ListItem, error) {
	items := make([]ListItem, 0, len(tickets))
	if len(tickets) == 0 {
		return items, nil
	}

	unitIDs := make([]uint, 0, len(tickets))
	ticketIDs := make([]uint, 0, len(tickets))
	for _, t := range tickets {
		unitIDs = append(unitIDs, t.UnitID)
		ticketIDs = append(ticketIDs, t.ID)
	}

	var units []model.BuildingUnit
	if err := s.db.Where("id IN ?", unitIDs).Find(&units).Error; err != nil {
		return nil, err
	}
	unitByID := make(map[uint]model.BuildingUnit, len(units))
	buildingIDs := make([]uint, 0, len(units))
	for _, u := range units {
		unitByID[u.ID] = u
		buildingIDs = append(buildingIDs, u.BuildingID)
	}

	buildingByID := make(map[uint]model.Building)
	if len(buildingIDs) > 0 {
		var buildings []model.Building
		if err := s.db.Where("id IN ?", buildingIDs).Find(&buildings).Error; err != nil {
			return nil, err
		}
		for _, b := range buildings {
			buildingByID[b.ID] = b
		}
	}

	ratingByTicket := make(map[uint]model.Rating)
	if includeRatings {
		var ratings []model.Rating
		if err := s.db.Where("ticket_id IN ?", ticketIDs).Find(&ratings).Error; err != nil {
			return nil, err
		}
		for _, r := range ratings {
			ratingByTicket[r.TicketID] = r
		}
	}

	for _, t := range tickets {
		item := ListItem{Ticket: t}
		if u, ok := unitByID[t.UnitID]; ok {
			item.BuildingUnit = &UnitSummary{UnitID: u.ID, Label: u.Label, Floor: u.Floor, BuildingID: u.BuildingID}
			if b, ok := buildingByID[u.BuildingID]; ok {
				item.Building = &BuildingSummary{BuildingID: b.ID, Address: b.Address}
			}
		}
		if r, ok := ratingByTicket[t.ID]; ok {
			rating := r
			item.Rating = &rating
		}
		items = append(items, item)
	}
	return items, nil
}
