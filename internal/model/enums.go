package model

// Role is the profile role chosen at onboarding. Mutable only by an admin
// afterward.
type Role string

const (
	RoleTenant         Role = "TENANT"
	RoleContractor     Role = "CONTRACTOR"
	RoleRepresentative Role = "REPRESENTATIVE"
	RoleAdmin          Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleContractor, RoleRepresentative, RoleAdmin:
		return true
	}
	return false
}

// Specialization is a contractor's trade category.
type Specialization string

const (
	SpecializationElectrician Specialization = "ELECTRICIAN"
	SpecializationPlumber     Specialization = "PLUMBER"
	SpecializationCarpenter   Specialization = "CARPENTER"
	SpecializationGeneral     Specialization = "GENERAL"
)

// Valid reports whether s is one of the known specializations.
func (s Specialization) Valid() bool {
	switch s {
	case SpecializationElectrician, SpecializationPlumber, SpecializationCarpenter, SpecializationGeneral:
		return true
	}
	return false
}

// IssueCategory is the trade-domain classification of a ticket's problem.
type IssueCategory string

const (
	CategoryElectrical IssueCategory = "ELECTRICAL"
	CategoryPlumbing   IssueCategory = "PLUMBING"
	CategoryCarpentry  IssueCategory = "CARPENTRY"
	CategoryGeneral    IssueCategory = "GENERAL"
)

// Valid reports whether c is one of the known issue categories.
func (c IssueCategory) Valid() bool {
	switch c {
	case CategoryElectrical, CategoryPlumbing, CategoryCarpentry, CategoryGeneral:
		return true
	}
	return false
}

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "OPEN"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusResolved   TicketStatus = "RESOLVED"
)

// Valid reports whether s is one of the three lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}
