package ticket

import (
	"errors"
	"fmt"

	"homefix/internal/model"
)

var (
	// ErrTicketNotFound is returned when the ticket id does not exist.
	ErrTicketNotFound = errors.New("Ticket nije pronađen.")

	// ErrMissingFields is returned when a required creation field is empty.
	ErrMissingFields = errors.New("Nedostaju obavezna polja: title, description, issue_category")

	// ErrContractorNotFound is returned when the assignee is not a contractor.
	ErrContractorNotFound = errors.New("Majstor nije pronađen.")

	// ErrInvalidStatus is returned for a status outside the three-state enum.
	ErrInvalidStatus = errors.New("Neispravan 'status' (dozvoljeno: OPEN, IN_PROGRESS, RESOLVED).")

	// ErrInvalidRatingRange is returned for a rating outside [1,5].
	ErrInvalidRatingRange = errors.New("Rating must be between 1 and 5")

	// ErrStatusConflict is returned when a concurrent request changed the
	// ticket status between our read and the conditional update.
	ErrStatusConflict = errors.New("Status ticketa je u međuvremenu promijenjen.")

	// ErrBuildingNotFound is returned when a unit has no building row.
	ErrBuildingNotFound = errors.New("Nije pronađena zgrada za ovaj stan.")
)

// IncompatibleSpecializationError carries both mismatching values so the
// representative sees exactly what does not line up.
type IncompatibleSpecializationError struct {
	IssueCategory  model.IssueCategory
	Specialization model.Specialization
}

func (e *IncompatibleSpecializationError) Error() string {
	return fmt.Sprintf("Nekompatibilno: kategorija kvara (%s) ≠ specijalizacija (%s).",
		e.IssueCategory, e.Specialization)
}
