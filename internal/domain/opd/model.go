package opd

import (
	"time"

	"github.com/google/uuid"
)

// Status is the queue state of a registration. Exactly one status holds at
// any time; completed and cancelled are terminal.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// StatusAll is the list-filter wildcard, not a storable status.
const StatusAll = "all"

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusWaiting:    {StatusInProgress: true, StatusCancelled: true},
	StatusInProgress: {StatusCompleted: true, StatusCancelled: true},
}

// CanTransition reports whether from -> to is a legal status edge.
func CanTransition(from, to Status) bool {
	return allowedTransitions[from][to]
}

// StatusChange is one entry in a registration's transition history.
type StatusChange struct {
	From Status    `json:"from"`
	To   Status    `json:"to"`
	At   time.Time `json:"at"`
}

// Registration is an OPD queue record. ID, TokenNumber and RegistrationTime
// are assigned at creation and never change.
type Registration struct {
	ID               uuid.UUID      `json:"id"`
	TokenNumber      int            `json:"token_number"`
	PatientName      string         `json:"patient_name"`
	Age              int            `json:"age"`
	Gender           string         `json:"gender"`
	ContactNumber    string         `json:"contact_number"`
	Address          string         `json:"address,omitempty"`
	PatientID        *uuid.UUID     `json:"patient_id,omitempty"`
	Department       string         `json:"department"`
	DoctorID         uuid.UUID      `json:"doctor_id"`
	DoctorName       string         `json:"doctor_name,omitempty"`
	AppointmentDate  string         `json:"appointment_date"`
	AppointmentTime  string         `json:"appointment_time"`
	Symptoms         string         `json:"symptoms,omitempty"`
	Status           Status         `json:"status"`
	RegistrationTime time.Time      `json:"registration_time"`
	History          []StatusChange `json:"history,omitempty"`
}

// RegisterInput carries the fields accepted by Register. DoctorID is a string
// so that a missing value is distinguishable from a malformed one.
type RegisterInput struct {
	PatientName     string     `json:"patient_name"`
	Age             int        `json:"age"`
	Gender          string     `json:"gender"`
	ContactNumber   string     `json:"contact_number"`
	Address         string     `json:"address"`
	PatientID       *uuid.UUID `json:"patient_id"`
	Department      string     `json:"department"`
	DoctorID        string     `json:"doctor_id"`
	AppointmentDate string     `json:"appointment_date"`
	AppointmentTime string     `json:"appointment_time"`
	Symptoms        string     `json:"symptoms"`
}

// Filter selects and orders registrations for list views.
type Filter struct {
	// Status is a concrete status or "all" (empty means "all").
	Status string
	// Search matches case-insensitively against patient name, contact
	// number, or token number rendered as a string.
	Search string
	// SortByToken orders ascending by token number instead of the default
	// newest-first registration time, for the queue-display view.
	SortByToken bool
}
