package opd

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/registry"
)

// DoctorDirectory is the lookup the queue manager uses to validate that a
// registration's doctor exists and belongs to the requested department.
type DoctorDirectory interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*registry.Doctor, error)
}

// Service owns the OPD queue: registration creation, token assignment,
// status transitions, and queue filtering. All mutations are serialized by a
// mutex so the read-modify-write cycle against the whole-collection store
// has a single writer per process.
type Service struct {
	mu      sync.Mutex
	repo    Repository
	doctors DoctorDirectory
	now     func() time.Time
}

func NewService(repo Repository, doctors DoctorDirectory) *Service {
	return &Service{
		repo:    repo,
		doctors: doctors,
		now:     time.Now,
	}
}

// Register validates the input, assigns the next token, appends the new
// record to the collection and persists it. Every missing mandatory field is
// reported in a single ValidationError.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Registration, error) {
	var missing []string
	if strings.TrimSpace(input.PatientName) == "" {
		missing = append(missing, "patient_name")
	}
	if input.Age <= 0 {
		missing = append(missing, "age")
	}
	if strings.TrimSpace(input.Gender) == "" {
		missing = append(missing, "gender")
	}
	if strings.TrimSpace(input.ContactNumber) == "" {
		missing = append(missing, "contact_number")
	}
	if strings.TrimSpace(input.Department) == "" {
		missing = append(missing, "department")
	}
	if strings.TrimSpace(input.DoctorID) == "" {
		missing = append(missing, "doctor_id")
	}
	if strings.TrimSpace(input.AppointmentDate) == "" {
		missing = append(missing, "appointment_date")
	}
	if strings.TrimSpace(input.AppointmentTime) == "" {
		missing = append(missing, "appointment_time")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	doctorID, err := uuid.Parse(strings.TrimSpace(input.DoctorID))
	if err != nil {
		return nil, &ValidationError{Fields: []string{"doctor_id"}, Message: "not a valid doctor id"}
	}

	doctor, err := s.doctors.GetDoctorByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, &ValidationError{Fields: []string{"doctor_id"}, Message: "doctor not found"}
		}
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	if !strings.EqualFold(doctor.DepartmentName, strings.TrimSpace(input.Department)) {
		return nil, &ValidationError{
			Fields:  []string{"department", "doctor_id"},
			Message: "doctor does not belong to department " + input.Department,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	regs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	reg := &Registration{
		ID:               uuid.New(),
		TokenNumber:      nextToken(regs),
		PatientName:      strings.TrimSpace(input.PatientName),
		Age:              input.Age,
		Gender:           strings.TrimSpace(input.Gender),
		ContactNumber:    strings.TrimSpace(input.ContactNumber),
		Address:          strings.TrimSpace(input.Address),
		PatientID:        input.PatientID,
		Department:       doctor.DepartmentName,
		DoctorID:         doctor.ID,
		DoctorName:       doctor.Name,
		AppointmentDate:  strings.TrimSpace(input.AppointmentDate),
		AppointmentTime:  strings.TrimSpace(input.AppointmentTime),
		Symptoms:         strings.TrimSpace(input.Symptoms),
		Status:           StatusWaiting,
		RegistrationTime: s.now(),
	}

	regs = append(regs, reg)
	if err := s.repo.SaveAll(ctx, regs); err != nil {
		return nil, &PersistenceError{Op: "save", Err: err}
	}
	return reg, nil
}

// nextToken computes max(existing token numbers)+1 rather than counting
// records, so cancellations never cause a token to be reissued.
func nextToken(regs []*Registration) int {
	max := 0
	for _, r := range regs {
		if r.TokenNumber > max {
			max = r.TokenNumber
		}
	}
	return max + 1
}

// List returns registrations matching the filter. The default order is
// newest first by registration time; Filter.SortByToken switches to
// ascending token order.
func (s *Service) List(ctx context.Context, f Filter) ([]*Registration, error) {
	regs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	status := f.Status
	if status == "" {
		status = StatusAll
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var matched []*Registration
	for _, r := range regs {
		if status != StatusAll && string(r.Status) != status {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		matched = append(matched, r)
	}

	if f.SortByToken {
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].TokenNumber < matched[j].TokenNumber
		})
	} else {
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].RegistrationTime.After(matched[j].RegistrationTime)
		})
	}
	return matched, nil
}

func matchesSearch(r *Registration, search string) bool {
	return strings.Contains(strings.ToLower(r.PatientName), search) ||
		strings.Contains(strings.ToLower(r.ContactNumber), search) ||
		strings.Contains(strconv.Itoa(r.TokenNumber), search)
}

// Transition moves a registration along one of the allowed status edges and
// persists the collection. On an illegal edge the record is left untouched.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, newStatus Status) (*Registration, error) {
	if !newStatus.Valid() {
		return nil, &InvalidTransitionError{To: newStatus}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	regs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	var reg *Registration
	for _, r := range regs {
		if r.ID == id {
			reg = r
			break
		}
	}
	if reg == nil {
		return nil, &NotFoundError{ID: id.String()}
	}

	if !CanTransition(reg.Status, newStatus) {
		return nil, &InvalidTransitionError{From: reg.Status, To: newStatus}
	}

	prevStatus := reg.Status
	prevHistory := reg.History
	reg.Status = newStatus
	reg.History = append(reg.History, StatusChange{From: prevStatus, To: newStatus, At: s.now()})

	if err := s.repo.SaveAll(ctx, regs); err != nil {
		// The store still holds the old collection; undo the in-memory
		// mutation so the record we hand back is consistent with it.
		reg.Status = prevStatus
		reg.History = prevHistory
		return nil, &PersistenceError{Op: "save", Err: err}
	}
	return reg, nil
}

// GetByID returns the registration with the given id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Registration, error) {
	regs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	for _, r := range regs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, &NotFoundError{ID: id.String()}
}

// CountByStatus returns how many registrations hold each status, plus the
// number registered since the given instant. Used by the reporting summary.
func (s *Service) CountByStatus(ctx context.Context, since time.Time) (map[Status]int, int, error) {
	regs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "load", Err: err}
	}

	counts := map[Status]int{
		StatusWaiting:    0,
		StatusInProgress: 0,
		StatusCompleted:  0,
		StatusCancelled:  0,
	}
	recent := 0
	for _, r := range regs {
		counts[r.Status]++
		if !r.RegistrationTime.Before(since) {
			recent++
		}
	}
	return counts, recent, nil
}
