package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service implements the hospital registry: departments, the doctor
// directory, patients and staff.
type Service struct {
	departments DepartmentRepository
	doctors     DoctorRepository
	patients    PatientRepository
	staff       StaffRepository
}

func NewService(dep DepartmentRepository, doc DoctorRepository, pat PatientRepository, st StaffRepository) *Service {
	return &Service{departments: dep, doctors: doc, patients: pat, staff: st}
}

// -- Departments --

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.departments.Create(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.departments.GetByID(ctx, id)
}

func (s *Service) GetDepartmentByName(ctx context.Context, name string) (*Department, error) {
	return s.departments.GetByName(ctx, strings.TrimSpace(name))
}

func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	return s.departments.List(ctx)
}

// -- Doctors --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.DepartmentID == uuid.Nil {
		return fmt.Errorf("department_id is required")
	}
	if d.ConsultationFee < 0 {
		return fmt.Errorf("consultation_fee cannot be negative")
	}
	if _, err := s.departments.GetByID(ctx, d.DepartmentID); err != nil {
		return fmt.Errorf("department %s: %w", d.DepartmentID, err)
	}
	return s.doctors.Create(ctx, d)
}

// GetDoctorByID looks up a doctor. It is the directory operation the OPD
// queue manager uses to validate registrations.
func (s *Service) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

func (s *Service) ListDoctorsByDepartment(ctx context.Context, department string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.ListByDepartment(ctx, strings.TrimSpace(department), limit, offset)
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.ContactNumber = strings.TrimSpace(p.ContactNumber)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.ContactNumber == "" {
		return fmt.Errorf("contact_number is required")
	}
	if p.Age != nil && (*p.Age < 0 || *p.Age > 150) {
		return fmt.Errorf("age out of range")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) ListPatients(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, strings.TrimSpace(search), limit, offset)
}

// -- Staff --

func (s *Service) CreateStaff(ctx context.Context, st *Staff) error {
	st.Name = strings.TrimSpace(st.Name)
	st.Role = strings.TrimSpace(st.Role)
	if st.Name == "" {
		return fmt.Errorf("name is required")
	}
	if st.Role == "" {
		return fmt.Errorf("role is required")
	}
	return s.staff.Create(ctx, st)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) ListStaff(ctx context.Context, limit, offset int) ([]*Staff, int, error) {
	return s.staff.List(ctx, limit, offset)
}
