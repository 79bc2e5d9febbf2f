package registry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repositories --

type mockDepartmentRepo struct {
	items map[uuid.UUID]*Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{items: make(map[uuid.UUID]*Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, d *Department) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.items[d.ID] = d
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Department, error) {
	d, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockDepartmentRepo) GetByName(_ context.Context, name string) (*Department, error) {
	for _, d := range m.items {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]*Department, error) {
	var result []*Department
	for _, d := range m.items {
		result = append(result, d)
	}
	return result, nil
}

type mockDoctorRepo struct {
	items map[uuid.UUID]*Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{items: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.items[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (m *mockDoctorRepo) List(_ context.Context, limit, offset int) ([]*Doctor, int, error) {
	var result []*Doctor
	for _, d := range m.items {
		result = append(result, d)
	}
	return result, len(result), nil
}

func (m *mockDoctorRepo) ListByDepartment(_ context.Context, department string, limit, offset int) ([]*Doctor, int, error) {
	var result []*Doctor
	for _, d := range m.items {
		if strings.EqualFold(d.DepartmentName, department) {
			result = append(result, d)
		}
	}
	return result, len(result), nil
}

type mockPatientRepo struct {
	items map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{items: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.items {
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

type mockStaffRepo struct {
	items map[uuid.UUID]*Staff
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{items: make(map[uuid.UUID]*Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, s *Staff) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.items[s.ID] = s
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id uuid.UUID) (*Staff, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *mockStaffRepo) List(_ context.Context, limit, offset int) ([]*Staff, int, error) {
	var result []*Staff
	for _, s := range m.items {
		result = append(result, s)
	}
	return result, len(result), nil
}

func newTestService() (*Service, *mockDepartmentRepo, *mockDoctorRepo) {
	deps := newMockDepartmentRepo()
	docs := newMockDoctorRepo()
	return NewService(deps, docs, newMockPatientRepo(), newMockStaffRepo()), deps, docs
}

// -- Department Tests --

func TestCreateDepartment(t *testing.T) {
	svc, _, _ := newTestService()

	d := &Department{Name: "Cardiology"}
	if err := svc.CreateDepartment(context.Background(), d); err != nil {
		t.Fatalf("CreateDepartment() error: %v", err)
	}
	if d.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreateDepartment_RequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.CreateDepartment(context.Background(), &Department{Name: "   "})
	if err == nil {
		t.Fatal("expected error for whitespace-only name")
	}
}

func TestGetDepartmentByName_CaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	d := &Department{Name: "Orthopedics"}
	if err := svc.CreateDepartment(ctx, d); err != nil {
		t.Fatalf("CreateDepartment() error: %v", err)
	}

	got, err := svc.GetDepartmentByName(ctx, "orthopedics")
	if err != nil {
		t.Fatalf("GetDepartmentByName() error: %v", err)
	}
	if got.ID != d.ID {
		t.Error("expected same department")
	}
}

// -- Doctor Tests --

func TestCreateDoctor(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	dep := &Department{Name: "Cardiology"}
	if err := svc.CreateDepartment(ctx, dep); err != nil {
		t.Fatalf("CreateDepartment() error: %v", err)
	}

	doc := &Doctor{
		Name:            "Dr. Sarah Mitchell",
		DepartmentID:    dep.ID,
		ConsultationFee: 500,
		Available:       true,
	}
	if err := svc.CreateDoctor(ctx, doc); err != nil {
		t.Fatalf("CreateDoctor() error: %v", err)
	}
	if doc.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreateDoctor_UnknownDepartment(t *testing.T) {
	svc, _, _ := newTestService()

	doc := &Doctor{
		Name:            "Dr. Sarah Mitchell",
		DepartmentID:    uuid.New(),
		ConsultationFee: 500,
	}
	if err := svc.CreateDoctor(context.Background(), doc); err == nil {
		t.Fatal("expected error for unknown department")
	}
}

func TestCreateDoctor_NegativeFee(t *testing.T) {
	svc, _, _ := newTestService()

	doc := &Doctor{Name: "Dr. X", DepartmentID: uuid.New(), ConsultationFee: -1}
	if err := svc.CreateDoctor(context.Background(), doc); err == nil {
		t.Fatal("expected error for negative consultation fee")
	}
}

func TestListDoctorsByDepartment(t *testing.T) {
	svc, _, docs := newTestService()
	ctx := context.Background()

	docs.items[uuid.New()] = &Doctor{Name: "Dr. A", DepartmentName: "Cardiology"}
	docs.items[uuid.New()] = &Doctor{Name: "Dr. B", DepartmentName: "Cardiology"}
	docs.items[uuid.New()] = &Doctor{Name: "Dr. C", DepartmentName: "Dermatology"}

	items, total, err := svc.ListDoctorsByDepartment(ctx, "Cardiology", 20, 0)
	if err != nil {
		t.Fatalf("ListDoctorsByDepartment() error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 cardiology doctors, got %d (total %d)", len(items), total)
	}
}

// -- Patient Tests --

func TestCreatePatient(t *testing.T) {
	svc, _, _ := newTestService()

	p := &Patient{Name: "Emma Thompson", ContactNumber: "555-0134"}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("CreatePatient() error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreatePatient(ctx, &Patient{ContactNumber: "555-0134"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.CreatePatient(ctx, &Patient{Name: "Emma Thompson"}); err == nil {
		t.Error("expected error for missing contact number")
	}

	badAge := 200
	if err := svc.CreatePatient(ctx, &Patient{Name: "Emma", ContactNumber: "555", Age: &badAge}); err == nil {
		t.Error("expected error for out-of-range age")
	}
}

// -- Staff Tests --

func TestCreateStaff(t *testing.T) {
	svc, _, _ := newTestService()

	s := &Staff{Name: "Priya Nair", Role: "Receptionist"}
	if err := svc.CreateStaff(context.Background(), s); err != nil {
		t.Fatalf("CreateStaff() error: %v", err)
	}
	if s.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
}

func TestCreateStaff_RequiresRole(t *testing.T) {
	svc, _, _ := newTestService()

	if err := svc.CreateStaff(context.Background(), &Staff{Name: "Priya Nair"}); err == nil {
		t.Fatal("expected error for missing role")
	}
}
