package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/hms/hms/internal/domain/registry"
)

func TestDepartmentRepo(t *testing.T) {
	ctx := context.Background()
	repo := registry.NewDepartmentRepoPG(globalDB.Pool)

	name := uniqueName("Cardiology")
	created := createTestDepartment(t, ctx, name)

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Name != name {
			t.Errorf("name = %q, want %q", got.Name, name)
		}
	})

	t.Run("GetByName_CaseInsensitive", func(t *testing.T) {
		got, err := repo.GetByName(ctx, strings.ToUpper(name))
		if err != nil {
			t.Fatalf("GetByName: %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("expected department %s, got %s", created.ID, got.ID)
		}
	})

	t.Run("List", func(t *testing.T) {
		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		found := false
		for _, d := range items {
			if d.ID == created.ID {
				found = true
			}
		}
		if !found {
			t.Error("created department missing from list")
		}
	})
}

func TestDoctorRepo(t *testing.T) {
	ctx := context.Background()
	repo := registry.NewDoctorRepoPG(globalDB.Pool)

	deptName := uniqueName("Orthopedics")
	dept := createTestDepartment(t, ctx, deptName)
	doc := createTestDoctor(t, ctx, uniqueName("Dr. Carter"), dept.ID, 600)

	t.Run("GetByID_JoinsDepartmentName", func(t *testing.T) {
		got, err := repo.GetByID(ctx, doc.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.DepartmentName != deptName {
			t.Errorf("department name = %q, want %q", got.DepartmentName, deptName)
		}
		if got.ConsultationFee != 600 {
			t.Errorf("fee = %v, want 600", got.ConsultationFee)
		}
	})

	t.Run("ListByDepartment", func(t *testing.T) {
		items, total, err := repo.ListByDepartment(ctx, strings.ToLower(deptName), 10, 0)
		if err != nil {
			t.Fatalf("ListByDepartment: %v", err)
		}
		if total != 1 || len(items) != 1 {
			t.Fatalf("expected exactly 1 doctor, got total=%d len=%d", total, len(items))
		}
		if items[0].ID != doc.ID {
			t.Errorf("expected doctor %s, got %s", doc.ID, items[0].ID)
		}
	})
}

func TestPatientRepo(t *testing.T) {
	ctx := context.Background()
	repo := registry.NewPatientRepoPG(globalDB.Pool)

	name := uniqueName("Emma Thompson")
	p := createTestPatient(t, ctx, name, "9999999999")

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Name != name {
			t.Errorf("name = %q, want %q", got.Name, name)
		}
		if got.Age == nil || *got.Age != 30 {
			t.Errorf("unexpected age: %v", got.Age)
		}
	})

	t.Run("SearchByName", func(t *testing.T) {
		items, total, err := repo.List(ctx, name, 10, 0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if total != 1 || len(items) != 1 {
			t.Fatalf("expected exactly 1 match, got total=%d len=%d", total, len(items))
		}
	})

	t.Run("Update", func(t *testing.T) {
		p.Address = "12 Main Road"
		if err := repo.Update(ctx, p); err != nil {
			t.Fatalf("Update: %v", err)
		}
		got, err := repo.GetByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetByID after update: %v", err)
		}
		if got.Address != "12 Main Road" {
			t.Errorf("address = %q, want %q", got.Address, "12 Main Road")
		}
	})
}

func TestStaffRepo(t *testing.T) {
	ctx := context.Background()
	repo := registry.NewStaffRepoPG(globalDB.Pool)

	s := &registry.Staff{
		Name:          uniqueName("Nurse Joy"),
		Role:          "nurse",
		ContactNumber: "8888888888",
	}
	if err := repo.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != "nurse" {
		t.Errorf("role = %q, want nurse", got.Role)
	}
}
