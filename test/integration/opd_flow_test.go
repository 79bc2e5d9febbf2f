package integration

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/opd"
	"github.com/hms/hms/internal/domain/registry"
	"github.com/hms/hms/internal/platform/kvstore"
)

// Full registration-to-invoice flow: Postgres-backed doctor directory,
// Redis-backed queue, invoice stored with the consultation fee.
func TestOPDFlow(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := kvstore.NewRedisStore(client)

	deptName := uniqueName("Cardiology")
	dept := createTestDepartment(t, ctx, deptName)
	doc := createTestDoctor(t, ctx, uniqueName("Dr. Mitchell"), dept.ID, 800)

	registrySvc := registry.NewService(
		registry.NewDepartmentRepoPG(globalDB.Pool),
		registry.NewDoctorRepoPG(globalDB.Pool),
		registry.NewPatientRepoPG(globalDB.Pool),
		registry.NewStaffRepoPG(globalDB.Pool),
	)
	opdSvc := opd.NewService(opd.NewKVRepo(store, "opd:registrations"), registrySvc)
	billingSvc := billing.NewService(billing.NewInvoiceRepoPG(globalDB.Pool), opdSvc, registrySvc, 18)

	reg, err := opdSvc.Register(ctx, opd.RegisterInput{
		PatientName:     "Emma Thompson",
		Age:             34,
		Gender:          "female",
		ContactNumber:   "9999999999",
		Department:      deptName,
		DoctorID:        doc.ID.String(),
		AppointmentDate: "2026-09-02",
		AppointmentTime: "10:30",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.TokenNumber != 1 {
		t.Errorf("token = %d, want 1", reg.TokenNumber)
	}

	// Invoicing before completion is refused.
	if _, err := billingSvc.GenerateFromRegistration(ctx, reg.ID, nil, 0); err == nil {
		t.Fatal("expected invoice generation to fail for a waiting registration")
	}

	for _, next := range []opd.Status{opd.StatusInProgress, opd.StatusCompleted} {
		if _, err := opdSvc.Transition(ctx, reg.ID, next); err != nil {
			t.Fatalf("Transition to %s: %v", next, err)
		}
	}

	inv, err := billingSvc.GenerateFromRegistration(ctx, reg.ID,
		[]billing.LineItem{{Description: "ECG", Quantity: 1, Rate: 200}}, 0)
	if err != nil {
		t.Fatalf("GenerateFromRegistration: %v", err)
	}
	if inv.Subtotal != 1000 {
		t.Errorf("subtotal = %v, want 1000 (800 consultation + 200 ECG)", inv.Subtotal)
	}
	if inv.RegistrationID == nil || *inv.RegistrationID != reg.ID {
		t.Errorf("invoice should reference registration %s", reg.ID)
	}

	// The stored invoice survives a fresh read.
	got, err := billingSvc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if len(got.Items) != 2 {
		t.Errorf("expected 2 line items, got %d", len(got.Items))
	}
}
