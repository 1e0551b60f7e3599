package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	transferdomain "github.com/plantops/plantops/services/transfer/domain"
	domainevents "github.com/plantops/plantops/services/transfer/domain/events"
	"github.com/plantops/plantops/services/transfer/domain/models"
)

func seedGroup(t *testing.T, store *Store) *models.SharedMaterialGroup {
	t.Helper()
	g := &models.SharedMaterialGroup{
		ID:            uuid.New(),
		Name:          "Hydraulic Filter",
		OEMPartNumber: "HF-6177",
		Status:        models.GroupActive,
		LinkedMaterials: []models.LinkedMaterial{
			{DepartmentCode: "10", MaterialNumber: "MAT-10-0300", OnHand: 12, UnitCost: decimal.RequireFromString("48.50")},
			{DepartmentCode: "20", MaterialNumber: "MAT-20-0301", OnHand: 4, UnitCost: decimal.RequireFromString("48.50")},
		},
	}
	if err := store.AddGroup(g); err != nil {
		t.Fatalf("add group: %v", err)
	}
	return g
}

func seedTransfer(t *testing.T, store *Store, g *models.SharedMaterialGroup, qty int) *models.Transfer {
	t.Helper()
	from, _ := g.Material("MAT-10-0300")
	to, _ := g.Material("MAT-20-0301")
	transfer, err := models.NewTransfer(g.ID, *from, *to, qty, from.UnitCost, "jsmith", "")
	if err != nil {
		t.Fatalf("new transfer: %v", err)
	}
	if err := store.Save(context.Background(), transfer); err != nil {
		t.Fatalf("save: %v", err)
	}
	return transfer
}

func TestAddGroup_RejectsInvalid(t *testing.T) {
	store := NewStore()
	g := &models.SharedMaterialGroup{
		ID:            uuid.New(),
		Name:          "Broken",
		OEMPartNumber: "X",
		Status:        models.GroupActive,
		LinkedMaterials: []models.LinkedMaterial{
			{DepartmentCode: "10", MaterialNumber: "M-1", OnHand: -1},
		},
	}
	if err := store.AddGroup(g); !errors.Is(err, transferdomain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGetGroup_ReturnsIsolatedCopy(t *testing.T) {
	store := NewStore()
	g := seedGroup(t, store)

	first, err := store.GetGroup(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	first.LinkedMaterials[0].OnHand = 999

	second, err := store.GetGroup(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if second.LinkedMaterials[0].OnHand != 12 {
		t.Fatalf("caller mutation leaked into store: %d", second.LinkedMaterials[0].OnHand)
	}
}

func TestSave_RejectsDuplicate(t *testing.T) {
	store := NewStore()
	g := seedGroup(t, store)
	transfer := seedTransfer(t, store, g, 2)

	if err := store.Save(context.Background(), transfer); err == nil {
		t.Fatal("expected duplicate save to fail")
	}
}

func TestEvents_RecordedInOrder(t *testing.T) {
	store := NewStore()
	g := seedGroup(t, store)
	transfer := seedTransfer(t, store, g, 2)

	ctx := context.Background()
	now := time.Now().UTC()
	if _, err := store.Transition(ctx, transfer.ID, []models.Status{models.StatusPending}, models.StatusApproved, "mjones", now); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := store.Complete(ctx, transfer.ID, "mjones", now); err != nil {
		t.Fatalf("complete: %v", err)
	}

	events := store.Events()
	wantTopics := []string{
		domainevents.TopicTransferRequested,
		domainevents.TopicTransferApproved,
		domainevents.TopicTransferCompleted,
	}
	if len(events) != len(wantTopics) {
		t.Fatalf("expected %d events, got %d", len(wantTopics), len(events))
	}
	for i, want := range wantTopics {
		if events[i].Topic != want {
			t.Errorf("event %d: expected topic %s, got %s", i, want, events[i].Topic)
		}
	}

	completed, ok := events[2].Payload.(domainevents.TransferTransitionedEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", events[2].Payload)
	}
	if completed.FromStatus != "approved" || completed.ToStatus != "completed" {
		t.Errorf("unexpected transition %s -> %s", completed.FromStatus, completed.ToStatus)
	}
}

func TestComplete_FloorsSourceAtZero(t *testing.T) {
	store := NewStore()
	g := seedGroup(t, store)
	transfer := seedTransfer(t, store, g, 12)

	ctx := context.Background()
	now := time.Now().UTC()
	if _, err := store.Transition(ctx, transfer.ID, []models.Status{models.StatusPending}, models.StatusApproved, "mjones", now); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := store.AdjustOnHand(ctx, "MAT-10-0300", -1); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	_, err := store.Complete(ctx, transfer.ID, "mjones", now)
	var stockErr *transferdomain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected *InsufficientStockError, got %v", err)
	}
	if stockErr.OnHand != 11 || stockErr.Requested != 12 {
		t.Errorf("expected have 11 need 12, got have %d need %d", stockErr.OnHand, stockErr.Requested)
	}
}
