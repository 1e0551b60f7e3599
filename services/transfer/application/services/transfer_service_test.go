package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	transferdomain "github.com/plantops/plantops/services/transfer/domain"
	domainevents "github.com/plantops/plantops/services/transfer/domain/events"
	"github.com/plantops/plantops/services/transfer/domain/models"
	"github.com/plantops/plantops/services/transfer/domain/repositories"
	"github.com/plantops/plantops/services/transfer/infrastructure/persistence/memory"
)

const (
	matStamping  = "MAT-10-0042"
	matAssembly  = "MAT-20-0117"
	matFinishing = "MAT-30-0009"
)

func bearingGroup(t *testing.T) *models.SharedMaterialGroup {
	t.Helper()
	return &models.SharedMaterialGroup{
		ID:            uuid.New(),
		Name:          "SKF 6205 Bearing",
		OEMPartNumber: "6205-2RSH",
		Status:        models.GroupActive,
		LinkedMaterials: []models.LinkedMaterial{
			{
				DepartmentCode: "10",
				DepartmentName: "Stamping",
				MaterialNumber: matStamping,
				OnHand:         50,
				UnitCost:       decimal.RequireFromString("12.00"),
				Location:       "A-03-2",
			},
			{
				DepartmentCode: "20",
				DepartmentName: "Assembly",
				MaterialNumber: matAssembly,
				OnHand:         5,
				UnitCost:       decimal.RequireFromString("11.50"),
				Location:       "B-11-4",
			},
			{
				DepartmentCode: "30",
				DepartmentName: "Finishing",
				MaterialNumber: matFinishing,
				OnHand:         0,
				UnitCost:       decimal.RequireFromString("12.25"),
				Location:       "C-01-1",
			},
		},
	}
}

func newEngine(t *testing.T) (*TransferService, *memory.Store, *models.SharedMaterialGroup) {
	t.Helper()
	store := memory.NewStore()
	group := bearingGroup(t)
	if err := store.AddGroup(group); err != nil {
		t.Fatalf("add group: %v", err)
	}
	return NewTransferService(store, store), store, group
}

func onHand(t *testing.T, store *memory.Store, materialNumber string) int {
	t.Helper()
	m, err := store.GetMaterial(context.Background(), materialNumber)
	if err != nil {
		t.Fatalf("get material %s: %v", materialNumber, err)
	}
	return m.OnHand
}

func TestCreate(t *testing.T) {
	svc, store, group := newEngine(t)
	ctx := context.Background()

	transfer, err := svc.Create(ctx, group.ID, matStamping, matAssembly, 20, "jsmith", "Line 2 bearing failure")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transfer.Status != models.StatusPending {
		t.Errorf("expected pending, got %s", transfer.Status)
	}
	if transfer.FromDepartment != "10" || transfer.ToDepartment != "20" {
		t.Errorf("unexpected route %s -> %s", transfer.FromDepartment, transfer.ToDepartment)
	}
	if got := transfer.UnitCost.StringFixed(2); got != "12.00" {
		t.Errorf("expected unit cost snapshot 12.00 from source, got %s", got)
	}
	if got := transfer.TotalValue.StringFixed(2); got != "240.00" {
		t.Errorf("expected total value 240.00, got %s", got)
	}
	if transfer.ReferenceNumber == "" {
		t.Error("expected a reference number")
	}

	// Creating a request moves no inventory.
	if got := onHand(t, store, matStamping); got != 50 {
		t.Errorf("source balance changed on create: %d", got)
	}
	if got := onHand(t, store, matAssembly); got != 5 {
		t.Errorf("destination balance changed on create: %d", got)
	}

	events := store.Events()
	if len(events) != 1 || events[0].Topic != domainevents.TopicTransferRequested {
		t.Fatalf("expected one requested event, got %+v", events)
	}
}

func TestCreate_InsufficientStock(t *testing.T) {
	svc, _, group := newEngine(t)

	_, err := svc.Create(context.Background(), group.ID, matStamping, matAssembly, 51, "jsmith", "")
	if !errors.Is(err, transferdomain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var stockErr *transferdomain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected *InsufficientStockError, got %T", err)
	}
	if stockErr.OnHand != 50 || stockErr.Requested != 51 {
		t.Errorf("expected have 50 need 51, got have %d need %d", stockErr.OnHand, stockErr.Requested)
	}
}

func TestCreate_ExactBalance(t *testing.T) {
	svc, _, group := newEngine(t)

	if _, err := svc.Create(context.Background(), group.ID, matStamping, matAssembly, 50, "jsmith", ""); err != nil {
		t.Fatalf("quantity equal to on-hand should pass: %v", err)
	}
}

func TestCreate_GroupNotFound(t *testing.T) {
	svc, _, _ := newEngine(t)

	_, err := svc.Create(context.Background(), uuid.New(), matStamping, matAssembly, 1, "jsmith", "")
	if !errors.Is(err, transferdomain.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestCreate_MaterialNotInGroup(t *testing.T) {
	svc, _, group := newEngine(t)

	_, err := svc.Create(context.Background(), group.ID, "MAT-99-9999", matAssembly, 1, "jsmith", "")
	if !errors.Is(err, transferdomain.ErrMaterialNotFound) {
		t.Fatalf("expected ErrMaterialNotFound, got %v", err)
	}
}

func TestCreate_InactiveGroup(t *testing.T) {
	store := memory.NewStore()
	group := bearingGroup(t)
	group.Status = models.GroupInactive
	if err := store.AddGroup(group); err != nil {
		t.Fatalf("add group: %v", err)
	}
	svc := NewTransferService(store, store)

	_, err := svc.Create(context.Background(), group.ID, matStamping, matAssembly, 1, "jsmith", "")
	if !errors.Is(err, transferdomain.ErrValidation) {
		t.Fatalf("expected ErrValidation for inactive group, got %v", err)
	}
}

func TestApprove(t *testing.T) {
	svc, store, group := newEngine(t)
	ctx := context.Background()

	transfer, err := svc.Create(ctx, group.ID, matStamping, matAssembly, 20, "jsmith", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := svc.Approve(ctx, transfer.ID, "mjones")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("expected approved, got %s", approved.Status)
	}
	if approved.ApprovedBy != "mjones" || approved.ApprovedAt == nil {
		t.Errorf("expected approver metadata, got by=%q at=%v", approved.ApprovedBy, approved.ApprovedAt)
	}

	// Approval moves no inventory.
	if got := onHand(t, store, matStamping); got != 50 {
		t.Errorf("source balance changed on approve: %d", got)
	}

	// A second approval must fail, not silently succeed.
	if _, err := svc.Approve(ctx, transfer.ID, "mjones"); !errors.Is(err, transferdomain.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on re-approve, got %v", err)
	}
}

func TestReject(t *testing.T) {
	svc, _, group := newEngine(t)
	ctx := context.Background()

	transfer, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 20, "jsmith", "")

	rejected, err := svc.Reject(ctx, transfer.ID, "mjones")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.StatusRejected {
		t.Errorf("expected rejected, got %s", rejected.Status)
	}

	// Rejecting an approved transfer is not allowed.
	other, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 5, "jsmith", "")
	if _, err := svc.Approve(ctx, other.ID, "mjones"); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.Reject(ctx, other.ID, "mjones"); !errors.Is(err, transferdomain.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	svc, _, group := newEngine(t)
	ctx := context.Background()

	t.Run("from pending", func(t *testing.T) {
		transfer, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 5, "jsmith", "")
		cancelled, err := svc.Cancel(ctx, transfer.ID, "jsmith")
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if cancelled.Status != models.StatusCancelled {
			t.Errorf("expected cancelled, got %s", cancelled.Status)
		}
	})

	t.Run("from approved", func(t *testing.T) {
		transfer, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 5, "jsmith", "")
		if _, err := svc.Approve(ctx, transfer.ID, "mjones"); err != nil {
			t.Fatalf("approve: %v", err)
		}
		cancelled, err := svc.Cancel(ctx, transfer.ID, "mjones")
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if cancelled.Status != models.StatusCancelled {
			t.Errorf("expected cancelled, got %s", cancelled.Status)
		}
	})

	t.Run("after completion", func(t *testing.T) {
		transfer, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 5, "jsmith", "")
		if _, err := svc.Approve(ctx, transfer.ID, "mjones"); err != nil {
			t.Fatalf("approve: %v", err)
		}
		if _, err := svc.Complete(ctx, transfer.ID, "mjones"); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if _, err := svc.Cancel(ctx, transfer.ID, "mjones"); !errors.Is(err, transferdomain.ErrInvalidStateTransition) {
			t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
		}
	})
}

func TestComplete(t *testing.T) {
	svc, store, group := newEngine(t)
	ctx := context.Background()

	transfer, err := svc.Create(ctx, group.ID, matStamping, matAssembly, 20, "jsmith", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Approve(ctx, transfer.ID, "mjones"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	completed, err := svc.Complete(ctx, transfer.ID, "mjones")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != models.StatusCompleted {
		t.Errorf("expected completed, got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Error("expected completion timestamp")
	}

	if got := onHand(t, store, matStamping); got != 30 {
		t.Errorf("expected source 30, got %d", got)
	}
	if got := onHand(t, store, matAssembly); got != 25 {
		t.Errorf("expected destination 25, got %d", got)
	}

	events := store.Events()
	last := events[len(events)-1]
	if last.Topic != domainevents.TopicTransferCompleted {
		t.Errorf("expected completed event last, got %s", last.Topic)
	}
}

func TestComplete_PendingFails(t *testing.T) {
	svc, store, group := newEngine(t)
	ctx := context.Background()

	transfer, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 20, "jsmith", "")

	if _, err := svc.Complete(ctx, transfer.ID, "mjones"); !errors.Is(err, transferdomain.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if got := onHand(t, store, matStamping); got != 50 {
		t.Errorf("balance changed on failed complete: %d", got)
	}
}

func TestComplete_StockDrainedAfterApproval(t *testing.T) {
	svc, store, group := newEngine(t)
	ctx := context.Background()

	transfer, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 50, "jsmith", "")
	if _, err := svc.Approve(ctx, transfer.ID, "mjones"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Stock was consumed between approval and execution.
	if err := store.AdjustOnHand(ctx, matStamping, -10); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	_, err := svc.Complete(ctx, transfer.ID, "mjones")
	var stockErr *transferdomain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected *InsufficientStockError, got %v", err)
	}
	if stockErr.OnHand != 40 || stockErr.Requested != 50 {
		t.Errorf("expected have 40 need 50, got have %d need %d", stockErr.OnHand, stockErr.Requested)
	}

	// The transfer stays approved and can be completed later or cancelled.
	got, err := svc.Get(ctx, transfer.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StatusApproved {
		t.Errorf("expected transfer to remain approved, got %s", got.Status)
	}
	if balance := onHand(t, store, matAssembly); balance != 5 {
		t.Errorf("destination balance changed on failed complete: %d", balance)
	}
}

func TestTransition_UnknownTransfer(t *testing.T) {
	svc, _, _ := newEngine(t)

	if _, err := svc.Approve(context.Background(), uuid.New(), "mjones"); !errors.Is(err, transferdomain.ErrTransferNotFound) {
		t.Fatalf("expected ErrTransferNotFound, got %v", err)
	}
}

func TestTerminalStatusesAreFinal(t *testing.T) {
	svc, _, group := newEngine(t)
	ctx := context.Background()

	terminal := map[string]func(t *testing.T) uuid.UUID{
		"rejected": func(t *testing.T) uuid.UUID {
			tr, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 1, "jsmith", "")
			if _, err := svc.Reject(ctx, tr.ID, "mjones"); err != nil {
				t.Fatalf("reject: %v", err)
			}
			return tr.ID
		},
		"cancelled": func(t *testing.T) uuid.UUID {
			tr, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 1, "jsmith", "")
			if _, err := svc.Cancel(ctx, tr.ID, "jsmith"); err != nil {
				t.Fatalf("cancel: %v", err)
			}
			return tr.ID
		},
		"completed": func(t *testing.T) uuid.UUID {
			tr, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 1, "jsmith", "")
			if _, err := svc.Approve(ctx, tr.ID, "mjones"); err != nil {
				t.Fatalf("approve: %v", err)
			}
			if _, err := svc.Complete(ctx, tr.ID, "mjones"); err != nil {
				t.Fatalf("complete: %v", err)
			}
			return tr.ID
		},
	}

	for name, setup := range terminal {
		t.Run(name, func(t *testing.T) {
			id := setup(t)
			if _, err := svc.Approve(ctx, id, "x"); !errors.Is(err, transferdomain.ErrInvalidStateTransition) {
				t.Errorf("approve after %s: got %v", name, err)
			}
			if _, err := svc.Reject(ctx, id, "x"); !errors.Is(err, transferdomain.ErrInvalidStateTransition) {
				t.Errorf("reject after %s: got %v", name, err)
			}
			if _, err := svc.Cancel(ctx, id, "x"); !errors.Is(err, transferdomain.ErrInvalidStateTransition) {
				t.Errorf("cancel after %s: got %v", name, err)
			}
			if _, err := svc.Complete(ctx, id, "x"); !errors.Is(err, transferdomain.ErrInvalidStateTransition) {
				t.Errorf("complete after %s: got %v", name, err)
			}
		})
	}
}

func TestList(t *testing.T) {
	svc, _, group := newEngine(t)
	ctx := context.Background()

	first, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 1, "jsmith", "")
	time.Sleep(2 * time.Millisecond)
	second, _ := svc.Create(ctx, group.ID, matAssembly, matFinishing, 2, "kchen", "")
	time.Sleep(2 * time.Millisecond)
	third, _ := svc.Create(ctx, group.ID, matStamping, matFinishing, 3, "jsmith", "")
	if _, err := svc.Approve(ctx, second.ID, "mjones"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	t.Run("most recent first", func(t *testing.T) {
		all, err := svc.List(ctx, repositories.ListFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 transfers, got %d", len(all))
		}
		if all[0].ID != third.ID || all[2].ID != first.ID {
			t.Errorf("expected newest-first ordering, got %s, %s, %s",
				all[0].ReferenceNumber, all[1].ReferenceNumber, all[2].ReferenceNumber)
		}
	})

	t.Run("by status", func(t *testing.T) {
		approved, err := svc.List(ctx, repositories.ListFilter{Status: models.StatusApproved})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(approved) != 1 || approved[0].ID != second.ID {
			t.Errorf("expected only the approved transfer, got %d results", len(approved))
		}
	})

	t.Run("by department", func(t *testing.T) {
		dept30, err := svc.List(ctx, repositories.ListFilter{Department: "30"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(dept30) != 2 {
			t.Errorf("expected 2 transfers touching department 30, got %d", len(dept30))
		}
	})

	t.Run("by search", func(t *testing.T) {
		byRequester, err := svc.List(ctx, repositories.ListFilter{Search: "kchen"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(byRequester) != 1 || byRequester[0].ID != second.ID {
			t.Errorf("expected kchen's transfer only, got %d results", len(byRequester))
		}

		byRef, err := svc.List(ctx, repositories.ListFilter{Search: first.ReferenceNumber})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(byRef) != 1 || byRef[0].ID != first.ID {
			t.Errorf("expected lookup by reference number to match exactly one")
		}
	})

	t.Run("combined", func(t *testing.T) {
		got, err := svc.List(ctx, repositories.ListFilter{Status: models.StatusPending, Department: "10"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 pending transfers from department 10, got %d", len(got))
		}
	})
}

func TestConcurrentApproveCancel_ExactlyOneWins(t *testing.T) {
	svc, _, group := newEngine(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		transfer, err := svc.Create(ctx, group.ID, matStamping, matAssembly, 1, "jsmith", "")
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		var wg sync.WaitGroup
		results := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, results[0] = svc.Approve(ctx, transfer.ID, "mjones")
		}()
		go func() {
			defer wg.Done()
			_, results[1] = svc.Cancel(ctx, transfer.ID, "jsmith")
		}()
		wg.Wait()

		// Cancel is also legal from approved, so the only forbidden outcome
		// is approve succeeding after cancel.
		approveOK := results[0] == nil
		cancelOK := results[1] == nil
		if !approveOK && !cancelOK {
			t.Fatalf("both racing transitions failed: %v / %v", results[0], results[1])
		}
		if approveOK && !cancelOK && !errors.Is(results[1], transferdomain.ErrInvalidStateTransition) {
			t.Fatalf("loser failed with wrong error: %v", results[1])
		}
		if cancelOK && !approveOK && !errors.Is(results[0], transferdomain.ErrInvalidStateTransition) {
			t.Fatalf("loser failed with wrong error: %v", results[0])
		}

		final, err := svc.Get(ctx, transfer.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if final.Status != models.StatusCancelled && final.Status != models.StatusApproved {
			t.Fatalf("unexpected final status %s", final.Status)
		}
	}
}

func TestConcurrentCompletes_SameTransfer(t *testing.T) {
	svc, store, group := newEngine(t)
	ctx := context.Background()

	transfer, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 10, "jsmith", "")
	if _, err := svc.Approve(ctx, transfer.ID, "mjones"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Complete(ctx, transfer.ID, "mjones")
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, transferdomain.ErrInvalidStateTransition) {
			t.Errorf("loser failed with wrong error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning complete, got %d", wins)
	}

	// The movement applied exactly once.
	if got := onHand(t, store, matStamping); got != 40 {
		t.Errorf("expected source 40, got %d", got)
	}
	if got := onHand(t, store, matAssembly); got != 15 {
		t.Errorf("expected destination 15, got %d", got)
	}
}

func TestConcurrentCompletes_SharedSource(t *testing.T) {
	svc, store, group := newEngine(t)
	ctx := context.Background()

	// Two approved transfers drain the same source; 30 + 30 > 50, so only
	// one can execute.
	a, _ := svc.Create(ctx, group.ID, matStamping, matAssembly, 30, "jsmith", "")
	b, _ := svc.Create(ctx, group.ID, matStamping, matFinishing, 30, "kchen", "")
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		if _, err := svc.Approve(ctx, id, "mjones"); err != nil {
			t.Fatalf("approve: %v", err)
		}
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = svc.Complete(ctx, a.ID, "mjones")
	}()
	go func() {
		defer wg.Done()
		_, results[1] = svc.Complete(ctx, b.ID, "mjones")
	}()
	wg.Wait()

	var wins, stockFails int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, transferdomain.ErrInsufficientStock):
			stockFails++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 || stockFails != 1 {
		t.Fatalf("expected one win and one stock failure, got %d wins, %d stock failures", wins, stockFails)
	}

	if got := onHand(t, store, matStamping); got != 20 {
		t.Errorf("expected source 20 after one execution, got %d", got)
	}

	// Inventory is conserved across the group.
	total := onHand(t, store, matStamping) + onHand(t, store, matAssembly) + onHand(t, store, matFinishing)
	if total != 55 {
		t.Errorf("group total changed: expected 55, got %d", total)
	}
}
