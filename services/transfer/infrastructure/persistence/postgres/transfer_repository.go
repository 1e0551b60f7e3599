package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/plantops/plantops/pkg/database"
	"github.com/plantops/plantops/pkg/events"
	transferdomain "github.com/plantops/plantops/services/transfer/domain"
	domainevents "github.com/plantops/plantops/services/transfer/domain/events"
	"github.com/plantops/plantops/services/transfer/domain/models"
	"github.com/plantops/plantops/services/transfer/domain/repositories"
)

const transferColumns = `id, reference_number, shared_group_id,
	from_department, to_department, from_material_number, to_material_number,
	quantity, unit_cost, total_value,
	status, requested_by, requested_at, approved_by, approved_at, completed_at, notes`

// TransferRepository implements repositories.TransferRepository against
// PostgreSQL. Transition and Complete take a row lock on the transfer before
// checking its status, so concurrent transitions on the same transfer
// serialize and exactly one wins.
type TransferRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewTransferRepository returns a TransferRepository backed by the given
// connection pool and event bus. Events are published through a
// transaction-bound publisher so they commit or roll back with the row change.
func NewTransferRepository(database *database.Database, bus *events.EventBus) *TransferRepository {
	return &TransferRepository{db: database, bus: bus}
}

// Save persists a new pending transfer and publishes TransferRequestedEvent
// within the same transaction.
func (r *TransferRepository) Save(ctx context.Context, t *models.Transfer) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO inter_unit_transfers (`+transferColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			t.ID, t.ReferenceNumber, t.SharedGroupID,
			t.FromDepartment, t.ToDepartment, t.FromMaterialNumber, t.ToMaterialNumber,
			t.Quantity, t.UnitCost, t.TotalValue,
			t.Status.String(), t.RequestedBy, t.RequestedAt, t.ApprovedBy, t.ApprovedAt, t.CompletedAt, t.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert transfer: %w", err)
		}

		if r.bus != nil {
			if err := r.publishRequested(tx, t); err != nil {
				return fmt.Errorf("publish transfer requested: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a transfer by ID. Returns ErrTransferNotFound if not found.
func (r *TransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM inter_unit_transfers WHERE id = $1`, id)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transferdomain.ErrTransferNotFound
		}
		return nil, fmt.Errorf("query transfer: %w", err)
	}
	return t, nil
}

// List returns transfers matching the filter, most recent request first.
func (r *TransferRepository) List(ctx context.Context, f repositories.ListFilter) ([]*models.Transfer, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status.String()))
	}
	if f.Department != "" {
		p := arg(f.Department)
		where = append(where, fmt.Sprintf("(from_department = %s OR to_department = %s)", p, p))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf(
			"(reference_number ILIKE %s OR from_material_number ILIKE %s OR to_material_number ILIKE %s OR requested_by ILIKE %s)",
			p, p, p, p))
	}

	query := `SELECT ` + transferColumns + ` FROM inter_unit_transfers`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY requested_at DESC"

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transfers: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []*models.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Transition moves the transfer to the target status iff its current status
// is in allowedFrom, under a row lock. Publishes the matching transition
// event in the same transaction.
func (r *TransferRepository) Transition(
	ctx context.Context,
	id uuid.UUID,
	allowedFrom []models.Status,
	to models.Status,
	by string,
	at time.Time,
) (*models.Transfer, error) {
	var result *models.Transfer
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		t, err := lockTransfer(ctx, tx, id)
		if err != nil {
			return err
		}
		if !statusIn(t.Status, allowedFrom) {
			return fmt.Errorf("%w: cannot move transfer %s from %s to %s",
				transferdomain.ErrInvalidStateTransition, t.ReferenceNumber, t.Status, to)
		}

		from := t.Status
		t.Status = to
		if to == models.StatusApproved {
			t.ApprovedBy = by
			t.ApprovedAt = &at
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE inter_unit_transfers
			SET status = $2, approved_by = $3, approved_at = $4
			WHERE id = $1`,
			t.ID, t.Status.String(), t.ApprovedBy, t.ApprovedAt,
		); err != nil {
			return fmt.Errorf("update transfer status: %w", err)
		}

		if r.bus != nil {
			if err := r.publishTransitioned(tx, t, from, to, by, at); err != nil {
				return fmt.Errorf("publish transfer transitioned: %w", err)
			}
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Complete executes an approved transfer in one transaction: the source
// balance is decremented with a floor of zero, the destination incremented,
// and the transfer moved to completed. The conditional decrement serializes
// concurrent completes that drain the same source material.
func (r *TransferRepository) Complete(ctx context.Context, id uuid.UUID, completedBy string, at time.Time) (*models.Transfer, error) {
	var result *models.Transfer
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		t, err := lockTransfer(ctx, tx, id)
		if err != nil {
			return err
		}
		if t.Status != models.StatusApproved {
			return fmt.Errorf("%w: cannot complete transfer %s in status %s",
				transferdomain.ErrInvalidStateTransition, t.ReferenceNumber, t.Status)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE linked_materials SET on_hand = on_hand - $2
			WHERE material_number = $1 AND on_hand >= $2`,
			t.FromMaterialNumber, t.Quantity,
		)
		if err != nil {
			return fmt.Errorf("decrement source balance: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("decrement source balance: %w", err)
		} else if n == 0 {
			var onHand int
			if err := tx.QueryRowContext(ctx,
				`SELECT on_hand FROM linked_materials WHERE material_number = $1`,
				t.FromMaterialNumber,
			).Scan(&onHand); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("%w: %s", transferdomain.ErrMaterialNotFound, t.FromMaterialNumber)
				}
				return fmt.Errorf("read source balance: %w", err)
			}
			return &transferdomain.InsufficientStockError{
				MaterialNumber: t.FromMaterialNumber,
				OnHand:         onHand,
				Requested:      t.Quantity,
			}
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE linked_materials SET on_hand = on_hand + $2
			WHERE material_number = $1`,
			t.ToMaterialNumber, t.Quantity,
		); err != nil {
			return fmt.Errorf("increment destination balance: %w", err)
		}

		from := t.Status
		t.Status = models.StatusCompleted
		t.CompletedAt = &at
		if _, err := tx.ExecContext(ctx, `
			UPDATE inter_unit_transfers SET status = $2, completed_at = $3 WHERE id = $1`,
			t.ID, t.Status.String(), t.CompletedAt,
		); err != nil {
			return fmt.Errorf("update transfer status: %w", err)
		}

		if r.bus != nil {
			if err := r.publishTransitioned(tx, t, from, models.StatusCompleted, completedBy, at); err != nil {
				return fmt.Errorf("publish transfer completed: %w", err)
			}
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *TransferRepository) publishRequested(tx *sql.Tx, t *models.Transfer) error {
	event := domainevents.TransferRequestedEvent{
		EventID:            uuid.New(),
		Version:            1,
		TransferID:         t.ID,
		ReferenceNumber:    t.ReferenceNumber,
		SharedGroupID:      t.SharedGroupID,
		FromDepartment:     t.FromDepartment,
		ToDepartment:       t.ToDepartment,
		FromMaterialNumber: t.FromMaterialNumber,
		ToMaterialNumber:   t.ToMaterialNumber,
		Quantity:           t.Quantity,
		TotalValue:         t.TotalValue.StringFixed(2),
		RequestedBy:        t.RequestedBy,
		OccurredAt:         t.RequestedAt,
	}
	return r.publish(tx, domainevents.TopicTransferRequested, event.EventID, event)
}

func (r *TransferRepository) publishTransitioned(tx *sql.Tx, t *models.Transfer, from, to models.Status, actor string, at time.Time) error {
	event := domainevents.TransferTransitionedEvent{
		EventID:         uuid.New(),
		Version:         1,
		TransferID:      t.ID,
		ReferenceNumber: t.ReferenceNumber,
		SharedGroupID:   t.SharedGroupID,
		FromStatus:      from.String(),
		ToStatus:        to.String(),
		Actor:           actor,
		OccurredAt:      at,
	}
	return r.publish(tx, topicForStatus(to), event.EventID, event)
}

func (r *TransferRepository) publish(tx *sql.Tx, topic string, eventID uuid.UUID, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(topic, msg)
}

func topicForStatus(s models.Status) string {
	switch s {
	case models.StatusApproved:
		return domainevents.TopicTransferApproved
	case models.StatusRejected:
		return domainevents.TopicTransferRejected
	case models.StatusCancelled:
		return domainevents.TopicTransferCancelled
	case models.StatusCompleted:
		return domainevents.TopicTransferCompleted
	default:
		return domainevents.TopicTransferRequested
	}
}

// lockTransfer reads the transfer under FOR UPDATE so the caller's status
// check and write happen with no concurrent writer in between.
func lockTransfer(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Transfer, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM inter_unit_transfers WHERE id = $1 FOR UPDATE`, id)
	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transferdomain.ErrTransferNotFound
		}
		return nil, fmt.Errorf("lock transfer: %w", err)
	}
	return t, nil
}

func statusIn(s models.Status, set []models.Status) bool {
	for _, allowed := range set {
		if s == allowed {
			return true
		}
	}
	return false
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransfer(row rowScanner) (*models.Transfer, error) {
	var (
		t      models.Transfer
		status string
	)
	if err := row.Scan(
		&t.ID, &t.ReferenceNumber, &t.SharedGroupID,
		&t.FromDepartment, &t.ToDepartment, &t.FromMaterialNumber, &t.ToMaterialNumber,
		&t.Quantity, &t.UnitCost, &t.TotalValue,
		&status, &t.RequestedBy, &t.RequestedAt, &t.ApprovedBy, &t.ApprovedAt, &t.CompletedAt, &t.Notes,
	); err != nil {
		return nil, err
	}
	t.Status = models.Status(status)
	return &t, nil
}
