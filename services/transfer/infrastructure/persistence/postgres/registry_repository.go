package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plantops/plantops/pkg/database"
	transferdomain "github.com/plantops/plantops/services/transfer/domain"
	"github.com/plantops/plantops/services/transfer/domain/models"
)

const materialColumns = `group_id, department_code, department_name, material_number, on_hand, unit_cost, location`

// RegistryRepository implements repositories.MaterialRegistry and
// repositories.Ledger against PostgreSQL. All reads return live balances.
type RegistryRepository struct {
	db *database.Database
}

// NewRegistryRepository returns a RegistryRepository backed by the given
// connection pool.
func NewRegistryRepository(database *database.Database) *RegistryRepository {
	return &RegistryRepository{db: database}
}

// GetGroup retrieves a group with its linked materials ordered by department
// code. Returns ErrGroupNotFound if the group does not exist.
func (r *RegistryRepository) GetGroup(ctx context.Context, id uuid.UUID) (*models.SharedMaterialGroup, error) {
	g := &models.SharedMaterialGroup{}
	var status string
	err := r.db.DB().QueryRowContext(ctx,
		`SELECT id, name, oem_part_number, status FROM shared_material_groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.OEMPartNumber, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transferdomain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("query group: %w", err)
	}
	g.Status = models.GroupStatus(status)

	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT `+materialColumns+` FROM linked_materials WHERE group_id = $1 ORDER BY department_code`, id)
	if err != nil {
		return nil, fmt.Errorf("query linked materials: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan linked material: %w", err)
		}
		g.LinkedMaterials = append(g.LinkedMaterials, *m)
	}
	return g, rows.Err()
}

// ListGroups retrieves all groups with their linked materials.
func (r *RegistryRepository) ListGroups(ctx context.Context) ([]*models.SharedMaterialGroup, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT g.id, g.name, g.oem_part_number, g.status,
			m.department_code, m.department_name, m.material_number, m.on_hand, m.unit_cost, m.location
		FROM shared_material_groups g
		LEFT JOIN linked_materials m ON m.group_id = g.id
		ORDER BY g.name, m.department_code`)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var (
		out     []*models.SharedMaterialGroup
		current *models.SharedMaterialGroup
	)
	for rows.Next() {
		var (
			id          uuid.UUID
			name, oem   string
			status      string
			deptCode    sql.NullString
			deptName    sql.NullString
			materialNum sql.NullString
			onHand      sql.NullInt64
			unitCost    sql.NullString
			location    sql.NullString
		)
		if err := rows.Scan(&id, &name, &oem, &status,
			&deptCode, &deptName, &materialNum, &onHand, &unitCost, &location); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}

		if current == nil || current.ID != id {
			current = &models.SharedMaterialGroup{
				ID:            id,
				Name:          name,
				OEMPartNumber: oem,
				Status:        models.GroupStatus(status),
			}
			out = append(out, current)
		}

		if materialNum.Valid {
			m := models.LinkedMaterial{
				GroupID:        id,
				DepartmentCode: deptCode.String,
				DepartmentName: deptName.String,
				MaterialNumber: materialNum.String,
				OnHand:         int(onHand.Int64),
				Location:       location.String,
			}
			if unitCost.Valid {
				if m.UnitCost, err = parseCost(unitCost.String); err != nil {
					return nil, fmt.Errorf("material %s: %w", materialNum.String, err)
				}
			}
			current.LinkedMaterials = append(current.LinkedMaterials, m)
		}
	}
	return out, rows.Err()
}

// GetMaterial retrieves a single department-local material by its material
// number. Returns ErrMaterialNotFound if no such material exists.
func (r *RegistryRepository) GetMaterial(ctx context.Context, materialNumber string) (*models.LinkedMaterial, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+materialColumns+` FROM linked_materials WHERE material_number = $1`, materialNumber)
	m, err := scanMaterial(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", transferdomain.ErrMaterialNotFound, materialNumber)
		}
		return nil, fmt.Errorf("query material: %w", err)
	}
	return m, nil
}

// AdjustOnHand applies a signed delta to a material's on-hand balance. A
// decrement past zero changes nothing and fails with *InsufficientStockError.
func (r *RegistryRepository) AdjustOnHand(ctx context.Context, materialNumber string, delta int) error {
	res, err := r.db.DB().ExecContext(ctx, `
		UPDATE linked_materials SET on_hand = on_hand + $2
		WHERE material_number = $1 AND on_hand + $2 >= 0`,
		materialNumber, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust on-hand: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust on-hand: %w", err)
	}
	if n > 0 {
		return nil
	}

	var onHand int
	err = r.db.DB().QueryRowContext(ctx,
		`SELECT on_hand FROM linked_materials WHERE material_number = $1`, materialNumber,
	).Scan(&onHand)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", transferdomain.ErrMaterialNotFound, materialNumber)
		}
		return fmt.Errorf("read on-hand: %w", err)
	}
	return &transferdomain.InsufficientStockError{
		MaterialNumber: materialNumber,
		OnHand:         onHand,
		Requested:      -delta,
	}
}

func parseCost(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse unit cost %q: %w", s, err)
	}
	return d, nil
}

func scanMaterial(row rowScanner) (*models.LinkedMaterial, error) {
	var m models.LinkedMaterial
	if err := row.Scan(
		&m.GroupID, &m.DepartmentCode, &m.DepartmentName, &m.MaterialNumber,
		&m.OnHand, &m.UnitCost, &m.Location,
	); err != nil {
		return nil, err
	}
	return &m, nil
}
