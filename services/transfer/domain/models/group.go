package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupStatus marks whether a shared material group is open for transfers.
type GroupStatus string

const (
	GroupActive   GroupStatus = "active"
	GroupInactive GroupStatus = "inactive"
)

// LinkedMaterial is one department's local record of a shared part: its own
// material number, on-hand balance, unit cost, and stocking location.
type LinkedMaterial struct {
	GroupID        uuid.UUID
	DepartmentCode string
	DepartmentName string
	MaterialNumber string
	OnHand         int
	UnitCost       decimal.Decimal
	Location       string
}

// SharedMaterialGroup maps one physical part (identified by the OEM part
// number) to the set of department-local material records that stock it.
// Groups are maintained by inventory administration and are read-only to
// the transfer workflow.
type SharedMaterialGroup struct {
	ID            uuid.UUID
	Name          string
	OEMPartNumber string
	Status        GroupStatus
	// LinkedMaterials is ordered by department code, one entry per department.
	LinkedMaterials []LinkedMaterial
}

// Material returns the linked material with the given material number.
func (g *SharedMaterialGroup) Material(materialNumber string) (*LinkedMaterial, bool) {
	for i := range g.LinkedMaterials {
		if g.LinkedMaterials[i].MaterialNumber == materialNumber {
			return &g.LinkedMaterials[i], true
		}
	}
	return nil, false
}

// EligibleForTransfer reports why the group cannot host a transfer, or nil.
// A group qualifies when it is active and links at least two departments —
// a transfer within a single department is meaningless.
func (g *SharedMaterialGroup) EligibleForTransfer() error {
	if g.Status != GroupActive {
		return fmt.Errorf("group %s is %s", g.Name, g.Status)
	}
	if len(g.LinkedMaterials) < 2 {
		return fmt.Errorf("group %s links %d material(s), need at least 2", g.Name, len(g.LinkedMaterials))
	}
	return nil
}

// Validate checks the structural invariants of a group: non-empty identity,
// one material per department, unique material numbers, and non-negative
// balances and costs.
func (g *SharedMaterialGroup) Validate() error {
	if g.ID == uuid.Nil {
		return fmt.Errorf("group id must be set")
	}
	if g.Name == "" {
		return fmt.Errorf("group name must not be empty")
	}
	if g.OEMPartNumber == "" {
		return fmt.Errorf("oem part number must not be empty")
	}

	seenDept := make(map[string]bool, len(g.LinkedMaterials))
	seenMaterial := make(map[string]bool, len(g.LinkedMaterials))
	for _, m := range g.LinkedMaterials {
		if m.DepartmentCode == "" {
			return fmt.Errorf("linked material %s has no department code", m.MaterialNumber)
		}
		if m.MaterialNumber == "" {
			return fmt.Errorf("department %s has a linked material without a material number", m.DepartmentCode)
		}
		if seenDept[m.DepartmentCode] {
			return fmt.Errorf("department %s appears more than once in group %s", m.DepartmentCode, g.Name)
		}
		if seenMaterial[m.MaterialNumber] {
			return fmt.Errorf("material number %s appears more than once in group %s", m.MaterialNumber, g.Name)
		}
		seenDept[m.DepartmentCode] = true
		seenMaterial[m.MaterialNumber] = true

		if m.OnHand < 0 {
			return fmt.Errorf("material %s has negative on-hand balance %d", m.MaterialNumber, m.OnHand)
		}
		if m.UnitCost.IsNegative() {
			return fmt.Errorf("material %s has negative unit cost %s", m.MaterialNumber, m.UnitCost)
		}
	}
	return nil
}
