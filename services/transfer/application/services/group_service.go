package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	pkgcache "github.com/plantops/plantops/pkg/cache"
	"github.com/plantops/plantops/services/transfer/domain/models"
	"github.com/plantops/plantops/services/transfer/domain/repositories"
)

// GroupService serves shared-material-group reads and standalone on-hand
// adjustments. Single-group reads go through the Redis cache; the workflow
// engine bypasses this service entirely and reads live balances from the
// registry.
type GroupService struct {
	registry repositories.MaterialRegistry
	ledger   repositories.Ledger
	cache    *pkgcache.GroupCache
}

// NewGroupService returns a GroupService wired with the given registry,
// ledger, and cache. A nil cache disables the read-through layer.
func NewGroupService(registry repositories.MaterialRegistry, ledger repositories.Ledger, groupCache *pkgcache.GroupCache) *GroupService {
	return &GroupService{registry: registry, ledger: ledger, cache: groupCache}
}

// Get retrieves a group using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query the registry.
//  3. Asynchronously warm the cache with the registry result.
//
// Cached balances may lag completed transfers by up to the cache TTL.
func (s *GroupService) Get(ctx context.Context, id uuid.UUID) (*models.SharedMaterialGroup, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return fromCachedGroup(cached)
		} else if !errors.Is(err, redis.Nil) {
			// Cache error; fall through to the registry.
			_ = err
		}
	}

	group, err := s.registry.GetGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), toCachedGroup(group))
		}()
	}
	return group, nil
}

// List returns all shared material groups with live balances.
func (s *GroupService) List(ctx context.Context) ([]*models.SharedMaterialGroup, error) {
	groups, err := s.registry.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// AdjustOnHand applies a manual on-hand correction (cycle count, receipt)
// to a single department-local material and invalidates the cached group.
func (s *GroupService) AdjustOnHand(ctx context.Context, materialNumber string, delta int) error {
	if err := s.ledger.AdjustOnHand(ctx, materialNumber, delta); err != nil {
		return err
	}
	if s.cache != nil {
		if m, err := s.registry.GetMaterial(ctx, materialNumber); err == nil && m.GroupID != uuid.Nil {
			_ = s.cache.Delete(context.Background(), m.GroupID)
		}
	}
	return nil
}

// InvalidateGroup drops the cached read model for a group. The worker calls
// this when a transfer completes so browse screens converge quickly.
func (s *GroupService) InvalidateGroup(ctx context.Context, id uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, id)
}

func toCachedGroup(g *models.SharedMaterialGroup) *pkgcache.CachedGroup {
	materials := make([]pkgcache.CachedMaterial, 0, len(g.LinkedMaterials))
	for _, m := range g.LinkedMaterials {
		materials = append(materials, pkgcache.CachedMaterial{
			DepartmentCode: m.DepartmentCode,
			DepartmentName: m.DepartmentName,
			MaterialNumber: m.MaterialNumber,
			OnHand:         m.OnHand,
			UnitCost:       m.UnitCost.StringFixed(2),
			Location:       m.Location,
		})
	}
	return &pkgcache.CachedGroup{
		ID:            g.ID,
		Name:          g.Name,
		OEMPartNumber: g.OEMPartNumber,
		Status:        string(g.Status),
		Materials:     materials,
	}
}

func fromCachedGroup(c *pkgcache.CachedGroup) (*models.SharedMaterialGroup, error) {
	materials := make([]models.LinkedMaterial, 0, len(c.Materials))
	for _, m := range c.Materials {
		cost, err := decimal.NewFromString(m.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("cached unit cost for %s: %w", m.MaterialNumber, err)
		}
		materials = append(materials, models.LinkedMaterial{
			GroupID:        c.ID,
			DepartmentCode: m.DepartmentCode,
			DepartmentName: m.DepartmentName,
			MaterialNumber: m.MaterialNumber,
			OnHand:         m.OnHand,
			UnitCost:       cost,
			Location:       m.Location,
		})
	}
	return &models.SharedMaterialGroup{
		ID:              c.ID,
		Name:            c.Name,
		OEMPartNumber:   c.OEMPartNumber,
		Status:          models.GroupStatus(c.Status),
		LinkedMaterials: materials,
	}, nil
}
