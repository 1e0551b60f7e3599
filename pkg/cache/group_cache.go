package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// GroupCacheTTL bounds staleness of the group read model. Display reads
	// only — on-hand checks in the workflow always hit the database.
	GroupCacheTTL = 15 * time.Minute

	groupCacheKeyPrefix = "group"
)

// CachedMaterial mirrors a department-local material record for display.
type CachedMaterial struct {
	DepartmentCode string `json:"department_code"`
	DepartmentName string `json:"department_name"`
	MaterialNumber string `json:"material_number"`
	OnHand         int    `json:"on_hand"`
	UnitCost       string `json:"unit_cost"` // decimal string, 2 dp
	Location       string `json:"location"`
}

// CachedGroup is the denormalized shared-material-group read model stored in
// Redis as a JSON blob. It backs the mobile group-browse screens; the
// workflow engine never reads balances from here.
type CachedGroup struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	OEMPartNumber string           `json:"oem_part_number"`
	Status        string           `json:"status"`
	Materials     []CachedMaterial `json:"materials"`
	CachedAt      time.Time        `json:"cached_at"`
}

// GroupCache provides read/write operations for group cache entries.
// Key format: "group:{groupID}".
type GroupCache struct {
	client *RedisClient
}

// NewGroupCache creates a GroupCache backed by the given RedisClient.
func NewGroupCache(r *RedisClient) *GroupCache {
	return &GroupCache{client: r}
}

// Get retrieves a cached group. Returns redis.Nil error when the key does
// not exist or has expired.
func (c *GroupCache) Get(ctx context.Context, groupID uuid.UUID) (*CachedGroup, error) {
	data, err := c.client.Client().Get(ctx, c.key(groupID)).Bytes()
	if err != nil {
		return nil, err
	}
	var g CachedGroup
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("cache decode group: %w", err)
	}
	return &g, nil
}

// Set writes a cached group with the standard TTL.
func (c *GroupCache) Set(ctx context.Context, g *CachedGroup) error {
	g.CachedAt = time.Now().UTC()
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("cache encode group: %w", err)
	}
	if err := c.client.Client().Set(ctx, c.key(g.ID), data, GroupCacheTTL).Err(); err != nil {
		return fmt.Errorf("cache set group: %w", err)
	}
	return nil
}

// Delete invalidates a cached group. Called after completed transfers move
// on-hand balances between the group's materials.
func (c *GroupCache) Delete(ctx context.Context, groupID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(groupID)).Err(); err != nil {
		return fmt.Errorf("cache delete group: %w", err)
	}
	return nil
}

func (c *GroupCache) key(groupID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", groupCacheKeyPrefix, groupID)
}
