// Package memory provides an in-memory implementation of the transfer
// persistence interfaces. It backs unit tests and local development without
// Postgres; a single mutex gives it the same serialization guarantees the
// Postgres implementation gets from row locks.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	transferdomain "github.com/plantops/plantops/services/transfer/domain"
	domainevents "github.com/plantops/plantops/services/transfer/domain/events"
	"github.com/plantops/plantops/services/transfer/domain/models"
	"github.com/plantops/plantops/services/transfer/domain/repositories"
)

// PublishedEvent records one event the store would have put on the bus.
type PublishedEvent struct {
	Topic   string
	Payload any
}

// Store implements TransferRepository, MaterialRegistry, and Ledger in
// memory. Published events are captured in order for test assertions.
type Store struct {
	mu        sync.Mutex
	groups    map[uuid.UUID]*models.SharedMaterialGroup
	transfers map[uuid.UUID]*models.Transfer
	events    []PublishedEvent
}

// Interface compliance.
var (
	_ repositories.TransferRepository = (*Store)(nil)
	_ repositories.MaterialRegistry   = (*Store)(nil)
	_ repositories.Ledger             = (*Store)(nil)
)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		groups:    make(map[uuid.UUID]*models.SharedMaterialGroup),
		transfers: make(map[uuid.UUID]*models.Transfer),
	}
}

// AddGroup loads a group into the registry. Fails if the group's structural
// invariants do not hold.
func (s *Store) AddGroup(g *models.SharedMaterialGroup) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %w", transferdomain.ErrValidation, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = copyGroup(g)
	return nil
}

// Events returns the events recorded so far, in publish order.
func (s *Store) Events() []PublishedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PublishedEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Save persists a new pending transfer and records TransferRequestedEvent.
func (s *Store) Save(_ context.Context, t *models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transfers[t.ID]; exists {
		return fmt.Errorf("transfer %s already exists", t.ID)
	}
	stored := *t
	s.transfers[t.ID] = &stored
	s.events = append(s.events, PublishedEvent{
		Topic: domainevents.TopicTransferRequested,
		Payload: domainevents.TransferRequestedEvent{
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
		},
	})
	return nil
}

// GetByID returns a copy of the transfer with the given ID.
func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[id]
	if !ok {
		return nil, transferdomain.ErrTransferNotFound
	}
	out := *t
	return &out, nil
}

// List returns transfers matching the filter, most recent request first.
func (s *Store) List(_ context.Context, f repositories.ListFilter) ([]*models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Transfer
	for _, t := range s.transfers {
		if !matches(t, f) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out, nil
}

// Transition applies a compare-and-set status change under the store lock.
func (s *Store) Transition(
	_ context.Context,
	id uuid.UUID,
	allowedFrom []models.Status,
	to models.Status,
	by string,
	at time.Time,
) (*models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transfers[id]
	if !ok {
		return nil, transferdomain.ErrTransferNotFound
	}
	if !statusIn(t.Status, allowedFrom) {
		return nil, fmt.Errorf("%w: cannot move transfer %s from %s to %s",
			transferdomain.ErrInvalidStateTransition, t.ReferenceNumber, t.Status, to)
	}

	from := t.Status
	t.Status = to
	if to == models.StatusApproved {
		t.ApprovedBy = by
		t.ApprovedAt = &at
	}
	s.recordTransition(t, from, to, by, at)

	out := *t
	return &out, nil
}

// Complete executes an approved transfer atomically: both balance changes
// and the status flip happen under one lock acquisition, or none of them do.
func (s *Store) Complete(_ context.Context, id uuid.UUID, completedBy string, at time.Time) (*models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transfers[id]
	if !ok {
		return nil, transferdomain.ErrTransferNotFound
	}
	if t.Status != models.StatusApproved {
		return nil, fmt.Errorf("%w: cannot complete transfer %s in status %s",
			transferdomain.ErrInvalidStateTransition, t.ReferenceNumber, t.Status)
	}

	from := s.findMaterial(t.FromMaterialNumber)
	if from == nil {
		return nil, fmt.Errorf("%w: %s", transferdomain.ErrMaterialNotFound, t.FromMaterialNumber)
	}
	to := s.findMaterial(t.ToMaterialNumber)
	if to == nil {
		return nil, fmt.Errorf("%w: %s", transferdomain.ErrMaterialNotFound, t.ToMaterialNumber)
	}
	if from.OnHand < t.Quantity {
		return nil, &transferdomain.InsufficientStockError{
			MaterialNumber: from.MaterialNumber,
			OnHand:         from.OnHand,
			Requested:      t.Quantity,
		}
	}

	from.OnHand -= t.Quantity
	to.OnHand += t.Quantity

	prior := t.Status
	t.Status = models.StatusCompleted
	t.CompletedAt = &at
	s.recordTransition(t, prior, models.StatusCompleted, completedBy, at)

	out := *t
	return &out, nil
}

// GetGroup returns a deep copy of the group with the given ID.
func (s *Store) GetGroup(_ context.Context, id uuid.UUID) (*models.SharedMaterialGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, transferdomain.ErrGroupNotFound
	}
	return copyGroup(g), nil
}

// ListGroups returns deep copies of all groups sorted by name.
func (s *Store) ListGroups(_ context.Context) ([]*models.SharedMaterialGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.SharedMaterialGroup, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, copyGroup(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetMaterial returns a copy of the material with the given material number.
func (s *Store) GetMaterial(_ context.Context, materialNumber string) (*models.LinkedMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findMaterial(materialNumber)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", transferdomain.ErrMaterialNotFound, materialNumber)
	}
	out := *m
	return &out, nil
}

// AdjustOnHand applies a signed delta with a floor of zero.
func (s *Store) AdjustOnHand(_ context.Context, materialNumber string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findMaterial(materialNumber)
	if m == nil {
		return fmt.Errorf("%w: %s", transferdomain.ErrMaterialNotFound, materialNumber)
	}
	if m.OnHand+delta < 0 {
		return &transferdomain.InsufficientStockError{
			MaterialNumber: materialNumber,
			OnHand:         m.OnHand,
			Requested:      -delta,
		}
	}
	m.OnHand += delta
	return nil
}

// findMaterial returns the live material record; callers hold s.mu.
func (s *Store) findMaterial(materialNumber string) *models.LinkedMaterial {
	for _, g := range s.groups {
		if m, ok := g.Material(materialNumber); ok {
			return m
		}
	}
	return nil
}

func (s *Store) recordTransition(t *models.Transfer, from, to models.Status, actor string, at time.Time) {
	s.events = append(s.events, PublishedEvent{
		Topic: topicForStatus(to),
		Payload: domainevents.TransferTransitionedEvent{
			EventID:         uuid.New(),
			Version:         1,
			TransferID:      t.ID,
			ReferenceNumber: t.ReferenceNumber,
			SharedGroupID:   t.SharedGroupID,
			FromStatus:      from.String(),
			ToStatus:        to.String(),
			Actor:           actor,
			OccurredAt:      at,
		},
	})
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

func statusIn(s models.Status, set []models.Status) bool {
	for _, allowed := range set {
		if s == allowed {
			return true
		}
	}
	return false
}

func matches(t *models.Transfer, f repositories.ListFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Department != "" && !t.InvolvesDepartment(f.Department) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystacks := []string{t.ReferenceNumber, t.FromMaterialNumber, t.ToMaterialNumber, t.RequestedBy}
		found := false
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func copyGroup(g *models.SharedMaterialGroup) *models.SharedMaterialGroup {
	cp := *g
	cp.LinkedMaterials = make([]models.LinkedMaterial, len(g.LinkedMaterials))
	copy(cp.LinkedMaterials, g.LinkedMaterials)
	return &cp
}
