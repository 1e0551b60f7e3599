package services

import (
	"github.com/plantops/plantops/pkg/app"
	"github.com/plantops/plantops/pkg/cache"
	"github.com/plantops/plantops/services/transfer/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Transfer *TransferService
	Group    *GroupService
}

// New wires all transfer application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	transfers := postgres.NewTransferRepository(a.Db, a.EventBus)
	registry := postgres.NewRegistryRepository(a.Db)
	groupCache := cache.NewGroupCache(a.Redis)
	return &Services{
		Transfer: NewTransferService(transfers, registry),
		Group:    NewGroupService(registry, registry, groupCache),
	}
}
