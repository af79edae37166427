package services

import (
	"github.com/Dilyara077/practice-task/pkg/app"
	"github.com/Dilyara077/practice-task/pkg/cache"
	"github.com/Dilyara077/practice-task/services/item/domain/repositories"
	"github.com/Dilyara077/practice-task/services/item/infrastructure/persistence/instrumented"
	"github.com/Dilyara077/practice-task/services/item/infrastructure/persistence/memory"
	"github.com/Dilyara077/practice-task/services/item/infrastructure/persistence/mongodb"
	"github.com/Dilyara077/practice-task/services/item/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	cfg := a.Config
	repo := newRepository(a)

	var pub EventPublisher
	if a.EventBus != nil {
		pub = a.EventBus
	}

	return &Services{
		Item: NewItemService(ItemServiceConfig{
			Repo:           repo,
			Cache:          cache.NewDocumentCache(a.Redis, cfg.ResourceName, cfg.CacheTTL),
			Events:         pub,
			Logger:         a.Logger,
			Resource:       cfg.ResourceName,
			RequiredFields: cfg.RequiredFieldList(),
		}),
	}
}

// newRepository picks the store matching the connected client.
func newRepository(a *app.Application) repositories.ItemRepository {
	var repo repositories.ItemRepository
	switch {
	case a.Mongo != nil:
		repo = mongodb.NewItemRepository(a.Mongo.Collection(a.Config.ResourceName))
	case a.Db != nil:
		repo = postgres.NewItemRepository(a.Db, a.Config.ResourceName)
	default:
		repo = memory.NewItemRepository()
	}
	if a.Metrics != nil {
		repo = instrumented.Wrap(repo, a.Metrics)
	}
	return repo
}
