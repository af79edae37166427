package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/Dilyara077/practice-task/pkg/cache"
	"github.com/Dilyara077/practice-task/pkg/logger"
	domainevents "github.com/Dilyara077/practice-task/services/item/domain/events"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
	"github.com/Dilyara077/practice-task/services/item/domain/query"
	"github.com/Dilyara077/practice-task/services/item/domain/repositories"
	domainsvcs "github.com/Dilyara077/practice-task/services/item/domain/services"
)

// EventPublisher is the slice of the event bus the service needs.
type EventPublisher interface {
	PublishJSON(ctx context.Context, topic string, payload any) error
}

// ItemServiceConfig carries the collaborators of an ItemService.
// Cache and Events may be nil.
type ItemServiceConfig struct {
	Repo           repositories.ItemRepository
	Cache          *pkgcache.DocumentCache
	Events         EventPublisher
	Logger         logger.Logger
	Resource       string
	RequiredFields []string
}

// ItemService orchestrates reads and writes of one document collection.
// Every id-based operation validates the id before touching storage.
// Reads are served from Redis cache when available; writes evict the cached
// copy and then publish a change event. Neither the cache nor the bus can
// fail a request whose storage call succeeded.
type ItemService struct {
	repo     repositories.ItemRepository
	cache    *pkgcache.DocumentCache
	events   EventPublisher
	log      logger.Logger
	resource string
	required []string

	fills sync.WaitGroup
}

// NewItemService returns an ItemService wired with the given collaborators.
func NewItemService(cfg ItemServiceConfig) *ItemService {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &ItemService{
		repo:     cfg.Repo,
		cache:    cfg.Cache,
		events:   cfg.Events,
		log:      log,
		resource: cfg.Resource,
		required: cfg.RequiredFields,
	}
}

// Resource returns the collection name this service manages.
func (s *ItemService) Resource() string { return s.resource }

// RequiredFields returns the fields create and replace must carry.
func (s *ItemService) RequiredFields() []string { return s.required }

// List returns every document matching c, in the order c requests.
func (s *ItemService) List(ctx context.Context, c query.Criteria) ([]models.Item, error) {
	items, err := s.repo.Find(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.resource, err)
	}
	return items, nil
}

// Get retrieves a document using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On a miss, note the cache's write generation, then query the store.
//  3. Fill the cache in the background, guarded by that generation so a
//     write that lands meanwhile wins.
func (s *ItemService) Get(ctx context.Context, id string) (*models.Item, error) {
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}

	fill := false
	var gen int64
	if s.cache != nil {
		fields, err := s.cache.Get(ctx, id)
		if err == nil {
			return &models.Item{ID: id, Fields: fields}, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "cache read failed", "item_id", id, "error", err)
		}
		if gen, err = s.cache.Generation(ctx, id); err == nil {
			fill = true
		}
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if fill {
		s.fills.Add(1)
		go func(fields map[string]any) {
			defer s.fills.Done()
			written, err := s.cache.Fill(context.Background(), id, gen, fields)
			switch {
			case err != nil:
				s.log.Warn("cache fill failed", "item_id", id, "error", err)
			case !written:
				s.log.Debug("cache fill skipped after concurrent write", "item_id", id)
			}
		}(item.Fields)
	}

	return item, nil
}

// Wait blocks until background cache fills have finished.
func (s *ItemService) Wait() {
	s.fills.Wait()
}

// Create stores a new document built from fields and returns it with its
// storage-assigned id.
func (s *ItemService) Create(ctx context.Context, fields map[string]any) (*models.Item, error) {
	if err := domainsvcs.ValidateForWrite(fields, s.required); err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	item := &models.Item{ID: id, Fields: fields}
	s.publish(ctx, domainevents.TopicItemCreated, id, fields)
	return item, nil
}

// Replace overwrites the required field set of an existing document. Other
// stored fields are left in place.
func (s *ItemService) Replace(ctx context.Context, id string, fields map[string]any) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}
	if err := domainsvcs.ValidateForWrite(fields, s.required); err != nil {
		return err
	}
	return s.write(ctx, id, fields)
}

// Update merges body into an existing document. Identifier keys are ignored
// and a body with nothing else to set is rejected.
func (s *ItemService) Update(ctx context.Context, id string, body map[string]any) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}
	fields, err := domainsvcs.SanitizePatch(body)
	if err != nil {
		return err
	}
	return s.write(ctx, id, fields)
}

func (s *ItemService) write(ctx context.Context, id string, fields map[string]any) error {
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	s.evict(ctx, id)
	s.publish(ctx, domainevents.TopicItemUpdated, id, nil)
	return nil
}

// Delete removes a document permanently.
// Returns ErrItemNotFound if no matching document exists.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	id, err := canonicalID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.evict(ctx, id)
	s.publish(ctx, domainevents.TopicItemDeleted, id, nil)
	return nil
}

// Ping checks the storage collaborator.
func (s *ItemService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *ItemService) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.WarnContext(ctx, "cache evict failed", "item_id", id, "error", err)
	}
}

// canonicalID validates id and returns its lowercase hex spelling, the only
// form stores and cache keys ever see.
func canonicalID(id string) (string, error) {
	oid, err := models.ParseItemID(id)
	if err != nil {
		return "", err
	}
	return oid.Hex(), nil
}

func (s *ItemService) publish(ctx context.Context, topic, id string, document map[string]any) {
	if s.events == nil {
		return
	}
	event := domainevents.NewItemEvent(s.resource, id, document)
	if err := s.events.PublishJSON(ctx, topic, event); err != nil {
		s.log.ErrorContext(ctx, "event publish failed", "topic", topic, "item_id", id, "error", err)
	}
}
