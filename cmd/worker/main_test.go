package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Dilyara077/practice-task/pkg/cache"
	"github.com/Dilyara077/practice-task/pkg/logger"
	itemEvents "github.com/Dilyara077/practice-task/services/item/domain/events"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
)

func newDocumentCache(t *testing.T, resource string) *cache.DocumentCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewDocumentCache(cache.WrapClient(rdb), resource, time.Minute)
}

func eventMessage(t *testing.T, evt itemEvents.ItemEvent) *message.Message {
	t.Helper()
	payload, err := json.Marshal(evt)
	if err != nil {
		t.Fatal(err)
	}
	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestHandleItemCreated_WarmsCache(t *testing.T) {
	ctx := context.Background()
	documents := newDocumentCache(t, "products")
	id := models.NewItemID()

	evt := itemEvents.NewItemEvent("products", id, map[string]any{
		models.IDField: id, "name": "Laptop", "price": 999.0,
	})
	if err := handleItemCreated(documents, logger.Nop())(ctx, eventMessage(t, evt)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := documents.Get(ctx, id)
	if err != nil {
		t.Fatalf("expected cached document: %v", err)
	}
	if got["name"] != "Laptop" {
		t.Fatalf("unexpected cached fields %v", got)
	}
	if _, ok := got[models.IDField]; ok {
		t.Fatal("id must not be stored among the cached fields")
	}
}

func TestHandleItemCreated_IgnoresOtherResource(t *testing.T) {
	ctx := context.Background()
	documents := newDocumentCache(t, "products")
	id := models.NewItemID()

	evt := itemEvents.NewItemEvent("items", id, map[string]any{"name": "Book"})
	if err := handleItemCreated(documents, logger.Nop())(ctx, eventMessage(t, evt)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := documents.Get(ctx, id); err != redis.Nil {
		t.Fatalf("expected miss, got %v", err)
	}
}

func TestHandleItemChanged_Evicts(t *testing.T) {
	ctx := context.Background()
	documents := newDocumentCache(t, "products")
	id := models.NewItemID()
	if _, err := documents.Fill(ctx, id, 0, map[string]any{"name": "Laptop"}); err != nil {
		t.Fatal(err)
	}

	evt := itemEvents.NewItemEvent("products", id, nil)
	if err := handleItemChanged(documents, logger.Nop())(ctx, eventMessage(t, evt)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := documents.Get(ctx, id); err != redis.Nil {
		t.Fatalf("expected eviction, got %v", err)
	}
}

func TestHandleItemCreated_LateEventAfterUpdate(t *testing.T) {
	ctx := context.Background()
	documents := newDocumentCache(t, "products")
	id := models.NewItemID()
	changed := handleItemChanged(documents, logger.Nop())
	created := handleItemCreated(documents, logger.Nop())

	if err := changed(ctx, eventMessage(t, itemEvents.NewItemEvent("products", id, nil))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	evt := itemEvents.NewItemEvent("products", id, map[string]any{"name": "Laptop", "price": 1.0})
	if err := created(ctx, eventMessage(t, evt)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := documents.Get(ctx, id); err != redis.Nil {
		t.Fatalf("create-time fields must not be cached after an update, got %v", err)
	}
}

func TestHandlers_RejectMalformedPayload(t *testing.T) {
	documents := newDocumentCache(t, "products")
	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))

	if err := handleItemCreated(documents, logger.Nop())(context.Background(), msg); err == nil {
		t.Fatal("expected decode error from created handler")
	}
	if err := handleItemChanged(documents, logger.Nop())(context.Background(), msg); err == nil {
		t.Fatal("expected decode error from changed handler")
	}
}
